// Package collection maintains a paginated, newest-first in-memory view of
// one user's measurements and keeps it consistent across inserts and deletes
// without requiring a full refetch.
package collection

import (
	"fmt"
	"sort"
	"sync"

	"bodylog/internal/models"
)

// Source is the remote store the collection loads from. Implementations must
// return pages ordered by measured_at descending together with the total
// record count for the owner.
type Source interface {
	FetchPage(ownerID uint, offset, limit int) ([]models.Measurement, int64, error)
	Insert(measurement *models.Measurement) (*models.Measurement, error)
	Delete(id uint) error
}

const DefaultPageSize = 10

// Manager holds the loaded window of one owner's measurements. All methods
// are safe for concurrent use; overlapping loads are rejected rather than
// queued, so a second LoadMore while one is in flight is a no-op.
type Manager struct {
	mu       sync.Mutex
	source   Source
	ownerID  uint
	pageSize int
	gen      uint64

	records    []models.Measurement
	totalCount int64
	page       int

	loading     bool
	loadingMore bool
	lastErr     string
}

func NewManager(source Source, ownerID uint, pageSize int) *Manager {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Manager{
		source:   source,
		ownerID:  ownerID,
		pageSize: pageSize,
	}
}

// Load fetches one page from the source. reset replaces the loaded window
// with the first page; otherwise the next page is appended and the cursor
// advances. The total count is refreshed from the source on every call.
// Fetch errors are absorbed into LastError and never touch the records.
func (m *Manager) Load(reset bool) {
	m.mu.Lock()
	if m.ownerID == 0 {
		m.mu.Unlock()
		return
	}
	if m.loading || m.loadingMore {
		m.mu.Unlock()
		return
	}
	offset := 0
	if !reset {
		offset = m.page * m.pageSize
	}
	if reset {
		m.loading = true
	} else {
		m.loadingMore = true
	}
	owner := m.ownerID
	limit := m.pageSize
	gen := m.gen
	m.mu.Unlock()

	rows, total, err := m.source.FetchPage(owner, offset, limit)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.loading = false
	m.loadingMore = false

	// The owner changed while the request was in flight; the result is
	// stale and must be dropped.
	if gen != m.gen {
		return
	}

	if err != nil {
		m.lastErr = fmt.Sprintf("failed to load measurements: %v", err)
		return
	}

	m.lastErr = ""
	m.totalCount = total
	if reset {
		m.records = rows
		m.page = 1
	} else {
		m.records = append(m.records, rows...)
		m.page++
	}
}

// LoadMore appends the next page. No-op while any load is in flight.
func (m *Manager) LoadMore() {
	m.Load(false)
}

// Refresh discards the loaded window and fetches the first page again.
func (m *Manager) Refresh() {
	m.Load(true)
}

// SetOwner switches the collection to a different owner and reloads from
// scratch. An in-flight load for the previous owner is discarded on arrival.
func (m *Manager) SetOwner(ownerID uint) {
	m.mu.Lock()
	if m.ownerID == ownerID {
		m.mu.Unlock()
		return
	}
	m.ownerID = ownerID
	m.gen++
	m.records = nil
	m.totalCount = 0
	m.page = 0
	m.lastErr = ""
	m.mu.Unlock()

	m.Refresh()
}

// Create inserts a measurement through the source and splices the stored row
// (with its server-assigned fields) into the window at its position by
// measured_at descending, so a backdated timestamp cannot break the
// newest-first ordering. The error is returned to the caller; on failure the
// window is untouched.
func (m *Manager) Create(payload models.Measurement) (*models.Measurement, error) {
	stored, err := m.source.Insert(&payload)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	idx := sort.Search(len(m.records), func(i int) bool {
		return m.records[i].MeasuredAt.Before(stored.MeasuredAt)
	})
	m.records = append(m.records, models.Measurement{})
	copy(m.records[idx+1:], m.records[idx:])
	m.records[idx] = *stored
	m.totalCount++

	return stored, nil
}

// Remove deletes a measurement through the source and filters it out of the
// window. An id that is not loaded locally is a no-op filter, not an error.
func (m *Manager) Remove(id uint) error {
	if err := m.source.Delete(id); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.records[:0]
	for _, rec := range m.records {
		if rec.ID != id {
			kept = append(kept, rec)
		}
	}
	m.records = kept
	if m.totalCount > 0 {
		m.totalCount--
	}
	return nil
}

// Records returns a copy of the loaded window, newest first.
func (m *Manager) Records() []models.Measurement {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Measurement, len(m.records))
	copy(out, m.records)
	return out
}

// Latest returns the newest loaded measurement, or nil when none is loaded.
func (m *Manager) Latest() *models.Measurement {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.records) == 0 {
		return nil
	}
	latest := m.records[0]
	return &latest
}

func (m *Manager) TotalCount() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.totalCount
}

// HasMore reports whether the remote store holds records beyond the loaded
// window.
func (m *Manager) HasMore() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.records)) < m.totalCount
}

func (m *Manager) Loading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loading
}

func (m *Manager) LoadingMore() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loadingMore
}

// LastError returns the message of the last failed load, or "" after a
// successful one.
func (m *Manager) LastError() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastErr
}

func (m *Manager) OwnerID() uint {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ownerID
}
