package collection

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"bodylog/internal/models"
)

// fakeSource is an in-memory Source holding rows newest first per owner.
type fakeSource struct {
	mu         sync.Mutex
	rows       map[uint][]models.Measurement
	nextID     uint
	fetchErr   error
	insertErr  error
	deleteErr  error
	fetchCalls int
	onFetch    func()
}

func newFakeSource() *fakeSource {
	return &fakeSource{rows: make(map[uint][]models.Measurement), nextID: 1}
}

func (s *fakeSource) seed(ownerID uint, count int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	base := time.Date(2024, 3, 1, 8, 0, 0, 0, time.Local)
	for i := count - 1; i >= 0; i-- {
		s.rows[ownerID] = append(s.rows[ownerID], models.Measurement{
			ID:         s.nextID,
			UserID:     ownerID,
			MeasuredAt: base.Add(time.Duration(i) * time.Hour),
			WeightKg:   70.0,
		})
		s.nextID++
	}
}

func (s *fakeSource) FetchPage(ownerID uint, offset, limit int) ([]models.Measurement, int64, error) {
	if s.onFetch != nil {
		s.onFetch()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetchCalls++
	if s.fetchErr != nil {
		return nil, 0, s.fetchErr
	}

	all := s.rows[ownerID]
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	page := make([]models.Measurement, end-offset)
	copy(page, all[offset:end])
	return page, total, nil
}

func (s *fakeSource) Insert(measurement *models.Measurement) (*models.Measurement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.insertErr != nil {
		return nil, s.insertErr
	}

	stored := *measurement
	stored.ID = s.nextID
	s.nextID++
	stored.CreatedAt = time.Now()

	owner := stored.UserID
	rows := s.rows[owner]
	idx := 0
	for idx < len(rows) && !rows[idx].MeasuredAt.Before(stored.MeasuredAt) {
		idx++
	}
	rows = append(rows, models.Measurement{})
	copy(rows[idx+1:], rows[idx:])
	rows[idx] = stored
	s.rows[owner] = rows

	return &stored, nil
}

func (s *fakeSource) Delete(id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deleteErr != nil {
		return s.deleteErr
	}
	for owner, rows := range s.rows {
		kept := rows[:0]
		for _, r := range rows {
			if r.ID != id {
				kept = append(kept, r)
			}
		}
		s.rows[owner] = kept
	}
	return nil
}

func TestLoadPagination(t *testing.T) {
	source := newFakeSource()
	source.seed(1, 25)
	mgr := NewManager(source, 1, 10)

	mgr.Refresh()
	assert.Len(t, mgr.Records(), 10)
	assert.Equal(t, int64(25), mgr.TotalCount())
	assert.True(t, mgr.HasMore())

	mgr.LoadMore()
	assert.Len(t, mgr.Records(), 20)
	assert.True(t, mgr.HasMore())

	mgr.LoadMore()
	assert.Len(t, mgr.Records(), 25)
	assert.False(t, mgr.HasMore())

	// Pages were appended in order, newest first.
	records := mgr.Records()
	for i := 1; i < len(records); i++ {
		assert.False(t, records[i-1].MeasuredAt.Before(records[i].MeasuredAt),
			"records must stay ordered newest first")
	}
}

func TestRefreshReplacesWindow(t *testing.T) {
	source := newFakeSource()
	source.seed(1, 25)
	mgr := NewManager(source, 1, 10)

	mgr.Refresh()
	mgr.LoadMore()
	assert.Len(t, mgr.Records(), 20)

	mgr.Refresh()
	assert.Len(t, mgr.Records(), 10)
	assert.True(t, mgr.HasMore())
}

func TestLoadWithoutOwnerIsNoOp(t *testing.T) {
	source := newFakeSource()
	mgr := NewManager(source, 0, 10)

	mgr.Refresh()
	assert.Empty(t, mgr.Records())
	assert.Equal(t, 0, source.fetchCalls)
}

func TestLoadErrorAbsorbed(t *testing.T) {
	source := newFakeSource()
	source.seed(1, 5)
	mgr := NewManager(source, 1, 10)

	mgr.Refresh()
	assert.Len(t, mgr.Records(), 5)

	source.fetchErr = errors.New("connection refused")
	mgr.Refresh()
	assert.Len(t, mgr.Records(), 5, "a failed load must not touch the records")
	assert.Contains(t, mgr.LastError(), "connection refused")
	assert.False(t, mgr.Loading())
	assert.False(t, mgr.LoadingMore())

	source.fetchErr = nil
	mgr.Refresh()
	assert.Empty(t, mgr.LastError(), "a successful load clears the error")
}

func TestOverlappingLoadMoreIsNoOp(t *testing.T) {
	source := newFakeSource()
	source.seed(1, 25)
	mgr := NewManager(source, 1, 10)
	mgr.Refresh()

	// Fire a second LoadMore while the first is still inside FetchPage.
	reentered := false
	source.onFetch = func() {
		if !reentered {
			reentered = true
			mgr.LoadMore()
		}
	}
	mgr.LoadMore()
	source.onFetch = nil

	assert.True(t, reentered)
	assert.Len(t, mgr.Records(), 20, "the nested call must not advance the cursor")
	assert.Equal(t, 2, source.fetchCalls)
}

func TestBusyFlagDuringLoad(t *testing.T) {
	source := newFakeSource()
	source.seed(1, 5)
	mgr := NewManager(source, 1, 10)

	var sawLoading, sawLoadingMore bool
	source.onFetch = func() {
		sawLoading = mgr.Loading()
		sawLoadingMore = mgr.LoadingMore()
	}
	mgr.Refresh()

	assert.True(t, sawLoading)
	assert.False(t, sawLoadingMore, "at most one busy flag may be set")
	assert.False(t, mgr.Loading(), "flags clear on completion")
}

func TestCreatePrependsNewest(t *testing.T) {
	source := newFakeSource()
	source.seed(1, 3)
	mgr := NewManager(source, 1, 10)
	mgr.Refresh()

	before := mgr.TotalCount()
	stored, err := mgr.Create(models.Measurement{
		UserID:     1,
		MeasuredAt: time.Now(),
		WeightKg:   71.5,
	})

	assert.NoError(t, err)
	assert.NotZero(t, stored.ID)
	records := mgr.Records()
	assert.Len(t, records, 4)
	assert.Equal(t, stored.ID, records[0].ID, "a fresh measurement lands at index 0")
	assert.Equal(t, before+1, mgr.TotalCount())
}

func TestCreateBackdatedKeepsOrdering(t *testing.T) {
	source := newFakeSource()
	source.seed(1, 3)
	mgr := NewManager(source, 1, 10)
	mgr.Refresh()

	oldest := mgr.Records()[2]
	backdated := oldest.MeasuredAt.Add(-24 * time.Hour)
	stored, err := mgr.Create(models.Measurement{
		UserID:     1,
		MeasuredAt: backdated,
		WeightKg:   69.0,
	})

	assert.NoError(t, err)
	records := mgr.Records()
	assert.Len(t, records, 4)
	assert.Equal(t, stored.ID, records[3].ID, "a backdated measurement is spliced into place")
	for i := 1; i < len(records); i++ {
		assert.False(t, records[i-1].MeasuredAt.Before(records[i].MeasuredAt))
	}
}

func TestCreateErrorLeavesStateUntouched(t *testing.T) {
	source := newFakeSource()
	source.seed(1, 3)
	mgr := NewManager(source, 1, 10)
	mgr.Refresh()

	source.insertErr = errors.New("insert failed")
	_, err := mgr.Create(models.Measurement{UserID: 1, MeasuredAt: time.Now(), WeightKg: 70})

	assert.Error(t, err)
	assert.Len(t, mgr.Records(), 3)
	assert.Equal(t, int64(3), mgr.TotalCount())
}

func TestRemoveDeletesAndDecrements(t *testing.T) {
	source := newFakeSource()
	source.seed(1, 3)
	mgr := NewManager(source, 1, 10)
	mgr.Refresh()

	victim := mgr.Records()[1]
	err := mgr.Remove(victim.ID)

	assert.NoError(t, err)
	records := mgr.Records()
	assert.Len(t, records, 2)
	for _, r := range records {
		assert.NotEqual(t, victim.ID, r.ID)
	}
	assert.Equal(t, int64(2), mgr.TotalCount())
}

func TestRemoveUnknownIDIsNoOpFilter(t *testing.T) {
	source := newFakeSource()
	mgr := NewManager(source, 1, 10)

	err := mgr.Remove(999)

	assert.NoError(t, err)
	assert.Empty(t, mgr.Records())
	assert.Equal(t, int64(0), mgr.TotalCount(), "total count is floored at zero")
}

func TestRemoveErrorLeavesStateUntouched(t *testing.T) {
	source := newFakeSource()
	source.seed(1, 3)
	mgr := NewManager(source, 1, 10)
	mgr.Refresh()

	source.deleteErr = errors.New("delete failed")
	err := mgr.Remove(mgr.Records()[0].ID)

	assert.Error(t, err)
	assert.Len(t, mgr.Records(), 3)
	assert.Equal(t, int64(3), mgr.TotalCount())
}

func TestLatest(t *testing.T) {
	source := newFakeSource()
	mgr := NewManager(source, 1, 10)
	assert.Nil(t, mgr.Latest())

	source.seed(1, 3)
	mgr.Refresh()
	latest := mgr.Latest()
	assert.NotNil(t, latest)
	assert.Equal(t, mgr.Records()[0].ID, latest.ID)
}

func TestSetOwnerReloads(t *testing.T) {
	source := newFakeSource()
	source.seed(1, 5)
	source.seed(2, 2)
	mgr := NewManager(source, 1, 10)
	mgr.Refresh()
	assert.Len(t, mgr.Records(), 5)

	mgr.SetOwner(2)
	assert.Equal(t, uint(2), mgr.OwnerID())
	assert.Len(t, mgr.Records(), 2)
	assert.Equal(t, int64(2), mgr.TotalCount())
}

func TestSetOwnerDropsStaleResult(t *testing.T) {
	source := newFakeSource()
	source.seed(1, 5)
	source.seed(2, 2)
	mgr := NewManager(source, 1, 10)

	// Switch owners while the owner-1 fetch is in flight; its result must be
	// dropped on arrival instead of populating the owner-2 window.
	switched := false
	source.onFetch = func() {
		if !switched {
			switched = true
			mgr.SetOwner(2)
		}
	}
	mgr.Refresh()
	source.onFetch = nil

	assert.Equal(t, uint(2), mgr.OwnerID())
	assert.Empty(t, mgr.Records(), "the stale owner-1 page is discarded")

	mgr.Refresh()
	assert.Len(t, mgr.Records(), 2)
}

func TestHasMoreTracksWindowAgainstTotal(t *testing.T) {
	source := newFakeSource()
	mgr := NewManager(source, 1, 10)
	assert.False(t, mgr.HasMore())

	source.seed(1, 11)
	mgr.Refresh()
	assert.True(t, mgr.HasMore())

	mgr.LoadMore()
	assert.False(t, mgr.HasMore())

	_, err := mgr.Create(models.Measurement{UserID: 1, MeasuredAt: time.Now(), WeightKg: 70})
	assert.NoError(t, err)
	assert.False(t, mgr.HasMore(), "create keeps the window and the total in step")
}

func TestWindowNeverExceedsTotal(t *testing.T) {
	source := newFakeSource()
	source.seed(1, 25)
	mgr := NewManager(source, 1, 10)

	mgr.Refresh()
	for i := 0; i < 5; i++ {
		mgr.LoadMore()
		assert.LessOrEqual(t, int64(len(mgr.Records())), mgr.TotalCount(),
			fmt.Sprintf("window exceeded total after LoadMore %d", i+1))
	}
	assert.Len(t, mgr.Records(), 25)
}
