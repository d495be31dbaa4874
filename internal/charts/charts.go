// Package charts shapes measurement lists into series for line charts.
package charts

import (
	"math"
	"sort"
	"time"

	"bodylog/internal/models"
)

// Metric selects which measurement field a series is built from.
type Metric string

const (
	MetricWeight          Metric = "weight"
	MetricBodyFat         Metric = "body_fat"
	MetricBodyWater       Metric = "body_water"
	MetricMuscleMass      Metric = "muscle_mass"
	MetricBoneMass        Metric = "bone_mass"
	MetricRecommendedKcal Metric = "recommended_kcal"
	MetricBMI             Metric = "bmi"
)

// ParseMetric maps a metric name to its Metric, reporting whether the name
// is known.
func ParseMetric(name string) (Metric, bool) {
	switch Metric(name) {
	case MetricWeight, MetricBodyFat, MetricBodyWater, MetricMuscleMass,
		MetricBoneMass, MetricRecommendedKcal, MetricBMI:
		return Metric(name), true
	}
	return "", false
}

// Value extracts the metric's value from a measurement. ok is false when the
// scale did not report that metric for this reading.
func (m Metric) Value(rec models.Measurement) (float64, bool) {
	switch m {
	case MetricWeight:
		return rec.WeightKg, true
	case MetricBodyFat:
		return deref(rec.BodyFatPct)
	case MetricBodyWater:
		return deref(rec.BodyWaterPct)
	case MetricMuscleMass:
		return deref(rec.MuscleMassPct)
	case MetricBoneMass:
		return deref(rec.BoneMassPct)
	case MetricRecommendedKcal:
		if rec.RecommendedKcal == nil {
			return 0, false
		}
		return float64(*rec.RecommendedKcal), true
	case MetricBMI:
		return deref(rec.BMI)
	}
	return 0, false
}

func deref(v *float64) (float64, bool) {
	if v == nil {
		return 0, false
	}
	return *v, true
}

// Point is one chart data point. When multiple same-day readings were
// averaged into it, IsAverage is set and Count carries the reading count.
type Point struct {
	Date      time.Time `json:"date"`
	Value     float64   `json:"value"`
	Label     string    `json:"label"`
	IsAverage bool      `json:"is_average"`
	Count     int       `json:"count"`
}

// DailySeries buckets measurements by local calendar day, averages the
// metric within each day (mean, one decimal), and returns at most the
// maxDays most recent buckets in ascending chronological order. Days are
// resolved in the server's local timezone. Readings that do not carry the
// metric are skipped; a nil or empty input yields an empty series.
func DailySeries(records []models.Measurement, metric Metric, maxDays int) []Point {
	if len(records) == 0 || maxDays <= 0 {
		return []Point{}
	}

	type bucket struct {
		day   time.Time
		sum   float64
		count int
	}
	buckets := make(map[string]*bucket)

	for _, rec := range records {
		value, ok := metric.Value(rec)
		if !ok {
			continue
		}
		local := rec.MeasuredAt.In(time.Local)
		key := local.Format("2006-01-02")
		b, exists := buckets[key]
		if !exists {
			day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.Local)
			b = &bucket{day: day}
			buckets[key] = b
		}
		b.sum += value
		b.count++
	}

	if len(buckets) == 0 {
		return []Point{}
	}

	days := make([]*bucket, 0, len(buckets))
	for _, b := range buckets {
		days = append(days, b)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].day.Before(days[j].day) })

	if len(days) > maxDays {
		days = days[len(days)-maxDays:]
	}

	points := make([]Point, 0, len(days))
	for _, b := range days {
		points = append(points, Point{
			Date:      b.day,
			Value:     round1(b.sum / float64(b.count)),
			Label:     b.day.Format("Jan 2"),
			IsAverage: b.count > 1,
			Count:     b.count,
		})
	}
	return points
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
