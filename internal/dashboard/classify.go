package dashboard

import (
	"strings"
	"time"

	"manometer-backend/internal/model"
)

// ExpiringWindow is the forward interval counted as "expiring soon".
const ExpiringWindow = 30 * 24 * time.Hour

// Bucket is the validity classification of a gauge.
type Bucket string

const (
	BucketExpired  Bucket = "expired"
	BucketExpiring Bucket = "expiring"
	BucketCurrent  Bucket = "current"
)

// Label is the human readable bucket name.
func (b Bucket) Label() string {
	switch b {
	case BucketExpired:
		return "Expired"
	case BucketExpiring:
		return "Expiring soon"
	default:
		return "Up to date"
	}
}

// Summary holds the dashboard counters. Every gauge lands in exactly one of
// Expired, ExpiringIn30Days and UpToDate.
type Summary struct {
	Total            int `json:"total"`
	Expired          int `json:"expired"`
	ExpiringIn30Days int `json:"expiringIn30Days"`
	UpToDate         int `json:"upToDate"`
}

// Classify buckets a gauge relative to now. Both edges of the expiring window
// are inclusive. Gauges without a validity date count as current.
func Classify(g model.Gauge, now time.Time) Bucket {
	validity := g.ValidityDate.Time
	if validity.IsZero() {
		return BucketCurrent
	}
	if validity.Before(now) {
		return BucketExpired
	}
	if !validity.After(now.Add(ExpiringWindow)) {
		return BucketExpiring
	}
	return BucketCurrent
}

// Summarize counts gauges per bucket using a single now.
func Summarize(gauges []model.Gauge, now time.Time) Summary {
	s := Summary{Total: len(gauges)}
	for _, g := range gauges {
		switch Classify(g, now) {
		case BucketExpired:
			s.Expired++
		case BucketExpiring:
			s.ExpiringIn30Days++
		}
	}
	s.UpToDate = s.Total - s.Expired - s.ExpiringIn30Days
	return s
}

// Filter keeps gauges whose serial number, manufacturer or location contains
// term, ignoring case. An empty term keeps everything.
func Filter(gauges []model.Gauge, term string) []model.Gauge {
	term = strings.ToLower(term)
	if term == "" {
		return gauges
	}

	matched := make([]model.Gauge, 0, len(gauges))
	for _, g := range gauges {
		if strings.Contains(strings.ToLower(g.SerialNumber), term) ||
			strings.Contains(strings.ToLower(g.Manufacturer), term) ||
			strings.Contains(strings.ToLower(g.Location), term) {
			matched = append(matched, g)
		}
	}
	return matched
}
