package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"manometer-backend/internal/db"
	"manometer-backend/internal/model"
)

// GaugeStore defines the gauge repository operations.
type GaugeStore interface {
	List(ctx context.Context) ([]model.Gauge, error)
	Create(ctx context.Context, fields model.GaugeFields) (*model.Gauge, error)
	Update(ctx context.Context, id string, fields model.GaugeFields) (*model.Gauge, error)
	Delete(ctx context.Context, id string) error
}

// gormStore implements the GaugeStore interface using GORM.
type gormStore struct {
	db  *gorm.DB
	now func() time.Time
}

// Option configures a gormStore.
type Option func(*gormStore)

// WithClock replaces the wall clock used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *gormStore) { s.now = now }
}

// NewGormStore creates a new GORM-backed store on an established handle.
func NewGormStore(gdb *gorm.DB, opts ...Option) GaugeStore {
	s := &gormStore{db: gdb, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// timestamp truncates to microseconds so values survive a round trip
// through postgres unchanged.
func (s *gormStore) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

func (s *gormStore) session(ctx context.Context) (*gorm.DB, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(ctx, db.QueryTimeout)
	return s.db.WithContext(ctx), cancel
}

// List returns every gauge in store order.
func (s *gormStore) List(ctx context.Context) ([]model.Gauge, error) {
	tx, cancel := s.session(ctx)
	defer cancel()

	gauges := make([]model.Gauge, 0)
	if err := tx.Find(&gauges).Error; err != nil {
		return nil, &StoreError{Op: "list", Err: err}
	}
	return gauges, nil
}

// Create inserts a new gauge built from the supplied fields.
func (s *gormStore) Create(ctx context.Context, fields model.GaugeFields) (*model.Gauge, error) {
	if fields.IsEmpty() {
		return nil, &ValidationError{Message: "gauge data is required"}
	}
	if err := fields.Validate(); err != nil {
		return nil, &ValidationError{Field: "status", Message: err.Error()}
	}

	now := s.timestamp()
	gauge := model.Gauge{
		Status:    model.StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	fields.Apply(&gauge)

	tx, cancel := s.session(ctx)
	defer cancel()

	if err := tx.Create(&gauge).Error; err != nil {
		return nil, &StoreError{Op: "create", Err: err}
	}
	return &gauge, nil
}

// Update merges the supplied fields into an existing gauge and returns the
// record as stored afterwards.
func (s *gormStore) Update(ctx context.Context, id string, fields model.GaugeFields) (*model.Gauge, error) {
	id, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	if err := fields.Validate(); err != nil {
		return nil, &ValidationError{Field: "status", Message: err.Error()}
	}

	cols := fields.Columns()
	cols["updated_at"] = s.timestamp()

	tx, cancel := s.session(ctx)
	defer cancel()

	result := tx.Model(&model.Gauge{}).Where("id = ?", id).Updates(cols)
	if result.Error != nil {
		return nil, &StoreError{Op: "update", Err: result.Error}
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}

	var gauge model.Gauge
	if err := tx.First(&gauge, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, &StoreError{Op: "reload", Err: err}
	}
	return &gauge, nil
}

// Delete removes a gauge permanently.
func (s *gormStore) Delete(ctx context.Context, id string) error {
	id, err := ParseID(id)
	if err != nil {
		return err
	}

	tx, cancel := s.session(ctx)
	defer cancel()

	result := tx.Where("id = ?", id).Delete(&model.Gauge{})
	if result.Error != nil {
		return &StoreError{Op: "delete", Err: result.Error}
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
