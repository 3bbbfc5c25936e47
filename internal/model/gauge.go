package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Status is the operational state of a gauge.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	return s == StatusActive || s == StatusInactive
}

// Gauge is a pressure gauge calibration record.
type Gauge struct {
	ID               string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	SerialNumber     string    `gorm:"size:128" json:"serialNumber"`
	Manufacturer     string    `gorm:"size:128" json:"manufacturer"`
	Model            string    `gorm:"size:128" json:"model"`
	MeasurementRange string    `gorm:"size:128" json:"measurementRange"`
	Precision        string    `gorm:"size:64" json:"precision"`
	Location         string    `gorm:"size:256" json:"location"`
	ValidityDate     Date      `json:"validityDate"`
	NextInspection   Date      `json:"nextInspection"`
	Status           Status    `gorm:"size:16;not null;default:active" json:"status"`
	Observations     string    `gorm:"type:text" json:"observations"`
	CreatedAt        time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt        time.Time `gorm:"not null" json:"updatedAt"`
}

// BeforeCreate assigns the identifier when the caller did not.
func (g *Gauge) BeforeCreate(tx *gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	return nil
}

// GaugeFields is a partial set of gauge attributes. Nil means "not supplied".
type GaugeFields struct {
	SerialNumber     *string `json:"serialNumber,omitempty"`
	Manufacturer     *string `json:"manufacturer,omitempty"`
	Model            *string `json:"model,omitempty"`
	MeasurementRange *string `json:"measurementRange,omitempty"`
	Precision        *string `json:"precision,omitempty"`
	Location         *string `json:"location,omitempty"`
	ValidityDate     *Date   `json:"validityDate,omitempty"`
	NextInspection   *Date   `json:"nextInspection,omitempty"`
	Status           *Status `json:"status,omitempty" binding:"omitempty,oneof=active inactive"`
	Observations     *string `json:"observations,omitempty"`
}

// IsEmpty reports whether no attribute was supplied.
func (f GaugeFields) IsEmpty() bool {
	return f.SerialNumber == nil &&
		f.Manufacturer == nil &&
		f.Model == nil &&
		f.MeasurementRange == nil &&
		f.Precision == nil &&
		f.Location == nil &&
		f.ValidityDate == nil &&
		f.NextInspection == nil &&
		f.Status == nil &&
		f.Observations == nil
}

// Validate checks the values that have a closed domain.
func (f GaugeFields) Validate() error {
	if f.Status != nil && !f.Status.Valid() {
		return fmt.Errorf("status must be %q or %q, got %q", StatusActive, StatusInactive, *f.Status)
	}
	return nil
}

// Apply copies the supplied attributes onto g.
func (f GaugeFields) Apply(g *Gauge) {
	if f.SerialNumber != nil {
		g.SerialNumber = *f.SerialNumber
	}
	if f.Manufacturer != nil {
		g.Manufacturer = *f.Manufacturer
	}
	if f.Model != nil {
		g.Model = *f.Model
	}
	if f.MeasurementRange != nil {
		g.MeasurementRange = *f.MeasurementRange
	}
	if f.Precision != nil {
		g.Precision = *f.Precision
	}
	if f.Location != nil {
		g.Location = *f.Location
	}
	if f.ValidityDate != nil {
		g.ValidityDate = *f.ValidityDate
	}
	if f.NextInspection != nil {
		g.NextInspection = *f.NextInspection
	}
	if f.Status != nil {
		g.Status = *f.Status
	}
	if f.Observations != nil {
		g.Observations = *f.Observations
	}
}

// Columns returns the supplied attributes keyed by column name.
func (f GaugeFields) Columns() map[string]any {
	cols := make(map[string]any)
	if f.SerialNumber != nil {
		cols["serial_number"] = *f.SerialNumber
	}
	if f.Manufacturer != nil {
		cols["manufacturer"] = *f.Manufacturer
	}
	if f.Model != nil {
		cols["model"] = *f.Model
	}
	if f.MeasurementRange != nil {
		cols["measurement_range"] = *f.MeasurementRange
	}
	if f.Precision != nil {
		cols["precision"] = *f.Precision
	}
	if f.Location != nil {
		cols["location"] = *f.Location
	}
	if f.ValidityDate != nil {
		cols["validity_date"] = *f.ValidityDate
	}
	if f.NextInspection != nil {
		cols["next_inspection"] = *f.NextInspection
	}
	if f.Status != nil {
		cols["status"] = *f.Status
	}
	if f.Observations != nil {
		cols["observations"] = *f.Observations
	}
	return cols
}
