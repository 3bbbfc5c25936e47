package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"manometer-backend/internal/dashboard"
	"manometer-backend/internal/model"
)

// SheetName is the single worksheet of the export.
const SheetName = "Gauges"

// ContentType is the MIME type of the generated workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var headers = []interface{}{
	"ID", "Serial number", "Manufacturer", "Model", "Measurement range", "Precision",
	"Location", "Validity date", "Next inspection", "Status", "Validity", "Observations",
	"Created at", "Updated at",
}

// FileName returns the attachment name for an export taken at now.
func FileName(now time.Time) string {
	return fmt.Sprintf("gauges_%s.xlsx", now.Format("2006-01-02"))
}

func row(g model.Gauge, now time.Time) []interface{} {
	return []interface{}{
		g.ID, g.SerialNumber, g.Manufacturer, g.Model, g.MeasurementRange, g.Precision,
		g.Location, g.ValidityDate.String(), g.NextInspection.String(), string(g.Status),
		dashboard.Classify(g, now).Label(), g.Observations,
		g.CreatedAt.UTC().Format(time.RFC3339), g.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// WriteXLSX renders the gauges as a workbook with a bold header row and
// writes it to w.
func WriteXLSX(w io.Writer, gauges []model.Gauge, now time.Time) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return err
	}
	if err := f.SetSheetRow(SheetName, "A1", &headers); err != nil {
		return err
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	lastCol, _ := excelize.CoordinatesToCellName(len(headers), 1)
	if err := f.SetCellStyle(SheetName, "A1", lastCol, style); err != nil {
		return err
	}

	for i, g := range gauges {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		values := row(g, now)
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	f.SetColWidth(SheetName, "A", "A", 38)
	f.SetColWidth(SheetName, "B", "G", 20)
	f.SetColWidth(SheetName, "L", "L", 40)

	return f.Write(w)
}
