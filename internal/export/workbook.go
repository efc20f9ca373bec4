package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"markmycampus/internal/model"
)

const (
	StatsSheet   = "Statistics"
	MarkersSheet = "Markers"
)

// WriteStatsWorkbook renders category counts and the marker listing as an XLSX workbook.
func WriteStatsWorkbook(w io.Writer, stats []model.CategoryCount, markers []model.AdminMarker) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", StatsSheet); err != nil {
		return fmt.Errorf("rename sheet failed: %w", err)
	}
	if _, err := f.NewSheet(MarkersSheet); err != nil {
		return fmt.Errorf("create sheet failed: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create style failed: %w", err)
	}

	if err := writeStatsSheet(f, stats, bold); err != nil {
		return err
	}
	if err := writeMarkersSheet(f, markers, bold); err != nil {
		return err
	}

	f.SetActiveSheet(0)
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook failed: %w", err)
	}
	return nil
}

func writeStatsSheet(f *excelize.File, stats []model.CategoryCount, bold int) error {
	if err := f.SetSheetRow(StatsSheet, "A1", &[]interface{}{"Category", "Count"}); err != nil {
		return fmt.Errorf("write stats header failed: %w", err)
	}

	var total int64
	row := 2
	for _, s := range stats {
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(StatsSheet, cell, &[]interface{}{string(s.Category), s.Count}); err != nil {
			return fmt.Errorf("write stats row failed: %w", err)
		}
		total += s.Count
		row++
	}

	cell, _ := excelize.CoordinatesToCellName(1, row)
	if err := f.SetSheetRow(StatsSheet, cell, &[]interface{}{"Total", total}); err != nil {
		return fmt.Errorf("write stats total failed: %w", err)
	}
	end, _ := excelize.CoordinatesToCellName(2, row)
	if err := f.SetCellStyle(StatsSheet, cell, end, bold); err != nil {
		return fmt.Errorf("style stats total failed: %w", err)
	}
	if err := f.SetCellStyle(StatsSheet, "A1", "B1", bold); err != nil {
		return fmt.Errorf("style stats header failed: %w", err)
	}
	return f.SetColWidth(StatsSheet, "A", "A", 18)
}

func writeMarkersSheet(f *excelize.File, markers []model.AdminMarker, bold int) error {
	header := make([]interface{}, len(markerHeader))
	for i, h := range markerHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(MarkersSheet, "A1", &header); err != nil {
		return fmt.Errorf("write markers header failed: %w", err)
	}

	for i, m := range markers {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		values := []interface{}{
			m.ID,
			m.Username,
			string(m.Category),
			m.Latitude,
			m.Longitude,
			m.Description,
			m.CreatedAt.Format(createdAtLayout),
		}
		if err := f.SetSheetRow(MarkersSheet, cell, &values); err != nil {
			return fmt.Errorf("write markers row failed: %w", err)
		}
	}

	if err := f.SetCellStyle(MarkersSheet, "A1", "G1", bold); err != nil {
		return fmt.Errorf("style markers header failed: %w", err)
	}
	return f.SetColWidth(MarkersSheet, "F", "G", 24)
}
