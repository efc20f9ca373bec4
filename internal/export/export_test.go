package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"markmycampus/internal/model"
)

var created = time.Date(2026, 9, 1, 9, 30, 0, 0, time.UTC)

func sampleMarkers() []model.AdminMarker {
	return []model.AdminMarker{
		{ID: 2, UserID: 1, Username: "alice", Latitude: -33.9, Longitude: 151.2, Category: model.CategoryStudy, Description: "quiet, bright", CreatedAt: created},
		{ID: 1, UserID: 2, Username: "bob", Latitude: 10, Longitude: 20, Category: model.CategoryFood, CreatedAt: created},
	}
}

func TestFilename(t *testing.T) {
	got := Filename("stats", "xlsx", time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
	if want := "markmycampus-stats-20260102-030405.xlsx"; got != want {
		t.Fatalf("Filename = %q, want %q", got, want)
	}
}

func TestWriteReportCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteReportCSV(&buf, sampleMarkers()); err != nil {
		t.Fatalf("WriteReportCSV: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("rows = %d, want 3", len(records))
	}
	if records[0][0] != "ID" || records[0][6] != "Created At" {
		t.Fatalf("unexpected header %v", records[0])
	}
	row := records[1]
	if row[1] != "alice" || row[3] != "-33.9" || row[5] != "quiet, bright" || row[6] != "2026-09-01 09:30:00" {
		t.Fatalf("unexpected row %v", row)
	}
}

func TestWriteReportCSV_NeutralizesFormulas(t *testing.T) {
	markers := []model.AdminMarker{
		{ID: 1, Username: "@admin", Latitude: -12.5, Longitude: -3, Category: model.CategoryOther, Description: "=HYPERLINK(\"http://x\")", CreatedAt: created},
		{ID: 2, Username: "dan", Latitude: 1, Longitude: 1, Category: model.CategoryOther, Description: "+1 seats", CreatedAt: created},
		{ID: 3, Username: "eve", Latitude: 1, Longitude: 1, Category: model.CategoryOther, Description: "-", CreatedAt: created},
	}
	var buf bytes.Buffer
	if err := WriteReportCSV(&buf, markers); err != nil {
		t.Fatalf("WriteReportCSV: %v", err)
	}
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}

	if got := records[1][5]; got != "'=HYPERLINK(\"http://x\")" {
		t.Fatalf("description = %q", got)
	}
	if got := records[1][1]; got != "'@admin" {
		t.Fatalf("username = %q", got)
	}
	if records[1][3] != "-12.5" || records[1][4] != "-3" {
		t.Fatalf("coordinates must stay numeric: %v", records[1])
	}
	if records[2][5] != "'+1 seats" || records[3][5] != "'-" {
		t.Fatalf("unexpected rows %v %v", records[2], records[3])
	}
}

func TestWriteStatsWorkbook(t *testing.T) {
	stats := []model.CategoryCount{
		{Category: model.CategoryStudy, Count: 3},
		{Category: model.CategoryFood, Count: 2},
	}
	var buf bytes.Buffer
	if err := WriteStatsWorkbook(&buf, stats, sampleMarkers()); err != nil {
		t.Fatalf("WriteStatsWorkbook: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	if sheets := f.GetSheetList(); len(sheets) != 2 || sheets[0] != StatsSheet || sheets[1] != MarkersSheet {
		t.Fatalf("sheets = %v", sheets)
	}

	rows, err := f.GetRows(StatsSheet)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	want := [][]string{{"Category", "Count"}, {"study", "3"}, {"food", "2"}, {"Total", "5"}}
	if len(rows) != len(want) {
		t.Fatalf("stats rows = %v", rows)
	}
	for i := range want {
		if rows[i][0] != want[i][0] || rows[i][1] != want[i][1] {
			t.Fatalf("row %d = %v, want %v", i, rows[i], want[i])
		}
	}

	markerRows, err := f.GetRows(MarkersSheet)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(markerRows) != 3 || markerRows[1][1] != "alice" || markerRows[2][2] != "food" {
		t.Fatalf("marker rows = %v", markerRows)
	}
}

func TestWriteStatsWorkbook_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteStatsWorkbook(&buf, nil, nil); err != nil {
		t.Fatalf("WriteStatsWorkbook: %v", err)
	}
	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()
	rows, _ := f.GetRows(StatsSheet)
	if len(rows) != 2 || rows[1][0] != "Total" || rows[1][1] != "0" {
		t.Fatalf("empty stats rows = %v", rows)
	}
}
