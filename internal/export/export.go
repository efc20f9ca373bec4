package export

import (
	"fmt"
	"strconv"
	"time"

	"markmycampus/internal/model"
)

const (
	XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	CSVContentType  = "text/csv"

	timestampLayout = "20060102-150405"
	createdAtLayout = "2006-01-02 15:04:05"
)

var markerHeader = []string{"ID", "Username", "Category", "Latitude", "Longitude", "Description", "Created At"}

// Filename builds names like markmycampus-stats-20260901-090000.xlsx.
func Filename(kind, ext string, at time.Time) string {
	return fmt.Sprintf("markmycampus-%s-%s.%s", kind, at.Format(timestampLayout), ext)
}

func formatCoordinate(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func markerRecord(m model.AdminMarker) []string {
	return []string{
		strconv.FormatUint(uint64(m.ID), 10),
		m.Username,
		string(m.Category),
		formatCoordinate(m.Latitude),
		formatCoordinate(m.Longitude),
		m.Description,
		m.CreatedAt.Format(createdAtLayout),
	}
}
