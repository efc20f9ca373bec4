package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"markmycampus/internal/model"
)

// WriteReportCSV writes one row per marker with its owner's username.
func WriteReportCSV(w io.Writer, markers []model.AdminMarker) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(markerHeader); err != nil {
		return fmt.Errorf("write report header failed: %w", err)
	}
	for _, m := range markers {
		record := markerRecord(m)
		record[1] = neutralizeFormula(record[1])
		record[2] = neutralizeFormula(record[2])
		record[5] = neutralizeFormula(record[5])
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write report row failed: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush report failed: %w", err)
	}
	return nil
}

// neutralizeFormula prefixes free-text cells that spreadsheet apps would evaluate as formulas.
func neutralizeFormula(cell string) string {
	if cell != "" && strings.ContainsRune("=+-@\t\r", rune(cell[0])) {
		return "'" + cell
	}
	return cell
}
