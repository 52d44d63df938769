package leaderboardexport

import (
	"fmt"
	"io"
	"time"

	leaderboarddomain "github.com/cuwais/cuwais-portal/app/modules/leaderboard/domain"
	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet the ranking is written to.
const SheetName = "Leaderboard"

var header = []interface{}{"Position", "Name", "Score", "Wins", "Losses", "Draws", "Role"}

// WriteXLSX writes ranking as a spreadsheet, one row per entry in rank order.
func WriteXLSX(w io.Writer, ranking []leaderboarddomain.Entry, generated time.Time) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	if err := f.SetDocProps(&excelize.DocProperties{
		Title:   "Leaderboard",
		Created: generated.UTC().Format(time.RFC3339),
	}); err != nil {
		return fmt.Errorf("failed to set document properties: %w", err)
	}

	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	if err := f.SetCellStyle(SheetName, "A1", "G1", bold); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}
	if err := f.SetColWidth(SheetName, "B", "B", 32); err != nil {
		return fmt.Errorf("failed to size name column: %w", err)
	}

	positions := leaderboarddomain.Positions(ranking)
	for i, e := range ranking {
		axis, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{positions[i].String(), e.DisplayName, e.Score, e.Wins, e.Losses, e.Draws, string(e.Role())}
		if err := f.SetSheetRow(SheetName, axis, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
