package engine

import (
	"fmt"

	"github.com/tartampluch/life-in-weeks/internal/config"
)

// CellKey identifies a cell by position. Renderers attach it to each drawn
// cell and hand it back on click; there is no per-cell callback.
type CellKey struct {
	YearIndex int `json:"year_index"`
	// Column is 1-based, matching WeekCell.Column.
	Column int `json:"column"`
}

// CellInfo is the click payload shown in a tooltip.
type CellInfo struct {
	// LifeWeek is nil for cells before birth.
	LifeWeek   *int   `json:"life_week"`
	Year       int    `json:"year"`
	WeekOfYear int    `json:"week_of_year"`
	Status     Status `json:"status"`
}

// Key returns the identity of the cell.
func (c WeekCell) Key() CellKey {
	return CellKey{YearIndex: c.YearIndex, Column: c.Column}
}

// Cell resolves a click on key into its payload.
func (lc *LifeCalendar) Cell(key CellKey) (CellInfo, error) {
	if key.YearIndex < 0 || key.YearIndex >= len(lc.Grid.Rows) ||
		key.Column < 1 || key.Column > config.WeeksPerYear {
		return CellInfo{}, fmt.Errorf("%w: %w: year_index=%d column=%d",
			ErrInvalidInput, ErrCellOutOfGrid, key.YearIndex, key.Column)
	}

	row := lc.Grid.Rows[key.YearIndex]
	cell := row.Cells[key.Column-1]

	info := CellInfo{
		Year:       row.Year,
		WeekOfYear: cell.Column,
		Status:     cell.Status,
	}
	if cell.HasLifeWeek() {
		week := cell.LifeWeek
		info.LifeWeek = &week
	}
	return info, nil
}
