package docgen

import "fmt"

// TableHandle is one table's discovered internal addressing: for every row,
// the start position of each cell, in document order. Filled mirrors Rows
// and marks cells that already hold text. Handles only exist between the
// phase-1 structure fetch and the phase-2 batch; positions are valid
// against the snapshot they were read from.
type TableHandle struct {
	Rows   [][]int64
	Filled [][]bool
}

func (h TableHandle) filled(row, col int) bool {
	if row >= len(h.Filled) || col >= len(h.Filled[row]) {
		return false
	}
	return h.Filled[row][col]
}

// StructuralMismatchError reports a disagreement between the tables the
// template planned and the tables discovered in the document. Alignment is
// undefined past the mismatch point, so population aborts rather than
// writing into the wrong cells.
type StructuralMismatchError struct {
	Planned    int
	Discovered int
	Table      int // index of the misshapen table, or -1 for a count mismatch
}

func (e *StructuralMismatchError) Error() string {
	if e.Table >= 0 {
		return fmt.Sprintf("table %d shape mismatch: planned %d, discovered %d", e.Table, e.Planned, e.Discovered)
	}
	return fmt.Sprintf("discovered %d tables, template plans %d", e.Discovered, e.Planned)
}

// PlanTableCells zips the ordered table specs against the ordered
// discovered tables (the Nth spec pairs with the Nth table) and emits one
// insert per non-empty cell at one past the cell's structural start. Each
// op's position carries the cumulative length of every earlier insert in
// the batch, so the batch stays valid under in-order application even
// though every insert shifts the positions after it.
//
// Cells the snapshot reports as already filled are skipped, which makes
// re-population after a partially applied batch insert only what is still
// missing instead of doubling the applied cells.
func PlanTableCells(specs []TableSpec, discovered []TableHandle, data map[string]string) ([]Op, error) {
	if len(discovered) != len(specs) {
		return nil, &StructuralMismatchError{Planned: len(specs), Discovered: len(discovered), Table: -1}
	}
	var ops []Op
	var added int64
	for ti, spec := range specs {
		handle := discovered[ti]
		if int64(len(handle.Rows)) != spec.Rows {
			return nil, &StructuralMismatchError{Planned: int(spec.Rows), Discovered: len(handle.Rows), Table: ti}
		}
		for ri, rowStarts := range handle.Rows {
			if int64(len(rowStarts)) != spec.Cols {
				return nil, &StructuralMismatchError{Planned: int(spec.Cols), Discovered: len(rowStarts), Table: ti}
			}
			for ci, cellStart := range rowStarts {
				if handle.filled(ri, ci) {
					continue
				}
				value := Substitute(cellValue(spec.Cells, ri, ci), data)
				if value == "" {
					continue
				}
				ops = append(ops, Op{
					Kind:  OpInsertText,
					Index: cellStart + 1 + added,
					Text:  value,
				})
				added += utf16Len(value)
			}
		}
	}
	return ops, nil
}

func cellValue(cells [][]string, row, col int) string {
	if row >= len(cells) {
		return ""
	}
	if col >= len(cells[row]) {
		return ""
	}
	return cells[row][col]
}
