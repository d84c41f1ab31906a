package grid

import "github.com/mesh-intelligence/scatterplot/pkg/types"

// DeriveInitialStatus seeds a row status from stored cells, which carry no
// explicit row marker. Any ind or err makes the row checked; otherwise any
// skip makes it skipped; otherwise it is empty.
//
// Only Load uses this. Once a grid is live its statuses move exclusively
// through the Grid operations, and may intentionally disagree with what this
// function would compute (a checked row whose last err was cleared stays
// checked).
func DeriveInitialStatus(cells []types.CellValue) types.RowStatus {
	skipped := false
	for _, v := range cells {
		switch v {
		case types.CellInd, types.CellErr:
			return types.RowChecked
		case types.CellSkip:
			skipped = true
		}
	}
	if skipped {
		return types.RowSkipped
	}
	return types.RowEmpty
}
