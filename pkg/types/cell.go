package types

import "fmt"

// CellValue is the recorded state of one (interval, behavior) cell. The
// string forms are the persisted representation; CellEmpty is never stored.
type CellValue string

// Cell values.
const (
	CellEmpty CellValue = ""     // No data recorded.
	CellInd   CellValue = "ind"  // The behavior occurred in the interval.
	CellErr   CellValue = "err"  // The interval was observed; the behavior did not occur.
	CellSkip  CellValue = "skip" // The interval was not observed.
)

// validCellValues is the set of recognized cell values.
var validCellValues = map[CellValue]bool{
	CellEmpty: true,
	CellInd:   true,
	CellErr:   true,
	CellSkip:  true,
}

// Valid reports whether v is one of the four cell values.
func (v CellValue) Valid() bool {
	return validCellValues[v]
}

// IsEmpty reports whether v carries no data.
func (v CellValue) IsEmpty() bool {
	return v == CellEmpty
}

// Observed reports whether v counts toward the observed total (ind or err).
func (v CellValue) Observed() bool {
	return v == CellInd || v == CellErr
}

// String returns the persisted form, or "empty" for CellEmpty.
func (v CellValue) String() string {
	if v == CellEmpty {
		return "empty"
	}
	return string(v)
}

// ParseCellValue converts user or wire input into a CellValue. Both "" and
// "empty" parse to CellEmpty. Returns ErrInvalidValue for anything else.
func ParseCellValue(s string) (CellValue, error) {
	if s == "empty" {
		return CellEmpty, nil
	}
	v := CellValue(s)
	if !v.Valid() {
		return CellEmpty, fmt.Errorf("%w: %q", ErrInvalidValue, s)
	}
	return v, nil
}

// RowStatus classifies a whole interval row.
type RowStatus string

// Row statuses.
const (
	RowEmpty   RowStatus = "empty"
	RowChecked RowStatus = "checked" // Observed.
	RowSkipped RowStatus = "skipped" // Not observed.
)

// validRowStatuses is the set of recognized row statuses.
var validRowStatuses = map[RowStatus]bool{
	RowEmpty:   true,
	RowChecked: true,
	RowSkipped: true,
}

// Valid reports whether s is a recognized row status.
func (s RowStatus) Valid() bool {
	return validRowStatuses[s]
}

// ParseRowStatus converts input into a RowStatus.
// Returns ErrInvalidStatus if s is not recognized.
func ParseRowStatus(s string) (RowStatus, error) {
	st := RowStatus(s)
	if !st.Valid() {
		return RowEmpty, fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return st, nil
}
