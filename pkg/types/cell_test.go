package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCellValue(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    CellValue
		wantErr error
	}{
		{name: "ind", input: "ind", want: CellInd},
		{name: "err", input: "err", want: CellErr},
		{name: "skip", input: "skip", want: CellSkip},
		{name: "empty string", input: "", want: CellEmpty},
		{name: "empty keyword", input: "empty", want: CellEmpty},
		{name: "unknown rejected", input: "IND", wantErr: ErrInvalidValue},
		{name: "garbage rejected", input: "x", wantErr: ErrInvalidValue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCellValue(tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCellValuePredicates(t *testing.T) {
	assert.True(t, CellEmpty.IsEmpty())
	assert.False(t, CellSkip.IsEmpty())

	assert.True(t, CellInd.Observed())
	assert.True(t, CellErr.Observed())
	assert.False(t, CellSkip.Observed())
	assert.False(t, CellEmpty.Observed())

	assert.Equal(t, "empty", CellEmpty.String())
	assert.Equal(t, "ind", CellInd.String())
}

func TestParseRowStatus(t *testing.T) {
	st, err := ParseRowStatus("checked")
	require.NoError(t, err)
	assert.Equal(t, RowChecked, st)

	_, err = ParseRowStatus("observed")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}
