package validate

import (
	"testing"

	"github.com/hay-kot/criterio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoxTitle(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid title", "Write weekly report", false},
		{"valid with leading space", "  review PRs", false},
		{"empty string", "", true},
		{"only spaces", "   ", true},
		{"only tabs", "\t\t", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := BoxTitle(tt.input)
			assert.Equal(t, tt.wantErr, err != nil, "BoxTitle(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		})
	}
}

func TestBoxTitleField(t *testing.T) {
	assert.NoError(t, BoxTitleField("title", "Write weekly report"))

	err := BoxTitleField("title", "   ")
	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	require.Len(t, fieldErrs, 1)
	assert.Equal(t, "title", fieldErrs[0].Field)
}

func TestEstimateField(t *testing.T) {
	assert.NoError(t, EstimateField("estimate", 30))

	err := EstimateField("estimate", 2)
	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	require.Len(t, fieldErrs, 1)
	assert.Equal(t, "estimate", fieldErrs[0].Field)
	assert.Contains(t, fieldErrs[0].Err.Error(), "between")
}

func TestEstimate(t *testing.T) {
	tests := []struct {
		name    string
		input   int
		wantErr bool
	}{
		{"lower bound", 5, false},
		{"default", 30, false},
		{"upper bound", 480, false},
		{"below range", 4, true},
		{"zero", 0, true},
		{"above range", 481, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Estimate(tt.input)
			assert.Equal(t, tt.wantErr, err != nil, "Estimate(%d) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		})
	}
}
