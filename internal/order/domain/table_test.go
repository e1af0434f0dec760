package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestRetarget(t *testing.T) {
	tests := []struct {
		name      string
		typ       Type
		table     string
		newType   *Type
		newTable  *string
		release   string
		occupy    string
		wantTable string
	}{
		{"no change", TypeDineIn, "T1", nil, nil, "", "", "T1"},
		{"same type given", TypeDineIn, "T1", ptr(TypeDineIn), nil, "", "", "T1"},
		{"move table", TypeDineIn, "T1", nil, ptr("T2"), "T1", "T2", "T2"},
		{"same table given", TypeDineIn, "T1", nil, ptr("T1"), "", "", "T1"},
		{"dine-in to takeaway", TypeDineIn, "T1", ptr(TypeTakeaway), nil, "T1", "", ""},
		{"takeaway to dine-in", TypeTakeaway, "", ptr(TypeDineIn), ptr("T3"), "", "T3", "T3"},
		{"packing to takeaway", TypePacking, "", ptr(TypeTakeaway), nil, "", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := Order{Type: tt.typ, TableID: tt.table}
			change, err := o.Retarget(tt.newType, tt.newTable, "")
			require.NoError(t, err)
			assert.Equal(t, tt.release, change.Release)
			assert.Equal(t, tt.occupy, change.Occupy)
			assert.Equal(t, tt.wantTable, o.TableID)
		})
	}
}

func TestRetargetRecordsPreviousType(t *testing.T) {
	o := Order{Type: TypeDineIn, TableID: "T1"}
	_, err := o.Retarget(ptr(TypePacking), nil, "")
	require.NoError(t, err)
	assert.Equal(t, TypeDineIn, o.PreviousType)
	assert.Equal(t, TypePacking, o.Type)
}

func TestRetargetRejects(t *testing.T) {
	o := Order{Type: TypeTakeaway}
	_, err := o.Retarget(ptr(TypeDineIn), nil, "")
	assert.ErrorIs(t, err, ErrValidation)

	o = Order{Type: TypeTakeaway}
	_, err = o.Retarget(ptr(Type("delivery")), nil, "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestReleaseDecision(t *testing.T) {
	assert.True(t, ReleaseDecision(nil, false, true))
	assert.False(t, ReleaseDecision(nil, true, true))
	assert.False(t, ReleaseDecision(ptr(false), false, true))
	assert.True(t, ReleaseDecision(ptr(true), true, false))
	assert.False(t, ReleaseDecision(nil, false, false))
}
