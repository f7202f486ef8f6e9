package address

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTier(t *testing.T) {
	tests := []struct {
		input   string
		want    Tier
		wantErr bool
	}{
		{input: "province", want: TierProvince},
		{input: "district", want: TierDistrict},
		{input: "ward", want: TierWard},
		{input: "Province", wantErr: true},
		{input: "", wantErr: true},
		{input: "street", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTier(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownTier)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTierHierarchy(t *testing.T) {
	t.Run("province has no parent", func(t *testing.T) {
		_, ok := TierProvince.Parent()
		assert.False(t, ok)
		assert.False(t, TierProvince.HasParent())
	})

	t.Run("district is keyed by province", func(t *testing.T) {
		parent, ok := TierDistrict.Parent()
		assert.True(t, ok)
		assert.Equal(t, TierProvince, parent)
	})

	t.Run("ward is keyed by district", func(t *testing.T) {
		parent, ok := TierWard.Parent()
		assert.True(t, ok)
		assert.Equal(t, TierDistrict, parent)
	})

	t.Run("ward has no child", func(t *testing.T) {
		_, ok := TierWard.Child()
		assert.False(t, ok)
	})

	t.Run("order", func(t *testing.T) {
		assert.True(t, TierProvince.Above(TierDistrict))
		assert.True(t, TierProvince.Above(TierWard))
		assert.True(t, TierDistrict.Above(TierWard))
		assert.False(t, TierWard.Above(TierDistrict))
		assert.False(t, TierDistrict.Above(TierDistrict))
		assert.False(t, Tier("street").Above(TierWard))
	})

	t.Run("below", func(t *testing.T) {
		assert.Equal(t, []Tier{TierDistrict, TierWard}, TierProvince.Below())
		assert.Equal(t, []Tier{TierWard}, TierDistrict.Below())
		assert.Empty(t, TierWard.Below())
	})
}

func TestParseID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    ID
		wantErr bool
	}{
		{name: "empty is unset", input: "", want: 0},
		{name: "whitespace is unset", input: "  ", want: 0},
		{name: "numeric", input: "79", want: 79},
		{name: "zero is unset", input: "0", want: 0},
		{name: "letters", input: "abc", wantErr: true},
		{name: "negative", input: "-3", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseID(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIDString(t *testing.T) {
	assert.Equal(t, "", ID(0).String())
	assert.Equal(t, "760", ID(760).String())
}

func TestToOptions(t *testing.T) {
	t.Run("keeps service order", func(t *testing.T) {
		got := toOptions([]Record{
			{ID: 3, Name: "Quận 3"},
			{ID: 1, Name: "Quận 1"},
			{ID: 2, Name: "Quận 2"},
		})
		assert.Equal(t, []Option{
			{Value: 3, Label: "Quận 3"},
			{Value: 1, Label: "Quận 1"},
			{Value: 2, Label: "Quận 2"},
		}, got)
	})

	t.Run("repeated ids keep first occurrence", func(t *testing.T) {
		got := toOptions([]Record{
			{ID: 1, Name: "first"},
			{ID: 1, Name: "second"},
		})
		assert.Equal(t, []Option{{Value: 1, Label: "first"}}, got)
	})

	t.Run("nil records map to empty list", func(t *testing.T) {
		assert.Empty(t, toOptions(nil))
	})
}

func TestFindOption(t *testing.T) {
	options := []Option{{Value: 1, Label: "Hà Nội"}, {Value: 79, Label: "Hồ Chí Minh"}}

	got, ok := FindOption(options, 79)
	assert.True(t, ok)
	assert.Equal(t, "Hồ Chí Minh", got.Label)

	_, ok = FindOption(options, 48)
	assert.False(t, ok)
}
