package form

import (
	"fmt"
	"maps"

	"github.com/passdy/intake/internal/address"
	"github.com/samber/lo"
)

// Field names a value of the intake form.
type Field string

const (
	FieldTypeGive    Field = "type_give"
	FieldTypeReceive Field = "type_receive"
	FieldClothNum    Field = "cloth_num"
	FieldAddressName Field = "address_name"
	FieldPhone       Field = "phone"
	FieldEmail       Field = "email"
	FieldCityID      Field = "city_id"
	FieldDistrictID  Field = "district_id"
	FieldWardID      Field = "ward_id"
	FieldAddress     Field = "address"
)

// Fields lists every field in form order.
var Fields = []Field{
	FieldTypeGive,
	FieldTypeReceive,
	FieldClothNum,
	FieldAddressName,
	FieldEmail,
	FieldPhone,
	FieldCityID,
	FieldDistrictID,
	FieldWardID,
	FieldAddress,
}

var tierFields = map[address.Tier]Field{
	address.TierProvince: FieldCityID,
	address.TierDistrict: FieldDistrictID,
	address.TierWard:     FieldWardID,
}

// ParseField converts a field name to a Field.
func ParseField(s string) (Field, error) {
	f := Field(s)
	if !f.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownField, s)
	}
	return f, nil
}

// Valid reports whether f is a field of the form.
func (f Field) Valid() bool {
	return lo.Contains(Fields, f)
}

// FieldForTier returns the field holding the selection of tier.
func FieldForTier(tier address.Tier) (Field, bool) {
	f, ok := tierFields[tier]
	return f, ok
}

// TierForField returns the address tier a field selects, if any.
func TierForField(f Field) (address.Tier, bool) {
	return lo.FindKey(tierFields, f)
}

// Values maps each field to its current raw value. Missing fields are empty.
type Values map[Field]string

// Clone returns an independent copy.
func (v Values) Clone() Values {
	out := make(Values, len(v))
	maps.Copy(out, v)
	return out
}

// ID returns an address field as an ID; malformed values read as unset.
func (v Values) ID(f Field) address.ID {
	id, err := address.ParseID(v[f])
	if err != nil {
		return 0
	}
	return id
}
