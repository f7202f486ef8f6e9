package form

import (
	"fmt"
	"strconv"

	"github.com/passdy/intake/internal/order"
	"golang.org/x/text/unicode/norm"
)

// buildPayload assembles the order from validated values. Free text is sent
// exactly as validated: composed to NFC and otherwise unchanged.
func buildPayload(values Values, home bool) (order.Payload, error) {
	clothNum, err := strconv.Atoi(values[FieldClothNum])
	if err != nil {
		return order.Payload{}, fmt.Errorf("parse cloth_num: %w", err)
	}

	return order.Payload{
		TypeGive:    order.Give(values[FieldTypeGive]),
		TypeReceive: order.Receive(values[FieldTypeReceive]),
		ClothNum:    clothNum,
		AddressName: norm.NFC.String(values[FieldAddressName]),
		Phone:       values[FieldPhone],
		Email:       norm.NFC.String(values[FieldEmail]),
		CityID:      values.ID(FieldCityID),
		DistrictID:  values.ID(FieldDistrictID),
		WardID:      values.ID(FieldWardID),
		Address:     norm.NFC.String(values[FieldAddress]),
		AddressType: order.AddressTypeFor(home),
	}, nil
}
