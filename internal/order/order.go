package order

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/passdy/intake/internal/address"
)

// Give is the purpose the items are sent for.
type Give string

const (
	GiveSell   Give = "sell"
	GiveDonate Give = "donate"
)

// Valid reports whether g is a known purpose.
func (g Give) Valid() bool {
	return g == GiveSell || g == GiveDonate
}

// Receive is what happens to items that fail inspection.
type Receive string

const (
	ReceiveRecycling Receive = "recycling"
	ReceiveResend    Receive = "resend"
)

// Valid reports whether r is a known disposition.
func (r Receive) Valid() bool {
	return r == ReceiveRecycling || r == ReceiveResend
}

// AddressType classifies the pickup address.
type AddressType string

const (
	AddressApartment AddressType = "apartment"
	AddressCompany   AddressType = "company"
)

// AddressTypeFor maps the home/work toggle to an address type.
func AddressTypeFor(home bool) AddressType {
	if home {
		return AddressApartment
	}
	return AddressCompany
}

// Payload is the order sent to the order service.
type Payload struct {
	TypeGive    Give        `json:"type_give,omitempty"`
	TypeReceive Receive     `json:"type_receive,omitempty"`
	ClothNum    int         `json:"cloth_num"`
	AddressName string      `json:"address_name"`
	Phone       string      `json:"phone"`
	Email       string      `json:"email"`
	CityID      address.ID  `json:"city_id"`
	DistrictID  address.ID  `json:"district_id"`
	WardID      address.ID  `json:"ward_id"`
	Address     string      `json:"address"`
	AddressType AddressType `json:"address_type"`
}

// Receipt carries the data the order service acknowledged with.
type Receipt struct {
	Data json.RawMessage `json:"data"`
}

// HasData reports whether the service acknowledged with a payload.
func (r *Receipt) HasData() bool {
	if r == nil {
		return false
	}
	data := bytes.TrimSpace(r.Data)
	return len(data) > 0 && !bytes.Equal(data, []byte("null"))
}

// Submitter creates orders.
// A nil Receipt with a nil error means the service answered without data.
type Submitter interface {
	Submit(ctx context.Context, payload Payload) (*Receipt, error)
}
