package address

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// ID is an opaque address identifier. The zero value means "not selected".
type ID int64

// ParseID converts a form value to an ID. An empty string yields the unset ID.
func ParseID(s string) (ID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse address id %q: %w", s, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("parse address id %q: negative", s)
	}
	return ID(n), nil
}

// IsSet reports whether the ID refers to a selection.
func (id ID) IsSet() bool {
	return id != 0
}

// String renders the ID as a form value; unset IDs render empty.
func (id ID) String() string {
	if !id.IsSet() {
		return ""
	}
	return strconv.FormatInt(int64(id), 10)
}

// Option is one selectable entry of a tier.
type Option struct {
	Value ID     `json:"value"`
	Label string `json:"label"`
}

// Record is a raw entry returned by the address service.
type Record struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
}

// Request describes a single address lookup.
// ParentID is left unset for the province tier.
type Request struct {
	Tier     Tier
	ParentID ID
}

// Lookuper fetches the raw records for one tier.
type Lookuper interface {
	Lookup(ctx context.Context, req Request) ([]Record, error)
}

// FindOption returns the option carrying id.
func FindOption(options []Option, id ID) (Option, bool) {
	return lo.Find(options, func(o Option) bool {
		return o.Value == id
	})
}

// newRequest builds the lookup for tier under parent.
// It returns false when the tier needs a parent that is not selected.
func newRequest(tier Tier, parent ID) (Request, bool) {
	if !tier.HasParent() {
		return Request{Tier: tier}, true
	}
	if !parent.IsSet() {
		return Request{}, false
	}
	return Request{Tier: tier, ParentID: parent}, true
}

// toOptions maps service records to options, keeping service order.
// Repeated ids keep their first occurrence.
func toOptions(records []Record) []Option {
	unique := lo.UniqBy(records, func(r Record) ID {
		return r.ID
	})
	return lo.Map(unique, func(r Record, _ int) Option {
		return Option{Value: r.ID, Label: r.Name}
	})
}
