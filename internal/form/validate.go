package form

import (
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// ErrorKind names the rule a field value broke.
type ErrorKind string

const (
	KindRequired  ErrorKind = "required"
	KindMaxLength ErrorKind = "maxLength"
	KindPattern   ErrorKind = "pattern"
)

var (
	// Names may not contain * | " : < > [ ] { } ` \ ( ) ' ; @ & $
	namePattern  = regexp.MustCompile("^[^*|\":<>\\[\\]{}`\\\\()';@&$]+$")
	emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)
	phonePattern = regexp.MustCompile(`^[0-9]*$`)
)

type rule struct {
	required  bool
	positive  bool // a zero count counts as missing
	maxLength int
	pattern   *regexp.Regexp
}

var rules = map[Field]rule{
	FieldClothNum:    {required: true, positive: true},
	FieldAddressName: {required: true, maxLength: 30, pattern: namePattern},
	FieldEmail:       {required: true, pattern: emailPattern},
	FieldPhone:       {required: true, maxLength: 15, pattern: phonePattern},
	FieldCityID:      {required: true},
	FieldDistrictID:  {required: true},
	FieldWardID:      {required: true},
	FieldAddress:     {required: true, maxLength: 100},
}

// Errors maps each invalid field to the rules it broke, in check order.
type Errors map[Field][]ErrorKind

// Has reports whether field broke the rule kind.
func (e Errors) Has(field Field, kind ErrorKind) bool {
	return slices.Contains(e[field], kind)
}

// First returns the first rule field broke.
func (e Errors) First(field Field) (ErrorKind, bool) {
	kinds := e[field]
	if len(kinds) == 0 {
		return "", false
	}
	return kinds[0], true
}

// Clone returns an independent copy.
func (e Errors) Clone() Errors {
	out := make(Errors, len(e))
	for f, kinds := range e {
		out[f] = slices.Clone(kinds)
	}
	return out
}

// Validate checks every field of values.
func Validate(values Values) Errors {
	errs := Errors{}
	for _, f := range Fields {
		if kinds := validateField(f, values[f]); len(kinds) > 0 {
			errs[f] = kinds
		}
	}
	return errs
}

// validateField returns the rules value breaks for field.
// A missing required value reports only KindRequired. Only the empty string
// is missing; whitespace is checked against the other rules like any text.
func validateField(field Field, value string) []ErrorKind {
	r, ok := rules[field]
	if !ok {
		return nil
	}

	value = norm.NFC.String(value)
	if value == "" || (r.positive && strings.Trim(value, "0") == "") {
		if r.required {
			return []ErrorKind{KindRequired}
		}
		return nil
	}

	var kinds []ErrorKind
	if r.maxLength > 0 && utf8.RuneCountInString(value) > r.maxLength {
		kinds = append(kinds, KindMaxLength)
	}
	if r.pattern != nil && !r.pattern.MatchString(value) {
		kinds = append(kinds, KindPattern)
	}
	return kinds
}
