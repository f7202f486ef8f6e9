package intake

import (
	"fmt"
	"os"

	"github.com/passdy/intake/internal/address"
	"github.com/passdy/intake/internal/config"
)

// Answers is a scripted set of form inputs, read from a TOML file.
// Omitted fields are left untouched on the form.
type Answers struct {
	TypeGive    string     `toml:"type_give"`
	TypeReceive string     `toml:"type_receive"`
	ClothNum    *int       `toml:"cloth_num"`
	HomeAddress *bool      `toml:"home_address"`
	Name        string     `toml:"name"`
	Phone       string     `toml:"phone"`
	Email       string     `toml:"email"`
	CityID      address.ID `toml:"city_id"`
	DistrictID  address.ID `toml:"district_id"`
	WardID      address.ID `toml:"ward_id"`
	Address     string     `toml:"address"`
}

// LoadAnswers reads answers from a TOML file.
func LoadAnswers(path string) (Answers, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Answers{}, fmt.Errorf("read answers file: %w", err)
	}
	answers, err := ParseAnswers(string(data))
	if err != nil {
		return Answers{}, fmt.Errorf("parse answers file %s: %w", path, err)
	}
	return answers, nil
}

// ParseAnswers decodes answers from TOML text. Unknown keys are rejected.
func ParseAnswers(data string) (Answers, error) {
	var answers Answers
	if err := config.DecodeTOML(data, &answers); err != nil {
		return Answers{}, err
	}
	return answers, nil
}

// selection returns the chosen id for tier.
func (a Answers) selection(tier address.Tier) address.ID {
	switch tier {
	case address.TierProvince:
		return a.CityID
	case address.TierDistrict:
		return a.DistrictID
	case address.TierWard:
		return a.WardID
	default:
		return 0
	}
}
