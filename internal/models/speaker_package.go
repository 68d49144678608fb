package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// SpeakerPackage describes what a conference covers for its speakers.
// Stored as a JSON column on conferences.
type SpeakerPackage struct {
	Currency string   `json:"currency,omitempty"`
	Travel   *float64 `json:"travel,omitempty"`
	Food     *float64 `json:"food,omitempty"`
	Hotel    *float64 `json:"hotel,omitempty"`
}

// Count returns how many amounts are set.
func (p SpeakerPackage) Count() int {
	count := 0
	for _, amount := range []*float64{p.Travel, p.Food, p.Hotel} {
		if amount != nil {
			count++
		}
	}
	return count
}

// IsVisible reports whether the package should be shown. A package
// without a currency is treated as unset.
func (p SpeakerPackage) IsVisible() bool {
	return p.Currency != "" && p.Count() > 0
}

func (p SpeakerPackage) Value() (driver.Value, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (p *SpeakerPackage) Scan(value interface{}) error {
	if value == nil {
		*p = SpeakerPackage{}
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("unsupported type for SpeakerPackage")
	}

	if len(data) == 0 {
		*p = SpeakerPackage{}
		return nil
	}
	return json.Unmarshal(data, p)
}
