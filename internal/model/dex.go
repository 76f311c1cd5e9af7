package model

import (
	"encoding/json"
	"strings"
)

// Species is an entry of the species table.
type Species struct {
	Name      string
	Types     [2]string
	BaseStats BaseStats
}

type speciesJSON struct {
	SpeciesName string    `json:"speciesName"`
	Types       []*string `json:"types"`
	BaseStats   BaseStats `json:"baseStats"`
}

// PrimaryType returns the first elemental type, or "" when absent.
func (s Species) PrimaryType() string {
	return s.Types[0]
}

// UnmarshalJSON decodes the species table entry shape. Missing keys stay zero and
// a "none" or null type is treated as absent.
func (s *Species) UnmarshalJSON(data []byte) error {
	var raw speciesJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	s.Name = raw.SpeciesName
	s.BaseStats = raw.BaseStats
	s.Types = [2]string{}
	for i := 0; i < len(raw.Types) && i < 2; i++ {
		if raw.Types[i] == nil {
			continue
		}
		t := strings.TrimSpace(*raw.Types[i])
		if strings.EqualFold(t, "none") {
			t = ""
		}
		s.Types[i] = t
	}
	return nil
}

// MarshalJSON encodes the species in the table entry shape.
func (s Species) MarshalJSON() ([]byte, error) {
	types := make([]*string, 2)
	for i, t := range s.Types {
		if t != "" {
			v := t
			types[i] = &v
		}
	}
	return json.Marshal(speciesJSON{SpeciesName: s.Name, Types: types, BaseStats: s.BaseStats})
}

// Move is an entry of the move table.
type Move struct {
	Name string `json:"name"`
	Type string `json:"type"`
}
