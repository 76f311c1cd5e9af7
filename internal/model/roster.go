package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// MoveTurns pairs a move name with its recorded turn counts.
type MoveTurns struct {
	Name  string
	Turns []int
}

// RosterEntry holds the moves of one owned creature.
type RosterEntry struct {
	FastAttacks []MoveTurns
	ChargeMoves []MoveTurns
}

// FastAttack returns the first recorded fast attack.
func (e RosterEntry) FastAttack() (MoveTurns, bool) {
	if len(e.FastAttacks) == 0 {
		return MoveTurns{}, false
	}
	return e.FastAttacks[0], true
}

// RosterCreature is a named roster entry.
type RosterCreature struct {
	Name  string
	Entry RosterEntry
}

// Roster is an ordered set of creatures keyed by display name. File order is kept.
type Roster []RosterCreature

// Names returns the display names in roster order.
func (r Roster) Names() []string {
	names := make([]string, len(r))
	for i, c := range r {
		names[i] = c.Name
	}
	return names
}

// Lookup finds a creature by exact display name.
func (r Roster) Lookup(name string) (RosterEntry, bool) {
	for _, c := range r {
		if c.Name == name {
			return c.Entry, true
		}
	}
	return RosterEntry{}, false
}

// UnmarshalJSON decodes a roster object preserving key order. A repeated name
// replaces the earlier value in place.
func (r *Roster) UnmarshalJSON(data []byte) error {
	var out Roster
	index := map[string]int{}
	err := decodeObject(data, func(key string, raw json.RawMessage) error {
		var entry RosterEntry
		if err := json.Unmarshal(raw, &entry); err != nil {
			return fmt.Errorf("roster entry %q: %w", key, err)
		}
		if i, ok := index[key]; ok {
			out[i].Entry = entry
			return nil
		}
		index[key] = len(out)
		out = append(out, RosterCreature{Name: key, Entry: entry})
		return nil
	})
	if err != nil {
		return err
	}
	*r = out
	return nil
}

// MarshalJSON encodes the roster as an object in roster order.
func (r Roster) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeMember(&buf, c.Name, c.Entry); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

type rosterEntryJSON struct {
	FastAttack  json.RawMessage `json:"fast_attack"`
	ChargeMoves json.RawMessage `json:"charge_moves"`
}

// UnmarshalJSON decodes {fast_attack:{name:[turns]}, charge_moves:{name:[turns]}}.
func (e *RosterEntry) UnmarshalJSON(data []byte) error {
	var raw rosterEntryJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	fast, err := decodeMoveTurns(raw.FastAttack)
	if err != nil {
		return fmt.Errorf("fast_attack: %w", err)
	}
	charged, err := decodeMoveTurns(raw.ChargeMoves)
	if err != nil {
		return fmt.Errorf("charge_moves: %w", err)
	}
	e.FastAttacks = fast
	e.ChargeMoves = charged
	return nil
}

// MarshalJSON encodes the entry in the roster file shape.
func (e RosterEntry) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"fast_attack":`)
	if err := writeMoveTurns(&buf, e.FastAttacks); err != nil {
		return nil, err
	}
	buf.WriteString(`,"charge_moves":`)
	if err := writeMoveTurns(&buf, e.ChargeMoves); err != nil {
		return nil, err
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func decodeMoveTurns(data json.RawMessage) ([]MoveTurns, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var moves []MoveTurns
	err := decodeObject(data, func(key string, raw json.RawMessage) error {
		var values []float64
		if err := json.Unmarshal(raw, &values); err != nil {
			return fmt.Errorf("move %q: %w", key, err)
		}
		turns := make([]int, len(values))
		for i, v := range values {
			turns[i] = int(v)
		}
		moves = append(moves, MoveTurns{Name: key, Turns: turns})
		return nil
	})
	return moves, err
}

func writeMoveTurns(buf *bytes.Buffer, moves []MoveTurns) error {
	buf.WriteByte('{')
	for i, m := range moves {
		if i > 0 {
			buf.WriteByte(',')
		}
		turns := m.Turns
		if turns == nil {
			turns = []int{}
		}
		if err := writeMember(buf, m.Name, turns); err != nil {
			return err
		}
	}
	buf.WriteByte('}')
	return nil
}

func writeMember(buf *bytes.Buffer, key string, value any) error {
	k, err := json.Marshal(key)
	if err != nil {
		return err
	}
	v, err := json.Marshal(value)
	if err != nil {
		return err
	}
	buf.Write(k)
	buf.WriteByte(':')
	buf.Write(v)
	return nil
}

// decodeObject walks a JSON object in key order. A null value yields no members.
func decodeObject(data []byte, fn func(key string, raw json.RawMessage) error) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected JSON object, got %v", tok)
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", keyTok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		if err := fn(key, raw); err != nil {
			return err
		}
	}
	_, err = dec.Token()
	return err
}
