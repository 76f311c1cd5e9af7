// Package session keeps per-client quiz state for the HTTP shell.
package session

import (
	"context"
	"errors"

	"github.com/verte-zerg/pvptrainer/internal/model"
)

// DefaultMaxCP is the CP cap of a new session.
const DefaultMaxCP = 1500

// ErrNotFound is returned when a session id has no stored state.
var ErrNotFound = errors.New("session not found")

// State is everything one client's quiz needs between requests. Values are
// replaced whole on save.
type State struct {
	Roster      model.Roster   `json:"roster"`
	Dataset     string         `json:"dataset"`
	MaxCP       int            `json:"max_cp"`
	Question    model.Question `json:"question"`
	HasQuestion bool           `json:"has_question"`
}

// NewState returns the state of a fresh session.
func NewState() State {
	return State{MaxCP: DefaultMaxCP}
}

// Store persists session state by id.
type Store interface {
	Get(ctx context.Context, id string) (State, error)
	Save(ctx context.Context, id string, state State) error
	Delete(ctx context.Context, id string) error
}
