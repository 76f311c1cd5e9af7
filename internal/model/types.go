// Package model defines shared data structures.
package model

import (
	"fmt"
	"time"
)

// Category names a question category.
type Category string

// Question categories.
const (
	CategoryAttackComparison Category = "attack_comparison"
	CategoryFastAttack       Category = "fast_attack"
	CategoryChargedMove      Category = "charged_move"
)

// Categories lists every category in selection order.
var Categories = []Category{CategoryAttackComparison, CategoryFastAttack, CategoryChargedMove}

// QuizConfig defines practice settings shared by both shells.
type QuizConfig struct {
	Dataset  string
	MaxCP    int
	MaxLevel float64
	Weights  Weights
	Seed     int64
}

// Weights are the relative likelihoods of each question category.
type Weights struct {
	AttackComparison float64
	FastAttack       float64
	ChargedMove      float64
}

// For returns the weight of a category.
func (w Weights) For(c Category) float64 {
	switch c {
	case CategoryAttackComparison:
		return w.AttackComparison
	case CategoryFastAttack:
		return w.FastAttack
	case CategoryChargedMove:
		return w.ChargedMove
	default:
		return 0
	}
}

// AllZero reports whether no category can be selected.
func (w Weights) AllZero() bool {
	return w.AttackComparison <= 0 && w.FastAttack <= 0 && w.ChargedMove <= 0
}

// BaseStats is a species' base attack, defense and stamina.
type BaseStats struct {
	Attack  int `json:"atk"`
	Defense int `json:"def"`
	Stamina int `json:"hp"`
}

// IVs holds individual variance values, each in [0, 15].
type IVs struct {
	Attack  int
	Defense int
	Stamina int
}

func (iv IVs) String() string {
	return fmt.Sprintf("%d/%d/%d", iv.Attack, iv.Defense, iv.Stamina)
}

// Question is a generated trivia question. The zero value means "no question".
type Question struct {
	Category    Category `json:"category"`
	Text        string   `json:"question_text"`
	Variants    []string `json:"variants"`
	Answer      string   `json:"answer"`
	Explanation string   `json:"explanation"`
}

// IsZero reports whether q is the "no question" sentinel.
func (q Question) IsZero() bool {
	return q.Category == ""
}

// Attempt is one checked answer recorded in the history.
type Attempt struct {
	AnsweredAt time.Time
	Shell      string
	Category   Category
	Dataset    string
	MaxCP      int
	Answer     string
	Input      string
	Correct    bool
}

// HistoryFilter narrows history queries.
type HistoryFilter struct {
	Since *time.Time
	Last  int
	Shell string
}

// StatsConfig defines the interactive stats view settings.
type StatsConfig struct {
	Shell       string
	Since       *time.Time
	Last        int
	TrendWindow int
}

// Filter returns the history query for the view.
func (c StatsConfig) Filter() HistoryFilter {
	return HistoryFilter{Since: c.Since, Last: c.Last, Shell: c.Shell}
}

// CategoryAggregate summarizes attempts for one category.
type CategoryAggregate struct {
	Category  Category
	Correct   int
	Incorrect int
}
