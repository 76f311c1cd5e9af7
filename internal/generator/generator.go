// Package generator builds PvP trivia questions from a roster.
package generator

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/verte-zerg/pvptrainer/internal/cp"
	"github.com/verte-zerg/pvptrainer/internal/dex"
	"github.com/verte-zerg/pvptrainer/internal/model"
)

const (
	maxIV          = 15
	fastVariantMin = 1
	fastVariantMax = 8
)

// Generator produces randomized questions. It is not safe for concurrent use.
type Generator struct {
	rnd      *rand.Rand
	maxLevel float64
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewWithSource(rand.NewSource(time.Now().UnixNano()))
}

// NewWithSeed returns a Generator with a fixed seed.
func NewWithSeed(seed int64) *Generator {
	return NewWithSource(rand.NewSource(seed))
}

// NewWithSource returns a Generator drawing from src.
func NewWithSource(src rand.Source) *Generator {
	return &Generator{rnd: rand.New(src), maxLevel: cp.DefaultMaxLevel}
}

// SetMaxLevel sets the level ceiling used for CP calculations.
func (g *Generator) SetMaxLevel(level float64) {
	g.maxLevel = level
}

// Generate draws a category according to w and builds a question for it. It
// returns false when no category can be served: every weight is zero, or the
// roster lacks the entries a category needs.
func (g *Generator) Generate(roster model.Roster, d dex.Dex, maxCP int, w model.Weights) (model.Question, bool) {
	weights := eligibleWeights(roster, w)
	idx, ok := pickWeighted(g.rnd, weights)
	if !ok {
		return model.Question{}, false
	}
	switch model.Categories[idx] {
	case model.CategoryAttackComparison:
		return g.attackComparison(roster, d, maxCP), true
	case model.CategoryFastAttack:
		return g.fastAttack(roster, d), true
	default:
		return g.chargedMove(roster, d), true
	}
}

type contender struct {
	name   string
	typ    string
	ivs    model.IVs
	attack float64
	cp     int
}

func (g *Generator) contender(name string, d dex.Dex, maxCP int) contender {
	ivs := model.IVs{
		Attack:  g.rnd.Intn(maxIV + 1),
		Defense: g.rnd.Intn(maxIV + 1),
		Stamina: g.rnd.Intn(maxIV + 1),
	}
	types, base := dex.SpeciesTypeAndStats(name, d.Species)
	attack, rating := cp.AttackAndCP(base, ivs, maxCP, g.maxLevel)
	return contender{name: name, typ: types[0], ivs: ivs, attack: attack, cp: rating}
}

func (g *Generator) attackComparison(roster model.Roster, d dex.Dex, maxCP int) model.Question {
	names := roster.Names()
	i, j := samplePair(g.rnd, len(names))
	first := g.contender(names[i], d, maxCP)
	second := g.contender(names[j], d, maxCP)

	text := fmt.Sprintf("Which Pokémon will win CMP: <b>%d CP</b> <b>%s</b> %s or <b>%d CP</b> <b>%s</b> %s?",
		first.cp, first.ivs, first.name, second.cp, second.ivs, second.name)
	text = StyleEntities(text,
		Entity{Name: first.name, Color: TypeColor(first.typ)},
		Entity{Name: second.name, Color: TypeColor(second.typ)},
	)

	answer := second.name
	if first.attack >= second.attack {
		answer = first.name
	}
	return model.Question{
		Category:    model.CategoryAttackComparison,
		Text:        text,
		Variants:    []string{first.name, second.name},
		Answer:      answer,
		Explanation: fmt.Sprintf("(%.2f vs %.2f)", first.attack, second.attack),
	}
}

func (g *Generator) fastAttack(roster model.Roster, d dex.Dex) model.Question {
	candidates := filterRoster(roster, hasFastAttack)
	entry := candidates[g.rnd.Intn(len(candidates))].Entry
	fast, _ := entry.FastAttack()

	text := fmt.Sprintf("How many turns does <b>%s</b> take?", fast.Name)
	text = StyleText(text, fast.Name, TypeColor(d.MoveType(fast.Name)))

	correct := fast.Turns[0]
	variants := make([]int, 0, fastVariantMax)
	for v := fastVariantMin; v <= fastVariantMax; v++ {
		variants = append(variants, v)
	}
	if correct < fastVariantMin || correct > fastVariantMax {
		variants[g.rnd.Intn(len(variants))] = correct
	}

	return model.Question{
		Category: model.CategoryFastAttack,
		Text:     text,
		Variants: intsToStrings(variants),
		Answer:   strconv.Itoa(correct),
	}
}

func (g *Generator) chargedMove(roster model.Roster, d dex.Dex) model.Question {
	candidates := filterRoster(roster, hasChargedQuestion)
	creature := candidates[g.rnd.Intn(len(candidates))]
	fast, _ := creature.Entry.FastAttack()
	moves := usableMoves(creature.Entry.ChargeMoves)
	charged := moves[g.rnd.Intn(len(moves))]

	text := fmt.Sprintf("Give sequence of how many <b>%s</b> moves are required for <b>%s</b> to use <b>%s</b> four times in a row?",
		fast.Name, creature.Name, charged.Name)
	text = StyleEntities(text,
		Entity{Name: creature.Name, Color: TypeColor(d.PrimaryType(creature.Name))},
		Entity{Name: fast.Name, Color: TypeColor(d.MoveType(fast.Name))},
		Entity{Name: charged.Name, Color: TypeColor(d.MoveType(charged.Name))},
	)

	answer := FormatSequence(charged.Turns)
	return model.Question{
		Category: model.CategoryChargedMove,
		Text:     text,
		Variants: []string{answer},
		Answer:   answer,
	}
}

// FormatSequence renders turn counts as "2, 4, 6, 8".
func FormatSequence(turns []int) string {
	return strings.Join(intsToStrings(turns), ", ")
}

// eligibleWeights clamps negative weights to zero and zeroes categories the
// roster cannot serve. Indexes follow model.Categories.
func eligibleWeights(roster model.Roster, w model.Weights) []float64 {
	weights := make([]float64, len(model.Categories))
	for i, c := range model.Categories {
		weight := w.For(c)
		if weight <= 0 || !canServe(roster, c) {
			continue
		}
		weights[i] = weight
	}
	return weights
}

func canServe(roster model.Roster, c model.Category) bool {
	switch c {
	case model.CategoryAttackComparison:
		return len(roster) >= 2
	case model.CategoryFastAttack:
		return len(filterRoster(roster, hasFastAttack)) > 0
	case model.CategoryChargedMove:
		return len(filterRoster(roster, hasChargedQuestion)) > 0
	default:
		return false
	}
}

func pickWeighted(rnd *rand.Rand, weights []float64) (int, bool) {
	total := 0.0
	last := -1
	for i, w := range weights {
		if w > 0 {
			total += w
			last = i
		}
	}
	if last < 0 {
		return 0, false
	}
	r := rnd.Float64() * total
	acc := 0.0
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		acc += w
		if r < acc {
			return i, true
		}
	}
	return last, true
}

// samplePair draws two distinct indexes in [0, n).
func samplePair(rnd *rand.Rand, n int) (int, int) {
	i := rnd.Intn(n)
	j := rnd.Intn(n - 1)
	if j >= i {
		j++
	}
	return i, j
}

func filterRoster(roster model.Roster, keep func(model.RosterEntry) bool) model.Roster {
	out := make(model.Roster, 0, len(roster))
	for _, c := range roster {
		if keep(c.Entry) {
			out = append(out, c)
		}
	}
	return out
}

func hasFastAttack(e model.RosterEntry) bool {
	fast, ok := e.FastAttack()
	return ok && len(fast.Turns) > 0
}

func hasChargedQuestion(e model.RosterEntry) bool {
	return hasFastAttack(e) && len(usableMoves(e.ChargeMoves)) > 0
}

func usableMoves(moves []model.MoveTurns) []model.MoveTurns {
	out := make([]model.MoveTurns, 0, len(moves))
	for _, m := range moves {
		if len(m.Turns) > 0 {
			out = append(out, m)
		}
	}
	return out
}

func intsToStrings(values []int) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strconv.Itoa(v)
	}
	return out
}
