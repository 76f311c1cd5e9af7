package stats

import (
	"sort"

	"github.com/verte-zerg/pvptrainer/internal/model"
)

// FocusWeights boosts the weights of the lowest-accuracy categories by factor.
// Categories without history keep their weight. Zero weights stay zero.
func FocusWeights(w model.Weights, aggs []model.CategoryAggregate, top int, factor float64) model.Weights {
	weak := weakestCategories(aggs, top)
	if factor <= 1 || len(weak) == 0 {
		return w
	}
	if _, ok := weak[model.CategoryAttackComparison]; ok {
		w.AttackComparison *= factor
	}
	if _, ok := weak[model.CategoryFastAttack]; ok {
		w.FastAttack *= factor
	}
	if _, ok := weak[model.CategoryChargedMove]; ok {
		w.ChargedMove *= factor
	}
	return w
}

func weakestCategories(aggs []model.CategoryAggregate, top int) map[model.Category]struct{} {
	weak := map[model.Category]struct{}{}
	candidates := make([]model.CategoryAggregate, 0, len(aggs))
	for _, agg := range aggs {
		if agg.Correct+agg.Incorrect > 0 {
			candidates = append(candidates, agg)
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		ai := Accuracy(candidates[i].Correct, candidates[i].Incorrect)
		aj := Accuracy(candidates[j].Correct, candidates[j].Incorrect)
		if ai == aj {
			return candidates[i].Category < candidates[j].Category
		}
		return ai < aj
	})
	if top <= 0 || top > len(candidates) {
		top = len(candidates)
	}
	for i := 0; i < top; i++ {
		weak[candidates[i].Category] = struct{}{}
	}
	return weak
}
