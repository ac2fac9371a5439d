package recommend

import (
	"context"
	"fmt"

	"github.com/hyperjump/umami/internal/models"
)

// allocState is the value threaded through the allocation phases. Each phase
// takes a state and returns the next one; the used set guarantees global
// deduplication across phases.
type allocState struct {
	profile  models.PreferenceProfile
	cuisines []string
	limit    int

	allocated []*models.Recipe
	used      map[string]bool

	// pool holds usable candidates drawn but not yet allocated, per cuisine.
	// The rebalance pass tops up from here without new queries.
	pool map[string][]*models.Recipe
}

func newAllocState(profile models.PreferenceProfile, limit int) allocState {
	return allocState{
		profile:  profile,
		cuisines: profile.DistinctCuisines(),
		limit:    limit,
		used:     make(map[string]bool),
		pool:     make(map[string][]*models.Recipe),
	}
}

func (st allocState) remaining() int {
	return st.limit - len(st.allocated)
}

func (st allocState) take(r *models.Recipe) allocState {
	st.allocated = append(st.allocated, r)
	st.used[r.ID] = true
	return st
}

// phase0 handles profiles with no favorite cuisines: allocate purely from
// favorite food searches. Matches are never padded with generic results;
// with no favorite foods either, the result stays empty.
func (a *Allocator) phase0(ctx context.Context, st allocState) allocState {
	if len(st.profile.FavoriteFoods) == 0 {
		return st
	}

	foods := append([]string(nil), st.profile.FavoriteFoods...)
	a.rng.Shuffle(len(foods), func(i, j int) { foods[i], foods[j] = foods[j], foods[i] })

	for _, food := range foods {
		if st.remaining() <= 0 {
			break
		}
		for _, r := range a.draw(ctx, st, a.foodQuery(food), "", st.remaining(), true) {
			if !r.MatchesFood(food) {
				continue
			}
			st = st.take(r)
			if st.remaining() <= 0 {
				break
			}
		}
	}
	return st
}

// phase1 allocates the cuisine-balanced base: limit div N per cuisine plus
// one extra for the first limit mod N cuisines, assembled by round-robin so
// no cuisine can exhaust the quota first. Cuisines that yielded nothing get
// one backfill attempt to guarantee representation.
func (a *Allocator) phase1(ctx context.Context, st allocState) allocState {
	n := len(st.cuisines)
	base := st.limit / n
	extra := st.limit % n

	queues := make(map[string][]*models.Recipe, n)
	for i, c := range st.cuisines {
		quota := base
		if i < extra {
			quota++
		}
		if quota == 0 {
			quota = 1 // still draw so backfill has something to work with
		}
		queues[c] = a.draw(ctx, st, fmt.Sprintf("%s recipes", c), c, quota*2, false)
	}

	for round := 0; round < base; round++ {
		for _, c := range st.cuisines {
			if st.remaining() <= 0 {
				return st
			}
			if len(queues[c]) == 0 {
				continue
			}
			st = st.take(queues[c][0])
			queues[c] = queues[c][1:]
		}
	}
	for i := 0; i < extra && st.remaining() > 0; i++ {
		c := st.cuisines[i]
		if len(queues[c]) == 0 {
			continue
		}
		st = st.take(queues[c][0])
		queues[c] = queues[c][1:]
	}

	// Backfill: one more attempt for any cuisine still unrepresented.
	for _, c := range st.cuisines {
		if st.remaining() <= 0 {
			break
		}
		if st.countFor(c) > 0 {
			continue
		}
		if got := a.draw(ctx, st, fmt.Sprintf("traditional %s dishes", c), c, 1, false); len(got) > 0 {
			st = st.take(got[0])
		}
	}

	for c, q := range queues {
		st.pool[c] = append(st.pool[c], q...)
	}
	return st
}

// phase2 enriches with favorite-food matches while preserving balance: each
// cuisine may gain at most (limit - allocated) / N additional recipes that
// match a favorite food within that cuisine.
func (a *Allocator) phase2(ctx context.Context, st allocState) allocState {
	if len(st.profile.FavoriteFoods) == 0 || st.remaining() <= 0 {
		return st
	}
	perCuisine := st.remaining() / len(st.cuisines)
	if perCuisine <= 0 {
		return st
	}

	for _, c := range st.cuisines {
		added := 0
		for _, food := range st.profile.FavoriteFoods {
			if added >= perCuisine || st.remaining() <= 0 {
				break
			}
			query := fmt.Sprintf("%s %s recipes", food, c)
			for _, r := range a.draw(ctx, st, query, c, perCuisine-added, true) {
				if !r.MatchesFood(food) {
					continue
				}
				st = st.take(r)
				added++
				if added >= perCuisine || st.remaining() <= 0 {
					break
				}
			}
		}
	}
	return st
}

// phase3 fills remaining slots with additional cuisine-scoped draws,
// round-robin across favorites, until the limit is met or a full round
// yields nothing new.
func (a *Allocator) phase3(ctx context.Context, st allocState) allocState {
	for st.remaining() > 0 {
		progress := false
		for _, c := range st.cuisines {
			if st.remaining() <= 0 {
				break
			}
			got := a.draw(ctx, st, fmt.Sprintf("popular %s recipes", c), c, 1, false)
			if len(got) == 0 {
				continue
			}
			st = st.take(got[0])
			progress = true
		}
		if !progress {
			break
		}
	}
	return st
}

// rebalance corrects skew introduced after phase1 by re-running the
// round-robin over the already-collected recipes, then topping up with
// leftovers of any cuisine. No new queries are issued.
func (a *Allocator) rebalance(st allocState) allocState {
	byCuisine := make(map[string][]*models.Recipe, len(st.cuisines))
	var other []*models.Recipe
	for _, r := range st.allocated {
		if containsString(st.cuisines, r.Cuisine) {
			byCuisine[r.Cuisine] = append(byCuisine[r.Cuisine], r)
		} else {
			other = append(other, r)
		}
	}

	rebuilt := make([]*models.Recipe, 0, st.limit)
	for len(rebuilt) < st.limit {
		progress := false
		for _, c := range st.cuisines {
			if len(rebuilt) >= st.limit {
				break
			}
			if len(byCuisine[c]) == 0 {
				continue
			}
			rebuilt = append(rebuilt, byCuisine[c][0])
			byCuisine[c] = byCuisine[c][1:]
			progress = true
		}
		if !progress {
			break
		}
	}

	// Top up with food-match extras, then any pooled leftovers.
	for _, r := range other {
		if len(rebuilt) >= st.limit {
			break
		}
		rebuilt = append(rebuilt, r)
	}
	for _, c := range st.cuisines {
		for _, r := range st.pool[c] {
			if len(rebuilt) >= st.limit {
				break
			}
			if st.used[r.ID] {
				continue
			}
			st.used[r.ID] = true
			rebuilt = append(rebuilt, r)
		}
	}

	st.allocated = rebuilt
	return st
}

func (st allocState) countFor(cuisine string) int {
	n := 0
	for _, r := range st.allocated {
		if r.Cuisine == cuisine {
			n++
		}
	}
	return n
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
