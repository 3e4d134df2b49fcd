package engine

import (
	"github.com/C-Chambers/the-arena-engine-server/internal/game"
)

// generateChakra adds ChakraPerTurn randomly typed tokens to the player's
// pool, drawn uniformly from the enabled chakra types.
func (s *Session) generateChakra(p *game.PlayerState) {
	s.addLog("%s gains %d new chakra.", p.Name, ChakraPerTurn)
	for i := 0; i < ChakraPerTurn; i++ {
		t := s.chakraTypes[s.rng.Intn(len(s.chakraTypes))]
		p.Chakra[t]++
	}
}

// reducedCost returns the skill's cost after applying any cost-reduction
// status on the caster. Reduction matches on caster AND source skill, the
// same rule at queue time and at execution time. Costs never go negative.
func reducedCost(skill *game.Skill, caster *game.Combatant) map[string]int {
	cost := make(map[string]int, len(skill.Cost))
	for t, n := range skill.Cost {
		cost[t] = n
	}
	for i := range caster.Statuses {
		st := &caster.Statuses[i]
		if st.Kind != game.StatusCostReduction || st.SkillID != skill.ID {
			continue
		}
		for t, delta := range st.CostChange {
			if delta >= 0 {
				continue
			}
			if cur, ok := cost[t]; ok {
				if cur+delta < 0 {
					cost[t] = 0
				} else {
					cost[t] = cur + delta
				}
			}
		}
	}
	return cost
}

// queueCost sums the reduced cost of every queued action for the player.
func (s *Session) queueCost(p *game.PlayerState) map[string]int {
	total := map[string]int{}
	for _, a := range p.Queue {
		caster := p.Combatant(a.CasterID)
		if caster == nil {
			continue
		}
		skill := caster.Def.SkillByID(a.SkillID)
		if skill == nil {
			continue
		}
		for t, n := range reducedCost(skill, caster) {
			total[t] += n
		}
	}
	return total
}

// canAfford reports whether the pool covers a cost mapping: every typed
// requirement must be met by balance, and the wildcard amount must be
// coverable by whatever tokens remain after typed requirements are reserved.
func canAfford(pool game.ChakraPool, cost map[string]int) bool {
	remaining := pool.Clone()
	for t, n := range cost {
		if t == game.ChakraRandom {
			continue
		}
		if remaining[t] < n {
			return false
		}
		remaining[t] -= n
	}
	return remaining.Total() >= cost[game.ChakraRandom]
}

// payCost deducts typed amounts directly, then satisfies the wildcard amount
// by removing one token at a time from whichever type currently has the
// highest balance, re-evaluated after every single deduction. Ties break by
// the roster's declared chakra-type order, so the draw-down is deterministic.
func (s *Session) payCost(pool game.ChakraPool, cost map[string]int) {
	for t, n := range cost {
		if t == game.ChakraRandom {
			continue
		}
		pool[t] -= n
	}
	for left := cost[game.ChakraRandom]; left > 0; left-- {
		best := ""
		for _, t := range s.chakraTypes {
			if pool[t] > 0 && (best == "" || pool[t] > pool[best]) {
				best = t
			}
		}
		if best == "" {
			return
		}
		pool[best]--
	}
}
