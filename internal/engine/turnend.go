package engine

import (
	"github.com/C-Chambers/the-arena-engine-server/internal/game"
)

// nextTurn runs turn-end processing for the player whose turn is ending,
// decays that player's cooldowns, switches the active player, generates
// chakra for the new active player and checks for game over.
func (s *Session) nextTurn(executed []game.ActionRequest) {
	ending := s.players[s.activeIdx]
	s.processTurnEndEffects(ending, executed)

	for skillID, remaining := range ending.Cooldowns {
		if remaining > 1 {
			ending.Cooldowns[skillID] = remaining - 1
		} else {
			delete(ending.Cooldowns, skillID)
		}
	}

	s.turn++
	s.activeIdx = 1 - s.activeIdx
	s.addLog("--- Turn %d: It is now %s's turn ---", s.turn, s.players[s.activeIdx].Name)
	if !s.gameOver {
		s.generateChakra(s.players[s.activeIdx])
	}
	s.checkGameOver()
}

// processTurnEndEffects runs the fixed turn-end sequence for the ending
// player: reactive-mark flagging, permanent defense regeneration, mark
// reactions, persistent AoE, damage over time, then status decay.
func (s *Session) processTurnEndEffects(ending *game.PlayerState, executed []game.ActionRequest) {
	// (a) Flag reactive marks on casters that just used a harmful skill.
	for _, action := range executed {
		caster := ending.Combatant(action.CasterID)
		if caster == nil {
			continue
		}
		skill := caster.Def.SkillByID(action.SkillID)
		if skill == nil || !skill.Harmful() {
			continue
		}
		for i := range caster.Statuses {
			if caster.Statuses[i].Kind == game.StatusBugMark {
				caster.Statuses[i].Flagged = true
			}
		}
	}

	// (b) Permanent destructible defense regenerates back to max.
	for _, c := range ending.Team {
		if !c.Alive {
			continue
		}
		perm := c.FindStatus(game.StatusPermanentDefense)
		if perm == nil {
			continue
		}
		if dd := c.FindStatus(game.StatusDestructibleDefense); dd != nil {
			dd.Value = perm.MaxValue
		} else {
			c.Statuses = append(c.Statuses, game.Status{Kind: game.StatusDestructibleDefense, Value: perm.MaxValue})
		}
		s.addLog("%s's destructible defense regenerated to %d.", c.Name, perm.MaxValue)
	}

	// (c) Flagged marks punish their carrier once per mark, then the flags
	// clear. Penalties are collected first so appending never invalidates the
	// status pointers still being scanned.
	for _, c := range ending.Team {
		if !c.Alive {
			continue
		}
		var penalties []game.Status
		for i := range c.Statuses {
			st := &c.Statuses[i]
			if st.Kind != game.StatusBugMark || !st.Flagged {
				continue
			}
			penalties = append(penalties, game.Status{
				Kind:          game.StatusDamageReduction,
				Reduction:     game.ReductionFlat,
				Value:         5,
				Duration:      4,
				SourceSkillID: st.SourceSkillID,
			})
			st.Flagged = false
		}
		for range penalties {
			s.addLog("%s suffers a penalty for acting while marked!", c.Name)
		}
		c.Statuses = append(c.Statuses, penalties...)
	}

	// (d) Persistent AoE sources on the ending side hit all living enemies
	// through the normal reduction -> shield -> HP ordering.
	opponent := s.players[1-s.activeIdx]
	for _, c := range ending.Team {
		if !c.Alive {
			continue
		}
		aoe := c.FindStatus(game.StatusPersistentAoE)
		if aoe == nil {
			continue
		}
		s.addLog("%s's persistent effect deals damage to all enemies!", c.Name)
		for _, enemy := range opponent.LivingTeam() {
			damage := s.applyDamageReduction(enemy, aoe.Damage)
			damage = s.applyToShield(enemy, damage)
			if damage > 0 {
				killed := enemy.ApplyDamage(damage)
				s.addLog("%s took %d damage from the persistent effect!", enemy.Name, damage)
				if killed {
					s.addLog("%s has been defeated by the persistent effect!", enemy.Name)
				}
			}
		}
	}

	// (e) Damage over time on the ending player's own team, then duration
	// decay. A status with no duration is permanent; a timed status is
	// removed at the 1 -> 0 transition.
	for _, c := range ending.Team {
		if !c.Alive {
			continue
		}
		kept := make([]game.Status, 0, len(c.Statuses))
		for _, st := range c.Statuses {
			if st.Kind == game.StatusPoison {
				killed := c.ApplyDamage(st.Damage)
				s.addLog("%s took %d damage from poison!", c.Name, st.Damage)
				if killed {
					s.addLog("%s succumbed to poison!", c.Name)
				}
			}
			switch {
			case st.Duration == 0:
				kept = append(kept, st)
			case st.Duration > 1:
				st.Duration--
				kept = append(kept, st)
			default:
				s.addLog("%s's %s effect has worn off.", c.Name, st.Kind)
			}
		}
		c.Statuses = kept
	}
}
