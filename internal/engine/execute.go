package engine

import (
	"github.com/C-Chambers/the-arena-engine-server/internal/game"
)

// ExecuteTurn pays for the whole queue and resolves it in submission order.
// If the cumulative cost is unaffordable the turn fails with no state change.
// Resolution stops early when the match ends mid-pass. Afterwards the queue
// is cleared and the turn advances.
func (s *Session) ExecuteTurn(playerID game.PlayerID) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireActive(playerID); err != nil {
		return nil, err
	}
	p := s.activePlayer()

	cost := s.queueCost(p)
	if !canAfford(p.Chakra, cost) {
		s.addLog("Execution failed: not enough chakra.")
		return nil, ErrNotEnoughChakra
	}
	s.payCost(p.Chakra, cost)

	executed := make([]game.ActionRequest, 0, len(p.Queue))
	for _, action := range p.Queue {
		if s.gameOver {
			break
		}
		s.resolveSkill(p, action)
		executed = append(executed, action)
		s.checkGameOver()
	}

	p.Queue = []game.ActionRequest{}
	s.nextTurn(executed)
	return s.snapshot(), nil
}

// resolveSkill applies one queued action: stun and cooldown guards, cooldown
// arming, then each effect against its resolved targets in declared order.
func (s *Session) resolveSkill(p *game.PlayerState, action game.ActionRequest) {
	caster := p.Combatant(action.CasterID)
	if caster == nil || !caster.Alive {
		return
	}
	skill := caster.Def.SkillByID(action.SkillID)
	if skill == nil {
		return
	}

	if stunBlocks(caster, skill) {
		s.addLog("%s is stunned and cannot use %s!", caster.Name, skill.Name)
		return
	}
	if p.Cooldowns[skill.ID] > 0 {
		return
	}
	if skill.Cooldown > 0 {
		p.Cooldowns[skill.ID] = skill.Cooldown + 1
	}

	s.addLog("%s used %s.", caster.Name, skill.Name)

	opponent := s.players[1-s.activeIdx]
	for i := range skill.Effects {
		effect := &skill.Effects[i]
		var targets []*game.Combatant
		if effect.Target == game.TargetAllEnemies {
			targets = opponent.LivingTeam()
		} else if t := s.findCombatant(action.TargetID); t != nil {
			targets = []*game.Combatant{t}
		}
		for _, target := range targets {
			s.applyEffect(effect, skill, caster, target)
		}
	}
}

// stunBlocks reports whether an active stun forbids this skill. A stun with
// no class list blocks every skill; otherwise only listed classes.
func stunBlocks(caster *game.Combatant, skill *game.Skill) bool {
	for i := range caster.Statuses {
		st := &caster.Statuses[i]
		if st.Kind != game.StatusStun {
			continue
		}
		if len(st.Classes) == 0 {
			return true
		}
		for _, class := range st.Classes {
			if class == skill.Class {
				return true
			}
		}
	}
	return false
}

func (s *Session) findCombatant(instanceID string) *game.Combatant {
	if owner := s.ownerOf(instanceID); owner != nil {
		return owner.Combatant(instanceID)
	}
	return nil
}
