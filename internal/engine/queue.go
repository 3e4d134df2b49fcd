package engine

import (
	"github.com/C-Chambers/the-arena-engine-server/internal/game"
)

// QueueSkill stages an action for the current turn. Validation covers the
// caster (alive, no duplicate queue entry), the skill (known, unlocked, off
// cooldown, unique-mark targeting) and the cumulative cost of the whole
// queue including the new action. Nothing is paid until execution.
func (s *Session) QueueSkill(playerID game.PlayerID, req game.ActionRequest) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireActive(playerID); err != nil {
		return nil, err
	}
	p := s.activePlayer()

	caster := p.Combatant(req.CasterID)
	if caster == nil {
		return nil, ErrInvalidCaster
	}
	if !caster.Alive {
		return nil, ErrDeadCaster
	}
	skill := caster.Def.SkillByID(req.SkillID)
	if skill == nil {
		return nil, ErrUnknownSkill
	}
	if skill.LockedByDefault && !skillEnabled(caster, skill) {
		return nil, ErrSkillLocked
	}
	if p.Cooldowns[skill.ID] > 0 {
		return nil, ErrSkillOnCooldown
	}

	// Unique-mark targeting is enforced here, pre-commitment: re-marking an
	// already marked target never makes sense.
	if skill.UniqueMark != "" {
		owner := s.ownerOf(req.TargetID)
		if owner == nil {
			return nil, ErrInvalidTarget
		}
		if owner.Combatant(req.TargetID).HasStatus(skill.UniqueMark) {
			return nil, ErrTargetAlreadyMarked
		}
	}

	for _, queued := range p.Queue {
		if queued.CasterID == req.CasterID {
			return nil, ErrDuplicateCaster
		}
	}

	total := s.queueCost(p)
	for t, n := range reducedCost(skill, caster) {
		total[t] += n
	}
	if !canAfford(p.Chakra, total) {
		return nil, ErrNotEnoughChakra
	}

	p.Queue = append(p.Queue, req)
	return s.snapshot(), nil
}

// DequeueSkill removes the queued action at index. A pure list edit; no
// chakra is touched until execution.
func (s *Session) DequeueSkill(playerID game.PlayerID, index int) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireActive(playerID); err != nil {
		return nil, err
	}
	p := s.activePlayer()
	if index < 0 || index >= len(p.Queue) {
		return nil, ErrInvalidQueueIndex
	}
	p.Queue = append(p.Queue[:index], p.Queue[index+1:]...)
	return s.snapshot(), nil
}

// ReorderQueue moves the queued action at from to position to.
func (s *Session) ReorderQueue(playerID game.PlayerID, from, to int) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireActive(playerID); err != nil {
		return nil, err
	}
	p := s.activePlayer()
	if from < 0 || from >= len(p.Queue) || to < 0 || to >= len(p.Queue) {
		return nil, ErrInvalidQueueIndex
	}
	moved := p.Queue[from]
	p.Queue = append(p.Queue[:from], p.Queue[from+1:]...)
	p.Queue = append(p.Queue[:to], append([]game.ActionRequest{moved}, p.Queue[to:]...)...)
	return s.snapshot(), nil
}

func skillEnabled(caster *game.Combatant, skill *game.Skill) bool {
	for i := range caster.Statuses {
		st := &caster.Statuses[i]
		if st.Kind == game.StatusEnableSkill && st.SkillID == skill.ID {
			return true
		}
	}
	return false
}
