package game

import (
	"github.com/google/uuid"
)

// Combatant is a live instance of a roster character inside one session.
// InstanceID is unique per spawn, not per character, so two copies of the
// same character never collide.
type Combatant struct {
	InstanceID string        `json:"instanceId"`
	Def        *CharacterDef `json:"-"`
	Name       string        `json:"name"`
	CurrentHP  int           `json:"currentHp"`
	MaxHP      int           `json:"maxHp"`
	Alive      bool          `json:"isAlive"`
	Statuses   []Status      `json:"statuses"`
}

// NewCombatant spawns a fresh instance of a character definition.
func NewCombatant(def *CharacterDef) *Combatant {
	return &Combatant{
		InstanceID: def.ID + "_" + uuid.NewString(),
		Def:        def,
		Name:       def.Name,
		CurrentHP:  def.MaxHP,
		MaxHP:      def.MaxHP,
		Alive:      true,
		Statuses:   []Status{},
	}
}

// FindStatus returns the first status of the given kind, or nil.
func (c *Combatant) FindStatus(kind StatusKind) *Status {
	for i := range c.Statuses {
		if c.Statuses[i].Kind == kind {
			return &c.Statuses[i]
		}
	}
	return nil
}

// HasStatus reports whether any status of the given kind is present.
func (c *Combatant) HasStatus(kind StatusKind) bool {
	return c.FindStatus(kind) != nil
}

// Clone returns an independent copy of the combatant, used to detach state
// views handed out for broadcast from the live session.
func (c *Combatant) Clone() *Combatant {
	dup := *c
	dup.Statuses = append([]Status(nil), c.Statuses...)
	return &dup
}

// RemoveStatus drops every status of the given kind.
func (c *Combatant) RemoveStatus(kind StatusKind) {
	kept := c.Statuses[:0]
	for _, s := range c.Statuses {
		if s.Kind != kind {
			kept = append(kept, s)
		}
	}
	c.Statuses = kept
}

// ApplyDamage subtracts hp and flips the alive flag exactly once when the
// combatant reaches zero. HP never leaves [0, MaxHP].
// Returns true when this call killed the combatant.
func (c *Combatant) ApplyDamage(hp int) bool {
	c.CurrentHP -= hp
	if c.CurrentHP <= 0 && c.Alive {
		c.CurrentHP = 0
		c.Alive = false
		return true
	}
	if c.CurrentHP < 0 {
		c.CurrentHP = 0
	}
	return false
}

// MatchStats accumulates per-player totals used by missions and analytics.
// DamageDealt accrues pre-mitigation values by design.
type MatchStats struct {
	DamageDealt int `json:"damageDealt"`
	HealingDone int `json:"healingDone"`
}

// ActionRequest is a queued, not yet paid-for intent to use a skill.
type ActionRequest struct {
	CasterID string `json:"casterId"`
	SkillID  string `json:"skillId"`
	TargetID string `json:"targetId"`
}

// PlayerState is one side of a combat session.
type PlayerState struct {
	ID        PlayerID        `json:"id"`
	Name      string          `json:"name"`
	Team      []*Combatant    `json:"team"`
	Chakra    ChakraPool      `json:"chakra"`
	Cooldowns map[string]int  `json:"cooldowns"`
	Queue     []ActionRequest `json:"actionQueue"`
	Stats     MatchStats      `json:"stats"`
}

// NewPlayerState wraps a spawned team into a session-ready player.
func NewPlayerState(id PlayerID, name string, team []*Combatant) *PlayerState {
	return &PlayerState{
		ID:        id,
		Name:      name,
		Team:      team,
		Chakra:    ChakraPool{},
		Cooldowns: map[string]int{},
		Queue:     []ActionRequest{},
	}
}

// Clone returns an independent deep copy of the player and their team.
func (p *PlayerState) Clone() *PlayerState {
	dup := *p
	dup.Team = make([]*Combatant, len(p.Team))
	for i, c := range p.Team {
		dup.Team[i] = c.Clone()
	}
	dup.Chakra = p.Chakra.Clone()
	dup.Cooldowns = make(map[string]int, len(p.Cooldowns))
	for id, n := range p.Cooldowns {
		dup.Cooldowns[id] = n
	}
	dup.Queue = append([]ActionRequest(nil), p.Queue...)
	return &dup
}

// Combatant returns the team member with the given instance id, or nil.
func (p *PlayerState) Combatant(instanceID string) *Combatant {
	for _, c := range p.Team {
		if c.InstanceID == instanceID {
			return c
		}
	}
	return nil
}

// LivingTeam returns the members that are still alive, in team order.
func (p *PlayerState) LivingTeam() []*Combatant {
	out := make([]*Combatant, 0, len(p.Team))
	for _, c := range p.Team {
		if c.Alive {
			out = append(out, c)
		}
	}
	return out
}

// Defeated reports whether every member of the team is down.
func (p *PlayerState) Defeated() bool {
	return len(p.LivingTeam()) == 0
}
