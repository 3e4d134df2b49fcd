package game

// PlayerID is the canonical identity used for players everywhere in the
// engine, the matchmaking queues and the storage layer.
type PlayerID string

// ChakraRandom is the wildcard cost key: it may be paid with tokens of any
// type remaining after the typed requirements are reserved.
const ChakraRandom = "Random"

// ChakraPool maps a chakra type name to the number of tokens held.
type ChakraPool map[string]int

// Total returns the number of tokens in the pool across all types.
func (p ChakraPool) Total() int {
	n := 0
	for _, c := range p {
		n += c
	}
	return n
}

// Clone returns an independent copy of the pool.
func (p ChakraPool) Clone() ChakraPool {
	out := make(ChakraPool, len(p))
	for t, c := range p {
		out[t] = c
	}
	return out
}

// DamageType selects which defensive layers apply to a damage effect.
type DamageType string

const (
	DamageNormal     DamageType = "normal"
	DamagePiercing   DamageType = "piercing"
	DamageAffliction DamageType = "affliction"
)

// EffectType tags the variant of an Effect.
type EffectType string

const (
	EffectDamage       EffectType = "damage"
	EffectHeal         EffectType = "heal"
	EffectAddShield    EffectType = "add_shield"
	EffectApplyStatus  EffectType = "apply_status"
	EffectStealChakra  EffectType = "steal_chakra"
	EffectRemoveChakra EffectType = "remove_chakra"
)

// TargetMode selects who an effect resolves against.
type TargetMode string

const (
	TargetSelf       TargetMode = "self"
	TargetAlly       TargetMode = "ally"
	TargetEnemy      TargetMode = "enemy"
	TargetAllEnemies TargetMode = "all_enemies"
)

// ReductionType distinguishes flat from percentage damage reduction.
type ReductionType string

const (
	ReductionFlat       ReductionType = "flat"
	ReductionPercentage ReductionType = "percentage"
)

// ConditionalBonus grants extra damage when the target carries a specific
// mark status: bonus = stack count of the mark × BonusPerStack.
type ConditionalBonus struct {
	RequiresStatus StatusKind `json:"status_required"`
	BonusPerStack  int        `json:"bonus_per_stack"`
}

// Effect is one step of a skill, applied to each resolved target in order.
// Fields are meaningful per Type; unrelated fields are zero.
type Effect struct {
	Type   EffectType `json:"type"`
	Target TargetMode `json:"target"`

	// damage / heal / add_shield
	Value            int               `json:"value,omitempty"`
	DamageType       DamageType        `json:"damage_type,omitempty"`
	IgnoresShield    bool              `json:"ignores_shield,omitempty"`
	ConditionalBonus *ConditionalBonus `json:"conditional_bonus,omitempty"`

	// apply_status
	Status     StatusKind    `json:"status,omitempty"`
	Duration   int           `json:"duration,omitempty"`
	Stacks     bool          `json:"stacks,omitempty"`
	Chance     float64       `json:"chance,omitempty"`
	Multiplier float64       `json:"multiplier,omitempty"`
	Percent    float64       `json:"percent,omitempty"`
	Damage     int           `json:"damage,omitempty"`
	MaxValue   int           `json:"max_value,omitempty"`
	Reduction  ReductionType `json:"reduction_type,omitempty"`
	Classes    []string      `json:"classes,omitempty"`
	CostChange map[string]int `json:"cost_change,omitempty"`
	SkillID    string        `json:"skill_id,omitempty"`
	FollowUp   []string      `json:"follow_up_skills,omitempty"`
	BonusDamage int          `json:"bonus_damage,omitempty"`

	// steal_chakra / remove_chakra
	Amount          int        `json:"amount,omitempty"`
	ChakraTypes     []string   `json:"chakra_types,omitempty"`
	SkipIfCasterHas StatusKind `json:"skip_if_caster_has,omitempty"`
}

// Skill is an immutable skill definition from the roster.
type Skill struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	Description     string         `json:"description"`
	Cost            map[string]int `json:"cost"`
	Effects         []Effect       `json:"effects"`
	Cooldown        int            `json:"cooldown"`
	Class           string         `json:"skill_class"`
	LockedByDefault bool           `json:"is_locked_by_default"`
	// UniqueMark restricts targeting: the skill cannot be queued against a
	// target that already carries a mark of this kind.
	UniqueMark StatusKind `json:"unique_mark,omitempty"`
}

// Harmful reports whether a skill has any hostile effect. Used by turn-end
// mark reactions to detect aggression.
func (s *Skill) Harmful() bool {
	for _, e := range s.Effects {
		switch e.Type {
		case EffectDamage, EffectStealChakra, EffectRemoveChakra:
			return true
		case EffectApplyStatus:
			if harmfulStatuses[e.Status] {
				return true
			}
		}
	}
	return false
}

var harmfulStatuses = map[StatusKind]bool{
	StatusPoison:     true,
	StatusStun:       true,
	StatusVulnerable: true,
	StatusBugMark:    true,
}

// CharacterDef is an immutable character definition from the roster.
type CharacterDef struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	MaxHP  int     `json:"max_hp"`
	Skills []Skill `json:"skills"`
}

// SkillByID returns the character's skill with the given id, or nil.
func (c *CharacterDef) SkillByID(id string) *Skill {
	for i := range c.Skills {
		if c.Skills[i].ID == id {
			return &c.Skills[i]
		}
	}
	return nil
}
