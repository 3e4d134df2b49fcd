package game

// StatusKind is the closed set of status variants the pipeline understands.
// Each kind uses only the Status fields documented next to it; every other
// field stays zero.
type StatusKind string

const (
	StatusShield              StatusKind = "shield"               // Value
	StatusPoison              StatusKind = "poison"               // Damage, Duration
	StatusStun                StatusKind = "stun"                 // Classes, Duration
	StatusVulnerable          StatusKind = "vulnerable"           // Multiplier, Duration
	StatusDodge               StatusKind = "dodge"                // Chance, Duration
	StatusInvulnerable        StatusKind = "invulnerable"         // Duration
	StatusDamageReduction     StatusKind = "damage_reduction"     // Value or Percent via Reduction, Duration
	StatusDestructibleDefense StatusKind = "destructible_defense" // Value
	StatusPermanentDefense    StatusKind = "permanent_destructible_defense" // MaxValue
	StatusCostReduction       StatusKind = "cost_reduction"       // CostChange, SkillID, Duration
	StatusEmpowerSkill        StatusKind = "empower_skill"        // BonusDamage, SkillID, Duration
	StatusEnableSkill         StatusKind = "enable_skill"         // SkillID, Duration
	StatusAirMark             StatusKind = "dynamic_air_mark"     // Duration; forbids defensive benefits
	StatusEffectImmunity      StatusKind = "effect_immunity"      // Duration; blocks non-damage/heal effects
	StatusPersistentAoE       StatusKind = "persistent_aoe_damage" // Damage, Duration
	StatusBugMark             StatusKind = "female_bug_mark"      // Stacks, Duration, Flagged
	StatusTrackingMark        StatusKind = "sharingan_mark"       // CasterInstance, FollowUp, BonusDamage, Duration
)

// Status is a timed or permanent modifier attached to a combatant. A zero
// Duration means the status never decays.
type Status struct {
	Kind StatusKind `json:"kind"`

	Value      int            `json:"value,omitempty"`
	Percent    float64        `json:"percent,omitempty"`
	Multiplier float64        `json:"multiplier,omitempty"`
	Chance     float64        `json:"chance,omitempty"`
	Damage     int            `json:"damage,omitempty"`
	Duration   int            `json:"duration,omitempty"`
	Stacks     int            `json:"stacks,omitempty"`
	MaxValue   int            `json:"max_value,omitempty"`
	Reduction  ReductionType  `json:"reduction_type,omitempty"`
	Classes    []string       `json:"classes,omitempty"`
	CostChange map[string]int `json:"cost_change,omitempty"`
	FollowUp   []string       `json:"follow_up_skills,omitempty"`
	BonusDamage int           `json:"bonus_damage,omitempty"`

	// Provenance, used by conditional interactions.
	SkillID         string `json:"skill_id,omitempty"`
	SourceSkillID   string `json:"source_skill_id,omitempty"`
	SourceSkillName string `json:"source_skill_name,omitempty"`
	CasterInstance  string `json:"caster_instance,omitempty"`

	// Flagged marks a reactive status as triggered this turn; cleared by
	// turn-end processing after the reaction is applied.
	Flagged bool `json:"-"`
}

// StatusFromEffect builds the status a apply_status effect describes,
// stamping provenance from the casting skill and caster.
func StatusFromEffect(e *Effect, skill *Skill, casterInstance string) Status {
	st := Status{
		Kind:        e.Status,
		Value:       e.Value,
		Percent:     e.Percent,
		Multiplier:  e.Multiplier,
		Chance:      e.Chance,
		Damage:      e.Damage,
		Duration:    e.Duration,
		MaxValue:    e.MaxValue,
		Reduction:   e.Reduction,
		Classes:     e.Classes,
		CostChange:  e.CostChange,
		FollowUp:    e.FollowUp,
		BonusDamage: e.BonusDamage,
		SkillID:     e.SkillID,

		SourceSkillID:   skill.ID,
		SourceSkillName: skill.Name,
		CasterInstance:  casterInstance,
	}
	if e.Stacks {
		st.Stacks = 1
	}
	if e.Status == StatusDamageReduction && st.Reduction == "" {
		st.Reduction = ReductionFlat
	}
	return st
}
