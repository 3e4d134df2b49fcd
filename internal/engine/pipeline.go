package engine

import (
	"math"

	"github.com/C-Chambers/the-arena-engine-server/internal/game"
)

// applyEffect resolves a single effect against a single target, in the fixed
// guard order: immunity/mark/invulnerability, then dodge, then the effect
// body. Blocked effects are logged noops, never errors.
func (s *Session) applyEffect(effect *game.Effect, skill *game.Skill, caster, target *game.Combatant) {
	if !target.Alive {
		return
	}

	isDamagingOrHealing := effect.Type == game.EffectDamage || effect.Type == game.EffectHeal
	if target.HasStatus(game.StatusEffectImmunity) && !isDamagingOrHealing {
		s.addLog("%s is immune to the non-damaging effects of %s!", target.Name, skill.Name)
		return
	}

	if target.HasStatus(game.StatusAirMark) && isDefensiveEffect(effect) {
		s.addLog("%s is marked and cannot receive defensive benefits!", target.Name)
		return
	}

	if target.HasStatus(game.StatusInvulnerable) {
		s.addLog("%s is invulnerable. The attack had no effect!", target.Name)
		return
	}

	if effect.Type == game.EffectDamage {
		if dodge := target.FindStatus(game.StatusDodge); dodge != nil && s.rng.Float64() < dodge.Chance {
			s.addLog("%s dodged the attack!", target.Name)
			return
		}
	}

	switch effect.Type {
	case game.EffectDamage:
		s.resolveDamage(effect, skill, caster, target)
	case game.EffectHeal:
		s.resolveHeal(effect, target)
	case game.EffectAddShield:
		target.Statuses = append(target.Statuses, game.Status{Kind: game.StatusShield, Value: effect.Value})
		s.addLog("%s gained a %d HP shield.", target.Name, effect.Value)
	case game.EffectApplyStatus:
		s.resolveApplyStatus(effect, skill, caster, target)
	case game.EffectStealChakra:
		s.resolveChakraDrain(effect, caster, target, true)
	case game.EffectRemoveChakra:
		s.resolveChakraDrain(effect, caster, target, false)
	}
}

// isDefensiveEffect reports whether an effect grants one of the benefits a
// defensive-denial mark forbids: shields, damage reduction, invulnerability.
func isDefensiveEffect(effect *game.Effect) bool {
	if effect.Type == game.EffectAddShield {
		return true
	}
	if effect.Type != game.EffectApplyStatus {
		return false
	}
	return effect.Status == game.StatusDamageReduction || effect.Status == game.StatusInvulnerable
}

// resolveDamage applies the pre-reduction bonuses, accrues damage-dealt
// statistics on the initial value, then runs the damage-type branch.
func (s *Session) resolveDamage(effect *game.Effect, skill *game.Skill, caster, target *game.Combatant) {
	value := effect.Value

	for i := range caster.Statuses {
		st := &caster.Statuses[i]
		if st.Kind == game.StatusEmpowerSkill && st.SkillID == skill.ID {
			value += st.BonusDamage
			s.addLog("%s's %s is empowered, dealing extra damage!", caster.Name, skill.Name)
		}
	}

	if effect.ConditionalBonus != nil {
		stacks := 0
		for i := range target.Statuses {
			st := &target.Statuses[i]
			if st.Kind == effect.ConditionalBonus.RequiresStatus {
				if st.Stacks > 0 {
					stacks += st.Stacks
				} else {
					stacks++
				}
			}
		}
		if stacks > 0 {
			bonus := stacks * effect.ConditionalBonus.BonusPerStack
			value += bonus
			s.addLog("%s is marked! %s deals %d bonus damage!", target.Name, skill.Name, bonus)
		}
	}

	// A caster-bound tracking mark empowers only that caster's designated
	// follow-up skills.
	for i := range target.Statuses {
		st := &target.Statuses[i]
		if st.Kind != game.StatusTrackingMark || st.CasterInstance != caster.InstanceID {
			continue
		}
		for _, name := range st.FollowUp {
			if name == skill.Name {
				value += st.BonusDamage
				s.addLog("%s is marked by %s! %s deals %d bonus damage!", target.Name, caster.Name, skill.Name, st.BonusDamage)
				break
			}
		}
	}

	if vuln := target.FindStatus(game.StatusVulnerable); vuln != nil {
		value = int(math.Round(float64(value) * vuln.Multiplier))
	}

	// Damage-dealt statistics intentionally accrue the pre-mitigation value.
	s.activePlayer().Stats.DamageDealt += value

	switch effect.DamageType {
	case game.DamageAffliction:
		killed := target.ApplyDamage(value)
		s.addLog("%s took %d affliction damage (bypassing all defenses).", target.Name, value)
		if killed {
			s.addLog("%s has been defeated!", target.Name)
		}
	case game.DamagePiercing:
		remaining := s.applyToDestructibleDefense(target, value)
		if remaining > 0 {
			killed := target.ApplyDamage(remaining)
			s.addLog("%s took %d piercing damage.", target.Name, remaining)
			if killed {
				s.addLog("%s has been defeated!", target.Name)
			}
		}
	default:
		remaining := s.applyDamageReduction(target, value)
		if !effect.IgnoresShield {
			remaining = s.applyToShield(target, remaining)
		}
		remaining = s.applyToDestructibleDefense(target, remaining)
		if remaining > 0 {
			killed := target.ApplyDamage(remaining)
			s.addLog("%s took %d damage.", target.Name, remaining)
			if killed {
				s.addLog("%s has been defeated!", target.Name)
			}
		}
	}
}

// applyDamageReduction sums flat reductions first, then applies the summed
// percentage reductions to the remainder (rounded). Never negative.
func (s *Session) applyDamageReduction(target *game.Combatant, damage int) int {
	flat := 0
	percent := 0.0
	for i := range target.Statuses {
		st := &target.Statuses[i]
		if st.Kind != game.StatusDamageReduction {
			continue
		}
		if st.Reduction == game.ReductionPercentage {
			percent += st.Percent
		} else {
			flat += st.Value
		}
	}
	reduced := damage
	if flat > 0 {
		reduced -= flat
		if reduced < 0 {
			reduced = 0
		}
		s.addLog("%s's damage reduction lowered damage by %d.", target.Name, flat)
	}
	if percent > 0 {
		cut := int(math.Round(float64(reduced) * percent))
		reduced -= cut
		if reduced < 0 {
			reduced = 0
		}
		s.addLog("%s's percentage damage reduction lowered damage by %d%%.", target.Name, int(math.Round(percent*100)))
	}
	return reduced
}

// applyToShield absorbs damage 1:1 on the first shield found; the shield is
// removed when it reaches zero.
func (s *Session) applyToShield(target *game.Combatant, damage int) int {
	shield := target.FindStatus(game.StatusShield)
	if shield == nil || damage <= 0 {
		return damage
	}
	if shield.Value > damage {
		shield.Value -= damage
		return 0
	}
	damage -= shield.Value
	shield.Value = 0
	target.RemoveStatus(game.StatusShield)
	s.addLog("%s's shield is destroyed!", target.Name)
	return damage
}

// applyToDestructibleDefense absorbs damage into the destructible defense
// pool; partial absorption reduces its value, full depletion destroys it.
func (s *Session) applyToDestructibleDefense(target *game.Combatant, damage int) int {
	dd := target.FindStatus(game.StatusDestructibleDefense)
	if dd == nil || dd.Value <= 0 || damage <= 0 {
		return damage
	}
	if dd.Value >= damage {
		dd.Value -= damage
		s.addLog("%s's destructible defense absorbed %d damage.", target.Name, damage)
		return 0
	}
	remaining := damage - dd.Value
	dd.Value = 0
	s.addLog("%s's destructible defense is destroyed!", target.Name)
	return remaining
}

// resolveHeal clamps to max HP and records only the actually applied delta.
func (s *Session) resolveHeal(effect *game.Effect, target *game.Combatant) {
	before := target.CurrentHP
	target.CurrentHP += effect.Value
	if target.CurrentHP > target.MaxHP {
		target.CurrentHP = target.MaxHP
	}
	healed := target.CurrentHP - before
	if healed > 0 {
		s.activePlayer().Stats.HealingDone += healed
	}
	s.addLog("%s healed for %d HP.", target.Name, healed)
}

// resolveApplyStatus either bumps the stack count of an existing stacking
// status (resetting its duration) or appends a new status carrying
// provenance. Some kinds have an immediate secondary effect.
func (s *Session) resolveApplyStatus(effect *game.Effect, skill *game.Skill, caster, target *game.Combatant) {
	if effect.Stacks {
		if existing := target.FindStatus(effect.Status); existing != nil {
			if existing.Stacks == 0 {
				existing.Stacks = 1
			}
			existing.Stacks++
			existing.Duration = effect.Duration
			s.addLog("%s's %s increased to %d stacks.", target.Name, effect.Status, existing.Stacks)
			return
		}
	}

	target.Statuses = append(target.Statuses, game.StatusFromEffect(effect, skill, caster.InstanceID))
	s.addLog("%s is now affected by %s.", target.Name, effect.Status)

	// Granting a permanent regenerating defense seeds the initial
	// destructible-defense pool immediately.
	if effect.Status == game.StatusPermanentDefense && effect.MaxValue > 0 {
		if !target.HasStatus(game.StatusDestructibleDefense) {
			target.Statuses = append(target.Statuses, game.Status{Kind: game.StatusDestructibleDefense, Value: effect.MaxValue})
			s.addLog("%s gains %d destructible defense.", target.Name, effect.MaxValue)
		}
	}
}

// resolveChakraDrain moves (steal) or discards (remove) a random eligible
// token from the target owner's pool. The caster may carry a status that
// skips the drain entirely.
func (s *Session) resolveChakraDrain(effect *game.Effect, caster, target *game.Combatant, steal bool) {
	if effect.SkipIfCasterHas != "" && caster.HasStatus(effect.SkipIfCasterHas) {
		s.addLog("%s's drain is suppressed this turn.", caster.Name)
		return
	}
	owner := s.ownerOf(target.InstanceID)
	if owner == nil {
		return
	}

	eligible := make([]string, 0, len(s.chakraTypes))
	for _, t := range s.chakraTypes {
		if owner.Chakra[t] <= 0 {
			continue
		}
		if len(effect.ChakraTypes) > 0 && !containsString(effect.ChakraTypes, t) {
			continue
		}
		eligible = append(eligible, t)
	}
	if len(eligible) == 0 {
		s.addLog("%s has no chakra to drain!", target.Name)
		return
	}

	t := eligible[s.rng.Intn(len(eligible))]
	amount := effect.Amount
	if amount <= 0 {
		amount = 1
	}
	if owner.Chakra[t] < amount {
		amount = owner.Chakra[t]
	}
	owner.Chakra[t] -= amount
	if steal {
		s.activePlayer().Chakra[t] += amount
		s.addLog("%s stole %d %s chakra from %s.", caster.Name, amount, t, target.Name)
	} else {
		s.addLog("%s destroyed %d of %s's %s chakra.", caster.Name, amount, target.Name, t)
	}
}

func containsString(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
