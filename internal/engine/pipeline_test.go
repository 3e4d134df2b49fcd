package engine

import (
	"testing"

	"github.com/C-Chambers/the-arena-engine-server/internal/game"
)

func TestNormalDamageConsumesShieldFirst(t *testing.T) {
	s, _, p2 := newTestSession()
	target := p2.Team[0]
	target.CurrentHP = 50
	target.Statuses = append(target.Statuses, game.Status{Kind: game.StatusShield, Value: 20})

	effect := &game.Effect{Type: game.EffectDamage, Value: 30}
	skill := &game.Skill{ID: "skill_bolt", Name: "Bolt"}
	s.applyEffect(effect, skill, s.players[0].Team[0], target)

	if target.CurrentHP != 40 {
		t.Fatalf("expected 40 HP after shield absorbed 20 of 30, got %d", target.CurrentHP)
	}
	if target.HasStatus(game.StatusShield) {
		t.Fatal("depleted shield must be removed")
	}
}

func TestZeroValueDamageChangesNothing(t *testing.T) {
	s, _, p2 := newTestSession()
	target := p2.Team[0]
	target.Statuses = append(target.Statuses,
		game.Status{Kind: game.StatusShield, Value: 20},
		game.Status{Kind: game.StatusDestructibleDefense, Value: 10},
	)

	effect := &game.Effect{Type: game.EffectDamage, Value: 0}
	s.applyEffect(effect, &game.Skill{ID: "skill_bolt", Name: "Bolt"}, s.players[0].Team[0], target)

	if target.CurrentHP != target.MaxHP {
		t.Fatalf("a zero-value hit must not move HP, got %d", target.CurrentHP)
	}
	if shield := target.FindStatus(game.StatusShield); shield == nil || shield.Value != 20 {
		t.Fatalf("a zero-value hit must not touch the shield, got %+v", shield)
	}
	if dd := target.FindStatus(game.StatusDestructibleDefense); dd == nil || dd.Value != 10 {
		t.Fatalf("a zero-value hit must not touch the defense pool, got %+v", dd)
	}
}

func TestPiercingDamageIgnoresShieldAndReduction(t *testing.T) {
	s, _, p2 := newTestSession()
	target := p2.Team[0]
	target.CurrentHP = 50
	target.Statuses = append(target.Statuses,
		game.Status{Kind: game.StatusShield, Value: 20},
		game.Status{Kind: game.StatusDamageReduction, Reduction: game.ReductionFlat, Value: 10, Duration: 2},
	)

	effect := &game.Effect{Type: game.EffectDamage, Value: 15, DamageType: game.DamagePiercing}
	s.applyEffect(effect, &game.Skill{ID: "skill_pierce", Name: "Pierce"}, s.players[0].Team[0], target)

	if target.CurrentHP != 35 {
		t.Fatalf("expected 35 HP (full 15 through shield and reduction), got %d", target.CurrentHP)
	}
	if shield := target.FindStatus(game.StatusShield); shield == nil || shield.Value != 20 {
		t.Fatalf("piercing damage must not touch the shield, got %+v", shield)
	}
}

func TestPiercingDamageStopsAtDestructibleDefense(t *testing.T) {
	s, _, p2 := newTestSession()
	target := p2.Team[0]
	target.Statuses = append(target.Statuses, game.Status{Kind: game.StatusDestructibleDefense, Value: 10})
	before := target.CurrentHP

	effect := &game.Effect{Type: game.EffectDamage, Value: 15, DamageType: game.DamagePiercing}
	s.applyEffect(effect, &game.Skill{ID: "skill_pierce", Name: "Pierce"}, s.players[0].Team[0], target)

	if target.CurrentHP != before-5 {
		t.Fatalf("expected %d HP (10 absorbed by defense), got %d", before-5, target.CurrentHP)
	}
	if dd := target.FindStatus(game.StatusDestructibleDefense); dd == nil || dd.Value != 0 {
		t.Fatalf("expected depleted destructible defense, got %+v", dd)
	}
}

func TestAfflictionDamageBypassesEverything(t *testing.T) {
	s, _, p2 := newTestSession()
	target := p2.Team[0]
	target.Statuses = append(target.Statuses,
		game.Status{Kind: game.StatusShield, Value: 50},
		game.Status{Kind: game.StatusDestructibleDefense, Value: 50},
		game.Status{Kind: game.StatusDamageReduction, Reduction: game.ReductionFlat, Value: 50, Duration: 2},
	)
	before := target.CurrentHP

	effect := &game.Effect{Type: game.EffectDamage, Value: 25, DamageType: game.DamageAffliction}
	s.applyEffect(effect, &game.Skill{ID: "skill_toxin", Name: "Toxin"}, s.players[0].Team[0], target)

	if target.CurrentHP != before-25 {
		t.Fatalf("expected affliction to land full 25, got HP %d (before %d)", target.CurrentHP, before)
	}
	if shield := target.FindStatus(game.StatusShield); shield == nil || shield.Value != 50 {
		t.Fatal("affliction must leave the shield untouched")
	}
}

func TestFlatThenPercentageReduction(t *testing.T) {
	s, _, p2 := newTestSession()
	target := p2.Team[0]
	before := target.CurrentHP
	target.Statuses = append(target.Statuses,
		game.Status{Kind: game.StatusDamageReduction, Reduction: game.ReductionFlat, Value: 10, Duration: 2},
		game.Status{Kind: game.StatusDamageReduction, Reduction: game.ReductionPercentage, Percent: 0.5, Duration: 2},
	)

	// 30 damage -> flat 10 leaves 20 -> 50% leaves 10.
	effect := &game.Effect{Type: game.EffectDamage, Value: 30}
	s.applyEffect(effect, &game.Skill{ID: "skill_bolt", Name: "Bolt"}, s.players[0].Team[0], target)

	if target.CurrentHP != before-10 {
		t.Fatalf("expected 10 damage after layered reduction, got %d", before-target.CurrentHP)
	}
}

func TestVulnerableMultipliesBeforeMitigation(t *testing.T) {
	s, _, p2 := newTestSession()
	target := p2.Team[0]
	before := target.CurrentHP
	target.Statuses = append(target.Statuses, game.Status{Kind: game.StatusVulnerable, Multiplier: 1.5, Duration: 2})

	effect := &game.Effect{Type: game.EffectDamage, Value: 20}
	s.applyEffect(effect, &game.Skill{ID: "skill_bolt", Name: "Bolt"}, s.players[0].Team[0], target)

	if target.CurrentHP != before-30 {
		t.Fatalf("expected 30 damage (20 x 1.5), got %d", before-target.CurrentHP)
	}
}

func TestEmpowerAndConditionalBonus(t *testing.T) {
	s, p1, p2 := newTestSession()
	caster := p1.Team[0]
	target := p2.Team[0]
	before := target.CurrentHP

	caster.Statuses = append(caster.Statuses, game.Status{Kind: game.StatusEmpowerSkill, SkillID: "skill_bolt", BonusDamage: 10, Duration: 2})
	target.Statuses = append(target.Statuses, game.Status{Kind: game.StatusAirMark, Stacks: 2, Duration: 3})

	effect := &game.Effect{
		Type: game.EffectDamage, Value: 30,
		ConditionalBonus: &game.ConditionalBonus{RequiresStatus: game.StatusAirMark, BonusPerStack: 5},
	}
	s.applyEffect(effect, &game.Skill{ID: "skill_bolt", Name: "Bolt"}, caster, target)

	// 30 base + 10 empower + 2 stacks x 5.
	if got := before - target.CurrentHP; got != 50 {
		t.Fatalf("expected 50 damage, got %d", got)
	}
}

func TestTrackingMarkBoostsOnlyFollowUpsFromItsCaster(t *testing.T) {
	s, p1, p2 := newTestSession()
	caster := p1.Team[0]
	other := p1.Team[1]
	target := p2.Team[0]
	target.Statuses = append(target.Statuses, game.Status{
		Kind: game.StatusTrackingMark, CasterInstance: caster.InstanceID,
		FollowUp: []string{"Bolt"}, BonusDamage: 15, Duration: 3,
	})

	before := target.CurrentHP
	effect := &game.Effect{Type: game.EffectDamage, Value: 30}
	s.applyEffect(effect, &game.Skill{ID: "skill_bolt", Name: "Bolt"}, caster, target)
	if got := before - target.CurrentHP; got != 45 {
		t.Fatalf("expected 45 damage with follow-up bonus, got %d", got)
	}

	// Same skill name cast by a different combatant gets no bonus.
	before = target.CurrentHP
	s.applyEffect(effect, &game.Skill{ID: "skill_bolt", Name: "Bolt"}, other, target)
	if got := before - target.CurrentHP; got != 30 {
		t.Fatalf("expected 30 unboosted damage from another caster, got %d", got)
	}
}

func TestInvulnerableBlocksEverything(t *testing.T) {
	s, p1, p2 := newTestSession()
	target := p2.Team[0]
	target.Statuses = append(target.Statuses, game.Status{Kind: game.StatusInvulnerable, Duration: 1})
	before := target.CurrentHP

	s.applyEffect(&game.Effect{Type: game.EffectDamage, Value: 30}, &game.Skill{ID: "skill_bolt", Name: "Bolt"}, p1.Team[0], target)
	s.applyEffect(&game.Effect{Type: game.EffectApplyStatus, Status: game.StatusPoison, Damage: 10, Duration: 3}, &game.Skill{ID: "skill_toxin", Name: "Toxin"}, p1.Team[0], target)

	if target.CurrentHP != before {
		t.Fatalf("invulnerable target must take no damage, lost %d", before-target.CurrentHP)
	}
	if target.HasStatus(game.StatusPoison) {
		t.Fatal("invulnerable target must not receive statuses")
	}
}

func TestEffectImmunityBlocksOnlyNonDamaging(t *testing.T) {
	s, p1, p2 := newTestSession()
	target := p2.Team[0]
	target.Statuses = append(target.Statuses, game.Status{Kind: game.StatusEffectImmunity, Duration: 2})
	before := target.CurrentHP

	s.applyEffect(&game.Effect{Type: game.EffectApplyStatus, Status: game.StatusPoison, Damage: 10, Duration: 3}, &game.Skill{ID: "skill_toxin", Name: "Toxin"}, p1.Team[0], target)
	if target.HasStatus(game.StatusPoison) {
		t.Fatal("immune target must not receive statuses")
	}

	s.applyEffect(&game.Effect{Type: game.EffectDamage, Value: 30}, &game.Skill{ID: "skill_bolt", Name: "Bolt"}, p1.Team[0], target)
	if target.CurrentHP != before-30 {
		t.Fatalf("immunity must not block damage, got HP %d", target.CurrentHP)
	}
}

func TestAirMarkDeniesDefensiveBenefits(t *testing.T) {
	s, p1, p2 := newTestSession()
	target := p2.Team[0]
	target.Statuses = append(target.Statuses, game.Status{Kind: game.StatusAirMark, Duration: 3})

	s.applyEffect(&game.Effect{Type: game.EffectAddShield, Value: 20}, &game.Skill{ID: "skill_wall", Name: "Iron Wall"}, p1.Team[1], target)
	if target.HasStatus(game.StatusShield) {
		t.Fatal("marked target must not gain a shield")
	}

	s.applyEffect(&game.Effect{Type: game.EffectApplyStatus, Status: game.StatusDamageReduction, Value: 10, Duration: 2}, &game.Skill{ID: "skill_guard", Name: "Guard"}, p1.Team[1], target)
	if target.HasStatus(game.StatusDamageReduction) {
		t.Fatal("marked target must not gain damage reduction")
	}

	// Non-defensive statuses still land.
	s.applyEffect(&game.Effect{Type: game.EffectApplyStatus, Status: game.StatusPoison, Damage: 5, Duration: 2}, &game.Skill{ID: "skill_toxin", Name: "Toxin"}, p1.Team[0], target)
	if !target.HasStatus(game.StatusPoison) {
		t.Fatal("mark must not block harmful statuses")
	}
}

func TestDodgeChanceBounds(t *testing.T) {
	s, p1, p2 := newTestSession()
	target := p2.Team[0]
	before := target.CurrentHP

	target.Statuses = []game.Status{{Kind: game.StatusDodge, Chance: 1.0, Duration: 2}}
	s.applyEffect(&game.Effect{Type: game.EffectDamage, Value: 30}, &game.Skill{ID: "skill_bolt", Name: "Bolt"}, p1.Team[0], target)
	if target.CurrentHP != before {
		t.Fatal("a certain dodge must avoid all damage")
	}

	target.Statuses = []game.Status{{Kind: game.StatusDodge, Chance: 0.0, Duration: 2}}
	s.applyEffect(&game.Effect{Type: game.EffectDamage, Value: 30}, &game.Skill{ID: "skill_bolt", Name: "Bolt"}, p1.Team[0], target)
	if target.CurrentHP != before-30 {
		t.Fatal("a zero-chance dodge must never trigger")
	}
}

func TestDeadTargetIsSkipped(t *testing.T) {
	s, p1, p2 := newTestSession()
	target := p2.Team[0]
	target.ApplyDamage(target.MaxHP)

	s.applyEffect(&game.Effect{Type: game.EffectHeal, Value: 45}, &game.Skill{ID: "skill_mend", Name: "Mend"}, p1.Team[2], target)
	if target.CurrentHP != 0 || target.Alive {
		t.Fatalf("dead target must stay at 0 HP, got %d alive=%v", target.CurrentHP, target.Alive)
	}
}

func TestHealClampsAndRecordsActualAmount(t *testing.T) {
	s, p1, _ := newTestSession()
	ally := p1.Team[0]
	ally.CurrentHP = ally.MaxHP - 10

	s.applyEffect(&game.Effect{Type: game.EffectHeal, Value: 45}, &game.Skill{ID: "skill_mend", Name: "Mend"}, p1.Team[2], ally)

	if ally.CurrentHP != ally.MaxHP {
		t.Fatalf("expected heal to clamp at max HP, got %d", ally.CurrentHP)
	}
	if p1.Stats.HealingDone != 10 {
		t.Fatalf("expected 10 recorded healing, got %d", p1.Stats.HealingDone)
	}
}

func TestStackingStatusIncrementsAndResetsDuration(t *testing.T) {
	s, p1, p2 := newTestSession()
	target := p2.Team[0]
	effect := &game.Effect{Type: game.EffectApplyStatus, Status: game.StatusAirMark, Duration: 3, Stacks: true}
	skill := &game.Skill{ID: "skill_mark", Name: "Air Marking"}

	s.applyEffect(effect, skill, p1.Team[0], target)
	st := target.FindStatus(game.StatusAirMark)
	if st == nil || st.Stacks != 1 {
		t.Fatalf("expected 1 stack, got %+v", st)
	}
	st.Duration = 1

	s.applyEffect(effect, skill, p1.Team[0], target)
	st = target.FindStatus(game.StatusAirMark)
	if st == nil || st.Stacks != 2 || st.Duration != 3 {
		t.Fatalf("expected 2 stacks and refreshed duration 3, got %+v", st)
	}
}

func TestPermanentDefenseSeedsPool(t *testing.T) {
	s, p1, _ := newTestSession()
	target := p1.Team[1]

	effect := &game.Effect{Type: game.EffectApplyStatus, Status: game.StatusPermanentDefense, MaxValue: 25, Target: game.TargetSelf}
	s.applyEffect(effect, &game.Skill{ID: "skill_carapace", Name: "Carapace"}, target, target)

	dd := target.FindStatus(game.StatusDestructibleDefense)
	if dd == nil || dd.Value != 25 {
		t.Fatalf("expected seeded destructible defense of 25, got %+v", dd)
	}
}

func TestChakraStealMovesTokens(t *testing.T) {
	s, p1, p2 := newTestSession()
	p2.Chakra = game.ChakraPool{"Power": 2}

	effect := &game.Effect{Type: game.EffectStealChakra, Amount: 1}
	s.applyEffect(effect, &game.Skill{ID: "skill_leech", Name: "Leech"}, p1.Team[0], p2.Team[0])

	if p2.Chakra["Power"] != 1 {
		t.Fatalf("expected victim to lose one Power token, got %v", p2.Chakra)
	}
	if p1.Chakra["Power"] != 1 {
		t.Fatalf("expected thief to gain one Power token, got %v", p1.Chakra)
	}
}

func TestChakraRemoveDiscardsTokens(t *testing.T) {
	s, p1, p2 := newTestSession()
	p2.Chakra = game.ChakraPool{"Focus": 1}

	effect := &game.Effect{Type: game.EffectRemoveChakra, Amount: 2, ChakraTypes: []string{"Focus"}}
	s.applyEffect(effect, &game.Skill{ID: "skill_burn", Name: "Burn"}, p1.Team[0], p2.Team[0])

	if p2.Chakra["Focus"] != 0 {
		t.Fatalf("expected Focus drained to 0, got %v", p2.Chakra)
	}
	if p1.Chakra.Total() != 0 {
		t.Fatalf("removal must not credit the caster, got %v", p1.Chakra)
	}
}
