package engine

import (
	"math/rand"

	"github.com/C-Chambers/the-arena-engine-server/internal/game"
)

var testChakraTypes = []string{"Power", "Technique", "Agility", "Focus"}

func testCharacters() []game.CharacterDef {
	return []game.CharacterDef{
		{
			ID: "char_striker", Name: "Striker", MaxHP: 100,
			Skills: []game.Skill{
				{
					ID: "skill_bolt", Name: "Bolt", Cost: map[string]int{"Power": 1},
					Effects: []game.Effect{{Type: game.EffectDamage, Value: 30, Target: game.TargetEnemy}},
				},
				{
					ID: "skill_pierce", Name: "Pierce", Cost: map[string]int{"Technique": 1},
					Effects: []game.Effect{{Type: game.EffectDamage, Value: 15, DamageType: game.DamagePiercing, Target: game.TargetEnemy}},
				},
				{
					ID: "skill_toxin", Name: "Toxin", Cost: map[string]int{"Technique": 2}, Cooldown: 2,
					Effects: []game.Effect{
						{Type: game.EffectDamage, Value: 10, Target: game.TargetEnemy},
						{Type: game.EffectApplyStatus, Status: game.StatusPoison, Damage: 10, Duration: 3, Target: game.TargetEnemy},
					},
				},
			},
		},
		{
			ID: "char_warden", Name: "Warden", MaxHP: 120,
			Skills: []game.Skill{
				{
					ID: "skill_wall", Name: "Iron Wall", Cost: map[string]int{"Power": 2},
					Effects: []game.Effect{{Type: game.EffectAddShield, Value: 20, Target: game.TargetAlly}},
				},
				{
					ID: "skill_secret", Name: "Secret Art", Cost: map[string]int{"Focus": 1}, LockedByDefault: true,
					Effects: []game.Effect{{Type: game.EffectDamage, Value: 50, Target: game.TargetEnemy}},
				},
			},
		},
		{
			ID: "char_mender", Name: "Mender", MaxHP: 90,
			Skills: []game.Skill{
				{
					ID: "skill_mend", Name: "Mend", Cost: map[string]int{"Focus": 2},
					Effects: []game.Effect{{Type: game.EffectHeal, Value: 45, Target: game.TargetAlly}},
				},
				{
					ID: "skill_sweep", Name: "Sweep", Cost: map[string]int{"Random": 2},
					Effects: []game.Effect{{Type: game.EffectDamage, Value: 10, Target: game.TargetAllEnemies}},
				},
			},
		},
	}
}

// newTestSession builds a session of two full teams with empty chakra pools.
// Caller seeds pools directly.
func newTestSession() (*Session, *game.PlayerState, *game.PlayerState) {
	defs := testCharacters()
	teamA := make([]*game.Combatant, 0, 3)
	teamB := make([]*game.Combatant, 0, 3)
	for i := range defs {
		teamA = append(teamA, game.NewCombatant(&defs[i]))
	}
	defs2 := testCharacters()
	for i := range defs2 {
		teamB = append(teamB, game.NewCombatant(&defs2[i]))
	}
	p1 := game.NewPlayerState("player-1", "Asa", teamA)
	p2 := game.NewPlayerState("player-2", "Ren", teamB)
	s := NewSession(p1, p2, testChakraTypes, rand.New(rand.NewSource(1)))
	return s, p1, p2
}
