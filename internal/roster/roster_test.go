package roster

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/C-Chambers/the-arena-engine-server/internal/game"
)

func validDefs() []game.CharacterDef {
	return []game.CharacterDef{
		{ID: "char_a", Name: "Alpha", MaxHP: 100, Skills: []game.Skill{
			{ID: "skill_jab", Name: "Jab", Cost: map[string]int{"Power": 1}},
		}},
		{ID: "char_b", Name: "Beta", MaxHP: 90},
	}
}

func TestNewSnapshotValidation(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(defs []game.CharacterDef) ([]game.CharacterDef, []string)
		wantErr bool
	}{
		{"valid", func(d []game.CharacterDef) ([]game.CharacterDef, []string) {
			return d, []string{"Power", "Technique"}
		}, false},
		{"wildcard cost allowed", func(d []game.CharacterDef) ([]game.CharacterDef, []string) {
			d[0].Skills[0].Cost = map[string]int{game.ChakraRandom: 2}
			return d, []string{"Power"}
		}, false},
		{"empty chakra types", func(d []game.CharacterDef) ([]game.CharacterDef, []string) {
			return d, nil
		}, true},
		{"duplicate chakra type", func(d []game.CharacterDef) ([]game.CharacterDef, []string) {
			return d, []string{"Power", "Power"}
		}, true},
		{"duplicate character id", func(d []game.CharacterDef) ([]game.CharacterDef, []string) {
			d[1].ID = d[0].ID
			return d, []string{"Power"}
		}, true},
		{"unknown cost type", func(d []game.CharacterDef) ([]game.CharacterDef, []string) {
			d[0].Skills[0].Cost = map[string]int{"Shadow": 1}
			return d, []string{"Power"}
		}, true},
		{"non-positive hp", func(d []game.CharacterDef) ([]game.CharacterDef, []string) {
			d[0].MaxHP = 0
			return d, []string{"Power"}
		}, true},
		{"skill without id", func(d []game.CharacterDef) ([]game.CharacterDef, []string) {
			d[0].Skills[0].ID = " "
			return d, []string{"Power"}
		}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			defs, types := tc.mutate(validDefs())
			_, err := NewSnapshot(defs, types)
			if (err != nil) != tc.wantErr {
				t.Fatalf("NewSnapshot error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestCharacterByID(t *testing.T) {
	snap, err := NewSnapshot(validDefs(), []string{"Power"})
	if err != nil {
		t.Fatalf("NewSnapshot failed: %v", err)
	}
	if def := snap.CharacterByID("char_b"); def == nil || def.Name != "Beta" {
		t.Fatalf("expected Beta, got %+v", def)
	}
	if def := snap.CharacterByID("char_missing"); def != nil {
		t.Fatalf("expected nil for unknown id, got %+v", def)
	}
}

func TestProviderReloadSwapsWholesale(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "roster.json")

	write := func(content string) {
		t.Helper()
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("writing roster file: %v", err)
		}
	}
	write(`{
		"chakra_types": ["Power"],
		"characters": [{"id": "char_a", "name": "Alpha", "max_hp": 100}]
	}`)

	p, err := NewProvider(path)
	if err != nil {
		t.Fatalf("NewProvider failed: %v", err)
	}
	before := p.Current()
	if len(before.Characters) != 1 {
		t.Fatalf("expected one character, got %d", len(before.Characters))
	}

	write(`{
		"chakra_types": ["Power"],
		"characters": [
			{"id": "char_a", "name": "Alpha", "max_hp": 100},
			{"id": "char_b", "name": "Beta", "max_hp": 90}
		]
	}`)
	if err := p.Reload(); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	after := p.Current()
	if len(after.Characters) != 2 {
		t.Fatalf("expected two characters after reload, got %d", len(after.Characters))
	}
	if after == before {
		t.Fatal("reload must publish a new snapshot, not mutate the old one")
	}

	// A broken file leaves the published snapshot untouched.
	write(`{"chakra_types": [], "characters": []}`)
	if err := p.Reload(); err == nil {
		t.Fatal("expected reload of an invalid roster to fail")
	}
	if p.Current() != after {
		t.Fatal("a failed reload must keep the previous snapshot")
	}
}
