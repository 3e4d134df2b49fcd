package roster

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync/atomic"

	"github.com/C-Chambers/the-arena-engine-server/internal/game"
)

// Snapshot is an immutable view of the character and chakra-type roster.
// Combat logic only ever reads a snapshot; reloads build a new one and
// publish it wholesale.
type Snapshot struct {
	Characters  []game.CharacterDef
	ChakraTypes []string

	byID map[string]*game.CharacterDef
}

// CharacterByID returns the definition with the given id, or nil.
func (s *Snapshot) CharacterByID(id string) *game.CharacterDef {
	return s.byID[id]
}

// Provider holds the currently published roster snapshot.
type Provider struct {
	path    string
	current atomic.Pointer[Snapshot]
}

// NewProvider loads the roster file at path and publishes the first snapshot.
func NewProvider(path string) (*Provider, error) {
	p := &Provider{path: path}
	if err := p.Reload(); err != nil {
		return nil, err
	}
	return p, nil
}

// Current returns the published snapshot. The result must be treated as
// read-only.
func (p *Provider) Current() *Snapshot {
	return p.current.Load()
}

// Reload re-reads the roster file, validates it and atomically swaps the
// published snapshot. On error the previous snapshot stays in place.
func (p *Provider) Reload() error {
	snap, err := LoadFile(p.path)
	if err != nil {
		return err
	}
	p.current.Store(snap)
	return nil
}

type rosterFile struct {
	ChakraTypes []string            `json:"chakra_types"`
	Characters  []game.CharacterDef `json:"characters"`
}

// LoadFile parses and validates a roster definition file.
func LoadFile(path string) (*Snapshot, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read roster file %s: %w", path, err)
	}
	var rf rosterFile
	if err := json.Unmarshal(b, &rf); err != nil {
		return nil, fmt.Errorf("failed to parse roster file %s: %w", path, err)
	}
	return buildSnapshot(rf.Characters, rf.ChakraTypes, path)
}

// NewSnapshot builds a validated snapshot from in-memory definitions.
// Used by tests and by callers that source the roster elsewhere.
func NewSnapshot(characters []game.CharacterDef, chakraTypes []string) (*Snapshot, error) {
	return buildSnapshot(characters, chakraTypes, "<memory>")
}

func buildSnapshot(characters []game.CharacterDef, chakraTypes []string, origin string) (*Snapshot, error) {
	if len(chakraTypes) == 0 {
		return nil, fmt.Errorf("roster %s: chakra_types is empty", origin)
	}
	if len(characters) == 0 {
		return nil, fmt.Errorf("roster %s: characters is empty", origin)
	}
	typeSet := make(map[string]struct{}, len(chakraTypes))
	for _, t := range chakraTypes {
		if _, dup := typeSet[t]; dup {
			return nil, fmt.Errorf("roster %s: duplicate chakra type '%s'", origin, t)
		}
		typeSet[t] = struct{}{}
	}

	snap := &Snapshot{
		Characters:  characters,
		ChakraTypes: chakraTypes,
		byID:        make(map[string]*game.CharacterDef, len(characters)),
	}
	skillIDs := make(map[string]struct{})
	for i := range snap.Characters {
		c := &snap.Characters[i]
		if strings.TrimSpace(c.ID) == "" || strings.TrimSpace(c.Name) == "" {
			return nil, fmt.Errorf("roster %s: character missing id or name", origin)
		}
		if c.MaxHP <= 0 {
			return nil, fmt.Errorf("roster %s: character '%s' has non-positive max_hp", origin, c.Name)
		}
		if _, dup := snap.byID[c.ID]; dup {
			return nil, fmt.Errorf("roster %s: duplicate character id '%s'", origin, c.ID)
		}
		snap.byID[c.ID] = c
		for j := range c.Skills {
			sk := &c.Skills[j]
			if strings.TrimSpace(sk.ID) == "" {
				return nil, fmt.Errorf("roster %s: character '%s' has a skill without an id", origin, c.Name)
			}
			if _, dup := skillIDs[sk.ID]; dup {
				return nil, fmt.Errorf("roster %s: duplicate skill id '%s'", origin, sk.ID)
			}
			skillIDs[sk.ID] = struct{}{}
			for t := range sk.Cost {
				if t == game.ChakraRandom {
					continue
				}
				if _, ok := typeSet[t]; !ok {
					return nil, fmt.Errorf("roster %s: skill '%s' costs unknown chakra type '%s'", origin, sk.Name, t)
				}
			}
		}
	}
	return snap, nil
}
