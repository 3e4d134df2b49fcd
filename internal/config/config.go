package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/C-Chambers/the-arena-engine-server/internal/matchmaking"
)

type rawConfig struct {
	Server *struct {
		Address string `json:"address"`
	} `json:"server"`
	DatabasePath string `json:"database_path"`
	RosterPath   string `json:"roster_path"`
	Matchmaking  *struct {
		NewPlayerThreshold  int     `json:"new_player_threshold"`
		PriorityWaitSeconds int     `json:"priority_wait_seconds"`
		InitialRange        float64 `json:"initial_range"`
		RangeStep           float64 `json:"range_step"`
	} `json:"matchmaking"`
}

// LoadedConfig carries everything the server needs to boot.
type LoadedConfig struct {
	ServerAddress string
	DatabasePath  string
	RosterPath    string
	Matchmaking   matchmaking.Config
}

// LoadConfig reads the configuration file at path. Every key is optional;
// omitted keys fall back to the defaults, invalid values are rejected.
func LoadConfig(path string) (*LoadedConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	var rc rawConfig
	if err := json.Unmarshal(b, &rc); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	out := &LoadedConfig{
		ServerAddress: ":8080",
		DatabasePath:  "./data/arena.db",
		RosterPath:    "./arena_roster.json",
		Matchmaking:   matchmaking.DefaultConfig(),
	}
	if rc.Server != nil && rc.Server.Address != "" {
		out.ServerAddress = rc.Server.Address
	}
	if rc.DatabasePath != "" {
		out.DatabasePath = rc.DatabasePath
	}
	if rc.RosterPath != "" {
		out.RosterPath = rc.RosterPath
	}
	if mm := rc.Matchmaking; mm != nil {
		if mm.NewPlayerThreshold < 0 {
			return nil, fmt.Errorf("config file %s: new_player_threshold must not be negative", path)
		}
		if mm.NewPlayerThreshold > 0 {
			out.Matchmaking.NewPlayerThreshold = mm.NewPlayerThreshold
		}
		if mm.PriorityWaitSeconds > 0 {
			out.Matchmaking.PriorityWait = time.Duration(mm.PriorityWaitSeconds) * time.Second
		}
		if mm.InitialRange < 0 || mm.RangeStep < 0 {
			return nil, fmt.Errorf("config file %s: matchmaking ranges must not be negative", path)
		}
		if mm.InitialRange > 0 {
			out.Matchmaking.InitialRange = mm.InitialRange
		}
		if mm.RangeStep > 0 {
			out.Matchmaking.RangeStep = mm.RangeStep
		}
	}
	return out, nil
}
