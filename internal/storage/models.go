package storage

import "time"

// Mission type discriminators.
const (
	MissionWinGames   = "win_games"
	MissionDealDamage = "deal_damage"
)

// PlayerProfile is the persistent account record backing queue
// classification and display names.
type PlayerProfile struct {
	ID          uint   `gorm:"primaryKey" json:"-"`
	PlayerUUID  string `gorm:"uniqueIndex" json:"playerId"`
	DisplayName string `json:"displayName"`
	GamesPlayed int    `json:"gamesPlayed"`
	Wins        int    `json:"wins"`
	Losses      int    `json:"losses"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
}

// SavedTeam stores a player's preferred lineup as a JSON array of character
// ids. Selection order is preserved.
type SavedTeam struct {
	ID           uint   `gorm:"primaryKey" json:"-"`
	PlayerUUID   string `gorm:"uniqueIndex" json:"playerId"`
	CharacterIDs string `json:"characterIds"`
	UpdatedAt    time.Time `json:"-"`
}

// PlayerRating carries the Glicko-2 state for one player.
type PlayerRating struct {
	ID          uint    `gorm:"primaryKey" json:"-"`
	PlayerUUID  string  `gorm:"uniqueIndex" json:"playerId"`
	DisplayName string  `json:"displayName"`
	Rating      float64 `json:"rating"`
	Deviation   float64 `json:"deviation"`
	Volatility  float64 `json:"volatility"`
	Wins        int     `json:"wins"`
	Losses      int     `json:"losses"`
	GamesPlayed int     `json:"gamesPlayed"`
	UpdatedAt   time.Time `json:"-"`
}

// Mission is a long-running objective players progress through by playing.
type Mission struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Title       string `gorm:"uniqueIndex" json:"title"`
	Description string `json:"description"`
	Type        string `json:"type"` // win_games | deal_damage
	Goal        int    `json:"goal"`
	Reward      string `json:"reward"`
}

// MissionProgress tracks one player's progress on one mission.
type MissionProgress struct {
	ID         uint   `gorm:"primaryKey" json:"-"`
	PlayerUUID string `gorm:"index:idx_mission_progress_player_mission,unique" json:"playerId"`
	MissionID  uint   `gorm:"index:idx_mission_progress_player_mission,unique" json:"missionId"`
	Progress   int    `json:"progress"`
	Completed  bool   `json:"completed"`
	UpdatedAt  time.Time `json:"-"`
}
