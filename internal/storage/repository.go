package storage

// Repository is the persistence surface the services depend on. All methods
// are safe for concurrent use.
type Repository interface {
	GetProfile(playerUUID string) (*PlayerProfile, error)
	SaveProfile(p *PlayerProfile) error

	// GetSavedTeam returns the stored character ids in selection order, or
	// an empty slice when the player has no saved team.
	GetSavedTeam(playerUUID string) ([]string, error)
	SaveTeam(playerUUID string, characterIDs []string) error

	// GetRating returns the stored Glicko-2 state, or nil when the player
	// has never completed a rated match.
	GetRating(playerUUID string) (*PlayerRating, error)
	SaveRating(r *PlayerRating) error
	GetTopRatings(limit int) ([]PlayerRating, error)

	GetMissions() ([]Mission, error)
	GetMissionProgress(playerUUID string, missionID uint) (*MissionProgress, error)
	SaveMissionProgress(mp *MissionProgress) error
}
