package storage

import (
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/C-Chambers/the-arena-engine-server/internal/logging"
)

// OpenAndMigrate opens the sqlite database, keeps the schema updated via
// AutoMigrate and seeds the default mission set on first run.
func OpenAndMigrate(dataSourceName string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dataSourceName), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(
		&PlayerProfile{},
		&SavedTeam{},
		&PlayerRating{},
		&Mission{},
		&MissionProgress{},
	); err != nil {
		return nil, err
	}
	seedDefaultMissions(db)
	return db, nil
}

// seedDefaultMissions inserts the built-in missions when they are missing.
// Seeding failures are logged, not fatal: the server runs fine without
// missions.
func seedDefaultMissions(db *gorm.DB) {
	defaults := []Mission{
		{Title: "First Steps", Description: "Win 5 battles in the arena.", Type: "win_games", Goal: 5, Reward: "Title: Initiate"},
		{Title: "Proven Warrior", Description: "Win 25 battles in the arena.", Type: "win_games", Goal: 25, Reward: "Title: Warrior"},
		{Title: "Heavy Hitter", Description: "Deal 10000 total damage.", Type: "deal_damage", Goal: 10000, Reward: "Title: Wrecker"},
	}
	for _, m := range defaults {
		if err := db.Where("title = ?", m.Title).FirstOrCreate(&m).Error; err != nil {
			logging.Error("failed to seed mission", err, logging.Fields{"title": m.Title})
		}
	}
}
