package storage

import (
	"encoding/json"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type sqliteRepository struct {
	db *gorm.DB
}

// NewSQLiteRepository wraps an opened gorm handle.
func NewSQLiteRepository(db *gorm.DB) Repository {
	return &sqliteRepository{db: db}
}

func (r *sqliteRepository) GetProfile(playerUUID string) (*PlayerProfile, error) {
	var p PlayerProfile
	err := r.db.Where("player_uuid = ?", playerUUID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *sqliteRepository) SaveProfile(p *PlayerProfile) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "player_uuid"}},
		UpdateAll: true,
	}).Create(p).Error
}

func (r *sqliteRepository) GetSavedTeam(playerUUID string) ([]string, error) {
	var t SavedTeam
	err := r.db.Where("player_uuid = ?", playerUUID).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var ids []string
	if err := json.Unmarshal([]byte(t.CharacterIDs), &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *sqliteRepository) SaveTeam(playerUUID string, characterIDs []string) error {
	b, err := json.Marshal(characterIDs)
	if err != nil {
		return err
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "player_uuid"}},
		UpdateAll: true,
	}).Create(&SavedTeam{PlayerUUID: playerUUID, CharacterIDs: string(b)}).Error
}

func (r *sqliteRepository) GetRating(playerUUID string) (*PlayerRating, error) {
	var pr PlayerRating
	err := r.db.Where("player_uuid = ?", playerUUID).First(&pr).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &pr, nil
}

func (r *sqliteRepository) SaveRating(pr *PlayerRating) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "player_uuid"}},
		UpdateAll: true,
	}).Create(pr).Error
}

func (r *sqliteRepository) GetTopRatings(limit int) ([]PlayerRating, error) {
	var ratings []PlayerRating
	if err := r.db.Order("rating desc").Limit(limit).Find(&ratings).Error; err != nil {
		return nil, err
	}
	return ratings, nil
}

func (r *sqliteRepository) GetMissions() ([]Mission, error) {
	var missions []Mission
	if err := r.db.Find(&missions).Error; err != nil {
		return nil, err
	}
	return missions, nil
}

func (r *sqliteRepository) GetMissionProgress(playerUUID string, missionID uint) (*MissionProgress, error) {
	var mp MissionProgress
	err := r.db.Where("player_uuid = ? AND mission_id = ?", playerUUID, missionID).First(&mp).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &mp, nil
}

func (r *sqliteRepository) SaveMissionProgress(mp *MissionProgress) error {
	if mp.ID != 0 {
		return r.db.Save(mp).Error
	}
	return r.db.Create(mp).Error
}
