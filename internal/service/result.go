package service

import (
	"fmt"

	glicko "github.com/zelenin/go-glicko2"

	"github.com/C-Chambers/the-arena-engine-server/internal/engine"
	"github.com/C-Chambers/the-arena-engine-server/internal/game"
	"github.com/C-Chambers/the-arena-engine-server/internal/logging"
	"github.com/C-Chambers/the-arena-engine-server/internal/storage"
)

// Glicko-2 starting values for players without a stored rating.
const (
	DefaultRating     = 1500
	DefaultDeviation  = 350
	DefaultVolatility = 0.06
)

// ResultService consumes finished matches: it updates Glicko-2 ratings,
// profile win/loss records and mission progress. Rating and mission updates
// are isolated from each other — a failure in one never blocks the other.
type ResultService struct {
	repo storage.Repository
}

// NewResultService wires a result service over the repository.
func NewResultService(repo storage.Repository) *ResultService {
	return &ResultService{repo: repo}
}

// RatingFor resolves the player's matchmaking rating, defaulting for players
// who have never finished a rated match.
func (s *ResultService) RatingFor(id game.PlayerID) (float64, error) {
	pr, err := s.repo.GetRating(string(id))
	if err != nil {
		return 0, err
	}
	if pr == nil {
		return DefaultRating, nil
	}
	return pr.Rating, nil
}

// ReportResult processes one finished match. A draw carries no rating or
// win/loss update; damage-based mission progress still accrues for both
// sides.
func (s *ResultService) ReportResult(res *engine.Result) {
	if !res.Draw {
		if err := s.updateRatings(res.Winner, res.Loser); err != nil {
			logging.Error("rating update failed", err, logging.Fields{
				"winner": string(res.Winner),
				"loser":  string(res.Loser),
			})
		}
		if err := s.updateProfiles(res.Winner, res.Loser); err != nil {
			logging.Error("profile update failed", err, nil)
		}
	}
	for id, stats := range res.Stats {
		won := !res.Draw && id == res.Winner
		if err := s.updateMissions(id, won, stats); err != nil {
			logging.Error("mission progress update failed", err, logging.Fields{
				"player_id": string(id),
			})
		}
	}
}

func (s *ResultService) loadOrDefaultRating(id game.PlayerID) (*storage.PlayerRating, error) {
	pr, err := s.repo.GetRating(string(id))
	if err != nil {
		return nil, err
	}
	if pr == nil {
		pr = &storage.PlayerRating{
			PlayerUUID: string(id),
			Rating:     DefaultRating,
			Deviation:  DefaultDeviation,
			Volatility: DefaultVolatility,
		}
	}
	return pr, nil
}

func (s *ResultService) updateRatings(winnerID, loserID game.PlayerID) error {
	winner, err := s.loadOrDefaultRating(winnerID)
	if err != nil {
		return err
	}
	loser, err := s.loadOrDefaultRating(loserID)
	if err != nil {
		return err
	}

	w := glicko.NewPlayer(glicko.NewRating(winner.Rating, winner.Deviation, winner.Volatility))
	l := glicko.NewPlayer(glicko.NewRating(loser.Rating, loser.Deviation, loser.Volatility))
	period := glicko.NewRatingPeriod()
	period.AddMatch(w, l, glicko.MATCH_RESULT_WIN)
	period.Calculate()

	winner.Rating = w.Rating().R()
	winner.Deviation = w.Rating().Rd()
	winner.Volatility = w.Rating().Sigma()
	winner.Wins++
	winner.GamesPlayed++

	loser.Rating = l.Rating().R()
	loser.Deviation = l.Rating().Rd()
	loser.Volatility = l.Rating().Sigma()
	loser.Losses++
	loser.GamesPlayed++

	if err := s.repo.SaveRating(winner); err != nil {
		return fmt.Errorf("saving winner rating: %w", err)
	}
	if err := s.repo.SaveRating(loser); err != nil {
		return fmt.Errorf("saving loser rating: %w", err)
	}
	logging.Info("ratings updated", logging.Fields{
		"winner":        string(winnerID),
		"winner_rating": winner.Rating,
		"loser":         string(loserID),
		"loser_rating":  loser.Rating,
	})
	return nil
}

func (s *ResultService) updateProfiles(winnerID, loserID game.PlayerID) error {
	for _, u := range []struct {
		id  game.PlayerID
		won bool
	}{{winnerID, true}, {loserID, false}} {
		p, err := s.repo.GetProfile(string(u.id))
		if err != nil {
			return err
		}
		if p == nil {
			p = &storage.PlayerProfile{PlayerUUID: string(u.id)}
		}
		p.GamesPlayed++
		if u.won {
			p.Wins++
		} else {
			p.Losses++
		}
		if err := s.repo.SaveProfile(p); err != nil {
			return err
		}
	}
	return nil
}

func (s *ResultService) updateMissions(id game.PlayerID, won bool, stats game.MatchStats) error {
	missions, err := s.repo.GetMissions()
	if err != nil {
		return err
	}
	for _, m := range missions {
		var delta int
		switch m.Type {
		case storage.MissionWinGames:
			if won {
				delta = 1
			}
		case storage.MissionDealDamage:
			delta = stats.DamageDealt
		}
		if delta == 0 {
			continue
		}

		mp, err := s.repo.GetMissionProgress(string(id), m.ID)
		if err != nil {
			return err
		}
		if mp == nil {
			mp = &storage.MissionProgress{PlayerUUID: string(id), MissionID: m.ID}
		}
		if mp.Completed {
			continue
		}
		mp.Progress += delta
		if mp.Progress >= m.Goal {
			mp.Progress = m.Goal
			mp.Completed = true
			logging.Info("mission completed", logging.Fields{
				"player_id": string(id),
				"mission":   m.Title,
				"reward":    m.Reward,
			})
		}
		if err := s.repo.SaveMissionProgress(mp); err != nil {
			return err
		}
	}
	return nil
}
