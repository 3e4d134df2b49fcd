package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/C-Chambers/the-arena-engine-server/internal/constants"
	"github.com/C-Chambers/the-arena-engine-server/internal/logging"
	"github.com/C-Chambers/the-arena-engine-server/internal/matchmaking"
	"github.com/C-Chambers/the-arena-engine-server/internal/roster"
	"github.com/C-Chambers/the-arena-engine-server/internal/storage"
	"github.com/C-Chambers/the-arena-engine-server/internal/version"
)

const leaderboardLimit = 50

// RosterProvider is the roster surface the handlers need: the published
// snapshot plus the admin reload trigger.
type RosterProvider interface {
	Current() *roster.Snapshot
	Reload() error
}

// Handler serves the REST surface: roster, analytics, leaderboard, health.
type Handler struct {
	roster    RosterProvider
	analytics *matchmaking.Analytics
	repo      storage.Repository
}

func NewHandler(rp RosterProvider, analytics *matchmaking.Analytics, repo storage.Repository) *Handler {
	return &Handler{roster: rp, analytics: analytics, repo: repo}
}

// ListRoster returns the published character and chakra-type roster.
func (h *Handler) ListRoster(c *gin.Context) {
	snap := h.roster.Current()
	c.JSON(http.StatusOK, gin.H{
		"chakraTypes": snap.ChakraTypes,
		"characters":  snap.Characters,
	})
}

// ReloadRoster rebuilds the roster snapshot from disk and publishes it
// wholesale. Running sessions keep the snapshot they started with.
func (h *Handler) ReloadRoster(c *gin.Context) {
	if err := h.roster.Reload(); err != nil {
		logging.Error("roster reload failed", err, nil)
		c.JSON(http.StatusUnprocessableEntity, gin.H{constants.JSONKeyError: err.Error()})
		return
	}
	snap := h.roster.Current()
	logging.Info("roster reloaded", logging.Fields{"characters": len(snap.Characters)})
	c.JSON(http.StatusOK, gin.H{constants.JSONKeyMessage: "roster reloaded"})
}

// GetAnalytics returns the matchmaking health counters.
func (h *Handler) GetAnalytics(c *gin.Context) {
	c.JSON(http.StatusOK, h.analytics.Snapshot())
}

// GetAlerts returns the currently firing health alerts.
func (h *Handler) GetAlerts(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"alerts": h.analytics.Alerts()})
}

// GetLeaderboard returns the top rated players.
func (h *Handler) GetLeaderboard(c *gin.Context) {
	ratings, err := h.repo.GetTopRatings(leaderboardLimit)
	if err != nil {
		logging.Error("leaderboard query failed", err, nil)
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: "failed to load leaderboard"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"leaderboard": ratings})
}

// Health reports liveness plus build metadata.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		constants.JSONKeyStatus: "ok",
		"version":               version.Version,
		"commit":                version.Commit,
		"date":                  version.Date,
	})
}
