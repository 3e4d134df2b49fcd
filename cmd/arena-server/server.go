package main

import (
	"github.com/gin-gonic/gin"

	"github.com/C-Chambers/the-arena-engine-server/internal/api"
	"github.com/C-Chambers/the-arena-engine-server/internal/constants"
	"github.com/C-Chambers/the-arena-engine-server/internal/ws"
)

func newRouter(handler *api.Handler, gateway *ws.Gateway) *gin.Engine {
	router := gin.Default()

	apiRoutes := router.Group(constants.RouteAPIPrefix)
	{
		apiRoutes.GET(constants.RouteHealth, handler.Health)
		apiRoutes.GET(constants.RouteRoster, handler.ListRoster)
		apiRoutes.POST(constants.RouteRosterReload, handler.ReloadRoster)
		apiRoutes.GET(constants.RouteAnalytics, handler.GetAnalytics)
		apiRoutes.GET(constants.RouteAlerts, handler.GetAlerts)
		apiRoutes.GET(constants.RouteLeaderboard, handler.GetLeaderboard)
	}

	router.GET(constants.RouteGameSocket, gateway.HandleGameSocket)
	router.GET(constants.RouteStatusSocket, gateway.HandleStatusSocket)

	return router
}
