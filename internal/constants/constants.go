package constants

// Centralized constants for env keys, routes, websocket message types and
// structured log field names.
const (
	// Environment variable keys
	EnvConfigPath = "ARENA_CONFIG"
	EnvDBPath     = "ARENA_DB"
	EnvRosterPath = "ARENA_ROSTER"

	// Routes used by the backend router
	RouteAPIPrefix    = "/api"
	RouteHealth       = "/health"
	RouteRoster       = "/roster"
	RouteRosterReload = "/roster/reload"
	RouteAnalytics    = "/analytics"
	RouteAlerts       = "/analytics/alerts"
	RouteLeaderboard  = "/leaderboard"
	RouteGameSocket   = "/ws"
	RouteStatusSocket = "/status-ws"

	// Websocket message types (server -> client)
	MsgGameStart            = "GAME_START"
	MsgGameUpdate           = "GAME_UPDATE"
	MsgActionError          = "ACTION_ERROR"
	MsgStatus               = "STATUS"
	MsgOpponentDisconnected = "OPPONENT_DISCONNECTED"

	// Websocket action types (client -> server)
	ActionQueueSkill   = "QUEUE_SKILL"
	ActionDequeueSkill = "DEQUEUE_SKILL"
	ActionReorderQueue = "REORDER_QUEUE"
	ActionExecuteTurn  = "EXECUTE_TURN"

	// Common JSON response keys
	JSONKeyError   = "error"
	JSONKeyMessage = "message"
	JSONKeyStatus  = "status"

	// Structured log field names
	LogFieldAddr      = "addr"
	LogFieldSessionID = "session_id"
	LogFieldPlayerID  = "player_id"
	LogFieldQueue     = "queue"
	LogFieldTick      = "tick_period"
)
