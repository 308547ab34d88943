package constant

import "time"

// Redis key layout. The memory backend mirrors the same names so the engine
// never knows which store it is talking to.
const (
	KeyShipSystems    = "ship:systems"
	KeyUserPrefix     = "user:"
	KeyRankPrefix     = "rank:"
	KeyMissionPrefix  = "mission:"
	KeyLeaderboard    = "leaderboard"
	KeyAuthPrefix     = "auth_session:"
	KeySemCachePrefix = "sem_cache:"
	KeyMaxRankLevel   = "max_rank_level"
)

const (
	SemCacheTTL    = 300 * time.Second
	AuthSessionTTL = 300 * time.Second

	// XP accounting
	XPCommand     = 10   // any accepted command with non-empty updates
	XPTurbo       = 10   // fast-path command with non-empty updates
	XPAuthorize   = 50   // both parties of a session authorization
	XPPromotion   = 1000 // mission success
	XPLeakCleared = 100  // crew member who clears a radiation leak

	MaxCommandLength = 1000

	// Rank required to authorize another crew member's session (Commander).
	AuthorizeMinRankLevel = 3
)

// Fixed in-universe narrations. The transport layer never sees raw errors;
// every failure class maps onto exactly one of these.
const (
	ResponseLockout = "Cannot comply. Bridge controls are locked out due to the radiation alert."

	ResponseTimeout    = "Processing delay. The main computer is rerouting power to compensation circuits."
	ResponseUpstream   = "Unable to access the knowledge database. Sensor arrays are offline."
	ResponseMalformed  = "Data corruption detected. Unable to parse logic stream."
	ResponseInternal   = "A critical system failure has occurred. Diagnostics initiated."
	ResponseCompletion = "Processing complete."
)

const (
	AlertLocationDenied = "location_denied"
	AlertRadiationLeak  = "radiation_leak"
)

// Valid crew locations. The location endpoint only accepts these.
var Locations = []string{
	"Bridge",
	"Engineering",
	"Sickbay",
	"Cargo Bay",
	"Jefferies Tube",
}

const DefaultLocation = "Bridge"
