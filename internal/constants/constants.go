package constants

// Session
const (
	SessionCookieName = "fitsync_session"
	SessionKeyUserID  = "user_id"
	SessionKeyIsAdmin = "is_admin"
)

// Auth
const MinPasswordLength = 6

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
	AdminPageSize   = 50
)

// Listing caps
const (
	MaxWorkoutListSize = 100
	StatsWeekWindow    = 12
	SignupWeekWindow   = 8
	TopGymLimit        = 5
)
