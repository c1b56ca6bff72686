package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Persistence errors
	ErrNotFound    = fmt.Errorf("the requested item does not exist")
	ErrCorruptData = fmt.Errorf("serialized data failed verification")

	// Leaderboard and catalog errors
	ErrLeaderboardKey    = fmt.Errorf("cannot build leaderboard name")
	ErrLeaderboardAbsent = fmt.Errorf("leaderboard not found")
	ErrFetchFailed       = fmt.Errorf("leaderboard fetch failed")
	ErrCatalogQuery      = fmt.Errorf("workshop catalog query failed")
	ErrInvalidScore      = fmt.Errorf("invalid score")
	ErrTimeout           = fmt.Errorf("operation timed out")

	// Supervisor errors
	ErrSpawn = fmt.Errorf("failed to start process")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
