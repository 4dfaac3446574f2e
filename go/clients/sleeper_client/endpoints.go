package sleeper_client

const (
	// BaseURL is Sleeper's public API host.
	BaseURL = "https://api.sleeper.app"

	playersPath     = "/v1/players/nfl"
	projectionsPath = "/projections/nfl/%d/%d?season_type=%s"

	SeasonTypeRegular = "regular"
	SeasonTypePost    = "post"

	lastRegularSeasonWeek = 18
)
