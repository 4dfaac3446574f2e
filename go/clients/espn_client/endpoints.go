package espn_client

const (
	// BaseURL is ESPN's public site API for the NFL.
	BaseURL = "https://site.api.espn.com/apis/site/v2/sports/football/nfl"

	teamsPath      = "/teams?limit=32"
	rosterPath     = "/teams/%s/roster"
	scoreboardPath = "/scoreboard?seasontype=%d&week=%d"
	summaryPath    = "/summary?event=%s"

	JsonHeader      = "accept"
	JsonContentType = "application/json"

	// Season types in ESPN's scoreboard query.
	SeasonTypeRegular = 2
	SeasonTypePost    = 3

	lastRegularSeasonWeek = 18
	offenseGroup          = "offense"
)
