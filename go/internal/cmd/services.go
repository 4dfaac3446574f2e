package main

import (
	"database/sql"

	"connectrpc.com/connect"
	"github.com/jonboulle/clockwork"

	espnclient "github.com/mcdev12/playoffpool/go/clients/espn_client"
	sleeperclient "github.com/mcdev12/playoffpool/go/clients/sleeper_client"
	"github.com/mcdev12/playoffpool/go/internal/draft"
	draftrepo "github.com/mcdev12/playoffpool/go/internal/draft/repository"
	"github.com/mcdev12/playoffpool/go/internal/participants"
	"github.com/mcdev12/playoffpool/go/internal/player"
	"github.com/mcdev12/playoffpool/go/internal/roster"
	"github.com/mcdev12/playoffpool/go/internal/rpc"
	"github.com/mcdev12/playoffpool/go/internal/scoring"
	"github.com/mcdev12/playoffpool/go/internal/seasons"
)

type Services struct {
	Participants *participants.Service
	Players      *player.Service
	Roster       *roster.Service
	Draft        *draft.Service
	Scoring      *scoring.Service
}

func setupServices(database *sql.DB, config Config, clock clockwork.Clock) *Services {
	// Wire up dependency injection chain
	// Database layer → Repository layer → App layer → Service layer
	espn := espnclient.NewESPNClient(config.ESPN)
	sleeper := sleeperclient.NewSleeperClient(config.Sleeper)

	// Repositories
	participantRepo := participants.NewRepository(database)
	playerRepo := player.NewRepository(database)
	seasonRepo := seasons.NewRepository(database)
	rosterRepo := roster.NewRepository(database)

	// Participants
	participantApp := participants.NewApp(participantRepo)

	// Players
	playerApp := player.NewApp(playerRepo, espn)

	// Roster
	rosterApp := roster.NewApp(rosterRepo, playerRepo, seasonRepo, clock)

	// Draft
	draftApp := draft.NewApp(draftrepo.NewRepository(database), config.Draft, draft.WithClock(clock))

	// Scoring
	scoringApp := scoring.NewApp(scoring.NewRepository(database), espn, sleeper, playerRepo, rosterRepo, config.Scoring, clock)

	return &Services{
		Participants: participants.NewService(participantApp),
		Players:      player.NewService(playerApp),
		Roster:       roster.NewService(rosterApp),
		Draft:        draft.NewService(draftApp),
		Scoring:      scoring.NewService(scoringApp),
	}
}

// Routes returns every procedure, each built with opts.
func (s *Services) Routes(opts ...connect.HandlerOption) []rpc.Route {
	var routes []rpc.Route
	routes = append(routes, s.Participants.Routes(opts...)...)
	routes = append(routes, s.Players.Routes(opts...)...)
	routes = append(routes, s.Roster.Routes(opts...)...)
	routes = append(routes, s.Draft.Routes(opts...)...)
	routes = append(routes, s.Scoring.Routes(opts...)...)
	return routes
}
