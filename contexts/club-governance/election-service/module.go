package electionservice

import (
	"log/slog"

	httpadapter "clubsync/contexts/club-governance/election-service/adapters/http"
	"clubsync/contexts/club-governance/election-service/adapters/memory"
	"clubsync/contexts/club-governance/election-service/application/commands"
	"clubsync/contexts/club-governance/election-service/application/queries"
	"clubsync/contexts/club-governance/election-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Elections ports.ElectionRepository
	Tokens    ports.TokenRepository
	Ballots   ports.BallotRepository
	Clubs     ports.ClubDirectory
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Publisher ports.EventPublisher
	Logger    *slog.Logger
}

func NewModule(deps Dependencies) Module {
	return Module{
		Handler: httpadapter.Handler{
			CreateElection: commands.CreateElectionUseCase{
				Elections: deps.Elections,
				Clubs:     deps.Clubs,
				Clock:     deps.Clock,
				IDGen:     deps.IDGen,
				Publisher: deps.Publisher,
				Logger:    deps.Logger,
			},
			UpdateElection: commands.UpdateElectionUseCase{
				Elections: deps.Elections,
				Clock:     deps.Clock,
				IDGen:     deps.IDGen,
				Publisher: deps.Publisher,
				Logger:    deps.Logger,
			},
			DeleteElection: commands.DeleteElectionUseCase{
				Elections: deps.Elections,
				Clock:     deps.Clock,
				IDGen:     deps.IDGen,
				Publisher: deps.Publisher,
				Logger:    deps.Logger,
			},
			IssueToken: commands.IssueTokenUseCase{
				Elections: deps.Elections,
				Tokens:    deps.Tokens,
				Clock:     deps.Clock,
				IDGen:     deps.IDGen,
				Publisher: deps.Publisher,
				Logger:    deps.Logger,
			},
			SubmitBallot: commands.SubmitBallotUseCase{
				Elections: deps.Elections,
				Tokens:    deps.Tokens,
				Ballots:   deps.Ballots,
				Clock:     deps.Clock,
				IDGen:     deps.IDGen,
				Publisher: deps.Publisher,
				Logger:    deps.Logger,
			},
			GetElection: queries.GetElectionUseCase{
				Elections: deps.Elections,
			},
			ListElections: queries.ListElectionsUseCase{
				Elections: deps.Elections,
				Logger:    deps.Logger,
			},
			Tally: queries.TallyUseCase{
				Elections: deps.Elections,
				Tokens:    deps.Tokens,
				Ballots:   deps.Ballots,
				Clock:     deps.Clock,
			},
			Logger: deps.Logger,
		},
	}
}

// NewInMemoryModule wires every port to one in-memory store, which tests use
// to seed clubs, pin the clock, and observe published events.
func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Elections: store,
		Tokens:    store,
		Ballots:   store,
		Clubs:     store,
		Clock:     store,
		IDGen:     store,
		Publisher: store,
		Logger:    logger,
	})
	module.Store = store
	return module
}
