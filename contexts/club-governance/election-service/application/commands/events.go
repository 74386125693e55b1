package commands

import (
	"context"
	"time"

	"clubsync/contexts/club-governance/election-service/domain/entities"
	"clubsync/contexts/club-governance/election-service/ports"
)

const sourceService = "election-service"

func publishEvent(
	ctx context.Context,
	publisher ports.EventPublisher,
	idGen ports.IDGenerator,
	eventType string,
	entityType string,
	entityID string,
	occurredAt time.Time,
	payload map[string]any,
) error {
	// Publisher is optional for pure read/test wiring, so nil is a no-op.
	if publisher == nil {
		return nil
	}
	eventID, err := idGen.NewID(ctx)
	if err != nil {
		return err
	}
	return publisher.Publish(ctx, eventType, ports.EventEnvelope{
		EventID:        eventID,
		EventType:      eventType,
		SourceService:  sourceService,
		OccurredAtUTC:  occurredAt.UTC(),
		EntityType:     entityType,
		EntityID:       entityID,
		PayloadVersion: 1,
		Payload:        payload,
	})
}

func publishElectionEvent(
	ctx context.Context,
	publisher ports.EventPublisher,
	idGen ports.IDGenerator,
	eventType string,
	election entities.Election,
	occurredAt time.Time,
) error {
	return publishEvent(ctx, publisher, idGen, eventType, "election", election.ElectionID, occurredAt, map[string]any{
		"election_id":  election.ElectionID,
		"club_id":      election.ClubID,
		"title":        election.Title,
		"year":         election.Year,
		"voting_start": election.VotingStart.Format(time.RFC3339),
		"voting_end":   election.VotingEnd.Format(time.RFC3339),
		"positions":    len(election.Positions),
	})
}

// publishBallotEvent deliberately omits token and voter identifiers: ballot
// events must not let subscribers reconstruct who voted.
func publishBallotEvent(
	ctx context.Context,
	publisher ports.EventPublisher,
	idGen ports.IDGenerator,
	electionID string,
	ballotSize int,
	occurredAt time.Time,
) error {
	return publishEvent(ctx, publisher, idGen, "voting.ballot_cast", "election", electionID, occurredAt, map[string]any{
		"election_id": electionID,
		"ballot_size": ballotSize,
	})
}
