package trade

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/sudo-init-do/cuttr/internal/alerts"
	"github.com/sudo-init-do/cuttr/internal/apperr"
	"github.com/sudo-init-do/cuttr/internal/connection"
	"github.com/sudo-init-do/cuttr/internal/plant"
)

type Connections interface {
	ForParticipant(ctx context.Context, connectionID, userID string) (connection.Connection, error)
}

type PlantLookup interface {
	Get(ctx context.Context, id string) (plant.Plant, error)
}

type Notifier interface {
	Notify(ctx context.Context, n alerts.Notification)
}

type Broadcaster interface {
	Broadcast(connectionID, eventType string, data interface{})
}

type Service struct {
	store       Store
	connections Connections
	plants      PlantLookup
	notifier    Notifier
	broadcaster Broadcaster
	now         func() time.Time
}

func NewService(store Store, connections Connections, plants PlantLookup, notifier Notifier, broadcaster Broadcaster) *Service {
	return &Service{
		store:       store,
		connections: connections,
		plants:      plants,
		notifier:    notifier,
		broadcaster: broadcaster,
		now:         time.Now,
	}
}

// CreateProposal opens a Pending proposal in which creatorUserID offers
// offered and asks for requested from the other participant.
func (s *Service) CreateProposal(ctx context.Context, connectionID, creatorUserID string, offered, requested []string) (Proposal, error) {
	conn, err := s.connections.ForParticipant(ctx, connectionID, creatorUserID)
	if err != nil {
		return Proposal{}, err
	}
	if len(offered) == 0 || len(requested) == 0 {
		return Proposal{}, apperr.Validation("both sides of a proposal need at least one plant")
	}

	other := conn.Other(creatorUserID)
	seen := make(map[string]bool, len(offered)+len(requested))
	for _, side := range []struct {
		ids   []string
		owner string
	}{{offered, creatorUserID}, {requested, other}} {
		for _, id := range side.ids {
			if seen[id] {
				return Proposal{}, apperr.Validation("plant %s is listed more than once", id)
			}
			seen[id] = true
			if err := s.checkPlant(ctx, id, side.owner); err != nil {
				return Proposal{}, err
			}
		}
	}

	p := Proposal{
		ID:           uuid.New().String(),
		ConnectionID: conn.ID,
		OwnerUserID:  creatorUserID,
		Status:       Pending,
		Version:      1,
		CreatedAt:    s.now().UTC(),
	}
	if conn.IsUser1(creatorUserID) {
		p.PlantsOfferedByUser1, p.PlantsOfferedByUser2 = offered, requested
	} else {
		p.PlantsOfferedByUser1, p.PlantsOfferedByUser2 = requested, offered
	}
	if err := s.store.Create(ctx, &p); err != nil {
		return Proposal{}, err
	}

	log.Printf("[trade] proposal %s created in connection %s by %s", p.ID, conn.ID, creatorUserID)
	s.announce(ctx, p, other, alerts.TypeProposalNew, "New Trade Proposal", "You have received a new trade proposal.", "proposal_new")
	return p, nil
}

func (s *Service) checkPlant(ctx context.Context, plantID, owner string) error {
	pl, err := s.plants.Get(ctx, plantID)
	if err != nil {
		return err
	}
	if pl.UserID != owner {
		return apperr.Validation("plant %s does not belong to the expected side of the trade", plantID)
	}
	if pl.IsTraded {
		return apperr.Validation("plant %s has already been traded", plantID)
	}
	return nil
}

// UpdateStatus moves a proposal through the state machine on behalf of a
// participant.
func (s *Service) UpdateStatus(ctx context.Context, connectionID, proposalID, userID string, to Status) (Proposal, error) {
	conn, p, err := s.load(ctx, connectionID, proposalID, userID)
	if err != nil {
		return Proposal{}, err
	}
	next, err := Transition(p, to, s.now())
	if err != nil {
		return Proposal{}, err
	}
	if err := s.store.Update(ctx, &next); err != nil {
		return Proposal{}, err
	}

	log.Printf("[trade] proposal %s moved %s -> %s by %s", p.ID, p.Status, next.Status, userID)
	s.announce(ctx, next, conn.Other(userID), alerts.TypeProposalStatus,
		"Trade Proposal Updated", "A trade proposal is now "+string(next.Status)+".", "proposal_status")
	return next, nil
}

// ConfirmCompletion records the acting party's confirmation of a completed
// trade. Plants are not marked traded here.
func (s *Service) ConfirmCompletion(ctx context.Context, connectionID, proposalID, userID string) (Proposal, error) {
	_, p, err := s.load(ctx, connectionID, proposalID, userID)
	if err != nil {
		return Proposal{}, err
	}
	next, err := p.Confirm(userID)
	if err != nil {
		return Proposal{}, err
	}
	if err := s.store.Update(ctx, &next); err != nil {
		return Proposal{}, err
	}
	if next.BothConfirmed() {
		log.Printf("[trade] proposal %s confirmed by both parties", next.ID)
	}
	if s.broadcaster != nil {
		s.broadcaster.Broadcast(connectionID, "proposal_status", next)
	}
	return next, nil
}

func (s *Service) List(ctx context.Context, connectionID, userID string) ([]Proposal, error) {
	if _, err := s.connections.ForParticipant(ctx, connectionID, userID); err != nil {
		return nil, err
	}
	return s.store.ListByConnection(ctx, connectionID)
}

// load checks participation before touching the proposal.
func (s *Service) load(ctx context.Context, connectionID, proposalID, userID string) (connection.Connection, Proposal, error) {
	conn, err := s.connections.ForParticipant(ctx, connectionID, userID)
	if err != nil {
		return conn, Proposal{}, err
	}
	p, err := s.store.Get(ctx, proposalID)
	if err != nil {
		return conn, Proposal{}, err
	}
	if p.ConnectionID != connectionID {
		return conn, Proposal{}, apperr.NotFound("trade proposal %s not found in connection %s", proposalID, connectionID)
	}
	return conn, p, nil
}

func (s *Service) announce(ctx context.Context, p Proposal, recipient, ntype, title, body, event string) {
	if s.notifier != nil {
		s.notifier.Notify(ctx, alerts.Notification{
			UserID:    recipient,
			Type:      ntype,
			Title:     title,
			Body:      body,
			Reference: p.ConnectionID,
			Data: map[string]string{
				"connection_id": p.ConnectionID,
				"proposal_id":   p.ID,
			},
		})
	}
	if s.broadcaster != nil {
		s.broadcaster.Broadcast(p.ConnectionID, event, p)
	}
}
