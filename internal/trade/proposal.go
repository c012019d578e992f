package trade

import (
	"time"

	"github.com/sudo-init-do/cuttr/internal/apperr"
)

type Status string

const (
	Pending   Status = "Pending"
	Accepted  Status = "Accepted"
	Rejected  Status = "Rejected"
	Completed Status = "Completed"
)

func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case Pending, Accepted, Rejected, Completed:
		return st, nil
	}
	return "", apperr.Validation("unknown proposal status %q", s)
}

type Proposal struct {
	ID                           string     `json:"proposal_id"`
	ConnectionID                 string     `json:"connection_id"`
	OwnerUserID                  string     `json:"proposal_owner_user_id"`
	Status                       Status     `json:"status"`
	PlantsOfferedByUser1         []string   `json:"plant_ids_offered_by_user1"`
	PlantsOfferedByUser2         []string   `json:"plant_ids_offered_by_user2"`
	OwnerCompletionConfirmed     bool       `json:"owner_completion_confirmed"`
	ResponderCompletionConfirmed bool       `json:"responder_completion_confirmed"`
	Version                      int        `json:"-"`
	CreatedAt                    time.Time  `json:"created_at"`
	AcceptedAt                   *time.Time `json:"accepted_at"`
	DeclinedAt                   *time.Time `json:"declined_at"`
	CompletedAt                  *time.Time `json:"completed_at"`
}

var transitions = map[Status][]Status{
	Pending:  {Accepted, Rejected},
	Accepted: {Completed},
}

// Transition moves p to status to. Timestamps are derived here: each step
// stamps its own and clears those of branches not taken.
func Transition(p Proposal, to Status, now time.Time) (Proposal, error) {
	allowed := false
	for _, s := range transitions[p.Status] {
		if s == to {
			allowed = true
			break
		}
	}
	if !allowed {
		return p, apperr.BusinessRule("cannot move proposal from %s to %s", p.Status, to)
	}

	at := now.UTC()
	switch to {
	case Accepted:
		p.AcceptedAt, p.DeclinedAt, p.CompletedAt = &at, nil, nil
	case Rejected:
		p.AcceptedAt, p.DeclinedAt, p.CompletedAt = nil, &at, nil
	case Completed:
		p.DeclinedAt, p.CompletedAt = nil, &at
	}
	p.Status = to
	return p, nil
}

// Confirm records userID's completion confirmation. The proposal owner and
// the responder each confirm once.
func (p Proposal) Confirm(userID string) (Proposal, error) {
	if p.Status != Completed {
		return p, apperr.BusinessRule("only completed proposals can be confirmed")
	}
	if userID == p.OwnerUserID {
		if p.OwnerCompletionConfirmed {
			return p, apperr.BusinessRule("owner has already confirmed completion")
		}
		p.OwnerCompletionConfirmed = true
		return p, nil
	}
	if p.ResponderCompletionConfirmed {
		return p, apperr.BusinessRule("responder has already confirmed completion")
	}
	p.ResponderCompletionConfirmed = true
	return p, nil
}

func (p Proposal) BothConfirmed() bool {
	return p.OwnerCompletionConfirmed && p.ResponderCompletionConfirmed
}

// PlantIDs lists every plant on either side.
func (p Proposal) PlantIDs() []string {
	out := make([]string, 0, len(p.PlantsOfferedByUser1)+len(p.PlantsOfferedByUser2))
	out = append(out, p.PlantsOfferedByUser1...)
	return append(out, p.PlantsOfferedByUser2...)
}
