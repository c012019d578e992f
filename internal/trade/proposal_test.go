package trade

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sudo-init-do/cuttr/internal/apperr"
)

func TestTransitionTable(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	all := []Status{Pending, Accepted, Rejected, Completed}
	allowed := map[[2]Status]bool{
		{Pending, Accepted}:   true,
		{Pending, Rejected}:   true,
		{Accepted, Completed}: true,
	}
	for _, from := range all {
		for _, to := range all {
			_, err := Transition(Proposal{Status: from}, to, now)
			if allowed[[2]Status{from, to}] {
				assert.NoError(t, err, "%s -> %s", from, to)
			} else {
				assert.True(t, apperr.Is(err, apperr.KindBusinessRule), "%s -> %s", from, to)
			}
		}
	}
}

func TestTransitionTimestamps(t *testing.T) {
	now := time.Now()

	accepted, err := Transition(Proposal{Status: Pending}, Accepted, now)
	require.NoError(t, err)
	require.NotNil(t, accepted.AcceptedAt)
	assert.Nil(t, accepted.DeclinedAt)
	assert.Nil(t, accepted.CompletedAt)

	rejected, err := Transition(Proposal{Status: Pending}, Rejected, now)
	require.NoError(t, err)
	require.NotNil(t, rejected.DeclinedAt)
	assert.Nil(t, rejected.AcceptedAt)

	completed, err := Transition(accepted, Completed, now.Add(time.Hour))
	require.NoError(t, err)
	require.NotNil(t, completed.CompletedAt)
	assert.NotNil(t, completed.AcceptedAt)
	assert.Nil(t, completed.DeclinedAt)
}

func TestConfirm(t *testing.T) {
	p := Proposal{OwnerUserID: "alice", Status: Accepted}
	_, err := p.Confirm("alice")
	assert.True(t, apperr.Is(err, apperr.KindBusinessRule))

	p.Status = Completed
	p, err = p.Confirm("alice")
	require.NoError(t, err)
	assert.True(t, p.OwnerCompletionConfirmed)
	assert.False(t, p.BothConfirmed())

	_, err = p.Confirm("alice")
	assert.True(t, apperr.Is(err, apperr.KindBusinessRule))

	p, err = p.Confirm("bob")
	require.NoError(t, err)
	assert.True(t, p.BothConfirmed())
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus("Accepted")
	require.NoError(t, err)
	assert.Equal(t, Accepted, s)

	_, err = ParseStatus("accepted")
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}
