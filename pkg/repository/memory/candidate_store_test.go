package memory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artem13815/hr/booking/pkg/candidate"
)

func TestCandidateStoreUpsertAndList(t *testing.T) {
	s := NewCandidateStore()
	ctx := context.Background()

	botID := uuid.New()
	bot, err := s.Upsert(ctx, candidate.Candidate{
		ID:           botID,
		DeclaredRole: "Backend",
		Seniority:    candidate.SenioritySenior,
		Availability: candidate.Unavailable,
		Profile:      candidate.NewAutomatedProfile(botID),
	})
	require.NoError(t, err)
	assert.Equal(t, candidate.Available, bot.Availability)

	_, err = s.Upsert(ctx, candidate.Candidate{
		ID:           uuid.New(),
		DeclaredRole: "backend",
		Seniority:    candidate.SenioritySenior,
		Availability: candidate.Available,
		Profile:      candidate.AutomatedProfile{BindingID: uuid.New()},
	})
	require.ErrorIs(t, err, candidate.ErrInvalidProfile)

	human, err := s.Upsert(ctx, candidate.Candidate{
		ID:           uuid.New(),
		DeclaredRole: "backend",
		Seniority:    candidate.SenioritySenior,
		Availability: candidate.Available,
	})
	require.NoError(t, err)

	list, err := s.ListByRole(ctx, "backend", candidate.SenioritySenior)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.True(t, list[0].ID.String() < list[1].ID.String())

	none, err := s.ListByRole(ctx, "backend", candidate.SeniorityJunior)
	require.NoError(t, err)
	assert.Empty(t, none)

	// automated candidates stay available
	got, err := s.SetAvailability(ctx, botID, candidate.Unavailable)
	require.NoError(t, err)
	assert.Equal(t, candidate.Available, got.Availability)

	got, err = s.SetAvailability(ctx, human.ID, candidate.InQualification)
	require.NoError(t, err)
	assert.Equal(t, candidate.InQualification, got.Availability)

	_, err = s.SetAvailability(ctx, uuid.New(), candidate.Available)
	require.ErrorIs(t, err, candidate.ErrNotFound)
}
