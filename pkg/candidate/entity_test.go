package candidate

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeForcesAutomatedAvailable(t *testing.T) {
	id := uuid.New()
	c := Candidate{
		ID:           id,
		DeclaredRole: " Writer ",
		Seniority:    "Senior",
		Languages:    []string{"EN", "en"},
		Availability: Unavailable,
		Profile:      NewAutomatedProfile(id),
	}.Normalize()

	assert.Equal(t, "writer", c.DeclaredRole)
	assert.Equal(t, SenioritySenior, c.Seniority)
	assert.Equal(t, []string{"en"}, c.Languages)
	assert.Equal(t, Available, c.Availability)
	assert.True(t, c.IsAutomated())
	require.NoError(t, c.Validate())
}

func TestValidateRejectsForeignBinding(t *testing.T) {
	c := Candidate{
		ID:           uuid.New(),
		DeclaredRole: "writer",
		Seniority:    SeniorityJunior,
		Availability: Available,
		Profile:      NewAutomatedProfile(uuid.New()),
	}
	err := c.Validate()
	require.ErrorIs(t, err, ErrInvalidProfile)
}

func TestNormalizeDefaultsToHuman(t *testing.T) {
	c := Candidate{ID: uuid.New(), DeclaredRole: "backend", Seniority: SeniorityJunior, Availability: Available}.Normalize()
	assert.False(t, c.IsAutomated())
	assert.Equal(t, KindHuman, c.Profile.Kind())
	require.NoError(t, c.Validate())
}

func TestParseSeniority(t *testing.T) {
	s, err := ParseSeniority(" Intermediate")
	require.NoError(t, err)
	assert.Equal(t, SeniorityIntermediate, s)

	_, err = ParseSeniority("lead")
	assert.Error(t, err)
}
