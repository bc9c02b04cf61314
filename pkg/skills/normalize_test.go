package skills

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTag(t *testing.T) {
	assert.Equal(t, "backend", NormalizeTag("  Backend "))
	assert.Equal(t, "machine learning", NormalizeTag("Machine   Learning"))
	assert.Equal(t, "c++", NormalizeTag("C++"))
}

func TestNormalizeSet(t *testing.T) {
	got := NormalizeSet([]string{"FR", "en", " en ", "", "De"})
	assert.Equal(t, []string{"de", "en", "fr"}, got)

	empty := NormalizeSet(nil)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestSubset(t *testing.T) {
	assert.True(t, Subset(nil, []string{"en"}))
	assert.True(t, Subset([]string{"en"}, []string{"en", "fr"}))
	assert.False(t, Subset([]string{"en", "de"}, []string{"en", "fr"}))
	assert.False(t, Subset([]string{"en"}, nil))
}

func TestNormalizeExpertisesFoldsAliases(t *testing.T) {
	got := NormalizeExpertises([]string{"Golang", "go", "PostgreSQL", "K8s", "CI  CD", "rust"})
	assert.Equal(t, []string{"ci/cd", "go", "kubernetes", "postgres", "rust"}, got)
	assert.True(t, Subset(NormalizeExpertises([]string{"golang"}), NormalizeExpertises([]string{"Go", "docker"})))
	assert.Equal(t, "haskell", Canonical("haskell"))
}
