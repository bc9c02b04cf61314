package skills

// aliases maps common spellings of an expertise to one canonical tag so that
// "golang" on a profile satisfies a "go" requirement.
var aliases = map[string]string{
	"golang":     "go",
	"postgresql": "postgres",
	"k8s":        "kubernetes",
	"js":         "javascript",
	"ts":         "typescript",
	"rest api":   "rest",
	"ci cd":      "ci/cd",
	"cicd":       "ci/cd",
}

// Canonical returns the canonical form of a normalized expertise tag.
func Canonical(tag string) string {
	if c, ok := aliases[tag]; ok {
		return c
	}
	return tag
}

// NormalizeExpertises is NormalizeSet with alias folding.
func NormalizeExpertises(tags []string) []string {
	folded := make([]string, 0, len(tags))
	for _, t := range tags {
		folded = append(folded, Canonical(NormalizeTag(t)))
	}
	return NormalizeSet(folded)
}
