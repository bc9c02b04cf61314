package candidate

import "github.com/google/uuid"

// Kind distinguishes human candidates from automated ones.
type Kind string

const (
	KindHuman     Kind = "human"
	KindAutomated Kind = "automated"
)

// Profile is a closed set of per-kind candidate data.
// Only HumanProfile and AutomatedProfile implement it.
type Profile interface {
	Kind() Kind
	profile()
}

// HumanProfile marks a human candidate. Humans accept and decline offers themselves.
type HumanProfile struct{}

func (HumanProfile) Kind() Kind { return KindHuman }
func (HumanProfile) profile()   {}

// AutomatedProfile marks an automated candidate with a fixed role binding.
// BindingID is the identity used both as the role binding key and as the
// accepted candidate id, so it always equals the candidate's own ID.
type AutomatedProfile struct {
	BindingID uuid.UUID
}

func (AutomatedProfile) Kind() Kind { return KindAutomated }
func (AutomatedProfile) profile()   {}

// NewAutomatedProfile binds an automated profile to the candidate id.
func NewAutomatedProfile(id uuid.UUID) AutomatedProfile {
	return AutomatedProfile{BindingID: id}
}
