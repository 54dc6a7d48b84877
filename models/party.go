package models

import "fmt"

// Party identifies one of the two participants of a settlement.
// It is a closed two-variant type: anything other than Person1/Person2
// is rejected at the model boundary.
type Party string

const (
	Person1 Party = "person1"
	Person2 Party = "person2"
)

func (p Party) Valid() bool {
	return p == Person1 || p == Person2
}

// Other returns the opposite party.
func (p Party) Other() Party {
	if p == Person1 {
		return Person2
	}
	return Person1
}

// ParseParty converts a role string into a Party.
func ParseParty(s string) (Party, error) {
	p := Party(s)
	if !p.Valid() {
		return "", fmt.Errorf("invalid party: %q", s)
	}
	return p, nil
}
