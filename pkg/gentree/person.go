// Package gentree defines the in-memory family graph model shared by the
// matching and merge engines: persons, partnerships, and the Tree container
// that owns them. Trees preserve insertion order because downstream matching
// is greedy and order-sensitive.
package gentree

// Gender identifies a person's recorded gender.
type Gender string

// Recognized gender values.
const (
	GenderMale    Gender = "male"
	GenderFemale  Gender = "female"
	GenderUnknown Gender = "unknown"
)

// String returns the string representation of a Gender.
func (g Gender) String() string {
	return string(g)
}

// Matches reports whether two genders are compatible. An unknown gender
// (empty or explicit) is compatible with anything; records missing the
// field should not be blocked from matching.
func (g Gender) Matches(other Gender) bool {
	if g.unknown() || other.unknown() {
		return true
	}
	return g == other
}

func (g Gender) unknown() bool {
	return g == "" || g == GenderUnknown
}

// Person is a single individual in a family graph.
//
// Dates are partial ISO-8601 strings: "1950", "1950-03" and "1950-03-01"
// are all valid. Empty string means unknown. Reference lists hold ids of
// records owned by the same Tree.
type Person struct {
	ID          string `json:"id" yaml:"id"`
	FirstName   string `json:"firstName,omitempty" yaml:"firstName,omitempty"`
	LastName    string `json:"lastName,omitempty" yaml:"lastName,omitempty"`
	Gender      Gender `json:"gender,omitempty" yaml:"gender,omitempty"`
	Placeholder bool   `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`

	BirthDate  string `json:"birthDate,omitempty" yaml:"birthDate,omitempty"`
	BirthPlace string `json:"birthPlace,omitempty" yaml:"birthPlace,omitempty"`
	DeathDate  string `json:"deathDate,omitempty" yaml:"deathDate,omitempty"`
	DeathPlace string `json:"deathPlace,omitempty" yaml:"deathPlace,omitempty"`

	PartnershipIDs []string `json:"partnershipIds,omitempty" yaml:"partnershipIds,omitempty"`
	ParentIDs      []string `json:"parentIds,omitempty" yaml:"parentIds,omitempty"` // at most 2, order-insensitive
	ChildIDs       []string `json:"childIds,omitempty" yaml:"childIds,omitempty"`
}

// FullName returns "First Last" with empty parts omitted.
func (p *Person) FullName() string {
	switch {
	case p.FirstName == "":
		return p.LastName
	case p.LastName == "":
		return p.FirstName
	default:
		return p.FirstName + " " + p.LastName
	}
}

// Copy returns a deep copy of the person, including reference lists.
func (p *Person) Copy() *Person {
	if p == nil {
		return nil
	}
	cp := *p
	cp.PartnershipIDs = copyIDs(p.PartnershipIDs)
	cp.ParentIDs = copyIDs(p.ParentIDs)
	cp.ChildIDs = copyIDs(p.ChildIDs)
	return &cp
}

// HasParent reports whether id is listed as a parent of p.
func (p *Person) HasParent(id string) bool {
	return containsID(p.ParentIDs, id)
}

// HasChild reports whether id is listed as a child of p.
func (p *Person) HasChild(id string) bool {
	return containsID(p.ChildIDs, id)
}

// HasPartnership reports whether the partnership id is listed on p.
func (p *Person) HasPartnership(id string) bool {
	return containsID(p.PartnershipIDs, id)
}

func copyIDs(ids []string) []string {
	if ids == nil {
		return nil
	}
	cp := make([]string, len(ids))
	copy(cp, ids)
	return cp
}

func containsID(ids []string, id string) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
