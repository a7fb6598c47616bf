package gentree

// PartnershipStatus tags the legal/social status of a partnership.
type PartnershipStatus string

// Recognized partnership statuses.
const (
	StatusMarried   PartnershipStatus = "married"
	StatusPartners  PartnershipStatus = "partners"
	StatusDivorced  PartnershipStatus = "divorced"
	StatusSeparated PartnershipStatus = "separated"
)

// String returns the string representation of a PartnershipStatus.
func (s PartnershipStatus) String() string {
	return string(s)
}

// Partnership joins two distinct persons and carries their shared children.
// The child list is ordered; each child should also list both endpoints as
// parents, subject to the 2-parent cap (the merge repair pass enforces this).
type Partnership struct {
	ID         string            `json:"id" yaml:"id"`
	Partner1ID string            `json:"partner1Id" yaml:"partner1Id"`
	Partner2ID string            `json:"partner2Id" yaml:"partner2Id"`
	Status     PartnershipStatus `json:"status,omitempty" yaml:"status,omitempty"`

	StartDate  string `json:"startDate,omitempty" yaml:"startDate,omitempty"`
	EndDate    string `json:"endDate,omitempty" yaml:"endDate,omitempty"`
	StartPlace string `json:"startPlace,omitempty" yaml:"startPlace,omitempty"`
	Note       string `json:"note,omitempty" yaml:"note,omitempty"`

	ChildIDs []string `json:"childIds,omitempty" yaml:"childIds,omitempty"`
}

// Copy returns a deep copy of the partnership.
func (pt *Partnership) Copy() *Partnership {
	if pt == nil {
		return nil
	}
	cp := *pt
	cp.ChildIDs = copyIDs(pt.ChildIDs)
	return &cp
}

// OtherPartner returns the endpoint that is not id, or "" when id is not
// an endpoint of this partnership.
func (pt *Partnership) OtherPartner(id string) string {
	switch id {
	case pt.Partner1ID:
		return pt.Partner2ID
	case pt.Partner2ID:
		return pt.Partner1ID
	default:
		return ""
	}
}

// Connects reports whether the partnership joins exactly the two given
// persons, in either order.
func (pt *Partnership) Connects(a, b string) bool {
	return (pt.Partner1ID == a && pt.Partner2ID == b) ||
		(pt.Partner1ID == b && pt.Partner2ID == a)
}

// HasChild reports whether id is listed as a child of the partnership.
func (pt *Partnership) HasChild(id string) bool {
	return containsID(pt.ChildIDs, id)
}
