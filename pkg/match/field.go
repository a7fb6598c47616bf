package match

import "github.com/ACiDekCZ/strom-sub000/pkg/gentree"

// Field identifies one of the person fields subject to conflict detection
// and field-level merging. The set is closed: Fields() enumerates every
// member and the Value/SetValue switches cover them exhaustively, so adding
// a field means extending all three together.
type Field string

// The conflict-managed person fields.
const (
	FieldFirstName  Field = "firstName"
	FieldLastName   Field = "lastName"
	FieldBirthDate  Field = "birthDate"
	FieldBirthPlace Field = "birthPlace"
	FieldDeathDate  Field = "deathDate"
	FieldDeathPlace Field = "deathPlace"
)

// Fields returns every conflict-managed field, in a fixed order.
func Fields() []Field {
	return []Field{
		FieldFirstName,
		FieldLastName,
		FieldBirthDate,
		FieldBirthPlace,
		FieldDeathDate,
		FieldDeathPlace,
	}
}

// Value returns the field's value on p. Unknown fields read as empty.
func (f Field) Value(p *gentree.Person) string {
	switch f {
	case FieldFirstName:
		return p.FirstName
	case FieldLastName:
		return p.LastName
	case FieldBirthDate:
		return p.BirthDate
	case FieldBirthPlace:
		return p.BirthPlace
	case FieldDeathDate:
		return p.DeathDate
	case FieldDeathPlace:
		return p.DeathPlace
	default:
		return ""
	}
}

// SetValue sets the field's value on p. Unknown fields are ignored.
func (f Field) SetValue(p *gentree.Person, value string) {
	switch f {
	case FieldFirstName:
		p.FirstName = value
	case FieldLastName:
		p.LastName = value
	case FieldBirthDate:
		p.BirthDate = value
	case FieldBirthPlace:
		p.BirthPlace = value
	case FieldDeathDate:
		p.DeathDate = value
	case FieldDeathPlace:
		p.DeathPlace = value
	}
}

// Resolution decides which side of a field conflict wins at merge time.
type Resolution string

// Conflict resolutions.
const (
	// ResolutionKeepExisting keeps the existing record's value (default).
	ResolutionKeepExisting Resolution = "keep-existing"
	// ResolutionUseIncoming overwrites with the incoming record's value.
	ResolutionUseIncoming Resolution = "use-incoming"
	// ResolutionManual uses the reviewer-supplied resolved value.
	ResolutionManual Resolution = "manual"
)

// FieldConflict records one field where both matched persons hold differing
// non-empty values. Fields populated on only one side are not conflicts;
// they are filled in during merge instead of overwritten.
type FieldConflict struct {
	Field         Field      `yaml:"field"`
	ExistingValue string     `yaml:"existingValue"`
	IncomingValue string     `yaml:"incomingValue"`
	Resolution    Resolution `yaml:"resolution"`
	ResolvedValue string     `yaml:"resolvedValue,omitempty"`
}

// DetectConflicts compares the conflict-managed fields of two persons and
// returns a conflict per field where both sides are non-empty and unequal,
// defaulting to keep-existing.
func DetectConflicts(existing, incoming *gentree.Person) []FieldConflict {
	var conflicts []FieldConflict
	for _, field := range Fields() {
		ev, iv := field.Value(existing), field.Value(incoming)
		if ev == "" || iv == "" || ev == iv {
			continue
		}
		conflicts = append(conflicts, FieldConflict{
			Field:         field,
			ExistingValue: ev,
			IncomingValue: iv,
			Resolution:    ResolutionKeepExisting,
		})
	}
	return conflicts
}
