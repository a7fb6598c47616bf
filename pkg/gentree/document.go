package gentree

// Document is the serializable flat form of a Tree, used by the YAML tree
// file codec and by merge session snapshots. Slice order is the tree's
// insertion order, so a round trip preserves iteration order.
type Document struct {
	FocusPersonID string         `json:"focusPersonId,omitempty" yaml:"focusPersonId,omitempty"`
	Persons       []*Person      `json:"persons" yaml:"persons"`
	Partnerships  []*Partnership `json:"partnerships,omitempty" yaml:"partnerships,omitempty"`
}

// Document returns a deep-copied serializable form of the tree.
func (t *Tree) Document() *Document {
	doc := &Document{FocusPersonID: t.FocusPersonID}
	for _, p := range t.Persons() {
		doc.Persons = append(doc.Persons, p.Copy())
	}
	for _, pt := range t.Partnerships() {
		doc.Partnerships = append(doc.Partnerships, pt.Copy())
	}
	return doc
}

// FromDocument builds a Tree from its serialized form. Records are deep
// copied, so the document stays independent of the returned tree.
func FromDocument(doc *Document) (*Tree, error) {
	t := New()
	t.FocusPersonID = doc.FocusPersonID
	for _, p := range doc.Persons {
		if err := t.AddPerson(p.Copy()); err != nil {
			return nil, err
		}
	}
	for _, pt := range doc.Partnerships {
		if err := t.AddPartnership(pt.Copy()); err != nil {
			return nil, err
		}
	}
	return t, nil
}
