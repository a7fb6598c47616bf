package merge

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ACiDekCZ/strom-sub000/pkg/errors"
	"github.com/ACiDekCZ/strom-sub000/pkg/gentree"
	"github.com/ACiDekCZ/strom-sub000/pkg/logging"
	"github.com/ACiDekCZ/strom-sub000/pkg/match"
)

// ExecStats counts what the executor did.
type ExecStats struct {
	Merged              int // incoming persons merged into existing records
	Added               int // incoming persons added as new records
	Partnerships        int // partnerships created in the merged graph
	DroppedPartnerships int // partnerships dropped for unresolvable endpoints
}

// ExecResult is the outcome of ExecuteMerge. On success MergedData is a new
// independent graph; on failure it is the state's original existing graph,
// untouched, so the caller always holds a known-good tree.
type ExecResult struct {
	Success    bool
	MergedData *gentree.Tree
	Stats      ExecStats
	BackupKey  string
	Errors     []string
	Warnings   []string
}

// Executor runs the transactional merge. It moves through
// cloning -> merging -> repairing -> validating and either commits a fully
// materialized new graph or rolls back to the untouched original.
type Executor struct {
	store BackupStore
	log   *zerolog.Logger
}

// NewExecutor creates an executor backed by the given store. A nil store
// gets an in-memory one.
func NewExecutor(store BackupStore) *Executor {
	if store == nil {
		store = NewMemoryStore()
	}
	return &Executor{store: store, log: logging.Default()}
}

// Execute consumes the state and produces the merged graph. Any error (or
// panic) during the merge yields Success=false with the original existing
// graph as MergedData; a partially mutated graph is never returned.
// Post-merge referential problems are soft warnings, not failures.
func (x *Executor) Execute(ctx context.Context, state *State) *ExecResult {
	result := &ExecResult{}

	if state == nil {
		result.Errors = append(result.Errors, errors.ErrInvalidInput.Error())
		return result
	}
	if state.phase == PhaseExecuting || state.phase == PhaseComplete {
		result.MergedData = state.existing
		result.Errors = append(result.Errors, errors.ErrStateConsumed.Error())
		return result
	}

	state.phase = PhaseExecuting
	state.version++

	err := x.run(ctx, state, result)
	if err != nil {
		x.log.Error().Err(err).Msg("merge failed, rolling back")
		// Back to reviewing so the caller can fix the cause and retry.
		state.phase = PhaseReviewing
		result.Success = false
		result.MergedData = state.existing
		result.Stats = ExecStats{}
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	state.phase = PhaseComplete
	result.Success = true
	x.log.Info().
		Int("merged", result.Stats.Merged).
		Int("added", result.Stats.Added).
		Int("partnerships", result.Stats.Partnerships).
		Int("dropped_partnerships", result.Stats.DroppedPartnerships).
		Msg("merge committed")
	return result
}

// run performs the merge steps against a clone, assigning to result only
// what is safe to expose on success. A panic anywhere inside is converted
// to an error so Execute can roll back.
func (x *Executor) run(ctx context.Context, state *State, result *ExecResult) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.NewMergeError("execute", "", fmt.Errorf("panic: %v", r))
		}
	}()

	backupKey, err := x.store.Create(ctx, state.existing)
	if err != nil {
		return errors.WrapMerge("backup", "", err)
	}
	result.BackupKey = backupKey

	clone := state.existing.Copy()
	// A merged tree starts with no carried-over viewing state.
	clone.FocusPersonID = ""

	mapping := state.BuildMapping()

	if err := x.mergeMatched(state, clone); err != nil {
		return err
	}
	added, err := x.addNewPersons(state, clone, mapping)
	if err != nil {
		return err
	}
	if err := x.materializeParentPlaceholders(state, clone, mapping, added); err != nil {
		return err
	}
	if err := x.mergePartnerships(state, clone, mapping, result); err != nil {
		return err
	}
	x.repair(clone)
	result.Warnings = append(result.Warnings, x.validate(clone)...)

	result.MergedData = clone
	result.Stats.Merged = countMerged(state)
	result.Stats.Added = len(added)
	return nil
}

// mergeMatched folds each confirmed/default/manual-matched incoming person
// into its mapped existing record: empty optional fields are filled in from
// the incoming side, recorded conflicts are applied per their resolution,
// and the placeholder flag clears when the incoming person is real.
func (x *Executor) mergeMatched(state *State, clone *gentree.Tree) error {
	for _, m := range state.matches {
		decision, decided := state.decisions[m.IncomingID]
		if decided && decision.Kind == DecisionReject {
			continue
		}

		targetID := m.ExistingID
		if decided && decision.Kind == DecisionManual {
			targetID = decision.TargetID
		}
		target, ok := clone.Person(targetID)
		if !ok {
			return errors.NewMergeError("merge", targetID, errors.ErrNotFound)
		}

		incoming, ok := state.incoming.Person(m.IncomingID)
		if !ok {
			return errors.NewMergeError("merge", m.IncomingID, errors.ErrNotFound)
		}

		fillOptionalFields(target, incoming)
		applyConflicts(target, state.conflicts[m.IncomingID])

		if target.Placeholder && !incoming.Placeholder {
			target.Placeholder = false
		}
	}
	return nil
}

// optionalFields are filled in from the incoming side when empty on the
// existing side; they are never overwritten here.
var optionalFields = []match.Field{
	match.FieldBirthDate,
	match.FieldBirthPlace,
	match.FieldDeathDate,
	match.FieldDeathPlace,
}

func fillOptionalFields(target, incoming *gentree.Person) {
	for _, field := range optionalFields {
		if field.Value(target) == "" {
			field.SetValue(target, field.Value(incoming))
		}
	}
}

// applyConflicts applies reviewer resolutions: use-incoming overwrites with
// the incoming value, manual overwrites with the resolved value when one
// was supplied, keep-existing leaves the record alone.
func applyConflicts(target *gentree.Person, conflicts []match.FieldConflict) {
	for _, c := range conflicts {
		switch c.Resolution {
		case match.ResolutionUseIncoming:
			c.Field.SetValue(target, c.IncomingValue)
		case match.ResolutionManual:
			if c.ResolvedValue != "" {
				c.Field.SetValue(target, c.ResolvedValue)
			}
		}
	}
}

// addNewPersons materializes rejected-match and unmatched incoming persons
// under their mapped ids, with reference lists rewritten through the id
// mapping. Returns the set of incoming ids that were added.
func (x *Executor) addNewPersons(state *State, clone *gentree.Tree, mapping *IDMapping) (map[string]bool, error) {
	toAdd := make(map[string]bool)
	for _, m := range state.matches {
		if d, ok := state.decisions[m.IncomingID]; ok && d.Kind == DecisionReject {
			toAdd[m.IncomingID] = true
		}
	}
	for _, incomingID := range state.unmatchedIncoming {
		if d, ok := state.decisions[incomingID]; ok && d.Kind == DecisionManual {
			continue
		}
		toAdd[incomingID] = true
	}

	added := make(map[string]bool, len(toAdd))
	for _, p := range state.incoming.Persons() {
		if !toAdd[p.ID] {
			continue
		}
		if err := addMappedPerson(clone, p, mapping); err != nil {
			return nil, err
		}
		added[p.ID] = true
	}
	return added, nil
}

// materializeParentPlaceholders adds any incoming placeholder referenced as
// a parent by a person added in this merge, so every added person's parent
// reference resolves.
func (x *Executor) materializeParentPlaceholders(state *State, clone *gentree.Tree, mapping *IDMapping, added map[string]bool) error {
	for _, p := range state.incoming.Persons() {
		if !added[p.ID] {
			continue
		}
		for _, parentID := range p.ParentIDs {
			parent, ok := state.incoming.Person(parentID)
			if !ok || !parent.Placeholder {
				continue
			}
			if _, present := clone.Person(mapping.Persons[parentID]); present {
				continue
			}
			x.log.Debug().
				Str("placeholder_id", parentID).
				Str("child_id", p.ID).
				Msg("materializing placeholder parent")
			if err := addMappedPerson(clone, parent, mapping); err != nil {
				return err
			}
		}
	}
	return nil
}

// addMappedPerson copies an incoming person into the clone under its mapped
// id, rewriting every reference through the mapping and dropping any
// reference that fails to map.
func addMappedPerson(clone *gentree.Tree, p *gentree.Person, mapping *IDMapping) error {
	cp := p.Copy()
	cp.ID = mapping.Persons[p.ID]
	cp.PartnershipIDs = remapIDs(p.PartnershipIDs, mapping.Partnerships)
	cp.ParentIDs = remapIDs(p.ParentIDs, mapping.Persons)
	cp.ChildIDs = remapIDs(p.ChildIDs, mapping.Persons)
	if err := clone.AddPerson(cp); err != nil {
		return errors.WrapMerge("add", p.ID, err)
	}
	return nil
}

// remapIDs translates ids through table, dropping ones that fail to map.
func remapIDs(ids []string, table map[string]string) []string {
	if ids == nil {
		return nil
	}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if mapped, ok := table[id]; ok {
			out = append(out, mapped)
		}
	}
	return out
}

// mergePartnerships carries each incoming partnership into the clone. A
// partnership whose endpoints both resolve to persons in the clone is
// either folded into an existing partnership between the same endpoint
// pair (fill-ins only) or created under its mapped id; one with an
// unresolvable endpoint is dropped. The drop is intentional data loss,
// surfaced through the stats.
func (x *Executor) mergePartnerships(state *State, clone *gentree.Tree, mapping *IDMapping, result *ExecResult) error {
	for _, pt := range state.incoming.Partnerships() {
		a, okA := mapping.Persons[pt.Partner1ID]
		b, okB := mapping.Persons[pt.Partner2ID]
		if okA {
			_, okA = clone.Person(a)
		}
		if okB {
			_, okB = clone.Person(b)
		}
		if !okA || !okB {
			result.Stats.DroppedPartnerships++
			x.log.Debug().
				Str("partnership_id", pt.ID).
				Msg("dropping partnership with unresolvable endpoint")
			continue
		}

		if existing, ok := clone.PartnershipBetween(a, b); ok {
			fillPartnership(existing, pt)
			continue
		}

		cp := pt.Copy()
		cp.ID = mapping.Partnerships[pt.ID]
		cp.Partner1ID = a
		cp.Partner2ID = b
		cp.ChildIDs = remapIDs(pt.ChildIDs, mapping.Persons)
		if err := clone.AddPartnership(cp); err != nil {
			return errors.WrapMerge("partnerships", pt.ID, err)
		}
		appendPartnershipRef(clone, a, cp.ID)
		appendPartnershipRef(clone, b, cp.ID)
		result.Stats.Partnerships++
	}
	return nil
}

// fillPartnership copies empty-field fill-ins (dates, place, note) from the
// incoming partnership onto an equivalent one already in the clone.
func fillPartnership(target, incoming *gentree.Partnership) {
	if target.StartDate == "" {
		target.StartDate = incoming.StartDate
	}
	if target.EndDate == "" {
		target.EndDate = incoming.EndDate
	}
	if target.StartPlace == "" {
		target.StartPlace = incoming.StartPlace
	}
	if target.Note == "" {
		target.Note = incoming.Note
	}
}

func appendPartnershipRef(clone *gentree.Tree, personID, partnershipID string) {
	p, ok := clone.Person(personID)
	if !ok || p.HasPartnership(partnershipID) {
		return
	}
	p.PartnershipIDs = append(p.PartnershipIDs, partnershipID)
}

// repair restores referential integrity on the merged clone: parent/child
// back-references become mutual, partnership children list both endpoints
// as parents subject to the 2-parent cap, persons exceeding the cap are
// truncated to their first two parents, and reference lists pointing at
// records absent from the clone are pruned.
func (x *Executor) repair(clone *gentree.Tree) {
	for _, p := range clone.Persons() {
		for _, parentID := range p.ParentIDs {
			if parent, ok := clone.Person(parentID); ok && !parent.HasChild(p.ID) {
				parent.ChildIDs = append(parent.ChildIDs, p.ID)
			}
		}
		for _, childID := range p.ChildIDs {
			child, ok := clone.Person(childID)
			if !ok || child.HasParent(p.ID) {
				continue
			}
			if len(child.ParentIDs) < 2 {
				child.ParentIDs = append(child.ParentIDs, p.ID)
			}
		}
	}

	for _, pt := range clone.Partnerships() {
		for _, childID := range pt.ChildIDs {
			child, ok := clone.Person(childID)
			if !ok {
				continue
			}
			for _, parentID := range []string{pt.Partner1ID, pt.Partner2ID} {
				if _, ok := clone.Person(parentID); !ok {
					continue
				}
				if !child.HasParent(parentID) && len(child.ParentIDs) < 2 {
					child.ParentIDs = append(child.ParentIDs, parentID)
				}
			}
		}
	}

	for _, p := range clone.Persons() {
		if len(p.ParentIDs) > 2 {
			x.log.Warn().
				Str("person_id", p.ID).
				Int("parents", len(p.ParentIDs)).
				Msg("person exceeds 2-parent cap, truncating")
			p.ParentIDs = p.ParentIDs[:2]
		}
		p.PartnershipIDs = prunePartnershipRefs(clone, p.PartnershipIDs)
	}
}

func prunePartnershipRefs(clone *gentree.Tree, ids []string) []string {
	if ids == nil {
		return nil
	}
	out := ids[:0]
	for _, id := range ids {
		if _, ok := clone.Partnership(id); ok {
			out = append(out, id)
		}
	}
	return out
}

// validate collects soft warnings: dangling parent/child references,
// partnerships with unresolvable endpoints or children, and parent-chain
// cycles. Failures here never abort the merge; authoritative validation is
// a separate user-facing check.
func (x *Executor) validate(clone *gentree.Tree) []string {
	var warnings []string
	warn := func(format string, args ...interface{}) {
		msg := fmt.Sprintf(format, args...)
		warnings = append(warnings, msg)
		x.log.Warn().Msg(msg)
	}

	for _, p := range clone.Persons() {
		for _, parentID := range p.ParentIDs {
			if _, ok := clone.Person(parentID); !ok {
				warn("person %s references missing parent %s", p.ID, parentID)
			}
		}
		for _, childID := range p.ChildIDs {
			if _, ok := clone.Person(childID); !ok {
				warn("person %s references missing child %s", p.ID, childID)
			}
		}
		if hasParentCycle(clone, p) {
			warn("person %s is part of a parent-chain cycle", p.ID)
		}
	}

	for _, pt := range clone.Partnerships() {
		for _, endpointID := range []string{pt.Partner1ID, pt.Partner2ID} {
			if _, ok := clone.Person(endpointID); !ok {
				warn("partnership %s references missing partner %s", pt.ID, endpointID)
			}
		}
		for _, childID := range pt.ChildIDs {
			if _, ok := clone.Person(childID); !ok {
				warn("partnership %s references missing child %s", pt.ID, childID)
			}
		}
	}

	return warnings
}

// hasParentCycle walks the parent chains of start and reports whether any
// chain leads back to start itself.
func hasParentCycle(tree *gentree.Tree, start *gentree.Person) bool {
	visited := make(map[string]bool)
	stack := append([]string(nil), start.ParentIDs...)
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if id == start.ID {
			return true
		}
		if visited[id] {
			continue
		}
		visited[id] = true
		if p, ok := tree.Person(id); ok {
			stack = append(stack, p.ParentIDs...)
		}
	}
	return false
}

// countMerged counts matches whose decision folds the incoming person into
// an existing record.
func countMerged(state *State) int {
	merged := 0
	for _, m := range state.matches {
		if d, ok := state.decisions[m.IncomingID]; ok && d.Kind == DecisionReject {
			continue
		}
		merged++
	}
	return merged
}
