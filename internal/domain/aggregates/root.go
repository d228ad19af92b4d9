package aggregates

import (
	"reflect"
	"strings"
	"time"
)

// EntityState is the lifecycle position of a tracked instance.
type EntityState int

const (
	StateUnchanged EntityState = iota
	StateAdded
	StateModified
	StateSubmitted
	StateSaved
)

func (s EntityState) String() string {
	switch s {
	case StateUnchanged:
		return "unchanged"
	case StateAdded:
		return "added"
	case StateModified:
		return "modified"
	case StateSubmitted:
		return "submitted"
	case StateSaved:
		return "saved"
	default:
		return "unknown"
	}
}

// Sealed reports whether the change log is closed to further mutation.
func (s EntityState) Sealed() bool {
	return s == StateSubmitted || s == StateSaved
}

// Column labels for the audit mutations appended by SubmitChange.
const (
	FieldCreatedAt = "created_at"
	FieldCreatedBy = "created_by"
	FieldUpdatedAt = "updated_at"
	FieldUpdatedBy = "updated_by"
	FieldVersion   = "version"
)

// Auditable is implemented by the (pointer) type a Root tracks.
type Auditable interface {
	SetCreatedAt(at time.Time)
	SetCreatedBy(by string)
	SetUpdatedAt(at time.Time)
	SetUpdatedBy(by string)
	GetVersion() int
	SetVersion(v int)
}

// Change is one recorded mutation. Field names the column (or child
// collection) it touches; Apply performs it on any instance of T.
type Change[T any] struct {
	Field string
	Apply func(T)
}

// Root wraps one mutable instance and records every mutation made to it.
//
// A Root is owned by a single business operation and is not safe for
// concurrent use.
type Root[T Auditable] struct {
	instance      T
	state         EntityState
	intent        EntityState
	loadedVersion int
	changes       []Change[T]
}

// Load wraps an instance read from storage. The aggregate starts Unchanged.
func Load[T Auditable](instance T) (*Root[T], error) {
	if isNil(instance) {
		return nil, NewError(CodeValidation, "aggregate.Load", "instance is required", nil)
	}
	return &Root[T]{
		instance:      instance,
		state:         StateUnchanged,
		intent:        StateUnchanged,
		loadedVersion: instance.GetVersion(),
	}, nil
}

// Create starts a brand-new aggregate in the Added state and tracks the
// initial changes onto blank. At least one change is required.
func Create[T Auditable](blank T, initial ...Change[T]) (*Root[T], error) {
	const op = "aggregate.Create"
	if isNil(blank) {
		return nil, NewError(CodeValidation, op, "blank instance is required", nil)
	}
	if len(initial) == 0 {
		return nil, NewError(CodeValidation, op, "a new aggregate needs at least one initial change", nil)
	}
	r := &Root[T]{
		instance: blank,
		state:    StateAdded,
		intent:   StateAdded,
	}
	for _, c := range initial {
		if err := r.Track(c.Field, c.Apply); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Track applies mutation to the instance right away and appends it to the
// change log. field labels the column or child collection the mutation
// touches; stores write exactly the labelled columns.
func (r *Root[T]) Track(field string, mutation func(T)) error {
	const op = "aggregate.Track"
	if r.state.Sealed() {
		return StateConflict(op, "cannot mutate a "+r.state.String()+" aggregate")
	}
	field = strings.TrimSpace(field)
	if field == "" {
		return NewError(CodeValidation, op, "field label is required", nil)
	}
	if mutation == nil {
		return NewError(CodeValidation, op, "mutation is required", nil)
	}
	mutation(r.instance)
	r.changes = append(r.changes, Change[T]{Field: field, Apply: mutation})
	if r.state == StateUnchanged {
		r.state = StateModified
	}
	return nil
}

// SubmitChange stamps audit fields, bumps the version and seals the change
// log. It reports changed=false (and does nothing) for an untouched aggregate.
func (r *Root[T]) SubmitChange(now time.Time, who string) (bool, error) {
	const op = "aggregate.SubmitChange"
	switch r.state {
	case StateSubmitted:
		return false, StateConflict(op, "already submitted, cannot submit twice")
	case StateSaved:
		return false, StateConflict(op, "already saved, cannot submit again")
	case StateUnchanged:
		return false, nil
	}

	intent := r.state
	stamps := []Change[T]{
		{Field: FieldUpdatedAt, Apply: func(t T) { t.SetUpdatedAt(now) }},
		{Field: FieldUpdatedBy, Apply: func(t T) { t.SetUpdatedBy(who) }},
	}
	if intent == StateAdded {
		stamps = append(stamps,
			Change[T]{Field: FieldCreatedAt, Apply: func(t T) { t.SetCreatedAt(now) }},
			Change[T]{Field: FieldCreatedBy, Apply: func(t T) { t.SetCreatedBy(who) }},
		)
	}
	// Relative bump: replay onto a row at the loaded version yields loaded+1.
	stamps = append(stamps, Change[T]{Field: FieldVersion, Apply: func(t T) { t.SetVersion(t.GetVersion() + 1) }})

	for _, s := range stamps {
		if err := r.Track(s.Field, s.Apply); err != nil {
			return false, err
		}
	}
	r.intent = intent
	r.state = StateSubmitted
	return true, nil
}

// MarkSaved records that the submitted change log has been committed. A
// saved aggregate is terminal; load a fresh one for further changes.
func (r *Root[T]) MarkSaved() error {
	const op = "aggregate.MarkSaved"
	switch r.state {
	case StateSubmitted:
		r.state = StateSaved
		return nil
	case StateSaved:
		return StateConflict(op, "already saved, cannot save again")
	default:
		return StateConflict(op, "not yet submitted, cannot save")
	}
}

// Replay applies the change log, in order, onto target.
func (r *Root[T]) Replay(target T) {
	for _, c := range r.changes {
		c.Apply(target)
	}
}

// Changes returns a copy of the change log.
func (r *Root[T]) Changes() []Change[T] {
	out := make([]Change[T], len(r.changes))
	copy(out, r.changes)
	return out
}

// Fields lists the distinct labels in the change log, in first-touched order.
func (r *Root[T]) Fields() []string {
	seen := make(map[string]struct{}, len(r.changes))
	out := make([]string, 0, len(r.changes))
	for _, c := range r.changes {
		if _, ok := seen[c.Field]; ok {
			continue
		}
		seen[c.Field] = struct{}{}
		out = append(out, c.Field)
	}
	return out
}

// Instance exposes the current, possibly uncommitted, state. Callers must
// not mutate it outside Track.
func (r *Root[T]) Instance() T { return r.instance }

func (r *Root[T]) State() EntityState { return r.state }

// Intent is the state the aggregate was in when it was submitted (Added or
// Modified). Before submission it equals State.
func (r *Root[T]) Intent() EntityState {
	if r.state.Sealed() {
		return r.intent
	}
	return r.state
}

func (r *Root[T]) Version() int { return r.instance.GetVersion() }

// LoadedVersion is the version read from storage; zero for new aggregates.
func (r *Root[T]) LoadedVersion() int { return r.loadedVersion }

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}
