package employee

import (
	"strings"
	"time"

	"github.com/google/uuid"

	domainagg "github.com/yungbote/changetrack/internal/domain/aggregates"
	"github.com/yungbote/changetrack/internal/platform/access"
	"github.com/yungbote/changetrack/internal/platform/clock"
	"github.com/yungbote/changetrack/internal/platform/idgen"
)

// Deps are the collaborators an Aggregate stamps new records with.
type Deps struct {
	Clock  clock.Clock
	IDs    idgen.Provider
	Access access.Context
}

// Aggregate is the employee façade over the generic change-tracking root.
// Every domain operation goes through Track, so the change log can be
// replayed by a store onto a new or fetched row.
type Aggregate struct {
	deps Deps
	root *domainagg.Root[*Employee]
}

func New(deps Deps) *Aggregate {
	if deps.Clock == nil {
		deps.Clock = clock.System()
	}
	if deps.IDs == nil {
		deps.IDs = idgen.UUID()
	}
	return &Aggregate{deps: deps}
}

// Attach wraps a row read from storage; the aggregate starts Unchanged.
func (a *Aggregate) Attach(row *Employee) error {
	const op = "Employee.Attach"
	if a.root != nil {
		return domainagg.StateConflict(op, "aggregate already holds an employee")
	}
	if row == nil || row.ID == uuid.Nil {
		return domainagg.NewError(domainagg.CodeValidation, op, "row with an id is required", nil)
	}
	root, err := domainagg.Load(row)
	if err != nil {
		return err
	}
	a.root = root
	return nil
}

// NewEmployee starts a new employee with a freshly generated id. Audit
// fields are stamped later, on submission.
func (a *Aggregate) NewEmployee(name string, age int, remark *string) (uuid.UUID, error) {
	const op = "Employee.NewEmployee"
	if a.root != nil {
		return uuid.Nil, domainagg.StateConflict(op, "aggregate already holds an employee")
	}
	in := ProfileInput{Name: strings.TrimSpace(name), Age: age, Remark: cloneString(remark)}
	if err := validateInput(op, in); err != nil {
		return uuid.Nil, err
	}
	id, err := a.deps.IDs.GenerateID()
	if err != nil {
		return uuid.Nil, err
	}

	root, err := domainagg.Create(&Employee{},
		domainagg.Change[*Employee]{Field: FieldID, Apply: func(e *Employee) { e.ID = id }},
		domainagg.Change[*Employee]{Field: FieldName, Apply: func(e *Employee) { e.Name = in.Name }},
		domainagg.Change[*Employee]{Field: FieldAge, Apply: func(e *Employee) { e.Age = in.Age }},
		domainagg.Change[*Employee]{Field: FieldRemark, Apply: func(e *Employee) { e.Remark = cloneString(in.Remark) }},
		domainagg.Change[*Employee]{Field: domainagg.FieldVersion, Apply: func(e *Employee) { e.Version = 0 }},
	)
	if err != nil {
		return uuid.Nil, err
	}
	a.root = root
	return id, nil
}

// SetProfile records one change per field that actually differs.
func (a *Aggregate) SetProfile(name string, age int, remark *string) error {
	const op = "Employee.SetProfile"
	if err := a.requireMutable(op); err != nil {
		return err
	}
	in := ProfileInput{Name: strings.TrimSpace(name), Age: age, Remark: cloneString(remark)}
	if err := validateInput(op, in); err != nil {
		return err
	}

	cur := a.root.Instance()
	if cur.Name != in.Name {
		if err := a.root.Track(FieldName, func(e *Employee) { e.Name = in.Name }); err != nil {
			return err
		}
	}
	if cur.Age != in.Age {
		if err := a.root.Track(FieldAge, func(e *Employee) { e.Age = in.Age }); err != nil {
			return err
		}
	}
	if !sameString(cur.Remark, in.Remark) {
		if err := a.root.Track(FieldRemark, func(e *Employee) { e.Remark = cloneString(in.Remark) }); err != nil {
			return err
		}
	}
	return nil
}

// AddAddress assigns the address its own id and creation stamp, then
// records the append.
func (a *Aggregate) AddAddress(in AddressInput) (uuid.UUID, error) {
	const op = "Employee.AddAddress"
	if err := a.requireMutable(op); err != nil {
		return uuid.Nil, err
	}
	in.Country = strings.TrimSpace(in.Country)
	in.Street = strings.TrimSpace(in.Street)
	in.Remark = cloneString(in.Remark)
	if err := validateInput(op, in); err != nil {
		return uuid.Nil, err
	}

	id, err := a.deps.IDs.GenerateID()
	if err != nil {
		return uuid.Nil, err
	}
	who, err := a.principal()
	if err != nil {
		return uuid.Nil, err
	}
	addr := Address{
		ID:         id,
		EmployeeID: a.root.Instance().ID,
		Country:    in.Country,
		Street:     in.Street,
		Remark:     in.Remark,
		CreatedAt:  a.deps.Clock.Now(),
		CreatedBy:  who,
	}
	err = a.root.Track(FieldAddresses, func(e *Employee) {
		row := addr
		row.Remark = cloneString(addr.Remark)
		e.Addresses = append(e.Addresses, row)
	})
	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

// SubmitChange seals the aggregate with explicit audit values.
func (a *Aggregate) SubmitChange(now time.Time, who string) (bool, error) {
	const op = "Employee.SubmitChange"
	if a.root == nil {
		return false, domainagg.NewError(domainagg.CodeInvariantViolation, op, "aggregate holds no employee", nil)
	}
	if err := requireOpen(op, a.root.State()); err != nil {
		return false, err
	}
	return a.root.SubmitChange(now.UTC(), who)
}

// AcceptChanges submits using the injected clock and acting principal.
func (a *Aggregate) AcceptChanges() (bool, error) {
	const op = "Employee.AcceptChanges"
	if a.root == nil {
		return false, domainagg.NewError(domainagg.CodeInvariantViolation, op, "aggregate holds no employee", nil)
	}
	if err := requireOpen(op, a.root.State()); err != nil {
		return false, err
	}
	who, err := a.principal()
	if err != nil {
		return false, err
	}
	return a.SubmitChange(a.deps.Clock.Now(), who)
}

func (a *Aggregate) requireMutable(op string) error {
	if a.root == nil {
		return domainagg.NewError(domainagg.CodeInvariantViolation, op, "aggregate holds no employee", nil)
	}
	if a.root.State().Sealed() {
		return domainagg.StateConflict(op, "cannot mutate a "+a.root.State().String()+" aggregate")
	}
	return nil
}

func requireOpen(op string, state domainagg.EntityState) error {
	switch state {
	case domainagg.StateSubmitted:
		return domainagg.StateConflict(op, "already accepted, cannot accept again")
	case domainagg.StateSaved:
		return domainagg.StateConflict(op, "already saved, cannot accept again")
	}
	return nil
}

// MarkSaved is called by a store once the submitted changes are committed.
func (a *Aggregate) MarkSaved() error {
	if a.root == nil {
		return domainagg.NewError(domainagg.CodeInvariantViolation, "Employee.MarkSaved", "aggregate holds no employee", nil)
	}
	return a.root.MarkSaved()
}

func (a *Aggregate) principal() (string, error) {
	if a.deps.Access == nil {
		return "", access.ErrNoPrincipal
	}
	return a.deps.Access.UserID()
}

// Replay applies the change log onto target; stores use it for both the
// insert and the update path.
func (a *Aggregate) Replay(target *Employee) {
	if a.root == nil || target == nil {
		return
	}
	a.root.Replay(target)
}

func (a *Aggregate) Changes() []domainagg.Change[*Employee] {
	if a.root == nil {
		return nil
	}
	return a.root.Changes()
}

// Fields lists the columns and collections the change log touches.
func (a *Aggregate) Fields() []string {
	if a.root == nil {
		return nil
	}
	return a.root.Fields()
}

func (a *Aggregate) State() domainagg.EntityState {
	if a.root == nil {
		return domainagg.StateUnchanged
	}
	return a.root.State()
}

func (a *Aggregate) Intent() domainagg.EntityState {
	if a.root == nil {
		return domainagg.StateUnchanged
	}
	return a.root.Intent()
}

func (a *Aggregate) LoadedVersion() int {
	if a.root == nil {
		return 0
	}
	return a.root.LoadedVersion()
}

func (a *Aggregate) ID() uuid.UUID        { return a.view().ID }
func (a *Aggregate) Name() string         { return a.view().Name }
func (a *Aggregate) Age() int             { return a.view().Age }
func (a *Aggregate) Remark() *string      { return cloneString(a.view().Remark) }
func (a *Aggregate) Version() int         { return a.view().Version }
func (a *Aggregate) CreatedAt() time.Time { return a.view().CreatedAt }
func (a *Aggregate) CreatedBy() string    { return a.view().CreatedBy }
func (a *Aggregate) UpdatedAt() time.Time { return a.view().UpdatedAt }
func (a *Aggregate) UpdatedBy() string    { return a.view().UpdatedBy }

func (a *Aggregate) Addresses() []Address {
	src := a.view().Addresses
	out := make([]Address, len(src))
	for i, addr := range src {
		addr.Remark = cloneString(addr.Remark)
		out[i] = addr
	}
	return out
}

// Snapshot returns a detached copy of the current state.
func (a *Aggregate) Snapshot() Employee {
	out := *a.view()
	out.Remark = cloneString(out.Remark)
	out.Addresses = a.Addresses()
	return out
}

func (a *Aggregate) view() *Employee {
	if a.root == nil {
		return &Employee{}
	}
	return a.root.Instance()
}
