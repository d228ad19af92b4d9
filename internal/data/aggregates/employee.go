package aggregates

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	repos "github.com/yungbote/changetrack/internal/data/repos/employee"
	domainagg "github.com/yungbote/changetrack/internal/domain/aggregates"
	types "github.com/yungbote/changetrack/internal/domain/employee"
	"github.com/yungbote/changetrack/internal/platform/access"
	"github.com/yungbote/changetrack/internal/platform/clock"
	"github.com/yungbote/changetrack/internal/platform/dbctx"
)

type EmployeeStoreDeps struct {
	Base      BaseDeps
	Employees repos.EmployeeRepo
	Addresses repos.AddressRepo
	Clock     clock.Clock
}

// EmployeeStore persists submitted employee aggregates by replaying their
// change log onto a new row (insert) or onto the stored row (update).
type EmployeeStore struct {
	deps EmployeeStoreDeps
}

var _ domainagg.Aggregate = (*EmployeeStore)(nil)

func NewEmployeeStore(deps EmployeeStoreDeps) *EmployeeStore {
	deps.Base = deps.Base.withDefaults()
	if deps.Clock == nil {
		deps.Clock = clock.System()
	}
	if deps.Base.Log != nil {
		deps.Base.Log = deps.Base.Log.With("aggregate", "EmployeeStore")
	}
	return &EmployeeStore{deps: deps}
}

func (s *EmployeeStore) Contract() domainagg.Contract {
	return domainagg.EmployeeAggregateContract
}

// Load reads an employee with its addresses and wraps it in an Unchanged
// aggregate stamping with aggDeps.
func (s *EmployeeStore) Load(ctx context.Context, id uuid.UUID, aggDeps types.Deps) (*types.Aggregate, error) {
	const op = "employee.load"
	if id == uuid.Nil {
		return nil, domainagg.NewError(domainagg.CodeValidation, op, "employee id is required", nil)
	}
	row, err := s.deps.Employees.GetByID(dbctx.Context{Ctx: ctx}, id)
	if err != nil {
		return nil, MapError(op, err)
	}
	if row == nil {
		return nil, domainagg.NewError(domainagg.CodeNotFound, op, "employee not found", nil)
	}
	agg := types.New(aggDeps)
	if err := agg.Attach(row); err != nil {
		return nil, err
	}
	return agg, nil
}

// SaveChange writes a submitted aggregate in one transaction and returns
// the total rows affected across the employee and address tables.
func (s *EmployeeStore) SaveChange(ctx context.Context, agg *types.Aggregate) (int64, error) {
	const op = "employee.save"
	if agg == nil {
		return 0, domainagg.NewError(domainagg.CodeValidation, op, "aggregate is required", nil)
	}
	switch agg.State() {
	case domainagg.StateSubmitted:
	case domainagg.StateSaved:
		return 0, domainagg.StateConflict(op, "already saved, cannot save again")
	default:
		return 0, domainagg.StateConflict(op, "not yet submitted, cannot save")
	}

	var affected int64
	err := executeWrite(ctx, s.deps.Base, op, func(dbc dbctx.Context) error {
		var (
			n   int64
			err error
		)
		switch agg.Intent() {
		case domainagg.StateAdded:
			n, err = s.insert(dbc, agg)
		case domainagg.StateModified:
			n, err = s.update(dbc, agg)
		default:
			return InvariantError("submitted aggregate has no add or modify intent")
		}
		if err != nil {
			return err
		}
		// A cancellation that lands after the writes still rolls them back.
		if err := dbc.Ctx.Err(); err != nil {
			return err
		}
		affected = n
		return nil
	})
	if err != nil {
		return 0, err
	}
	if err := agg.MarkSaved(); err != nil {
		return affected, err
	}
	if s.deps.Base.Log != nil {
		s.deps.Base.Log.Debug("employee saved", "employee_id", agg.ID().String(), "intent", agg.Intent().String(), "version", agg.Version(), "rows", affected)
	}
	return affected, nil
}

func (s *EmployeeStore) insert(dbc dbctx.Context, agg *types.Aggregate) (int64, error) {
	row := &types.Employee{}
	agg.Replay(row)
	n, err := s.deps.Employees.Insert(dbc, row)
	if err != nil {
		return 0, err
	}
	children, err := s.deps.Addresses.CreateMany(dbc, row.Addresses)
	if err != nil {
		return 0, err
	}
	return n + children, nil
}

func (s *EmployeeStore) update(dbc dbctx.Context, agg *types.Aggregate) (int64, error) {
	expected := agg.LoadedVersion()
	row, err := s.deps.Employees.LockByID(dbc, agg.ID())
	if err != nil {
		return 0, err
	}
	if row == nil {
		return 0, ConflictError("employee no longer exists")
	}
	if err := RequireVersionMatch(row.Version, expected); err != nil {
		return 0, err
	}

	// The locked row carries no children, so after replay row.Addresses
	// holds exactly the addresses appended by this change log.
	agg.Replay(row)
	n, err := s.deps.Employees.UpdateColumns(dbc, row, agg.Fields(), expected)
	if err != nil {
		return 0, err
	}
	if err := RequireCASSuccess(n > 0, "employee version changed during update"); err != nil {
		return 0, err
	}
	children, err := s.deps.Addresses.CreateMany(dbc, row.Addresses)
	if err != nil {
		return 0, err
	}
	return n + children, nil
}

// Delete tombstones the employee when its stored version still equals
// expectedVersion. Deletion is a direct store operation, not a tracked change;
// the acting user comes from ctx (see access.WithUserID).
func (s *EmployeeStore) Delete(ctx context.Context, id uuid.UUID, expectedVersion int) error {
	const op = "employee.delete"
	if id == uuid.Nil {
		return domainagg.NewError(domainagg.CodeValidation, op, "employee id is required", nil)
	}
	who, err := access.FromContext(ctx).UserID()
	if err != nil {
		return err
	}
	now := s.deps.Clock.Now().UTC()
	return executeWrite(ctx, s.deps.Base, op, func(dbc dbctx.Context) error {
		ok, err := s.deps.Base.CASGuard.UpdateByVersion(dbc, types.Employee{}.TableName(), id, expectedVersion, map[string]any{
			"deleted_at": gorm.DeletedAt{Time: now, Valid: true},
			"updated_at": now,
			"updated_by": who,
			"version":    gorm.Expr("version + 1"),
		})
		if err != nil {
			return err
		}
		return RequireCASSuccess(ok, "employee missing or version changed")
	})
}
