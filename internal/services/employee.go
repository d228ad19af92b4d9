package services

import (
	"context"

	"github.com/google/uuid"

	domainagg "github.com/yungbote/changetrack/internal/domain/aggregates"
	types "github.com/yungbote/changetrack/internal/domain/employee"
	"github.com/yungbote/changetrack/internal/platform/access"
	"github.com/yungbote/changetrack/internal/platform/clock"
	"github.com/yungbote/changetrack/internal/platform/idgen"
	"github.com/yungbote/changetrack/internal/platform/logger"
)

// EmployeeAggregate is the persistence boundary the service writes through.
type EmployeeAggregate interface {
	Load(ctx context.Context, id uuid.UUID, aggDeps types.Deps) (*types.Aggregate, error)
	SaveChange(ctx context.Context, agg *types.Aggregate) (int64, error)
	Delete(ctx context.Context, id uuid.UUID, expectedVersion int) error
}

type CreateEmployeeInput struct {
	Name      string
	Age       int
	Remark    *string
	Addresses []types.AddressInput
}

type EmployeeService interface {
	Create(ctx context.Context, in CreateEmployeeInput) (*types.Employee, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, in types.ProfileInput) (*types.Employee, error)
	AddAddress(ctx context.Context, employeeID uuid.UUID, in types.AddressInput) (*types.Employee, error)
	Get(ctx context.Context, id uuid.UUID) (*types.Employee, error)
	Delete(ctx context.Context, id uuid.UUID, expectedVersion int) error
}

type employeeService struct {
	log   *logger.Logger
	store EmployeeAggregate
	clock clock.Clock
	ids   idgen.Provider
}

func NewEmployeeService(log *logger.Logger, store EmployeeAggregate, clk clock.Clock, ids idgen.Provider) EmployeeService {
	if clk == nil {
		clk = clock.System()
	}
	if ids == nil {
		ids = idgen.UUID()
	}
	return &employeeService{
		log:   log.With("service", "EmployeeService"),
		store: store,
		clock: clk,
		ids:   ids,
	}
}

// aggDeps binds the acting principal of ctx; every call builds a fresh aggregate.
func (s *employeeService) aggDeps(ctx context.Context) types.Deps {
	return types.Deps{Clock: s.clock, IDs: s.ids, Access: access.FromContext(ctx)}
}

func (s *employeeService) Create(ctx context.Context, in CreateEmployeeInput) (*types.Employee, error) {
	agg := types.New(s.aggDeps(ctx))
	id, err := agg.NewEmployee(in.Name, in.Age, in.Remark)
	if err != nil {
		return nil, err
	}
	for _, addr := range in.Addresses {
		if _, err := agg.AddAddress(addr); err != nil {
			return nil, err
		}
	}
	if _, err := agg.AcceptChanges(); err != nil {
		return nil, err
	}
	rows, err := s.store.SaveChange(ctx, agg)
	if err != nil {
		s.log.Warn("create employee failed", "employee_id", id.String(), "error", err)
		return nil, err
	}
	s.log.Info("employee created", "employee_id", id.String(), "rows", rows)
	out := agg.Snapshot()
	return &out, nil
}

func (s *employeeService) UpdateProfile(ctx context.Context, id uuid.UUID, in types.ProfileInput) (*types.Employee, error) {
	return s.modify(ctx, "update profile", id, func(agg *types.Aggregate) error {
		return agg.SetProfile(in.Name, in.Age, in.Remark)
	})
}

func (s *employeeService) AddAddress(ctx context.Context, employeeID uuid.UUID, in types.AddressInput) (*types.Employee, error) {
	return s.modify(ctx, "add address", employeeID, func(agg *types.Aggregate) error {
		_, err := agg.AddAddress(in)
		return err
	})
}

// modify loads, mutates and saves one employee. A mutation that changes
// nothing is accepted without a write.
func (s *employeeService) modify(ctx context.Context, what string, id uuid.UUID, mutate func(*types.Aggregate) error) (*types.Employee, error) {
	agg, err := s.store.Load(ctx, id, s.aggDeps(ctx))
	if err != nil {
		return nil, err
	}
	if err := mutate(agg); err != nil {
		return nil, err
	}
	changed, err := agg.AcceptChanges()
	if err != nil {
		return nil, err
	}
	if !changed {
		s.log.Debug(what+": nothing to save", "employee_id", id.String())
		out := agg.Snapshot()
		return &out, nil
	}
	rows, err := s.store.SaveChange(ctx, agg)
	if err != nil {
		if domainagg.Retryable(err) {
			s.log.Info(what+" lost a concurrent update", "employee_id", id.String(), "error", err)
		} else {
			s.log.Warn(what+" failed", "employee_id", id.String(), "error", err)
		}
		return nil, err
	}
	s.log.Debug(what+" saved", "employee_id", id.String(), "version", agg.Version(), "rows", rows)
	out := agg.Snapshot()
	return &out, nil
}

func (s *employeeService) Get(ctx context.Context, id uuid.UUID) (*types.Employee, error) {
	agg, err := s.store.Load(ctx, id, s.aggDeps(ctx))
	if err != nil {
		return nil, err
	}
	out := agg.Snapshot()
	return &out, nil
}

func (s *employeeService) Delete(ctx context.Context, id uuid.UUID, expectedVersion int) error {
	if err := s.store.Delete(ctx, id, expectedVersion); err != nil {
		s.log.Warn("delete employee failed", "employee_id", id.String(), "error", err)
		return err
	}
	s.log.Info("employee deleted", "employee_id", id.String())
	return nil
}
