package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/changetrack/internal/data/aggregates"
	repos "github.com/yungbote/changetrack/internal/data/repos/employee"
	"github.com/yungbote/changetrack/internal/data/repos/testutil"
	domainagg "github.com/yungbote/changetrack/internal/domain/aggregates"
	types "github.com/yungbote/changetrack/internal/domain/employee"
	"github.com/yungbote/changetrack/internal/platform/access"
	"github.com/yungbote/changetrack/internal/platform/clock"
	"github.com/yungbote/changetrack/internal/platform/idgen"
)

var serviceNow = time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC)

func newSQLiteEmployeeService(t *testing.T, ids ...uuid.UUID) (EmployeeService, *clock.Fixed) {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	clk := clock.NewFixed(serviceNow)
	store := aggregates.NewEmployeeStore(aggregates.EmployeeStoreDeps{
		Base:      aggregates.BaseDeps{DB: db, Log: log},
		Employees: repos.NewEmployeeRepo(db, log),
		Addresses: repos.NewAddressRepo(db, log),
		Clock:     clk,
	})
	return NewEmployeeService(log, store, clk, &idgen.Sequence{IDs: ids}), clk
}

func TestEmployeeServiceLifecycle(t *testing.T) {
	empID, addrID := uuid.New(), uuid.New()
	svc, clk := newSQLiteEmployeeService(t, empID, addrID)
	ctx := access.WithUserID(context.Background(), "hr-admin")

	created, err := svc.Create(ctx, CreateEmployeeInput{
		Name:      "Yao",
		Age:       18,
		Addresses: []types.AddressInput{{Country: "TW", Street: "Zhongshan Rd"}},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID != empID || created.Version != 1 || created.CreatedBy != "hr-admin" {
		t.Fatalf("created: %+v", created)
	}

	clk.Advance(time.Hour)
	updated, err := svc.UpdateProfile(ctx, empID, types.ProfileInput{Name: "Yao", Age: 19})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if updated.Age != 19 || updated.Version != 2 || !updated.UpdatedAt.Equal(serviceNow.Add(time.Hour)) {
		t.Fatalf("updated: %+v", updated)
	}

	same, err := svc.UpdateProfile(ctx, empID, types.ProfileInput{Name: "Yao", Age: 19})
	if err != nil {
		t.Fatalf("UpdateProfile no-op: %v", err)
	}
	if same.Version != 2 {
		t.Fatalf("no-op update must not bump version, got %d", same.Version)
	}

	got, err := svc.Get(ctx, empID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(got.Addresses) != 1 || got.Addresses[0].ID != addrID || got.Addresses[0].CreatedBy != "hr-admin" {
		t.Fatalf("addresses: %+v", got.Addresses)
	}

	if err := svc.Delete(ctx, empID, 1); !domainagg.IsCode(err, domainagg.CodeConflict) {
		t.Fatalf("stale delete: expected conflict, got %v", err)
	}
	if err := svc.Delete(ctx, empID, 2); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := svc.Get(ctx, empID); !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("Get after delete: expected not_found, got %v", err)
	}
}

func TestEmployeeServiceRequiresPrincipal(t *testing.T) {
	svc, _ := newSQLiteEmployeeService(t, uuid.New())
	_, err := svc.Create(context.Background(), CreateEmployeeInput{Name: "Yao", Age: 18})
	if !errors.Is(err, access.ErrNoPrincipal) {
		t.Fatalf("expected ErrNoPrincipal, got %v", err)
	}
}

func TestEmployeeServiceSkipsSaveWhenNothingChanged(t *testing.T) {
	log := testutil.Logger(t)
	fake := &fakeEmployeeAggregate{row: &types.Employee{ID: uuid.New(), Name: "Yao", Age: 30, Version: 7}}
	svc := NewEmployeeService(log, fake, clock.NewFixed(serviceNow), nil)
	ctx := access.WithUserID(context.Background(), "hr-admin")

	out, err := svc.UpdateProfile(ctx, fake.row.ID, types.ProfileInput{Name: "Yao", Age: 30})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if fake.saveCalls != 0 {
		t.Fatalf("save calls: want=0 got=%d", fake.saveCalls)
	}
	if out.Version != 7 {
		t.Fatalf("version: want=7 got=%d", out.Version)
	}

	if _, err := svc.UpdateProfile(ctx, fake.row.ID, types.ProfileInput{Name: "", Age: 30}); !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("expected validation failure, got %v", err)
	}
	if fake.saveCalls != 0 {
		t.Fatalf("validation failure must not save, got %d saves", fake.saveCalls)
	}
}

type fakeEmployeeAggregate struct {
	row       *types.Employee
	saveCalls int
}

func (f *fakeEmployeeAggregate) Load(_ context.Context, id uuid.UUID, aggDeps types.Deps) (*types.Aggregate, error) {
	if f.row == nil || f.row.ID != id {
		return nil, domainagg.NewError(domainagg.CodeNotFound, "fake.load", "employee not found", nil)
	}
	row := *f.row
	agg := types.New(aggDeps)
	if err := agg.Attach(&row); err != nil {
		return nil, err
	}
	return agg, nil
}

func (f *fakeEmployeeAggregate) SaveChange(context.Context, *types.Aggregate) (int64, error) {
	f.saveCalls++
	return 1, nil
}

func (f *fakeEmployeeAggregate) Delete(context.Context, uuid.UUID, int) error {
	return nil
}
