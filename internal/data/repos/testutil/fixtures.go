package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/changetrack/internal/domain/employee"
)

// SeedEmployee inserts a committed employee at the given version.
func SeedEmployee(tb testing.TB, ctx context.Context, conn *gorm.DB, name string, version int) *types.Employee {
	tb.Helper()
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	row := &types.Employee{
		ID:        uuid.New(),
		Name:      name,
		Age:       30,
		Version:   version,
		CreatedAt: at,
		CreatedBy: "seed",
		UpdatedAt: at,
		UpdatedBy: "seed",
	}
	if err := conn.WithContext(ctx).Omit("Addresses").Create(row).Error; err != nil {
		tb.Fatalf("seed employee: %v", err)
	}
	return row
}

// SeedAddress attaches one address to an existing employee.
func SeedAddress(tb testing.TB, ctx context.Context, conn *gorm.DB, employeeID uuid.UUID, country string, at time.Time) *types.Address {
	tb.Helper()
	row := &types.Address{
		ID:         uuid.New(),
		EmployeeID: employeeID,
		Country:    country,
		Street:     "seed street",
		CreatedAt:  at.UTC(),
		CreatedBy:  "seed",
	}
	if err := conn.WithContext(ctx).Create(row).Error; err != nil {
		tb.Fatalf("seed address: %v", err)
	}
	return row
}
