package employee

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/changetrack/internal/domain/employee"
	"github.com/yungbote/changetrack/internal/platform/dbctx"
	"github.com/yungbote/changetrack/internal/platform/logger"
)

// updatableColumns are the employee columns a replayed change log may write.
var updatableColumns = map[string]struct{}{
	"name":       {},
	"age":        {},
	"remark":     {},
	"version":    {},
	"created_at": {},
	"created_by": {},
	"updated_at": {},
	"updated_by": {},
}

// UpdatableColumns filters labels down to writable employee columns, keeping order.
func UpdatableColumns(labels []string) []string {
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		l = strings.TrimSpace(l)
		if _, ok := updatableColumns[l]; ok {
			out = append(out, l)
		}
	}
	return out
}

type EmployeeRepo interface {
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Employee, error)
	LockByID(dbc dbctx.Context, id uuid.UUID) (*types.Employee, error)
	Insert(dbc dbctx.Context, row *types.Employee) (int64, error)
	UpdateColumns(dbc dbctx.Context, row *types.Employee, columns []string, expectedVersion int) (int64, error)
}

type employeeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEmployeeRepo(db *gorm.DB, baseLog *logger.Logger) EmployeeRepo {
	return &employeeRepo{db: db, log: baseLog.With("repo", "EmployeeRepo")}
}

// GetByID loads an employee with its addresses. Missing rows yield (nil, nil).
func (r *employeeRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Employee, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var row types.Employee
	err := dbc.DB(r.db).
		Preload("Addresses", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		Where("id = ?", id).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// LockByID fetches the bare employee row (no children) for update.
func (r *employeeRepo) LockByID(dbc dbctx.Context, id uuid.UUID) (*types.Employee, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("missing id")
	}
	if dbc.Tx == nil {
		return nil, fmt.Errorf("LockByID required dbc.Tx")
	}
	var row types.Employee
	err := dbc.DB(r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// Insert writes the employee row only; children are written by their own repo.
func (r *employeeRepo) Insert(dbc dbctx.Context, row *types.Employee) (int64, error) {
	if row == nil {
		return 0, nil
	}
	if row.ID == uuid.Nil {
		return 0, fmt.Errorf("employee id is required")
	}
	res := dbc.DB(r.db).Omit(clause.Associations).Create(row)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

// UpdateColumns writes exactly columns from row, guarded by id+expectedVersion.
// Zero rows affected means the guard did not match.
func (r *employeeRepo) UpdateColumns(dbc dbctx.Context, row *types.Employee, columns []string, expectedVersion int) (int64, error) {
	if row == nil || row.ID == uuid.Nil {
		return 0, fmt.Errorf("employee with id is required")
	}
	columns = UpdatableColumns(columns)
	if len(columns) == 0 {
		return 0, nil
	}
	res := dbc.DB(r.db).
		Model(row).
		Where("version = ?", expectedVersion).
		Select(columns).
		Omit(clause.Associations).
		Updates(row)
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		r.log.Debug("version guard rejected update", "employee_id", row.ID.String(), "expected_version", expectedVersion)
	}
	return res.RowsAffected, nil
}
