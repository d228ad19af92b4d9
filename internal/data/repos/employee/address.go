package employee

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/changetrack/internal/domain/employee"
	"github.com/yungbote/changetrack/internal/platform/dbctx"
	"github.com/yungbote/changetrack/internal/platform/logger"
)

type AddressRepo interface {
	CreateMany(dbc dbctx.Context, rows []types.Address) (int64, error)
	ListByEmployeeID(dbc dbctx.Context, employeeID uuid.UUID) ([]types.Address, error)
}

type addressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAddressRepo(db *gorm.DB, baseLog *logger.Logger) AddressRepo {
	return &addressRepo{db: db, log: baseLog.With("repo", "AddressRepo")}
}

func (r *addressRepo) CreateMany(dbc dbctx.Context, rows []types.Address) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	res := dbc.DB(r.db).Create(&rows)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *addressRepo) ListByEmployeeID(dbc dbctx.Context, employeeID uuid.UUID) ([]types.Address, error) {
	var out []types.Address
	if employeeID == uuid.Nil {
		return out, nil
	}
	err := dbc.DB(r.db).
		Where("employee_id = ?", employeeID).
		Order("created_at ASC, id ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
