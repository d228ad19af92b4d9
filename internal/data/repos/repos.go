package repos

import (
	"github.com/yungbote/changetrack/internal/data/repos/employee"
	"github.com/yungbote/changetrack/internal/platform/logger"
	"gorm.io/gorm"
)

type EmployeeRepo = employee.EmployeeRepo
type AddressRepo = employee.AddressRepo

func NewEmployeeRepo(db *gorm.DB, baseLog *logger.Logger) EmployeeRepo {
	return employee.NewEmployeeRepo(db, baseLog)
}
func NewAddressRepo(db *gorm.DB, baseLog *logger.Logger) AddressRepo {
	return employee.NewAddressRepo(db, baseLog)
}
