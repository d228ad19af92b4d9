package employee

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Column labels used in the change log. They double as database column names.
const (
	FieldID        = "id"
	FieldName      = "name"
	FieldAge       = "age"
	FieldRemark    = "remark"
	FieldAddresses = "addresses"
)

type Employee struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"not null;column:name" json:"name"`
	Age       int       `gorm:"not null;column:age" json:"age"`
	Remark    *string   `gorm:"column:remark" json:"remark,omitempty"`
	Addresses []Address `gorm:"foreignKey:EmployeeID" json:"addresses,omitempty"`

	Version   int            `gorm:"not null;column:version" json:"version"`
	CreatedAt time.Time      `gorm:"not null;autoCreateTime:false;column:created_at" json:"created_at"`
	CreatedBy string         `gorm:"not null;column:created_by" json:"created_by"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime:false;column:updated_at" json:"updated_at"`
	UpdatedBy string         `gorm:"column:updated_by" json:"updated_by"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Employee) TableName() string { return "employee" }

func (e *Employee) SetCreatedAt(at time.Time) { e.CreatedAt = at }
func (e *Employee) SetCreatedBy(by string)    { e.CreatedBy = by }
func (e *Employee) SetUpdatedAt(at time.Time) { e.UpdatedAt = at }
func (e *Employee) SetUpdatedBy(by string)    { e.UpdatedBy = by }
func (e *Employee) GetVersion() int           { return e.Version }
func (e *Employee) SetVersion(v int)          { e.Version = v }

type Address struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index;column:employee_id" json:"employee_id"`
	Country    string    `gorm:"not null;column:country" json:"country"`
	Street     string    `gorm:"not null;column:street" json:"street"`
	Remark     *string   `gorm:"column:remark" json:"remark,omitempty"`
	CreatedAt  time.Time `gorm:"not null;autoCreateTime:false;column:created_at" json:"created_at"`
	CreatedBy  string    `gorm:"not null;column:created_by" json:"created_by"`
}

func (Address) TableName() string { return "address" }

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func sameString(a, b *string) bool {
	switch {
	case a == nil && b == nil:
		return true
	case a == nil || b == nil:
		return false
	default:
		return *a == *b
	}
}
