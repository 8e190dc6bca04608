package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Transaction is one service performed by a stylist. The service is copied by
// name so later catalog edits never change recorded splits.
type Transaction struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	EmployeeID      uuid.UUID  `gorm:"type:uuid;index;not null" json:"employee_id"`
	Employee        Employee   `gorm:"foreignKey:EmployeeID" json:"employee"`
	CreatedByUserID *uuid.UUID `gorm:"type:uuid;index" json:"created_by_user_id,omitempty"`

	ServiceName          string          `gorm:"not null" json:"service_name"`
	TotalAmount          decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_amount"`
	EmployeeAmount       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"employee_amount"`
	CompanyAmount        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"company_amount"`
	CommissionPercentage decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"commission_percentage"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	// CreatedAt is the start of the service day; RecordedAt orders entries within it.
	RecordedAt time.Time `gorm:"autoCreateTime;index" json:"recorded_at"`
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return
}
