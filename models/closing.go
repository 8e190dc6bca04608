package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DailyClosing is the end-of-day snapshot of the salon's totals.
type DailyClosing struct {
	ID       uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Day      string          `gorm:"type:varchar(10);uniqueIndex;not null" json:"day"` // YYYY-MM-DD
	Count    int             `gorm:"not null" json:"count"`
	Revenue  decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"revenue"`
	Payout   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"payout"`
	Company  decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"company"`
	ClosedAt time.Time       `json:"closed_at"`
}

func (d *DailyClosing) BeforeCreate(tx *gorm.DB) (err error) {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return
}
