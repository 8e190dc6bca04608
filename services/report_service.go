// services/report_service.go
package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"stylemanager-backend/commission"
	"stylemanager-backend/models"
	"stylemanager-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrInvalidEmployeeFilter = errors.New("Estilista inválido")
	ErrInvalidDateFilter     = errors.New("Data inválida, use AAAA-MM-DD")
)

// Filter narrows the transaction report. Zero fields do not filter.
type Filter struct {
	EmployeeID *uuid.UUID
	From       *time.Time // start of the first day
	To         *time.Time // start of the last day
}

// ParseFilter reads the report query parameters. Dates are YYYY-MM-DD in loc.
func ParseFilter(employeeID, startDate, endDate string, loc *time.Location) (Filter, error) {
	var f Filter
	if employeeID = strings.TrimSpace(employeeID); employeeID != "" {
		id, err := uuid.Parse(employeeID)
		if err != nil {
			return f, ErrInvalidEmployeeFilter
		}
		f.EmployeeID = &id
	}
	if startDate = strings.TrimSpace(startDate); startDate != "" {
		from, err := utils.ParseDay(startDate, loc)
		if err != nil {
			return f, ErrInvalidDateFilter
		}
		f.From = &from
	}
	if endDate = strings.TrimSpace(endDate); endDate != "" {
		to, err := utils.ParseDay(endDate, loc)
		if err != nil {
			return f, ErrInvalidDateFilter
		}
		f.To = &to
	}
	return f, nil
}

// DayFilter selects a single day.
func DayFilter(day time.Time) Filter {
	start := utils.BeginningOfDay(day)
	return Filter{From: &start, To: &start}
}

type ReportService struct {
	db *gorm.DB
}

func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{db: db}
}

// List returns the matching transactions with their stylist, newest first.
// Entries of the same day come in the order they were recorded.
func (s *ReportService) List(ctx context.Context, f Filter) ([]models.Transaction, error) {
	query := s.db.WithContext(ctx).
		Joins("Employee").
		Order("transactions.created_at DESC").
		Order("transactions.recorded_at DESC").
		Order("transactions.id DESC")

	if f.EmployeeID != nil {
		query = query.Where("transactions.employee_id = ?", *f.EmployeeID)
	}
	if f.From != nil {
		query = query.Where("transactions.created_at >= ?", f.From.UTC())
	}
	if f.To != nil {
		query = query.Where("transactions.created_at <= ?", utils.EndOfDay(*f.To).UTC())
	}

	var txs []models.Transaction
	if err := query.Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}

// Totals aggregates a loaded list.
func Totals(txs []models.Transaction) commission.Totals {
	var t commission.Totals
	for _, tx := range txs {
		t.Add(tx.TotalAmount, tx.EmployeeAmount, tx.CompanyAmount)
	}
	return t
}

func (s *ReportService) Delete(ctx context.Context, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Delete(&models.Transaction{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
