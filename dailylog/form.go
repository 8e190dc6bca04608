// Package dailylog holds the state of the daily service entry form.
//
// The form is replayed from each request: pick the stylist, optionally pick a
// catalog service, optionally type a rate, then the amount. The order matters
// because selections reset the rate the same way the entry screen does.
package dailylog

import (
	"errors"
	"strings"
	"time"

	"stylemanager-backend/commission"
	"stylemanager-backend/models"
	"stylemanager-backend/utils"

	"github.com/google/uuid"
)

var (
	ErrNoEmployee      = errors.New("Selecione um estilista")
	ErrNoSplit         = errors.New("Informe um valor total válido")
	ErrServiceRequired = errors.New("Informe o serviço realizado")
	ErrInvalidDate     = errors.New("Data inválida")
)

type Form struct {
	Date        string // YYYY-MM-DD
	Employee    *models.Employee
	Service     *models.Service
	ServiceName string // typed when no catalog service is picked
	Rate        string
	Total       string
}

// NewForm starts an empty form dated today.
func NewForm(today time.Time) *Form {
	return &Form{Date: today.Format(utils.DayLayout)}
}

// SelectEmployee picks the stylist. Without a catalog service the rate
// becomes the stylist's default.
func (f *Form) SelectEmployee(e *models.Employee) {
	f.Employee = e
	if e != nil && f.Service == nil {
		f.Rate = e.CommissionPercentage.String()
	}
}

// SelectService picks a catalog service and takes its rate. A nil service
// goes back to manual entry.
func (f *Form) SelectService(s *models.Service) {
	if s == nil {
		f.ClearService()
		return
	}
	f.Service = s
	f.Rate = s.CommissionPercentage.String()
}

// ClearService returns to manual entry and restores the stylist's default
// rate.
func (f *Form) ClearService() {
	f.Service = nil
	if f.Employee != nil {
		f.Rate = f.Employee.CommissionPercentage.String()
	}
}

func (f *Form) SetRate(rate string)        { f.Rate = rate }
func (f *Form) SetTotal(total string)      { f.Total = total }
func (f *Form) SetServiceName(name string) { f.ServiceName = name }
func (f *Form) SetDate(date string)        { f.Date = date }

// Preview is the split shown while the form is filled in.
type Preview struct {
	EmployeeName string `json:"employee_name"`
	ServiceName  string `json:"service_name"`
	commission.Split
}

func (f *Form) serviceName() string {
	if f.Service != nil {
		return f.Service.Name
	}
	return strings.TrimSpace(f.ServiceName)
}

// Preview computes the split from the current state. It reports false while
// no stylist is chosen or the amount is not a usable number.
func (f *Form) Preview() (Preview, bool) {
	if f.Employee == nil || strings.TrimSpace(f.Total) == "" {
		return Preview{}, false
	}
	split, ok := commission.Compute(f.Total, f.Rate)
	if !ok {
		return Preview{}, false
	}
	return Preview{
		EmployeeName: f.Employee.Name,
		ServiceName:  f.serviceName(),
		Split:        split,
	}, true
}

func (f *Form) CanSubmit() bool {
	_, ok := f.Preview()
	return ok && f.serviceName() != ""
}

// Transaction builds the record to persist. The timestamp is the start of the
// selected day in loc.
func (f *Form) Transaction(loc *time.Location) (models.Transaction, error) {
	if f.Employee == nil {
		return models.Transaction{}, ErrNoEmployee
	}
	p, ok := f.Preview()
	if !ok {
		return models.Transaction{}, ErrNoSplit
	}
	if p.ServiceName == "" {
		return models.Transaction{}, ErrServiceRequired
	}
	day, err := utils.ParseDay(f.Date, loc)
	if err != nil {
		return models.Transaction{}, ErrInvalidDate
	}

	return models.Transaction{
		EmployeeID:           f.Employee.ID,
		ServiceName:          p.ServiceName,
		TotalAmount:          p.Total,
		EmployeeAmount:       p.EmployeeAmount,
		CompanyAmount:        p.CompanyAmount,
		CommissionPercentage: p.Rate,
		CreatedAt:            day.UTC(),
	}, nil
}

// ResetAfterSubmit clears what changes between consecutive entries. The
// stylist and date stay. A manual rate stays too, but a rate taken from the
// catalog service goes back to the stylist's default with the service.
func (f *Form) ResetAfterSubmit() {
	if f.Service != nil {
		f.ClearService()
	}
	f.ServiceName = ""
	f.Total = ""
}

// State is the form as sent back to clients.
type State struct {
	Date                 string     `json:"date"`
	EmployeeID           *uuid.UUID `json:"employee_id"`
	ServiceID            *uuid.UUID `json:"service_id"`
	ServiceName          string     `json:"service_name"`
	CommissionPercentage string     `json:"commission_percentage"`
	TotalAmount          string     `json:"total_amount"`
	Preview              *Preview   `json:"preview"`
	CanSubmit            bool       `json:"can_submit"`
}

func (f *Form) State() State {
	st := State{
		Date:                 f.Date,
		ServiceName:          f.ServiceName,
		CommissionPercentage: f.Rate,
		TotalAmount:          f.Total,
		CanSubmit:            f.CanSubmit(),
	}
	if f.Employee != nil {
		id := f.Employee.ID
		st.EmployeeID = &id
	}
	if f.Service != nil {
		id := f.Service.ID
		st.ServiceID = &id
	}
	if p, ok := f.Preview(); ok {
		st.Preview = &p
	}
	return st
}
