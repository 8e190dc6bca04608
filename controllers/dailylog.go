package controllers

import (
	"bytes"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"stylemanager-backend/config"
	"stylemanager-backend/dailylog"
	"stylemanager-backend/models"
	"stylemanager-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	dailyLogOptionsKey = "dailylog:options"
	dailyLogOptionsTTL = 10 * time.Minute
)

type DailyLogOptions struct {
	Employees []models.Employee `json:"employees"`
	Services  []models.Service  `json:"services"`
}

func invalidateDailyLogOptions(c *gin.Context) {
	config.AppCache.Del(c.Request.Context(), dailyLogOptionsKey)
}

// GetDailyLogOptions returns the active stylists and services for the entry
// form.
func GetDailyLogOptions(c *gin.Context) {
	ctx := c.Request.Context()

	var options DailyLogOptions
	if config.AppCache.GetJSON(ctx, dailyLogOptionsKey, &options) {
		c.JSON(http.StatusOK, options)
		return
	}

	if err := config.DB.Where("active = ?", true).Order("name ASC").Find(&options.Employees).Error; err != nil {
		log.Printf("Error loading active employees: %v", err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Erro ao carregar funcionários")
		return
	}
	if err := config.DB.Where("active = ?", true).Order("name ASC").Find(&options.Services).Error; err != nil {
		log.Printf("Error loading active services: %v", err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Erro ao carregar serviços")
		return
	}

	config.AppCache.SetJSON(ctx, dailyLogOptionsKey, options, dailyLogOptionsTTL)
	c.JSON(http.StatusOK, options)
}

// FormValue accepts both a JSON string and a JSON number, as typed fields
// arrive either way.
type FormValue string

func (v *FormValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*v = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = FormValue(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*v = FormValue(n.String())
	return nil
}

// DailyLogInput is the form as the client holds it. It is replayed in entry
// order: stylist, service, manual rate, amount.
type DailyLogInput struct {
	Date                 string     `json:"date"`
	EmployeeID           *uuid.UUID `json:"employee_id"`
	ServiceID            *uuid.UUID `json:"service_id"`
	ServiceName          string     `json:"service_name"`
	CommissionPercentage *FormValue `json:"commission_percentage"`
	TotalAmount          FormValue  `json:"total_amount"`
}

func replayForm(c *gin.Context, input DailyLogInput) (*dailylog.Form, bool) {
	loc := config.App.Location
	form := dailylog.NewForm(time.Now().In(loc))
	if input.Date != "" {
		form.SetDate(input.Date)
	}

	if input.EmployeeID != nil {
		var employee models.Employee
		if err := config.DB.First(&employee, "id = ?", *input.EmployeeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.RespondWithError(c, http.StatusBadRequest, "Estilista não encontrado")
			} else {
				log.Printf("Error loading employee %s: %v", *input.EmployeeID, err)
				utils.RespondWithError(c, http.StatusInternalServerError, "Erro ao carregar estilista")
			}
			return nil, false
		}
		if !employee.Active {
			utils.RespondWithError(c, http.StatusBadRequest, "Estilista inativo")
			return nil, false
		}
		form.SelectEmployee(&employee)
	}

	if input.ServiceID != nil {
		var service models.Service
		if err := config.DB.First(&service, "id = ?", *input.ServiceID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.RespondWithError(c, http.StatusBadRequest, "Serviço não encontrado")
			} else {
				log.Printf("Error loading service %s: %v", *input.ServiceID, err)
				utils.RespondWithError(c, http.StatusInternalServerError, "Erro ao carregar serviço")
			}
			return nil, false
		}
		if !service.Active {
			utils.RespondWithError(c, http.StatusBadRequest, "Serviço inativo")
			return nil, false
		}
		form.SelectService(&service)
	}

	form.SetServiceName(input.ServiceName)
	if input.CommissionPercentage != nil {
		form.SetRate(string(*input.CommissionPercentage))
	}
	form.SetTotal(string(input.TotalAmount))
	return form, true
}

// PreviewDailyLog returns the form state with the split it would record.
func PreviewDailyLog(c *gin.Context) {
	var input DailyLogInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Dados inválidos")
		return
	}
	form, ok := replayForm(c, input)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, form.State())
}

// CreateDailyLog records a service and returns the form ready for the next
// entry.
func CreateDailyLog(c *gin.Context) {
	var input DailyLogInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Dados inválidos")
		return
	}
	form, ok := replayForm(c, input)
	if !ok {
		return
	}

	tx, err := form.Transaction(config.App.Location)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{
			"error": err.Error(),
			"form":  form.State(),
		})
		return
	}
	if userID, err := utils.CurrentUserID(c); err == nil {
		tx.CreatedByUserID = &userID
	}

	if err := config.DB.Create(&tx).Error; err != nil {
		log.Printf("Error recording service: %v", err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Erro ao registrar serviço")
		return
	}
	tx.Employee = *form.Employee
	form.ResetAfterSubmit()

	c.JSON(http.StatusCreated, gin.H{
		"message":     "Serviço registrado com sucesso",
		"transaction": tx,
		"form":        form.State(),
	})
}
