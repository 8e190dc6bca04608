package controllers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"stylemanager-backend/commission"
	"stylemanager-backend/config"
	"stylemanager-backend/models"
	"stylemanager-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CreateEmployeeInput struct {
	Name                 string           `json:"name" binding:"required"`
	CommissionPercentage *decimal.Decimal `json:"commission_percentage" binding:"required"`
}

type UpdateEmployeeInput struct {
	Name                 *string          `json:"name"`
	CommissionPercentage *decimal.Decimal `json:"commission_percentage"`
	Active               *bool            `json:"active"`
}

const errInvalidPercentage = "A comissão deve estar entre 0 e 100"

// activeFilter applies ?active=true|false; anything else lists everything.
func activeFilter(c *gin.Context, query *gorm.DB) *gorm.DB {
	switch c.Query("active") {
	case "true":
		return query.Where("active = ?", true)
	case "false":
		return query.Where("active = ?", false)
	}
	return query
}

func GetEmployees(c *gin.Context) {
	var employees []models.Employee
	query := activeFilter(c, config.DB.Order("name ASC"))
	if err := query.Find(&employees).Error; err != nil {
		log.Printf("Error loading employees: %v", err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Erro ao carregar funcionários")
		return
	}
	c.JSON(http.StatusOK, employees)
}

func CreateEmployee(c *gin.Context) {
	var input CreateEmployeeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Informe nome e comissão")
		return
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		utils.RespondWithError(c, http.StatusBadRequest, "Informe o nome do funcionário")
		return
	}
	if !commission.ValidRate(*input.CommissionPercentage) {
		utils.RespondWithError(c, http.StatusBadRequest, errInvalidPercentage)
		return
	}

	employee := models.Employee{
		Name:                 name,
		CommissionPercentage: input.CommissionPercentage.Round(2),
		Active:               true,
	}
	if err := config.DB.Create(&employee).Error; err != nil {
		log.Printf("Error adding employee: %v", err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Erro ao adicionar funcionário")
		return
	}
	invalidateDailyLogOptions(c)

	c.JSON(http.StatusCreated, employee)
}

func UpdateEmployee(c *gin.Context) {
	employeeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "ID de funcionário inválido")
		return
	}

	var input UpdateEmployeeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Dados inválidos")
		return
	}

	var employee models.Employee
	if err := config.DB.First(&employee, "id = ?", employeeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Funcionário não encontrado")
		} else {
			log.Printf("Error loading employee %s: %v", employeeID, err)
			utils.RespondWithError(c, http.StatusInternalServerError, "Erro ao atualizar funcionário")
		}
		return
	}

	updates := map[string]interface{}{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			utils.RespondWithError(c, http.StatusBadRequest, "Informe o nome do funcionário")
			return
		}
		updates["name"] = name
	}
	if input.CommissionPercentage != nil {
		if !commission.ValidRate(*input.CommissionPercentage) {
			utils.RespondWithError(c, http.StatusBadRequest, errInvalidPercentage)
			return
		}
		updates["commission_percentage"] = input.CommissionPercentage.Round(2)
	}
	if input.Active != nil {
		updates["active"] = *input.Active
	}

	if len(updates) > 0 {
		if err := config.DB.Model(&employee).Updates(updates).Error; err != nil {
			log.Printf("Error updating employee %s: %v", employeeID, err)
			utils.RespondWithError(c, http.StatusInternalServerError, "Erro ao atualizar funcionário")
			return
		}
		invalidateDailyLogOptions(c)
	}

	if err := config.DB.First(&employee, "id = ?", employeeID).Error; err != nil {
		log.Printf("Error reloading employee %s: %v", employeeID, err)
	}
	c.JSON(http.StatusOK, employee)
}

// DeleteEmployee removes a stylist who has no recorded services. Stylists
// with history must be deactivated instead.
func DeleteEmployee(c *gin.Context) {
	employeeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "ID de funcionário inválido")
		return
	}
	if !utils.RequireConfirmation(c, "Tem certeza que deseja excluir este funcionário?") {
		return
	}

	var used int64
	if err := config.DB.Model(&models.Transaction{}).Where("employee_id = ?", employeeID).Count(&used).Error; err != nil {
		log.Printf("Error checking transactions of employee %s: %v", employeeID, err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Erro ao excluir funcionário")
		return
	}
	if used > 0 {
		utils.RespondWithError(c, http.StatusConflict, "Funcionário possui serviços registrados. Desative-o em vez de excluir.")
		return
	}

	result := config.DB.Delete(&models.Employee{}, "id = ?", employeeID)
	if result.Error != nil {
		log.Printf("Error deleting employee %s: %v", employeeID, result.Error)
		utils.RespondWithError(c, http.StatusInternalServerError, "Erro ao excluir funcionário")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Funcionário não encontrado")
		return
	}
	invalidateDailyLogOptions(c)

	c.JSON(http.StatusOK, gin.H{"message": "Funcionário excluído com sucesso"})
}
