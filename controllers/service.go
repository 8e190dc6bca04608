// controllers/service.go
package controllers

import (
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
)

// CreateServiceInput defines the expected JSON structure for creating a service
type CreateServiceInput struct {
	Name                 string           `json:"name" binding:"required"`
	CommissionPercentage *decimal.Decimal `json:"commission_percentage" binding:"required"`
}

// GetServices lists the catalog ordered by name
func GetServices(c *gin.Context) {
	var services []models.Service
	query := activeFilter(c, config.DB.Order("name ASC"))
	if err := query.Find(&services).Error; err != nil {
		log.Printf("Error loading services: %v", err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Erro ao carregar serviços")
		return
	}
	c.JSON(http.StatusOK, services)
}

// CreateService adds a service to the catalog
func CreateService(c *gin.Context) {
	var input CreateServiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Informe nome e comissão")
		return
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		utils.RespondWithError(c, http.StatusBadRequest, "Informe o nome do serviço")
		return
	}
	if !commission.ValidRate(*input.CommissionPercentage) {
		utils.RespondWithError(c, http.StatusBadRequest, errInvalidPercentage)
		return
	}

	service := models.Service{
		Name:                 name,
		CommissionPercentage: input.CommissionPercentage.Round(2),
		Active:               true,
	}
	if err := config.DB.Create(&service).Error; err != nil {
		log.Printf("Error adding service: %v", err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Erro ao adicionar serviço")
		return
	}
	invalidateDailyLogOptions(c)

	c.JSON(http.StatusCreated, service)
}

// DeleteService removes a service. Recorded transactions keep their copy of
// the name.
func DeleteService(c *gin.Context) {
	serviceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "ID de serviço inválido")
		return
	}
	if !utils.RequireConfirmation(c, "Tem certeza que deseja excluir este serviço?") {
		return
	}

	result := config.DB.Delete(&models.Service{}, "id = ?", serviceID)
	if result.Error != nil {
		log.Printf("Error deleting service %s: %v", serviceID, result.Error)
		utils.RespondWithError(c, http.StatusInternalServerError, "Erro ao excluir serviço")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Serviço não encontrado")
		return
	}
	invalidateDailyLogOptions(c)

	c.JSON(http.StatusOK, gin.H{"message": "Serviço excluído com sucesso"})
}
