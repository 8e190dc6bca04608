package controllers

import (
	"errors"
	"log"
	"net/http"

	"stylemanager-backend/config"
	"stylemanager-backend/gate"
	"stylemanager-backend/models"
	"stylemanager-backend/session"
	"stylemanager-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UpdateRoleInput struct {
	Role string `json:"role" binding:"required,oneof=admin user"`
}

func GetUsers(c *gin.Context) {
	var users []models.User
	if err := config.DB.Order("email ASC").Find(&users).Error; err != nil {
		log.Printf("Error loading users: %v", err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Erro ao carregar usuários")
		return
	}
	c.JSON(http.StatusOK, users)
}

// UpdateUserRole changes a user's role. Sessions already open pick up the new
// role on their next request.
func UpdateUserRole(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "ID de usuário inválido")
		return
	}

	var input UpdateRoleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Papel inválido, use admin ou user")
		return
	}

	var user models.User
	if err := config.DB.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Usuário não encontrado")
		} else {
			log.Printf("Error loading user %s: %v", userID, err)
			utils.RespondWithError(c, http.StatusInternalServerError, "Erro ao atualizar usuário")
		}
		return
	}

	role := gate.Role(input.Role)
	if user.Role == string(gate.RoleAdmin) && role != gate.RoleAdmin {
		var admins int64
		if err := config.DB.Model(&models.User{}).Where("role = ?", string(gate.RoleAdmin)).Count(&admins).Error; err != nil {
			log.Printf("Error counting admins: %v", err)
			utils.RespondWithError(c, http.StatusInternalServerError, "Erro ao atualizar usuário")
			return
		}
		if admins <= 1 {
			utils.RespondWithError(c, http.StatusConflict, "Não é possível remover o último administrador")
			return
		}
	}

	if err := config.DB.Model(&user).Update("role", string(role)).Error; err != nil {
		log.Printf("Error updating role of %s: %v", userID, err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Erro ao atualizar usuário")
		return
	}
	user.Role = string(role)
	session.Default.Publish(session.Event{Type: session.RoleChanged, UserID: user.ID.String(), Role: role})

	c.JSON(http.StatusOK, user)
}
