package controllers

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"stylemanager-backend/config"
	"stylemanager-backend/services"
	"stylemanager-backend/utils"

	"github.com/gin-gonic/gin"
)

type ClosingController struct {
	closings *services.ClosingService
}

func NewClosingController(closings *services.ClosingService) *ClosingController {
	return &ClosingController{closings: closings}
}

type RunClosingInput struct {
	Date string `json:"date"` // YYYY-MM-DD, today when empty
}

func (cc *ClosingController) GetClosings(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "30"))
	closings, err := cc.closings.List(c.Request.Context(), limit)
	if err != nil {
		log.Printf("Error loading closings: %v", err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Erro ao carregar fechamentos")
		return
	}
	c.JSON(http.StatusOK, closings)
}

// RunClosing closes a day on demand, replacing an earlier closing of it.
func (cc *ClosingController) RunClosing(c *gin.Context) {
	var input RunClosingInput
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&input); err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Dados inválidos")
			return
		}
	}

	loc := config.App.Location
	day := time.Now().In(loc)
	if input.Date != "" {
		parsed, err := utils.ParseDay(input.Date, loc)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Data inválida, use AAAA-MM-DD")
			return
		}
		day = parsed
	}

	closing, err := cc.closings.CloseDay(c.Request.Context(), day)
	if err != nil {
		log.Printf("Error closing %s: %v", utils.DayKey(day, loc), err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Erro ao fechar o dia")
		return
	}
	c.JSON(http.StatusOK, closing)
}
