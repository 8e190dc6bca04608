package controllers

import (
	"log"
	"net/http"

	"stylemanager-backend/gate"
	"stylemanager-backend/utils"

	"github.com/gin-gonic/gin"
)

// GetViews lists the views the caller's role may open.
func GetViews(c *gin.Context) {
	s := utils.CurrentSession(c)
	if s == nil {
		c.JSON(http.StatusOK, gin.H{"views": []gate.View{gate.ViewSignIn}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"role": s.Role, "views": gate.AllowedViews(s.Role)})
}

// NavigateView answers which view a navigation request lands on.
func NavigateView(c *gin.Context) {
	s := utils.CurrentSession(c)
	d := gate.Navigate(s, gate.View(c.Param("view")))
	if d.FellBack {
		log.Printf("Navigation to %q not allowed for %s (%s), showing %s", d.Requested, s.Email, s.Role, d.View)
	}
	c.JSON(http.StatusOK, d)
}

// SetupRequired answers every request while no database is configured.
func SetupRequired(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
		"error":   "Configuração Ausente",
		"message": "Defina DB_URL (e DB_DRIVER) no ambiente ou no arquivo .env e reinicie o servidor.",
	})
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
