package controllers

import (
	"errors"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"stylemanager-backend/config"
	"stylemanager-backend/gate"
	"stylemanager-backend/models"
	"stylemanager-backend/session"
	"stylemanager-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type RegisterInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func userResponse(user models.User) gin.H {
	role := gate.ResolveRole(user.Role)
	return gin.H{
		"id":            user.ID,
		"email":         user.Email,
		"role":          role,
		"allowed_views": gate.AllowedViews(role),
	}
}

// issueSession signs a token for user and sets it as the session cookie.
func issueSession(c *gin.Context, user models.User) (string, bool) {
	token, _, err := utils.GenerateToken(user.ID.String(), user.Email, user.Role)
	if err != nil {
		log.Printf("Error generating token for %s: %v", user.Email, err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Erro ao iniciar sessão")
		return "", false
	}

	maxAge := config.App.Auth.ExpiryHours * 3600
	c.SetCookie(utils.TokenCookie, token, maxAge, "/", "", true, true)

	session.Default.Publish(session.Event{
		Type:   session.SignedIn,
		UserID: user.ID.String(),
		Role:   gate.ResolveRole(user.Role),
	})
	return token, true
}

func Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Informe um e-mail válido e uma senha")
		return
	}
	if err := utils.ValidatePassword(input.Password); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	email := normalizeEmail(input.Email)

	var existingUser models.User
	result := config.DB.Where("email = ?", email).First(&existingUser)
	if result.Error == nil {
		utils.RespondWithError(c, http.StatusConflict, "Este e-mail já está cadastrado")
		return
	} else if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		log.Printf("Error checking user %s: %v", email, result.Error)
		utils.RespondWithError(c, http.StatusInternalServerError, "Erro ao criar conta")
		return
	}

	newUser := models.User{
		Email:    email,
		Password: input.Password, // hashed in BeforeCreate
		Role:     string(gate.RoleUser),
		IsActive: true,
	}
	if bootstrap := config.App.Auth.BootstrapAdminEmail; bootstrap != "" && bootstrap == email {
		newUser.Role = string(gate.RoleAdmin)
	}

	if err := config.DB.Create(&newUser).Error; err != nil {
		log.Printf("Error creating user %s: %v", email, err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Erro ao criar conta")
		return
	}

	token, ok := issueSession(c, newUser)
	if !ok {
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Conta criada com sucesso",
		"token":   token,
		"user":    userResponse(newUser),
	})
}

func Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Informe e-mail e senha")
		return
	}

	var user models.User
	result := config.DB.Where("email = ?", normalizeEmail(input.Email)).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusUnauthorized, "Credenciais inválidas")
		} else {
			log.Printf("Error loading user for login: %v", result.Error)
			utils.RespondWithError(c, http.StatusInternalServerError, "Erro ao entrar")
		}
		return
	}

	if !utils.CheckPasswordHash(input.Password, user.Password) {
		utils.RespondWithError(c, http.StatusUnauthorized, "Credenciais inválidas")
		return
	}
	if !user.IsActive {
		utils.RespondWithError(c, http.StatusForbidden, "Conta desativada")
		return
	}

	now := time.Now().UTC()
	if err := config.DB.Model(&user).Update("last_login", &now).Error; err != nil {
		log.Printf("Error updating last login for %s: %v", user.Email, err)
	}

	token, ok := issueSession(c, user)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  userResponse(user),
	})
}

// Me returns the current session with the role in effect for it.
func Me(c *gin.Context) {
	s := utils.CurrentSession(c)
	if s == nil {
		utils.RespondWithError(c, http.StatusUnauthorized, "Autenticação necessária")
		return
	}

	var user models.User
	if err := config.DB.First(&user, "id = ?", s.UserID).Error; err != nil {
		utils.RespondWithError(c, http.StatusUnauthorized, "Usuário não encontrado")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":         user.ID,
			"email":      user.Email,
			"last_login": user.LastLogin,
		},
		"role":          s.Role,
		"allowed_views": gate.AllowedViews(s.Role),
	})
}

func Logout(c *gin.Context) {
	claims := utils.CurrentClaims(c)
	if claims != nil {
		utils.RevokeToken(c, claims)
		session.Default.Publish(session.Event{Type: session.SignedOut, UserID: claims.Subject})
	}
	c.SetCookie(utils.TokenCookie, "", -1, "/", "", true, true)
	c.JSON(http.StatusOK, gin.H{"message": "Sessão encerrada"})
}

const keepAliveInterval = 25 * time.Second

// SessionEvents streams the caller's session changes as server-sent events
// until the client goes away.
func SessionEvents(c *gin.Context) {
	s := utils.CurrentSession(c)
	if s == nil {
		utils.RespondWithError(c, http.StatusUnauthorized, "Autenticação necessária")
		return
	}

	events, unsubscribe := session.Default.Subscribe(s.UserID)
	defer unsubscribe()

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.SSEvent("session", s)
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case e, ok := <-events:
			if !ok {
				return false
			}
			c.SSEvent(string(e.Type), e)
			return true
		case <-ticker.C:
			c.SSEvent("ping", time.Now().UTC())
			return true
		}
	})
}
