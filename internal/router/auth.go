package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/craftloom/storefront/pkg/global"
	"github.com/craftloom/storefront/pkg/models"
	"github.com/craftloom/storefront/pkg/store"
)

func (r *Router) HealthCheck(c *gin.Context) {
	health := store.CheckHealth(c.Request.Context(), r.backend, r.repo)
	if !health.Connected {
		c.JSON(http.StatusServiceUnavailable, global.ErrorResponse("Storage backend unavailable", nil))
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(health))
}

func (r *Router) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		r.writeError(c, err, "Failed to register user")
		return
	}

	user := models.NewUser(req.Username, req.Email, string(hash))
	if err := r.repo.CreateUser(c.Request.Context(), user); err != nil {
		r.writeError(c, err, "Failed to register user")
		return
	}
	c.JSON(http.StatusCreated, global.SuccessResponse(user.Profile()))
}

func (r *Router) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	user, err := r.repo.GetUserByEmail(c.Request.Context(), req.Email)
	if err != nil {
		c.JSON(http.StatusUnauthorized, global.ErrorResponse("Invalid email or password", nil))
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, global.ErrorResponse("Invalid email or password", nil))
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(user.Profile()))
}

// AdminLogin verifies back-office credentials and hands the admin key
// back so the dashboard can attach it to subsequent requests.
func (r *Router) AdminLogin(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	admin, err := r.repo.GetAdminByEmail(c.Request.Context(), req.Email)
	if err != nil {
		c.JSON(http.StatusUnauthorized, global.ErrorResponse("Invalid email or password", nil))
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, global.ErrorResponse("Invalid email or password", nil))
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(gin.H{
		"admin":    admin.Profile(),
		"adminKey": r.adminKey,
	}))
}

func (r *Router) GetAllUsers(c *gin.Context) {
	users, err := r.repo.ListUsers(c.Request.Context())
	if err != nil {
		r.writeError(c, err, "Failed to list users")
		return
	}
	profiles := make([]models.Profile, 0, len(users))
	for i := range users {
		profiles = append(profiles, users[i].Profile())
	}
	c.JSON(http.StatusOK, global.SuccessResponse(profiles))
}

func (r *Router) GetAllAdmins(c *gin.Context) {
	admins, err := r.repo.ListAdmins(c.Request.Context())
	if err != nil {
		r.writeError(c, err, "Failed to list admins")
		return
	}
	profiles := make([]models.Profile, 0, len(admins))
	for i := range admins {
		profiles = append(profiles, admins[i].Profile())
	}
	c.JSON(http.StatusOK, global.SuccessResponse(profiles))
}

func (r *Router) DeleteUser(c *gin.Context) {
	email := c.Param("email")
	if err := r.repo.DeleteUser(c.Request.Context(), email); err != nil {
		r.writeError(c, err, "Failed to delete user")
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(gin.H{"deleted": email}))
}
