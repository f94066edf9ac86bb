package handlers

import (
	"errors"
	"net/http"

	"restaurant/logger"
	"restaurant/middleware"
	"restaurant/repository"
	"restaurant/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const invalidCredentials = "Invalid email or password"

// dummyHash keeps the login timing the same for unknown emails.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("restaurant-dummy-password"), bcrypt.DefaultCost)

type registerRequest struct {
	Name     string `json:"name" form:"name" binding:"required,min=2,max=50"`
	Email    string `json:"email" form:"email" binding:"required,email"`
	Phone    string `json:"phone" form:"phone" binding:"required,phone"`
	Password string `json:"password" form:"password" binding:"required,min=6,max=72"`
}

type loginRequest struct {
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required"`
}

// startSession signs the user in on a fresh session id and carries the
// cart over.
func startSession(c *gin.Context, manager *session.Manager, id session.Identity) {
	if _, err := manager.Login(c, middleware.CurrentSession(c), id); err != nil {
		failure(c, err, "Failed to sign in")
		return
	}
	c.Redirect(http.StatusSeeOther, "/profile")
}

func RegisterPageHandler(c *gin.Context) {
	if _, ok := middleware.CurrentIdentity(c); ok {
		c.Redirect(http.StatusFound, "/profile")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"fields": []string{"name", "email", "phone", "password"},
	})
}

func RegisterHandler(c *gin.Context, store *repository.Store, manager *session.Manager) {
	var req registerRequest
	if err := c.ShouldBind(&req); err != nil {
		validationFailed(c, err)
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		failure(c, err, "Registration failed")
		return
	}

	user, err := store.CreateUser(c.Request.Context(), repository.NewUser{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: string(hashedPassword),
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			invalidField(c, "email", "A user with this email already exists")
			return
		}
		failure(c, err, "Registration failed")
		return
	}

	logger.FromGin(c).Info("user registered", zap.Uint("user_id", user.ID))
	startSession(c, manager, session.Identity{
		UserID:  user.ID,
		Name:    user.Name,
		Email:   user.Email,
		IsAdmin: user.IsAdmin,
	})
}

func LoginPageHandler(c *gin.Context) {
	if _, ok := middleware.CurrentIdentity(c); ok {
		c.Redirect(http.StatusFound, "/profile")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"fields": []string{"email", "password"},
	})
}

func LoginHandler(c *gin.Context, store *repository.Store, manager *session.Manager) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		validationFailed(c, err)
		return
	}

	user, err := store.GetUserByEmail(c.Request.Context(), req.Email)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		failure(c, err, "Sign in failed")
		return
	}

	hash := dummyHash
	if err == nil {
		hash = []byte(user.Password)
	}
	if bcrypt.CompareHashAndPassword(hash, []byte(req.Password)) != nil || err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": invalidCredentials,
		})
		return
	}

	startSession(c, manager, session.Identity{
		UserID:  user.ID,
		Name:    user.Name,
		Email:   user.Email,
		IsAdmin: user.IsAdmin,
	})
}

func LogOutHandler(c *gin.Context, manager *session.Manager) {
	if err := manager.Destroy(c, middleware.CurrentSession(c)); err != nil {
		logger.FromGin(c).Warn("destroy session", zap.Error(err))
	}
	c.Redirect(http.StatusFound, "/")
}

// GetUserProfileHandler returns the account with its orders and bookings.
func GetUserProfileHandler(c *gin.Context, store *repository.Store, id session.Identity) {
	user, err := store.GetUserByID(c.Request.Context(), id.UserID)
	if err != nil {
		failure(c, err, "Failed to load the profile")
		return
	}
	orders, err := store.ListUserOrders(c.Request.Context(), id.UserID, 0)
	if err != nil {
		failure(c, err, "Failed to load the profile")
		return
	}
	bookings, err := store.ListUserBookings(c.Request.Context(), id.UserID)
	if err != nil {
		failure(c, err, "Failed to load the profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":     user,
		"orders":   orders,
		"bookings": bookings,
	})
}
