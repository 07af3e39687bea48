// Package http exposes registration and login over gin, plus the auth
// middleware the rest of the API mounts.
package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/envioslab/shipment-api/internal/domains/users/application"
	apierrors "github.com/envioslab/shipment-api/internal/shared/errors"
)

// AuthAPI wires HTTP transport with the users service.
type AuthAPI struct {
	service *application.Service
	respond *apierrors.ChainedResponder
}

// NewAuthAPI creates an AuthAPI backed by the provided service.
func NewAuthAPI(service *application.Service) *AuthAPI {
	return &AuthAPI{
		service: service,
		respond: apierrors.NewChainedResponder("", authErrorMapper),
	}
}

// Register mounts the auth routes.
func (api *AuthAPI) Register(r gin.IRouter) {
	auth := r.Group("/auth")
	auth.POST("/register", api.RegisterUser)
	auth.POST("/login", api.Login)
}

type registerRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
	Address   string `json:"address"`
}

type userResponse struct {
	ID        int64     `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	RoleID    int64     `json:"role_id"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Post /auth/register
// Create an account with the customer role
func (api *AuthAPI) RegisterUser(c *gin.Context) {
	var payload registerRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		api.respond.BadRequest(c, err.Error())
		return
	}
	user, err := api.service.Register(c.Request.Context(), application.RegisterInput{
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		Email:     payload.Email,
		Password:  payload.Password,
		Address:   payload.Address,
	})
	if err != nil {
		api.respond.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, userResponse{
		ID:        user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		RoleID:    user.RoleID,
		Address:   user.Address,
		CreatedAt: user.CreatedAt,
	})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Post /auth/login
// Exchange credentials for a session token
func (api *AuthAPI) Login(c *gin.Context) {
	var payload loginRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		api.respond.BadRequest(c, err.Error())
		return
	}
	token, err := api.service.Login(c.Request.Context(), payload.Email, payload.Password)
	if err != nil {
		api.respond.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

func authErrorMapper(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, application.ErrInvalidInput):
		return apierrors.ErrBadRequest.WithDetail(err.Error()), true
	case errors.Is(err, application.ErrEmailTaken):
		return apierrors.ErrConflict.WithDetail(err.Error()), true
	case errors.Is(err, application.ErrInvalidCredentials):
		return apierrors.ErrUnauthorized.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}
