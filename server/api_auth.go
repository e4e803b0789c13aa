package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	usersports "github.com/orderdesk/sales-admin-api/internal/domains/users/ports"
)

// AuthAPI wires HTTP transport with the authentication side of the users
// service.
type AuthAPI struct {
	service usersports.Service
}

func NewAuthAPI(service usersports.Service) AuthAPI {
	return AuthAPI{service: service}
}

type registerRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// Post /api/v1/auth/register
//
// Self-registration always yields the USER role; roles are assigned only
// through the admin-gated user administration routes.
func (api *AuthAPI) Register(c *gin.Context) {
	var payload registerRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	user, err := api.service.Register(c.Request.Context(), usersports.RegisterInput{
		Email:    payload.Email,
		Name:     payload.Name,
		Password: payload.Password,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toUserResponse(user))
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	User   userResponse         `json:"user"`
	Tokens usersports.TokenPair `json:"tokens"`
}

// Post /api/v1/auth/login
func (api *AuthAPI) Login(c *gin.Context) {
	var payload loginRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	user, tokens, err := api.service.Login(c.Request.Context(), payload.Email, payload.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, loginResponse{User: toUserResponse(user), Tokens: *tokens})
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Post /api/v1/auth/refresh
func (api *AuthAPI) Refresh(c *gin.Context) {
	var payload refreshRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	tokens, err := api.service.Refresh(c.Request.Context(), payload.RefreshToken)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, tokens)
}

// Post /api/v1/auth/logout
func (api *AuthAPI) Logout(c *gin.Context) {
	var payload refreshRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	if err := api.service.Logout(c.Request.Context(), payload.RefreshToken); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// Get /api/v1/auth/me
func (api *AuthAPI) Me(c *gin.Context) {
	claims := CurrentClaims(c)
	if claims == nil {
		respondServiceError(c, usersports.ErrNotFound)
		return
	}
	user, err := api.service.Get(c.Request.Context(), claims.UserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}
