package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	usersports "github.com/orderdesk/sales-admin-api/internal/domains/users/ports"
	"github.com/orderdesk/sales-admin-api/internal/shared/pagination"
)

// UserAPI wires HTTP transport with the account management side of the
// users service. All routes are admin-only.
type UserAPI struct {
	service usersports.Service
}

func NewUserAPI(service usersports.Service) UserAPI {
	return UserAPI{service: service}
}

type createUserRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Post /api/v1/users
//
// Unlike self-registration, the admin route may assign any role.
func (api *UserAPI) Create(c *gin.Context) {
	var payload createUserRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	user, err := api.service.Register(c.Request.Context(), usersports.RegisterInput{
		Email:    payload.Email,
		Name:     payload.Name,
		Password: payload.Password,
		Role:     payload.Role,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toUserResponse(user))
}

// Get /api/v1/users
func (api *UserAPI) List(c *gin.Context) {
	filter := usersports.Filter{
		Query: c.Query("q"),
		Page:  parsePage(c),
	}
	users, total, err := api.service.List(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	data := make([]userResponse, 0, len(users))
	for _, user := range users {
		data = append(data, toUserResponse(user))
	}
	c.JSON(http.StatusOK, pagination.NewEnvelope(data, filter.Page, total))
}

// Get /api/v1/users/:id
func (api *UserAPI) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	user, err := api.service.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}

// Delete /api/v1/users/:id
func (api *UserAPI) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	user, err := api.service.Delete(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}
