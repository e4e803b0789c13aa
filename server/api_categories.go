package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	catalogports "github.com/orderdesk/sales-admin-api/internal/domains/catalog/ports"
	"github.com/orderdesk/sales-admin-api/internal/shared/pagination"
)

// CategoryAPI wires HTTP transport with the catalog service's category side.
type CategoryAPI struct {
	service catalogports.Service
}

func NewCategoryAPI(service catalogports.Service) CategoryAPI {
	return CategoryAPI{service: service}
}

type categoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Post /api/v1/categories
func (api *CategoryAPI) Create(c *gin.Context) {
	var payload categoryRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	category, err := api.service.CreateCategory(c.Request.Context(), payload.Name, payload.Description)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toCategoryResponse(category))
}

// Get /api/v1/categories/:id
func (api *CategoryAPI) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	category, err := api.service.GetCategory(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCategoryResponse(category))
}

// Put /api/v1/categories/:id
func (api *CategoryAPI) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var payload categoryRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	category, err := api.service.UpdateCategory(c.Request.Context(), id, payload.Name, payload.Description)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCategoryResponse(category))
}

// Delete /api/v1/categories/:id
func (api *CategoryAPI) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	category, err := api.service.DeleteCategory(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCategoryResponse(category))
}

// Get /api/v1/categories
func (api *CategoryAPI) List(c *gin.Context) {
	filter := catalogports.CategoryFilter{
		Query: c.Query("q"),
		Page:  parsePage(c),
	}
	categories, total, err := api.service.ListCategories(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	data := make([]categoryResponse, 0, len(categories))
	for _, category := range categories {
		data = append(data, toCategoryResponse(category))
	}
	c.JSON(http.StatusOK, pagination.NewEnvelope(data, filter.Page, total))
}
