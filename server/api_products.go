package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	catalogports "github.com/orderdesk/sales-admin-api/internal/domains/catalog/ports"
	"github.com/orderdesk/sales-admin-api/internal/shared/pagination"
)

// ProductAPI wires HTTP transport with the catalog service's product side.
type ProductAPI struct {
	service catalogports.Service
}

func NewProductAPI(service catalogports.Service) ProductAPI {
	return ProductAPI{service: service}
}

type productRequest struct {
	Title         string  `json:"title"`
	SKU           string  `json:"sku"`
	Description   string  `json:"description"`
	StockQuantity int     `json:"stockQuantity"`
	Price         string  `json:"price"`
	CategoryIDs   []int64 `json:"categoryIds"`
}

func (r productRequest) toInput() catalogports.ProductInput {
	return catalogports.ProductInput{
		Title:         r.Title,
		SKU:           r.SKU,
		Description:   r.Description,
		StockQuantity: r.StockQuantity,
		Price:         r.Price,
		CategoryIDs:   r.CategoryIDs,
	}
}

// Post /api/v1/products
func (api *ProductAPI) Create(c *gin.Context) {
	var payload productRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	product, err := api.service.CreateProduct(c.Request.Context(), payload.toInput())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toProductResponse(product))
}

// Get /api/v1/products/:id
func (api *ProductAPI) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	product, err := api.service.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponse(product))
}

// Put /api/v1/products/:id
func (api *ProductAPI) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var payload productRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	product, err := api.service.UpdateProduct(c.Request.Context(), id, payload.toInput())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponse(product))
}

// Delete /api/v1/products/:id
// Removes the product, its order items, and any order left empty.
func (api *ProductAPI) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	product, err := api.service.DeleteProduct(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponse(product))
}

// Get /api/v1/products
func (api *ProductAPI) List(c *gin.Context) {
	filter := catalogports.ProductFilter{
		Query:      c.Query("q"),
		CategoryID: queryInt64(c, "categoryId"),
		Page:       parsePage(c),
	}
	products, total, err := api.service.ListProducts(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	data := make([]productResponse, 0, len(products))
	for _, product := range products {
		data = append(data, toProductResponse(product))
	}
	c.JSON(http.StatusOK, pagination.NewEnvelope(data, filter.Page, total))
}
