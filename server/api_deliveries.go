package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	deliveriesports "github.com/orderdesk/sales-admin-api/internal/domains/deliveries/ports"
	"github.com/orderdesk/sales-admin-api/internal/shared/pagination"
)

// DeliveryAPI wires HTTP transport with the delivery recorder service.
type DeliveryAPI struct {
	service deliveriesports.Service
}

func NewDeliveryAPI(service deliveriesports.Service) DeliveryAPI {
	return DeliveryAPI{service: service}
}

type createDeliveryRequest struct {
	ProductID int64  `json:"productId"`
	Quantity  int    `json:"quantity"`
	Note      string `json:"note"`
}

// Post /api/v1/deliveries
func (api *DeliveryAPI) Create(c *gin.Context) {
	var payload createDeliveryRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	delivery, err := api.service.Create(c.Request.Context(), deliveriesports.CreateInput{
		ProductID: payload.ProductID,
		Quantity:  payload.Quantity,
		Note:      payload.Note,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toDeliveryResponse(delivery))
}

// Get /api/v1/deliveries/:id
func (api *DeliveryAPI) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	delivery, err := api.service.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toDeliveryResponse(delivery))
}

type updateDeliveryRequest struct {
	ProductID *int64  `json:"productId"`
	Quantity  *int    `json:"quantity"`
	Note      *string `json:"note"`
}

// Patch /api/v1/deliveries/:id
func (api *DeliveryAPI) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var payload updateDeliveryRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	delivery, err := api.service.Update(c.Request.Context(), id, deliveriesports.UpdateInput{
		ProductID: payload.ProductID,
		Quantity:  payload.Quantity,
		Note:      payload.Note,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toDeliveryResponse(delivery))
}

// Delete /api/v1/deliveries/:id
// Takes the delivered quantity back out of stock.
func (api *DeliveryAPI) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	delivery, err := api.service.Delete(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toDeliveryResponse(delivery))
}

// Get /api/v1/deliveries
func (api *DeliveryAPI) List(c *gin.Context) {
	filter := deliveriesports.Filter{
		ProductID: queryInt64(c, "productId"),
		Page:      parsePage(c),
	}
	deliveries, total, err := api.service.List(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	data := make([]deliveryResponse, 0, len(deliveries))
	for _, delivery := range deliveries {
		data = append(data, toDeliveryResponse(delivery))
	}
	c.JSON(http.StatusOK, pagination.NewEnvelope(data, filter.Page, total))
}
