package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	ordersdomain "github.com/orderdesk/sales-admin-api/internal/domains/orders/domain"
	ordersports "github.com/orderdesk/sales-admin-api/internal/domains/orders/ports"
	"github.com/orderdesk/sales-admin-api/internal/shared/pagination"
)

// OrderAPI wires HTTP transport with the order workflow service.
type OrderAPI struct {
	service ordersports.Service
}

func NewOrderAPI(service ordersports.Service) OrderAPI {
	return OrderAPI{service: service}
}

type orderItemRequest struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

type createOrderRequest struct {
	BuyerID         int64              `json:"buyerId"`
	ShippingAddress string             `json:"shippingAddress"`
	BillingAddress  string             `json:"billingAddress"`
	Items           []orderItemRequest `json:"items"`
}

// Post /api/v1/orders
func (api *OrderAPI) Create(c *gin.Context) {
	var payload createOrderRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	items := make([]ordersports.CreateOrderItemInput, 0, len(payload.Items))
	for _, item := range payload.Items {
		items = append(items, ordersports.CreateOrderItemInput{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	order, err := api.service.CreateOrder(c.Request.Context(), ordersports.CreateOrderInput{
		BuyerID:         payload.BuyerID,
		ShippingAddress: payload.ShippingAddress,
		BillingAddress:  payload.BillingAddress,
		Items:           items,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toOrderResponse(order))
}

// Get /api/v1/orders/:id
func (api *OrderAPI) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	order, err := api.service.GetOrder(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(order))
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// Patch /api/v1/orders/:id/status
func (api *OrderAPI) UpdateStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var payload updateStatusRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	order, err := api.service.UpdateOrderStatus(c.Request.Context(), id, payload.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(order))
}

// Delete /api/v1/orders/:id
func (api *OrderAPI) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	order, err := api.service.DeleteOrder(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(order))
}

func orderListFilter(c *gin.Context) ordersports.ListFilter {
	return ordersports.ListFilter{
		Query:   c.Query("q"),
		Status:  ordersdomain.Status(c.Query("status")),
		BuyerID: queryInt64(c, "buyerId"),
		Page:    parsePage(c),
	}
}

// Get /api/v1/orders
func (api *OrderAPI) List(c *gin.Context) {
	filter := orderListFilter(c)
	summaries, total, err := api.service.ListOrders(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	data := make([]orderSummaryResponse, 0, len(summaries))
	for _, summary := range summaries {
		data = append(data, toOrderSummaryResponse(summary))
	}
	c.JSON(http.StatusOK, pagination.NewEnvelope(data, filter.Page, total))
}

// Get /api/v1/orders/export
// Streams the filtered order list as CSV.
func (api *OrderAPI) Export(c *gin.Context) {
	filter := orderListFilter(c)
	filter.Page = pagination.Request{}

	filename := "orders-" + time.Now().Format("2006-01-02") + ".csv"
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Status(http.StatusOK)

	if err := api.service.ExportCSV(c.Request.Context(), filter, c.Writer); err != nil {
		_ = c.Error(err)
		c.Abort()
	}
}

// Post /api/v1/orders/:id/items
func (api *OrderAPI) AddItem(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var payload orderItemRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	item, err := api.service.AddItem(c.Request.Context(), orderID, payload.ProductID, payload.Quantity)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toOrderItemResponse(item))
}

type updateItemRequest struct {
	ProductID *int64 `json:"productId"`
	Quantity  *int   `json:"quantity"`
}

// Patch /api/v1/order-items/:id
func (api *OrderAPI) UpdateItem(c *gin.Context) {
	itemID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var payload updateItemRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	item, err := api.service.UpdateItem(c.Request.Context(), itemID, ordersports.UpdateItemInput{
		ProductID: payload.ProductID,
		Quantity:  payload.Quantity,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderItemResponse(item))
}

// Delete /api/v1/order-items/:id
func (api *OrderAPI) RemoveItem(c *gin.Context) {
	itemID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	item, err := api.service.RemoveItem(c.Request.Context(), itemID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderItemResponse(item))
}
