package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	clientsports "github.com/orderdesk/sales-admin-api/internal/domains/clients/ports"
	"github.com/orderdesk/sales-admin-api/internal/shared/pagination"
)

// ClientAPI wires HTTP transport with the client directory service.
type ClientAPI struct {
	service clientsports.Service
}

func NewClientAPI(service clientsports.Service) ClientAPI {
	return ClientAPI{service: service}
}

type clientRequest struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Company string `json:"company"`
}

func (r clientRequest) toInput() clientsports.ClientInput {
	return clientsports.ClientInput{
		Email:   r.Email,
		Name:    r.Name,
		Phone:   r.Phone,
		Address: r.Address,
		Company: r.Company,
	}
}

// Post /api/v1/clients
func (api *ClientAPI) Create(c *gin.Context) {
	var payload clientRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	client, err := api.service.Create(c.Request.Context(), payload.toInput())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toClientResponse(client))
}

// Get /api/v1/clients/:id
func (api *ClientAPI) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	client, err := api.service.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toClientResponse(client))
}

// Put /api/v1/clients/:id
func (api *ClientAPI) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var payload clientRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	client, err := api.service.Update(c.Request.Context(), id, payload.toInput())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toClientResponse(client))
}

// Delete /api/v1/clients/:id
// Blocked with a conflict while the client still has orders.
func (api *ClientAPI) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	client, err := api.service.Delete(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toClientResponse(client))
}

type bulkDeleteRequest struct {
	IDs []int64 `json:"ids"`
}

// Post /api/v1/clients/bulk-delete
// Reports a per-id outcome instead of failing the whole batch.
func (api *ClientAPI) BulkDelete(c *gin.Context) {
	var payload bulkDeleteRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	result, err := api.service.BulkDelete(c.Request.Context(), payload.IDs)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Get /api/v1/clients
func (api *ClientAPI) List(c *gin.Context) {
	filter := clientsports.Filter{
		Query: c.Query("q"),
		Page:  parsePage(c),
	}
	clients, total, err := api.service.List(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	data := make([]clientResponse, 0, len(clients))
	for _, client := range clients {
		data = append(data, toClientResponse(client))
	}
	c.JSON(http.StatusOK, pagination.NewEnvelope(data, filter.Page, total))
}

// Get /api/v1/clients/export
// Streams the filtered client list as CSV.
func (api *ClientAPI) Export(c *gin.Context) {
	filter := clientsports.Filter{Query: c.Query("q")}

	filename := "clients-" + time.Now().Format("2006-01-02") + ".csv"
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Status(http.StatusOK)

	if err := api.service.ExportCSV(c.Request.Context(), filter, c.Writer); err != nil {
		// headers are already on the wire; all we can do is drop the connection
		_ = c.Error(err)
		c.Abort()
	}
}
