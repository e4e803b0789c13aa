package server

import (
	"time"

	catalogdomain "github.com/orderdesk/sales-admin-api/internal/domains/catalog/domain"
	clientsdomain "github.com/orderdesk/sales-admin-api/internal/domains/clients/domain"
	deliveriesdomain "github.com/orderdesk/sales-admin-api/internal/domains/deliveries/domain"
	metricsports "github.com/orderdesk/sales-admin-api/internal/domains/metrics/ports"
	ordersdomain "github.com/orderdesk/sales-admin-api/internal/domains/orders/domain"
	ordersports "github.com/orderdesk/sales-admin-api/internal/domains/orders/ports"
	usersdomain "github.com/orderdesk/sales-admin-api/internal/domains/users/domain"
)

// Monetary amounts cross the wire as 2-decimal strings, never floats.

type productResponse struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	SKU           string    `json:"sku"`
	Description   string    `json:"description,omitempty"`
	StockQuantity int       `json:"stockQuantity"`
	Price         string    `json:"price"`
	CategoryIDs   []int64   `json:"categoryIds"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func toProductResponse(p *catalogdomain.Product) productResponse {
	ids := p.CategoryIDs
	if ids == nil {
		ids = []int64{}
	}
	return productResponse{
		ID:            p.ID,
		Title:         p.Title,
		SKU:           p.SKU,
		Description:   p.Description,
		StockQuantity: p.StockQuantity,
		Price:         p.Price.StringFixed(2),
		CategoryIDs:   ids,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

type categoryResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toCategoryResponse(category *catalogdomain.Category) categoryResponse {
	return categoryResponse{
		ID:          category.ID,
		Name:        category.Name,
		Description: category.Description,
		CreatedAt:   category.CreatedAt,
	}
}

type clientResponse struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	Company   string    `json:"company,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func toClientResponse(client *clientsdomain.Client) clientResponse {
	return clientResponse{
		ID:        client.ID,
		Email:     client.Email,
		Name:      client.Name,
		Phone:     client.Phone,
		Address:   client.Address,
		Company:   client.Company,
		CreatedAt: client.CreatedAt,
	}
}

type orderItemResponse struct {
	ID        int64  `json:"id"`
	OrderID   int64  `json:"orderId"`
	ProductID int64  `json:"productId"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unitPrice"`
	Subtotal  string `json:"subtotal"`
}

func toOrderItemResponse(item *ordersdomain.OrderItem) orderItemResponse {
	return orderItemResponse{
		ID:        item.ID,
		OrderID:   item.OrderID,
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
		UnitPrice: item.UnitPrice.StringFixed(2),
		Subtotal:  item.Subtotal().StringFixed(2),
	}
}

type orderResponse struct {
	ID              int64               `json:"id"`
	BuyerID         int64               `json:"buyerId"`
	ShippingAddress string              `json:"shippingAddress,omitempty"`
	BillingAddress  string              `json:"billingAddress,omitempty"`
	Status          string              `json:"status"`
	CreatedAt       time.Time           `json:"createdAt"`
	Items           []orderItemResponse `json:"items"`
	ItemCount       int                 `json:"itemCount"`
	TotalAmount     string              `json:"totalAmount"`
}

func toOrderResponse(order *ordersdomain.Order) orderResponse {
	items := make([]orderItemResponse, 0, len(order.Items))
	for i := range order.Items {
		items = append(items, toOrderItemResponse(&order.Items[i]))
	}
	return orderResponse{
		ID:              order.ID,
		BuyerID:         order.BuyerID,
		ShippingAddress: order.ShippingAddress,
		BillingAddress:  order.BillingAddress,
		Status:          string(order.Status),
		CreatedAt:       order.CreatedAt,
		Items:           items,
		ItemCount:       order.ItemCount(),
		TotalAmount:     order.TotalAmount().StringFixed(2),
	}
}

type orderSummaryResponse struct {
	ID          int64     `json:"id"`
	BuyerID     int64     `json:"buyerId"`
	BuyerName   string    `json:"buyerName"`
	BuyerEmail  string    `json:"buyerEmail"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	ItemCount   int       `json:"itemCount"`
	TotalAmount string    `json:"totalAmount"`
}

func toOrderSummaryResponse(summary *ordersports.OrderSummary) orderSummaryResponse {
	return orderSummaryResponse{
		ID:          summary.Order.ID,
		BuyerID:     summary.Order.BuyerID,
		BuyerName:   summary.BuyerName,
		BuyerEmail:  summary.BuyerEmail,
		Status:      string(summary.Order.Status),
		CreatedAt:   summary.Order.CreatedAt,
		ItemCount:   summary.ItemCount,
		TotalAmount: summary.TotalAmount.StringFixed(2),
	}
}

type deliveryResponse struct {
	ID          int64     `json:"id"`
	ProductID   int64     `json:"productId"`
	Quantity    int       `json:"quantity"`
	Note        string    `json:"note,omitempty"`
	DeliveredAt time.Time `json:"deliveredAt"`
}

func toDeliveryResponse(delivery *deliveriesdomain.Delivery) deliveryResponse {
	return deliveryResponse{
		ID:          delivery.ID,
		ProductID:   delivery.ProductID,
		Quantity:    delivery.Quantity,
		Note:        delivery.Note,
		DeliveredAt: delivery.DeliveredAt,
	}
}

type moneyStatResponse struct {
	Current   string  `json:"current"`
	Previous  string  `json:"previous"`
	ChangePct float64 `json:"changePct"`
}

type countStatResponse struct {
	Current   int64   `json:"current"`
	Previous  int64   `json:"previous"`
	ChangePct float64 `json:"changePct"`
}

type dashboardResponse struct {
	WindowDays   int               `json:"windowDays"`
	Revenue      moneyStatResponse `json:"revenue"`
	Orders       countStatResponse `json:"orders"`
	NewClients   countStatResponse `json:"newClients"`
	ActiveBuyers countStatResponse `json:"activeBuyers"`
}

func toDashboardResponse(dashboard *metricsports.Dashboard) dashboardResponse {
	return dashboardResponse{
		WindowDays: dashboard.WindowDays,
		Revenue: moneyStatResponse{
			Current:   dashboard.Revenue.Current.StringFixed(2),
			Previous:  dashboard.Revenue.Previous.StringFixed(2),
			ChangePct: dashboard.Revenue.ChangePct,
		},
		Orders:       toCountStatResponse(dashboard.Orders),
		NewClients:   toCountStatResponse(dashboard.NewClients),
		ActiveBuyers: toCountStatResponse(dashboard.ActiveBuyers),
	}
}

func toCountStatResponse(stat metricsports.CountStat) countStatResponse {
	return countStatResponse{Current: stat.Current, Previous: stat.Previous, ChangePct: stat.ChangePct}
}

type userResponse struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

func toUserResponse(user *usersdomain.User) userResponse {
	return userResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Role:      string(user.Role),
		CreatedAt: user.CreatedAt,
	}
}
