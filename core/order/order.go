package order

import (
	"github.com/shopspring/decimal"
)

type Status string

const (
	Pending    Status = "PENDING"
	Processing Status = "PROCESSING"
	Shipped    Status = "SHIPPED"
	Delivered  Status = "DELIVERED"
	Cancelled  Status = "CANCELLED"
)

type ProductRef struct {
	ID int64 `json:"id"`
}

type ItemRequest struct {
	Product  ProductRef      `json:"product"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// OrderRequest is what the backend needs to persist an order.
type OrderRequest struct {
	Items              []ItemRequest   `json:"items"`
	Total              decimal.Decimal `json:"total"`
	DeliveryName       string          `json:"deliveryName"`
	DeliveryEmail      string          `json:"deliveryEmail"`
	DeliveryPhone      string          `json:"deliveryPhone"`
	DeliveryAddress    string          `json:"deliveryAddress"`
	DeliveryCity       string          `json:"deliveryCity"`
	DeliveryCounty     string          `json:"deliveryCounty"`
	DeliveryPostalCode string          `json:"deliveryPostalCode"`
	DeliveryCountry    string          `json:"deliveryCountry"`
	DeliveryNotes      string          `json:"deliveryNotes"`
}

type Item struct {
	ID          int64           `json:"id"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

type Order struct {
	ID                 int64           `json:"id"`
	OrderCode          string          `json:"orderCode"`
	Total              decimal.Decimal `json:"total"`
	Status             Status          `json:"status"`
	CreatedAt          string          `json:"createdAt"`
	DeliveryName       string          `json:"deliveryName"`
	DeliveryEmail      string          `json:"deliveryEmail"`
	DeliveryPhone      string          `json:"deliveryPhone"`
	DeliveryAddress    string          `json:"deliveryAddress"`
	DeliveryCity       string          `json:"deliveryCity"`
	DeliveryCounty     string          `json:"deliveryCounty"`
	DeliveryPostalCode string          `json:"deliveryPostalCode"`
	DeliveryCountry    string          `json:"deliveryCountry"`
	DeliveryNotes      string          `json:"deliveryNotes"`
	Items              []Item          `json:"items"`
}
