package domain

// Order lifecycle statuses as the backend reports them. The server owns the
// lifecycle; the agent never moves a status backward on its own.
const (
	StatusPending        = "pending"
	StatusPrinted        = "printed"
	StatusFinished       = "finished"
	StatusOutForDelivery = "out_for_delivery"
	StatusCancelled      = "cancelled"
)

type OrderItem struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

type Order struct {
	ID               string      `json:"id"`
	CustomerName     string      `json:"customer_name"`
	CustomerPhone    string      `json:"customer_phone"`
	Items            []OrderItem `json:"items"`
	TotalPrice       float64     `json:"total_price"`
	Status           string      `json:"status"`
	CreatedAt        string      `json:"created_at"`
	DisplayID        string      `json:"display_id,omitempty"`
	DailySequence    *int        `json:"daily_sequence,omitempty"`
	OrderType        string      `json:"order_type,omitempty"`
	DeliveryAddress  string      `json:"delivery_address,omitempty"`
	PaymentMethod    string      `json:"payment_method,omitempty"`
	Subtotal         *float64    `json:"subtotal,omitempty"`
	DeliveryFee      *float64    `json:"delivery_fee,omitempty"`
	ChangeFor        *float64    `json:"change_for,omitempty"`
	PrintRequestedAt *string     `json:"print_requested_at,omitempty"`
}

type Pagination struct {
	Page    int  `json:"page"`
	Limit   int  `json:"limit"`
	Total   int  `json:"total"`
	HasMore bool `json:"has_more"`
}

type OrdersResponse struct {
	Orders     []Order    `json:"orders"`
	Pagination Pagination `json:"pagination"`
}
