package ws

import "time"

const (
	EventStockUpdate         = "stock_update"
	EventLowStockAlert       = "low_stock_alert"
	EventSaleCreated         = "sale_created"
	EventBudgetStatusChanged = "budget_status_changed"
	EventWithdrawalCreated   = "withdrawal_created"
	EventUserStatus          = "user_status_update"
)

type EventUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Event is the JSON envelope pushed to clients.
type Event struct {
	Type    string      `json:"type"`
	Action  string      `json:"action,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	User    *EventUser  `json:"user,omitempty"`
	Message string      `json:"message,omitempty"`
	At      time.Time   `json:"at"`
}
