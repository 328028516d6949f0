package model

type NotificationType string

const (
	NotificationTypeOrderStatus   NotificationType = "order_status"
	NotificationTypePayment       NotificationType = "payment"
	NotificationTypePaymentStatus NotificationType = "payment_status"
	NotificationTypeSystem        NotificationType = "system"
)

type Notification struct {
	BaseModel
	UserID  string           `db:"user_id" json:"user_id"`
	OrderID *string          `db:"order_id" json:"order_id"` // Nullable
	Type    NotificationType `db:"type" json:"type"`
	Title   string           `db:"title" json:"title"`
	Message string           `db:"message" json:"message"`
	IsRead  bool             `db:"is_read" json:"is_read"`
}
