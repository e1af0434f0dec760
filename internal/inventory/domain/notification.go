package domain

import "time"

type NotificationType string

const (
	NotificationInfo    NotificationType = "info"
	NotificationWarning NotificationType = "warning"
)

type Notification struct {
	ID        int64            `json:"id"`
	Tenant    string           `json:"restaurantName"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Type      NotificationType `json:"type"`
	RelatedTo string           `json:"relatedTo"`
	Read      bool             `json:"read"`
	CreatedAt time.Time        `json:"createdAt"`
}
