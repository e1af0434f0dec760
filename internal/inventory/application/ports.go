package application

import (
	"context"

	"github.com/dmehra2102/restaurant-pos/internal/inventory/domain"
)

type NotificationRepository interface {
	Insert(ctx context.Context, n domain.Notification) (domain.Notification, error)
}
