package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dmehra2102/restaurant-pos/internal/inventory/domain"
)

// AlertService turns stock deductions into low-stock notifications.
type AlertService struct {
	log  *slog.Logger
	repo NotificationRepository
	now  func() time.Time
}

func NewAlertService(log *slog.Logger, repo NotificationRepository) *AlertService {
	return &AlertService{log: log, repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

// HandleDeducted raises one warning per item each time its stock falls
// below the minimum threshold. It reports whether a notification was
// written.
func (s *AlertService) HandleDeducted(ctx context.Context, ev domain.InventoryDeducted) (bool, error) {
	if !ev.CrossedThreshold() {
		return false, nil
	}

	msg := fmt.Sprintf("%s is down to %s %s (minimum %s) after order %s",
		ev.Name, ev.QuantityAfter.String(), ev.Unit, ev.MinThreshold.String(), ev.OrderID)
	n := domain.Notification{
		Tenant:    ev.Tenant,
		Title:     fmt.Sprintf("Low stock: %s", ev.Name),
		Message:   msg,
		Type:      domain.NotificationWarning,
		RelatedTo: ev.InventoryItemID,
		CreatedAt: s.now(),
	}
	n, err := s.repo.Insert(ctx, n)
	if err != nil {
		return false, fmt.Errorf("insert notification: %w", err)
	}

	s.log.Warn("low stock", "tenant", ev.Tenant, "item", ev.InventoryItemID, "quantity", ev.QuantityAfter.String(),
		"min", ev.MinThreshold.String(), "notification_id", n.ID)
	return true, nil
}
