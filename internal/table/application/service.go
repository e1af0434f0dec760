package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dmehra2102/restaurant-pos/internal/access"
	"github.com/dmehra2102/restaurant-pos/internal/platform/errs"
	"github.com/dmehra2102/restaurant-pos/internal/table/domain"
)

type Repository interface {
	List(ctx context.Context, tenant string) ([]domain.Table, error)
	Upsert(ctx context.Context, t domain.Table) (domain.Table, error)
}

type Authorizer interface {
	Authorize(role access.Role, action access.Action) error
}

type Service struct {
	log   *slog.Logger
	repo  Repository
	authz Authorizer
}

func NewService(log *slog.Logger, repo Repository, authz Authorizer) *Service {
	return &Service{log: log, repo: repo, authz: authz}
}

func (s *Service) List(ctx context.Context, c access.Caller) ([]domain.Table, error) {
	if err := s.authz.Authorize(c.Role, access.ActionReadOrders); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, c.Tenant)
}

// Register adds a table to the floor plan or updates its capacity.
func (s *Service) Register(ctx context.Context, c access.Caller, tableID string, capacity int) (domain.Table, error) {
	if err := s.authz.Authorize(c.Role, access.ActionManageTables); err != nil {
		return domain.Table{}, err
	}
	tableID = strings.TrimSpace(tableID)
	if tableID == "" {
		return domain.Table{}, fmt.Errorf("%w: table id is required", errs.ErrValidation)
	}
	if capacity < 0 {
		return domain.Table{}, fmt.Errorf("%w: capacity must not be negative", errs.ErrValidation)
	}

	t, err := s.repo.Upsert(ctx, domain.Table{Tenant: c.Tenant, TableID: tableID, Capacity: capacity})
	if err != nil {
		return domain.Table{}, err
	}
	s.log.Info("table registered", "tenant", c.Tenant, "table_id", t.TableID, "capacity", t.Capacity)
	return t, nil
}
