package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmehra2102/restaurant-pos/internal/access"
	"github.com/dmehra2102/restaurant-pos/internal/customer/domain"
	"github.com/dmehra2102/restaurant-pos/internal/platform/errs"
)

type Repository interface {
	FindByPhone(ctx context.Context, tenant, phone string) (domain.Customer, error)
	Upsert(ctx context.Context, c domain.Customer) (domain.Customer, error)
}

type Authorizer interface {
	Authorize(role access.Role, action access.Action) error
}

type Service struct {
	log   *slog.Logger
	repo  Repository
	authz Authorizer
	now   func() time.Time
	newID func() string
}

func NewService(log *slog.Logger, repo Repository, authz Authorizer) *Service {
	return &Service{
		log:   log,
		repo:  repo,
		authz: authz,
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
}

// Save creates the customer for the caller's tenant and phone number, or
// fills in the contact details of the existing one.
func (s *Service) Save(ctx context.Context, c access.Caller, in domain.Customer) (domain.Customer, error) {
	if err := s.authz.Authorize(c.Role, access.ActionManageCustomers); err != nil {
		return domain.Customer{}, err
	}
	in.Phone = strings.TrimSpace(in.Phone)
	in.Name = strings.TrimSpace(in.Name)
	if in.Phone == "" {
		return domain.Customer{}, fmt.Errorf("%w: phone is required", errs.ErrValidation)
	}

	var cust domain.Customer
	cust.Merge(in)
	cust.ID = s.newID()
	cust.Tenant = c.Tenant
	cust.CreatedBy = c.UserID
	cust.Phone = in.Phone
	cust.UpdatedAt = s.now()

	out, err := s.repo.Upsert(ctx, cust)
	if err != nil {
		return domain.Customer{}, err
	}
	s.log.Info("customer saved", "tenant", c.Tenant, "customer_id", out.ID)
	return out, nil
}

func (s *Service) ByPhone(ctx context.Context, c access.Caller, phone string) (domain.Customer, error) {
	if err := s.authz.Authorize(c.Role, access.ActionManageCustomers); err != nil {
		return domain.Customer{}, err
	}
	cust, err := s.repo.FindByPhone(ctx, c.Tenant, strings.TrimSpace(phone))
	if errors.Is(err, domain.ErrCustomerNotFound) {
		return domain.Customer{}, fmt.Errorf("%w: %w", errs.ErrNotFound, err)
	}
	return cust, err
}
