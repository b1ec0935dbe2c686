package service

import (
	"context"
	"errors"
	"strings"

	"github.com/reduxreimagine/portal-service/internal/domain"
	"github.com/reduxreimagine/portal-service/internal/repository"
)

// DashboardStats are the aggregate counts on the admin landing page.
type DashboardStats struct {
	Clients        int64 `json:"clients"`
	OpenTickets    int64 `json:"open_tickets"`
	UnpaidInvoices int64 `json:"unpaid_invoices"`
}

// AdminService manages the admin allowlist and dashboard aggregates.
type AdminService struct {
	admins   repository.AdminRepository
	clients  repository.ClientRepository
	tickets  repository.TicketRepository
	invoices repository.InvoiceRepository
}

// AdminDependencies bundles repositories for the admin service.
type AdminDependencies struct {
	AdminRepo   repository.AdminRepository
	ClientRepo  repository.ClientRepository
	TicketRepo  repository.TicketRepository
	InvoiceRepo repository.InvoiceRepository
}

// NewAdminService constructs the service.
func NewAdminService(deps AdminDependencies) *AdminService {
	return &AdminService{
		admins:   deps.AdminRepo,
		clients:  deps.ClientRepo,
		tickets:  deps.TicketRepo,
		invoices: deps.InvoiceRepo,
	}
}

// ListAdmins returns the allowlist.
func (s *AdminService) ListAdmins(ctx context.Context) ([]domain.AdminEntry, error) {
	return s.admins.List(ctx)
}

// AddAdmin grants admin capability to an email.
func (s *AdminService) AddAdmin(ctx context.Context, email, name string) (*domain.AdminEntry, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, errors.New("email required")
	}

	exists, err := s.admins.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errors.New("email is already an admin")
	}

	entry := &domain.AdminEntry{Email: email, Name: name}
	if err := s.admins.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// RemoveAdmin revokes admin capability.
func (s *AdminService) RemoveAdmin(ctx context.Context, id string) error {
	return s.admins.Delete(ctx, id)
}

// Dashboard collects the aggregate counts.
func (s *AdminService) Dashboard(ctx context.Context) (*DashboardStats, error) {
	clients, err := s.clients.Count(ctx)
	if err != nil {
		return nil, err
	}
	openTickets, err := s.tickets.CountByStatus(ctx, domain.TicketStatusOpen)
	if err != nil {
		return nil, err
	}
	unpaid, err := s.invoices.CountUnpaid(ctx)
	if err != nil {
		return nil, err
	}
	return &DashboardStats{
		Clients:        clients,
		OpenTickets:    openTickets,
		UnpaidInvoices: unpaid,
	}, nil
}
