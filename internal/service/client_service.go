package service

import (
	"context"
	"strings"

	"github.com/reduxreimagine/portal-service/internal/domain"
	"github.com/reduxreimagine/portal-service/internal/repository"
)

// ClientService exposes profile reads and the one client-mutable field.
type ClientService struct {
	clients repository.ClientRepository
}

// NewClientService constructs the service.
func NewClientService(clients repository.ClientRepository) *ClientService {
	return &ClientService{clients: clients}
}

// GetProfile returns the signed-in identity's client profile.
func (s *ClientService) GetProfile(ctx context.Context, userID string) (*domain.Client, error) {
	return s.clients.GetByUserID(ctx, userID)
}

// UpdatePhone sets or clears the profile phone number, the only field
// a client edits themselves.
func (s *ClientService) UpdatePhone(ctx context.Context, userID, phoneNumber string) (*domain.Client, error) {
	client, err := s.clients.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	trimmed := strings.TrimSpace(phoneNumber)
	var phone *string
	if trimmed != "" {
		phone = &trimmed
	}
	if err := s.clients.UpdatePhone(ctx, client.ID, phone); err != nil {
		return nil, err
	}
	client.PhoneNumber = phone
	return client, nil
}

// ListClients returns all client profiles, for the admin view.
func (s *ClientService) ListClients(ctx context.Context) ([]domain.Client, error) {
	return s.clients.List(ctx)
}
