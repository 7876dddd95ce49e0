package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mowgliph/pacta-api/internal/domain"
	"github.com/mowgliph/pacta-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrClientNotFound is returned when a client is not found
var ErrClientNotFound = errors.New("client not found")

// ErrClientInUse is returned when deleting a client that still has contracts
var ErrClientInUse = errors.New("client has contracts and cannot be deleted")

// ClientService handles business logic for client organizations
type ClientService struct {
	clientRepo  *repository.ClientRepository
	permissions *PermissionService
	logger      *zap.Logger
}

// NewClientService creates a new ClientService instance
func NewClientService(
	clientRepo *repository.ClientRepository,
	permissions *PermissionService,
	logger *zap.Logger,
) *ClientService {
	return &ClientService{
		clientRepo:  clientRepo,
		permissions: permissions,
		logger:      logger,
	}
}

func (s *ClientService) Create(ctx context.Context, req *domain.CreateClientRequest, createdBy string) (*domain.ClientDTO, error) {
	if err := s.permissions.RequirePermission(ctx, domain.RoleEditor); err != nil {
		return nil, err
	}

	client := &domain.Client{
		Name:        req.Name,
		Address:     req.Address,
		ReuCode:     req.ReuCode,
		Contacts:    req.Contacts,
		CreatedByID: createdBy,
	}

	if err := s.clientRepo.Create(ctx, client); err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	s.logger.Info("client created",
		zap.String("client_id", client.ID.String()),
		zap.String("name", client.Name),
	)

	dto := domain.NewClientDTO(client)
	return &dto, nil
}

func (s *ClientService) GetByID(ctx context.Context, id uuid.UUID) (*domain.ClientDTO, error) {
	if err := s.permissions.RequirePermission(ctx, domain.RoleViewer); err != nil {
		return nil, err
	}

	client, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to get client: %w", err)
	}

	dto := domain.NewClientDTO(client)
	return &dto, nil
}

func (s *ClientService) List(ctx context.Context, page, pageSize int, search string) (*domain.PaginatedResponse, error) {
	if err := s.permissions.RequirePermission(ctx, domain.RoleViewer); err != nil {
		return nil, err
	}

	page, pageSize = clampPage(page, pageSize)

	clients, total, err := s.clientRepo.List(ctx, page, pageSize, search)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}

	dtos := make([]domain.ClientDTO, len(clients))
	for i := range clients {
		dtos[i] = domain.NewClientDTO(&clients[i])
	}

	return paginated(dtos, total, page, pageSize), nil
}

func (s *ClientService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateClientRequest) (*domain.ClientDTO, error) {
	if err := s.permissions.RequirePermission(ctx, domain.RoleEditor); err != nil {
		return nil, err
	}

	client, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to get client: %w", err)
	}

	client.Name = req.Name
	client.Address = req.Address
	client.ReuCode = req.ReuCode
	client.Contacts = req.Contacts

	if err := s.clientRepo.Update(ctx, client); err != nil {
		return nil, fmt.Errorf("failed to update client: %w", err)
	}

	dto := domain.NewClientDTO(client)
	return &dto, nil
}

// Delete removes a client. Clients referenced by contracts are protected.
func (s *ClientService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.permissions.RequirePermission(ctx, domain.RoleManager); err != nil {
		return err
	}

	if _, err := s.clientRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrClientNotFound
		}
		return fmt.Errorf("failed to get client: %w", err)
	}

	count, err := s.clientRepo.CountContracts(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to count contracts: %w", err)
	}
	if count > 0 {
		return ErrClientInUse
	}

	if err := s.clientRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}

	s.logger.Info("client deleted", zap.String("client_id", id.String()))
	return nil
}
