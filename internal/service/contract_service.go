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

var (
	// ErrContractNotFound is returned when a contract does not exist
	ErrContractNotFound = errors.New("contract not found")

	// ErrContractNumberTaken is returned when the contract number is already in use
	ErrContractNumberTaken = errors.New("contract number already in use")

	// ErrContractPartyNotFound is returned when the referenced client or supplier does not exist
	ErrContractPartyNotFound = errors.New("referenced client or supplier not found")
)

// ContractService handles contract lifecycle operations
type ContractService struct {
	contractRepo *repository.ContractRepository
	clientRepo   *repository.ClientRepository
	supplierRepo *repository.SupplierRepository
	permissions  *PermissionService
	audit        *AuditLogService
	logger       *zap.Logger
}

// NewContractService creates a new contract service
func NewContractService(
	contractRepo *repository.ContractRepository,
	clientRepo *repository.ClientRepository,
	supplierRepo *repository.SupplierRepository,
	permissions *PermissionService,
	audit *AuditLogService,
	logger *zap.Logger,
) *ContractService {
	return &ContractService{
		contractRepo: contractRepo,
		clientRepo:   clientRepo,
		supplierRepo: supplierRepo,
		permissions:  permissions,
		audit:        audit,
		logger:       logger,
	}
}

// Create creates a new contract. The status is taken from the request
// as-is and is never derived from the date range.
func (s *ContractService) Create(ctx context.Context, req *domain.CreateContractRequest, createdBy string) (*domain.ContractDTO, error) {
	if err := s.permissions.RequirePermission(ctx, domain.RoleEditor); err != nil {
		return nil, err
	}

	if req.EndDate.Before(req.StartDate) {
		return nil, ErrInvalidDateRange
	}
	if !req.Type.IsValid() {
		return nil, fmt.Errorf("%w: invalid contract type %q", ErrInvalidInput, req.Type)
	}
	status := req.Status
	if status == "" {
		status = domain.ContractStatusPending
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: invalid contract status %q", ErrInvalidInput, req.Status)
	}

	if _, err := s.contractRepo.GetByNumber(ctx, req.ContractNumber); err == nil {
		return nil, ErrContractNumberTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check contract number: %w", err)
	}

	if err := s.validateParties(ctx, req.ClientID, req.SupplierID); err != nil {
		return nil, err
	}

	contract := &domain.Contract{
		ContractNumber:   req.ContractNumber,
		Title:            req.Title,
		ClientID:         req.ClientID,
		SupplierID:       req.SupplierID,
		ClientSignerID:   req.ClientSignerID,
		SupplierSignerID: req.SupplierSignerID,
		StartDate:        req.StartDate,
		EndDate:          req.EndDate,
		Amount:           req.Amount,
		Type:             req.Type,
		Status:           status,
		Description:      req.Description,
		CreatedByID:      createdBy,
	}

	if err := s.contractRepo.Create(ctx, contract); err != nil {
		s.logger.Error("failed to create contract",
			zap.String("contract_number", req.ContractNumber),
			zap.Error(err))
		return nil, fmt.Errorf("failed to create contract: %w", err)
	}

	_ = s.audit.Record(ctx, &contract.ID, domain.AuditActionCreate,
		fmt.Sprintf("Created contract %s (%s)", contract.ContractNumber, contract.Title))

	s.logger.Info("contract created",
		zap.String("contract_id", contract.ID.String()),
		zap.String("contract_number", contract.ContractNumber))

	created, err := s.contractRepo.GetByID(ctx, contract.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload contract: %w", err)
	}
	dto := domain.NewContractDTO(created)
	return &dto, nil
}

// GetByID retrieves a contract with its parties, supplements and documents.
func (s *ContractService) GetByID(ctx context.Context, id uuid.UUID) (*domain.ContractDTO, error) {
	if err := s.permissions.RequirePermission(ctx, domain.RoleViewer); err != nil {
		return nil, err
	}

	contract, err := s.contractRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContractNotFound
		}
		return nil, fmt.Errorf("failed to get contract: %w", err)
	}

	dto := domain.NewContractDTO(contract)
	return &dto, nil
}

// List retrieves contracts with filtering, sorting and pagination.
func (s *ContractService) List(ctx context.Context, filters repository.ContractFilters, page, pageSize int, sortBy, sortOrder string) (*domain.PaginatedResponse, error) {
	if err := s.permissions.RequirePermission(ctx, domain.RoleViewer); err != nil {
		return nil, err
	}

	page, pageSize = clampPage(page, pageSize)
	contracts, total, err := s.contractRepo.List(ctx, filters, page, pageSize, sortBy, sortOrder)
	if err != nil {
		return nil, fmt.Errorf("failed to list contracts: %w", err)
	}

	dtos := make([]domain.ContractDTO, len(contracts))
	for i := range contracts {
		dtos[i] = domain.NewContractDTO(&contracts[i])
	}
	return paginated(dtos, total, page, pageSize), nil
}

// Update updates the mutable fields of a contract. The contract number
// and the contracting parties are fixed at creation time.
func (s *ContractService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateContractRequest) (*domain.ContractDTO, error) {
	if err := s.permissions.RequirePermission(ctx, domain.RoleEditor); err != nil {
		return nil, err
	}

	if req.EndDate.Before(req.StartDate) {
		return nil, ErrInvalidDateRange
	}
	if !req.Type.IsValid() {
		return nil, fmt.Errorf("%w: invalid contract type %q", ErrInvalidInput, req.Type)
	}
	if !req.Status.IsValid() {
		return nil, fmt.Errorf("%w: invalid contract status %q", ErrInvalidInput, req.Status)
	}

	contract, err := s.contractRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContractNotFound
		}
		return nil, fmt.Errorf("failed to get contract: %w", err)
	}

	contract.Title = req.Title
	contract.ClientSignerID = req.ClientSignerID
	contract.SupplierSignerID = req.SupplierSignerID
	contract.StartDate = req.StartDate
	contract.EndDate = req.EndDate
	contract.Amount = req.Amount
	contract.Type = req.Type
	contract.Status = req.Status
	contract.Description = req.Description

	if err := s.contractRepo.Update(ctx, contract); err != nil {
		s.logger.Error("failed to update contract",
			zap.String("contract_id", id.String()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to update contract: %w", err)
	}

	_ = s.audit.Record(ctx, &contract.ID, domain.AuditActionUpdate,
		fmt.Sprintf("Updated contract %s (%s)", contract.ContractNumber, contract.Title))

	updated, err := s.contractRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload contract: %w", err)
	}
	dto := domain.NewContractDTO(updated)
	return &dto, nil
}

// Delete removes a contract together with its supplements, documents
// and notifications. Audit log entries for the contract are retained.
func (s *ContractService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.permissions.RequirePermission(ctx, domain.RoleManager); err != nil {
		return err
	}

	contract, err := s.contractRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrContractNotFound
		}
		return fmt.Errorf("failed to get contract: %w", err)
	}

	if err := s.contractRepo.DeleteCascade(ctx, id); err != nil {
		s.logger.Error("failed to delete contract",
			zap.String("contract_id", id.String()),
			zap.Error(err))
		return fmt.Errorf("failed to delete contract: %w", err)
	}

	_ = s.audit.Record(ctx, &id, domain.AuditActionDelete,
		fmt.Sprintf("Deleted contract %s (%s)", contract.ContractNumber, contract.Title))

	s.logger.Info("contract deleted",
		zap.String("contract_id", id.String()),
		zap.String("contract_number", contract.ContractNumber))
	return nil
}

// validateParties checks that the referenced client and supplier exist.
func (s *ContractService) validateParties(ctx context.Context, clientID, supplierID uuid.UUID) error {
	if _, err := s.clientRepo.GetByID(ctx, clientID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: client %s", ErrContractPartyNotFound, clientID)
		}
		return fmt.Errorf("failed to check client: %w", err)
	}
	if _, err := s.supplierRepo.GetByID(ctx, supplierID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: supplier %s", ErrContractPartyNotFound, supplierID)
		}
		return fmt.Errorf("failed to check supplier: %w", err)
	}
	return nil
}
