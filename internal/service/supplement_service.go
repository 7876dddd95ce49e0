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
	// ErrSupplementNotFound is returned when a supplement does not exist
	ErrSupplementNotFound = errors.New("supplement not found")

	// ErrSupplementNumberTaken is returned when the supplement number already exists on the contract
	ErrSupplementNumberTaken = errors.New("supplement number already exists for this contract")
)

// SupplementService handles contract supplement operations. Supplements
// record amendments to a contract; they never mutate the parent contract.
type SupplementService struct {
	supplementRepo *repository.SupplementRepository
	contractRepo   *repository.ContractRepository
	permissions    *PermissionService
	audit          *AuditLogService
	logger         *zap.Logger
}

// NewSupplementService creates a new supplement service
func NewSupplementService(
	supplementRepo *repository.SupplementRepository,
	contractRepo *repository.ContractRepository,
	permissions *PermissionService,
	audit *AuditLogService,
	logger *zap.Logger,
) *SupplementService {
	return &SupplementService{
		supplementRepo: supplementRepo,
		contractRepo:   contractRepo,
		permissions:    permissions,
		audit:          audit,
		logger:         logger,
	}
}

// Create attaches a new supplement to a contract. New supplements start
// in draft status.
func (s *SupplementService) Create(ctx context.Context, contractID uuid.UUID, req *domain.CreateSupplementRequest, createdBy string) (*domain.SupplementDTO, error) {
	if err := s.permissions.RequirePermission(ctx, domain.RoleEditor); err != nil {
		return nil, err
	}

	contract, err := s.contractRepo.GetByID(ctx, contractID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContractNotFound
		}
		return nil, fmt.Errorf("failed to get contract: %w", err)
	}

	exists, err := s.supplementRepo.ExistsNumber(ctx, contractID, req.SupplementNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to check supplement number: %w", err)
	}
	if exists {
		return nil, ErrSupplementNumberTaken
	}

	supplement := &domain.Supplement{
		ContractID:       contractID,
		SupplementNumber: req.SupplementNumber,
		Description:      req.Description,
		EffectiveDate:    req.EffectiveDate,
		Modifications:    req.Modifications,
		Status:           domain.SupplementStatusDraft,
		ClientSignerID:   req.ClientSignerID,
		SupplierSignerID: req.SupplierSignerID,
		CreatedByID:      createdBy,
	}

	if err := s.supplementRepo.Create(ctx, supplement); err != nil {
		s.logger.Error("failed to create supplement",
			zap.String("contract_id", contractID.String()),
			zap.String("supplement_number", req.SupplementNumber),
			zap.Error(err))
		return nil, fmt.Errorf("failed to create supplement: %w", err)
	}

	_ = s.audit.Record(ctx, &contractID, domain.AuditActionCreate,
		fmt.Sprintf("Added supplement %s to contract %s", supplement.SupplementNumber, contract.ContractNumber))

	supplement.Contract = contract
	dto := domain.NewSupplementDTO(supplement)
	return &dto, nil
}

// GetByID retrieves a single supplement.
func (s *SupplementService) GetByID(ctx context.Context, id uuid.UUID) (*domain.SupplementDTO, error) {
	if err := s.permissions.RequirePermission(ctx, domain.RoleViewer); err != nil {
		return nil, err
	}

	supplement, err := s.supplementRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSupplementNotFound
		}
		return nil, fmt.Errorf("failed to get supplement: %w", err)
	}

	dto := domain.NewSupplementDTO(supplement)
	return &dto, nil
}

// ListByContract returns all supplements of a contract, newest effective
// date first.
func (s *SupplementService) ListByContract(ctx context.Context, contractID uuid.UUID) ([]domain.SupplementDTO, error) {
	if err := s.permissions.RequirePermission(ctx, domain.RoleViewer); err != nil {
		return nil, err
	}

	supplements, err := s.supplementRepo.ListByContract(ctx, contractID)
	if err != nil {
		return nil, fmt.Errorf("failed to list supplements: %w", err)
	}

	dtos := make([]domain.SupplementDTO, len(supplements))
	for i := range supplements {
		dtos[i] = domain.NewSupplementDTO(&supplements[i])
	}
	return dtos, nil
}

// Update updates the mutable fields of a supplement. The supplement
// number and parent contract are fixed at creation time.
func (s *SupplementService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateSupplementRequest) (*domain.SupplementDTO, error) {
	if err := s.permissions.RequirePermission(ctx, domain.RoleEditor); err != nil {
		return nil, err
	}

	if !req.Status.IsValid() {
		return nil, fmt.Errorf("%w: invalid supplement status %q", ErrInvalidInput, req.Status)
	}

	supplement, err := s.supplementRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSupplementNotFound
		}
		return nil, fmt.Errorf("failed to get supplement: %w", err)
	}

	supplement.Description = req.Description
	supplement.EffectiveDate = req.EffectiveDate
	supplement.Modifications = req.Modifications
	supplement.Status = req.Status
	supplement.ClientSignerID = req.ClientSignerID
	supplement.SupplierSignerID = req.SupplierSignerID

	if err := s.supplementRepo.Update(ctx, supplement); err != nil {
		s.logger.Error("failed to update supplement",
			zap.String("supplement_id", id.String()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to update supplement: %w", err)
	}

	_ = s.audit.Record(ctx, &supplement.ContractID, domain.AuditActionUpdate,
		fmt.Sprintf("Updated supplement %s", supplement.SupplementNumber))

	dto := domain.NewSupplementDTO(supplement)
	return &dto, nil
}

// Delete removes a supplement from its contract.
func (s *SupplementService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.permissions.RequirePermission(ctx, domain.RoleManager); err != nil {
		return err
	}

	supplement, err := s.supplementRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSupplementNotFound
		}
		return fmt.Errorf("failed to get supplement: %w", err)
	}

	if err := s.supplementRepo.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete supplement",
			zap.String("supplement_id", id.String()),
			zap.Error(err))
		return fmt.Errorf("failed to delete supplement: %w", err)
	}

	_ = s.audit.Record(ctx, &supplement.ContractID, domain.AuditActionDelete,
		fmt.Sprintf("Removed supplement %s", supplement.SupplementNumber))
	return nil
}
