package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/mowgliph/pacta-api/internal/domain"
	"gorm.io/gorm"
)

type SupplementRepository struct {
	db *gorm.DB
}

func NewSupplementRepository(db *gorm.DB) *SupplementRepository {
	return &SupplementRepository{db: db}
}

func (r *SupplementRepository) Create(ctx context.Context, supplement *domain.Supplement) error {
	return r.db.WithContext(ctx).Create(supplement).Error
}

func (r *SupplementRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Supplement, error) {
	var supplement domain.Supplement
	err := r.db.WithContext(ctx).
		Preload("Contract").
		First(&supplement, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &supplement, nil
}

func (r *SupplementRepository) Update(ctx context.Context, supplement *domain.Supplement) error {
	return r.db.WithContext(ctx).Save(supplement).Error
}

func (r *SupplementRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Supplement{}, "id = ?", id).Error
}

// ListByContract returns all supplements for a contract, newest effective first
func (r *SupplementRepository) ListByContract(ctx context.Context, contractID uuid.UUID) ([]domain.Supplement, error) {
	var supplements []domain.Supplement
	err := r.db.WithContext(ctx).
		Where("contract_id = ?", contractID).
		Order("effective_date DESC").
		Find(&supplements).Error
	return supplements, err
}

// ListAll returns every supplement with its contract preloaded, for report aggregation
func (r *SupplementRepository) ListAll(ctx context.Context) ([]domain.Supplement, error) {
	var supplements []domain.Supplement
	err := r.db.WithContext(ctx).
		Preload("Contract").
		Find(&supplements).Error
	return supplements, err
}

// ExistsNumber checks whether a supplement number is already used on a contract
func (r *SupplementRepository) ExistsNumber(ctx context.Context, contractID uuid.UUID, number string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Supplement{}).
		Where("contract_id = ? AND supplement_number = ?", contractID, number).
		Count(&count).Error
	return count > 0, err
}
