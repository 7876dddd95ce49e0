package repository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mowgliph/pacta-api/internal/domain"
	"gorm.io/gorm"
)

// ContractFilters defines filter options for contract listing
type ContractFilters struct {
	Search     string
	Status     *domain.ContractStatus
	Type       *domain.ContractType
	ClientID   *uuid.UUID
	SupplierID *uuid.UUID
	EndBefore  *time.Time
	EndAfter   *time.Time
}

// contractSortableFields maps API field names to database column names.
// Only fields in this map can be used for sorting (whitelist approach).
var contractSortableFields = map[string]string{
	"createdAt":      "created_at",
	"updatedAt":      "updated_at",
	"contractNumber": "contract_number",
	"title":          "title",
	"startDate":      "start_date",
	"endDate":        "end_date",
	"amount":         "amount",
	"status":         "status",
}

type ContractRepository struct {
	db *gorm.DB
}

func NewContractRepository(db *gorm.DB) *ContractRepository {
	return &ContractRepository{db: db}
}

func (r *ContractRepository) Create(ctx context.Context, contract *domain.Contract) error {
	return r.db.WithContext(ctx).Create(contract).Error
}

func (r *ContractRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Contract, error) {
	var contract domain.Contract
	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Supplier").
		Preload("Supplements").
		Preload("Documents").
		First(&contract, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &contract, nil
}

func (r *ContractRepository) GetByNumber(ctx context.Context, number string) (*domain.Contract, error) {
	var contract domain.Contract
	err := r.db.WithContext(ctx).First(&contract, "contract_number = ?", number).Error
	if err != nil {
		return nil, err
	}
	return &contract, nil
}

func (r *ContractRepository) Update(ctx context.Context, contract *domain.Contract) error {
	return r.db.WithContext(ctx).Save(contract).Error
}

// DeleteCascade removes a contract and all dependent rows in one transaction.
// Supplements, documents and notifications referencing the contract go with it;
// audit log entries are kept as the historical record.
func (r *ContractRepository) DeleteCascade(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&domain.Supplement{}, "contract_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&domain.Document{}, "contract_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&domain.Notification{}, "contract_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Contract{}, "id = ?", id).Error
	})
}

func (r *ContractRepository) List(ctx context.Context, filters ContractFilters, page, pageSize int, sortBy, sortOrder string) ([]domain.Contract, int64, error) {
	var contracts []domain.Contract
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Contract{})
	query = applyContractFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	column, ok := contractSortableFields[sortBy]
	if !ok {
		column = "created_at"
	}
	order := "DESC"
	if strings.EqualFold(sortOrder, "asc") {
		order = "ASC"
	}

	offset := (page - 1) * pageSize
	err := query.
		Preload("Client").
		Preload("Supplier").
		Offset(offset).Limit(pageSize).
		Order(column + " " + order).
		Find(&contracts).Error

	return contracts, total, err
}

// ListAll returns every contract with parties preloaded, for report aggregation
func (r *ContractRepository) ListAll(ctx context.Context) ([]domain.Contract, error) {
	var contracts []domain.Contract
	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Supplier").
		Find(&contracts).Error
	return contracts, err
}

// ListActive returns all contracts with active status. The expiration alert
// generator scans these regardless of end date.
func (r *ContractRepository) ListActive(ctx context.Context) ([]domain.Contract, error) {
	var contracts []domain.Contract
	err := r.db.WithContext(ctx).
		Where("status = ?", domain.ContractStatusActive).
		Find(&contracts).Error
	return contracts, err
}

func (r *ContractRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Contract{}).Count(&count).Error
	return count, err
}

func applyContractFilters(query *gorm.DB, filters ContractFilters) *gorm.DB {
	if filters.Search != "" {
		searchPattern := "%" + strings.ToLower(filters.Search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(contract_number) LIKE ?", searchPattern, searchPattern)
	}
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.Type != nil {
		query = query.Where("type = ?", *filters.Type)
	}
	if filters.ClientID != nil {
		query = query.Where("client_id = ?", *filters.ClientID)
	}
	if filters.SupplierID != nil {
		query = query.Where("supplier_id = ?", *filters.SupplierID)
	}
	if filters.EndBefore != nil {
		query = query.Where("end_date <= ?", *filters.EndBefore)
	}
	if filters.EndAfter != nil {
		query = query.Where("end_date >= ?", *filters.EndAfter)
	}
	return query
}
