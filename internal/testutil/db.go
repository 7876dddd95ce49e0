// Package testutil provides shared fixtures for package-level tests.
package testutil

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mowgliph/pacta-api/internal/auth"
	"github.com/mowgliph/pacta-api/internal/domain"
)

var seq atomic.Int64

// NextSeq returns a process-unique number for building distinct
// contract numbers and emails inside one test run.
func NextSeq() int64 {
	return seq.Add(1)
}

// SetupTestDB opens a fresh in-memory SQLite database and migrates the
// domain schema. NotificationSettings is excluded: its columns use
// PostgreSQL array types, so settings-dependent behavior is tested by
// passing settings values to the code under test directly.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// A named shared-cache DSN keeps every pooled connection on the same
	// in-memory database.
	dsn := fmt.Sprintf("file:testdb-%d?mode=memory&cache=shared", NextSeq())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	require.NoError(t, err, "failed to open in-memory database")

	err = db.AutoMigrate(
		&domain.User{},
		&domain.Client{},
		&domain.Supplier{},
		&domain.AuthorizedSigner{},
		&domain.Contract{},
		&domain.Supplement{},
		&domain.Document{},
		&domain.Notification{},
		&domain.AuditLog{},
	)
	require.NoError(t, err, "failed to migrate schema")

	return db
}

// ContextWithRole returns a context carrying an authenticated user with
// the given role.
func ContextWithRole(role domain.UserRole) context.Context {
	return auth.WithUserContext(context.Background(), &auth.UserContext{
		UserID:      uuid.New(),
		DisplayName: "Test User",
		Email:       fmt.Sprintf("test-%d@example.com", NextSeq()),
		Role:        role,
	})
}

// ContextForUser returns a context carrying the given persisted user.
func ContextForUser(user *domain.User) context.Context {
	return auth.WithUserContext(context.Background(), &auth.UserContext{
		UserID:      user.ID,
		DisplayName: user.Name,
		Email:       user.Email,
		Role:        user.Role,
	})
}

// CreateTestUser persists a user with a bcrypt hash of the given password.
func CreateTestUser(t *testing.T, db *gorm.DB, name string, role domain.UserRole, password string) *domain.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	user := &domain.User{
		Name:         name,
		Email:        fmt.Sprintf("user-%d@example.com", NextSeq()),
		PasswordHash: string(hash),
		Role:         role,
		Status:       domain.UserStatusActive,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateTestClient persists a client organization.
func CreateTestClient(t *testing.T, db *gorm.DB, name string) *domain.Client {
	t.Helper()

	client := &domain.Client{
		Name:    name,
		Address: "1 Test Street",
		ReuCode: fmt.Sprintf("REU-%04d", NextSeq()),
	}
	require.NoError(t, db.Create(client).Error)
	return client
}

// CreateTestSupplier persists a supplier organization.
func CreateTestSupplier(t *testing.T, db *gorm.DB, name string) *domain.Supplier {
	t.Helper()

	supplier := &domain.Supplier{
		Name:    name,
		Address: "2 Test Street",
		ReuCode: fmt.Sprintf("REU-%04d", NextSeq()),
	}
	require.NoError(t, db.Create(supplier).Error)
	return supplier
}

// CreateTestContract persists an active contract between the given
// parties, running from yesterday until endDate. Mutators run before
// the insert.
func CreateTestContract(t *testing.T, db *gorm.DB, client *domain.Client, supplier *domain.Supplier, endDate time.Time, mutators ...func(*domain.Contract)) *domain.Contract {
	t.Helper()

	contract := &domain.Contract{
		ContractNumber: fmt.Sprintf("C-%06d", NextSeq()),
		Title:          "Test contract",
		ClientID:       client.ID,
		SupplierID:     supplier.ID,
		StartDate:      time.Now().AddDate(0, 0, -1),
		EndDate:        endDate,
		Amount:         1000,
		Type:           domain.ContractTypeService,
		Status:         domain.ContractStatusActive,
	}
	for _, mutate := range mutators {
		mutate(contract)
	}
	require.NoError(t, db.Create(contract).Error)
	return contract
}

// CreateTestSupplement persists a supplement attached to a contract.
func CreateTestSupplement(t *testing.T, db *gorm.DB, contract *domain.Contract, mutators ...func(*domain.Supplement)) *domain.Supplement {
	t.Helper()

	supplement := &domain.Supplement{
		ContractID:       contract.ID,
		SupplementNumber: fmt.Sprintf("S-%06d", NextSeq()),
		Description:      "Test supplement",
		EffectiveDate:    time.Now(),
		Status:           domain.SupplementStatusDraft,
	}
	for _, mutate := range mutators {
		mutate(supplement)
	}
	require.NoError(t, db.Create(supplement).Error)
	return supplement
}
