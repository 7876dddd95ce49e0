package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserRoleRank(t *testing.T) {
	assert.Equal(t, 1, RoleViewer.Rank())
	assert.Equal(t, 2, RoleEditor.Rank())
	assert.Equal(t, 3, RoleManager.Rank())
	assert.Equal(t, 4, RoleAdmin.Rank())
	assert.Equal(t, 0, UserRole("superuser").Rank())
	assert.Equal(t, 0, UserRole("").Rank())
}

func TestUserRoleCovers(t *testing.T) {
	ordered := []UserRole{RoleViewer, RoleEditor, RoleManager, RoleAdmin}

	for i, holder := range ordered {
		for j, required := range ordered {
			got := holder.Covers(required)
			want := i >= j
			assert.Equal(t, want, got, "%s covers %s", holder, required)
		}
	}

	// Unknown roles never satisfy a requirement and are never satisfied
	// by the lowest real role requirement.
	assert.False(t, UserRole("superuser").Covers(RoleViewer))
	assert.True(t, RoleViewer.Covers(UserRole("")))
}

func TestEnumIsValid(t *testing.T) {
	tests := []struct {
		name  string
		valid bool
		check func() bool
	}{
		{"viewer role", true, RoleViewer.IsValid},
		{"admin role", true, RoleAdmin.IsValid},
		{"unknown role", false, UserRole("owner").IsValid},
		{"active user", true, UserStatusActive.IsValid},
		{"unknown user status", false, UserStatus("banned").IsValid},
		{"client company", true, CompanyTypeClient.IsValid},
		{"unknown company type", false, CompanyType("partner").IsValid},
		{"active contract", true, ContractStatusActive.IsValid},
		{"cancelled contract", true, ContractStatusCancelled.IsValid},
		{"unknown contract status", false, ContractStatus("archived").IsValid},
		{"service contract", true, ContractTypeService.IsValid},
		{"other contract", true, ContractTypeOther.IsValid},
		{"unknown contract type", false, ContractType("rental").IsValid},
		{"draft supplement", true, SupplementStatusDraft.IsValid},
		{"unknown supplement status", false, SupplementStatus("rejected").IsValid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.check())
		})
	}
}

func TestAuthorizedSignerFullName(t *testing.T) {
	signer := &AuthorizedSigner{FirstName: "Ana", LastName: "Torres"}
	assert.Equal(t, "Ana Torres", signer.FullName())
}

func TestDefaultNotificationSettings(t *testing.T) {
	settings := DefaultNotificationSettings()
	assert.True(t, settings.Enabled)
	assert.Equal(t, []int64{30, 15, 7}, []int64(settings.Thresholds))
}
