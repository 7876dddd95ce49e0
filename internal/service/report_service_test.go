package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mowgliph/pacta-api/internal/domain"
)

func reportContract(status domain.ContractStatus, contractType domain.ContractType, amount float64, start time.Time) domain.Contract {
	return domain.Contract{
		BaseModel:      domain.BaseModel{ID: uuid.New()},
		ContractNumber: "C-REPORT",
		Title:          "Report fixture",
		ClientID:       uuid.New(),
		SupplierID:     uuid.New(),
		StartDate:      start,
		EndDate:        start.AddDate(1, 0, 0),
		Amount:         amount,
		Type:           contractType,
		Status:         status,
	}
}

func TestRoundPercent(t *testing.T) {
	assert.Equal(t, 0.0, roundPercent(5, 0))
	assert.Equal(t, 50.0, roundPercent(1, 2))
	assert.Equal(t, 33.3, roundPercent(1, 3))
	assert.Equal(t, 66.7, roundPercent(2, 3))
	assert.Equal(t, 100.0, roundPercent(4, 4))
}

func TestBuildStatusDistribution(t *testing.T) {
	now := time.Now()
	contracts := []domain.Contract{
		reportContract(domain.ContractStatusActive, domain.ContractTypeService, 100, now),
		reportContract(domain.ContractStatusActive, domain.ContractTypeService, 100, now),
		reportContract(domain.ContractStatusExpired, domain.ContractTypeService, 100, now),
		reportContract(domain.ContractStatusPending, domain.ContractTypeService, 100, now),
	}

	report := BuildStatusDistribution(contracts)

	assert.Equal(t, 4, report.Total)
	require.Len(t, report.ByStatus, 4, "every status appears, including empty buckets")

	byStatus := make(map[domain.ContractStatus]domain.StatusCountDTO)
	for _, entry := range report.ByStatus {
		byStatus[entry.Status] = entry
	}
	assert.Equal(t, 2, byStatus[domain.ContractStatusActive].Count)
	assert.Equal(t, 50.0, byStatus[domain.ContractStatusActive].Percent)
	assert.Equal(t, 1, byStatus[domain.ContractStatusExpired].Count)
	assert.Equal(t, 0, byStatus[domain.ContractStatusCancelled].Count)
	assert.Equal(t, 0.0, byStatus[domain.ContractStatusCancelled].Percent)
}

func TestBuildStatusDistributionEmpty(t *testing.T) {
	report := BuildStatusDistribution(nil)
	assert.Equal(t, 0, report.Total)
	require.Len(t, report.ByStatus, 4)
	for _, entry := range report.ByStatus {
		assert.Equal(t, 0, entry.Count)
		assert.Equal(t, 0.0, entry.Percent)
	}
}

func TestTruncateLabel(t *testing.T) {
	assert.Equal(t, "Short Name", truncateLabel("Short Name"))
	assert.Equal(t, "Exactly15Chars!", truncateLabel("Exactly15Chars!"))
	assert.Equal(t, "A Very Long Org...", truncateLabel("A Very Long Organization Name"))
}

func TestBuildPartyReport(t *testing.T) {
	now := time.Now()
	bigClient := &domain.Client{BaseModel: domain.BaseModel{ID: uuid.New()}, Name: "Big Client"}
	smallClient := &domain.Client{BaseModel: domain.BaseModel{ID: uuid.New()}, Name: "Small Client"}
	supplier := &domain.Supplier{BaseModel: domain.BaseModel{ID: uuid.New()}, Name: "Only Supplier"}

	contracts := []domain.Contract{}
	for _, fixture := range []struct {
		client *domain.Client
		amount float64
	}{
		{bigClient, 500},
		{smallClient, 200},
		{bigClient, 300},
	} {
		c := reportContract(domain.ContractStatusActive, domain.ContractTypeService, fixture.amount, now)
		c.ClientID = fixture.client.ID
		c.Client = fixture.client
		c.SupplierID = supplier.ID
		c.Supplier = supplier
		contracts = append(contracts, c)
	}

	report := BuildPartyReport(contracts)

	require.Len(t, report.Clients, 2)
	assert.Equal(t, "Big Client", report.Clients[0].Name)
	assert.Equal(t, 2, report.Clients[0].Count)
	assert.Equal(t, 800.0, report.Clients[0].TotalValue)
	assert.Equal(t, "Small Client", report.Clients[1].Name)

	require.Len(t, report.Suppliers, 1)
	assert.Equal(t, 3, report.Suppliers[0].Count)
	assert.Equal(t, 1000.0, report.Suppliers[0].TotalValue)

	assert.Equal(t, report.Clients, report.TopClients)
	assert.Equal(t, report.Suppliers, report.TopSuppliers)
}

func TestBuildPartyReportStableTiesAndTopCutoff(t *testing.T) {
	now := time.Now()
	contracts := make([]domain.Contract, 0, 10)
	names := make([]string, 0, 10)
	for i := 0; i < 10; i++ {
		client := &domain.Client{BaseModel: domain.BaseModel{ID: uuid.New()}, Name: string(rune('A' + i))}
		c := reportContract(domain.ContractStatusActive, domain.ContractTypeService, 100, now)
		c.ClientID = client.ID
		c.Client = client
		contracts = append(contracts, c)
		names = append(names, client.Name)
	}

	report := BuildPartyReport(contracts)

	require.Len(t, report.Clients, 10)
	for i, agg := range report.Clients {
		assert.Equal(t, names[i], agg.Name, "equal totals keep first-seen order")
	}
	assert.Len(t, report.TopClients, 8)
	assert.Equal(t, names[:8], func() []string {
		got := make([]string, len(report.TopClients))
		for i, agg := range report.TopClients {
			got[i] = agg.Name
		}
		return got
	}())
}

func TestBuildExpirationBuckets(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	endingIn := func(days int) time.Time {
		return now.Add(time.Duration(days) * 24 * time.Hour)
	}

	contracts := []domain.Contract{}
	add := func(end time.Time, status domain.ContractStatus, number string) {
		c := reportContract(status, domain.ContractTypeService, 100, now.AddDate(0, -6, 0))
		c.ContractNumber = number
		c.EndDate = end
		contracts = append(contracts, c)
	}

	add(endingIn(-2), domain.ContractStatusActive, "EXPIRED")
	add(endingIn(0), domain.ContractStatusActive, "CRIT-0")
	add(endingIn(7), domain.ContractStatusActive, "CRIT-7")
	add(endingIn(8), domain.ContractStatusActive, "WARN-8")
	add(endingIn(15), domain.ContractStatusActive, "WARN-15")
	add(endingIn(16), domain.ContractStatusActive, "ATT-16")
	add(endingIn(30), domain.ContractStatusActive, "ATT-30")
	add(endingIn(31), domain.ContractStatusActive, "SAFE-31")
	add(endingIn(60), domain.ContractStatusActive, "SAFE-60")
	add(endingIn(61), domain.ContractStatusActive, "LONG-61")
	add(endingIn(3), domain.ContractStatusCancelled, "SKIPPED")

	buckets := BuildExpirationBuckets(contracts, now)

	numbers := func(dtos []domain.ContractDTO) []string {
		got := make([]string, len(dtos))
		for i := range dtos {
			got[i] = dtos[i].ContractNumber
		}
		return got
	}

	assert.Equal(t, []string{"EXPIRED"}, numbers(buckets.Expired))
	assert.Equal(t, []string{"CRIT-0", "CRIT-7"}, numbers(buckets.Critical))
	assert.Equal(t, []string{"WARN-8", "WARN-15"}, numbers(buckets.Warning))
	assert.Equal(t, []string{"ATT-16", "ATT-30"}, numbers(buckets.Attention))
	assert.Equal(t, []string{"SAFE-31", "SAFE-60"}, numbers(buckets.Safe))
	assert.Equal(t, []string{"LONG-61"}, numbers(buckets.LongTerm))
}

func TestBuildFinancialReport(t *testing.T) {
	jan := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	mar := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)

	contracts := []domain.Contract{
		reportContract(domain.ContractStatusActive, domain.ContractTypeService, 1000, jan),
		reportContract(domain.ContractStatusExpired, domain.ContractTypeService, 500, jan),
		reportContract(domain.ContractStatusActive, domain.ContractTypeLease, 3000, mar),
	}

	report := BuildFinancialReport(contracts)

	assert.Equal(t, 3, report.ContractCount)
	assert.Equal(t, 4500.0, report.TotalValue)
	assert.Equal(t, 4000.0, report.ActiveValue)
	assert.Equal(t, 1500.0, report.AverageValue)
	assert.Equal(t, 3000.0, report.MaxValue)
	assert.Equal(t, 500.0, report.MinValue)

	require.Len(t, report.ByType, 2)
	assert.Equal(t, domain.ContractTypeLease, report.ByType[0].Type, "types sorted by total descending")
	assert.Equal(t, 3000.0, report.ByType[0].Total)
	assert.Equal(t, domain.ContractTypeService, report.ByType[1].Type)
	assert.Equal(t, 2, report.ByType[1].Count)

	require.Len(t, report.MonthlyTrend, 2)
	assert.Equal(t, "2026-01", report.MonthlyTrend[0].Month, "months sorted ascending")
	assert.Equal(t, 1500.0, report.MonthlyTrend[0].Total)
	assert.Equal(t, "2026-03", report.MonthlyTrend[1].Month)
}

func TestBuildFinancialReportEmpty(t *testing.T) {
	report := BuildFinancialReport(nil)
	assert.Equal(t, 0, report.ContractCount)
	assert.Equal(t, 0.0, report.TotalValue)
	assert.Equal(t, 0.0, report.AverageValue)
	assert.Equal(t, 0.0, report.MaxValue)
	assert.Equal(t, 0.0, report.MinValue)
	assert.Empty(t, report.ByType)
	assert.Empty(t, report.MonthlyTrend)
}

func TestBuildSupplementReport(t *testing.T) {
	contractA := uuid.New()
	contractB := uuid.New()
	feb := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	supplement := func(contractID uuid.UUID, status domain.SupplementStatus, effective time.Time) domain.Supplement {
		return domain.Supplement{
			BaseModel:        domain.BaseModel{ID: uuid.New(), UpdatedAt: effective},
			ContractID:       contractID,
			SupplementNumber: "S-REPORT",
			EffectiveDate:    effective,
			Status:           status,
		}
	}

	supplements := []domain.Supplement{
		supplement(contractA, domain.SupplementStatusDraft, feb),
		supplement(contractA, domain.SupplementStatusActive, feb.AddDate(0, 1, 0)),
		supplement(contractB, domain.SupplementStatusDraft, feb),
	}

	report := BuildSupplementReport(supplements)

	assert.Equal(t, 3, report.Total)
	require.Len(t, report.ByStatus, 3)
	byStatus := make(map[domain.SupplementStatus]domain.SupplementStatusCountDTO)
	for _, entry := range report.ByStatus {
		byStatus[entry.Status] = entry
	}
	assert.Equal(t, 2, byStatus[domain.SupplementStatusDraft].Count)
	assert.Equal(t, 66.7, byStatus[domain.SupplementStatusDraft].Percent)
	assert.Equal(t, 0, byStatus[domain.SupplementStatusApproved].Count)

	require.Len(t, report.ByContract, 2)
	assert.Equal(t, contractA, report.ByContract[0].ContractID, "contract with most supplements first")
	assert.Equal(t, 2, report.ByContract[0].Count)

	require.Len(t, report.MonthlyTrend, 2)
	assert.Equal(t, "2026-02", report.MonthlyTrend[0].Month)
	assert.Equal(t, 2, report.MonthlyTrend[0].Count)
	assert.Equal(t, "2026-03", report.MonthlyTrend[1].Month)
}

func TestBuildModificationReport(t *testing.T) {
	contractA := uuid.New()
	contractB := uuid.New()
	feb := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	mar := feb.AddDate(0, 1, 0)

	supplement := func(contractID uuid.UUID, number, modifications string, updated time.Time) domain.Supplement {
		return domain.Supplement{
			BaseModel:        domain.BaseModel{ID: uuid.New(), UpdatedAt: updated},
			ContractID:       contractID,
			SupplementNumber: number,
			EffectiveDate:    updated,
			Modifications:    modifications,
			Status:           domain.SupplementStatusActive,
		}
	}

	supplements := []domain.Supplement{
		supplement(contractA, "S-1", "Extends the end date by six months", feb),
		supplement(contractA, "S-2", "Raises the contract amount to 12000", mar),
		supplement(contractB, "S-1", "Changes the client signer", feb),
	}

	report := BuildModificationReport(supplements)

	assert.Equal(t, 3, report.TotalSupplements)
	assert.Equal(t, 2, report.ModifiedContracts)
	require.Len(t, report.Contracts, 2)

	// Each entry carries the most recently updated supplement.
	first := report.Contracts[0]
	assert.Equal(t, contractA, first.ContractID)
	assert.Equal(t, 2, first.Count)
	assert.Equal(t, "S-2", first.LatestNumber)
	assert.Equal(t, "Raises the contract amount to 12000", first.LatestModifications)
	assert.Equal(t, mar.Format(time.RFC3339), first.LatestAt)

	second := report.Contracts[1]
	assert.Equal(t, "S-1", second.LatestNumber)
	assert.Equal(t, "Changes the client signer", second.LatestModifications)
}
