package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/mowgliph/pacta-api/internal/domain"
	"github.com/mowgliph/pacta-api/internal/repository"
	"go.uber.org/zap"
)

// chartLabelMax caps party names on chart axes.
const chartLabelMax = 15

// topPartyCount is the number of parties in the top lists.
const topPartyCount = 8

// ReportService aggregates contracts and supplements into dashboard
// reports. The aggregation itself is pure; the service methods load the
// data and enforce permissions.
type ReportService struct {
	contractRepo   *repository.ContractRepository
	supplementRepo *repository.SupplementRepository
	permissions    *PermissionService
	audit          *AuditLogService
	logger         *zap.Logger
}

// NewReportService creates a new report service
func NewReportService(
	contractRepo *repository.ContractRepository,
	supplementRepo *repository.SupplementRepository,
	permissions *PermissionService,
	audit *AuditLogService,
	logger *zap.Logger,
) *ReportService {
	return &ReportService{
		contractRepo:   contractRepo,
		supplementRepo: supplementRepo,
		permissions:    permissions,
		audit:          audit,
		logger:         logger,
	}
}

// StatusDistribution returns the contract status report.
func (s *ReportService) StatusDistribution(ctx context.Context) (*domain.StatusDistributionDTO, error) {
	contracts, err := s.loadContracts(ctx)
	if err != nil {
		return nil, err
	}
	report := BuildStatusDistribution(contracts)
	return &report, nil
}

// PartyReport returns contracts grouped by client and by supplier.
func (s *ReportService) PartyReport(ctx context.Context) (*domain.PartyReportDTO, error) {
	contracts, err := s.loadContracts(ctx)
	if err != nil {
		return nil, err
	}
	report := BuildPartyReport(contracts)
	return &report, nil
}

// ExpirationReport partitions active contracts into urgency buckets.
func (s *ReportService) ExpirationReport(ctx context.Context) (*domain.ExpirationBucketsDTO, error) {
	contracts, err := s.loadContracts(ctx)
	if err != nil {
		return nil, err
	}
	report := BuildExpirationBuckets(contracts, time.Now())
	return &report, nil
}

// FinancialReport returns the financial summary over all contracts.
func (s *ReportService) FinancialReport(ctx context.Context) (*domain.FinancialReportDTO, error) {
	contracts, err := s.loadContracts(ctx)
	if err != nil {
		return nil, err
	}
	report := BuildFinancialReport(contracts)
	return &report, nil
}

// SupplementReport returns the supplement activity summary.
func (s *ReportService) SupplementReport(ctx context.Context) (*domain.SupplementReportDTO, error) {
	if err := s.permissions.RequirePermission(ctx, domain.RoleManager); err != nil {
		return nil, err
	}
	supplements, err := s.supplementRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load supplements: %w", err)
	}
	report := BuildSupplementReport(supplements)
	return &report, nil
}

// ModificationReport returns the per-contract modification summary.
func (s *ReportService) ModificationReport(ctx context.Context) (*domain.ModificationReportDTO, error) {
	if err := s.permissions.RequirePermission(ctx, domain.RoleManager); err != nil {
		return nil, err
	}
	supplements, err := s.supplementRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load supplements: %w", err)
	}
	report := BuildModificationReport(supplements)
	return &report, nil
}

// RecordExport writes an audit entry for a report export. Exports are
// read-only, so a failed audit write is logged rather than surfaced.
func (s *ReportService) RecordExport(ctx context.Context, reportName, format string) {
	err := s.audit.Record(ctx, nil, domain.AuditActionExport,
		fmt.Sprintf("Exported %s report as %s", reportName, format))
	if err != nil {
		s.logger.Warn("report export not audited",
			zap.String("report", reportName),
			zap.Error(err))
	}
}

func (s *ReportService) loadContracts(ctx context.Context) ([]domain.Contract, error) {
	if err := s.permissions.RequirePermission(ctx, domain.RoleManager); err != nil {
		return nil, err
	}
	contracts, err := s.contractRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load contracts: %w", err)
	}
	return contracts, nil
}

// roundPercent returns the share of count in total as a percentage with
// one decimal place, and 0 when total is 0.
func roundPercent(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(count)/float64(total)*1000) / 10
}

// BuildStatusDistribution counts contracts per status. Every status
// appears in the result, including empty buckets, in a fixed order.
func BuildStatusDistribution(contracts []domain.Contract) domain.StatusDistributionDTO {
	statuses := []domain.ContractStatus{
		domain.ContractStatusActive,
		domain.ContractStatusExpired,
		domain.ContractStatusPending,
		domain.ContractStatusCancelled,
	}

	counts := make(map[domain.ContractStatus]int, len(statuses))
	for i := range contracts {
		counts[contracts[i].Status]++
	}

	total := len(contracts)
	byStatus := make([]domain.StatusCountDTO, 0, len(statuses))
	for _, status := range statuses {
		byStatus = append(byStatus, domain.StatusCountDTO{
			Status:  status,
			Count:   counts[status],
			Percent: roundPercent(counts[status], total),
		})
	}

	return domain.StatusDistributionDTO{Total: total, ByStatus: byStatus}
}

// truncateLabel shortens a party name for chart axes.
func truncateLabel(name string) string {
	runes := []rune(name)
	if len(runes) <= chartLabelMax {
		return name
	}
	return string(runes[:chartLabelMax]) + "..."
}

// BuildPartyReport aggregates contract count and value per client and
// per supplier, sorted by total value descending. Parties with equal
// totals keep their relative order. The top lists carry the first
// entries of each side.
func BuildPartyReport(contracts []domain.Contract) domain.PartyReportDTO {
	clients := aggregateParties(contracts, func(c *domain.Contract) (uuid.UUID, string) {
		name := ""
		if c.Client != nil {
			name = c.Client.Name
		}
		return c.ClientID, name
	})
	suppliers := aggregateParties(contracts, func(c *domain.Contract) (uuid.UUID, string) {
		name := ""
		if c.Supplier != nil {
			name = c.Supplier.Name
		}
		return c.SupplierID, name
	})

	return domain.PartyReportDTO{
		Clients:      clients,
		Suppliers:    suppliers,
		TopClients:   topParties(clients),
		TopSuppliers: topParties(suppliers),
	}
}

func aggregateParties(contracts []domain.Contract, key func(*domain.Contract) (uuid.UUID, string)) []domain.PartyAggregateDTO {
	byID := make(map[uuid.UUID]*domain.PartyAggregateDTO)
	order := make([]uuid.UUID, 0)

	for i := range contracts {
		id, name := key(&contracts[i])
		agg, ok := byID[id]
		if !ok {
			agg = &domain.PartyAggregateDTO{
				ID:         id,
				Name:       name,
				ChartLabel: truncateLabel(name),
			}
			byID[id] = agg
			order = append(order, id)
		}
		agg.Count++
		agg.TotalValue += contracts[i].Amount
	}

	result := make([]domain.PartyAggregateDTO, 0, len(order))
	for _, id := range order {
		result = append(result, *byID[id])
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].TotalValue > result[j].TotalValue
	})
	return result
}

func topParties(parties []domain.PartyAggregateDTO) []domain.PartyAggregateDTO {
	if len(parties) <= topPartyCount {
		return parties
	}
	return parties[:topPartyCount]
}

// BuildExpirationBuckets partitions active contracts by days until
// expiration. Every active contract lands in exactly one bucket.
func BuildExpirationBuckets(contracts []domain.Contract, now time.Time) domain.ExpirationBucketsDTO {
	buckets := domain.ExpirationBucketsDTO{
		Expired:   []domain.ContractDTO{},
		Critical:  []domain.ContractDTO{},
		Warning:   []domain.ContractDTO{},
		Attention: []domain.ContractDTO{},
		Safe:      []domain.ContractDTO{},
		LongTerm:  []domain.ContractDTO{},
	}

	for i := range contracts {
		contract := &contracts[i]
		if contract.Status != domain.ContractStatusActive {
			continue
		}

		dto := domain.NewContractDTO(contract)
		days := daysUntil(contract.EndDate, now)
		switch {
		case days < 0:
			buckets.Expired = append(buckets.Expired, dto)
		case days <= 7:
			buckets.Critical = append(buckets.Critical, dto)
		case days <= 15:
			buckets.Warning = append(buckets.Warning, dto)
		case days <= 30:
			buckets.Attention = append(buckets.Attention, dto)
		case days <= 60:
			buckets.Safe = append(buckets.Safe, dto)
		default:
			buckets.LongTerm = append(buckets.LongTerm, dto)
		}
	}

	return buckets
}

// BuildFinancialReport sums contract values overall, per type and per
// start month. All figures are 0 for empty input.
func BuildFinancialReport(contracts []domain.Contract) domain.FinancialReportDTO {
	report := domain.FinancialReportDTO{
		ByType:        []domain.TypeAmountDTO{},
		MonthlyTrend:  []domain.MonthlyAmountDTO{},
		ContractCount: len(contracts),
	}
	if len(contracts) == 0 {
		return report
	}

	byType := make(map[domain.ContractType]*domain.TypeAmountDTO)
	byMonth := make(map[string]*domain.MonthlyAmountDTO)
	report.MaxValue = contracts[0].Amount
	report.MinValue = contracts[0].Amount

	for i := range contracts {
		contract := &contracts[i]
		report.TotalValue += contract.Amount
		if contract.Status == domain.ContractStatusActive {
			report.ActiveValue += contract.Amount
		}
		if contract.Amount > report.MaxValue {
			report.MaxValue = contract.Amount
		}
		if contract.Amount < report.MinValue {
			report.MinValue = contract.Amount
		}

		ta, ok := byType[contract.Type]
		if !ok {
			ta = &domain.TypeAmountDTO{Type: contract.Type}
			byType[contract.Type] = ta
		}
		ta.Count++
		ta.Total += contract.Amount

		month := contract.StartDate.Format("2006-01")
		ma, ok := byMonth[month]
		if !ok {
			ma = &domain.MonthlyAmountDTO{Month: month}
			byMonth[month] = ma
		}
		ma.Count++
		ma.Total += contract.Amount
	}

	report.AverageValue = report.TotalValue / float64(len(contracts))

	for _, ta := range byType {
		report.ByType = append(report.ByType, *ta)
	}
	sort.SliceStable(report.ByType, func(i, j int) bool {
		return report.ByType[i].Total > report.ByType[j].Total
	})

	for _, ma := range byMonth {
		report.MonthlyTrend = append(report.MonthlyTrend, *ma)
	}
	sort.Slice(report.MonthlyTrend, func(i, j int) bool {
		return report.MonthlyTrend[i].Month < report.MonthlyTrend[j].Month
	})

	return report
}

// BuildSupplementReport aggregates supplements by status, by parent
// contract and by effective month.
func BuildSupplementReport(supplements []domain.Supplement) domain.SupplementReportDTO {
	report := domain.SupplementReportDTO{
		Total:        len(supplements),
		ByStatus:     []domain.SupplementStatusCountDTO{},
		ByContract:   []domain.ContractSupplementsDTO{},
		MonthlyTrend: []domain.MonthlyAmountDTO{},
	}

	statuses := []domain.SupplementStatus{
		domain.SupplementStatusDraft,
		domain.SupplementStatusApproved,
		domain.SupplementStatusActive,
	}
	statusCounts := make(map[domain.SupplementStatus]int, len(statuses))

	type contractAgg struct {
		dto    domain.ContractSupplementsDTO
		latest time.Time
	}
	byContract := make(map[uuid.UUID]*contractAgg)
	contractOrder := make([]uuid.UUID, 0)
	byMonth := make(map[string]*domain.MonthlyAmountDTO)

	for i := range supplements {
		supplement := &supplements[i]
		statusCounts[supplement.Status]++

		agg, ok := byContract[supplement.ContractID]
		if !ok {
			agg = &contractAgg{dto: domain.ContractSupplementsDTO{ContractID: supplement.ContractID}}
			if supplement.Contract != nil {
				agg.dto.ContractNumber = supplement.Contract.ContractNumber
				agg.dto.ContractTitle = supplement.Contract.Title
			}
			byContract[supplement.ContractID] = agg
			contractOrder = append(contractOrder, supplement.ContractID)
		}
		agg.dto.Count++
		if supplement.UpdatedAt.After(agg.latest) {
			agg.latest = supplement.UpdatedAt
			agg.dto.LatestAt = supplement.UpdatedAt.Format(time.RFC3339)
			agg.dto.LatestNumber = supplement.SupplementNumber
			agg.dto.LatestModifications = supplement.Modifications
		}

		month := supplement.EffectiveDate.Format("2006-01")
		ma, ok := byMonth[month]
		if !ok {
			ma = &domain.MonthlyAmountDTO{Month: month}
			byMonth[month] = ma
		}
		ma.Count++
	}

	for _, status := range statuses {
		report.ByStatus = append(report.ByStatus, domain.SupplementStatusCountDTO{
			Status:  status,
			Count:   statusCounts[status],
			Percent: roundPercent(statusCounts[status], report.Total),
		})
	}

	for _, id := range contractOrder {
		report.ByContract = append(report.ByContract, byContract[id].dto)
	}
	sort.SliceStable(report.ByContract, func(i, j int) bool {
		if report.ByContract[i].Count != report.ByContract[j].Count {
			return report.ByContract[i].Count > report.ByContract[j].Count
		}
		return report.ByContract[i].LatestAt > report.ByContract[j].LatestAt
	})

	for _, ma := range byMonth {
		report.MonthlyTrend = append(report.MonthlyTrend, *ma)
	}
	sort.Slice(report.MonthlyTrend, func(i, j int) bool {
		return report.MonthlyTrend[i].Month < report.MonthlyTrend[j].Month
	})

	return report
}

// BuildModificationReport lists every contract that has supplements
// along with its latest supplement's number, date and modifications
// text. Ordering follows the supplement report: most supplements
// first, then most recently modified.
func BuildModificationReport(supplements []domain.Supplement) domain.ModificationReportDTO {
	supplementReport := BuildSupplementReport(supplements)
	return domain.ModificationReportDTO{
		TotalSupplements:  supplementReport.Total,
		ModifiedContracts: len(supplementReport.ByContract),
		Contracts:         supplementReport.ByContract,
	}
}
