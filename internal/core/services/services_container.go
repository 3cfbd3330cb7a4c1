package services

import (
	"github.com/AIFMgroup/AIFM-sub010/internal/core/domain"
	portsrepo "github.com/AIFMgroup/AIFM-sub010/internal/core/ports/repositories"
	portssvc "github.com/AIFMgroup/AIFM-sub010/internal/core/ports/services"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(repos portsrepo.RepositoryProvider, matchCfg domain.MatchingConfig) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// The VAT calculator is pure and has no repository dependencies
	container.Vat = NewVatService()

	container.Periodization = NewPeriodizationService(repos.PeriodizationRepo)
	container.Approval = NewApprovalService(repos.RuleRepo, repos.SupplierMemoryRepo)
	container.Matching = NewMatchingService(repos.BankTransactionRepo, matchCfg)

	return container
}
