package pgsql

import (
	portsrepo "github.com/AIFMgroup/AIFM-sub010/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	ruleRepo := newPgxRuleRepository(dbPool)
	bankTransactionRepo := newPgxBankTransactionRepository(dbPool)
	periodizationRepo := newPgxPeriodizationRepository(dbPool)
	supplierMemoryRepo := newPgxSupplierRepository(dbPool)

	return portsrepo.RepositoryProvider{
		RuleRepo:            ruleRepo,
		BankTransactionRepo: bankTransactionRepo,
		PeriodizationRepo:   periodizationRepo,
		SupplierMemoryRepo:  supplierMemoryRepo,
	}
}
