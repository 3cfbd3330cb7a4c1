package mapping

import (
	"github.com/AIFMgroup/AIFM-sub010/internal/core/domain"
	"github.com/AIFMgroup/AIFM-sub010/internal/models"
)

// ToModelBankTransaction converts a domain BankTransaction to its DB model.
// A nil MatchedJobID becomes the empty string; the repository writes NULL for it.
func ToModelBankTransaction(d domain.BankTransaction) models.BankTransaction {
	matchedJobID := ""
	if d.MatchedJobID != nil {
		matchedJobID = *d.MatchedJobID
	}
	return models.BankTransaction{
		TransactionID: d.TransactionID,
		CompanyID:     d.CompanyID,
		BankAccountID: d.BankAccountID,
		BookingDate:   d.BookingDate,
		Amount:        d.Amount,
		CurrencyCode:  d.CurrencyCode,
		Description:   d.Description,
		Counterparty:  d.Counterparty,
		Reference:     d.Reference,
		Status:        string(d.Status),
		RawPayload:    d.RawPayload,
		MatchedJobID:  matchedJobID,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainBankTransaction converts a DB model row back to the domain type.
func ToDomainBankTransaction(m models.BankTransaction) domain.BankTransaction {
	var matchedJobID *string
	if m.MatchedJobID != "" {
		id := m.MatchedJobID
		matchedJobID = &id
	}
	return domain.BankTransaction{
		TransactionID: m.TransactionID,
		CompanyID:     m.CompanyID,
		BankAccountID: m.BankAccountID,
		BookingDate:   m.BookingDate,
		Amount:        m.Amount,
		CurrencyCode:  m.CurrencyCode,
		Description:   m.Description,
		Counterparty:  m.Counterparty,
		Reference:     m.Reference,
		Status:        domain.TransactionStatus(m.Status),
		RawPayload:    m.RawPayload,
		MatchedJobID:  matchedJobID,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}
