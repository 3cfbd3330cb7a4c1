package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DocumentType identifies the kind of source document a classification describes.
type DocumentType string

const (
	DocumentInvoice    DocumentType = "invoice"
	DocumentCreditNote DocumentType = "credit_note"
	DocumentReceipt    DocumentType = "receipt"
	DocumentBank       DocumentType = "bank"
	DocumentOther      DocumentType = "other"
)

// LineItem is a single row of a classified document with its suggested ledger account.
type LineItem struct {
	Description      string          `json:"description"`
	Amount           decimal.Decimal `json:"amount"`
	SuggestedAccount string          `json:"suggestedAccount"` // BAS account code, e.g. "6250"
}

// Classification is the immutable output of the upstream document-classification
// step and the input to every engine in this package. It is never mutated here.
type Classification struct {
	SupplierName    string           `json:"supplierName"`
	SupplierCountry string           `json:"supplierCountry"` // Free-text country name or ISO code
	DocumentType    DocumentType     `json:"documentType"`
	InvoiceNumber   string           `json:"invoiceNumber"`
	InvoiceDate     time.Time        `json:"invoiceDate"`
	DueDate         *time.Time       `json:"dueDate,omitempty"`
	TotalAmount     decimal.Decimal  `json:"totalAmount"`
	VatAmount       *decimal.Decimal `json:"vatAmount,omitempty"` // Explicit VAT when the document states it
	LineItems       []LineItem       `json:"lineItems"`
}

// SuggestedAccounts returns the union of the line items' suggested accounts.
func (c Classification) SuggestedAccounts() []string {
	seen := make(map[string]bool, len(c.LineItems))
	accounts := make([]string, 0, len(c.LineItems))
	for _, li := range c.LineItems {
		if li.SuggestedAccount == "" || seen[li.SuggestedAccount] {
			continue
		}
		seen[li.SuggestedAccount] = true
		accounts = append(accounts, li.SuggestedAccount)
	}
	return accounts
}

// EffectiveDueDate returns the due date, falling back to the invoice date when
// the document carries none.
func (c Classification) EffectiveDueDate() time.Time {
	if c.DueDate != nil {
		return *c.DueDate
	}
	return c.InvoiceDate
}
