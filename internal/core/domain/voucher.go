package domain

import "github.com/shopspring/decimal"

// VoucherLine is one debit or credit entry in a double-entry voucher, expressed
// against a BAS account. A line carries either a debit or a credit amount, not both.
type VoucherLine struct {
	Account     string          `json:"account"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description"`
}

// NewDebitLine creates a voucher line debiting the given account.
func NewDebitLine(account string, amount decimal.Decimal, description string) VoucherLine {
	return VoucherLine{Account: account, Debit: amount, Description: description}
}

// NewCreditLine creates a voucher line crediting the given account.
func NewCreditLine(account string, amount decimal.Decimal, description string) VoucherLine {
	return VoucherLine{Account: account, Credit: amount, Description: description}
}
