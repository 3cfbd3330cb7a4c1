package accounting

import (
	"fmt"

	"github.com/AIFMgroup/AIFM-sub010/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ValidateVoucherBalance checks that a set of voucher lines forms a postable
// double-entry voucher: at least two lines, every line carries an amount on
// exactly one side, and total debits equal total credits.
func ValidateVoucherBalance(lines []domain.VoucherLine) error {
	if len(lines) < 2 {
		return fmt.Errorf("voucher must have at least two lines")
	}

	zero := decimal.NewFromInt(0)
	debits := zero
	credits := zero

	for i, line := range lines {
		if line.Account == "" {
			return fmt.Errorf("voucher line %d has no account", i)
		}
		hasDebit := line.Debit.GreaterThan(zero)
		hasCredit := line.Credit.GreaterThan(zero)
		if hasDebit == hasCredit {
			return fmt.Errorf("voucher line %d for account %s must have an amount on exactly one side", i, line.Account)
		}
		if line.Debit.LessThan(zero) || line.Credit.LessThan(zero) {
			return fmt.Errorf("voucher line %d for account %s has a negative amount", i, line.Account)
		}
		debits = debits.Add(line.Debit)
		credits = credits.Add(line.Credit)
	}

	if !debits.Equal(credits) {
		return fmt.Errorf("voucher does not balance: debits %s, credits %s", debits, credits)
	}
	return nil
}

// SumDebits totals the debit side of a voucher.
func SumDebits(lines []domain.VoucherLine) decimal.Decimal {
	sum := decimal.Zero
	for _, line := range lines {
		sum = sum.Add(line.Debit)
	}
	return sum
}

// SumCredits totals the credit side of a voucher.
func SumCredits(lines []domain.VoucherLine) decimal.Decimal {
	sum := decimal.Zero
	for _, line := range lines {
		sum = sum.Add(line.Credit)
	}
	return sum
}
