package application

import (
	"github.com/barter-network/barterd/internal/core/domain"
)

// FeeCalculator computes the protocol fee owed for a trade from a fixed
// per-item rate. Amounts are expressed in the smallest fee unit and all
// arithmetic is integer, no rounding ever happens.
type FeeCalculator struct {
	perItemRate uint64
}

func NewFeeCalculator(perItemRate uint64) FeeCalculator {
	return FeeCalculator{perItemRate}
}

// PerItemRate returns the fee charged for every asset involved in a trade.
func (f FeeCalculator) PerItemRate() uint64 {
	return f.perItemRate
}

// Fee returns the total fee owed for a trade involving the given number of
// offered and requested assets.
func (f FeeCalculator) Fee(offeredCount, requestedCount int) uint64 {
	return f.perItemRate * uint64(offeredCount+requestedCount)
}

// CheckPayment validates the supplied payment against the expected fee.
// The payment must match exactly: underpayments fail with
// ErrInsufficientFeePaid, overpayments are rejected with ErrFeeMismatch
// instead of being refunded.
func (f FeeCalculator) CheckPayment(
	paid uint64, offeredCount, requestedCount int,
) error {
	expected := f.Fee(offeredCount, requestedCount)
	if paid < expected {
		return domain.ErrInsufficientFeePaid
	}
	if paid > expected {
		return domain.ErrFeeMismatch
	}
	return nil
}
