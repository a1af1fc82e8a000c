package utils

import (
	"os"

	"github.com/shopspring/decimal"
)

// FeePolicy is a pure function of (unit price, quantity). The ledger and
// the state machines never see fees; only the booking rows carry the
// computed amounts.
type FeePolicy func(unitPrice decimal.Decimal, qty uint8) (serviceFee decimal.Decimal, total decimal.Decimal)

// DefaultFeePolicy applies the platform's flat percentage service fee on
// top of the ticket subtotal. Percentages come from SERVICE_FEE_PERCENT
// and PLATFORM_FEE_PERCENT.
func DefaultFeePolicy(unitPrice decimal.Decimal, qty uint8) (decimal.Decimal, decimal.Decimal) {
	subtotal := unitPrice.Mul(decimal.NewFromInt(int64(qty)))
	serviceFee := subtotal.Mul(feePercent("SERVICE_FEE_PERCENT", "5")).Div(decimal.NewFromInt(100))
	total := subtotal.Add(serviceFee)
	return serviceFee.Round(2), total.Round(2)
}

// PlatformCut is the share of a subtotal kept by the platform, used in
// organizer payout summaries.
func PlatformCut(subtotal decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(feePercent("PLATFORM_FEE_PERCENT", "10")).Div(decimal.NewFromInt(100)).Round(2)
}

func feePercent(envKey, fallback string) decimal.Decimal {
	v := os.Getenv(envKey)
	if v == "" {
		v = fallback
	}
	pct, err := decimal.NewFromString(v)
	if err != nil {
		pct, _ = decimal.NewFromString(fallback)
	}
	return pct
}
