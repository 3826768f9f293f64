package loan

import "github.com/shopspring/decimal"

// RateID identifies one entry on the funding rate sheet.
type RateID string

const (
	RateCiti3M            RateID = "citi_3m"
	RateCitiCall          RateID = "citi_call"
	RateSCBT1W            RateID = "scbt_1w"
	RateSCBT2W            RateID = "scbt_2w"
	RateCIMB              RateID = "cimb"
	RatePermata           RateID = "permata"
	RateGeneralCrossMonth RateID = "general_cross_month"
)

// BankRates maps rate sheet entries to annual percent rates.
type BankRates map[RateID]decimal.Decimal

// DefaultBankRates returns the documented default rate sheet.
func DefaultBankRates() BankRates {
	return BankRates{
		RateCiti3M:            decimal.RequireFromString("8.69"),
		RateCitiCall:          decimal.RequireFromString("7.75"),
		RateSCBT1W:            decimal.RequireFromString("6.20"),
		RateSCBT2W:            decimal.RequireFromString("6.60"),
		RateCIMB:              decimal.RequireFromString("7.00"),
		RatePermata:           decimal.RequireFromString("7.00"),
		RateGeneralCrossMonth: decimal.RequireFromString("9.20"),
	}
}

func (r BankRates) clone() BankRates {
	out := make(BankRates, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// OptionalBanks toggles the banks that only participate when enabled.
type OptionalBanks struct {
	CIMB    bool
	Permata bool
}

// DefaultOptionalBanks matches the dashboard default: CIMB in, Permata out.
func DefaultOptionalBanks() OptionalBanks {
	return OptionalBanks{CIMB: true}
}
