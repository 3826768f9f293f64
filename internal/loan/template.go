package loan

// template is one member of the fixed strategy catalogue. Every template
// feeds the same segment-generation routine; there is no per-bank logic
// beyond these parameters.
type template struct {
	name      string
	lender    string
	rateID    RateID
	chunkDays int                      // 0 = one chunk spanning the whole period
	optional  func(OptionalBanks) bool // nil = always generated
}

func (t template) enabled(b OptionalBanks) bool {
	return t.optional == nil || t.optional(b)
}

func catalogue() []template {
	return []template{
		{name: "CITI 3-month", lender: "CITI 3M", rateID: RateCiti3M, chunkDays: 0},
		{name: "SCBT 1-week rolling", lender: "SCBT 1w", rateID: RateSCBT1W, chunkDays: 7},
		{name: "SCBT 2-week rolling", lender: "SCBT 2w", rateID: RateSCBT2W, chunkDays: 14},
		{name: "CIMB 1-month", lender: "CIMB 1M", rateID: RateCIMB, chunkDays: 30,
			optional: func(b OptionalBanks) bool { return b.CIMB }},
		{name: "Permata 1-month", lender: "Permata 1M", rateID: RatePermata, chunkDays: 30,
			optional: func(b OptionalBanks) bool { return b.Permata }},
	}
}
