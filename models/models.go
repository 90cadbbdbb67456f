package models

// CustomerRecord is one validated row of the input CSV. Hours are plain
// 0-23 indexes into a single day; EndHour is exclusive.
// It is shared across packages and read-only once parsed.
type CustomerRecord struct {
	Name               string `validate:"required"`
	AvgDurationSeconds int    `validate:"gt=0"`
	StartHour          int    `validate:"min=0,max=23"`
	EndHour            int    `validate:"min=1,max=24,gtfield=StartHour"`
	NumCalls           int    `validate:"min=0"`
	Priority           int    `validate:"min=1,max=5"`
}

// ActiveHours returns the width of the record's window.
func (r CustomerRecord) ActiveHours() int {
	return r.EndHour - r.StartHour
}

// HourlyAllocation is the agent allocation for a single hour.
// CustomerAgents and UnmetDemand omit zero-valued entries; TotalAgents is
// always the sum of CustomerAgents.
type HourlyAllocation struct {
	Hour           int
	TotalAgents    int
	CustomerAgents map[string]int
	UnmetDemand    map[string]int
}

// Redistribution records one call move made by the shift algorithm.
// Calls are real-valued during redistribution.
type Redistribution struct {
	Customer   string
	FromHour   int
	ToHour     int
	CallsMoved float64
}

// Schedule is a finished scheduling run: 24 hourly allocations in
// ascending hour order, plus any redistribution moves (shift mode only).
type Schedule struct {
	Allocations     []HourlyAllocation
	Redistributions []Redistribution
	// Constrained reports whether a capacity ceiling was applied, which
	// controls whether formatters render unmet demand.
	Constrained bool
}

// TotalUnmetAgents sums unmet demand across all hours and customers.
func (s *Schedule) TotalUnmetAgents() int {
	total := 0
	for _, alloc := range s.Allocations {
		for _, agents := range alloc.UnmetDemand {
			total += agents
		}
	}
	return total
}

// Algorithm selects the capacity-constrained scheduling strategy.
type Algorithm string

const (
	AlgorithmGreedy Algorithm = "greedy"
	AlgorithmShift  Algorithm = "shift"
)

// Valid reports whether a is a known algorithm name.
func (a Algorithm) Valid() bool {
	return a == AlgorithmGreedy || a == AlgorithmShift
}
