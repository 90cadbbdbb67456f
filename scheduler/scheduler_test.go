package scheduler_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"call-scheduler/models"
	"call-scheduler/scheduler"
)

func record(name string, durationSeconds, startHour, endHour, numCalls, priority int) models.CustomerRecord {
	return models.CustomerRecord{
		Name:               name,
		AvgDurationSeconds: durationSeconds,
		StartHour:          startHour,
		EndHour:            endHour,
		NumCalls:           numCalls,
		Priority:           priority,
	}
}

func TestAgentsPerHour(t *testing.T) {
	tests := map[string]struct {
		rec         models.CustomerRecord
		utilization float64
		wantAgents  int // expected for every hour in the window
		wantHours   int
	}{
		"UniformTenHourWindow": {
			// 3600 calls over 10 hours = 360 calls/hour.
			// ceil(360 * 10 / 3600) = 1 agent.
			rec:         record("Basic", 10, 9, 19, 3600, 1),
			utilization: 1.0,
			wantAgents:  1,
			wantHours:   10,
		},
		"CeilingAppliedToFinalCount": {
			// 1 call/hour * 100s / 3600 = 0.028 agents -> ceil to 1.
			rec:         record("Tiny", 100, 9, 19, 10, 1),
			utilization: 1.0,
			wantAgents:  1,
			wantHours:   10,
		},
		"UtilizationScalesInversely": {
			// 360 * 10 / 3600 / 0.5 = 2 agents at 50% utilization.
			rec:         record("HalfUtil", 10, 9, 19, 3600, 1),
			utilization: 0.5,
			wantAgents:  2,
			wantHours:   10,
		},
		"FractionalCallsPerHour": {
			// 20000 calls over 10 hours = 2000/hour.
			// 2000 * 300 / 3600 = 166.67 -> 167 agents.
			rec:         record("Stanford Hospital", 300, 9, 19, 20000, 1),
			utilization: 1.0,
			wantAgents:  167,
			wantHours:   10,
		},
		"ZeroCalls": {
			rec:         record("Quiet", 300, 9, 12, 0, 1),
			utilization: 1.0,
			wantAgents:  0,
			wantHours:   3,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			hourly := scheduler.AgentsPerHour(tt.rec, tt.utilization)

			assert.Len(t, hourly, tt.wantHours)
			for hour := tt.rec.StartHour; hour < tt.rec.EndHour; hour++ {
				assert.Equal(t, tt.wantAgents, hourly[hour], fmt.Sprintf("hour %d", hour))
			}
		})
	}
}

func TestAgentsPerHour_EmptyWindow(t *testing.T) {
	rec := record("Empty", 300, 9, 9, 100, 1)
	assert.Empty(t, scheduler.AgentsPerHour(rec, 1.0))
}

func TestUnconstrained(t *testing.T) {
	records := []models.CustomerRecord{
		record("Alpha", 3600, 9, 11, 10, 1), // 5 agents/hour, hours 9-10
		record("Beta", 3600, 10, 12, 10, 2), // 5 agents/hour, hours 10-11
	}

	allocations := scheduler.Unconstrained(records, 1.0)
	require.Len(t, allocations, 24)

	for hour, alloc := range allocations {
		assert.Equal(t, hour, alloc.Hour, "allocations must be in ascending hour order")
		assert.Empty(t, alloc.UnmetDemand, "unconstrained mode never has unmet demand")

		sum := 0
		for _, agents := range alloc.CustomerAgents {
			sum += agents
		}
		assert.Equal(t, alloc.TotalAgents, sum, "total must equal the sum of customer agents")
	}

	assert.Equal(t, map[string]int{"Alpha": 5}, allocations[9].CustomerAgents)
	assert.Equal(t, map[string]int{"Alpha": 5, "Beta": 5}, allocations[10].CustomerAgents)
	assert.Equal(t, map[string]int{"Beta": 5}, allocations[11].CustomerAgents)
	assert.Empty(t, allocations[8].CustomerAgents, "inactive hours omit zero-agent customers")
	assert.Equal(t, 10, allocations[10].TotalAgents)
}

func TestUnconstrained_DuplicateNamesAggregate(t *testing.T) {
	records := []models.CustomerRecord{
		record("Same", 3600, 9, 10, 5, 1),
		record("Same", 3600, 9, 10, 5, 3),
	}

	allocations := scheduler.Unconstrained(records, 1.0)

	assert.Equal(t, 10, allocations[9].CustomerAgents["Same"],
		"duplicate names are independent demand sources aggregated under one key")
	assert.Equal(t, 10, allocations[9].TotalAgents)
}

func TestUnconstrained_OrderIndependent(t *testing.T) {
	a := record("Alpha", 300, 8, 12, 1000, 1)
	b := record("Beta", 600, 10, 14, 2000, 3)
	c := record("Gamma", 120, 0, 24, 5000, 5)

	forward := scheduler.Unconstrained([]models.CustomerRecord{a, b, c}, 0.9)
	reversed := scheduler.Unconstrained([]models.CustomerRecord{c, b, a}, 0.9)

	assert.Equal(t, forward, reversed)
}

func TestWithCapacity_PriorityOrder(t *testing.T) {
	records := []models.CustomerRecord{
		record("LowPriority", 3600, 10, 11, 10, 2),
		record("HighPriority", 3600, 10, 11, 10, 1),
	}

	// Capacity 15, total demand 20: the priority-1 customer is served in
	// full, the priority-2 customer takes what remains.
	allocations := scheduler.WithCapacity(records, 1.0, 15)
	require.Len(t, allocations, 24)

	alloc := allocations[10]
	assert.Equal(t, 10, alloc.CustomerAgents["HighPriority"])
	assert.Equal(t, 5, alloc.CustomerAgents["LowPriority"])
	assert.Equal(t, 15, alloc.TotalAgents)
	assert.Equal(t, map[string]int{"LowPriority": 5}, alloc.UnmetDemand)
}

func TestWithCapacity_EqualPriorityKeepsInputOrder(t *testing.T) {
	records := []models.CustomerRecord{
		record("First", 3600, 10, 11, 10, 3),
		record("Second", 3600, 10, 11, 10, 3),
	}

	allocations := scheduler.WithCapacity(records, 1.0, 15)

	alloc := allocations[10]
	assert.Equal(t, 10, alloc.CustomerAgents["First"], "stable sort serves earlier input first on ties")
	assert.Equal(t, 5, alloc.CustomerAgents["Second"])
	assert.Equal(t, map[string]int{"Second": 5}, alloc.UnmetDemand)
}

func TestWithCapacity_CeilingHolds(t *testing.T) {
	records := []models.CustomerRecord{
		record("A", 3600, 0, 24, 2400, 1), // 100 agents/hour all day
		record("B", 3600, 6, 18, 1200, 3), // 100 agents/hour 6-17
		record("C", 3600, 9, 17, 1600, 5), // 200 agents/hour 9-16
	}

	capacity := 150
	allocations := scheduler.WithCapacity(records, 1.0, capacity)

	for _, alloc := range allocations {
		assert.LessOrEqual(t, alloc.TotalAgents, capacity,
			fmt.Sprintf("hour %d exceeds capacity", alloc.Hour))
	}
}

func TestWithCapacity_NoBacktracking(t *testing.T) {
	// Priority is a hard ordering: a higher-priority customer with unmet
	// demand is impossible while a lower-priority one is served.
	records := []models.CustomerRecord{
		record("P1", 3600, 9, 12, 300, 1), // 100 agents/hour
		record("P2", 3600, 9, 12, 150, 2), // 50 agents/hour
		record("P3", 3600, 9, 12, 150, 3), // 50 agents/hour
	}

	allocations := scheduler.WithCapacity(records, 1.0, 120)

	for hour := 9; hour < 12; hour++ {
		alloc := allocations[hour]
		assert.Equal(t, 100, alloc.CustomerAgents["P1"], "priority 1 is always served in full first")
		assert.Equal(t, 20, alloc.CustomerAgents["P2"])
		assert.Zero(t, alloc.CustomerAgents["P3"])
		assert.Equal(t, map[string]int{"P2": 30, "P3": 50}, alloc.UnmetDemand)
	}
}

func TestWithCapacity_MatchesUnconstrainedWhenAmple(t *testing.T) {
	records := []models.CustomerRecord{
		record("Alpha", 300, 8, 12, 1000, 1),
		record("Beta", 600, 10, 14, 2000, 3),
		record("Gamma", 120, 0, 24, 5000, 5),
	}

	unconstrained := scheduler.Unconstrained(records, 0.8)
	constrained := scheduler.WithCapacity(records, 0.8, 100000)

	for hour := 0; hour < 24; hour++ {
		assert.Equal(t, unconstrained[hour].CustomerAgents, constrained[hour].CustomerAgents)
		assert.Equal(t, unconstrained[hour].TotalAgents, constrained[hour].TotalAgents)
		assert.Empty(t, constrained[hour].UnmetDemand)
	}
}

func TestWithCapacity_Deterministic(t *testing.T) {
	records := []models.CustomerRecord{
		record("A", 300, 8, 12, 1000, 2),
		record("B", 600, 9, 14, 2000, 2),
		record("C", 120, 0, 24, 5000, 1),
	}

	first := scheduler.WithCapacity(records, 0.75, 90)
	second := scheduler.WithCapacity(records, 0.75, 90)

	assert.Equal(t, first, second)
}

func TestWithCapacityShift_SaturatedWindow(t *testing.T) {
	// 400 calls over [9,13) at one hour each = 100 agents/hour against a
	// capacity of 80. Every hour of the window overflows and there is
	// nowhere to shift to, so the result is full capacity everywhere:
	// 320 allocated agent-hours and 80 unmet.
	records := []models.CustomerRecord{
		record("Test", 3600, 9, 13, 400, 1),
	}

	allocations, _ := scheduler.WithCapacityShift(records, 1.0, 80)
	require.Len(t, allocations, 24)

	totalAllocated := 0
	totalUnmet := 0
	for _, alloc := range allocations {
		assert.LessOrEqual(t, alloc.TotalAgents, 80)
		totalAllocated += alloc.TotalAgents
		for _, agents := range alloc.UnmetDemand {
			totalUnmet += agents
		}
	}

	for hour := 9; hour < 13; hour++ {
		assert.Equal(t, 80, allocations[hour].TotalAgents, fmt.Sprintf("hour %d should be at capacity", hour))
	}
	assert.Equal(t, 320, totalAllocated)
	assert.Equal(t, 80, totalUnmet)
}

func TestWithCapacityShift_TwoCustomersSharedPeak(t *testing.T) {
	// Two customers of 50 agents/hour each share a fully saturated
	// window: combined demand 100/hour against capacity 80 leaves
	// 320 allocated and 80 unmet agent-hours, split by priority.
	records := []models.CustomerRecord{
		record("Primary", 3600, 9, 13, 200, 1),
		record("Secondary", 3600, 9, 13, 200, 2),
	}

	allocations, _ := scheduler.WithCapacityShift(records, 1.0, 80)

	totalAllocated := 0
	totalUnmet := 0
	for _, alloc := range allocations {
		totalAllocated += alloc.TotalAgents
		for _, agents := range alloc.UnmetDemand {
			totalUnmet += agents
		}
	}

	assert.Equal(t, 320, totalAllocated)
	assert.Equal(t, 80, totalUnmet)
	for hour := 9; hour < 13; hour++ {
		alloc := allocations[hour]
		assert.Equal(t, 50, alloc.CustomerAgents["Primary"], "priority 1 stays fully served")
		assert.Equal(t, 30, alloc.CustomerAgents["Secondary"])
		assert.Equal(t, map[string]int{"Secondary": 20}, alloc.UnmetDemand)
	}
}

func TestWithCapacityShift_PreservesHighPriorityDistribution(t *testing.T) {
	// High priority: 50 agents/hour over [9,11). Low priority: 60
	// agents/hour over [9,13). Capacity 100 leaves hours 9-10 with an
	// overflow of 10 that the low-priority customer absorbs by shifting
	// calls into hour 11.
	records := []models.CustomerRecord{
		record("HighPriority", 3600, 9, 11, 100, 1),
		record("LowPriority", 3600, 9, 13, 240, 5),
	}

	allocations, moves := scheduler.WithCapacityShift(records, 1.0, 100)

	for hour := 9; hour < 11; hour++ {
		alloc := allocations[hour]
		assert.Equal(t, 50, alloc.CustomerAgents["HighPriority"],
			fmt.Sprintf("hour %d: high priority keeps its even distribution", hour))
		assert.Equal(t, 50, alloc.CustomerAgents["LowPriority"])
	}
	assert.Equal(t, 80, allocations[11].CustomerAgents["LowPriority"])
	assert.Equal(t, 60, allocations[12].CustomerAgents["LowPriority"])

	for hour := 9; hour < 13; hour++ {
		assert.LessOrEqual(t, allocations[hour].TotalAgents, 100)
	}

	require.NotEmpty(t, moves)
	for _, move := range moves {
		assert.Equal(t, "LowPriority", move.Customer, "only the low-priority customer is redistributed")
		assert.Positive(t, move.CallsMoved)
	}
}

func TestWithCapacityShift_NoMovesUnderCapacity(t *testing.T) {
	records := []models.CustomerRecord{
		record("Test", 3600, 9, 13, 40, 1), // 10 agents/hour
	}

	allocations, moves := scheduler.WithCapacityShift(records, 1.0, 100)

	assert.Empty(t, moves)
	assert.Equal(t, scheduler.WithCapacity(records, 1.0, 100), allocations)
}

func TestWithCapacityShift_DominatesGreedy(t *testing.T) {
	// Steady has spare hours either side of the Burst peak; shifting its
	// calls out of the contested hours removes the shortfall that pure
	// greedy allocation leaves behind.
	records := []models.CustomerRecord{
		record("Steady", 3600, 8, 16, 800, 1), // 100 agents/hour
		record("Burst", 3600, 9, 11, 400, 5),  // 200 agents/hour
	}

	greedy := scheduler.WithCapacity(records, 1.0, 250)
	shifted, moves := scheduler.WithCapacityShift(records, 1.0, 250)

	greedyUnmet := 0
	for _, alloc := range greedy {
		for _, agents := range alloc.UnmetDemand {
			greedyUnmet += agents
		}
	}
	shiftUnmet := 0
	for _, alloc := range shifted {
		assert.LessOrEqual(t, alloc.TotalAgents, 250)
		for _, agents := range alloc.UnmetDemand {
			shiftUnmet += agents
		}
	}

	assert.Equal(t, 100, greedyUnmet)
	assert.Zero(t, shiftUnmet)
	assert.LessOrEqual(t, shiftUnmet, greedyUnmet, "shift mode never does worse than greedy")
	assert.Len(t, moves, 2)
	for _, move := range moves {
		assert.Equal(t, "Steady", move.Customer)
		assert.Equal(t, 50.0, move.CallsMoved)
	}
}

func TestWithCapacityShift_Deterministic(t *testing.T) {
	records := []models.CustomerRecord{
		record("A", 3600, 8, 16, 800, 1),
		record("B", 3600, 9, 11, 400, 5),
		record("C", 1800, 0, 24, 2400, 3),
	}

	firstAllocs, firstMoves := scheduler.WithCapacityShift(records, 0.9, 200)
	secondAllocs, secondMoves := scheduler.WithCapacityShift(records, 0.9, 200)

	assert.Equal(t, firstAllocs, secondAllocs)
	assert.Equal(t, firstMoves, secondMoves)
}

func TestWithCapacityShift_EmptyWindowRecordIgnored(t *testing.T) {
	records := []models.CustomerRecord{
		record("Empty", 300, 9, 9, 100, 1),
		record("Active", 3600, 10, 12, 20, 2), // 10 agents/hour
	}

	allocations, moves := scheduler.WithCapacityShift(records, 1.0, 50)

	assert.Empty(t, moves)
	assert.Empty(t, allocations[9].CustomerAgents)
	assert.Equal(t, 10, allocations[10].CustomerAgents["Active"])
}
