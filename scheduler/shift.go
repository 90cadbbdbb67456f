package scheduler

import (
	"math"
	"sort"

	"call-scheduler/models"
)

// customerDemand tracks the per-hour call distribution for one customer
// while the shift algorithm runs. originalCalls keeps the uniform
// distribution it started from; currentCalls is mutated by redistribution.
// Calls are real-valued; the ceiling is applied only when converting to
// agents.
type customerDemand struct {
	name          string
	priority      int
	startHour     int
	endHour       int
	originalCalls map[int]float64
	currentCalls  map[int]float64
	agentsPerCall float64
}

// agentsNeeded converts the customer's current calls at hour to agents.
func (d *customerDemand) agentsNeeded(hour int) int {
	return int(math.Ceil(d.currentCalls[hour] * d.agentsPerCall))
}

// buildDemands seeds a uniform call distribution per customer.
// Records with an empty window are skipped.
func buildDemands(records []models.CustomerRecord, utilization float64) []*customerDemand {
	demands := make([]*customerDemand, 0, len(records))
	for _, rec := range records {
		activeHours := rec.ActiveHours()
		if activeHours <= 0 {
			continue
		}

		callsPerHour := float64(rec.NumCalls) / float64(activeHours)
		original := make(map[int]float64, activeHours)
		current := make(map[int]float64, activeHours)
		for hour := rec.StartHour; hour < rec.EndHour; hour++ {
			original[hour] = callsPerHour
			current[hour] = callsPerHour
		}

		demands = append(demands, &customerDemand{
			name:          rec.Name,
			priority:      rec.Priority,
			startHour:     rec.StartHour,
			endHour:       rec.EndHour,
			originalCalls: original,
			currentCalls:  current,
			agentsPerCall: float64(rec.AvgDurationSeconds) / 3600.0 / utilization,
		})
	}
	return demands
}

// totalAgentsAt sums every customer's agent requirement at hour.
func totalAgentsAt(demands []*customerDemand, hour int) int {
	total := 0
	for _, d := range demands {
		total += d.agentsNeeded(hour)
	}
	return total
}

// spilloverCandidate is a target hour with spare capacity for a move.
type spilloverCandidate struct {
	hour      int
	available int
}

// spilloverCandidates finds target hours within the customer's own window
// that still have spare capacity, nearest to the source hour first.
// Ties in distance keep ascending hour order (stable sort over an
// ascending enumeration).
func spilloverCandidates(d *customerDemand, sourceHour int, demands []*customerDemand, capacity int) []spilloverCandidate {
	type scored struct {
		spilloverCandidate
		distance int
	}

	var candidates []scored
	for target := d.startHour; target < d.endHour; target++ {
		if target == sourceHour {
			continue
		}
		available := capacity - totalAgentsAt(demands, target)
		if available > 0 {
			candidates = append(candidates, scored{
				spilloverCandidate: spilloverCandidate{hour: target, available: available},
				distance:           abs(target - sourceHour),
			})
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].distance < candidates[j].distance
	})

	out := make([]spilloverCandidate, len(candidates))
	for i, c := range candidates {
		out[i] = c.spilloverCandidate
	}
	return out
}

// applyRedistribution runs the single forward pass over hours 0-23,
// moving overflow calls into hours with spare capacity. Lowest-priority
// customers are drained first; moves stay inside each customer's own
// window, so a customer's total calls are conserved.
//
// Hours are never revisited: a later move can raise the load at an hour
// already processed, and that is left as-is. Golden outputs depend on
// this single-pass behavior, so it must not be turned into a fixed-point
// loop.
func applyRedistribution(demands []*customerDemand, capacity int, sortedByPriority []*customerDemand) []models.Redistribution {
	var moves []models.Redistribution

	for hour := 0; hour < 24; hour++ {
		totalAgents := totalAgentsAt(demands, hour)
		if totalAgents <= capacity {
			continue
		}
		overflow := totalAgents - capacity

		// Lowest-priority customers sit at the end of sortedByPriority.
		for i := len(sortedByPriority) - 1; i >= 0; i-- {
			if overflow <= 0 {
				break
			}
			d := sortedByPriority[i]

			sourceCalls := d.currentCalls[hour]
			if sourceCalls <= 0 || d.agentsNeeded(hour) <= 0 {
				continue
			}

			for _, candidate := range spilloverCandidates(d, hour, demands, capacity) {
				if overflow <= 0 || sourceCalls <= 0 {
					break
				}

				callsPerAgent := 0.0
				if d.agentsPerCall > 0 {
					callsPerAgent = 1 / d.agentsPerCall
				}

				// Limited by source calls, target capacity, and the
				// overflow still to resolve.
				maxCallsToMove := math.Min(sourceCalls,
					math.Min(float64(candidate.available)*callsPerAgent, float64(overflow)*callsPerAgent))
				if maxCallsToMove <= 0 {
					continue
				}

				d.currentCalls[hour] -= maxCallsToMove
				d.currentCalls[candidate.hour] += maxCallsToMove
				sourceCalls -= maxCallsToMove

				agentsFreed := int(math.Ceil(maxCallsToMove * d.agentsPerCall))
				overflow -= agentsFreed

				moves = append(moves, models.Redistribution{
					Customer:   d.name,
					FromHour:   hour,
					ToHour:     candidate.hour,
					CallsMoved: maxCallsToMove,
				})
			}
		}
	}

	return moves
}

// WithCapacityShift schedules under a capacity ceiling after first
// redistributing overflow calls within each customer's window (the shift
// algorithm), then runs the same priority-greedy allocation as
// WithCapacity over the redistributed demand.
func WithCapacityShift(records []models.CustomerRecord, utilization float64, capacity int) ([]models.HourlyAllocation, []models.Redistribution) {
	demands := buildDemands(records, utilization)

	sortedByPriority := make([]*customerDemand, len(demands))
	copy(sortedByPriority, demands)
	sort.SliceStable(sortedByPriority, func(i, j int) bool {
		return sortedByPriority[i].priority < sortedByPriority[j].priority
	})

	moves := applyRedistribution(demands, capacity, sortedByPriority)

	allocations := make([]models.HourlyAllocation, 0, 24)
	for hour := 0; hour < 24; hour++ {
		remaining := capacity
		customerAgents := make(map[string]int)
		unmetDemand := make(map[string]int)

		for _, d := range sortedByPriority {
			required := d.agentsNeeded(hour)
			if required <= 0 {
				continue
			}
			allocated := min(required, remaining)
			if allocated > 0 {
				customerAgents[d.name] += allocated
				remaining -= allocated
			}
			if required > allocated {
				unmetDemand[d.name] += required - allocated
			}
		}

		allocations = append(allocations, newAllocation(hour, customerAgents, unmetDemand))
	}

	return allocations, moves
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
