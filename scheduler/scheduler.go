package scheduler

import (
	"sort"

	"call-scheduler/models"
)

// Unconstrained schedules without a capacity limit: each hour's total is
// the plain sum of every customer's requirement for that hour.
// Duplicate customer names are independent demand sources; their agents
// aggregate under the shared name in the per-hour map.
func Unconstrained(records []models.CustomerRecord, utilization float64) []models.HourlyAllocation {
	hourlyByRecord := make([]map[int]int, len(records))
	for i, rec := range records {
		hourlyByRecord[i] = AgentsPerHour(rec, utilization)
	}

	allocations := make([]models.HourlyAllocation, 0, 24)
	for hour := 0; hour < 24; hour++ {
		customerAgents := make(map[string]int)
		for i, rec := range records {
			if agents := hourlyByRecord[i][hour]; agents > 0 {
				customerAgents[rec.Name] += agents
			}
		}
		allocations = append(allocations, newAllocation(hour, customerAgents, nil))
	}
	return allocations
}

// WithCapacity schedules under a per-hour agent ceiling using
// priority-based greedy allocation. Customers are served in priority
// order (1 first); within equal priority, input order is preserved.
// A higher-priority customer's allocation is never reduced to make room
// for a lower-priority one.
func WithCapacity(records []models.CustomerRecord, utilization float64, capacity int) []models.HourlyAllocation {
	type requirement struct {
		name     string
		priority int
		hourly   map[int]int
	}

	sorted := make([]requirement, 0, len(records))
	for _, rec := range records {
		sorted = append(sorted, requirement{
			name:     rec.Name,
			priority: rec.Priority,
			hourly:   AgentsPerHour(rec, utilization),
		})
	}
	// Stable so that equal priorities keep input order run-to-run.
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].priority < sorted[j].priority
	})

	allocations := make([]models.HourlyAllocation, 0, 24)
	for hour := 0; hour < 24; hour++ {
		remaining := capacity
		customerAgents := make(map[string]int)
		unmetDemand := make(map[string]int)

		for _, req := range sorted {
			required := req.hourly[hour]
			if required <= 0 {
				continue
			}
			allocated := min(required, remaining)
			if allocated > 0 {
				customerAgents[req.name] += allocated
				remaining -= allocated
			}
			if required > allocated {
				unmetDemand[req.name] += required - allocated
			}
		}

		allocations = append(allocations, newAllocation(hour, customerAgents, unmetDemand))
	}
	return allocations
}

// newAllocation assembles an HourlyAllocation, recomputing the total from
// the customer map and dropping zero-valued entries from both maps.
func newAllocation(hour int, customerAgents, unmetDemand map[string]int) models.HourlyAllocation {
	agents := make(map[string]int, len(customerAgents))
	total := 0
	for name, n := range customerAgents {
		if n > 0 {
			agents[name] = n
			total += n
		}
	}

	unmet := make(map[string]int, len(unmetDemand))
	for name, n := range unmetDemand {
		if n > 0 {
			unmet[name] = n
		}
	}

	return models.HourlyAllocation{
		Hour:           hour,
		TotalAgents:    total,
		CustomerAgents: agents,
		UnmetDemand:    unmet,
	}
}
