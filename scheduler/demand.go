package scheduler

import (
	"math"

	"call-scheduler/models"
)

// AgentsPerHour calculates the agents needed per hour for one customer,
// assuming calls are spread uniformly across the active window.
//
// Calls per hour stay real-valued; the ceiling is applied once, to the
// final agent count, so results are reproducible regardless of how the
// intermediate terms round.
func AgentsPerHour(rec models.CustomerRecord, utilization float64) map[int]int {
	activeHours := rec.ActiveHours()
	if activeHours <= 0 {
		return map[int]int{}
	}

	callsPerHour := float64(rec.NumCalls) / float64(activeHours)
	agents := int(math.Ceil(callsPerHour * float64(rec.AvgDurationSeconds) / 3600.0 / utilization))

	hourly := make(map[int]int, activeHours)
	for hour := rec.StartHour; hour < rec.EndHour; hour++ {
		hourly[hour] = agents
	}
	return hourly
}
