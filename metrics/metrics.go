// Package metrics provides Prometheus observability metrics for the call
// scheduler. It includes Critical and Important metrics for business and
// operational visibility.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"call-scheduler/models"
)

// Registry is the custom prometheus registry for our application
var Registry = prometheus.NewRegistry()

// factory allows us to register metrics to our custom Registry directly
var factory = promauto.With(Registry)

// =============================================================================
// CRITICAL METRICS - Business Impact Visibility
// =============================================================================

// AgentsDemandedTotal tracks total agent demand across all hours.
var AgentsDemandedTotal = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "scheduler",
	Name:      "agents_demanded_total",
	Help:      "Total number of agent-hours demanded across all customers and hours",
})

// AgentsAllocatedTotal tracks total agents successfully allocated.
var AgentsAllocatedTotal = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "scheduler",
	Name:      "agents_allocated_total",
	Help:      "Total number of agent-hours successfully allocated",
})

// AgentsUnmetTotal tracks total unmet agent demand across all hours.
// High values indicate capacity planning issues.
var AgentsUnmetTotal = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "scheduler",
	Name:      "agents_unmet_total",
	Help:      "Total number of agent-hours that could not be allocated due to capacity constraints",
})

// PeakAgents tracks the largest hourly total in the schedule.
var PeakAgents = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "scheduler",
	Name:      "peak_agents",
	Help:      "Maximum number of agents allocated in any single hour",
})

// HoursWithUnmetDemand tracks number of hours where capacity was exceeded.
var HoursWithUnmetDemand = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "scheduler",
	Name:      "hours_with_unmet_demand",
	Help:      "Number of hours in the schedule where demand exceeded capacity",
})

// UnmetDemandByPriority tracks unmet agents by priority level.
var UnmetDemandByPriority = factory.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: "scheduler",
	Name:      "unmet_demand_by_priority",
	Help:      "Unmet agent demand broken down by priority level",
}, []string{"priority"})

// RedistributionMovesTotal counts call moves made by the shift algorithm.
var RedistributionMovesTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "scheduler",
	Name:      "redistribution_moves_total",
	Help:      "Total number of call redistributions made by the shift algorithm",
})

// CallsRedistributedTotal counts call volume moved by the shift algorithm.
var CallsRedistributedTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "scheduler",
	Name:      "calls_redistributed_total",
	Help:      "Total call volume moved between hours by the shift algorithm",
})

// =============================================================================
// IMPORTANT METRICS - Operational Health
// =============================================================================

// ParserErrorsTotal tracks parse errors by error type.
var ParserErrorsTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "parser",
	Name:      "errors_total",
	Help:      "Total parse errors by error type",
}, []string{"error_type"})

// ParserRecordsTotal tracks total records successfully parsed.
var ParserRecordsTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "parser",
	Name:      "records_total",
	Help:      "Total CSV records successfully parsed",
})

// ParserDurationSeconds tracks time to parse input files.
var ParserDurationSeconds = factory.NewHistogram(prometheus.HistogramOpts{
	Namespace: "parser",
	Name:      "duration_seconds",
	Help:      "Time taken to parse CSV input file",
	Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
})

// SchedulerDurationSeconds tracks time to generate schedule.
var SchedulerDurationSeconds = factory.NewHistogram(prometheus.HistogramOpts{
	Namespace: "scheduler",
	Name:      "duration_seconds",
	Help:      "Time taken to generate the schedule",
	Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
})

// SchedulerCustomersProcessed tracks number of customers per scheduling run.
var SchedulerCustomersProcessed = factory.NewHistogram(prometheus.HistogramOpts{
	Namespace: "scheduler",
	Name:      "customers_processed",
	Help:      "Number of customers processed per scheduling run",
	Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
})

// =============================================================================
// Helper Functions
// =============================================================================

// Observe folds a finished scheduling run into the run gauges and counters.
func Observe(records []models.CustomerRecord, schedule *models.Schedule) {
	priorityByName := make(map[string]int, len(records))
	for _, rec := range records {
		priorityByName[rec.Name] = rec.Priority
	}

	allocated := 0
	unmet := 0
	peak := 0
	hoursUnmet := 0
	for _, alloc := range schedule.Allocations {
		allocated += alloc.TotalAgents
		if alloc.TotalAgents > peak {
			peak = alloc.TotalAgents
		}
		if len(alloc.UnmetDemand) > 0 {
			hoursUnmet++
		}
		for name, agents := range alloc.UnmetDemand {
			unmet += agents
			priority := strconv.Itoa(priorityByName[name])
			UnmetDemandByPriority.WithLabelValues(priority).Add(float64(agents))
		}
	}

	AgentsDemandedTotal.Set(float64(allocated + unmet))
	AgentsAllocatedTotal.Set(float64(allocated))
	AgentsUnmetTotal.Set(float64(unmet))
	PeakAgents.Set(float64(peak))
	HoursWithUnmetDemand.Set(float64(hoursUnmet))
	SchedulerCustomersProcessed.Observe(float64(len(records)))

	for _, move := range schedule.Redistributions {
		RedistributionMovesTotal.Inc()
		CallsRedistributedTotal.Add(move.CallsMoved)
	}
}

// ResetRunGauges resets all scheduler gauges before a new scheduling run.
func ResetRunGauges() {
	AgentsDemandedTotal.Set(0)
	AgentsAllocatedTotal.Set(0)
	AgentsUnmetTotal.Set(0)
	PeakAgents.Set(0)
	HoursWithUnmetDemand.Set(0)
	UnmetDemandByPriority.Reset()
}
