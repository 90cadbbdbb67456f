package formatter

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"call-scheduler/models"
)

// jsonAllocation is the JSON shape for one hour.
type jsonAllocation struct {
	Hour        string         `json:"hour"`
	TotalAgents int            `json:"total_agents"`
	Customers   map[string]int `json:"customers"`
	UnmetDemand map[string]int `json:"unmet_demand,omitempty"`
}

// FormatText returns the text representation of the schedule, one line
// per hour. Unmet demand is appended only for capacity-constrained runs.
func FormatText(schedule *models.Schedule) string {
	lines := make([]string, 0, len(schedule.Allocations))

	for _, alloc := range schedule.Allocations {
		customersStr := "none"
		if len(alloc.CustomerAgents) > 0 {
			customersStr = joinAgents(alloc.CustomerAgents, ", ")
		}

		line := fmt.Sprintf("%02d:00 : total=%d ; %s", alloc.Hour, alloc.TotalAgents, customersStr)
		if schedule.Constrained && len(alloc.UnmetDemand) > 0 {
			line += fmt.Sprintf(" | unmet: %s", joinAgents(alloc.UnmetDemand, ", "))
		}
		lines = append(lines, line)
	}

	return strings.Join(lines, "\n")
}

// FormatJSON returns the JSON representation of the schedule.
func FormatJSON(schedule *models.Schedule) string {
	entries := make([]jsonAllocation, 0, len(schedule.Allocations))
	for _, alloc := range schedule.Allocations {
		entries = append(entries, jsonAllocation{
			Hour:        fmt.Sprintf("%02d:00", alloc.Hour),
			TotalAgents: alloc.TotalAgents,
			Customers:   alloc.CustomerAgents,
			UnmetDemand: alloc.UnmetDemand,
		})
	}

	jsonBytes, _ := json.MarshalIndent(entries, "", "  ")
	return string(jsonBytes)
}

// FormatCSV returns the CSV representation of the schedule. The customer
// and unmet cells hold ";"-joined name=agents pairs.
func FormatCSV(schedule *models.Schedule) string {
	lines := []string{"hour,total_agents,customers,unmet_demand"}

	for _, alloc := range schedule.Allocations {
		customersStr := joinAgents(alloc.CustomerAgents, ";")
		if customersStr == "" {
			customersStr = "none"
		}
		unmetStr := joinAgents(alloc.UnmetDemand, ";")

		lines = append(lines, fmt.Sprintf("%02d:00,%d,%q,%q",
			alloc.Hour, alloc.TotalAgents, customersStr, unmetStr))
	}

	return strings.Join(lines, "\n")
}

// joinAgents renders a customer->agents map as name=agents pairs, names
// sorted for deterministic output.
func joinAgents(agents map[string]int, sep string) string {
	if len(agents) == 0 {
		return ""
	}

	names := make([]string, 0, len(agents))
	for name := range agents {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s=%d", name, agents[name]))
	}
	return strings.Join(parts, sep)
}
