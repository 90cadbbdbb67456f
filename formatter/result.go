package formatter

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"call-scheduler/models"
)

// extensions maps output format to result-file extension.
var extensions = map[string]string{
	"text": "txt",
	"json": "json",
	"csv":  "csv",
}

// WriteResultFile writes the formatted output to a descriptively named
// file under dir, creating the directory if needed. The name encodes the
// run parameters:
//
//	{timestamp}_{input}_util{u}[_cap{c}][_{algorithm}]_RESULT.{ext}
//
// The algorithm suffix appears only for non-default algorithms under a
// capacity constraint. Returns the path written.
func WriteResultFile(content, format, inputPath string, utilization float64, capacity int, algorithm models.Algorithm, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating results directory: %w", err)
	}

	timestamp := time.Now().Format("20060102_150405")
	inputName := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	utilStr := strings.TrimRight(strings.TrimRight(strconv.FormatFloat(utilization, 'f', 2, 64), "0"), ".")

	nameParts := []string{timestamp, inputName, "util" + utilStr}
	if capacity > 0 {
		nameParts = append(nameParts, fmt.Sprintf("cap%d", capacity))
		if algorithm != models.AlgorithmGreedy {
			nameParts = append(nameParts, string(algorithm))
		}
	}

	ext, ok := extensions[format]
	if !ok {
		ext = "txt"
	}
	path := filepath.Join(dir, strings.Join(nameParts, "_")+"_RESULT."+ext)

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("writing result file: %w", err)
	}
	return path, nil
}

// Summary renders the end-of-run metrics block: call totals, agent-hours,
// peak load, and the unmet-demand breakdown by hour.
func Summary(records []models.CustomerRecord, schedule *models.Schedule) string {
	p := message.NewPrinter(language.English)

	totalCalls := 0
	for _, rec := range records {
		totalCalls += rec.NumCalls
	}

	totalAgentsDay := 0
	peakAgents := 0
	totalUnmet := 0
	unmetHours := make([]int, 0)
	for _, alloc := range schedule.Allocations {
		totalAgentsDay += alloc.TotalAgents
		if alloc.TotalAgents > peakAgents {
			peakAgents = alloc.TotalAgents
		}
		if len(alloc.UnmetDemand) > 0 {
			unmetHours = append(unmetHours, alloc.Hour)
			for _, agents := range alloc.UnmetDemand {
				totalUnmet += agents
			}
		}
	}

	// Estimate calls conducted from the allocated share of total demand.
	totalRequired := totalAgentsDay + totalUnmet
	allocationRatio := 1.0
	callsConducted := 0
	if totalRequired > 0 {
		allocationRatio = float64(totalAgentsDay) / float64(totalRequired)
		callsConducted = int(float64(totalCalls) * allocationRatio)
	}

	var sb strings.Builder
	rule := strings.Repeat("=", 50)
	sb.WriteString("\n" + rule + "\n")
	sb.WriteString("METRICS SUMMARY\n")
	sb.WriteString(rule + "\n")
	p.Fprintf(&sb, "Total calls required:    %d\n", totalCalls)
	p.Fprintf(&sb, "Total calls conducted:   %d (%.1f%%)\n", callsConducted, allocationRatio*100)
	p.Fprintf(&sb, "Total agent-hours:       %d\n", totalAgentsDay)
	p.Fprintf(&sb, "Peak agents (any hour):  %d\n", peakAgents)

	if len(unmetHours) > 0 {
		sort.Ints(unmetHours)
		p.Fprintf(&sb, "\nUnmet demand:            %d agent-hours\n", totalUnmet)
		sb.WriteString(strings.Repeat("-", 50) + "\n")
		sb.WriteString("Unmet demand breakdown by hour:\n")
		for _, hour := range unmetHours {
			unmet := schedule.Allocations[hour].UnmetDemand
			hourTotal := 0
			for _, agents := range unmet {
				hourTotal += agents
			}
			p.Fprintf(&sb, "  %02d:00 : %d agents (%s)\n", hour, hourTotal, joinAgents(unmet, ", "))
		}
	} else {
		sb.WriteString("\nUnmet demand:            None\n")
	}

	sb.WriteString(rule + "\n")
	return sb.String()
}
