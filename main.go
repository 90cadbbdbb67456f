package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/push"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"call-scheduler/config"
	"call-scheduler/formatter"
	"call-scheduler/metrics"
	"call-scheduler/models"
	"call-scheduler/parser"
	"call-scheduler/scheduler"
)

type options struct {
	input       string
	utilization float64
	format      string
	capacity    int
	algorithm   string
	configPath  string
	metricsAddr string
	pushGateway string
	wait        bool
}

func main() {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "call-scheduler",
		Short: "Compute hourly agent staffing requirements from customer call volumes",
		Long: `Call Scheduler converts per-customer call volumes into an hour-by-hour
agent staffing plan, optionally under a per-hour capacity ceiling with
priority-based greedy allocation or call redistribution (shift).`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts)
		},
	}

	rootCmd.Flags().StringVarP(&opts.input, "input", "i", "", "Path to input CSV file (required)")
	rootCmd.Flags().Float64VarP(&opts.utilization, "utilization", "u", 1.0, "Agent utilization factor (0.0-1.0]")
	rootCmd.Flags().StringVarP(&opts.format, "format", "f", "text", "Output format: text|json|csv")
	rootCmd.Flags().IntVarP(&opts.capacity, "capacity", "c", 0, "Maximum agent capacity per hour (0 = unconstrained)")
	rootCmd.Flags().StringVarP(&opts.algorithm, "algorithm", "a", "greedy", "Scheduling algorithm with capacity: greedy|shift")
	rootCmd.Flags().StringVar(&opts.configPath, "config", "", "Optional YAML config file with run defaults")
	rootCmd.Flags().StringVar(&opts.metricsAddr, "metrics-addr", "", "Address to expose Prometheus metrics (e.g., :9090)")
	rootCmd.Flags().StringVar(&opts.pushGateway, "push-url", "", "Pushgateway URL to push metrics to (e.g., http://localhost:9091)")
	rootCmd.Flags().BoolVar(&opts.wait, "wait", false, "Keep process running after completion to allow for metric scraping")
	rootCmd.MarkFlagRequired("input")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, opts *options) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}

	// Config supplies defaults only where the flag was not set.
	if !cmd.Flags().Changed("utilization") {
		opts.utilization = cfg.Utilization
	}
	if !cmd.Flags().Changed("format") {
		opts.format = cfg.Format
	}
	if !cmd.Flags().Changed("metrics-addr") && cfg.MetricsAddr != "" {
		opts.metricsAddr = cfg.MetricsAddr
	}
	if !cmd.Flags().Changed("push-url") && cfg.PushGateway != "" {
		opts.pushGateway = cfg.PushGateway
	}

	if opts.utilization <= 0 || opts.utilization > 1 {
		return fmt.Errorf("utilization must be between 0 (exclusive) and 1 (inclusive), got %v", opts.utilization)
	}
	if opts.capacity < 0 {
		return fmt.Errorf("capacity must be a positive integer, got %d", opts.capacity)
	}
	if _, ok := map[string]bool{"text": true, "json": true, "csv": true}[opts.format]; !ok {
		return fmt.Errorf("format must be one of: text, json, csv (got: %s)", opts.format)
	}
	algorithm := models.Algorithm(opts.algorithm)
	if !algorithm.Valid() {
		return fmt.Errorf("algorithm must be one of: greedy, shift (got: %s)", opts.algorithm)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer logger.Sync()

	if opts.metricsAddr != "" {
		go func() {
			http.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
			logger.Info("metrics server listening", zap.String("addr", opts.metricsAddr))
			if err := http.ListenAndServe(opts.metricsAddr, nil); err != nil {
				logger.Error("metrics server error", zap.Error(err))
			}
		}()
	}

	file, err := os.Open(opts.input)
	if err != nil {
		return fmt.Errorf("opening input file: %w", err)
	}
	defer file.Close()

	parseStart := time.Now()
	records, err := parser.Parse(file)
	if err != nil {
		return fmt.Errorf("parsing input file: %w", err)
	}
	metrics.ParserDurationSeconds.Observe(time.Since(parseStart).Seconds())

	if len(records) == 0 {
		return fmt.Errorf("no valid records found in input file")
	}

	logger.Info("scheduling run",
		zap.String("input", opts.input),
		zap.Int("records", len(records)),
		zap.Float64("utilization", opts.utilization),
		zap.Int("capacity", opts.capacity),
		zap.String("algorithm", string(algorithm)),
	)

	schedule := &models.Schedule{Constrained: opts.capacity > 0}
	scheduleStart := time.Now()
	switch {
	case opts.capacity > 0 && algorithm == models.AlgorithmShift:
		schedule.Allocations, schedule.Redistributions = scheduler.WithCapacityShift(records, opts.utilization, opts.capacity)
	case opts.capacity > 0:
		schedule.Allocations = scheduler.WithCapacity(records, opts.utilization, opts.capacity)
	default:
		schedule.Allocations = scheduler.Unconstrained(records, opts.utilization)
	}
	metrics.SchedulerDurationSeconds.Observe(time.Since(scheduleStart).Seconds())

	if len(schedule.Redistributions) > 0 {
		logger.Info("call redistributions made", zap.Int("moves", len(schedule.Redistributions)))
		for i, move := range schedule.Redistributions {
			if i >= 10 {
				logger.Info("more redistributions omitted", zap.Int("remaining", len(schedule.Redistributions)-10))
				break
			}
			logger.Info("redistribution",
				zap.String("customer", move.Customer),
				zap.Int("from_hour", move.FromHour),
				zap.Int("to_hour", move.ToHour),
				zap.Float64("calls_moved", move.CallsMoved),
			)
		}
	}

	metrics.ResetRunGauges()
	metrics.Observe(records, schedule)

	if schedule.Constrained {
		logger.Info("capacity-constrained run complete",
			zap.Int("unmet_agent_hours", schedule.TotalUnmetAgents()))
	}

	var output string
	switch opts.format {
	case "json":
		output = formatter.FormatJSON(schedule)
	case "csv":
		output = formatter.FormatCSV(schedule)
	default:
		output = formatter.FormatText(schedule)
	}
	fmt.Println(output)

	fmt.Fprint(os.Stderr, formatter.Summary(records, schedule))

	resultPath, err := formatter.WriteResultFile(output, opts.format, opts.input,
		opts.utilization, opts.capacity, algorithm, cfg.ResultsDir)
	if err != nil {
		return err
	}
	logger.Info("result written", zap.String("path", resultPath))

	if opts.pushGateway != "" {
		if err := push.New(opts.pushGateway, "call_scheduler").Gatherer(metrics.Registry).Push(); err != nil {
			logger.Error("error pushing to Pushgateway", zap.Error(err))
		} else {
			logger.Info("metrics pushed to Pushgateway", zap.String("url", opts.pushGateway))
		}
	}

	if opts.wait && opts.metricsAddr != "" {
		logger.Info("process kept alive for metric scraping, press Ctrl+C to exit")
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
	} else if opts.metricsAddr != "" && opts.pushGateway == "" {
		// Small delay to allow a final scrape; batch jobs should normally
		// use the pushgateway or --wait.
		time.Sleep(100 * time.Millisecond)
	}

	return nil
}
