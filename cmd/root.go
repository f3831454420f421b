package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/estuhr1206/scheduling-policies-sim/sim"
	"github.com/estuhr1206/scheduling-policies-sim/sim/trace"
)

var (
	configPath   string
	logLevel     string
	simDuration  int64
	numThreads   int
	averageLoad  float64
	seed         int64
	rtt          int64
	targetDelay  int64
	numClients   int
	replayPath   string
	exportPrefix string
)

var rootCmd = &cobra.Command{
	Use:   "scheduling-policies-sim",
	Short: "Discrete-event simulator for Breakwater credit-pool admission control and core allocation",
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a simulation scenario and print summary metrics",
	Run: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("invalid --log level %q: %v", logLevel, err)
		}
		logrus.SetLevel(level)

		cfg := sim.DefaultConfig()
		if configPath != "" {
			sf := LoadScenarioFile(configPath)
			cfg = sf.ToEngineConfig(cfg)
		}
		applyFlagOverrides(cmd, &cfg)

		if err := cfg.Validate(); err != nil {
			logrus.Fatalf("invalid configuration: %v", err)
		}

		state := sim.NewSimulationState(cfg)

		if replayPath != "" {
			records, err := ReadReallocScheduleCSV(replayPath)
			if err != nil {
				logrus.Fatalf("failed to load replay schedule %s: %v", replayPath, err)
			}
			state.LoadReplaySchedule(records)
		}

		state.Run()
		state.Metrics.Print()

		summary := trace.Summarize(state.Recorder)
		printSummary(summary)

		if exportPrefix != "" {
			if err := ExportRecorder(state.Recorder, exportPrefix); err != nil {
				logrus.Fatalf("failed to export trace streams: %v", err)
			}
		}
	},
}

// applyFlagOverrides layers any explicitly-set CLI flags over a config
// already populated from defaults and/or a --config file, so a flag always
// wins regardless of where the rest of the config came from.
func applyFlagOverrides(cmd *cobra.Command, cfg *sim.Config) {
	flags := cmd.Flags()
	if flags.Changed("duration") {
		cfg.SimDuration = simDuration
	}
	if flags.Changed("threads") {
		cfg.CoreAllocation.NumThreads = numThreads
		cfg.CoreAllocation.NumQueues = numThreads
	}
	if flags.Changed("load") {
		cfg.Workload.AverageLoad = averageLoad
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("rtt") {
		cfg.Breakwater.RTT = rtt
	}
	if flags.Changed("target-delay") {
		cfg.Breakwater.TargetDelay = targetDelay
	}
	if flags.Changed("clients") {
		cfg.Breakwater.NumClients = numClients
	}
}

func printSummary(s *trace.Summary) {
	fmt.Println("=== Trace Summary ===")
	fmt.Printf("Completed Tasks      : %d\n", s.CompletedTasks)
	fmt.Printf("Dropped Tasks        : %d\n", s.DroppedTasks)
	fmt.Printf("Mean Time In System  : %.2f\n", s.MeanTimeInSystem)
	fmt.Printf("P50/P95/P99          : %.2f / %.2f / %.2f\n", s.P50TimeInSystem, s.P95TimeInSystem, s.P99TimeInSystem)
	fmt.Printf("StdDev Time In System: %.2f\n", s.StdDevTimeInSystem)
	fmt.Printf("Mean Throughput/sec  : %.6f\n", s.MeanThroughputPerSecond)
	fmt.Printf("Credit Pool At Max/Min samples: %d / %d\n", s.CreditPoolAtMax, s.CreditPoolAtMin)
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&configPath, "config", "", "path to a YAML scenario file")
	runCmd.Flags().StringVar(&logLevel, "log", "info", "log level (trace, debug, info, warn, error)")
	runCmd.Flags().Int64Var(&simDuration, "duration", 0, "simulation horizon in ticks")
	runCmd.Flags().IntVar(&numThreads, "threads", 0, "number of worker threads (and queues)")
	runCmd.Flags().Float64Var(&averageLoad, "load", 0, "average system load as a fraction of capacity")
	runCmd.Flags().Int64Var(&seed, "seed", 0, "master RNG seed")
	runCmd.Flags().Int64Var(&rtt, "rtt", 0, "Breakwater control-loop period in ticks")
	runCmd.Flags().Int64Var(&targetDelay, "target-delay", 0, "Breakwater target delay in ticks")
	runCmd.Flags().IntVar(&numClients, "clients", 0, "number of registered Breakwater clients")
	runCmd.Flags().StringVar(&replayPath, "replay", "", "path to a recorded realloc_schedule CSV to replay")
	runCmd.Flags().StringVar(&exportPrefix, "export", "", "file prefix to export trace streams as CSV under")
}

// Execute runs the root command, exiting the process on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
