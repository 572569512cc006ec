package cli

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"FJS-go/config"
	"FJS-go/dispatch"
	"FJS-go/metrics"
	"FJS-go/render"
	"FJS-go/simulator"
)

var configFile string

func BuildCLI() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "fjs",
		Short: "fjs: a batched flexible job-shop simulation engine",
		Long: `fjs simulates batches of flexible job-shop scheduling instances in
lock-step rounds, one dispatch decision per instance per round, and
reports makespans, machine utilizations and schedule verdicts.`,
		Version: "1.0.0",
	}

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file path")

	rootCmd.AddCommand(buildRunCommand())
	rootCmd.AddCommand(buildGenCommand())
	rootCmd.AddCommand(buildCheckCommand())

	return rootCmd
}

func buildRunCommand() *cobra.Command {
	var ruleName string
	var gantt bool

	cmd := &cobra.Command{
		Use:   "run [case files...]",
		Short: "Simulate a batch of instances to completion",
		Long: `Simulate every instance of the batch until all operations are
scheduled, one decision per active instance per round. Case files given as
arguments override the config's case_files; with neither, a random batch is
generated from the config's generator settings.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if len(args) > 0 {
				cfg.CaseFiles = args
			}
			if cmd.Flags().Changed("rule") {
				cfg.Rule = ruleName
			}
			if cmd.Flags().Changed("gantt") {
				cfg.Gantt = gantt
			}
			return runBatch(cfg)
		},
	}

	cmd.Flags().StringVar(&ruleName, "rule", "spt",
		fmt.Sprintf("dispatch rule, one of %s", strings.Join(dispatch.RuleNames(), ", ")))
	cmd.Flags().BoolVar(&gantt, "gantt", false, "render a Gantt chart per instance after the run")

	return cmd
}

func runBatch(cfg *config.Config) error {
	instances, err := buildInstances(cfg)
	if err != nil {
		return err
	}

	rule, err := dispatch.ByName(cfg.Rule, cfg.Seed)
	if err != nil {
		return err
	}

	env, err := simulator.NewEnv(instances,
		simulator.WithOptionParallel(cfg.Parallel),
		simulator.WithOptionLogEnabled(cfg.Log.Enabled),
		simulator.WithOptionLogPath(logDir(cfg)))
	if err != nil {
		return fmt.Errorf("failed to build environment: %w", err)
	}

	log.Printf("Simulating %d instances with rule %q\n", env.NumInstances(), rule.Name())
	started := time.Now()
	rounds := 0
	state := env.State()
	for !env.Done() {
		decisions := rule.Decide(state)
		state, _, _, err = env.Step(decisions)
		if err != nil {
			return fmt.Errorf("round %d failed: %w", rounds, err)
		}
		rounds++
	}
	elapsed := time.Since(started)

	report := metrics.GenerateReport(env, rule.Name(), rounds, elapsed)
	filePath, err := metrics.SaveReport(cfg.ReportDir, report)
	if err != nil {
		return err
	}
	log.Printf("Finished in %d rounds (%v), report at %s\n", rounds, elapsed, filePath)
	for _, ir := range report.Instances {
		log.Printf("  %s: makespan=%.1f passed=%v\n", ir.Instance, ir.Makespan, ir.Verdict.Passed)
	}
	env.LogSummary(fmt.Sprintf("rule=%s rounds=%d avg_makespan=%.2f",
		rule.Name(), rounds, report.AverageMakespan))

	if cfg.Gantt {
		for idx := 0; idx < env.NumInstances(); idx++ {
			fmt.Println(render.Gantt(env, idx))
		}
	}
	return nil
}

func buildGenCommand() *cobra.Command {
	var outFile string
	var count int

	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate random case files",
		Long:  "Generate random flexible job-shop cases from the config's generator settings.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			gen := caseGenerator(cfg)
			for i := 0; i < count; i++ {
				lines := gen.GenerateLines()
				content := strings.Join(lines, "\n") + "\n"
				if outFile == "" {
					fmt.Print(content)
					continue
				}
				path := outFile
				if count > 1 {
					path = fmt.Sprintf("%s.%d", outFile, i)
				}
				if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
					return fmt.Errorf("failed to write case file %s: %w", path, err)
				}
				log.Printf("generated case to %s\n", path)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outFile, "out", "o", "", "output file path (stdout when empty)")
	cmd.Flags().IntVarP(&count, "count", "n", 1, "number of cases to generate")

	return cmd
}

func buildCheckCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <case files...>",
		Short: "Parse case files and report their shape",
		Long:  "Parse each case file and print its job, machine and operation counts.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, path := range args {
				ins, err := simulator.LoadFile(path)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				fmt.Printf("%s: jobs=%d machines=%d ops=%d\n",
					ins.Name(), ins.NumJobs(), ins.NumMachines(), ins.NumOps())
			}
			return nil
		},
	}
	return cmd
}

func loadConfig() (*config.Config, error) {
	if configFile == "" {
		return config.Default(), nil
	}
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func buildInstances(cfg *config.Config) ([]*simulator.Instance, error) {
	if len(cfg.CaseFiles) > 0 {
		instances, err := simulator.LoadFiles(cfg.CaseFiles)
		if err != nil {
			return nil, fmt.Errorf("failed to load case files: %w", err)
		}
		return instances, nil
	}
	gen := caseGenerator(cfg)
	instances := make([]*simulator.Instance, 0, cfg.BatchSize)
	for i := 0; i < cfg.BatchSize; i++ {
		ins, err := gen.Generate(fmt.Sprintf("case_%d", i))
		if err != nil {
			return nil, fmt.Errorf("failed to generate case %d: %w", i, err)
		}
		instances = append(instances, ins)
	}
	return instances, nil
}

func caseGenerator(cfg *config.Config) *simulator.CaseGenerator {
	opts := make([]simulator.CaseOption, 0, 2)
	if cfg.Generator.OpesPerJobMin > 0 && cfg.Generator.OpesPerJobMax > 0 {
		opts = append(opts, simulator.WithCaseOpesPerJob(cfg.Generator.OpesPerJobMin, cfg.Generator.OpesPerJobMax))
	}
	if cfg.Generator.ProcTimeMax > 0 {
		opts = append(opts, simulator.WithCaseProcTime(1, cfg.Generator.ProcTimeMax))
	}
	return simulator.NewCaseGenerator(cfg.NumJobs, cfg.NumMachines, cfg.Seed, opts...)
}

func logDir(cfg *config.Config) string {
	if cfg.Log.Dir != "" {
		return cfg.Log.Dir
	}
	return os.TempDir()
}
