package metrics

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"FJS-go/simulator"
	"FJS-go/util"
)

// Report is the JSON artifact of one batched run: one entry per batch slot
// plus batch-level aggregates.
type Report struct {
	RuleName  string `json:"rule_name"`
	BatchSize int    `json:"batch_size"`
	Rounds    int    `json:"rounds"`
	ElapsedMs int64  `json:"elapsed_ms"`

	AverageMakespan    float64 `json:"average_makespan"`
	MaxMakespan        float64 `json:"max_makespan"`
	AverageUtilization float64 `json:"average_utilization"`

	Instances []*InstanceReport `json:"instances"`
}

type InstanceReport struct {
	Instance    string `json:"instance"`
	NumJobs     int    `json:"num_jobs"`
	NumMachines int    `json:"num_machines"`
	NumOps      int    `json:"num_ops"`

	Makespan     float64            `json:"makespan"`
	Utilizations []float64          `json:"utilizations"`
	Verdict      *simulator.Verdict `json:"verdict"`
}

// GenerateReport snapshots the batch after a run. It validates every slot;
// callers deciding pass or fail should inspect the verdicts rather than
// re-validating.
func GenerateReport(env *simulator.Env, ruleName string, rounds int, elapsed time.Duration) *Report {
	verdicts := env.Validate()
	report := &Report{
		RuleName:  ruleName,
		BatchSize: env.NumInstances(),
		Rounds:    rounds,
		ElapsedMs: elapsed.Milliseconds(),
		Instances: make([]*InstanceReport, 0, env.NumInstances()),
	}

	sumMakespan := 0.
	sumUtilization := 0.
	utilizationCount := 0
	for idx := 0; idx < env.NumInstances(); idx++ {
		ins := env.Instance(idx)
		makespan := float64(env.Makespan(idx))
		utilizations := make([]float64, 0, ins.NumMachines())
		for _, u := range env.Utilizations(idx) {
			utilizations = append(utilizations, u)
			sumUtilization += u
			utilizationCount++
		}
		report.Instances = append(report.Instances, &InstanceReport{
			Instance:     ins.Name(),
			NumJobs:      ins.NumJobs(),
			NumMachines:  ins.NumMachines(),
			NumOps:       ins.NumOps(),
			Makespan:     makespan,
			Utilizations: utilizations,
			Verdict:      verdicts[idx],
		})
		sumMakespan += makespan
		if makespan > report.MaxMakespan {
			report.MaxMakespan = makespan
		}
	}
	if len(report.Instances) > 0 {
		report.AverageMakespan = sumMakespan / float64(len(report.Instances))
	}
	if utilizationCount > 0 {
		report.AverageUtilization = sumUtilization / float64(utilizationCount)
	}
	return report
}

// SaveReport writes the report as indented JSON and returns the file path.
func SaveReport(folder string, report *Report) (string, error) {
	filePath := filepath.Join(folder, generateFileName(report))
	bs, err := json.MarshalIndent(report, "", "\t")
	if err != nil {
		return "", fmt.Errorf("report json marshal failed: %w", err)
	}
	if err := os.WriteFile(filePath, bs, os.ModePerm); err != nil {
		return "", fmt.Errorf("report write failed: %w", err)
	}
	return filePath, nil
}

func generateFileName(report *Report) string {
	datetime := time.Now().Format("01-02_15:04:05")
	caseNames := make([]string, 0, len(report.Instances))
	for _, ir := range report.Instances {
		caseNames = append(caseNames, ir.Instance)
	}
	casesCombined := util.StringSliceJoinWith(caseNames, "_")
	return fmt.Sprintf("%s_%s_%s.json", report.RuleName, casesCombined, datetime)
}
