package simulator

import (
	"fmt"
	"math/rand"
	"strings"
)

// CaseGenerator produces random instances in the flexible job-shop text
// format. The same seed always yields the same sequence of cases.
type CaseGenerator struct {
	numJobs     int
	numMachines int

	opesPerJobMin int
	opesPerJobMax int
	masPerOpeMin  int
	masPerOpeMax  int
	procTimeMin   int
	procTimeMax   int

	rng *rand.Rand
}

type CaseOption func(g *CaseGenerator)

func WithCaseOpesPerJob(min, max int) CaseOption {
	return func(g *CaseGenerator) {
		g.opesPerJobMin = min
		g.opesPerJobMax = max
	}
}

func WithCaseMasPerOpe(min, max int) CaseOption {
	return func(g *CaseGenerator) {
		g.masPerOpeMin = min
		g.masPerOpeMax = max
	}
}

func WithCaseProcTime(min, max int) CaseOption {
	return func(g *CaseGenerator) {
		g.procTimeMin = min
		g.procTimeMax = max
	}
}

func NewCaseGenerator(numJobs, numMachines int, seed int64, opts ...CaseOption) *CaseGenerator {
	g := &CaseGenerator{
		numJobs:     numJobs,
		numMachines: numMachines,

		opesPerJobMin: maxInt(1, numMachines*4/5),
		opesPerJobMax: maxInt(1, numMachines*6/5),
		masPerOpeMin:  1,
		masPerOpeMax:  numMachines,
		procTimeMin:   1,
		procTimeMax:   20,

		rng: rand.New(rand.NewSource(seed)),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// GenerateLines emits one case in the flexible job-shop text format. The
// first line carries the job count, the machine count and the average
// number of eligible machines per operation. Machine indices are 1-based.
func (g *CaseGenerator) GenerateLines() []string {
	lines := make([]string, 0, g.numJobs+1)
	totalOpes := 0
	totalArcs := 0
	for j := 0; j < g.numJobs; j++ {
		numOpes := g.intBetween(g.opesPerJobMin, g.opesPerJobMax)
		totalOpes += numOpes
		b := &strings.Builder{}
		b.WriteString(fmt.Sprintf("%d", numOpes))
		for q := 0; q < numOpes; q++ {
			numMas := g.intBetween(g.masPerOpeMin, g.masPerOpeMax)
			totalArcs += numMas
			b.WriteString(fmt.Sprintf("  %d", numMas))
			for _, machine := range g.pickMachines(numMas) {
				b.WriteString(fmt.Sprintf(" %d %d", machine+1, g.intBetween(g.procTimeMin, g.procTimeMax)))
			}
		}
		lines = append(lines, b.String())
	}
	avgMas := float64(totalArcs) / float64(totalOpes)
	header := fmt.Sprintf("%d %d %.1f", g.numJobs, g.numMachines, avgMas)
	return append([]string{header}, lines...)
}

// Generate emits one case and parses it into an Instance.
func (g *CaseGenerator) Generate(name string) (*Instance, error) {
	return ParseLines(name, g.GenerateLines())
}

func (g *CaseGenerator) intBetween(min, max int) int {
	if max <= min {
		return min
	}
	return min + g.rng.Intn(max-min+1)
}

func (g *CaseGenerator) pickMachines(count int) []int {
	perm := g.rng.Perm(g.numMachines)[:count]
	// ascending machine order matches hand-written case files
	for i := 1; i < len(perm); i++ {
		for k := i; k > 0 && perm[k] < perm[k-1]; k-- {
			perm[k], perm[k-1] = perm[k-1], perm[k]
		}
	}
	return perm
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
