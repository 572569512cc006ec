package simulator

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// The .fjs case format: a header line "numJobs numMachines [avgFlexibility]"
// followed by one line per job. A job line starts with its operation count;
// each operation contributes its eligible-machine count followed by that
// many (machine, duration) pairs, machines 1-based.

// LoadFile reads one .fjs case file into an Instance named after the file.
func LoadFile(path string) (*Instance, error) {
	bs, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read case file: %w", err)
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return ParseLines(name, strings.Split(strings.ReplaceAll(string(bs), "\r\n", "\n"), "\n"))
}

// LoadFiles reads a batch of case files, preserving order. Slot i of the
// returned batch corresponds to paths[i].
func LoadFiles(paths []string) ([]*Instance, error) {
	instances := make([]*Instance, 0, len(paths))
	for _, path := range paths {
		ins, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		instances = append(instances, ins)
	}
	return instances, nil
}

// DetectCounts scans case lines for the header counts and the total
// operation count without building the matrices.
func DetectCounts(lines []string) (numJobs, numMachines, numOps int, err error) {
	rows := tokenRows(lines)
	if len(rows) == 0 {
		return 0, 0, 0, fmt.Errorf("%w: empty case", ErrMalformedInstance)
	}
	numJobs, numMachines, err = parseHeader(rows[0])
	if err != nil {
		return 0, 0, 0, err
	}
	if len(rows)-1 < numJobs {
		return 0, 0, 0, fmt.Errorf("%w: header claims %d jobs, case has %d lines", ErrMalformedInstance, numJobs, len(rows)-1)
	}
	for j := 0; j < numJobs; j++ {
		n, convErr := strconv.Atoi(rows[1+j][0])
		if convErr != nil {
			return 0, 0, 0, fmt.Errorf("%w: job %d operation count: %v", ErrMalformedInstance, j, convErr)
		}
		numOps += n
	}
	return numJobs, numMachines, numOps, nil
}

// ParseLines builds an Instance from .fjs case lines.
func ParseLines(name string, lines []string) (*Instance, error) {
	rows := tokenRows(lines)
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s: empty case", ErrMalformedInstance, name)
	}
	numJobs, numMachines, err := parseHeader(rows[0])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if len(rows)-1 < numJobs {
		return nil, fmt.Errorf("%w: %s: header claims %d jobs, case has %d lines",
			ErrMalformedInstance, name, numJobs, len(rows)-1)
	}

	jobOps := make([][][]Arc, 0, numJobs)
	for j := 0; j < numJobs; j++ {
		vals, err := atoiAll(rows[1+j])
		if err != nil {
			return nil, fmt.Errorf("%w: %s: job %d: %v", ErrMalformedInstance, name, j, err)
		}
		ops, err := parseJobLine(vals, numMachines)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: job %d: %v", ErrMalformedInstance, name, j, err)
		}
		jobOps = append(jobOps, ops)
	}
	return NewInstance(name, numMachines, jobOps)
}

func parseJobLine(vals []int, numMachines int) ([][]Arc, error) {
	if len(vals) == 0 {
		return nil, fmt.Errorf("empty job line")
	}
	numOpe := vals[0]
	if numOpe <= 0 {
		return nil, fmt.Errorf("operation count %d", numOpe)
	}
	ops := make([][]Arc, 0, numOpe)
	pos := 1
	for o := 0; o < numOpe; o++ {
		if pos >= len(vals) {
			return nil, fmt.Errorf("op %d: truncated line", o)
		}
		nElig := vals[pos]
		pos++
		if nElig <= 0 {
			return nil, fmt.Errorf("op %d: eligible machine count %d", o, nElig)
		}
		if pos+2*nElig > len(vals) {
			return nil, fmt.Errorf("op %d: truncated line", o)
		}
		arcs := make([]Arc, 0, nElig)
		for e := 0; e < nElig; e++ {
			machine, dur := vals[pos], vals[pos+1]
			pos += 2
			arcs = append(arcs, Arc{Machine: MachineID(machine - 1), Duration: Duration(dur)})
		}
		ops = append(ops, arcs)
	}
	if pos != len(vals) {
		return nil, fmt.Errorf("%d trailing tokens", len(vals)-pos)
	}
	return ops, nil
}

func parseHeader(tokens []string) (numJobs, numMachines int, err error) {
	if len(tokens) < 2 {
		return 0, 0, fmt.Errorf("%w: header needs job and machine counts", ErrMalformedInstance)
	}
	numJobs, err = strconv.Atoi(tokens[0])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: header job count: %v", ErrMalformedInstance, err)
	}
	numMachines, err = strconv.Atoi(tokens[1])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: header machine count: %v", ErrMalformedInstance, err)
	}
	if numJobs <= 0 || numMachines <= 0 {
		return 0, 0, fmt.Errorf("%w: header counts %d jobs, %d machines", ErrMalformedInstance, numJobs, numMachines)
	}
	// a third token is the average flexibility, informational only
	return numJobs, numMachines, nil
}

func tokenRows(lines []string) [][]string {
	rows := make([][]string, 0, len(lines))
	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) > 0 {
			rows = append(rows, fields)
		}
	}
	return rows
}

func atoiAll(tokens []string) ([]int, error) {
	vals := make([]int, len(tokens))
	for i, tok := range tokens {
		v, err := strconv.Atoi(tok)
		if err != nil {
			return nil, fmt.Errorf("token %q: %v", tok, err)
		}
		vals[i] = v
	}
	return vals, nil
}
