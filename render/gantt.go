package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"FJS-go/simulator"
	"FJS-go/util"
)

const ganttWidth = 96

var jobPalette = []string{"2", "3", "4", "5", "6", "9", "10", "11", "12", "13", "14"}

var labelStyle = lipgloss.NewStyle().Bold(true)

// Gantt renders one batch slot's schedule as a terminal chart, one row per
// machine, operation blocks colored by job. Unscheduled operations do not
// appear; render after the run finishes for the full picture.
func Gantt(env *simulator.Env, idx int) string {
	ins := env.Instance(idx)
	entries := env.Schedule(idx)
	makespan := float64(env.Makespan(idx))
	if makespan <= 0 {
		return fmt.Sprintf("%s: empty schedule\n", ins.Name())
	}
	scale := float64(ganttWidth) / makespan

	type block struct {
		op    simulator.OpID
		job   simulator.JobID
		start float64
		end   float64
	}
	perMachine := make([][]block, ins.NumMachines())
	for q, ent := range entries {
		if !ent.Scheduled {
			continue
		}
		perMachine[ent.Machine] = append(perMachine[ent.Machine], block{
			op:    simulator.OpID(q),
			job:   ins.JobOf(simulator.OpID(q)),
			start: float64(ent.Start),
			end:   float64(ent.End),
		})
	}

	b := &strings.Builder{}
	b.WriteString(labelStyle.Render(fmt.Sprintf("%s  makespan=%.1f", ins.Name(), makespan)))
	b.WriteString("\n")
	for k, blocks := range perMachine {
		sort.Sort(util.Sorter{
			LenFunc:  func() int { return len(blocks) },
			LessFunc: func(i, j int) bool { return blocks[i].start < blocks[j].start },
			SwapFunc: func(i, j int) { blocks[i], blocks[j] = blocks[j], blocks[i] },
		})
		b.WriteString(fmt.Sprintf("m%-3d|", k))
		cursor := 0
		for _, blk := range blocks {
			startCol := int(blk.start * scale)
			endCol := int(blk.end * scale)
			if endCol <= startCol {
				endCol = startCol + 1
			}
			if startCol > cursor {
				b.WriteString(strings.Repeat(" ", startCol-cursor))
			}
			b.WriteString(jobStyle(blk.job).Render(blockText(blk.job, endCol-startCol)))
			cursor = endCol
		}
		b.WriteString("\n")
	}
	return b.String()
}

func jobStyle(job simulator.JobID) lipgloss.Style {
	color := jobPalette[int(job)%len(jobPalette)]
	return lipgloss.NewStyle().Background(lipgloss.Color(color)).Foreground(lipgloss.Color("0"))
}

func blockText(job simulator.JobID, width int) string {
	label := fmt.Sprintf("j%d", job)
	if len(label) > width {
		label = label[:width]
	}
	return label + strings.Repeat(" ", width-len(label))
}
