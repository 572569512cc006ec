package simulator

import "fmt"

// Time is a point on an instance's simulated clock.
// Duration is a span of simulated time; processing times are Durations.
type Time float64
type Duration float64

// Identifiers into one instance's flat operation list, its job list and its
// machine list. Operation ids are instance-global: job j's operations occupy
// the contiguous range [FirstOp(j), LastOp(j)].
type OpID int
type JobID int
type MachineID int

// Explicit "unset" sentinels. Id 0 is a valid machine/job, so the zero value
// is never used to mean "not assigned".
const (
	NoMachine = MachineID(-1)
	NoJob     = JobID(-1)
)

// Decision assigns one operation to one machine for one instance.
// Job is derivable from Op but is carried for convenience; Step rejects a
// decision whose Job does not own Op.
type Decision struct {
	Op      OpID
	Machine MachineID
	Job     JobID
}

func (d Decision) String() string {
	return fmt.Sprintf("decision=[op=%d, machine=%d, job=%d]", d.Op, d.Machine, d.Job)
}
