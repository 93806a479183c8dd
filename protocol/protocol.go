package protocol

import (
	"encoding/json"
	"fmt"
)

// Cmd tags a message pushed on the progress stream
type Cmd int

const (
	Null Cmd = iota
	Progress
	Finished
	Error
)

var CmdNames = map[Cmd]string{
	Null:     "Null",
	Progress: "Progress",
	Finished: "Finished",
	Error:    "Error",
}

var NameToCmd = map[string]Cmd{
	"Null":     Null,
	"Progress": Progress,
	"Finished": Finished,
	"Error":    Error,
}

func (c Cmd) String() string {
	return CmdNames[c]
}

// MarshalJSON writes the command by name
func (c Cmd) MarshalJSON() ([]byte, error) {
	name, ok := CmdNames[c]
	if !ok {
		return nil, fmt.Errorf("unknown command %d", int(c))
	}
	return json.Marshal(name)
}

func (c *Cmd) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	cmd, ok := NameToCmd[name]
	if !ok {
		return fmt.Errorf("unknown command %q", name)
	}
	*c = cmd
	return nil
}

// Valid reports whether m names a known mode.
func (m Mode) Valid() bool {
	return m == ModeSolve || m == ModeStats
}

// Mode selects what a solve job computes
type Mode string

const (
	// ModeSolve stops at the first play sequence completing every task.
	ModeSolve Mode = "solve"
	// ModeStats explores the whole tree and counts outcomes.
	ModeStats Mode = "stats"
)

// JobStatus is the lifecycle of a solve job
type JobStatus string

const (
	JobPending JobStatus = "pending"
	JobRunning JobStatus = "running"
	JobDone    JobStatus = "done"
	JobFailed  JobStatus = "failed"
)

// Finished reports whether the job will not change any more.
func (s JobStatus) Finished() bool {
	return s == JobDone || s == JobFailed
}
