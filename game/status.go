package game

// Status is the three-valued verdict of a task or of a whole game.
type Status int

const (
	Unknown Status = iota
	Done
	Failed
)

var statusNames = []string{"unknown", "done", "failed"}

func (s Status) String() string {
	if s < Unknown || s > Failed {
		return "invalid"
	}
	return statusNames[s]
}

// Decided reports whether the verdict is final.
func (s Status) Decided() bool {
	return s == Done || s == Failed
}
