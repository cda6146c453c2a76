package ordernumber

// Phase is the position of an allocation in its retry loop.
type Phase int

const (
	Attempting Phase = iota
	Succeeded
	FailedPermanently
)

func (p Phase) String() string {
	switch p {
	case Attempting:
		return "attempting"
	case Succeeded:
		return "succeeded"
	case FailedPermanently:
		return "failed_permanently"
	}
	return "unknown"
}

// Outcome is the result of one persistence attempt.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	// OutcomeCollision means the candidate order number was already taken.
	OutcomeCollision
	// OutcomeFailure is any other persistence failure.
	OutcomeFailure
)

// State tracks an allocation. Retry is the number of collisions seen so far
// and is folded into the next candidate sequence.
type State struct {
	Phase     Phase
	Retry     int
	Exhausted bool
}

// Start is the initial state of every allocation.
func Start() State {
	return State{Phase: Attempting}
}

// Next applies outcome to s. Terminal states do not change. Collisions keep
// attempting until maxAttempts attempts were made; any other failure ends the
// loop at once.
func Next(s State, outcome Outcome, maxAttempts int) State {
	if s.Phase != Attempting {
		return s
	}
	switch outcome {
	case OutcomeSuccess:
		return State{Phase: Succeeded, Retry: s.Retry}
	case OutcomeCollision:
		retry := s.Retry + 1
		if retry >= maxAttempts {
			return State{Phase: FailedPermanently, Retry: retry, Exhausted: true}
		}
		return State{Phase: Attempting, Retry: retry}
	default:
		return State{Phase: FailedPermanently, Retry: s.Retry}
	}
}
