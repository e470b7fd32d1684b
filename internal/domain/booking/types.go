package booking

type Status string

const (
	StatusPending   Status = "pending"
	StatusUpcoming  Status = "upcoming"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusUpcoming, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

// allowedTransitions is deliberately permissive: the shipped behavior allows
// any status to move to any other, and existing clients depend on it.
// Tightening (forbidding un-cancel, reopening completed stays) is a product
// decision that only needs edits here, not at call sites.
var allowedTransitions = map[Status]map[Status]bool{
	StatusPending:   {StatusPending: true, StatusUpcoming: true, StatusCompleted: true, StatusCancelled: true},
	StatusUpcoming:  {StatusPending: true, StatusUpcoming: true, StatusCompleted: true, StatusCancelled: true},
	StatusCompleted: {StatusPending: true, StatusUpcoming: true, StatusCompleted: true, StatusCancelled: true},
	StatusCancelled: {StatusPending: true, StatusUpcoming: true, StatusCompleted: true, StatusCancelled: true},
}

func (s Status) CanTransitionTo(next Status) bool {
	targets, ok := allowedTransitions[s]
	if !ok {
		return false
	}
	return targets[next]
}
