package refunds

// Status is the refund request lifecycle state. PENDING is initial; REJECTED,
// COMPLETED and CANCELLED are absorbing.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusApproved  Status = "APPROVED"
	StatusRejected  Status = "REJECTED"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

func (s Status) String() string {
	return string(s)
}

// IsTerminal reports whether no further transitions are allowed.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusRejected, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether the lifecycle allows moving from s to next.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusPending:
		return next == StatusApproved || next == StatusRejected || next == StatusCancelled
	case StatusApproved:
		return next == StatusCompleted
	}
	return false
}

// Code returns the stable integer code used at serialization boundaries with
// external systems.
func (s Status) Code() int {
	switch s {
	case StatusPending:
		return 1
	case StatusApproved:
		return 2
	case StatusRejected:
		return 3
	case StatusCompleted:
		return 4
	case StatusCancelled:
		return 5
	}
	return 0
}
