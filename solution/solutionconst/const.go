package solutionconst

// Status is an enumeration for solution lifecycle states.
type Status int

// Various solution states.
const (
	// Submitted is a state of the freshly submitted solution.
	Submitted Status = iota

	// Updated is a state of the solution revised by its contributor at least once.
	Updated

	// Accepted and Rejected are set by review policies which live outside
	// of the solution contract.
	Accepted
	Rejected
)

// MaxContentLength is the maximum length of the solution content in bytes.
const MaxContentLength = 16384

// String returns human-readable name of the status.
func (s Status) String() string {
	switch s {
	case Submitted:
		return "submitted"
	case Updated:
		return "updated"
	case Accepted:
		return "accepted"
	case Rejected:
		return "rejected"
	default:
		return "unknown"
	}
}
