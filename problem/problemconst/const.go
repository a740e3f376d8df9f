package problemconst

// Status is an enumeration for problem lifecycle states.
type Status int

// Various problem states.
const (
	// Open problems accept solutions and bounty changes.
	Open Status = iota

	// Closed problems are finished by their submitters.
	Closed
)

const (
	// MaxTitleLength is the maximum length of the problem title in bytes.
	MaxTitleLength = 256
	// MaxDescriptionLength is the maximum length of the problem description in bytes.
	MaxDescriptionLength = 4096
)

// String returns human-readable name of the status.
func (s Status) String() string {
	switch s {
	case Open:
		return "open"
	case Closed:
		return "closed"
	default:
		return "unknown"
	}
}
