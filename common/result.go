package common

// Stable numeric codes of failed ledger calls.
const (
	// CodeInvalidInput is returned for malformed or out-of-range arguments.
	CodeInvalidInput = 400
	// CodeUnauthorized is returned when the caller is not the recorded owner
	// of the entity being mutated.
	CodeUnauthorized = 403
	// CodeNotFound is returned when the referenced entity does not exist.
	CodeNotFound = 404
)

// Result is an outcome of every ledger method. Successful results carry an
// optional Value and zero Error, failed ones carry one of the Code* values.
type Result struct {
	Success bool
	Value   any
	Error   int
}

// Ok returns successful Result with the given value.
func Ok(value any) Result {
	return Result{Success: true, Value: value}
}

// Fail returns failed Result with the given code.
func Fail(code int) Result {
	return Result{Success: false, Error: code}
}
