package failure

type Severity int

// caller control flow
const (
	SeverityFatal Severity = iota
	SeverityRecoverable
)

// ClassifiedError is the error contract shared by every pipeline stage.
// Severity decides whether a caller may continue; retryability (where it
// exists) is expressed by the concrete error type itself.
type ClassifiedError interface {
	error
	Severity() Severity
}
