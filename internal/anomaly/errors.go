package anomaly

import "fmt"

// MethodUnavailableError reports that a detection method cannot run on
// the given series and why.
type MethodUnavailableError struct {
	Method Method
	Reason string
}

func (e *MethodUnavailableError) Error() string {
	return fmt.Sprintf("method %s unavailable: %s", e.Method, e.Reason)
}
