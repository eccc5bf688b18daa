package orchestrator

// OrchestratorError is this package's component-scoped error type,
// grounded on the tools package's ToolError shape.
type OrchestratorError struct {
	Operation string
	Message   string
	Err       error
}

func (e *OrchestratorError) Error() string {
	if e.Err != nil {
		return "[orchestrator:" + e.Operation + "] " + e.Message + ": " + e.Err.Error()
	}
	return "[orchestrator:" + e.Operation + "] " + e.Message
}

func (e *OrchestratorError) Unwrap() error { return e.Err }

// NewOrchestratorError builds an OrchestratorError.
func NewOrchestratorError(operation, message string, err error) *OrchestratorError {
	return &OrchestratorError{Operation: operation, Message: message, Err: err}
}
