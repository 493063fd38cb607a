package session

type Event interface {
	// The Operation this event relates to.
	Operation() *Operation
}

type operationEvent struct {
	operation *Operation
}

func (e operationEvent) Operation() *Operation {
	return e.operation
}

type OperationAdded struct {
	operationEvent
}
type OperationStarted struct {
	operationEvent
}
type OperationUpdated struct {
	operationEvent
	OldState OperationState
	NewState OperationState
}
type OperationFinished struct {
	operationEvent
	Err error
}
