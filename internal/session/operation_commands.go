package session

import (
	"github.com/cloudgrab/cloudgrab/generic"
	"github.com/cloudgrab/cloudgrab/internal/pubsub"
)

// State requests a snapshot of the operation's current state.
func (o *Operation) State() (OperationState, error) {
	ch := make(chan generic.Result[OperationState], 1)
	select {
	case o.stateCommand <- ch:
		select {
		case result := <-ch:
			return result.Parts()
		case <-o.ctx.Done():
			return generic.Err[OperationState](ErrOperationClosed).Parts()
		}
	case <-o.ctx.Done():
		return generic.Err[OperationState](ErrOperationClosed).Parts()
	}
}

// Subscribe returns a receiver that first delivers a snapshot of the current
// state and then every subsequent state, in order, with nothing skipped.
// Close the receiver to unsubscribe.
func (o *Operation) Subscribe() (pubsub.ReceiverCloser[OperationState], error) {
	ch := make(chan pubsub.ReceiverCloser[OperationState], 1)
	select {
	case o.subscribeCommand <- ch:
		select {
		case sub := <-ch:
			return sub, nil
		case <-o.ctx.Done():
			return nil, ErrOperationClosed
		}
	case <-o.ctx.Done():
		return nil, ErrOperationClosed
	}
}

// Finished is closed once the operation has reached a terminal state.
func (o *Operation) Finished() <-chan struct{} {
	return o.finished.Wait()
}

// IsFinished returns true once the operation has reached a terminal state.
func (o *Operation) IsFinished() bool {
	return o.finished.IsSet()
}

// Close shuts the operation down, killing the child process if one is still
// running, and blocks until the run loop has exited.
func (o *Operation) Close() {
	o.ctxCancel()
	<-o.done
}

func (o *Operation) Done() <-chan struct{} {
	return o.done
}
