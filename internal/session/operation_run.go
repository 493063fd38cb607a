package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/cloudgrab/cloudgrab"
	"github.com/cloudgrab/cloudgrab/generic"
	"github.com/cloudgrab/cloudgrab/internal/pubsub"
	"github.com/cloudgrab/cloudgrab/ytdlp"
)

func (o *Operation) run() {
	ticker := time.NewTicker(o.session.config.ElapsedUpdateInterval)
	defer ticker.Stop()

	var lineCh <-chan string
	if o.lines != nil {
		lineCh = o.lines.Receive()
	}
	ctxDone := o.ctx.Done()

	for {
		select {
		case <-ctxDone:
			// The child process is killed via its context; keep draining its
			// output until the pipes close so Wait can reap it.
			ctxDone = nil
			if lineCh == nil {
				o.close()
				close(o.done)
				return
			}
		case ch := <-o.stateCommand:
			select {
			case ch <- generic.Ok(o.state.clone()):
			case <-o.ctx.Done():
			}
		case ch := <-o.subscribeCommand:
			sub := pubsub.NewChannel[OperationState](subscriberBufSize)
			sub.Send(o.state.clone())
			o.subscribers.Add(sub)
			select {
			case ch <- sub:
			case <-o.ctx.Done():
				o.subscribers.Remove(sub)
				sub.Close()
			}
		case line, ok := <-lineCh:
			if !ok {
				lineCh = nil
				o.finish(o.cmd.Wait())
				if o.ctx.Err() != nil {
					o.close()
					close(o.done)
					return
				}
			} else {
				o.handleLine(line)
			}
		case <-ticker.C:
			if o.state.Active {
				o.updateState(func(state *OperationState) {
					state.Progress.Elapsed = time.Since(state.StartedAt).Round(time.Second)
				})
			}
		}
	}
}

// updateState applies a mutation and fans the new snapshot out to every
// subscriber, in order, before anything else can change the state. Must only
// be called from the run goroutine.
func (o *Operation) updateState(f func(state *OperationState)) {
	old := o.state.clone()
	f(&o.state)
	state := o.state.clone()
	for _, sub := range o.subscribers.ToSlice() {
		if !sub.Send(state) {
			o.subscribers.Remove(sub)
		}
	}
	o.events.Send(OperationUpdated{operationEvent{o}, old, state})
}

// handleLine folds one line of downloader output into the operation state.
func (o *Operation) handleLine(line string) {
	if strings.HasPrefix(line, "ERROR:") {
		message := strings.TrimSpace(strings.TrimPrefix(line, "ERROR:"))
		o.log().Warnf("downloader error: %s", message)
		o.updateState(func(state *OperationState) {
			state.Error = message
		})
		return
	}
	update := ytdlp.ParseLine(line)
	if update.IsEmpty() {
		return
	}
	o.updateState(func(state *OperationState) {
		mergeUpdate(state, update)
	})
}

func mergeUpdate(state *OperationState, u ytdlp.Update) {
	if u.Percentage.IsSome() {
		state.Progress.Percentage = u.Percentage.Unwrap()
	}
	if u.TotalSize.IsSome() {
		state.Progress.TotalSize = u.TotalSize.Unwrap()
	}
	if u.Speed.IsSome() {
		state.Progress.Speed = u.Speed.Unwrap()
	}
	if u.ETA.IsSome() {
		state.Progress.ETA = u.ETA.Unwrap()
	}
	if u.CurrentTrack.IsSome() {
		state.Progress.CurrentTrack = u.CurrentTrack.Unwrap()
	}
	if u.TotalTracks.IsSome() {
		state.Progress.TotalTracks = u.TotalTracks.Unwrap()
	}
	if u.CurrentTitle.IsSome() {
		state.Progress.CurrentTitle = u.CurrentTitle.Unwrap()
	}
	if u.Track.IsSome() {
		track := u.Track.Unwrap()
		state.Track = &track
	}
	if u.File.IsSome() {
		file := u.File.Unwrap()
		if !containsString(state.Files, file) {
			state.Files = append(state.Files, file)
		}
	}
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}

// finish records the terminal state once the child process has been reaped.
// A zero exit status always counts as completed; a non-zero one still counts
// if at least one file was produced, since the downloader keeps going past
// per-track failures.
func (o *Operation) finish(waitErr error) {
	var finalErr error
	o.updateState(func(state *OperationState) {
		state.Active = false
		state.FinishedAt = time.Now()
		if !state.StartedAt.IsZero() {
			state.Progress.Elapsed = state.FinishedAt.Sub(state.StartedAt).Round(time.Second)
		}
		if waitErr == nil || len(state.Files) > 0 {
			state.Completed = true
			if waitErr != nil && state.Error == "" {
				state.Error = waitErr.Error()
			}
		} else {
			finalErr = fmt.Errorf("%w: %v", cloudgrab.ErrRuntime, waitErr)
			if state.Error == "" {
				state.Error = finalErr.Error()
			}
		}
	})
	state := o.state.clone()
	record := state.Record()
	if err := o.session.config.Database.WriteOperation(&record); err != nil {
		o.log().Warnf("failed to journal operation: %v", err)
	}
	if state.Completed {
		o.log().Infow("operation complete", "files", len(state.Files), "error", state.Error)
		if state.AutoImport && len(state.Files) > 0 {
			o.session.dispatcher.Dispatch(o.session.ctx, state.Files)
		}
	} else {
		o.log().Errorw("operation failed", "error", state.Error)
	}
	o.finished.Set()
	o.events.Send(OperationFinished{operationEvent{o}, finalErr})
}

// close tears down the subscriber and event plumbing; the registry entry (if
// any) is the Session's to remove.
func (o *Operation) close() {
	for _, sub := range o.subscribers.ToSlice() {
		sub.Close()
	}
	o.subscribers.Clear()
	o.events.Close()
}
