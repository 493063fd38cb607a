package session

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cloudgrab/cloudgrab"
	"github.com/cloudgrab/cloudgrab/generic"
	"github.com/cloudgrab/cloudgrab/internal/pubsub"
	"github.com/cloudgrab/cloudgrab/internal/sync_"
	"github.com/cloudgrab/cloudgrab/ytdlp"
)

var (
	ErrOperationClosed = errors.New("operation closed")
)

const (
	// Buffer size for each state subscriber; fan-out blocks once a slow
	// subscriber falls this far behind.
	subscriberBufSize = 16
	// Buffer size for each process output line channel.
	lineBufSize = 16
)

type OperationID string

func NewOperationID() OperationID {
	return OperationID(generic.Unwrap(uuid.NewRandom()).String())
}

// Progress is the live view of an in-flight download, assembled from whatever
// the downloader's output has revealed so far.
type Progress struct {
	Percentage   float64
	TotalSize    string
	Speed        string
	ETA          string
	CurrentTrack int
	TotalTracks  int
	CurrentTitle string
	Elapsed      time.Duration
}

// OperationState is the full state of a download operation. Subscribers
// receive complete snapshots rather than deltas.
type OperationState struct {
	ID         OperationID
	URL        string
	Kind       cloudgrab.SourceKind
	Provider   string
	OutputDir  string
	Quality    ytdlp.Quality
	AutoImport bool
	AddedAt    time.Time
	StartedAt  time.Time
	FinishedAt time.Time
	Active     bool
	Completed  bool
	Error      string
	Track      *ytdlp.TrackInfo
	Progress   Progress
	Files      []string
}

// Terminal returns true once the operation can no longer change state.
func (s OperationState) Terminal() bool {
	return !s.FinishedAt.IsZero()
}

// clone deep-copies the mutable parts so a snapshot handed to a subscriber is
// not aliased to the state the run loop keeps mutating.
func (s OperationState) clone() OperationState {
	out := s
	if s.Track != nil {
		track := *s.Track
		out.Track = &track
	}
	if s.Files != nil {
		out.Files = append([]string(nil), s.Files...)
	}
	return out
}

type Operation struct {
	session   *Session
	ctx       context.Context
	ctxCancel context.CancelFunc

	// Owned by the run goroutine; everything else must go via the command
	// channels.
	state       OperationState
	subscribers generic.Set[pubsub.SenderCloser[OperationState]]
	cmd         *exec.Cmd
	lines       *pubsub.Merger[string]

	events pubsub.Publisher[Event]

	finished         sync_.Event
	done             chan struct{}
	stateCommand     chan chan generic.Result[OperationState]
	subscribeCommand chan chan pubsub.ReceiverCloser[OperationState]
}

// newOperation creates the operation actor and starts its run loop. For
// operations with a live child process, cmd and lines carry the process and
// its merged output; both are nil for operations that never launched.
func newOperation(session *Session, state OperationState, ctx context.Context, ctxCancel context.CancelFunc, cmd *exec.Cmd, lines *pubsub.Merger[string]) *Operation {
	o := &Operation{
		session:   session,
		ctx:       ctx,
		ctxCancel: ctxCancel,

		state:       state,
		subscribers: generic.NewPolymorphicSet[pubsub.SenderCloser[OperationState]](),
		cmd:         cmd,
		lines:       lines,

		events: pubsub.NewPublisher[Event](),

		done:             make(chan struct{}),
		stateCommand:     make(chan chan generic.Result[OperationState]),
		subscribeCommand: make(chan chan pubsub.ReceiverCloser[OperationState]),
	}
	if state.Terminal() {
		o.finished.Set()
	}
	go o.run()
	return o
}

func (o *Operation) String() string {
	return fmt.Sprintf("Operation{ID:%q, URL:%q}", o.state.ID, o.state.URL)
}

func (o *Operation) ID() OperationID {
	return o.state.ID
}

func (o *Operation) log() *zap.SugaredLogger {
	return zap.S().Named("operation").With("operation_id", o.state.ID)
}
