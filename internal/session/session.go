package session

import (
	"context"
	"errors"
	"os/exec"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/cloudgrab/cloudgrab"
	"github.com/cloudgrab/cloudgrab/generic"
	"github.com/cloudgrab/cloudgrab/internal/pubsub"
	"github.com/cloudgrab/cloudgrab/internal/sync_"
	"github.com/cloudgrab/cloudgrab/ytdlp"
)

type Config struct {
	// OutputDir is the default directory downloads are saved to.
	OutputDir string
	// Quality is the default audio quality preset.
	Quality ytdlp.Quality
	// AutoImport hands finished files to the media library application.
	AutoImport bool
	// ImportApp is the media library application used by AutoImport.
	ImportApp string
	// DownloaderPath overrides the downloader executable location.
	DownloaderPath   string
	Database         Database
	ProviderRegistry *cloudgrab.ProviderRegistry
	// Interval between elapsed-time updates on active operations.
	ElapsedUpdateInterval time.Duration
	// Pause between handing files to the library app and foregrounding it.
	ImportDelay time.Duration
}

var DefaultConfig = Config{
	Quality:               ytdlp.QualityHigh,
	ImportApp:             "Music",
	Database:              NilDatabase{},
	ProviderRegistry:      &cloudgrab.DefaultProviderRegistry,
	ElapsedUpdateInterval: time.Second,
	ImportDelay:           2 * time.Second,
}

type operationsByID = map[OperationID]*Operation

type Session struct {
	config    Config
	ctx       context.Context
	ctxCancel context.CancelFunc
	log       *zap.SugaredLogger

	operations *sync_.RWMutexed[operationsByID]
	events     pubsub.Publisher[Event]
	dispatcher *Dispatcher
}

func New(config Config, ctx context.Context) (*Session, error) {
	ctx, cancel := context.WithCancel(ctx)
	s := &Session{
		config:    config,
		ctx:       ctx,
		ctxCancel: cancel,
		log:       zap.S().Named("session"),

		operations: sync_.NewRWMutexed(make(operationsByID)),
		dispatcher: NewDispatcher(config.ImportApp, config.ImportDelay),
	}
	s.events = pubsub.NewPublisher[Event]()
	// Asynchronously load journaled operations; as long as client code does
	// Subscribe before ListOperations, none will be missed.
	go func() {
		records, err := s.config.Database.ListOperations()
		if err != nil {
			s.log.Warnf("failed to load operation journal: %v", err)
			return
		}
		for _, record := range records {
			state := stateFromRecord(record)
			if !state.Terminal() {
				// A journaled operation that never finished was interrupted by
				// a previous shutdown.
				state.FinishedAt = state.AddedAt
				state.Error = "interrupted"
			}
			opCtx, opCancel := context.WithCancel(s.ctx)
			if _, err := s.insertOperation(state, opCtx, opCancel, nil, nil); err != nil {
				opCancel()
				s.log.Warnf("failed to restore journaled operation %v: %v", state.ID, err)
			}
		}
	}()
	return s, nil
}

func (s *Session) Subscribe() (pubsub.ReceiverCloser[Event], error) {
	return s.events.Subscribe()
}

// SubscribeFiltered subscribes to only the events the filter accepts.
func (s *Session) SubscribeFiltered(f func(Event) bool) (pubsub.ReceiverCloser[Event], error) {
	ch := pubsub.NewChannel[Event](pubsub.DefaultSubscriberBufSize)
	if err := s.events.AddSubscriber(pubsub.NewFilteredSender[Event](ch, f)); err != nil {
		return nil, err
	}
	return ch, nil
}

func (s *Session) ListOperations() []*Operation {
	var list []*Operation
	_ = s.operations.RLocked(func(operations operationsByID) error {
		list = make([]*Operation, 0, len(operations))
		for _, o := range operations {
			list = append(list, o)
		}
		return nil
	})
	return list
}

func (s *Session) GetOperation(id OperationID) (o *Operation) {
	_ = s.operations.RLocked(func(operations operationsByID) error {
		o = operations[id]
		return nil
	})
	return o
}

func (s *Session) insertOperation(state OperationState, ctx context.Context, ctxCancel context.CancelFunc, cmd *exec.Cmd, lines *pubsub.Merger[string]) (*Operation, error) {
	id := state.ID
	o := newOperation(s, state, ctx, ctxCancel, cmd, lines)
	err := s.operations.Locked(func(operations operationsByID) error {
		if _, ok := operations[id]; ok {
			return errors.New("duplicate operation ID")
		}
		operations[id] = o
		return nil
	})
	if err != nil {
		o.Close()
		return nil, err
	}
	generic.Unwrap_(o.events.AddSubscriber(s.events))
	s.log.Debugf("operation added: %v", o)
	s.events.Send(OperationAdded{operationEvent{o}})
	return o, nil
}

func (s *Session) Close() {
	s.ctxCancel()
	operations := s.operations.Swap(nil)
	var wg sync.WaitGroup
	wg.Add(len(operations))
	for _, o := range operations {
		go func(o *Operation) {
			o.Close()
			wg.Done()
		}(o)
	}
	wg.Wait()
	s.events.Close()
}
