package session

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/cloudgrab/cloudgrab"
	"github.com/cloudgrab/cloudgrab/generic"
	"github.com/cloudgrab/cloudgrab/internal/pubsub"
	"github.com/cloudgrab/cloudgrab/validate"
	"github.com/cloudgrab/cloudgrab/ytdlp"
)

const maxLineSize = 1024 * 1024

type StartOptions struct {
	// Override the output directory; if empty, the Session default is used.
	OutputDir string
	// Override the quality preset name; if empty, the Session default is used.
	Quality string
	// Override whether finished files are handed to the media library.
	AutoImport generic.Option[bool]
}

// Start validates the URL, builds the downloader invocation, and launches the
// child process, returning the tracking Operation. Validation and launch
// failures still produce an Operation, already in its terminal state, so the
// failure is visible through the same store as everything else.
func (s *Session) Start(url string, opt *StartOptions) (*Operation, error) {
	if opt == nil {
		opt = &StartOptions{}
	}
	state := OperationState{
		ID:         NewOperationID(),
		URL:        url,
		OutputDir:  s.config.OutputDir,
		Quality:    s.config.Quality,
		AutoImport: opt.AutoImport.UnwrapOr(s.config.AutoImport),
		AddedAt:    time.Now(),
	}
	if opt.OutputDir != "" {
		state.OutputDir = opt.OutputDir
	}
	if opt.Quality != "" {
		quality, err := ytdlp.ParseQuality(opt.Quality)
		if err != nil {
			return s.failOperation(state, fmt.Errorf("%w: %v", cloudgrab.ErrValidation, err))
		}
		state.Quality = quality
	}

	match, err := s.config.ProviderRegistry.Match(url)
	if err != nil {
		return s.failOperation(state, fmt.Errorf("%w: %v", cloudgrab.ErrValidation, err))
	}
	source := match.Source
	state.URL = source.URL()
	state.Kind = source.Kind()
	state.Provider = match.ProviderName
	if !state.Kind.Downloadable() {
		return s.failOperation(state, fmt.Errorf("%w: %v URL is not downloadable", cloudgrab.ErrValidation, state.Kind))
	}

	outputDir, err := validate.Path(state.OutputDir)
	if err != nil {
		return s.failOperation(state, fmt.Errorf("%w: %v", cloudgrab.ErrValidation, err))
	}
	state.OutputDir = outputDir

	argv := ytdlp.Command(source, outputDir, state.Quality)
	argv, err = validate.CommandArgs(argv)
	if err != nil {
		return s.failOperation(state, fmt.Errorf("%w: %v", cloudgrab.ErrValidation, err))
	}

	bin, err := ytdlp.Locate(s.config.DownloaderPath)
	if err != nil {
		return s.failOperation(state, fmt.Errorf("%w: %v", cloudgrab.ErrLaunch, err))
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return s.failOperation(state, fmt.Errorf("%w: %v", cloudgrab.ErrLaunch, err))
	}

	ctx, cancel := context.WithCancel(s.ctx)
	cmd := exec.CommandContext(ctx, bin, argv...)
	cmd.Env = append(os.Environ(), "PYTHONUNBUFFERED=1")
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return s.failOperation(state, fmt.Errorf("%w: %v", cloudgrab.ErrLaunch, err))
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		cancel()
		return s.failOperation(state, fmt.Errorf("%w: %v", cloudgrab.ErrLaunch, err))
	}
	if err := cmd.Start(); err != nil {
		cancel()
		return s.failOperation(state, fmt.Errorf("%w: %v", cloudgrab.ErrLaunch, err))
	}
	state.Active = true
	state.StartedAt = time.Now()

	lines := mergeOutput(stdout, stderr)
	o, err := s.insertOperation(state, ctx, cancel, cmd, lines)
	if err != nil {
		// Registry insertion can only fail on an ID collision; kill the
		// process rather than leak it.
		cancel()
		return nil, err
	}
	s.log.Infow("operation started", "operation_id", state.ID, "url", state.URL, "kind", state.Kind)
	o.events.Send(OperationStarted{operationEvent{o}})
	return o, nil
}

// failOperation records a pre-launch failure as a terminal operation in the
// registry and returns it alongside the error.
func (s *Session) failOperation(state OperationState, err error) (*Operation, error) {
	state.Active = false
	state.FinishedAt = time.Now()
	state.Error = err.Error()
	record := state.Record()
	if dbErr := s.config.Database.WriteOperation(&record); dbErr != nil {
		s.log.Warnf("failed to journal operation: %v", dbErr)
	}
	ctx, cancel := context.WithCancel(s.ctx)
	o, insertErr := s.insertOperation(state, ctx, cancel, nil, nil)
	if insertErr != nil {
		cancel()
		return nil, err
	}
	s.log.Errorw("operation rejected", "operation_id", state.ID, "url", state.URL, "error", err)
	o.events.Send(OperationFinished{operationEvent{o}, err})
	return o, err
}

// mergeOutput funnels stdout and stderr line-by-line into a single channel
// that closes only after both pipes are exhausted and every buffered line has
// been delivered, so no output can race the process exit status.
func mergeOutput(readers ...io.Reader) *pubsub.Merger[string] {
	merger := pubsub.NewMergerBufSize[string](lineBufSize)
	var scanners sync.WaitGroup
	for _, r := range readers {
		ch := pubsub.NewChannel[string](lineBufSize)
		merger.Add(ch)
		scanners.Add(1)
		go func(r io.Reader, ch pubsub.Channel[string]) {
			defer scanners.Done()
			defer ch.Close()
			scanner := bufio.NewScanner(r)
			scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
			for scanner.Scan() {
				if !ch.Send(scanner.Text()) {
					return
				}
			}
		}(r, ch)
	}
	go func() {
		scanners.Wait()
		merger.Drained()
		merger.Close()
	}()
	return &merger
}
