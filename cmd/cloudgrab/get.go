package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-multierror"
	"github.com/r3labs/diff/v3"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/cloudgrab/cloudgrab"
	"github.com/cloudgrab/cloudgrab/database"
	"github.com/cloudgrab/cloudgrab/internal/boltdb"
	"github.com/cloudgrab/cloudgrab/internal/pubsub"
	"github.com/cloudgrab/cloudgrab/internal/session"
	"github.com/cloudgrab/cloudgrab/ytdlp"
)

func getCommand(ctx context.Context) *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "download one or more URLs",
		ArgsUsage: "URL [URL ...]",
		Flags: append(commonFlags(),
			&cli.BoolFlag{
				Name:  "debug-state",
				Usage: "log every state change as a diff",
			},
		),
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return cli.Exit("at least one URL is required", 2)
			}
			config, err := loadConfig(c)
			if err != nil {
				return err
			}
			return runGet(ctx, config, c.Args().Slice(), c.Bool("debug-state"))
		},
	}
}

func runGet(ctx context.Context, config cloudgrab.Config, urls []string, debugState bool) error {
	logger := cloudgrab.Logger(ctx).Sugar()

	journal, err := openJournal(config.JournalPath)
	if err != nil {
		return err
	}
	defer journal.Close()
	history, err := openHistory(config.HistoryPath)
	if err != nil {
		return err
	}
	defer history.Close()

	sessionConfig := session.DefaultConfig
	sessionConfig.OutputDir = config.OutputDir
	sessionConfig.AutoImport = config.AutoImport
	sessionConfig.ImportApp = config.ImportApp
	sessionConfig.DownloaderPath = config.DownloaderPath
	sessionConfig.Database = journal
	if sessionConfig.Quality, err = ytdlp.ParseQuality(config.Quality); err != nil {
		return err
	}
	ses, err := session.New(sessionConfig, ctx)
	if err != nil {
		return err
	}
	defer ses.Close()

	if debugState {
		updates, err := ses.SubscribeFiltered(func(e session.Event) bool {
			_, ok := e.(session.OperationUpdated)
			return ok
		})
		if err != nil {
			return err
		}
		defer updates.Close()
		go logStateChanges(updates)
	}

	var result error
	for _, url := range urls {
		if err := getOne(ctx, ses, history, url); err != nil {
			result = multierror.Append(result, multierror.Prefix(err, url+":"))
		}
		if ctx.Err() != nil {
			break
		}
	}
	if result != nil {
		return result
	}
	logger.Info("all downloads finished")
	return nil
}

func getOne(ctx context.Context, ses *session.Session, history *database.Database, url string) error {
	logger := zap.S()

	o, err := ses.Start(url, nil)
	if o != nil {
		defer recordHistory(history, o)
	}
	if err != nil {
		return err
	}

	sub, err := o.Subscribe()
	if err != nil {
		return err
	}
	defer sub.Close()

	bar := progressbar.NewOptions(100,
		progressbar.OptionSetDescription(url),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionOnCompletion(func() { fmt.Fprintln(os.Stderr) }),
	)

	var state session.OperationState
	for state = range sub.Receive() {
		_ = bar.Set(int(state.Progress.Percentage))
		bar.Describe(describeState(state))
		if state.Terminal() {
			break
		}
	}
	_ = bar.Finish()

	if !state.Terminal() {
		// The subscription closed before the terminal state, so the session
		// is shutting down underneath us.
		return ctx.Err()
	}
	if !state.Completed {
		return fmt.Errorf("%w: %s", cloudgrab.ErrRuntime, state.Error)
	}
	for _, f := range state.Files {
		logger.Infof("downloaded %s", f)
	}
	if state.Error != "" {
		logger.Warnf("finished with errors: %s", state.Error)
	}
	return nil
}

func describeState(state session.OperationState) string {
	switch {
	case state.Track != nil && state.Progress.TotalTracks > 0:
		return fmt.Sprintf("%s (%d/%d)", state.Track.Title, state.Progress.CurrentTrack, state.Progress.TotalTracks)
	case state.Track != nil:
		return state.Track.Title
	case state.Progress.CurrentTitle != "":
		return state.Progress.CurrentTitle
	default:
		return state.URL
	}
}

func logStateChanges(events pubsub.ReceiverCloser[session.Event]) {
	logger := zap.S()
	for event := range events.Receive() {
		if e, ok := event.(session.OperationUpdated); ok {
			changes, err := diff.Diff(e.OldState, e.NewState)
			if err != nil {
				logger.Errorf("failed to diff old and new operation state: %v", err)
				continue
			}
			for _, change := range changes {
				logger.Debugf("%v: %#v -> %#v", change.Path, change.From, change.To)
			}
		}
	}
}

// recordHistory copies the operation's final state into the download history.
func recordHistory(history *database.Database, o *session.Operation) {
	state, err := o.State()
	if err != nil {
		return
	}
	record := state.Record()
	if err := history.RecordOperation(&record); err != nil {
		zap.S().Warnf("failed to record download history: %v", err)
	}
}

func openJournal(path string) (boltdb.Database, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create journal directory: %w", err)
	}
	return boltdb.New(path)
}

func openHistory(path string) (*database.Database, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}
	db, err := database.NewDatabase(path, zap.L())
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
