package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/nudge/internal/history"
	"github.com/JonMunkholm/nudge/internal/ingest"
	"github.com/JonMunkholm/nudge/internal/logging"
	"github.com/JonMunkholm/nudge/internal/metrics"
	"github.com/JonMunkholm/nudge/internal/nudge"
)

var (
	// ErrNoFile is returned when a request carries no upload.
	ErrNoFile = errors.New("no file provided")

	// ErrUnsupportedFileType is returned for uploads without a .csv extension.
	ErrUnsupportedFileType = errors.New("unsupported file type")
)

// maxLoggedIssues caps per-issue warnings for a single run. The full list is
// kept on the run.
const maxLoggedIssues = 20

// Options configures a Service.
type Options struct {
	Timestamps    nudge.TimestampPolicy
	Workers       int
	MaxFileSize   int64
	Timeout       time.Duration
	MaxConcurrent int
	MaxWait       time.Duration
}

// Service runs classifications and serves their output files.
type Service struct {
	store   history.Store
	limiter *RunLimiter
	opts    Options
	now     func() time.Time
}

// NewService creates a Service saving runs to store.
func NewService(store history.Store, opts Options) *Service {
	return &Service{
		store:   store,
		limiter: NewRunLimiter(opts.MaxConcurrent, opts.MaxWait),
		opts:    opts,
		now:     time.Now,
	}
}

// Run classifies one exported CSV and stores both output tables.
func (s *Service) Run(ctx context.Context, fileName string, r io.Reader) (*history.Run, error) {
	if r == nil {
		return nil, ErrNoFile
	}
	if ext := strings.ToLower(filepath.Ext(fileName)); fileName != "" && ext != ".csv" {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFileType, ext)
	}

	started := s.now()
	runID := uuid.NewString()
	logger := logging.WithFields(ctx,
		"run_id", runID,
		"file", fileName,
		"client_ip", ClientIPFromContext(ctx),
		"user_agent", UserAgentFromContext(ctx),
	)

	if err := s.limiter.Acquire(ctx); err != nil {
		metrics.ObserveRun(metrics.OutcomeBusy, s.now().Sub(started))
		logger.Warn("run rejected", "error", err, "active", s.limiter.ActiveCount())
		return nil, err
	}
	defer s.limiter.Release()

	metrics.RunsActive.Inc()
	defer metrics.RunsActive.Dec()

	if s.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
	}

	logger.Info("run started", "timestamp_policy", s.opts.Timestamps.String(), "workers", s.opts.Workers)

	run, err := s.execute(ctx, runID, fileName, r)
	if err != nil {
		outcome := metrics.OutcomeRejected
		if !IsUserFacing(err) || errors.Is(err, context.DeadlineExceeded) {
			outcome = metrics.OutcomeFailed
		}
		metrics.ObserveRun(outcome, s.now().Sub(started))
		if outcome == metrics.OutcomeFailed {
			logger.Error("run failed", "error", err, "code", MapError(err).Code)
		} else {
			logger.Warn("run rejected", "error", err, "code", MapError(err).Code)
		}
		return nil, err
	}

	if err := s.store.Save(ctx, run); err != nil {
		metrics.ObserveRun(metrics.OutcomeFailed, s.now().Sub(started))
		logger.Error("run not saved", "error", err)
		return nil, fmt.Errorf("save run: %w", err)
	}

	for i, iss := range run.Issues {
		if i == maxLoggedIssues {
			logger.Warn("further issues not logged", "remaining", len(run.Issues)-i)
			break
		}
		logger.Warn("data issue",
			"kind", iss.Kind,
			"line", iss.Line,
			"email", iss.Email,
			"value", iss.Value,
			"message", iss.Message,
		)
	}

	elapsed := s.now().Sub(started)
	metrics.ObserveRun(metrics.OutcomeSuccess, elapsed)
	metrics.ObserveResult(run.Summary, run.Issues, history.TableStart, history.TableStop)

	logger.Info("run completed",
		"records", run.Summary.Records,
		"groups", run.Summary.Groups,
		"start_rows", run.Summary.StartRows,
		"stop_rows", run.Summary.StopRows,
		"default_stops", run.Summary.DefaultStops,
		"issues", run.Summary.Issues,
		"bytes", run.Bytes,
		"duration_ms", elapsed.Milliseconds(),
	)
	return run, nil
}

func (s *Service) execute(ctx context.Context, runID, fileName string, r io.Reader) (*history.Run, error) {
	in, err := ingest.Decode(ingest.LimitReader(r, s.opts.MaxFileSize))
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res, err := nudge.Process(in.Records, nudge.Options{
		Timestamps: s.opts.Timestamps,
		Workers:    s.opts.Workers,
	})
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	startCSV, err := ingest.Encode(res.Start)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", history.TableStart, err)
	}
	stopCSV, err := ingest.Encode(res.Stop)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", history.TableStop, err)
	}

	issues := append(in.Issues, res.Issues...)
	summary := res.Summary
	summary.Issues = len(issues)

	return &history.Run{
		ID:              runID,
		FileName:        fileName,
		CreatedAt:       s.now().UTC(),
		TimestampPolicy: s.opts.Timestamps.String(),
		Bytes:           in.Bytes,
		Summary:         summary,
		Issues:          issues,
		StartCSV:        startCSV,
		StopCSV:         stopCSV,
	}, nil
}

// Get returns a stored run.
func (s *Service) Get(ctx context.Context, runID string) (*history.Run, error) {
	return s.store.Get(ctx, runID)
}

// List returns up to limit recent runs, newest first.
func (s *Service) List(ctx context.Context, limit int) ([]history.Run, error) {
	return s.store.List(ctx, limit)
}

// Download returns the file name and CSV body of one output table of a run.
func (s *Service) Download(ctx context.Context, runID, table string) (string, []byte, error) {
	run, err := s.store.Get(ctx, runID)
	if err != nil {
		return "", nil, err
	}
	return run.File(table)
}

// Status reports run slot usage.
func (s *Service) Status() RunLimiterStatus {
	return s.limiter.Status()
}

// Drain waits for in-flight runs to finish.
func (s *Service) Drain(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}
