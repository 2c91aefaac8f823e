package worker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"timeboss-backend/apperrors"
	"timeboss-backend/dispatch"
	"timeboss-backend/metrics"
	"timeboss-backend/models"
	"timeboss-backend/notifier"
	"timeboss-backend/utils"
	"timeboss-backend/utils/logger"

	"github.com/google/uuid"
	"github.com/robfig/cron"
)

const (
	lockTimeout = 10 * time.Minute
	runTimeout  = 2 * time.Minute
)

// Reporter computes the daily summary the digest sends
type Reporter interface {
	DailySummary(ctx context.Context, date string) (*models.DailySummary, error)
}

// Enqueuer hands a message to the notification dispatcher
type Enqueuer interface {
	Enqueue(msg models.Message) bool
}

// DigestWorker emails the daily summary to the office on a cron schedule
type DigestWorker struct {
	reports    Reporter
	queue      Enqueuer
	adminEmail string
	schedule   string
	ownerID    string
	locks      *LockManager
	status     *StatusManager
	cron       *cron.Cron
	logger     logger.Logger
	now        func() time.Time

	mu      sync.Mutex
	running bool
	busy    bool
	ctx     context.Context
	cancel  context.CancelFunc
}

func NewDigestWorker(cfg *models.Config, reports Reporter, queue Enqueuer, log logger.Logger) (*DigestWorker, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if reports == nil {
		return nil, fmt.Errorf("reporter cannot be nil")
	}

	hostname := os.Getenv("HOSTNAME")
	if hostname == "" {
		hostname = "localhost"
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &DigestWorker{
		reports:    reports,
		queue:      queue,
		adminEmail: cfg.AdminEmail,
		schedule:   cfg.DigestSchedule,
		ownerID:    fmt.Sprintf("digest-%s-%s", hostname, uuid.New().String()[:8]),
		locks:      NewLockManager(cfg.DigestLockPath, lockTimeout, cfg.AppEnv),
		status:     NewStatusManager(cfg.DigestStatusPath),
		cron:       cron.New(),
		logger:     log,
		now:        time.Now,
		ctx:        ctx,
		cancel:     cancel,
	}, nil
}

// Start schedules the digest
func (w *DigestWorker) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return fmt.Errorf("worker is already running")
	}
	select {
	case <-w.ctx.Done():
		return fmt.Errorf("worker has been stopped")
	default:
	}

	if err := w.cron.AddFunc(w.schedule, w.scheduledRun); err != nil {
		return fmt.Errorf("failed to add cron job: %w", err)
	}
	w.cron.Start()
	w.running = true

	w.logger.Infof("Digest worker %s started with schedule: %s", w.ownerID, w.schedule)
	return nil
}

// Stop halts the schedule and cancels a run in progress
func (w *DigestWorker) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.cancel()
	if w.running {
		w.cron.Stop()
		w.running = false
		w.logger.Info("Digest worker stopped")
	}
}

func (w *DigestWorker) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

func (w *DigestWorker) scheduledRun() {
	ctx, cancel := context.WithTimeout(w.ctx, runTimeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			w.logger.Errorf("Digest run panicked: %v", r)
		}
	}()

	if _, err := w.RunNow(ctx, ""); err != nil {
		w.logger.Errorf("Scheduled digest failed: %v", err)
	}
}

// LastRun returns the most recent recorded run, nil if none
func (w *DigestWorker) LastRun() (*models.DigestRun, error) {
	return w.status.LoadRun()
}

// RunNow sends the digest for date, today when empty. A run already in progress here or on
// another instance yields a Skipped run and no error.
func (w *DigestWorker) RunNow(ctx context.Context, date string) (*models.DigestRun, error) {
	started := w.now()
	if date == "" {
		date = utils.Today(started)
	}
	run := &models.DigestRun{ID: uuid.New().String(), Date: date, StartedAt: started}

	if !w.claim() {
		return w.skip(run, "a digest run is already in progress"), nil
	}
	defer w.release()

	if err := w.locks.CleanupExpiredLocks(); err != nil {
		w.logger.Warnf("Failed to clean up expired digest lock: %v", err)
	}
	lock, err := w.locks.AcquireLock(w.ownerID)
	if err != nil {
		var held *ErrLockHeld
		if errors.As(err, &held) {
			return w.skip(run, held.Error()), nil
		}
		return w.finish(run, apperrors.Wrap("acquire digest lock", err))
	}
	defer func() {
		if err := w.locks.ReleaseLock(lock); err != nil {
			w.logger.Warnf("Failed to release digest lock: %v", err)
		}
	}()

	summary, err := w.reports.DailySummary(ctx, date)
	if err != nil {
		return w.finish(run, err)
	}
	run.Summary = summary

	return w.finish(run, w.send(summary))
}

func (w *DigestWorker) send(summary *models.DailySummary) error {
	body := dispatch.FormatSummary(summary)
	if w.adminEmail == "" || w.queue == nil {
		w.logger.Infof("No admin address configured, digest not sent:\n%s", body)
		return nil
	}

	msg := notifier.EmailMessage(models.NotificationDigest, w.adminEmail, "Daily summary for "+summary.Date, body, w.now())
	if !w.queue.Enqueue(msg) {
		return apperrors.Wrap("enqueue digest", fmt.Errorf("notification queue is full"))
	}
	return nil
}

func (w *DigestWorker) finish(run *models.DigestRun, err error) (*models.DigestRun, error) {
	run.Duration = w.now().Sub(run.StartedAt)
	result := "sent"
	if err != nil {
		run.Error = err.Error()
		result = "failed"
		w.logger.Errorf("Digest for %s failed: %v", run.Date, err)
	} else {
		w.logger.Infof("Digest for %s sent in %s", run.Date, run.Duration)
	}
	metrics.DigestRuns.WithLabelValues(result).Inc()

	if saveErr := w.status.SaveRun(run); saveErr != nil {
		w.logger.Warnf("Failed to record digest run: %v", saveErr)
	}
	return run, err
}

func (w *DigestWorker) skip(run *models.DigestRun, reason string) *models.DigestRun {
	run.Skipped = true
	run.Duration = w.now().Sub(run.StartedAt)
	w.logger.Infof("Skipping digest for %s: %s", run.Date, reason)
	metrics.DigestRuns.WithLabelValues("skipped").Inc()
	return run
}

func (w *DigestWorker) claim() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.busy {
		return false
	}
	w.busy = true
	return true
}

func (w *DigestWorker) release() {
	w.mu.Lock()
	w.busy = false
	w.mu.Unlock()
}
