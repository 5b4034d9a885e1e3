package scheduler

import (
	"context"
	"fmt"
	"time"

	"ipo-hype-tracker/internal/digest/dto"
	"ipo-hype-tracker/internal/digest/service"
	"ipo-hype-tracker/pkg/common"
	"ipo-hype-tracker/pkg/logger"
	"ipo-hype-tracker/pkg/utils"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler triggers digest runs on a cron expression.
type Scheduler interface {
	Start(ctx context.Context)
	NextRun() time.Time
}

type cronScheduler struct {
	cron          *cron.Cron
	entryID       cron.EntryID
	digestService service.DigestService
	runTimeout    time.Duration
	logger        *logger.Logger
}

// NewCronScheduler parses expression in the given timezone and registers the digest job.
// Overlapping ticks are skipped while a run is still in progress.
func NewCronScheduler(expression, timezone string, digestService service.DigestService, runTimeout time.Duration, log *logger.Logger) (Scheduler, error) {
	cronLogger := &cronLogger{logger: log}
	c := cron.New(
		cron.WithParser(cron.NewParser(cron.Minute|cron.Hour|cron.Dom|cron.Month|cron.Dow|cron.Descriptor)),
		cron.WithLocation(utils.LoadLocation(timezone)),
		cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		cron.WithLogger(cronLogger),
	)

	s := &cronScheduler{
		cron:          c,
		digestService: digestService,
		runTimeout:    runTimeout,
		logger:        log,
	}

	id, err := c.AddFunc(expression, s.runDigest)
	if err != nil {
		return nil, fmt.Errorf("failed to parse cron expression %q: %w", expression, err)
	}
	s.entryID = id
	return s, nil
}

// Start runs the cron loop until ctx is done, then waits for an in-flight run to finish.
func (s *cronScheduler) Start(ctx context.Context) {
	s.cron.Start()
	s.logger.Info("Digest scheduler started", zap.Time("next_run", s.NextRun()))

	<-ctx.Done()
	s.logger.Info("Digest scheduler stopping")
	<-s.cron.Stop().Done()
}

// NextRun returns the next activation time, zero before Start.
func (s *cronScheduler) NextRun() time.Time {
	return s.cron.Entry(s.entryID).Next
}

func (s *cronScheduler) runDigest() {
	ctx, cancel := context.WithTimeout(context.Background(), s.runTimeout)
	defer cancel()

	summary, err := s.digestService.Run(ctx, dto.RunRequest{Trigger: common.TriggerSchedule})
	if err != nil {
		s.logger.Error("Scheduled digest run failed", logger.ErrorField(err))
		return
	}
	s.logger.Info("Scheduled digest run finished",
		logger.StringField("run_id", summary.RunID),
		logger.StringField("status", summary.Status),
	)
}

// cronLogger adapts the zap logger to cron.Logger.
type cronLogger struct {
	logger *logger.Logger
}

func (l *cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Sugar().Debugw(msg, keysAndValues...)
}

func (l *cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Sugar().Errorw(msg, append(keysAndValues, "error", err)...)
}
