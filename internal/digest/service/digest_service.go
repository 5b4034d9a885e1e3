package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ipo-hype-tracker/internal/digest/candidate"
	"ipo-hype-tracker/internal/digest/dto"
	"ipo-hype-tracker/internal/digest/render"
	"ipo-hype-tracker/internal/digest/repository"
	"ipo-hype-tracker/internal/entity"
	"ipo-hype-tracker/pkg/logger"
	"ipo-hype-tracker/pkg/telegram"
	"ipo-hype-tracker/pkg/utils"

	"github.com/google/uuid"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// DigestOptions carries the pipeline bounds injected at the entry point.
type DigestOptions struct {
	// MaxCandidates bounds the raw records enriched per run, in input order. 0 disables the bound.
	MaxCandidates   int
	TopN            int
	EnrichBatchSize int
	MailBatchSize   int
	LockTTL         time.Duration
	LatestTTL       time.Duration
}

// DigestService runs the ranking and delivery pipeline and serves its history.
type DigestService interface {
	Run(ctx context.Context, req dto.RunRequest) (*dto.RunSummary, error)
	ListRuns(ctx context.Context, limit int) ([]dto.RunSummary, error)
	GetRun(ctx context.Context, runID string) (*dto.RunSummary, error)
	Latest(ctx context.Context) (*dto.RunSummary, error)
}

type digestService struct {
	calendar    repository.CalendarRepository
	subscribers repository.SubscriberRepository
	runs        repository.DigestRunRepository
	cache       repository.DigestCacheRepository
	enricher    *Enricher
	dispatcher  *BatchDispatcher
	renderer    *render.Renderer
	notifier    telegram.Notifier
	opts        DigestOptions
	logger      *logger.Logger
	now         func() time.Time
}

// NewDigestService creates a new digest service.
func NewDigestService(
	calendar repository.CalendarRepository,
	subscribers repository.SubscriberRepository,
	runs repository.DigestRunRepository,
	cache repository.DigestCacheRepository,
	enricher *Enricher,
	dispatcher *BatchDispatcher,
	renderer *render.Renderer,
	notifier telegram.Notifier,
	opts DigestOptions,
	log *logger.Logger,
) DigestService {
	if opts.TopN <= 0 {
		opts.TopN = 5
	}
	if opts.EnrichBatchSize <= 0 {
		opts.EnrichBatchSize = 5
	}
	if opts.LockTTL <= 0 {
		opts.LockTTL = 30 * time.Minute
	}
	return &digestService{
		calendar:    calendar,
		subscribers: subscribers,
		runs:        runs,
		cache:       cache,
		enricher:    enricher,
		dispatcher:  dispatcher,
		renderer:    renderer,
		notifier:    notifier,
		opts:        opts,
		logger:      log,
		now:         time.Now,
	}
}

// Run executes one digest run. The returned summary is never nil.
func (s *digestService) Run(ctx context.Context, req dto.RunRequest) (*dto.RunSummary, error) {
	if req.RunID == "" {
		req.RunID = uuid.NewString()
	}
	ctx = logger.WithRunID(ctx, req.RunID)

	summary := &dto.RunSummary{
		RunID:     req.RunID,
		Trigger:   req.Trigger,
		Status:    dto.RunStatusRunning,
		DryRun:    req.DryRun,
		StartedAt: s.now(),
	}

	acquired, err := s.cache.AcquireRunLock(ctx, req.RunID, s.opts.LockTTL)
	if err != nil {
		s.finishSummary(summary, err)
		s.logger.ErrorContext(ctx, "Failed to acquire run lock", logger.ErrorField(err))
		return summary, err
	}
	if !acquired {
		s.finishSummary(summary, ErrRunInProgress)
		s.logger.WarnContext(ctx, "Skipping digest run, another run holds the lock")
		return summary, ErrRunInProgress
	}
	defer func() {
		if err := s.cache.ReleaseRunLock(context.WithoutCancel(ctx), req.RunID); err != nil {
			s.logger.ErrorContext(ctx, "Failed to release run lock", logger.ErrorField(err))
		}
	}()

	run := &entity.DigestRun{
		RunID:     summary.RunID,
		Trigger:   summary.Trigger,
		Status:    summary.Status,
		DryRun:    summary.DryRun,
		StartedAt: summary.StartedAt,
	}
	if err := s.runs.Create(ctx, run); err != nil {
		s.logger.ErrorContext(ctx, "Failed to persist digest run", logger.ErrorField(err))
		run = nil
	}

	s.logger.InfoContext(ctx, "Digest run started", logger.StringField("trigger", req.Trigger), logger.Field("dry_run", req.DryRun))

	runErr := s.execute(ctx, summary)
	s.finishSummary(summary, runErr)
	s.record(context.WithoutCancel(ctx), run, summary, runErr)

	return summary, runErr
}

func (s *digestService) execute(ctx context.Context, summary *dto.RunSummary) error {
	records, err := s.calendar.UpcomingIPOs(ctx)
	if err != nil {
		return fmt.Errorf("failed to load upcoming ipos: %w", err)
	}
	datasets := s.auxiliaryDatasets(ctx)

	summary.CandidatesReceived = len(records)
	if s.opts.MaxCandidates > 0 && len(records) > s.opts.MaxCandidates {
		records = records[:s.opts.MaxCandidates]
	}
	summary.CandidatesBounded = len(records)

	candidates := make([]dto.Candidate, 0, len(records))
	for _, record := range records {
		c, err := candidate.Normalize(record, datasets...)
		if err != nil {
			summary.CandidatesSkipped++
			s.logger.WarnContext(ctx, "Dropping candidate", logger.ErrorField(err), logger.StringsField("keys", record.Keys()))
			continue
		}
		candidates = append(candidates, c)
	}

	var stats dto.EnrichStats
	enriched := make([]dto.RankedCandidate, 0, len(candidates))
	for start := 0; start < len(candidates); start += s.opts.EnrichBatchSize {
		if !utils.ShouldContinue(ctx, s.logger) {
			return fmt.Errorf("digest run cancelled: %w", ctx.Err())
		}
		end := min(start+s.opts.EnrichBatchSize, len(candidates))

		ranked, batchStats := s.enricher.EnrichBatch(ctx, candidates[start:end])
		for i := range ranked {
			ranked[i].InputIndex += start
		}
		enriched = append(enriched, ranked...)
		stats.Add(batchStats)
	}
	summary.CandidatesProcessed = stats.Processed
	summary.CandidatesExcluded = stats.Excluded

	summary.Top = Rank(enriched, s.opts.TopN)
	summary.CandidatesRanked = len(summary.Top)
	if len(summary.Top) == 0 {
		return ErrNoRankableCandidates
	}

	msg, err := s.renderer.Render(summary.Top, s.now())
	if err != nil {
		return err
	}

	if summary.DryRun {
		s.logger.InfoContext(ctx, "Dry run, skipping dispatch", logger.StringField("subject", msg.Subject))
		return nil
	}

	recipients, err := s.subscribers.FindActiveEmails(ctx)
	if err != nil {
		return fmt.Errorf("failed to load subscribers: %w", err)
	}
	if len(recipients) == 0 {
		s.logger.WarnContext(ctx, "No active subscribers, nothing to dispatch")
		return nil
	}

	result := s.dispatcher.DispatchBulk(ctx, recipients, msg, s.opts.MailBatchSize)
	summary.ApplyDispatch(result)
	if result.TotalSent == 0 {
		return fmt.Errorf("%w: %d recipients in %d batches", ErrBatchDeliveryFailure, result.TotalFailed, len(result.Failed))
	}
	return nil
}

// auxiliaryDatasets loads the price datasets in priority order. A failed dataset is treated as empty.
func (s *digestService) auxiliaryDatasets(ctx context.Context) [][]dto.RawCandidate {
	loaders := []struct {
		name string
		load func(context.Context) ([]dto.RawCandidate, error)
	}{
		{name: "recent_ipo_prices", load: s.calendar.RecentIPOPrices},
		{name: "ticker_prices", load: s.calendar.TickerPrices},
	}

	datasets := make([][]dto.RawCandidate, 0, len(loaders))
	for _, l := range loaders {
		rows, err := l.load(ctx)
		if err != nil {
			s.logger.WarnContext(ctx, "Failed to load auxiliary price dataset", logger.StringField("dataset", l.name), logger.ErrorField(err))
			rows = nil
		}
		datasets = append(datasets, rows)
	}
	return datasets
}

func (s *digestService) finishSummary(summary *dto.RunSummary, err error) {
	summary.FinishedAt = utils.ToPointer(s.now())

	switch {
	case err != nil:
		summary.Status = dto.RunStatusFailed
		summary.Error = err.Error()
	case summary.RecipientsFailed > 0:
		summary.Status = dto.RunStatusPartial
	default:
		summary.Status = dto.RunStatusCompleted
	}
}

// record persists the outcome and notifies the operator. Failures here are logged only.
func (s *digestService) record(ctx context.Context, run *entity.DigestRun, summary *dto.RunSummary, runErr error) {
	if runErr == nil {
		if err := s.cache.SaveLatest(ctx, summary, s.opts.LatestTTL); err != nil {
			s.logger.ErrorContext(ctx, "Failed to cache latest digest", logger.ErrorField(err))
		}
	}

	if run != nil {
		applySummary(run, summary)
		if err := s.runs.Update(ctx, run); err != nil {
			s.logger.ErrorContext(ctx, "Failed to update digest run", logger.ErrorField(err))
		}
	}

	s.logger.InfoContext(ctx, "Digest run finished",
		logger.StringField("status", summary.Status),
		logger.IntField("candidates_received", summary.CandidatesReceived),
		logger.IntField("candidates_ranked", summary.CandidatesRanked),
		logger.IntField("recipients_succeeded", summary.RecipientsSucceeded),
		logger.IntField("recipients_failed", summary.RecipientsFailed),
		logger.DurationField("duration", summary.FinishedAt.Sub(summary.StartedAt)),
	)

	if s.notifier == nil {
		return
	}
	text := telegram.FormatRunSummaryForTelegram(summary)
	if runErr != nil {
		text = telegram.FormatErrorAlertMessage(s.now(), "digest_run", runErr.Error(), summary.RunID)
	}
	if err := s.notifier.SendMessage(text); err != nil {
		s.logger.WarnContext(ctx, "Failed to send telegram notification", logger.ErrorField(err))
	}
}

func (s *digestService) ListRuns(ctx context.Context, limit int) ([]dto.RunSummary, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	limit = min(limit, maxListLimit)

	runs, err := s.runs.FindRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list digest runs: %w", err)
	}

	summaries := make([]dto.RunSummary, 0, len(runs))
	for i := range runs {
		summaries = append(summaries, toSummary(&runs[i]))
	}
	return summaries, nil
}

func (s *digestService) GetRun(ctx context.Context, runID string) (*dto.RunSummary, error) {
	run, err := s.runs.FindByRunID(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get digest run: %w", err)
	}
	if run == nil {
		return nil, ErrRunNotFound
	}
	summary := toSummary(run)
	return &summary, nil
}

func (s *digestService) Latest(ctx context.Context) (*dto.RunSummary, error) {
	summary, err := s.cache.GetLatest(ctx)
	if err != nil {
		return nil, err
	}
	if summary == nil {
		return nil, ErrRunNotFound
	}
	return summary, nil
}

func applySummary(run *entity.DigestRun, summary *dto.RunSummary) {
	run.Status = summary.Status
	run.CandidatesReceived = summary.CandidatesReceived
	run.CandidatesProcessed = summary.CandidatesProcessed
	run.CandidatesExcluded = summary.CandidatesExcluded
	run.CandidatesRanked = summary.CandidatesRanked
	run.RecipientsSucceeded = summary.RecipientsSucceeded
	run.RecipientsFailed = summary.RecipientsFailed
	run.RankedTickers = summary.Tickers()
	run.FailedRecipients = summary.FailedRecipients
	run.ErrorMessage = summary.Error
	run.FinishedAt = summary.FinishedAt
	if payload, err := json.Marshal(summary); err == nil {
		run.Summary = payload
	}
}

// toSummary prefers the stored summary document and falls back to the row columns.
func toSummary(run *entity.DigestRun) dto.RunSummary {
	var summary dto.RunSummary
	if len(run.Summary) > 0 && json.Unmarshal(run.Summary, &summary) == nil && summary.RunID != "" {
		return summary
	}
	return dto.RunSummary{
		RunID:               run.RunID,
		Trigger:             run.Trigger,
		Status:              run.Status,
		DryRun:              run.DryRun,
		StartedAt:           run.StartedAt,
		FinishedAt:          run.FinishedAt,
		Error:               run.ErrorMessage,
		CandidatesReceived:  run.CandidatesReceived,
		CandidatesProcessed: run.CandidatesProcessed,
		CandidatesExcluded:  run.CandidatesExcluded,
		CandidatesRanked:    run.CandidatesRanked,
		RecipientsSucceeded: run.RecipientsSucceeded,
		RecipientsFailed:    run.RecipientsFailed,
		FailedRecipients:    run.FailedRecipients,
	}
}
