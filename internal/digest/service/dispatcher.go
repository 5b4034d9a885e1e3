package service

import (
	"context"
	"time"

	"ipo-hype-tracker/internal/digest/dto"
	"ipo-hype-tracker/pkg/logger"
	"ipo-hype-tracker/pkg/mailer"
)

// BatchDispatcher sends one message to many recipients in fixed-size batches.
type BatchDispatcher struct {
	sender           mailer.Sender
	defaultBatchSize int
	delay            time.Duration
	sleep            func(ctx context.Context, d time.Duration) error
	logger           *logger.Logger
}

// NewBatchDispatcher creates a BatchDispatcher pausing delay between consecutive batches.
func NewBatchDispatcher(sender mailer.Sender, defaultBatchSize int, delay time.Duration, log *logger.Logger) *BatchDispatcher {
	if defaultBatchSize <= 0 {
		defaultBatchSize = 50
	}
	return &BatchDispatcher{
		sender:           sender,
		defaultBatchSize: defaultBatchSize,
		delay:            delay,
		sleep:            sleepContext,
		logger:           log,
	}
}

// DispatchBulk sends msg to recipients in consecutive chunks of batchSize. A failed batch does not stop
// later batches; its recipients are kept on the result. batchSize <= 0 uses the default size.
func (d *BatchDispatcher) DispatchBulk(ctx context.Context, recipients []string, msg dto.DigestMessage, batchSize int) dto.DispatchResult {
	if batchSize <= 0 {
		batchSize = d.defaultBatchSize
	}

	result := dto.DispatchResult{
		Successful: []dto.BatchSuccess{},
		Failed:     []dto.BatchFailure{},
	}
	batches := chunk(recipients, batchSize)

	for i, batch := range batches {
		if i > 0 && d.delay > 0 {
			if err := d.sleep(ctx, d.delay); err != nil {
				d.failRemaining(ctx, &result, batches, i, err)
				break
			}
		}
		if err := ctx.Err(); err != nil {
			d.failRemaining(ctx, &result, batches, i, err)
			break
		}

		messageID, err := d.sender.SendBatch(ctx, batch, msg.Subject, msg.HTML)
		if err != nil {
			d.logger.ErrorContext(ctx, "Failed to send digest batch",
				logger.IntField("batch_index", i),
				logger.IntField("recipients", len(batch)),
				logger.ErrorField(err),
			)
			result.Failed = append(result.Failed, dto.BatchFailure{BatchIndex: i, Recipients: batch, ErrorMessage: err.Error()})
			result.TotalFailed += len(batch)
			continue
		}

		d.logger.InfoContext(ctx, "Digest batch sent",
			logger.IntField("batch_index", i),
			logger.IntField("recipients", len(batch)),
			logger.StringField("message_id", messageID),
		)
		result.Successful = append(result.Successful, dto.BatchSuccess{BatchIndex: i, RecipientCount: len(batch), MessageID: messageID})
		result.TotalSent += len(batch)
	}

	return result
}

// failRemaining records every batch from start onwards as failed with err.
func (d *BatchDispatcher) failRemaining(ctx context.Context, result *dto.DispatchResult, batches [][]string, start int, err error) {
	for i := start; i < len(batches); i++ {
		result.Failed = append(result.Failed, dto.BatchFailure{BatchIndex: i, Recipients: batches[i], ErrorMessage: err.Error()})
		result.TotalFailed += len(batches[i])
	}
	d.logger.ErrorContext(ctx, "Dispatch interrupted, remaining batches marked failed",
		logger.IntField("from_batch", start),
		logger.IntField("batches", len(batches)-start),
		logger.ErrorField(err),
	)
}

func chunk(items []string, size int) [][]string {
	var out [][]string
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		batch := make([]string, end-start)
		copy(batch, items[start:end])
		out = append(out, batch)
	}
	return out
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
