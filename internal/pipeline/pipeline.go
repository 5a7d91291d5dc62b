// Package pipeline sequences extraction and evaluation across a batch of
// candidate documents. Per-candidate failures are isolated: one bad document
// never aborts the batch.
package pipeline

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sharp-standards/screen-cli/internal/ingest"
	"github.com/sharp-standards/screen-cli/internal/model"
)

// ErrEmptyBatch is returned when a run has zero candidates to evaluate. It is
// a distinct, reportable condition rather than a silent success.
var ErrEmptyBatch = eris.New("pipeline: empty batch")

// Evaluator is the evaluation capability consumed by the batch run.
// Implemented by screen.Screener.
type Evaluator interface {
	Screen(ctx context.Context, jd, cvText, name string) model.Outcome
}

// Progress is invoked after each candidate completes, with the number done so
// far, the batch total, and the candidate just finished.
type Progress func(done, total int, name string)

// Pipeline owns the in-flight records for one batch run.
type Pipeline struct {
	extractor   *ingest.Extractor
	evaluator   Evaluator
	concurrency int
}

// New creates a Pipeline running up to concurrency candidates in parallel.
func New(extractor *ingest.Extractor, evaluator Evaluator, concurrency int) *Pipeline {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Pipeline{
		extractor:   extractor,
		evaluator:   evaluator,
		concurrency: concurrency,
	}
}

// RunBatch extracts and evaluates every candidate document against the job
// description. Archives are expanded first; each contained document becomes
// its own candidate. Every candidate yields exactly one record: extraction
// and evaluation failures produce degraded zero-score records so the ranked
// output never drops anyone silently.
func (p *Pipeline) RunBatch(ctx context.Context, jd string, docs []model.Document, progress Progress) ([]model.Record, error) {
	docs = expandArchives(docs)
	if len(docs) == 0 {
		return nil, ErrEmptyBatch
	}

	runID := uuid.NewString()
	log := zap.L().With(zap.String("run_id", runID))
	log.Info("pipeline: starting batch",
		zap.Int("candidates", len(docs)),
		zap.Int("concurrency", p.concurrency),
	)

	records := make([]model.Record, len(docs))
	var done atomic.Int64
	var progressMu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)

	for i, doc := range docs {
		g.Go(func() error {
			records[i] = p.evaluateOne(gctx, jd, doc, log)

			n := int(done.Add(1))
			if progress != nil {
				progressMu.Lock()
				progress(n, len(docs), doc.Name)
				progressMu.Unlock()
			}
			return nil
		})
	}

	// Workers never return errors; failures are already folded into records.
	_ = g.Wait()

	log.Info("pipeline: batch complete", zap.Int("records", len(records)))
	return records, nil
}

// evaluateOne runs extract → evaluate for a single candidate, converting
// every failure mode into a renderable record.
func (p *Pipeline) evaluateOne(ctx context.Context, jd string, doc model.Document, log *zap.Logger) (record model.Record) {
	// A panicking extractor or evaluator still must not take down the batch.
	defer func() {
		if r := recover(); r != nil {
			log.Error("pipeline: candidate processing panicked",
				zap.String("candidate", doc.Name),
				zap.Any("panic", r),
			)
			record = model.DegradedRecord(doc.Name, fmt.Sprintf("internal error: %v", r))
		}
	}()

	ex := p.extractor.Extract(ctx, doc)
	if ex.Failed() {
		reason := ex.Err
		if reason == "" {
			reason = "no text extracted"
		}
		log.Warn("pipeline: extraction produced no usable text",
			zap.String("candidate", doc.Name),
			zap.String("reason", reason),
		)
		return model.DegradedRecord(doc.Name, "extraction failed: "+reason)
	}

	outcome := p.evaluator.Screen(ctx, jd, ex.Text, doc.Name)
	switch outcome.Kind {
	case model.OutcomeOK:
		return outcome.Record
	case model.OutcomeMalformed:
		return model.DegradedRecord(doc.Name, "malformed evaluation response")
	case model.OutcomeTransportError:
		return model.DegradedRecord(doc.Name, "evaluation failed: "+outcome.Err.Error())
	default:
		return model.DegradedRecord(doc.Name, "unknown evaluation outcome")
	}
}

// expandArchives flattens zip documents into their contained candidates.
// Non-archive documents pass through in order.
func expandArchives(docs []model.Document) []model.Document {
	out := make([]model.Document, 0, len(docs))
	for _, doc := range docs {
		if doc.Format == model.FormatArchive {
			out = append(out, ingest.Unpack(doc.Name, doc.Raw)...)
			continue
		}
		out = append(out, doc)
	}
	return out
}
