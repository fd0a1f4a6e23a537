// Package classify drives the full pipeline over a supplier catalog:
// resolve, reconcile, price, one output record per SKU.
package classify

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/wyzinc/marketsync/internal/model"
	"github.com/wyzinc/marketsync/internal/pricing"
	"github.com/wyzinc/marketsync/internal/supplier"
)

// Resolver classifies one supplier record against the catalog
type Resolver interface {
	Resolve(ctx context.Context, rec model.SupplierRecord) (model.Classification, error)
}

// Reconciler applies own-listing and offer data to a classification
type Reconciler interface {
	Reconcile(ctx context.Context, rec model.SupplierRecord, class model.Classification) (model.Classification, *model.CompetitivePrice, error)
}

// Classifier runs records through resolution, reconciliation and
// pricing sequentially
type Classifier struct {
	resolver   Resolver
	reconciler Reconciler
	blocklist  *Blocklist
	log        *zap.Logger
}

// New creates a classifier. blocklist may be nil to disable brand
// skipping.
func New(resolver Resolver, reconciler Reconciler, blocklist *Blocklist, log *zap.Logger) *Classifier {
	if log == nil {
		log = zap.NewNop()
	}
	return &Classifier{
		resolver:   resolver,
		reconciler: reconciler,
		blocklist:  blocklist,
		log:        log,
	}
}

// Run classifies the batch and streams results as they are produced.
// The channel is unbuffered, so a caller that stops reading stops the
// work; closing happens when the input is exhausted or ctx ends.
// External-call failures degrade the affected record to an error
// status instead of aborting the batch.
func (c *Classifier) Run(ctx context.Context, records []model.SupplierRecord) <-chan model.ClassifiedRecord {
	out := make(chan model.ClassifiedRecord)
	runID := uuid.New().String()
	log := c.log.With(zap.String("run_id", runID))

	go func() {
		defer close(out)
		skipped, failed := 0, 0
		for _, rec := range records {
			if c.blocklist.Blocked(rec.Brand) {
				skipped++
				continue
			}
			classified := c.classifyOne(ctx, rec, log)
			if classified.Class.Status == model.StatusError {
				failed++
			}
			select {
			case out <- classified:
			case <-ctx.Done():
				return
			}
		}
		log.Info("batch finished",
			zap.Int("records", len(records)),
			zap.Int("skipped", skipped),
			zap.Int("failed", failed))
	}()

	return out
}

// RunAll materializes and sorts a full batch
func (c *Classifier) RunAll(ctx context.Context, records []model.SupplierRecord) []model.ClassifiedRecord {
	var out []model.ClassifiedRecord
	for rec := range c.Run(ctx, records) {
		out = append(out, rec)
	}
	return out
}

func (c *Classifier) classifyOne(ctx context.Context, rec model.SupplierRecord, log *zap.Logger) model.ClassifiedRecord {
	classified := model.ClassifiedRecord{
		Record: rec,
		Stock:  supplier.BucketStock(supplier.ParseCount(rec.Stock)),
	}

	class, err := c.resolver.Resolve(ctx, rec)
	if err != nil {
		log.Warn("resolution failed", zap.String("sku", rec.SKU), zap.Error(err))
		classified.Class = errorClass(err)
		return classified
	}

	class, comp, err := c.reconciler.Reconcile(ctx, rec, class)
	if err != nil {
		log.Warn("reconciliation failed", zap.String("sku", rec.SKU), zap.Error(err))
		classified.Class = errorClass(err)
		return classified
	}
	classified.Class = class
	classified.Competition = comp

	if rec.Cost.Valid {
		competitor := decimalCompetitor(comp)
		quote := pricing.Decide(rec.Cost.Decimal, competitor)
		classified.Quote = &quote
	}

	return classified
}

func errorClass(err error) model.Classification {
	return model.Classification{Status: model.StatusError, Err: err.Error()}
}

func decimalCompetitor(comp *model.CompetitivePrice) decimal.NullDecimal {
	if comp == nil {
		return decimal.NullDecimal{}
	}
	return comp.Lowest
}
