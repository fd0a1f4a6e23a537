package classify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/wyzinc/marketsync/internal/cache"
	"github.com/wyzinc/marketsync/internal/model"
	"github.com/wyzinc/marketsync/internal/report"
)

// Source provides the supplier catalog for a run
type Source interface {
	Fetch(ctx context.Context) ([]model.SupplierRecord, error)
}

// Suggester re-scores keyword candidates for ambiguous records
type Suggester interface {
	Suggest(ctx context.Context, rec model.SupplierRecord, n int) ([]model.ScoredCandidate, error)
}

// BatchSummary reports the outcome of one classification run
type BatchSummary struct {
	Total      int            `json:"total"`
	ByStatus   map[string]int `json:"by_status"`
	ReportPath string         `json:"report_path,omitempty"`
	Took       time.Duration  `json:"took"`
}

// Service ties the classification pipeline to its inputs and outputs
// and is shared by the HTTP handlers and the scheduler
type Service struct {
	source     Source
	classifier *Classifier
	suggester  Suggester
	store      cache.Store
	reportPath string
	log        *zap.Logger

	mu      sync.RWMutex
	lastRun []model.ClassifiedRecord
}

// NewService assembles the batch service. store and suggester may be
// nil when the deployment has no cache or no enrichment.
func NewService(source Source, classifier *Classifier, suggester Suggester, store cache.Store, reportPath string, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		source:     source,
		classifier: classifier,
		suggester:  suggester,
		store:      store,
		reportPath: reportPath,
		log:        log,
	}
}

// RunBatch fetches the feed, classifies it and writes the CSV
// snapshot
func (s *Service) RunBatch(ctx context.Context) (BatchSummary, error) {
	start := time.Now()

	records, err := s.source.Fetch(ctx)
	if err != nil {
		return BatchSummary{}, fmt.Errorf("fetch supplier feed: %w", err)
	}
	s.log.Info("supplier feed loaded", zap.Int("records", len(records)))

	classified := s.classifier.RunAll(ctx, records)
	report.Sort(classified)

	s.mu.Lock()
	s.lastRun = classified
	s.mu.Unlock()

	summary := summarize(classified, time.Since(start))
	if s.reportPath != "" {
		if err := report.WriteCSV(s.reportPath, classified); err != nil {
			return summary, fmt.Errorf("write report: %w", err)
		}
		summary.ReportPath = s.reportPath
	}
	return summary, nil
}

// Records returns a copy of the last run's classified records. The
// scheduler may replace the run at any time, so callers never see the
// live slice.
func (s *Service) Records() []model.ClassifiedRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.ClassifiedRecord, len(s.lastRun))
	copy(out, s.lastRun)
	return out
}

// Enrich re-scores the ambiguous records of the last run, attaching
// fresh candidate lists for operator review
func (s *Service) Enrich(ctx context.Context, n int) (int, error) {
	if s.suggester == nil {
		return 0, fmt.Errorf("no suggester configured")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	enriched := 0
	for i := range s.lastRun {
		rec := &s.lastRun[i]
		if rec.Class.Status != model.StatusCatalogAmbiguous {
			continue
		}
		candidates, err := s.suggester.Suggest(ctx, rec.Record, n)
		if err != nil {
			s.log.Warn("enrichment failed", zap.String("sku", rec.Record.SKU), zap.Error(err))
			continue
		}
		rec.Class.Candidates = candidates
		enriched++
	}
	return enriched, nil
}

// ClearCache drops every stored EAN resolution
func (s *Service) ClearCache(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	return s.store.Clear(ctx)
}

func summarize(records []model.ClassifiedRecord, took time.Duration) BatchSummary {
	summary := BatchSummary{
		Total:    len(records),
		ByStatus: make(map[string]int),
		Took:     took,
	}
	for _, rec := range records {
		summary.ByStatus[string(rec.Class.Status)]++
	}
	return summary
}
