// Package service runs one submission end to end: collect, then analyze.
package service

import (
	"context"

	"github.com/BerylCAtieno/listing-expert-agent/internal/apperrors"
	"github.com/BerylCAtieno/listing-expert-agent/internal/collector"
	"github.com/BerylCAtieno/listing-expert-agent/internal/models"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// Analyzer is satisfied by *analyzer.Client.
type Analyzer interface {
	AnalyzeAndGenerate(ctx context.Context, input *models.ListingInputData) (*models.AnalysisResults, error)
}

// Result is a finished analysis together with the input it was built from.
type Result struct {
	Input   *models.ListingInputData
	Results *models.AnalysisResults
}

type Service struct {
	collector *collector.Collector
	analyzer  Analyzer
	inflight  *semaphore.Weighted
	logger    *zap.Logger
}

// New returns a Service that runs at most maxInflight analyses at once.
// Submissions beyond that are rejected with a busy error, never queued.
func New(c *collector.Collector, a Analyzer, maxInflight int64, logger *zap.Logger) *Service {
	if maxInflight <= 0 {
		maxInflight = 1
	}
	return &Service{
		collector: c,
		analyzer:  a,
		inflight:  semaphore.NewWeighted(maxInflight),
		logger:    logger.Named("service"),
	}
}

func (s *Service) Submit(ctx context.Context, form *collector.Form) (*Result, error) {
	if !s.inflight.TryAcquire(1) {
		s.logger.Info("rejecting submission, analysis in progress")
		return nil, apperrors.NewBusyError()
	}
	defer s.inflight.Release(1)

	input, err := s.collector.Collect(ctx, form)
	if err != nil {
		return nil, err
	}

	results, err := s.analyzer.AnalyzeAndGenerate(ctx, input)
	if err != nil {
		return nil, err
	}
	return &Result{Input: input, Results: results}, nil
}
