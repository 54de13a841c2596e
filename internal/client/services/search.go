// Package services contains the application services of the securematch
// client. This file holds the search orchestrator: it validates a query,
// derives the role-specific payload, submits it and maps the response into
// a role-gated result view, recording each stage in a progress log.
package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/securematch/internal/client/client"
	"github.com/dmitrijs2005/securematch/internal/client/models"
	"github.com/dmitrijs2005/securematch/internal/common"
	"github.com/dmitrijs2005/securematch/internal/cryptox"
	"github.com/dmitrijs2005/securematch/internal/logging"
	"github.com/google/uuid"
)

// Test seams.
var (
	normalizeKeyword = cryptox.NormalizeKeyword
	digestKeyword    = cryptox.DigestKeyword
	signDigest       = cryptox.SignDigest
)

// ProgressFunc receives every progress entry of the current invocation as
// it is recorded. Entries of superseded invocations are never delivered.
type ProgressFunc func(invocation uuid.UUID, e models.ProgressEntry)

// SearchService runs one search at a time.
//
// Contract:
//   - RunSearch: execute a full invocation. Starting a new one replaces the
//     progress log and result slot; a superseded caller gets
//     models.ErrSuperseded and its late results are dropped.
//   - Progress: the current invocation id and a copy of its log.
//   - LastResult: the result of the current invocation, nil until it
//     succeeds.
type SearchService interface {
	RunSearch(ctx context.Context, q models.SearchQuery, session *models.AuditorSession) (models.SearchResultView, error)
	Progress() (uuid.UUID, []models.ProgressEntry)
	LastResult() models.SearchResultView
}

type SearchOption func(*searchService)

// WithStageDelay pauses before every protocol stage.
func WithStageDelay(d time.Duration) SearchOption {
	return func(s *searchService) { s.delay = d }
}

// WithProgress delivers every entry of the current invocation to fn as it
// is written. fn must not start another search.
func WithProgress(fn ProgressFunc) SearchOption {
	return func(s *searchService) { s.onProgress = fn }
}

type searchService struct {
	client     client.Client
	log        logging.Logger
	delay      time.Duration
	onProgress ProgressFunc

	// emit serializes ownership checks with their callbacks, so a
	// superseded entry is never delivered after a newer invocation starts.
	emit    sync.Mutex
	mu      sync.Mutex
	current *models.ProgressLog
	result  models.SearchResultView
}

func NewSearchService(c client.Client, log logging.Logger, opts ...SearchOption) SearchService {
	s := &searchService{client: c, log: log}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *searchService) Progress() (uuid.UUID, []models.ProgressEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return uuid.Nil, nil
	}
	return s.current.InvocationID, s.current.Entries()
}

func (s *searchService) LastResult() models.SearchResultView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// begin replaces the log and clears the result slot.
func (s *searchService) begin() *models.ProgressLog {
	l := models.NewProgressLog()
	s.emit.Lock()
	defer s.emit.Unlock()
	s.mu.Lock()
	s.current = l
	s.result = nil
	s.mu.Unlock()
	return l
}

func (s *searchService) record(l *models.ProgressLog, stage models.Stage, msg string, terminal bool) error {
	return s.commit(l, stage, msg, terminal, nil)
}

// commit appends an entry, and stores view when non-nil, only while l is
// still the current invocation.
func (s *searchService) commit(l *models.ProgressLog, stage models.Stage, msg string, terminal bool, view models.SearchResultView) error {
	s.emit.Lock()
	defer s.emit.Unlock()

	s.mu.Lock()
	if s.current != l {
		s.mu.Unlock()
		return models.ErrSuperseded
	}
	if view != nil {
		s.result = view
	}
	var e models.ProgressEntry
	if terminal {
		e = l.Finish(stage, msg)
	} else {
		e = l.Append(stage, msg)
	}
	s.mu.Unlock()

	if s.onProgress != nil {
		s.onProgress(l.InvocationID, e)
	}
	return nil
}

// step waits out the stage delay and then records the stage marker, before
// the stage's work begins.
func (s *searchService) step(ctx context.Context, l *models.ProgressLog, stage models.Stage, msg string) error {
	if s.delay > 0 {
		t := time.NewTimer(s.delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}
	return s.record(l, stage, msg, false)
}

func (s *searchService) publish(l *models.ProgressLog, view models.SearchResultView, msg string) error {
	return s.commit(l, models.StageResult, msg, true, view)
}

// fail writes the terminal error entry and returns the classified error.
func (s *searchService) fail(ctx context.Context, l *models.ProgressLog, err error) error {
	if errors.Is(err, models.ErrSuperseded) {
		return err
	}
	qe := classify(err)
	if rerr := s.record(l, models.StageError, failureMessage(qe), true); rerr != nil {
		return rerr
	}
	s.log.Warn(ctx, "search failed", "invocation", l.InvocationID, "kind", qe.Kind, "code", qe.Code)
	return qe
}

func (s *searchService) RunSearch(ctx context.Context, q models.SearchQuery, session *models.AuditorSession) (models.SearchResultView, error) {
	l := s.begin()
	log := s.log.With("invocation", l.InvocationID.String(), "role", q.Role.String())

	if err := s.step(ctx, l, models.StageValidate, "Validating query"); err != nil {
		return nil, s.fail(ctx, l, err)
	}
	if err := validate(q, session); err != nil {
		return nil, s.fail(ctx, l, err)
	}

	var (
		view models.SearchResultView
		err  error
	)
	switch q.Role {
	case models.RoleInternal:
		view, err = s.runInternal(ctx, l, q)
	case models.RoleExternal:
		view, err = s.runExternal(ctx, l, log, q, session)
	}
	if err != nil {
		return nil, s.fail(ctx, l, err)
	}

	msg := fmt.Sprintf("Match: %s, %d result(s) in %d ms", models.MatchLabel(view), view.Matches(), view.ExecutionTimeMs())
	if err := s.publish(l, view, msg); err != nil {
		return nil, err
	}
	log.Info(ctx, "search completed", "matches", view.Matches(), "execution_ms", view.ExecutionTimeMs())
	return view, nil
}

func validate(q models.SearchQuery, session *models.AuditorSession) error {
	if strings.TrimSpace(q.RawKeyword) == "" {
		return models.ErrEmptyKeyword
	}
	switch q.Role {
	case models.RoleInternal:
		if !q.Field.Valid() {
			return fmt.Errorf("%w: %q", models.ErrInvalidField, string(q.Field))
		}
	case models.RoleExternal:
		if !session.Complete() {
			return models.ErrMissingIdentity
		}
	default:
		return fmt.Errorf("%w: role %s cannot search", common.ErrorUnauthorized, q.Role)
	}
	return nil
}

func (s *searchService) runInternal(ctx context.Context, l *models.ProgressLog, q models.SearchQuery) (models.SearchResultView, error) {
	if err := s.step(ctx, l, models.StageTrapdoor, fmt.Sprintf("Building trapdoor query on field %q", q.Field)); err != nil {
		return nil, err
	}
	payload := models.NewTrapdoorPayload(q.Field, q.RawKeyword)

	if err := s.step(ctx, l, models.StageSubmit, "Submitting SSE query"); err != nil {
		return nil, err
	}
	resp, err := s.client.SearchInternal(client.WithRequestID(ctx, l.InvocationID.String()), payload)
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, fmt.Errorf("%w: empty search response", common.ErrorInternal)
	}

	returned := len(resp.Results)
	if resp.Meta.ReturnedCount != nil {
		returned = *resp.Meta.ReturnedCount
	}
	return &models.InternalResult{
		Records:       resp.Results,
		TotalMatches:  totalMatches(resp.Meta, len(resp.Results)),
		ReturnedCount: returned,
		Truncated:     resp.Meta.Truncated,
		ElapsedMs:     roundMillis(resp.Meta.ExecutionTimeMs),
	}, nil
}

// runExternal derives hash and signature from this invocation's keyword only.
func (s *searchService) runExternal(ctx context.Context, l *models.ProgressLog, log logging.Logger, q models.SearchQuery, session *models.AuditorSession) (models.SearchResultView, error) {
	if err := s.step(ctx, l, models.StageNormalize, "Normalizing keyword"); err != nil {
		return nil, err
	}
	canonical := normalizeKeyword(q.RawKeyword)

	if err := s.step(ctx, l, models.StageDigest, "Computing SHA-256 keyword hash"); err != nil {
		return nil, err
	}
	hash := digestKeyword(canonical)
	log.Debug(ctx, "keyword hashed", "keyword_hash", hash)

	if err := s.step(ctx, l, models.StageSign, "Signing keyword hash with auditor key"); err != nil {
		return nil, err
	}
	signature, err := signDigest(hash, session.KeyMaterial())
	if err != nil {
		return nil, err
	}

	payload := models.SignedQueryPayload{
		AuditorID:   session.Auditor().ID,
		KeywordHash: hash,
		Signature:   signature,
	}

	if err := s.step(ctx, l, models.StageSubmit, "Submitting PEKS query"); err != nil {
		return nil, err
	}
	resp, err := s.client.SearchExternal(client.WithRequestID(ctx, l.InvocationID.String()), payload)
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, fmt.Errorf("%w: empty search response", common.ErrorInternal)
	}

	// Results are padding and ciphertext; only metadata reaches the view.
	return &models.ExternalResult{
		TotalMatches:     totalMatches(resp.Meta, 0),
		ElapsedMs:        roundMillis(resp.Meta.ExecutionTimeMs),
		Truncated:        resp.Meta.Truncated,
		KeyVersionUsed:   resp.Meta.KeyVersionUsed,
		SearchesLastHour: resp.Meta.SearchesLastHour,
	}, nil
}

func totalMatches(m client.SearchMeta, fallback int) int {
	n := fallback
	if m.TotalMatches != nil {
		n = *m.TotalMatches
	}
	if n < 0 {
		return 0
	}
	return n
}

func roundMillis(ms float64) int64 {
	if ms <= 0 || math.IsNaN(ms) {
		return 0
	}
	return int64(math.Round(ms))
}

// classify maps any failure onto the query error taxonomy.
func classify(err error) *models.QueryError {
	var (
		qe     *models.QueryError
		keyErr *cryptox.KeyFormatError
		appErr *client.ApplicationError
	)
	switch {
	case errors.As(err, &qe):
		return qe
	case errors.Is(err, models.ErrEmptyKeyword),
		errors.Is(err, models.ErrMissingIdentity),
		errors.Is(err, models.ErrInvalidField),
		errors.Is(err, common.ErrorUnauthorized):
		return &models.QueryError{Kind: models.KindValidation, Err: err}
	case errors.As(err, &keyErr):
		return &models.QueryError{Kind: models.KindKeyFormat, Err: err}
	case errors.As(err, &appErr):
		return &models.QueryError{Kind: models.KindApplication, Code: appErr.Code, Err: err}
	case errors.Is(err, client.ErrUnavailable), errors.Is(err, context.DeadlineExceeded):
		return &models.QueryError{Kind: models.KindTransport, Err: err}
	default:
		return &models.QueryError{Kind: models.KindUnknown, Code: models.UnknownErrorCode, Err: err}
	}
}

func failureMessage(qe *models.QueryError) string {
	switch qe.Kind {
	case models.KindValidation:
		return "Rejected: " + qe.Err.Error()
	case models.KindKeyFormat:
		return "Signing failed: " + qe.Err.Error()
	case models.KindTransport:
		return "Server unreachable, resubmit to retry"
	case models.KindApplication:
		return "Server error: " + qe.Code
	default:
		return "Search failed: " + qe.Code
	}
}
