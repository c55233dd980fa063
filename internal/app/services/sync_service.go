package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jdiamond4/CourseSearch/internal/app/catalog"
	"github.com/jdiamond4/CourseSearch/internal/app/models"
	"github.com/jdiamond4/CourseSearch/internal/app/models/dto"
	"github.com/jdiamond4/CourseSearch/internal/app/ratings"
	"github.com/jdiamond4/CourseSearch/internal/pkg/apperrors"
	"github.com/jdiamond4/CourseSearch/internal/pkg/helpers"
	"github.com/jdiamond4/CourseSearch/internal/pkg/logger"
	"github.com/jdiamond4/CourseSearch/internal/pkg/validation"
)

// ClassFetcher supplies one page of class records for a term and subject.
// Page numbers are 1-based; an empty page marks the end of the listing.
type ClassFetcher interface {
	FetchPage(ctx context.Context, termCode, subject string, page int) ([]models.ClassRecord, error)
}

// CourseStore is the persistence surface the sync pipeline writes through
type CourseStore interface {
	ExistsByKey(ctx context.Context, key models.CourseKey) (bool, error)
	Upsert(ctx context.Context, course *models.Course) error
	DeleteByTermSubject(ctx context.Context, termCode, subject string) (int64, error)
}

// RunRecorder persists sync run history
type RunRecorder interface {
	Create(ctx context.Context, run *models.SyncRun) error
	Update(ctx context.Context, run *models.SyncRun) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.SyncRun, error)
	List(ctx context.Context, termCode string, page, pageSize int) ([]models.SyncRun, int64, error)
}

// SubjectDirectory lists the subjects a term-wide sync covers when none are given
type SubjectDirectory interface {
	GetAll(ctx context.Context) ([]models.Subject, error)
}

// ProgressNotifier receives pipeline progress events as a run advances
type ProgressNotifier interface {
	PublishSyncEvent(event dto.SyncProgressEvent)
}

// SyncService defines the operations that load class data into the store
type SyncService interface {
	// StartSyncs launches one asynchronous run per subject and returns the
	// created run records immediately.
	StartSyncs(ctx context.Context, req dto.CreateSyncRequest) ([]*models.SyncRun, error)
	// SyncTerm runs the given subjects to completion with bounded parallelism.
	SyncTerm(ctx context.Context, termCode string, subjects []string, replaceExisting bool, concurrency int) ([]*models.SyncRun, error)
	GetRun(ctx context.Context, id uuid.UUID) (*models.SyncRun, error)
	ListRuns(ctx context.Context, termCode string, page, pageSize int) ([]models.SyncRun, dto.PaginationInfo, error)
}

// syncServiceImpl implements the SyncService interface
type syncServiceImpl struct {
	fetcher      ClassFetcher
	store        CourseStore
	runs         RunRecorder
	directory    SubjectDirectory
	notifier     ProgressNotifier
	snapshotPath string
	failureLimit int

	mu     sync.Mutex
	active map[string]struct{}
}

// NewSyncService creates a new sync service instance. The notifier may be nil
// when no progress feed is attached. failureLimit bounds how many consecutive
// store write failures a run tolerates before it is declared failed.
func NewSyncService(
	fetcher ClassFetcher,
	store CourseStore,
	runs RunRecorder,
	directory SubjectDirectory,
	notifier ProgressNotifier,
	snapshotPath string,
	failureLimit int,
) SyncService {
	return &syncServiceImpl{
		fetcher:      fetcher,
		store:        store,
		runs:         runs,
		directory:    directory,
		notifier:     notifier,
		snapshotPath: snapshotPath,
		failureLimit: failureLimit,
		active:       make(map[string]struct{}),
	}
}

// StartSyncs validates the request, reserves every subject, records one
// RUNNING run per subject and executes the pipelines in the background.
func (s *syncServiceImpl) StartSyncs(ctx context.Context, req dto.CreateSyncRequest) ([]*models.SyncRun, error) {
	subjects, err := s.resolveSubjects(ctx, req.TermCode, req.Subjects)
	if err != nil {
		return nil, err
	}

	idx, err := ratings.LoadIndex(s.snapshotPath)
	if err != nil {
		return nil, err
	}

	if err := s.acquireAll(req.TermCode, subjects); err != nil {
		return nil, err
	}

	runs := make([]*models.SyncRun, 0, len(subjects))
	for _, subject := range subjects {
		run := newRun(req.TermCode, subject, req.ReplaceExisting)
		if err := s.runs.Create(ctx, run); err != nil {
			s.releaseAll(req.TermCode, subjects)
			return nil, fmt.Errorf("error recording sync run: %w", err)
		}
		runs = append(runs, run)
	}

	for _, run := range runs {
		go func(run *models.SyncRun) {
			// Detached from the request context: the run outlives the
			// HTTP response that accepted it.
			s.runSubject(context.Background(), run, idx)
		}(run)
	}

	return runs, nil
}

// SyncTerm executes the pipelines synchronously. A subject that fails is
// reported through its run record and does not stop the remaining subjects.
func (s *syncServiceImpl) SyncTerm(ctx context.Context, termCode string, subjects []string, replaceExisting bool, concurrency int) ([]*models.SyncRun, error) {
	resolved, err := s.resolveSubjects(ctx, termCode, subjects)
	if err != nil {
		return nil, err
	}

	idx, err := ratings.LoadIndex(s.snapshotPath)
	if err != nil {
		return nil, err
	}

	if err := s.acquireAll(termCode, resolved); err != nil {
		return nil, err
	}

	if concurrency < 1 {
		concurrency = 1
	}

	runs := make([]*models.SyncRun, len(resolved))
	var g errgroup.Group
	g.SetLimit(concurrency)
	for i, subject := range resolved {
		run := newRun(termCode, subject, replaceExisting)
		runs[i] = run
		g.Go(func() error {
			if err := s.runs.Create(ctx, run); err != nil {
				s.release(run.TermCode, run.Subject)
				run.Status = models.SyncRunStatusFailed
				run.Message = fmt.Sprintf("recording sync run: %v", err)
				logger.Error().Err(err).Str("subject", run.Subject).Msg("Failed to record sync run")
				return nil
			}
			s.runSubject(ctx, run, idx)
			return nil
		})
	}
	g.Wait()

	return runs, nil
}

// GetRun returns one run by identifier
func (s *syncServiceImpl) GetRun(ctx context.Context, id uuid.UUID) (*models.SyncRun, error) {
	run, err := s.runs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if run == nil {
		return nil, apperrors.ErrSyncRunNotFound
	}
	return run, nil
}

// ListRuns returns run history, newest first
func (s *syncServiceImpl) ListRuns(ctx context.Context, termCode string, page, pageSize int) ([]models.SyncRun, dto.PaginationInfo, error) {
	if termCode != "" && !validation.ValidTermCode(termCode) {
		return nil, dto.PaginationInfo{}, fmt.Errorf("%w: term code must be four digits", apperrors.ErrValidationFailed)
	}

	page, pageSize = helpers.NormalizePagination(page, pageSize)
	items, total, err := s.runs.List(ctx, termCode, page, pageSize)
	if err != nil {
		return nil, dto.PaginationInfo{}, err
	}

	return items, helpers.NewPaginationInfo(total, page, pageSize), nil
}

// runSubject drives one (term, subject) batch through fetch, normalize,
// merge and store, then finalizes the run record.
func (s *syncServiceImpl) runSubject(ctx context.Context, run *models.SyncRun, idx *ratings.Index) {
	defer s.release(run.TermCode, run.Subject)

	logger.Info().
		Str("runId", run.ID.String()).
		Str("term", run.TermCode).
		Str("subject", run.Subject).
		Bool("replace", run.ReplaceExisting).
		Msg("Sync run started")

	records, err := s.fetchAll(ctx, run)
	if err != nil {
		// Nothing was written for this subject: a truncated listing must
		// never reach the store, especially in replace mode.
		s.finishRun(ctx, run, models.SyncRunStatusFailed, fmt.Sprintf("fetching classes: %v", err))
		return
	}

	result := catalog.Normalize(run.TermCode, records)
	run.Skipped = len(result.Skipped)
	s.publish(run, "normalize", fmt.Sprintf("%d records -> %d courses, %d skipped", len(records), len(result.Courses), run.Skipped), 0, len(result.Courses))

	ratings.MergeAll(result.Courses, idx)
	s.publish(run, "merge", fmt.Sprintf("ratings merged from %d indexed courses", idx.Len()), 0, len(result.Courses))

	report, err := s.upsertCourses(ctx, run, result.Courses)
	run.Inserted = report.Inserted
	run.Updated = report.Updated
	run.Failed = report.Failed
	run.Errors = report.Errors
	if err != nil {
		s.finishRun(ctx, run, models.SyncRunStatusFailed, err.Error())
		return
	}

	s.finishRun(ctx, run, models.SyncRunStatusCompleted,
		fmt.Sprintf("%d inserted, %d updated, %d failed, %d skipped", run.Inserted, run.Updated, run.Failed, run.Skipped))
}

// fetchAll pages through the class listing until an empty page is returned
func (s *syncServiceImpl) fetchAll(ctx context.Context, run *models.SyncRun) ([]models.ClassRecord, error) {
	var records []models.ClassRecord
	for page := 1; ; page++ {
		batch, err := s.fetcher.FetchPage(ctx, run.TermCode, run.Subject, page)
		if err != nil {
			return nil, err
		}
		if len(batch) == 0 {
			break
		}
		records = append(records, batch...)
		s.publish(run, "fetch", fmt.Sprintf("page %d fetched, %d records so far", page, len(records)), page, len(records))
	}
	return records, nil
}

// upsertCourses writes one batch into the store. Individual write failures
// are recorded and the batch continues; only a run of consecutive failures
// or a failed replace pre-step aborts the subject.
func (s *syncServiceImpl) upsertCourses(ctx context.Context, run *models.SyncRun, courses []*models.Course) (models.SyncReport, error) {
	var report models.SyncReport

	if run.ReplaceExisting {
		deleted, err := s.store.DeleteByTermSubject(ctx, run.TermCode, run.Subject)
		if err != nil {
			return report, fmt.Errorf("%w: clearing %s %s: %v", apperrors.ErrStoreUnavailable, run.TermCode, run.Subject, err)
		}
		logger.Info().
			Str("runId", run.ID.String()).
			Str("subject", run.Subject).
			Int64("deleted", deleted).
			Msg("Existing courses cleared before replace")
	}

	consecutive := 0
	for _, course := range courses {
		if err := ctx.Err(); err != nil {
			return report, fmt.Errorf("sync canceled: %w", err)
		}

		exists, err := s.store.ExistsByKey(ctx, course.Key())
		if err == nil {
			err = s.store.Upsert(ctx, course)
		}
		switch {
		case err != nil:
			report.Failed++
			report.Errors = append(report.Errors, models.CourseError{
				TermCode:      course.TermCode,
				Subject:       course.Subject,
				CatalogNumber: course.CatalogNumber,
				Message:       err.Error(),
			})
			logger.Warn().
				Err(err).
				Str("runId", run.ID.String()).
				Str("course", course.Key().String()).
				Msg("Course write failed")
			consecutive++
			if s.failureLimit > 0 && consecutive >= s.failureLimit {
				return report, fmt.Errorf("%w: %d consecutive course writes failed", apperrors.ErrStoreUnavailable, consecutive)
			}
		case exists:
			report.Updated++
			consecutive = 0
		default:
			report.Inserted++
			consecutive = 0
		}
	}

	return report, nil
}

// finishRun stamps the terminal state and persists it. The update uses its
// own deadline so a canceled pipeline context still gets its final state
// written.
func (s *syncServiceImpl) finishRun(ctx context.Context, run *models.SyncRun, status models.SyncRunStatus, message string) {
	now := time.Now()
	run.Status = status
	run.Message = message
	run.FinishedAt = &now

	updateCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	if err := s.runs.Update(updateCtx, run); err != nil {
		logger.Error().Err(err).Str("runId", run.ID.String()).Msg("Failed to persist sync run state")
	}

	stage := "finished"
	if status == models.SyncRunStatusFailed {
		stage = "failed"
		logger.Error().
			Str("runId", run.ID.String()).
			Str("subject", run.Subject).
			Str("reason", message).
			Msg("Sync run failed")
	} else {
		logger.Info().
			Str("runId", run.ID.String()).
			Str("subject", run.Subject).
			Int("inserted", run.Inserted).
			Int("updated", run.Updated).
			Int("failed", run.Failed).
			Int("skipped", run.Skipped).
			Msg("Sync run completed")
	}
	s.publish(run, stage, message, 0, 0)
}

// resolveSubjects validates and normalizes the requested subjects, falling
// back to the seeded subject directory when none are given.
func (s *syncServiceImpl) resolveSubjects(ctx context.Context, termCode string, subjects []string) ([]string, error) {
	if !validation.ValidTermCode(termCode) {
		return nil, fmt.Errorf("%w: term code must be four digits", apperrors.ErrValidationFailed)
	}

	if len(subjects) == 0 {
		directory, err := s.directory.GetAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("error loading subject directory: %w", err)
		}
		if len(directory) == 0 {
			return nil, fmt.Errorf("%w: no subjects requested and the subject directory is empty", apperrors.ErrValidationFailed)
		}
		for _, subject := range directory {
			subjects = append(subjects, subject.Code)
		}
	}

	seen := make(map[string]struct{}, len(subjects))
	resolved := make([]string, 0, len(subjects))
	for _, raw := range subjects {
		code := validation.NormalizeSubjectCode(raw)
		if !validation.ValidSubjectCode(code) {
			return nil, fmt.Errorf("%w: invalid subject code %q", apperrors.ErrValidationFailed, raw)
		}
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}
		resolved = append(resolved, code)
	}

	return resolved, nil
}

// acquireAll reserves every (term, subject) pair or none of them
func (s *syncServiceImpl) acquireAll(termCode string, subjects []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, subject := range subjects {
		if _, held := s.active[runKey(termCode, subject)]; held {
			return fmt.Errorf("%w: %s %s", apperrors.ErrSyncAlreadyActive, termCode, subject)
		}
	}
	for _, subject := range subjects {
		s.active[runKey(termCode, subject)] = struct{}{}
	}
	return nil
}

func (s *syncServiceImpl) releaseAll(termCode string, subjects []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, subject := range subjects {
		delete(s.active, runKey(termCode, subject))
	}
}

func (s *syncServiceImpl) release(termCode, subject string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.active, runKey(termCode, subject))
}

func (s *syncServiceImpl) publish(run *models.SyncRun, stage, detail string, page, courses int) {
	if s.notifier == nil {
		return
	}
	s.notifier.PublishSyncEvent(dto.SyncProgressEvent{
		RunID:    run.ID.String(),
		TermCode: run.TermCode,
		Subject:  run.Subject,
		Stage:    stage,
		Detail:   detail,
		Page:     page,
		Courses:  courses,
		Inserted: run.Inserted,
		Updated:  run.Updated,
		Failed:   run.Failed,
	})
}

func newRun(termCode, subject string, replaceExisting bool) *models.SyncRun {
	return &models.SyncRun{
		ID:              uuid.New(),
		TermCode:        termCode,
		Subject:         subject,
		ReplaceExisting: replaceExisting,
		Status:          models.SyncRunStatusRunning,
		StartedAt:       time.Now(),
	}
}

func runKey(termCode, subject string) string {
	return termCode + "|" + subject
}
