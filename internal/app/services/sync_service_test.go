package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdiamond4/CourseSearch/internal/app/models"
	"github.com/jdiamond4/CourseSearch/internal/app/models/dto"
	"github.com/jdiamond4/CourseSearch/internal/pkg/apperrors"
)

// fakeFetcher serves canned pages per subject. A subject listed in fail
// errors once its canned pages run out, so a failure after real pages
// models a listing truncated mid-pagination. A subject listed in block
// parks until the channel closes.
type fakeFetcher struct {
	mu    sync.Mutex
	pages map[string][][]models.ClassRecord
	fail  map[string]error
	block map[string]chan struct{}
}

func (f *fakeFetcher) FetchPage(ctx context.Context, termCode, subject string, page int) ([]models.ClassRecord, error) {
	f.mu.Lock()
	gate := f.block[subject]
	failErr := f.fail[subject]
	pages := f.pages[subject]
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if page > len(pages) {
		if failErr != nil {
			return nil, failErr
		}
		return nil, nil
	}
	return pages[page-1], nil
}

// fakeStore is an in-memory course store with scriptable failures.
type fakeStore struct {
	mu        sync.Mutex
	courses   map[models.CourseKey]*models.Course
	failOn    map[string]error // keyed by catalog number
	failAll   error
	deleteErr error
	writes    int
	deletes   int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		courses: make(map[models.CourseKey]*models.Course),
		failOn:  make(map[string]error),
	}
}

func (f *fakeStore) ExistsByKey(ctx context.Context, key models.CourseKey) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.courses[key]
	return ok, nil
}

func (f *fakeStore) Upsert(ctx context.Context, course *models.Course) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll != nil {
		return f.failAll
	}
	if err, ok := f.failOn[course.CatalogNumber]; ok {
		return err
	}
	f.writes++
	f.courses[course.Key()] = course
	return nil
}

func (f *fakeStore) DeleteByTermSubject(ctx context.Context, termCode, subject string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return 0, f.deleteErr
	}
	var n int64
	for key := range f.courses {
		if key.TermCode == termCode && key.Subject == subject {
			delete(f.courses, key)
			n++
		}
	}
	f.deletes++
	return n, nil
}

func (f *fakeStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.courses)
}

func (f *fakeStore) get(key models.CourseKey) *models.Course {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.courses[key]
}

// fakeRuns records run state transitions in memory.
type fakeRuns struct {
	mu        sync.Mutex
	records   map[uuid.UUID]models.SyncRun
	createErr error
	updates   int
}

func newFakeRuns() *fakeRuns {
	return &fakeRuns{records: make(map[uuid.UUID]models.SyncRun)}
}

func (f *fakeRuns) Create(ctx context.Context, run *models.SyncRun) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.records[run.ID] = *run
	return nil
}

func (f *fakeRuns) Update(ctx context.Context, run *models.SyncRun) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records[run.ID] = *run
	f.updates++
	return nil
}

func (f *fakeRuns) GetByID(ctx context.Context, id uuid.UUID) (*models.SyncRun, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	run, ok := f.records[id]
	if !ok {
		return nil, nil
	}
	return &run, nil
}

func (f *fakeRuns) List(ctx context.Context, termCode string, page, pageSize int) ([]models.SyncRun, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var items []models.SyncRun
	for _, run := range f.records {
		if termCode == "" || run.TermCode == termCode {
			items = append(items, run)
		}
	}
	return items, int64(len(items)), nil
}

func (f *fakeRuns) stored(id uuid.UUID) models.SyncRun {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.records[id]
}

type fakeDirectory struct {
	subjects []models.Subject
	err      error
}

func (f *fakeDirectory) GetAll(ctx context.Context) ([]models.Subject, error) {
	return f.subjects, f.err
}

// fakeNotifier collects published events.
type fakeNotifier struct {
	mu     sync.Mutex
	events []dto.SyncProgressEvent
}

func (f *fakeNotifier) PublishSyncEvent(event dto.SyncProgressEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
}

func (f *fakeNotifier) stages() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var stages []string
	for _, event := range f.events {
		stages = append(stages, event.Stage)
	}
	return stages
}

func classRecord(subject, catalogNumber, sectionNumber, instructor string) models.ClassRecord {
	return models.ClassRecord{
		TermCode:         "1258",
		Subject:          subject,
		CatalogNumber:    catalogNumber,
		SectionNumber:    sectionNumber,
		Component:        "LEC",
		Title:            subject + " " + catalogNumber,
		Units:            "3",
		Capacity:         50,
		Enrolled:         10,
		Available:        40,
		EnrollmentStatus: models.EnrollmentStatusOpen,
		Instructors:      []models.ClassInstructor{{Name: instructor}},
	}
}

type syncFixture struct {
	fetcher  *fakeFetcher
	store    *fakeStore
	runs     *fakeRuns
	dir      *fakeDirectory
	notifier *fakeNotifier
	service  SyncService
}

func newSyncFixture(t *testing.T, snapshot string) *syncFixture {
	t.Helper()

	path := filepath.Join(t.TempDir(), "ratings.csv")
	if snapshot != "" {
		require.NoError(t, os.WriteFile(path, []byte(snapshot), 0o644))
	}

	fx := &syncFixture{
		fetcher: &fakeFetcher{
			pages: make(map[string][][]models.ClassRecord),
			fail:  make(map[string]error),
			block: make(map[string]chan struct{}),
		},
		store:    newFakeStore(),
		runs:     newFakeRuns(),
		dir:      &fakeDirectory{},
		notifier: &fakeNotifier{},
	}
	fx.service = NewSyncService(fx.fetcher, fx.store, fx.runs, fx.dir, fx.notifier, path, 3)
	return fx
}

func TestSyncTerm_InsertsNewCourses(t *testing.T) {
	fx := newSyncFixture(t, "")
	fx.fetcher.pages["CS"] = [][]models.ClassRecord{
		{
			classRecord("CS", "1110", "001", "Aaron Bloomfield"),
			classRecord("CS", "1110", "002", "Daniel Graham"),
			classRecord("CS", "2150", "001", "Aaron Bloomfield"),
		},
		{
			classRecord("CS", "3140", "001", "Upsorn Praphamontripong"),
		},
	}

	runs, err := fx.service.SyncTerm(context.Background(), "1258", []string{"CS"}, false, 2)
	require.NoError(t, err)
	require.Len(t, runs, 1)

	run := runs[0]
	assert.Equal(t, models.SyncRunStatusCompleted, run.Status)
	assert.Equal(t, 3, run.Inserted)
	assert.Equal(t, 0, run.Updated)
	assert.Equal(t, 0, run.Failed)
	assert.Equal(t, 0, run.Skipped)
	require.NotNil(t, run.FinishedAt)

	assert.Equal(t, 3, fx.store.count())
	course := fx.store.get(models.CourseKey{TermCode: "1258", Subject: "CS", CatalogNumber: "1110"})
	require.NotNil(t, course)
	assert.Len(t, course.Sections, 2)

	persisted := fx.runs.stored(run.ID)
	assert.Equal(t, models.SyncRunStatusCompleted, persisted.Status)
	assert.Equal(t, 3, persisted.Inserted)
}

func TestSyncTerm_SecondPassUpdates(t *testing.T) {
	fx := newSyncFixture(t, "")
	fx.fetcher.pages["CS"] = [][]models.ClassRecord{
		{
			classRecord("CS", "1110", "001", "Aaron Bloomfield"),
			classRecord("CS", "2150", "001", "Aaron Bloomfield"),
		},
	}

	first, err := fx.service.SyncTerm(context.Background(), "1258", []string{"CS"}, false, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, first[0].Inserted)

	second, err := fx.service.SyncTerm(context.Background(), "1258", []string{"CS"}, false, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, second[0].Inserted)
	assert.Equal(t, 2, second[0].Updated)
	assert.Equal(t, 2, fx.store.count())
}

func TestSyncTerm_ReplaceClearsStaleCourses(t *testing.T) {
	fx := newSyncFixture(t, "")
	stale := &models.Course{TermCode: "1258", Subject: "CS", CatalogNumber: "9999", Title: "Retired Course"}
	fx.store.courses[stale.Key()] = stale
	kept := &models.Course{TermCode: "1258", Subject: "APMA", CatalogNumber: "3100", Title: "Probability"}
	fx.store.courses[kept.Key()] = kept

	fx.fetcher.pages["CS"] = [][]models.ClassRecord{
		{classRecord("CS", "1110", "001", "Aaron Bloomfield")},
	}

	runs, err := fx.service.SyncTerm(context.Background(), "1258", []string{"CS"}, true, 1)
	require.NoError(t, err)
	assert.Equal(t, models.SyncRunStatusCompleted, runs[0].Status)
	assert.Equal(t, 1, runs[0].Inserted)

	assert.Nil(t, fx.store.get(stale.Key()))
	assert.NotNil(t, fx.store.get(kept.Key()), "other subjects must survive a replace")
	assert.Equal(t, 2, fx.store.count())
}

func TestSyncTerm_FetchFailureWritesNothing(t *testing.T) {
	fx := newSyncFixture(t, "")
	existing := &models.Course{TermCode: "1258", Subject: "CS", CatalogNumber: "1110", Title: "Existing"}
	fx.store.courses[existing.Key()] = existing
	fx.fetcher.fail["CS"] = errors.New("registrar returned status 503")

	runs, err := fx.service.SyncTerm(context.Background(), "1258", []string{"CS"}, true, 1)
	require.NoError(t, err)

	run := runs[0]
	assert.Equal(t, models.SyncRunStatusFailed, run.Status)
	assert.Contains(t, run.Message, "fetching classes")

	assert.Equal(t, 0, fx.store.writes)
	assert.Equal(t, 0, fx.store.deletes, "replace must not clear anything when the fetch failed")
	assert.NotNil(t, fx.store.get(existing.Key()))
}

func TestSyncTerm_PartialFetchNeverReachesStore(t *testing.T) {
	fx := newSyncFixture(t, "")
	fx.fetcher.pages["CS"] = [][]models.ClassRecord{
		{classRecord("CS", "1110", "001", "Aaron Bloomfield")},
	}
	fx.fetcher.fail["CS"] = errors.New("connection reset")

	runs, err := fx.service.SyncTerm(context.Background(), "1258", []string{"CS"}, false, 1)
	require.NoError(t, err)
	assert.Equal(t, models.SyncRunStatusFailed, runs[0].Status)
	assert.Equal(t, 0, fx.store.count())
}

func TestSyncTerm_PerCourseFailureContinues(t *testing.T) {
	fx := newSyncFixture(t, "")
	fx.fetcher.pages["CS"] = [][]models.ClassRecord{
		{
			classRecord("CS", "1110", "001", "Aaron Bloomfield"),
			classRecord("CS", "2150", "001", "Aaron Bloomfield"),
			classRecord("CS", "3140", "001", "Upsorn Praphamontripong"),
		},
	}
	fx.store.failOn["2150"] = errors.New("value too long for column")

	runs, err := fx.service.SyncTerm(context.Background(), "1258", []string{"CS"}, false, 1)
	require.NoError(t, err)

	run := runs[0]
	assert.Equal(t, models.SyncRunStatusCompleted, run.Status)
	assert.Equal(t, 2, run.Inserted)
	assert.Equal(t, 1, run.Failed)
	require.Len(t, run.Errors, 1)
	assert.Equal(t, "2150", run.Errors[0].CatalogNumber)
	assert.Contains(t, run.Errors[0].Message, "value too long")

	assert.Equal(t, 2, fx.store.count())
}

func TestSyncTerm_ConsecutiveFailuresAbortRun(t *testing.T) {
	fx := newSyncFixture(t, "")
	var batch []models.ClassRecord
	for i := 0; i < 6; i++ {
		batch = append(batch, classRecord("CS", fmt.Sprintf("1%03d", i), "001", "Aaron Bloomfield"))
	}
	fx.fetcher.pages["CS"] = [][]models.ClassRecord{batch}
	fx.store.failAll = errors.New("connection refused")

	runs, err := fx.service.SyncTerm(context.Background(), "1258", []string{"CS"}, false, 1)
	require.NoError(t, err)

	run := runs[0]
	assert.Equal(t, models.SyncRunStatusFailed, run.Status)
	assert.Equal(t, 3, run.Failed, "the failure limit caps how far a dead store is hammered")
	assert.Contains(t, run.Message, "consecutive")
}

func TestSyncTerm_SkipsMalformedRecords(t *testing.T) {
	fx := newSyncFixture(t, "")
	malformed := classRecord("CS", "", "001", "Aaron Bloomfield")
	fx.fetcher.pages["CS"] = [][]models.ClassRecord{
		{classRecord("CS", "1110", "001", "Aaron Bloomfield"), malformed},
	}

	runs, err := fx.service.SyncTerm(context.Background(), "1258", []string{"CS"}, false, 1)
	require.NoError(t, err)

	run := runs[0]
	assert.Equal(t, models.SyncRunStatusCompleted, run.Status)
	assert.Equal(t, 1, run.Inserted)
	assert.Equal(t, 1, run.Skipped)
}

func TestSyncTerm_MergesRatingOverlay(t *testing.T) {
	snapshot := "subject,course_number,instructor,gpa,rating,difficulty,last_taught,course_gpa,course_rating,course_difficulty,course_title,captured_at\n" +
		"CS,1110,Aaron Bloomfield,3.41,4.2,2.9,Fall 2025,,,,Intro,2026-01-15\n"
	fx := newSyncFixture(t, snapshot)
	fx.fetcher.pages["CS"] = [][]models.ClassRecord{
		{
			classRecord("CS", "1110", "001", "Aaron Bloomfield"),
			classRecord("CS", "2150", "001", "Unrated Instructor"),
		},
	}

	_, err := fx.service.SyncTerm(context.Background(), "1258", []string{"CS"}, false, 1)
	require.NoError(t, err)

	rated := fx.store.get(models.CourseKey{TermCode: "1258", Subject: "CS", CatalogNumber: "1110"})
	require.NotNil(t, rated)
	assert.Equal(t, "3.41", rated.Sections[0].GPA)
	assert.Equal(t, "4.2", rated.Sections[0].Rating)

	unrated := fx.store.get(models.CourseKey{TermCode: "1258", Subject: "CS", CatalogNumber: "2150"})
	require.NotNil(t, unrated)
	assert.Equal(t, models.RatingNotAvailable, unrated.Sections[0].GPA)
}

func TestSyncTerm_SubjectFailureIsIsolated(t *testing.T) {
	fx := newSyncFixture(t, "")
	fx.fetcher.pages["CS"] = [][]models.ClassRecord{
		{classRecord("CS", "1110", "001", "Aaron Bloomfield")},
	}
	fx.fetcher.fail["APMA"] = errors.New("fetch blew up")

	runs, err := fx.service.SyncTerm(context.Background(), "1258", []string{"CS", "APMA"}, false, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	bySubject := map[string]*models.SyncRun{}
	for _, run := range runs {
		bySubject[run.Subject] = run
	}
	assert.Equal(t, models.SyncRunStatusCompleted, bySubject["CS"].Status)
	assert.Equal(t, models.SyncRunStatusFailed, bySubject["APMA"].Status)
	assert.Equal(t, 1, fx.store.count())
}

func TestSyncTerm_EmptyListingCompletes(t *testing.T) {
	fx := newSyncFixture(t, "")

	runs, err := fx.service.SyncTerm(context.Background(), "1258", []string{"CS"}, false, 1)
	require.NoError(t, err)

	run := runs[0]
	assert.Equal(t, models.SyncRunStatusCompleted, run.Status)
	assert.Equal(t, 0, run.Inserted)
}

func TestSyncTerm_EmptyListingWithReplaceClearsSubject(t *testing.T) {
	fx := newSyncFixture(t, "")
	stale := &models.Course{TermCode: "1258", Subject: "CS", CatalogNumber: "1110"}
	fx.store.courses[stale.Key()] = stale

	runs, err := fx.service.SyncTerm(context.Background(), "1258", []string{"CS"}, true, 1)
	require.NoError(t, err)

	assert.Equal(t, models.SyncRunStatusCompleted, runs[0].Status)
	assert.Equal(t, 0, fx.store.count())
}

func TestSyncTerm_ReplaceDeleteFailureAbortsSubject(t *testing.T) {
	fx := newSyncFixture(t, "")
	fx.fetcher.pages["CS"] = [][]models.ClassRecord{
		{classRecord("CS", "1110", "001", "Aaron Bloomfield")},
	}
	fx.store.deleteErr = errors.New("deadlock detected")

	runs, err := fx.service.SyncTerm(context.Background(), "1258", []string{"CS"}, true, 1)
	require.NoError(t, err)

	run := runs[0]
	assert.Equal(t, models.SyncRunStatusFailed, run.Status)
	assert.Contains(t, run.Message, "clearing 1258 CS")
	assert.Equal(t, 0, fx.store.writes)
}

func TestSyncTerm_CanceledContext(t *testing.T) {
	fx := newSyncFixture(t, "")
	fx.fetcher.pages["CS"] = [][]models.ClassRecord{
		{classRecord("CS", "1110", "001", "Aaron Bloomfield")},
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runs, err := fx.service.SyncTerm(ctx, "1258", []string{"CS"}, false, 1)
	require.NoError(t, err)

	run := runs[0]
	assert.Equal(t, models.SyncRunStatusFailed, run.Status)
	assert.Contains(t, run.Message, "canceled")
	assert.Equal(t, 0, fx.store.writes)

	persisted := fx.runs.stored(run.ID)
	assert.Equal(t, models.SyncRunStatusFailed, persisted.Status, "terminal state must survive cancellation")
}

func TestSyncTerm_ValidatesTermCode(t *testing.T) {
	fx := newSyncFixture(t, "")

	_, err := fx.service.SyncTerm(context.Background(), "fall-25", []string{"CS"}, false, 1)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestSyncTerm_ValidatesSubjectCodes(t *testing.T) {
	fx := newSyncFixture(t, "")

	_, err := fx.service.SyncTerm(context.Background(), "1258", []string{"C$"}, false, 1)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestSyncTerm_NormalizesAndDeduplicatesSubjects(t *testing.T) {
	fx := newSyncFixture(t, "")
	fx.fetcher.pages["CS"] = [][]models.ClassRecord{
		{classRecord("CS", "1110", "001", "Aaron Bloomfield")},
	}

	runs, err := fx.service.SyncTerm(context.Background(), "1258", []string{" cs ", "CS"}, false, 1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "CS", runs[0].Subject)
}

func TestSyncTerm_FallsBackToSubjectDirectory(t *testing.T) {
	fx := newSyncFixture(t, "")
	fx.dir.subjects = []models.Subject{{Code: "CS"}, {Code: "APMA"}}
	fx.fetcher.pages["CS"] = [][]models.ClassRecord{
		{classRecord("CS", "1110", "001", "Aaron Bloomfield")},
	}
	fx.fetcher.pages["APMA"] = [][]models.ClassRecord{
		{classRecord("APMA", "3100", "001", "Jane Smith")},
	}

	runs, err := fx.service.SyncTerm(context.Background(), "1258", nil, false, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, 2, fx.store.count())
}

func TestSyncTerm_EmptyDirectoryRejected(t *testing.T) {
	fx := newSyncFixture(t, "")

	_, err := fx.service.SyncTerm(context.Background(), "1258", nil, false, 1)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestSyncTerm_GuardReleasedAfterRun(t *testing.T) {
	fx := newSyncFixture(t, "")
	fx.fetcher.pages["CS"] = [][]models.ClassRecord{
		{classRecord("CS", "1110", "001", "Aaron Bloomfield")},
	}

	_, err := fx.service.SyncTerm(context.Background(), "1258", []string{"CS"}, false, 1)
	require.NoError(t, err)

	_, err = fx.service.SyncTerm(context.Background(), "1258", []string{"CS"}, false, 1)
	assert.NoError(t, err, "a finished run must release its reservation")
}

func TestSyncTerm_PublishesProgressStages(t *testing.T) {
	fx := newSyncFixture(t, "")
	fx.fetcher.pages["CS"] = [][]models.ClassRecord{
		{classRecord("CS", "1110", "001", "Aaron Bloomfield")},
	}

	_, err := fx.service.SyncTerm(context.Background(), "1258", []string{"CS"}, false, 1)
	require.NoError(t, err)

	stages := fx.notifier.stages()
	assert.Contains(t, stages, "fetch")
	assert.Contains(t, stages, "normalize")
	assert.Contains(t, stages, "merge")
	assert.Contains(t, stages, "finished")
}

func TestSyncTerm_NilNotifier(t *testing.T) {
	fx := newSyncFixture(t, "")
	fx.service = NewSyncService(fx.fetcher, fx.store, fx.runs, fx.dir, nil, filepath.Join(t.TempDir(), "absent.csv"), 3)
	fx.fetcher.pages["CS"] = [][]models.ClassRecord{
		{classRecord("CS", "1110", "001", "Aaron Bloomfield")},
	}

	runs, err := fx.service.SyncTerm(context.Background(), "1258", []string{"CS"}, false, 1)
	require.NoError(t, err)
	assert.Equal(t, models.SyncRunStatusCompleted, runs[0].Status)
}

func TestStartSyncs_ReturnsRunningRecords(t *testing.T) {
	fx := newSyncFixture(t, "")
	fx.fetcher.pages["CS"] = [][]models.ClassRecord{
		{classRecord("CS", "1110", "001", "Aaron Bloomfield")},
	}

	runs, err := fx.service.StartSyncs(context.Background(), dto.CreateSyncRequest{
		TermCode: "1258",
		Subjects: []string{"CS"},
	})
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, models.SyncRunStatusRunning, fx.runs.stored(runs[0].ID).Status)

	assert.Eventually(t, func() bool {
		return fx.runs.stored(runs[0].ID).Status == models.SyncRunStatusCompleted
	}, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, 1, fx.store.count())
}

func TestStartSyncs_RejectsActiveSubject(t *testing.T) {
	fx := newSyncFixture(t, "")
	gate := make(chan struct{})
	fx.fetcher.block["CS"] = gate
	defer close(gate)

	first, err := fx.service.StartSyncs(context.Background(), dto.CreateSyncRequest{
		TermCode: "1258",
		Subjects: []string{"CS"},
	})
	require.NoError(t, err)
	require.Len(t, first, 1)

	_, err = fx.service.StartSyncs(context.Background(), dto.CreateSyncRequest{
		TermCode: "1258",
		Subjects: []string{"CS", "APMA"},
	})
	assert.ErrorIs(t, err, apperrors.ErrSyncAlreadyActive)

	// The whole reservation is all or nothing, so APMA stays free for
	// other callers even though it was named alongside the busy subject.
	_, err = fx.service.StartSyncs(context.Background(), dto.CreateSyncRequest{
		TermCode: "1258",
		Subjects: []string{"APMA"},
	})
	assert.NoError(t, err)
}

func TestStartSyncs_SameSubjectDifferentTerms(t *testing.T) {
	fx := newSyncFixture(t, "")
	gate := make(chan struct{})
	fx.fetcher.block["CS"] = gate
	defer close(gate)

	_, err := fx.service.StartSyncs(context.Background(), dto.CreateSyncRequest{TermCode: "1258", Subjects: []string{"CS"}})
	require.NoError(t, err)

	_, err = fx.service.StartSyncs(context.Background(), dto.CreateSyncRequest{TermCode: "1262", Subjects: []string{"CS"}})
	assert.NoError(t, err, "reservations are per term, not per subject alone")
}

func TestStartSyncs_CreateFailureReleasesReservations(t *testing.T) {
	fx := newSyncFixture(t, "")
	fx.runs.createErr = errors.New("insert failed")

	_, err := fx.service.StartSyncs(context.Background(), dto.CreateSyncRequest{
		TermCode: "1258",
		Subjects: []string{"CS"},
	})
	require.Error(t, err)

	fx.runs.createErr = nil
	fx.fetcher.pages["CS"] = [][]models.ClassRecord{
		{classRecord("CS", "1110", "001", "Aaron Bloomfield")},
	}
	_, err = fx.service.StartSyncs(context.Background(), dto.CreateSyncRequest{
		TermCode: "1258",
		Subjects: []string{"CS"},
	})
	assert.NoError(t, err)
}

func TestGetRun(t *testing.T) {
	fx := newSyncFixture(t, "")
	run := &models.SyncRun{ID: uuid.New(), TermCode: "1258", Subject: "CS", Status: models.SyncRunStatusCompleted}
	require.NoError(t, fx.runs.Create(context.Background(), run))

	found, err := fx.service.GetRun(context.Background(), run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.ID, found.ID)

	_, err = fx.service.GetRun(context.Background(), uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrSyncRunNotFound)
}

func TestListRuns(t *testing.T) {
	fx := newSyncFixture(t, "")
	for i := 0; i < 3; i++ {
		require.NoError(t, fx.runs.Create(context.Background(), &models.SyncRun{ID: uuid.New(), TermCode: "1258", Subject: "CS"}))
	}

	items, pagination, err := fx.service.ListRuns(context.Background(), "1258", 0, 0)
	require.NoError(t, err)
	assert.Len(t, items, 3)
	assert.Equal(t, 3, pagination.TotalItems)
	assert.Equal(t, 1, pagination.CurrentPage)
}

func TestListRuns_InvalidTermFilter(t *testing.T) {
	fx := newSyncFixture(t, "")

	_, _, err := fx.service.ListRuns(context.Background(), "25FA", 1, 20)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}
