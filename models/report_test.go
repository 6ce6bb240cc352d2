package models

import (
	"context"
	"forum-core/apperror"
	"forum-core/helpers"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryReportStore keeps the queue in RAM; ResolveOpen checks and flips
// under one lock, the same atomicity the conditional update gives on the
// document store.
type memoryReportStore struct {
	mutex   sync.Mutex
	reports map[string]Report
}

func newMemoryReportStore() *memoryReportStore {
	return &memoryReportStore{reports: make(map[string]Report)}
}

func (s *memoryReportStore) Insert(ctx context.Context, report *Report) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.reports[report.ID.Hex()] = *report
	return nil
}

func (s *memoryReportStore) ResolveOpen(ctx context.Context, reportID string, resolverID string, at time.Time) (*Report, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	report, ok := s.reports[reportID]
	if !ok || report.Done {
		// only open reports match the conditional update
		return nil, apperror.ErrNoData
	}

	report.Done = true
	report.ResolvedID = helpers.ObjectID(resolverID)
	resolvedAt := at
	report.ResolvedAt = &resolvedAt
	s.reports[reportID] = report

	return &report, nil
}

func (s *memoryReportStore) Get(ctx context.Context, reportID string) (*Report, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	report, ok := s.reports[reportID]
	if !ok {
		return nil, apperror.ErrNoData
	}
	return &report, nil
}

func (s *memoryReportStore) ListPending(ctx context.Context, limit int64) ([]Report, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	var pending []Report
	for _, report := range s.reports {
		if !report.Done {
			pending = append(pending, report)
		}
	}
	sort.Slice(pending, func(i, j int) bool { return pending[i].CreatedAt.Before(pending[j].CreatedAt) })

	if int64(len(pending)) > limit {
		pending = pending[:limit]
	}
	return pending, nil
}

func TestReportValidate(t *testing.T) {

	model := ReportModel{}

	report := Report{
		TargetType: "  topic ",
		URL:        " /topics/6036f1e362ea59bc07dea3ab ",
		Reason:     " spam ",
	}

	cleaned, err := model.Validate(report)
	require.NoError(t, err)
	assert.Equal(t, "topic", cleaned.TargetType)
	assert.Equal(t, "/topics/6036f1e362ea59bc07dea3ab", cleaned.URL)
	assert.Equal(t, "spam", cleaned.Reason)

	// the argument stays untouched
	assert.Equal(t, "  topic ", report.TargetType)
}

func TestReportValidateRejectsBlanks(t *testing.T) {

	model := ReportModel{}

	cases := []Report{
		{TargetType: "", URL: "/topics/1", Reason: "spam"},
		{TargetType: "topic", URL: "", Reason: "spam"},
		{TargetType: "topic", URL: "/topics/1", Reason: ""},
		{TargetType: "   ", URL: "  ", Reason: " "},
		// not a registered target type
		{TargetType: "article", URL: "/topics/1", Reason: "spam"},
	}

	for _, report := range cases {
		_, err := model.Validate(report)
		assert.Equal(t, ErrInvalidReport, err)
	}
}

func TestFileAndResolve(t *testing.T) {

	createdAt := time.Date(2021, 3, 14, 12, 0, 0, 0, time.UTC)
	now := createdAt

	store := newMemoryReportStore()
	model := ReportModel{Store: store, Now: func() time.Time { return now }}

	id, err := model.File(&Report{
		TargetID:   helpers.ObjectID("6036f1e362ea59bc07dea3ab"),
		TargetType: "topic",
		URL:        "/topics/6036f1e362ea59bc07dea3ab",
		Reason:     "spam",
	})
	require.NoError(t, err)

	filed, err := store.Get(context.Background(), id)
	require.NoError(t, err)
	assert.False(t, filed.Done)
	assert.Equal(t, createdAt, filed.CreatedAt)

	now = createdAt.Add(time.Hour)
	resolved, err := model.Resolve(id, "6036f1e362ea59bc07dea3ac")
	require.NoError(t, err)
	assert.True(t, resolved.Done)
	assert.Equal(t, helpers.ObjectID("6036f1e362ea59bc07dea3ac"), resolved.ResolvedID)
	require.NotNil(t, resolved.ResolvedAt)
	assert.Equal(t, now, *resolved.ResolvedAt)
}

func TestResolveTwiceIsIdempotent(t *testing.T) {

	firstResolve := time.Date(2021, 3, 14, 13, 0, 0, 0, time.UTC)
	now := firstResolve

	store := newMemoryReportStore()
	model := ReportModel{Store: store, Now: func() time.Time { return now }}

	id, err := model.File(&Report{
		TargetType: "topic",
		URL:        "/topics/6036f1e362ea59bc07dea3ab",
		Reason:     "spam",
	})
	require.NoError(t, err)

	first, err := model.Resolve(id, "6036f1e362ea59bc07dea3ac")
	require.NoError(t, err)
	require.True(t, first.Done)

	// the second resolution - by someone else, later - is a no-op, not an error
	now = firstResolve.Add(time.Hour)
	second, err := model.Resolve(id, "6036f1e362ea59bc07dea3ad")
	require.NoError(t, err)
	assert.True(t, second.Done)
	assert.Equal(t, first.ResolvedID, second.ResolvedID)
	assert.Equal(t, *first.ResolvedAt, *second.ResolvedAt)
}

func TestResolveConcurrentSingleWriter(t *testing.T) {

	store := newMemoryReportStore()
	model := ReportModel{Store: store}

	id, err := model.File(&Report{
		TargetType: "topic",
		URL:        "/topics/6036f1e362ea59bc07dea3ab",
		Reason:     "spam",
	})
	require.NoError(t, err)

	const calls = 20
	var wg sync.WaitGroup
	wg.Add(calls)
	for i := 0; i < calls; i++ {
		go func() {
			defer wg.Done()
			// every racer sees success, only one actually writes
			report, err := model.Resolve(id, "6036f1e362ea59bc07dea3ac")
			if assert.NoError(t, err) {
				assert.True(t, report.Done)
			}
		}()
	}
	wg.Wait()
}

func TestResolveUnknownReport(t *testing.T) {

	model := ReportModel{Store: newMemoryReportStore()}

	_, err := model.Resolve("6036f1e362ea59bc07dea3ab", "6036f1e362ea59bc07dea3ac")
	assert.Equal(t, ErrReportNotFound, err)
}

func TestListPendingSkipsResolved(t *testing.T) {

	createdAt := time.Date(2021, 3, 14, 12, 0, 0, 0, time.UTC)
	now := createdAt

	store := newMemoryReportStore()
	model := ReportModel{Store: store, Now: func() time.Time { return now }}

	first, err := model.File(&Report{TargetType: "topic", URL: "/topics/1", Reason: "spam"})
	require.NoError(t, err)

	now = createdAt.Add(time.Minute)
	second, err := model.File(&Report{TargetType: "comment", URL: "/topics/1#c2", Reason: "abuse"})
	require.NoError(t, err)

	_, err = model.Resolve(first, "6036f1e362ea59bc07dea3ac")
	require.NoError(t, err)

	pending, err := model.ListPending(10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, second, pending[0].ID.Hex())
}
