package race_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencourse/opencourse/internal/race"
)

// launchTestCourse launches the course and returns the service wired to it.
func launchTestCourse(t *testing.T, bibs ...string) (*race.Service, *memStore, *clockAnd) {
	t.Helper()
	svc, store, clock, notify := newTestService(testCourse(bibs...))
	_, err := svc.Launch(context.Background(), "course-1")
	require.NoError(t, err)
	return svc, store, &clockAnd{clock, notify}
}

type clockAnd struct {
	clock  interface{ Advance(int64) }
	notify *recordingNotifier
}

func TestRecordArrival_OrdinalsAreSequential(t *testing.T) {
	svc, _, env := launchTestCourse(t, "1", "2", "3", "4")
	ctx := context.Background()

	// Ordinals count 1,2,... in call order regardless of bib resolution.
	bibs := []string{"2", "", "4", ""}
	for i, bib := range bibs {
		env.clock.Advance(10_000)
		r, err := svc.RecordArrival(ctx, "course-1", bib)
		require.NoError(t, err)
		assert.Equal(t, i+1, r.ArrivalOrdinal)
	}
	assert.Len(t, env.notify.arrivals, 4)
}

func TestRecordArrival_UnlaunchedCourse(t *testing.T) {
	svc, store, _, _ := newTestService(testCourse("1", "2"))
	ctx := context.Background()

	_, err := svc.RecordArrival(ctx, "course-1", "1")
	assert.True(t, race.IsValidation(err), "want validation error, got %v", err)

	// The back-fill path is guarded the same way.
	_, err = svc.RecordBackfill(ctx, "course-1", "2", launchInstant+60_000)
	assert.True(t, race.IsValidation(err), "want validation error, got %v", err)

	results, err := store.ResultsByCourse(ctx, "course-1")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestRecordBackfill_EpochZeroFinish(t *testing.T) {
	svc, _, _ := launchTestCourse(t, "1")

	// A zero finish instant is taken literally, not as "no forced finish".
	r, err := svc.RecordBackfill(context.Background(), "course-1", "", 0)
	require.NoError(t, err)
	assert.Equal(t, 0, r.ArrivalOrdinal)
	assert.Zero(t, r.Finish)
}

func TestRecordArrival_ResolvedBib(t *testing.T) {
	svc, store, env := launchTestCourse(t, "1", "2")
	ctx := context.Background()

	env.clock.Advance(20 * 60_000) // finish 20 minutes after launch
	r, err := svc.RecordArrival(ctx, "course-1", "2")
	require.NoError(t, err)

	assert.Equal(t, 2, r.Bib)
	assert.Equal(t, "2", r.Participant.Bib)
	// Bib 2 started 30s after launch, so elapsed is 19:30.
	assert.Equal(t, launchInstant+30_000, r.Start)
	assert.Equal(t, int64(20*60_000-30_000), r.Elapsed)
	assert.Equal(t, "00:19:30", r.ElapsedText)
	assert.True(t, r.Resolved())

	// Persisted verbatim.
	persisted := store.results[r.ID]
	require.NotNil(t, persisted)
	assert.Equal(t, r.ElapsedText, persisted.ElapsedText)
}

func TestRecordArrival_UnresolvedBib(t *testing.T) {
	svc, _, env := launchTestCourse(t, "1", "2")

	env.clock.Advance(10_000)
	r, err := svc.RecordArrival(context.Background(), "course-1", "")
	require.NoError(t, err)

	assert.Equal(t, race.BibUnknown, r.Bib)
	assert.False(t, r.Resolved())
	assert.Empty(t, r.Participant.ParticipantID)
	assert.Zero(t, r.Start)
	assert.Zero(t, r.Elapsed)
	assert.Empty(t, r.ElapsedText)
	assert.Equal(t, launchInstant+10_000, r.Finish)
}

func TestRecordArrival_UnknownBibCreatesNothing(t *testing.T) {
	svc, store, _ := launchTestCourse(t, "1", "2")
	ctx := context.Background()

	_, err := svc.RecordArrival(ctx, "course-1", "9999")
	assert.True(t, race.IsUnknownBib(err), "want unknown-bib error, got %v", err)

	results, err := store.ResultsByCourse(ctx, "course-1")
	require.NoError(t, err)
	assert.Empty(t, results, "record must not be inserted on unknown bib")

	// The failed call must not have consumed an ordinal.
	r, err := svc.RecordArrival(ctx, "course-1", "1")
	require.NoError(t, err)
	assert.Equal(t, 1, r.ArrivalOrdinal)
}

func TestRecordArrival_LeadingZeroBibMatches(t *testing.T) {
	svc, _, _ := launchTestCourse(t, "7")

	r, err := svc.RecordArrival(context.Background(), "course-1", "07")
	require.NoError(t, err)
	assert.Equal(t, 7, r.Bib)
}

func TestRecordBackfill_OrdinalZero(t *testing.T) {
	svc, _, _ := launchTestCourse(t, "1", "2")
	ctx := context.Background()

	// A normal arrival first, then a back-fill for the missed finisher.
	first, err := svc.RecordArrival(ctx, "course-1", "1")
	require.NoError(t, err)
	assert.Equal(t, 1, first.ArrivalOrdinal)

	forced, err := svc.RecordBackfill(ctx, "course-1", "2", launchInstant+15*60_000)
	require.NoError(t, err)
	assert.Equal(t, 0, forced.ArrivalOrdinal)
	assert.Equal(t, launchInstant+15*60_000, forced.Finish)

	// The back-fill did not consume the counter.
	next, err := svc.RecordArrival(ctx, "course-1", "")
	require.NoError(t, err)
	assert.Equal(t, 2, next.ArrivalOrdinal)
}

func TestRemaining(t *testing.T) {
	svc, _, _ := launchTestCourse(t, "1", "2", "3")
	ctx := context.Background()

	n, err := svc.Remaining(ctx, "course-1")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	_, err = svc.RecordArrival(ctx, "course-1", "1")
	require.NoError(t, err)

	n, err = svc.Remaining(ctx, "course-1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestOrdinals_SeedAfterRestart(t *testing.T) {
	svc, store, _ := launchTestCourse(t, "1", "2", "3")
	ctx := context.Background()

	for _, bib := range []string{"1", "2"} {
		_, err := svc.RecordArrival(ctx, "course-1", bib)
		require.NoError(t, err)
	}

	// Simulate a restart: a fresh service over the same store, reseeded
	// from the persisted results.
	restarted := race.NewService(store, nil, nil)
	results, err := store.ResultsByCourse(ctx, "course-1")
	require.NoError(t, err)
	max := 0
	for _, r := range results {
		if r.ArrivalOrdinal > max {
			max = r.ArrivalOrdinal
		}
	}
	restarted.Ordinals().Seed("course-1", max+1)

	r, err := restarted.RecordArrival(ctx, "course-1", "3")
	require.NoError(t, err)
	assert.Equal(t, 3, r.ArrivalOrdinal)
}

func TestCounter_PerCourseIsolation(t *testing.T) {
	c := race.NewCounter()
	for i := 1; i <= 3; i++ {
		assert.Equal(t, i, c.Next("a"), fmt.Sprintf("course a call %d", i))
	}
	assert.Equal(t, 1, c.Next("b"))
	c.Reset("a")
	assert.Equal(t, 1, c.Next("a"))
}
