package race_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencourse/opencourse/internal/race"
	"github.com/opencourse/opencourse/internal/testutil"
)

const launchInstant = int64(1_700_000_000_000)

func seniorM() race.Category {
	return race.Category{ID: "cat-sm", Name: "Senior Homme", Sex: race.SexMale, AgeMin: 18, AgeMax: 39}
}

func seniorF() race.Category {
	return race.Category{ID: "cat-sf", Name: "Senior Femme", Sex: race.SexFemale, AgeMin: 18, AgeMax: 39}
}

func entry(id, bib string, cat race.Category) race.RosterEntry {
	return race.RosterEntry{
		ParticipantID: id,
		LastName:      "Runner-" + id,
		FirstName:     "Test",
		Bib:           bib,
		Category:      cat,
	}
}

func testCourse(bibs ...string) *race.Course {
	c := &race.Course{
		ID:             "course-1",
		Name:           "Canicross 5 km",
		StaggerSeconds: 30,
		ScheduledStart: "10:00",
		DistanceMeters: 5000,
	}
	for i, bib := range bibs {
		cat := seniorM()
		if i%2 == 1 {
			cat = seniorF()
		}
		c.Roster = append(c.Roster, entry(bib, bib, cat))
	}
	return c
}

func newTestService(course *race.Course) (*race.Service, *memStore, *testutil.Clock, *recordingNotifier) {
	store := newMemStore()
	if course != nil {
		store.courses[course.ID] = course
	}
	clock := testutil.NewClock(launchInstant)
	notify := &recordingNotifier{}
	return race.NewService(store, clock, notify), store, clock, notify
}

func TestLaunch_StaggeredStartsFollowBibOrder(t *testing.T) {
	svc, store, _, notify := newTestService(testCourse("12", "3", "7"))
	ctx := context.Background()

	launched, err := svc.Launch(ctx, "course-1")
	require.NoError(t, err)

	// Roster comes back sorted by numeric bib with 30s gaps.
	require.Len(t, launched.Roster, 3)
	assert.Equal(t, []string{"3", "7", "12"}, []string{
		launched.Roster[0].Bib, launched.Roster[1].Bib, launched.Roster[2].Bib,
	})
	for i, e := range launched.Roster {
		assert.Equal(t, launchInstant, e.CourseStart)
		assert.Equal(t, launchInstant+int64(i)*30_000, e.Start)
	}

	// The full roster replace reached the store.
	persisted := store.courses["course-1"]
	assert.Equal(t, launched.Roster, persisted.Roster)
	assert.True(t, persisted.Launched())

	assert.Equal(t, []string{"course-1"}, notify.launches)
}

func TestLaunch_EmptyRoster(t *testing.T) {
	svc, _, _, _ := newTestService(testCourse())

	_, err := svc.Launch(context.Background(), "course-1")
	assert.True(t, race.IsValidation(err), "want validation error, got %v", err)
}

func TestLaunch_UnknownCourse(t *testing.T) {
	svc, _, _, _ := newTestService(nil)

	_, err := svc.Launch(context.Background(), "ghost")
	assert.True(t, race.IsNotFound(err), "want not-found error, got %v", err)
}

func TestLaunch_UnparsableBibSortsFirst(t *testing.T) {
	svc, _, _, _ := newTestService(testCourse("5", "X", "1", "Y"))

	launched, err := svc.Launch(context.Background(), "course-1")
	require.NoError(t, err)

	// Unparsable bibs lead, keeping their relative order; launch never aborts.
	got := []string{}
	for _, e := range launched.Roster {
		got = append(got, e.Bib)
	}
	assert.Equal(t, []string{"X", "Y", "1", "5"}, got)
	for i, e := range launched.Roster {
		assert.Equal(t, launchInstant+int64(i)*30_000, e.Start)
	}
}

func TestLaunch_RelaunchOverwritesStarts(t *testing.T) {
	svc, _, clock, _ := newTestService(testCourse("1", "2"))
	ctx := context.Background()

	_, err := svc.Launch(ctx, "course-1")
	require.NoError(t, err)

	clock.Advance(5 * 60_000)
	relaunched, err := svc.Launch(ctx, "course-1")
	require.NoError(t, err)

	assert.Equal(t, launchInstant+5*60_000, relaunched.Roster[0].CourseStart)
	assert.Equal(t, launchInstant+5*60_000, relaunched.Roster[0].Start)
}
