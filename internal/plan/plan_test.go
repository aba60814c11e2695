package plan

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencourse/opencourse/internal/race"
	"github.com/opencourse/opencourse/internal/store"
)

const testPlan = `
categories:
  - name: Senior Homme
    sex: Masculin
    age_min: 18
    age_max: 39
  - name: Senior Femme
    sex: Féminin
    age_min: 18
    age_max: 39

participants:
  - last_name: Dupont
    first_name: Marie
    club: CC Annecy
    license: FSLC-1234
    category: Senior Femme
  - last_name: Martin
    first_name: Paul
    category: Senior Homme

courses:
  - name: Canicross 5 km
    stagger_seconds: 30
    scheduled_start: "10:00"
    distance_m: 5000
    roster:
      - last_name: Dupont
        first_name: Marie
        bib: "2"
        dog: Falco
      - last_name: Martin
        first_name: Paul
        bib: "1"
`

func writePlan(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	p, err := Load(writePlan(t, testPlan))
	require.NoError(t, err)

	assert.Len(t, p.Categories, 2)
	assert.Len(t, p.Participants, 2)
	require.Len(t, p.Courses, 1)
	assert.Equal(t, "Canicross 5 km", p.Courses[0].Name)
	assert.Len(t, p.Courses[0].Roster, 2)
}

func TestLoad_RejectsUnknownFields(t *testing.T) {
	_, err := Load(writePlan(t, "categorys:\n  - name: typo\n"))
	assert.Error(t, err)
}

func TestLoad_RejectsBadSex(t *testing.T) {
	_, err := Load(writePlan(t, "categories:\n  - name: X\n    sex: Autre\n"))
	assert.Error(t, err)
}

func TestLoad_RejectsBadScheduledStart(t *testing.T) {
	_, err := Load(writePlan(t, `
courses:
  - name: C
    scheduled_start: "25:99 oops"
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid clock time")
}

func TestLoad_RejectsDuplicateBib(t *testing.T) {
	_, err := Load(writePlan(t, `
courses:
  - name: C
    roster:
      - {last_name: A, first_name: A, bib: "1"}
      - {last_name: B, first_name: B, bib: "1"}
`))
	assert.Error(t, err)
}

func TestApply(t *testing.T) {
	ctx := context.Background()
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer st.Close()

	p, err := Load(writePlan(t, testPlan))
	require.NoError(t, err)
	require.NoError(t, Apply(ctx, st, p))

	course, err := st.CourseByName(ctx, "Canicross 5 km")
	require.NoError(t, err)
	require.NotNil(t, course)
	require.Len(t, course.Roster, 2)

	// The category is snapshotted into the roster entry at apply time.
	marie := course.Roster[0]
	assert.Equal(t, "Dupont", marie.LastName)
	assert.Equal(t, "Senior Femme", marie.Category.Name)
	assert.Equal(t, race.SexFemale, marie.Category.Sex)
	assert.Equal(t, "Falco", marie.DogName)
	assert.Equal(t, "2", marie.Bib)
	assert.Zero(t, marie.Start, "start instants only exist after launch")
}

func TestApply_UnknownCategory(t *testing.T) {
	ctx := context.Background()
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer st.Close()

	p, err := Load(writePlan(t, `
participants:
  - last_name: Ghost
    first_name: G
    category: Introuvable
`))
	require.NoError(t, err)
	assert.Error(t, Apply(ctx, st, p))
}
