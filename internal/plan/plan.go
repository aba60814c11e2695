// Package plan loads a declarative race-day file and applies it to the
// store: categories, the participant list, courses, and per-course roster
// assignments (bib and dog per runner).
//
// A plan replaces the interactive editors of a timing desk for setups
// prepared in advance. Applying a plan snapshots each runner's category
// into their roster entry, which is what makes later category edits
// non-retroactive.
package plan

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/opencourse/opencourse/internal/race"
	"github.com/opencourse/opencourse/internal/store"
	"github.com/opencourse/opencourse/internal/timeutil"
)

// Plan is the parsed race-day file.
type Plan struct {
	Categories   []CategorySpec    `yaml:"categories,omitempty"`
	Participants []ParticipantSpec `yaml:"participants,omitempty"`
	Courses      []CourseSpec      `yaml:"courses,omitempty"`
}

// CategorySpec declares one category.
type CategorySpec struct {
	Name   string `yaml:"name"`
	Sex    string `yaml:"sex"`
	AgeMin int    `yaml:"age_min"`
	AgeMax int    `yaml:"age_max"`
}

// ParticipantSpec declares one runner. Category references a declared or
// pre-existing category by name.
type ParticipantSpec struct {
	LastName  string `yaml:"last_name"`
	FirstName string `yaml:"first_name"`
	License   string `yaml:"license,omitempty"`
	Club      string `yaml:"club,omitempty"`
	Category  string `yaml:"category"`
}

// CourseSpec declares one course with its roster.
type CourseSpec struct {
	Name           string       `yaml:"name"`
	StaggerSeconds int          `yaml:"stagger_seconds"`
	ScheduledStart string       `yaml:"scheduled_start,omitempty"` // "HH:MM"
	DistanceMeters float64      `yaml:"distance_m"`
	Roster         []RosterSpec `yaml:"roster,omitempty"`
}

// RosterSpec attaches a declared participant (by last/first name) to the
// course with a bib and an optional dog.
type RosterSpec struct {
	LastName  string `yaml:"last_name"`
	FirstName string `yaml:"first_name"`
	Bib       string `yaml:"bib"`
	Dog       string `yaml:"dog,omitempty"`
}

// Load reads and parses a plan file. Unknown fields are rejected so a
// typo fails loudly instead of silently dropping a roster.
func Load(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan file: %w", err)
	}

	var p Plan
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&p); err != nil {
		return nil, fmt.Errorf("failed to parse plan: %w", err)
	}

	if err := validate(&p); err != nil {
		return nil, fmt.Errorf("invalid plan: %w", err)
	}
	return &p, nil
}

func validate(p *Plan) error {
	for _, c := range p.Categories {
		if c.Name == "" {
			return fmt.Errorf("category with empty name")
		}
		if c.Sex != race.SexMale && c.Sex != race.SexFemale {
			return fmt.Errorf("category %q: sex must be %q or %q", c.Name, race.SexMale, race.SexFemale)
		}
	}
	for _, ps := range p.Participants {
		if ps.LastName == "" {
			return fmt.Errorf("participant with empty last name")
		}
		if ps.Category == "" {
			return fmt.Errorf("participant %q: category is required", ps.LastName)
		}
	}
	for _, cs := range p.Courses {
		if cs.Name == "" {
			return fmt.Errorf("course with empty name")
		}
		if cs.StaggerSeconds < 0 {
			return fmt.Errorf("course %q: stagger must not be negative", cs.Name)
		}
		if cs.ScheduledStart != "" {
			if _, err := timeutil.ParseClock(cs.ScheduledStart); err != nil {
				return fmt.Errorf("course %q: %w", cs.Name, err)
			}
		}
		seen := map[string]bool{}
		for _, rs := range cs.Roster {
			if rs.Bib == "" {
				return fmt.Errorf("course %q: roster entry %s %s has no bib", cs.Name, rs.FirstName, rs.LastName)
			}
			if seen[rs.Bib] {
				return fmt.Errorf("course %q: duplicate bib %s", cs.Name, rs.Bib)
			}
			seen[rs.Bib] = true
		}
	}
	return nil
}

// Apply inserts the plan's documents into the store in dependency order:
// categories, then participants, then courses with resolved rosters.
// Category and participant references are resolved against the store, so
// a plan may reference data created by an earlier plan or a backup
// import.
func Apply(ctx context.Context, st *store.Store, p *Plan) error {
	for _, cs := range p.Categories {
		c := &race.Category{
			ID:     uuid.Must(uuid.NewV7()).String(),
			Name:   cs.Name,
			Sex:    cs.Sex,
			AgeMin: cs.AgeMin,
			AgeMax: cs.AgeMax,
		}
		if err := st.InsertCategory(ctx, c); err != nil {
			return fmt.Errorf("apply plan: category %q: %w", cs.Name, err)
		}
	}

	for _, ps := range p.Participants {
		if cat, err := st.CategoryByName(ctx, ps.Category); err != nil {
			return fmt.Errorf("apply plan: %w", err)
		} else if cat == nil {
			return fmt.Errorf("apply plan: participant %s %s references unknown category %q",
				ps.FirstName, ps.LastName, ps.Category)
		}
		part := &race.Participant{
			ID:        uuid.Must(uuid.NewV7()).String(),
			LastName:  ps.LastName,
			FirstName: ps.FirstName,
			License:   ps.License,
			Club:      ps.Club,
			Category:  ps.Category,
		}
		if err := st.InsertParticipant(ctx, part); err != nil {
			return fmt.Errorf("apply plan: participant %s: %w", ps.LastName, err)
		}
	}

	for _, cs := range p.Courses {
		course := &race.Course{
			ID:             uuid.Must(uuid.NewV7()).String(),
			Name:           cs.Name,
			StaggerSeconds: cs.StaggerSeconds,
			ScheduledStart: cs.ScheduledStart,
			DistanceMeters: cs.DistanceMeters,
		}
		for _, rs := range cs.Roster {
			entry, err := resolveEntry(ctx, st, rs)
			if err != nil {
				return fmt.Errorf("apply plan: course %q: %w", cs.Name, err)
			}
			course.Roster = append(course.Roster, *entry)
		}
		if err := st.PutCourse(ctx, course); err != nil {
			return fmt.Errorf("apply plan: course %q: %w", cs.Name, err)
		}
	}

	return nil
}

// resolveEntry builds a roster entry from a roster spec, snapshotting the
// participant's category at apply time.
func resolveEntry(ctx context.Context, st *store.Store, rs RosterSpec) (*race.RosterEntry, error) {
	participants, err := st.Participants(ctx)
	if err != nil {
		return nil, err
	}
	var part *race.Participant
	for _, p := range participants {
		if p.LastName == rs.LastName && p.FirstName == rs.FirstName {
			part = p
			break
		}
	}
	if part == nil {
		return nil, fmt.Errorf("no participant named %s %s", rs.FirstName, rs.LastName)
	}

	cat, err := st.CategoryByName(ctx, part.Category)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, fmt.Errorf("participant %s %s references unknown category %q",
			part.FirstName, part.LastName, part.Category)
	}

	return &race.RosterEntry{
		ParticipantID: part.ID,
		LastName:      part.LastName,
		FirstName:     part.FirstName,
		Club:          part.Club,
		Category:      *cat,
		DogName:       rs.Dog,
		Bib:           rs.Bib,
	}, nil
}
