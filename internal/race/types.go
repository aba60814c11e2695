// Package race holds the timing core: course launch, arrival recording,
// result correction, and classification.
//
// All documents are plain structs serialized to JSON by the collection
// store. Instants are milliseconds since the Unix epoch; elapsed times are
// millisecond durations (see internal/timeutil).
package race

import "github.com/opencourse/opencourse/internal/timeutil"

// BibUnknown marks a result whose finisher has not been identified yet:
// someone crossed the line, the bib is typed in later.
const BibUnknown = -1

// Sex values carried on categories, as entered by the organizer.
const (
	SexMale   = "Masculin"
	SexFemale = "Féminin"
)

// Category is an age/sex bracket. Name is unique (case-sensitive,
// NFC-normalized by the store index).
type Category struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Sex    string `json:"sex"`
	AgeMin int    `json:"age_min"`
	AgeMax int    `json:"age_max"`
}

// Participant is a registered runner. Category holds the category name;
// the full category is snapshotted into the roster entry when the runner
// is attached to a course.
type Participant struct {
	ID        string `json:"id"`
	LastName  string `json:"last_name"`
	FirstName string `json:"first_name"`
	License   string `json:"license"`
	Club      string `json:"club"`
	Category  string `json:"category"`
}

// RosterEntry is one runner registered on one course.
//
// Category is an embedded snapshot taken at roster-save time: editing a
// category afterwards must not retroactively change historical results.
// Start and CourseStart are zero until the course is launched.
type RosterEntry struct {
	ParticipantID string   `json:"participant_id"`
	LastName      string   `json:"last_name"`
	FirstName     string   `json:"first_name"`
	Club          string   `json:"club"`
	Category      Category `json:"category"`
	DogName       string   `json:"dog_name,omitempty"`
	Bib           string   `json:"bib"`
	Start         int64    `json:"start_ms,omitempty"`
	CourseStart   int64    `json:"course_start_ms,omitempty"`
}

// Course is one timed event instance.
type Course struct {
	ID             string        `json:"id"`
	Name           string        `json:"name"`
	StaggerSeconds int           `json:"stagger_seconds"`
	ScheduledStart string        `json:"scheduled_start"` // "HH:MM"
	DistanceMeters float64       `json:"distance_m"`
	Roster         []RosterEntry `json:"roster"`
}

// Launched reports whether the course has been launched: every entry of a
// launched roster carries a course-wide start instant.
func (c *Course) Launched() bool {
	return len(c.Roster) > 0 && c.Roster[0].CourseStart != 0
}

// EntryByBib returns the roster entry with the given bib, or nil.
func (c *Course) EntryByBib(bib string) *RosterEntry {
	for i := range c.Roster {
		if c.Roster[i].Bib == bib {
			return &c.Roster[i]
		}
	}
	return nil
}

// Result is one finish-line event.
//
// A result starts either resolved (bib known at the line) or unresolved
// (Bib == BibUnknown). For unresolved results Participant is empty and
// Start/Elapsed/ElapsedText are zero values; binding the bib later fills
// them in. ElapsedText is always the formatted Elapsed plus penalty and is
// recomputed whenever either changes.
//
// Rank fields stay zero until the classification engine runs for the
// course; later arrivals or corrections leave them stale until it is
// explicitly re-run.
type Result struct {
	ID             string      `json:"id"`
	CourseID       string      `json:"course_id"`
	Participant    RosterEntry `json:"participant"`
	Bib            int         `json:"bib"`
	ArrivalOrdinal int         `json:"arrival_ordinal"` // 0 for manual back-fills
	Finish         int64       `json:"finish_ms"`
	Start          int64       `json:"start_ms,omitempty"`
	Elapsed        int64       `json:"elapsed_ms,omitempty"`
	ElapsedText    string      `json:"elapsed_text,omitempty"`
	PenaltySeconds int         `json:"penalty_s"`
	RankScratch    int         `json:"rank_scratch,omitempty"`
	RankCategory   int         `json:"rank_category,omitempty"`
	RankSex        int         `json:"rank_sex,omitempty"`
}

// Resolved reports whether the result is attributed to a participant.
func (r *Result) Resolved() bool {
	return r.Bib != BibUnknown
}

// EffectiveMs is the classification sort key: elapsed time plus penalty.
func (r *Result) EffectiveMs() int64 {
	return r.Elapsed + int64(r.PenaltySeconds)*1000
}

// recomputeElapsedText refreshes ElapsedText from Elapsed and the penalty.
func (r *Result) recomputeElapsedText() {
	r.ElapsedText = timeutil.FormatClock(r.EffectiveMs(), false)
}
