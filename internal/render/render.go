// Package render produces the printable text views: the start list handed
// to the starter, the results table, and the participant index.
//
// Output is plain pipe-separated text, one row per line, suitable for a
// terminal or a printer. Layout beyond that contract is presentation and
// stays out of the timing core.
package render

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/opencourse/opencourse/internal/race"
	"github.com/opencourse/opencourse/internal/timeutil"
)

const na = "N/A"

// StartList renders a course's roster sorted by numeric bib, one runner
// per line. Before launch the start column shows the scheduled start for
// everyone; after launch each runner gets their own staggered instant.
func StartList(course *race.Course) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Start list - %s (%s m, stagger %ds)\n",
		course.Name, strconv.FormatFloat(course.DistanceMeters, 'f', -1, 64), course.StaggerSeconds)
	b.WriteString("bib | participant | club | dog | category | start\n")

	roster := make([]race.RosterEntry, len(course.Roster))
	copy(roster, course.Roster)
	sort.SliceStable(roster, func(i, j int) bool {
		bi, errI := strconv.Atoi(roster[i].Bib)
		bj, errJ := strconv.Atoi(roster[j].Bib)
		if errI != nil {
			// unparsable bibs first, stable among themselves
			return errJ == nil
		}
		if errJ != nil {
			return false
		}
		return bi < bj
	})

	for _, e := range roster {
		start := "-"
		switch {
		case e.Start != 0:
			start = timeutil.FormatClock(e.Start, false)
		case course.ScheduledStart != "":
			start = course.ScheduledStart
		}
		fmt.Fprintf(&b, "%s | %s %s | %s | %s | %s | %s\n",
			e.Bib, e.LastName, e.FirstName, e.Club, e.DogName, e.Category.Name, start)
	}
	return b.String()
}

// ResultsTable renders a course's results: ranked rows first in scratch
// order, then unranked rows in insertion order. Unresolved arrivals show
// their finish clock time and N/A everywhere identity would be needed.
func ResultsTable(course *race.Course, results []*race.Result) string {
	rows := make([]*race.Result, len(results))
	copy(rows, results)
	sort.SliceStable(rows, func(i, j int) bool {
		ri, rj := rows[i].RankScratch, rows[j].RankScratch
		if ri > 0 && rj > 0 {
			return ri < rj
		}
		return ri > 0 && rj == 0
	})

	var b strings.Builder
	fmt.Fprintf(&b, "Results - %s\n", course.Name)
	b.WriteString("ord | bib | participant | club | dog | time | penalty | category | scratch | cat | sex | avg\n")
	for _, r := range rows {
		b.WriteString(resultRow(course, r))
	}
	return b.String()
}

func resultRow(course *race.Course, r *race.Result) string {
	ord := strconv.Itoa(r.ArrivalOrdinal)
	if r.ArrivalOrdinal == 0 {
		ord = "-"
	}

	if !r.Resolved() {
		return fmt.Sprintf("%s | ? | %s | %s | %s | %s | %s | %s | %s | %s | %s | %s\n",
			ord, na, na, na, timeutil.FormatClock(r.Finish, false), na, na, na, na, na, na)
	}

	return fmt.Sprintf("%s | %d | %s %s | %s | %s | %s | %d | %s | %s | %s | %s | %s\n",
		ord,
		r.Bib,
		r.Participant.LastName, r.Participant.FirstName,
		r.Participant.Club,
		r.Participant.DogName,
		r.ElapsedText,
		r.PenaltySeconds,
		r.Participant.Category.Name,
		rank(r.RankScratch),
		rank(r.RankCategory),
		rank(r.RankSex),
		averageSpeed(r, course),
	)
}

func rank(n int) string {
	if n == 0 {
		return "-"
	}
	return strconv.Itoa(n)
}

// averageSpeed is display-only, derived from the raw elapsed time (the
// penalty does not slow the runner down).
func averageSpeed(r *race.Result, course *race.Course) string {
	kmh := timeutil.AverageKmh(r.Elapsed, course.DistanceMeters)
	if kmh == 0 {
		return na
	}
	return strconv.FormatFloat(kmh, 'f', -1, 64) + " Km/H"
}

// ParticipantIndex renders the registered runners alphabetically by last
// then first name under French collation, so accented names land where a
// French reader expects them.
func ParticipantIndex(participants []*race.Participant) string {
	sorted := make([]*race.Participant, len(participants))
	copy(sorted, participants)

	c := collate.New(language.French)
	sort.SliceStable(sorted, func(i, j int) bool {
		if cmp := c.CompareString(sorted[i].LastName, sorted[j].LastName); cmp != 0 {
			return cmp < 0
		}
		return c.CompareString(sorted[i].FirstName, sorted[j].FirstName) < 0
	})

	var b strings.Builder
	b.WriteString("participant | club | category | license\n")
	for _, p := range sorted {
		fmt.Fprintf(&b, "%s %s | %s | %s | %s\n",
			p.LastName, p.FirstName, p.Club, p.Category, p.License)
	}
	return b.String()
}
