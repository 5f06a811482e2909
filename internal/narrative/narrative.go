// Package narrative turns a candidate's timeline into one English sentence.
package narrative

import (
	"regexp"
	"strings"
	"time"

	"gsr-report/internal/ceremony"
	"gsr-report/internal/report"
)

// DateLayout renders event dates in long form, e.g. "5 March 2024".
const DateLayout = "2 January 2006"

// postponement matches results or notes explaining why a ceremony did not go
// ahead as planned.
var postponement = regexp.MustCompile(`(?i)postponed|deferred|abandoned|cancelled|canceled`)

var verbs = map[ceremony.Token]string{
	ceremony.Initiation:   "was initiated",
	ceremony.Passing:      "passed",
	ceremony.Raising:      "was raised",
	ceremony.Affiliation:  "affiliated",
	ceremony.ReObligation: "underwent re-obligation",
}

// Narrate describes the block's timeline, in timeline order. It never fails:
// unrecognized ceremonies are phrased as attendance.
func Narrate(block report.CandidateBlock) string {
	name := strings.TrimSpace(block.Name)
	if name == "" {
		name = report.UnnamedCandidate
	}

	if len(block.Timeline) == 0 {
		return name + " has no recorded ceremonies in this period."
	}

	clauses := make([]string, len(block.Timeline))
	for i, ev := range block.Timeline {
		clauses[i] = clause(ev)
	}

	var b strings.Builder

	b.WriteString(name)
	b.WriteByte(' ')
	b.WriteString(joinList(clauses))

	if next := block.Tokens().Awaiting(); next != "" {
		tail := "awaits " + strings.ToLower(string(next))
		if len(clauses) == 1 {
			b.WriteString(" and " + tail)
		} else {
			b.WriteString(", and " + tail)
		}
	}

	b.WriteByte('.')

	return b.String()
}

// Fill sets the narrative of every candidate block in the report.
func Fill(r *report.ReportModel) {
	if r == nil {
		return
	}

	for i := range r.Candidates {
		r.Candidates[i].Narrative = Narrate(r.Candidates[i])
	}
}

// FormatDate renders t in long form in its own location.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

func clause(ev report.ProgressEvent) string {
	s := verb(ev.Ceremony) + " on " + FormatDate(ev.Date)

	if reason := annotation(ev); reason != "" {
		s += " (" + reason + ")"
	}

	return s
}

func verb(t ceremony.Token) string {
	if v, ok := verbs[t]; ok {
		return v
	}

	raw := strings.ToLower(strings.TrimSpace(string(t)))
	if raw == "" {
		return "attended a ceremony"
	}

	return "attended " + raw
}

// annotation returns the parenthetical for an event: a postponement reason
// from the result or else the notes, or any result other than COMPLETED.
func annotation(ev report.ProgressEvent) string {
	result := strings.TrimSpace(ev.Result)
	notes := strings.TrimSpace(ev.Notes)

	switch {
	case postponement.MatchString(result):
		return result
	case postponement.MatchString(notes):
		return notes
	case result != "" && !strings.EqualFold(result, "COMPLETED"):
		return result
	default:
		return ""
	}
}

// joinList joins clauses as an English list with a serial comma.
func joinList(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " and " + items[1]
	default:
		return strings.Join(items[:len(items)-1], ", ") + ", and " + items[len(items)-1]
	}
}
