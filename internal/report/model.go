package report

import (
	"time"

	"gsr-report/internal/ceremony"
)

// Placeholders used when the data does not provide a value.
const (
	UnnamedCandidate = "Unnamed Candidate"
	SelectedLodge    = "Selected Lodge"
	AllLodges        = "All Lodges"
	NotProvided      = "Not provided"
)

// ProgressEvent is one ceremony in a candidate's timeline.
type ProgressEvent struct {
	Date time.Time `json:"date"`
	// Ceremony is the canonical token, or the raw label when unrecognized.
	Ceremony  ceremony.Token `json:"ceremony"`
	LodgeName string         `json:"lodgeName"`
	Result    string         `json:"result,omitempty"`
	Notes     string         `json:"notes,omitempty"`
}

// CandidateBlock is the timeline of one candidate, sorted by date.
type CandidateBlock struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	MembershipNumber string          `json:"membershipNumber,omitempty"`
	Timeline         []ProgressEvent `json:"timeline"`
	Narrative        string          `json:"narrative,omitempty"`
}

// Tokens returns the set of ceremonies in the timeline.
func (b *CandidateBlock) Tokens() ceremony.Set {
	s := make(ceremony.Set, len(b.Timeline))
	for _, ev := range b.Timeline {
		s[ev.Ceremony] = struct{}{}
	}

	return s
}

// Summary holds the counters derived from all candidate blocks.
type Summary struct {
	TotalCandidates int `json:"totalCandidates"`
	Initiations     int `json:"initiations"`
	Passings        int `json:"passings"`
	Raisings        int `json:"raisings"`
	Affiliations    int `json:"affiliations"`
	AwaitingPassing int `json:"awaitingPassing"`
	AwaitingRaising int `json:"awaitingRaising"`
}

// AppendixRow is one association in the flat appendix.
type AppendixRow struct {
	Date          time.Time `json:"date"`
	LodgeName     string    `json:"lodgeName"`
	Ceremony      string    `json:"ceremony"`
	CandidateName string    `json:"candidateName"`
	Result        string    `json:"result,omitempty"`
	Notes         string    `json:"notes,omitempty"`
}

// Appendix lists every association, sorted by date.
type Appendix struct {
	Rows []AppendixRow `json:"rows"`
}

// ReportModel is the aggregated report handed to renderers.
type ReportModel struct {
	LodgeName      string           `json:"lodgeName"`
	LodgeNumber    string           `json:"lodgeNumber,omitempty"`
	From           time.Time        `json:"from"`
	To             time.Time        `json:"to"`
	WMName         string           `json:"wmName"`
	WMPostNominals *string          `json:"wmPostNominals"`
	Summary        Summary          `json:"summary"`
	Candidates     []CandidateBlock `json:"candidates"`
	Appendix       Appendix         `json:"appendix"`
}

// Summarize computes the counters for the given blocks.
func Summarize(blocks []CandidateBlock) Summary {
	s := Summary{TotalCandidates: len(blocks)}

	for i := range blocks {
		for _, ev := range blocks[i].Timeline {
			switch ev.Ceremony {
			case ceremony.Initiation:
				s.Initiations++
			case ceremony.Passing:
				s.Passings++
			case ceremony.Raising:
				s.Raisings++
			case ceremony.Affiliation:
				s.Affiliations++
			}
		}

		switch blocks[i].Tokens().Awaiting() {
		case ceremony.Passing:
			s.AwaitingPassing++
		case ceremony.Raising:
			s.AwaitingRaising++
		}
	}

	return s
}
