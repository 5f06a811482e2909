package report

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"gsr-report/internal/catalog"
	"gsr-report/internal/ceremony"
	"gsr-report/internal/common"
	"gsr-report/internal/mapping"
	"gsr-report/internal/match"
)

// Result is the output of Build: the report and the mapping it was built with.
type Result struct {
	Report  *ReportModel
	Mapping *mapping.Mapping
}

// Aggregator builds reports from a repository. It holds no state between
// calls; Build may be called concurrently.
type Aggregator struct {
	repo    Repository
	catalog *catalog.Catalog
	logger  *zap.Logger
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(a *Aggregator) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithCatalog lets the aggregator scan lodge fields in declaration order and
// by declared type when resolving the Worshipful Master.
func WithCatalog(c *catalog.Catalog) Option {
	return func(a *Aggregator) {
		a.catalog = c
	}
}

// NewAggregator returns an aggregator reading from repo.
func NewAggregator(repo Repository, opts ...Option) *Aggregator {
	a := &Aggregator{repo: repo, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Build aggregates the associations selected by q into a ReportModel.
// Repository errors are returned as-is; no partial report is produced.
func (a *Aggregator) Build(ctx context.Context, m *mapping.Mapping, q Query) (*Result, error) {
	if a == nil || a.repo == nil {
		return nil, ErrNoRepository
	}

	if m == nil {
		return nil, errors.New("report: mapping is nil")
	}

	records, err := a.repo.FindAssociations(ctx, m, q)
	if err != nil {
		return nil, fmt.Errorf("find associations: %w", err)
	}

	blocks, rows := group(m, records)

	for i := range blocks {
		timeline := blocks[i].Timeline
		sort.SliceStable(timeline, func(x, y int) bool { return timeline[x].Date.Before(timeline[y].Date) })
	}

	sort.SliceStable(rows, func(x, y int) bool { return rows[x].Date.Before(rows[y].Date) })

	out := &ReportModel{
		From:       q.From,
		To:         q.To,
		Summary:    Summarize(blocks),
		Candidates: blocks,
		Appendix:   Appendix{Rows: rows},
	}

	lodge, err := a.resolveLodge(ctx, m, q, records, out)
	if err != nil {
		return nil, err
	}

	out.WMName, out.WMPostNominals = a.preparedBy(m, lodge)

	a.logger.Debug("report built",
		zap.Time("from", q.From),
		zap.Time("to", q.To),
		zap.String("lodge_filter", q.LodgeID),
		zap.Int("associations", len(records)),
		zap.Int("candidates", len(blocks)),
	)

	return &Result{Report: out, Mapping: m}, nil
}

// group folds records into candidate blocks, in order of first appearance,
// and produces one appendix row per record.
func group(m *mapping.Mapping, records []AssociationRecord) ([]CandidateBlock, []AppendixRow) {
	var (
		blocks []CandidateBlock
		index  = map[string]int{}
		rows   = make([]AppendixRow, 0, len(records))
	)

	for _, rec := range records {
		name := CandidateName(m, rec.Candidate)
		id := rec.Candidate.ID(m.Candidate.ID)
		date, _ := rec.Working.Time(m.Working.Date)
		raw := rec.Association.String(m.CandidateWorking.Ceremony)
		result := strings.TrimSpace(rec.Association.String(m.CandidateWorking.Result))
		notes := common.JoinNonBlank(" | ",
			rec.Association.String(m.CandidateWorking.Remarks),
			rec.Working.String(m.Working.Notes),
		)
		lodgeName := rec.Lodge.String(m.Lodge.Name)

		i, ok := index[id]
		if !ok {
			i = len(blocks)
			index[id] = i
			blocks = append(blocks, CandidateBlock{
				ID:               id,
				Name:             name,
				MembershipNumber: strings.TrimSpace(rec.Candidate.String(m.Candidate.MembershipNumber)),
			})
		}

		blocks[i].Timeline = append(blocks[i].Timeline, ProgressEvent{
			Date:      date,
			Ceremony:  ceremony.Normalize(raw),
			LodgeName: lodgeName,
			Result:    result,
			Notes:     notes,
		})

		rows = append(rows, AppendixRow{
			Date:          date,
			LodgeName:     lodgeName,
			Ceremony:      raw,
			CandidateName: name,
			Result:        result,
			Notes:         notes,
		})
	}

	return blocks, rows
}

// CandidateName joins the candidate's non-blank name fields with spaces.
func CandidateName(m *mapping.Mapping, candidate Record) string {
	parts := make([]string, 0, len(m.Candidate.NameFields))
	for _, f := range m.Candidate.NameFields {
		parts = append(parts, candidate.String(f))
	}

	if name := common.JoinNonBlank(" ", parts...); name != "" {
		return name
	}

	return UnnamedCandidate
}

// resolveLodge fills the report's lodge identity and returns the lodge record
// it was taken from, if any.
func (a *Aggregator) resolveLodge(
	ctx context.Context, m *mapping.Mapping, q Query, records []AssociationRecord, out *ReportModel,
) (Record, error) {
	var lodge Record

	if q.LodgeID != "" {
		for _, rec := range records {
			if rec.Lodge != nil && rec.Lodge.ID(m.Lodge.ID) == q.LodgeID {
				lodge = rec.Lodge
				break
			}
		}

		if lodge == nil {
			found, err := a.repo.FindLodge(ctx, m, q.LodgeID)
			if err != nil {
				return nil, fmt.Errorf("find lodge %s: %w", q.LodgeID, err)
			}

			lodge = found
		}

		if lodge == nil {
			out.LodgeName = SelectedLodge
			return nil, nil
		}
	} else {
		distinct := map[string]Record{}
		for _, rec := range records {
			if rec.Lodge != nil {
				distinct[rec.Lodge.ID(m.Lodge.ID)] = rec.Lodge
			}
		}

		if len(distinct) != 1 {
			out.LodgeName = AllLodges
			return nil, nil
		}

		for _, l := range distinct {
			lodge = l
		}
	}

	out.LodgeName = strings.TrimSpace(lodge.String(m.Lodge.Name))
	out.LodgeNumber = strings.TrimSpace(lodge.String(m.Lodge.Number))

	return lodge, nil
}

// preparedBy finds the Worshipful Master's name and post-nominals among the
// lodge record's String fields.
func (a *Aggregator) preparedBy(m *mapping.Mapping, lodge Record) (string, *string) {
	if lodge == nil {
		return NotProvided, nil
	}

	fields := a.lodgeStringFields(m, lodge)

	name := firstMatching(fields, lodge, match.MasterNameField.MatchString)
	if name == "" {
		name = firstMatching(fields, lodge, func(n string) bool {
			return match.MasterField.MatchString(n) && !match.PostNominalField.MatchString(match.NormalizeIdent(n))
		})
	}

	if name == "" {
		name = NotProvided
	}

	var post *string
	if v := firstMatching(fields, lodge, match.PostNominalField.MatchString); v != "" {
		post = &v
	}

	return name, post
}

// lodgeStringFields lists the lodge's String field names: from the catalog in
// declaration order when available, otherwise the record's string-valued keys
// sorted by name.
func (a *Aggregator) lodgeStringFields(m *mapping.Mapping, lodge Record) []string {
	if model := a.catalog.Model(m.Lodge.Model); model != nil {
		var out []string

		for i := range model.Fields {
			if model.Fields[i].IsString() {
				out = append(out, model.Fields[i].Name)
			}
		}

		return out
	}

	var out []string

	for k, v := range lodge {
		switch v.(type) {
		case string, []byte, *string:
			out = append(out, k)
		}
	}

	sort.Strings(out)

	return out
}

// firstMatching returns the trimmed value of the first field whose name, as
// written or normalized (wm_post_nominals -> wmpostnominals), satisfies pred
// and whose value is not blank.
func firstMatching(fields []string, r Record, pred func(string) bool) string {
	for _, f := range fields {
		if !pred(f) && !pred(match.NormalizeIdent(f)) {
			continue
		}

		if v := strings.TrimSpace(r.String(f)); v != "" {
			return v
		}
	}

	return ""
}
