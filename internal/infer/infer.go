package infer

import (
	"slices"

	"gsr-report/internal/catalog"
	"gsr-report/internal/mapping"
	"gsr-report/internal/match"
)

// Preferred names per slot, most specific first.
var (
	preferredDate       = []string{"date", "meetingDate", "workingDate", "heldOn"}
	preferredLodgeName  = []string{"name", "lodgeName", "title"}
	preferredLodgeNo    = []string{"number", "lodgeNumber", "lodgeNo"}
	preferredMembership = []string{"membershipNumber", "memberNumber", "membershipNo", "number"}
	preferredType       = []string{"type", "workingType", "kind"}
	preferredNotes      = []string{"notes", "note", "remarks", "comments", "minutes"}
	preferredCandidate  = []string{"candidate", "member", "brother"}
	preferredWorking    = []string{"working", "meeting", "event"}
	preferredCeremony   = []string{"ceremony", "degree", "ceremonyType"}
	preferredResult     = []string{"result", "outcome", "status"}
	preferredRemarks    = []string{"remarks", "notes", "comments"}
)

// Infer derives a mapping from the catalog. It is a pure function: the same
// catalog always produces the same mapping.
func Infer(cat *catalog.Catalog) (*mapping.Mapping, error) {
	if cat == nil || len(cat.Models) == 0 {
		return nil, fail(mapping.RoleCandidate, "catalog has no models")
	}

	out := &mapping.Mapping{}

	candidate, err := inferCandidate(cat, out)
	if err != nil {
		return nil, err
	}

	working, err := inferWorking(cat, candidate, out)
	if err != nil {
		return nil, err
	}

	if err := inferLodge(cat, working, out); err != nil {
		return nil, err
	}

	if err := inferJoin(cat, candidate, working, out); err != nil {
		return nil, err
	}

	return out, nil
}

func inferCandidate(cat *catalog.Catalog, out *mapping.Mapping) (*catalog.Model, error) {
	best := match.RankModels(cat, scoreCandidate).Best()
	if best == nil {
		return nil, fail(mapping.RoleCandidate, "no model looks like a person")
	}

	m := best.Model

	names := nameFields(m)
	if len(names) == 0 {
		return nil, fail(mapping.RoleCandidate, "model %q has no name-like String fields", m.Name)
	}

	membership := match.RankFields(m, func(f *catalog.Field) bool {
		return f.IsString() && match.MembershipField.MatchString(f.Name) && !slices.Contains(names, f.Name)
	}, preferredMembership...).Best()

	out.Candidate = mapping.CandidateMapping{
		Model:            m.Name,
		ID:               match.IdentifierField(m).Name,
		NameFields:       names,
		MembershipNumber: fieldName(membership),
	}

	return m, nil
}

func inferWorking(cat *catalog.Catalog, candidate *catalog.Model, out *mapping.Mapping) (*catalog.Model, error) {
	best := match.RankModels(cat, scoreWorking, candidate.Name).Best()
	if best == nil {
		return nil, fail(mapping.RoleWorking, "no model has a DateTime field or a lodge relation")
	}

	m := best.Model

	date := match.RankFields(m, (*catalog.Field).IsDateTime, preferredDate...).Best()
	if date == nil {
		return nil, fail(mapping.RoleWorking, "model %q has no DateTime field", m.Name)
	}

	kind := match.RankFields(m, isStringOrEnum, preferredType...).Excluding(date.Name).BestNamed()
	notes := match.RankFields(m, (*catalog.Field).IsString, preferredNotes...).BestNamed()

	out.Working = mapping.WorkingMapping{
		Model: m.Name,
		ID:    match.IdentifierField(m).Name,
		Date:  date.Name,
		Type:  fieldName(kind),
		Notes: fieldName(notes),
	}

	return m, nil
}

func inferLodge(cat *catalog.Catalog, working *catalog.Model, out *mapping.Mapping) error {
	rel := lodgeRelation(working)
	if rel == nil {
		return fail(mapping.RoleLodge, "model %q has no relation to a lodge", working.Name)
	}

	m := cat.Model(rel.Type)
	if m == nil {
		return fail(mapping.RoleLodge, "relation %q points at unknown model %q", rel.Name, rel.Type)
	}

	id := match.IdentifierField(m)
	if id == nil {
		return fail(mapping.RoleLodge, "model %q has no fields", m.Name)
	}

	name := match.RankFields(m, (*catalog.Field).IsString, preferredLodgeName...).Best()
	if name == nil {
		return fail(mapping.RoleLodge, "model %q has no String field for its name", m.Name)
	}

	number := match.RankFields(m, func(f *catalog.Field) bool {
		return f.IsString() || f.IsScalarType(catalog.TypeInt)
	}, preferredLodgeNo...).Excluding(name.Name, id.Name).BestNamed()

	out.Working.LodgeRel = rel.Name
	out.Lodge = mapping.LodgeMapping{
		Model:  m.Name,
		ID:     id.Name,
		Name:   name.Name,
		Number: fieldName(number),
	}

	return nil
}

// lodgeRelation picks the Working relation naming a lodge, falling back to
// the first relation. Singular relations are preferred over lists.
func lodgeRelation(working *catalog.Model) *catalog.Field {
	objects := working.ObjectFields()

	var singular []*catalog.Field

	for _, f := range objects {
		if !f.IsList {
			singular = append(singular, f)
		}
	}

	for _, group := range [][]*catalog.Field{singular, objects} {
		for _, f := range group {
			if match.LodgeRelation.MatchString(f.Name) {
				return f
			}
		}
	}

	if len(singular) > 0 {
		return singular[0]
	}

	if len(objects) > 0 {
		return objects[0]
	}

	return nil
}

func inferJoin(cat *catalog.Catalog, candidate, working *catalog.Model, out *mapping.Mapping) error {
	best := match.RankModels(cat, joinScorer(candidate.Name, working.Name), candidate.Name, working.Name).Best()
	if best == nil {
		return fail(mapping.RoleCandidateWorking, "no model relates %q to %q", candidate.Name, working.Name)
	}

	m := best.Model

	candidateRel := relationTo(m, candidate.Name, nil, preferredCandidate...)
	if candidateRel == nil {
		return fail(mapping.RoleCandidateWorking, "model %q has no relation to %q", m.Name, candidate.Name)
	}

	workingRel := relationTo(m, working.Name, []string{candidateRel.Name}, preferredWorking...)
	if workingRel == nil {
		return fail(mapping.RoleCandidateWorking, "model %q has no relation to %q", m.Name, working.Name)
	}

	ceremony := match.RankFields(m, isCeremonyField, preferredCeremony...).Best()
	if ceremony == nil {
		return fail(mapping.RoleCandidateWorking, "model %q has no ceremony field", m.Name)
	}

	result := match.RankFields(m, isStringOrEnum, preferredResult...).Excluding(ceremony.Name).BestNamed()
	remarks := match.RankFields(m, (*catalog.Field).IsString, preferredRemarks...).
		Excluding(ceremony.Name, fieldName(result)).BestNamed()

	out.CandidateWorking = mapping.CandidateWorkingMapping{
		Model:        m.Name,
		ID:           match.IdentifierField(m).Name,
		CandidateRel: candidateRel.Name,
		WorkingRel:   workingRel.Name,
		Ceremony:     ceremony.Name,
		Result:       fieldName(result),
		Remarks:      fieldName(remarks),
	}
	out.CeremonyEnum = enumRef(cat, ceremony)
	out.ResultEnum = enumRef(cat, result)

	return nil
}

// relationTo picks the object field pointing at target. When no field has
// exactly that type, any remaining object field is accepted.
func relationTo(m *catalog.Model, target string, exclude []string, preferred ...string) *catalog.Field {
	exact := match.RankFields(m, func(f *catalog.Field) bool {
		return f.IsObject() && !f.IsList && f.Type == target
	}, preferred...).Excluding(exclude...)

	if f := exact.Best(); f != nil {
		return f
	}

	return match.RankFields(m, (*catalog.Field).IsObject, preferred...).Excluding(exclude...).Best()
}

func enumRef(cat *catalog.Catalog, f *catalog.Field) *mapping.EnumRef {
	if f == nil || !f.IsEnum() {
		return nil
	}

	e := cat.Enum(f.Type)
	if e == nil {
		return nil
	}

	return &mapping.EnumRef{Name: e.Name, Values: append([]string(nil), e.Values...)}
}

func isStringOrEnum(f *catalog.Field) bool {
	return f.IsString() || f.IsEnum()
}

func fieldName(f *catalog.Field) string {
	if f == nil {
		return ""
	}

	return f.Name
}
