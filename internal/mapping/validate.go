package mapping

import (
	"errors"
	"fmt"
	"slices"

	"gsr-report/internal/catalog"
	"gsr-report/internal/diagnostic"
)

// ErrInvalidShape is wrapped by ValidateShape failures.
var ErrInvalidShape = errors.New("invalid mapping shape")

// Validate checks a mapping against the given catalog. Errors mean the
// mapping is stale: a referenced model, field or enum no longer exists.
// Loose relation choices are reported as warnings and enum member drift as
// infos; neither invalidates the mapping.
func Validate(m *Mapping, cat *catalog.Catalog) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	if m == nil {
		res.AddError("mapping_is_nil", "mapping is nil", "", "")
		return res
	}

	if cat == nil {
		res.AddError("catalog_is_nil", "catalog is nil", "", "")
		return res
	}

	models := m.modelRefs()
	missing := map[Role]bool{}

	for _, role := range Roles {
		name := models[role]
		if cat.Model(name) == nil {
			res.AddError("model_not_found", fmt.Sprintf("model %q not found", name), string(role), "")
			missing[role] = true
		}
	}

	if len(m.Candidate.NameFields) == 0 {
		res.AddError("no_name_fields", "candidate has no name fields", string(RoleCandidate), "")
	}

	for _, ref := range m.fieldRefs() {
		if missing[ref.role] {
			continue
		}

		if ref.field == "" {
			if !ref.optional {
				res.AddError("field_empty", "required field is not mapped", string(ref.role), "")
			}

			continue
		}

		if !cat.Model(ref.model).HasField(ref.field) {
			res.AddError("field_not_found",
				fmt.Sprintf("field %q not found on %q", ref.field, ref.model), string(ref.role), ref.field)
		}
	}

	if !res.HasErrors() {
		checkRelation(res, cat, RoleWorking, m.Working.Model, m.Working.LodgeRel, m.Lodge.Model)
		checkRelation(res, cat, RoleCandidateWorking, m.CandidateWorking.Model, m.CandidateWorking.CandidateRel, m.Candidate.Model)
		checkRelation(res, cat, RoleCandidateWorking, m.CandidateWorking.Model, m.CandidateWorking.WorkingRel, m.Working.Model)
	}

	checkEnum(res, cat, m.CeremonyEnum, "ceremonyEnum")
	checkEnum(res, cat, m.ResultEnum, "resultEnum")

	return res
}

// IsValid reports whether the mapping is usable against the catalog.
func IsValid(m *Mapping, cat *catalog.Catalog) bool {
	return Validate(m, cat).IsValid()
}

func checkRelation(res *diagnostic.Diagnostics, cat *catalog.Catalog, role Role, model, field, target string) {
	f := cat.Model(model).Field(field)
	if f == nil {
		return
	}

	if !f.IsObject() {
		res.AddWarning("relation_not_object",
			fmt.Sprintf("field %q is a %s field, not a relation", field, f.Kind), string(role), field)

		return
	}

	if f.Type != target {
		res.AddWarning("relation_type_mismatch",
			fmt.Sprintf("relation %q points at %q, expected %q", field, f.Type, target), string(role), field)
	}
}

func checkEnum(res *diagnostic.Diagnostics, cat *catalog.Catalog, ref *EnumRef, key string) {
	if ref == nil {
		return
	}

	e := cat.Enum(ref.Name)
	if e == nil {
		res.AddError("enum_not_found", fmt.Sprintf("enum %q not found", ref.Name), "", key)
		return
	}

	if !slices.Equal([]string(e.Values), ref.Values) {
		res.AddInfo("enum_values_changed",
			fmt.Sprintf("enum %q members changed since the mapping was saved", ref.Name), "", key)
	}
}

// ValidateShape performs the structural check applied before saving an
// operator-supplied mapping: every required slot must be filled. It does not
// consult a catalog.
func ValidateShape(m *Mapping) error {
	if m == nil {
		return fmt.Errorf("%w: mapping is nil", ErrInvalidShape)
	}

	required := []struct {
		slot  string
		value string
	}{
		{"candidate.model", m.Candidate.Model},
		{"candidate.id", m.Candidate.ID},
		{"lodge.model", m.Lodge.Model},
		{"lodge.id", m.Lodge.ID},
		{"lodge.name", m.Lodge.Name},
		{"working.model", m.Working.Model},
		{"working.id", m.Working.ID},
		{"working.date", m.Working.Date},
		{"working.lodgeRel", m.Working.LodgeRel},
		{"candidateWorking.model", m.CandidateWorking.Model},
		{"candidateWorking.id", m.CandidateWorking.ID},
		{"candidateWorking.candidateRel", m.CandidateWorking.CandidateRel},
		{"candidateWorking.workingRel", m.CandidateWorking.WorkingRel},
		{"candidateWorking.ceremony", m.CandidateWorking.Ceremony},
	}

	var errs []error

	for _, r := range required {
		if r.value == "" {
			errs = append(errs, fmt.Errorf("%w: %s is required", ErrInvalidShape, r.slot))
		}
	}

	if len(m.Candidate.NameFields) == 0 {
		errs = append(errs, fmt.Errorf("%w: candidate.nameFields needs at least one field", ErrInvalidShape))
	}

	for i, n := range m.Candidate.NameFields {
		if n == "" {
			errs = append(errs, fmt.Errorf("%w: candidate.nameFields[%d] is empty", ErrInvalidShape, i))
		}
	}

	for _, e := range []struct {
		key string
		ref *EnumRef
	}{{"ceremonyEnum", m.CeremonyEnum}, {"resultEnum", m.ResultEnum}} {
		if e.ref != nil && e.ref.Name == "" {
			errs = append(errs, fmt.Errorf("%w: %s.name is required", ErrInvalidShape, e.key))
		}
	}

	return errors.Join(errs...)
}
