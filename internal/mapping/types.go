package mapping

// Role names the four semantic roles of a mapping.
type Role string

const (
	RoleCandidate        Role = "candidate"
	RoleLodge            Role = "lodge"
	RoleWorking          Role = "working"
	RoleCandidateWorking Role = "candidateWorking"
)

// Roles lists the roles in the order they are resolved.
var Roles = []Role{RoleCandidate, RoleWorking, RoleLodge, RoleCandidateWorking}

// Mapping is the inferred or operator-edited role mapping.
type Mapping struct {
	Candidate        CandidateMapping        `json:"candidate"`
	Lodge            LodgeMapping            `json:"lodge"`
	Working          WorkingMapping          `json:"working"`
	CandidateWorking CandidateWorkingMapping `json:"candidateWorking"`
	CeremonyEnum     *EnumRef                `json:"ceremonyEnum,omitempty"`
	ResultEnum       *EnumRef                `json:"resultEnum,omitempty"`
}

// CandidateMapping maps the person progressing through ceremonies.
type CandidateMapping struct {
	Model            string   `json:"model"`
	ID               string   `json:"id"`
	NameFields       []string `json:"nameFields"`
	MembershipNumber string   `json:"membershipNumber,omitempty"`
}

// LodgeMapping maps the lodge holding workings.
type LodgeMapping struct {
	Model  string `json:"model"`
	ID     string `json:"id"`
	Name   string `json:"name"`
	Number string `json:"number,omitempty"`
}

// WorkingMapping maps a dated lodge meeting.
type WorkingMapping struct {
	Model    string `json:"model"`
	ID       string `json:"id"`
	Date     string `json:"date"`
	Type     string `json:"type,omitempty"`
	LodgeRel string `json:"lodgeRel"`
	Notes    string `json:"notes,omitempty"`
}

// CandidateWorkingMapping maps the association of one candidate with one
// working.
type CandidateWorkingMapping struct {
	Model        string `json:"model"`
	ID           string `json:"id"`
	CandidateRel string `json:"candidateRel"`
	WorkingRel   string `json:"workingRel"`
	Ceremony     string `json:"ceremony"`
	Result       string `json:"result,omitempty"`
	Remarks      string `json:"remarks,omitempty"`
}

// EnumRef records the enum backing the ceremony or result field.
type EnumRef struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// Clone returns a deep copy of the mapping.
func (m *Mapping) Clone() *Mapping {
	if m == nil {
		return nil
	}

	out := *m
	out.Candidate.NameFields = append([]string(nil), m.Candidate.NameFields...)
	out.CeremonyEnum = m.CeremonyEnum.clone()
	out.ResultEnum = m.ResultEnum.clone()

	return &out
}

func (e *EnumRef) clone() *EnumRef {
	if e == nil {
		return nil
	}

	return &EnumRef{Name: e.Name, Values: append([]string(nil), e.Values...)}
}

// fieldRef is a (role, model, field) reference used by validation.
type fieldRef struct {
	role     Role
	model    string
	field    string
	optional bool
}

// fieldRefs lists every field the mapping references.
func (m *Mapping) fieldRefs() []fieldRef {
	c, l, w, j := m.Candidate, m.Lodge, m.Working, m.CandidateWorking

	refs := []fieldRef{
		{RoleCandidate, c.Model, c.ID, false},
	}

	for _, n := range c.NameFields {
		refs = append(refs, fieldRef{RoleCandidate, c.Model, n, false})
	}

	return append(refs,
		fieldRef{RoleCandidate, c.Model, c.MembershipNumber, true},
		fieldRef{RoleLodge, l.Model, l.ID, false},
		fieldRef{RoleLodge, l.Model, l.Name, false},
		fieldRef{RoleLodge, l.Model, l.Number, true},
		fieldRef{RoleWorking, w.Model, w.ID, false},
		fieldRef{RoleWorking, w.Model, w.Date, false},
		fieldRef{RoleWorking, w.Model, w.Type, true},
		fieldRef{RoleWorking, w.Model, w.LodgeRel, false},
		fieldRef{RoleWorking, w.Model, w.Notes, true},
		fieldRef{RoleCandidateWorking, j.Model, j.ID, false},
		fieldRef{RoleCandidateWorking, j.Model, j.CandidateRel, false},
		fieldRef{RoleCandidateWorking, j.Model, j.WorkingRel, false},
		fieldRef{RoleCandidateWorking, j.Model, j.Ceremony, false},
		fieldRef{RoleCandidateWorking, j.Model, j.Result, true},
		fieldRef{RoleCandidateWorking, j.Model, j.Remarks, true},
	)
}

// modelRefs lists the model referenced by each role.
func (m *Mapping) modelRefs() map[Role]string {
	return map[Role]string{
		RoleCandidate:        m.Candidate.Model,
		RoleLodge:            m.Lodge.Model,
		RoleWorking:          m.Working.Model,
		RoleCandidateWorking: m.CandidateWorking.Model,
	}
}
