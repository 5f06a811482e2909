// Package catalogtest provides schema fixtures shared by tests.
package catalogtest

import "gsr-report/internal/catalog"

// GSR returns a fresh copy of a typical membership schema: lodges holding
// dated workings, candidates, and the candidate/working join carrying the
// ceremony and its outcome.
func GSR() *catalog.Catalog {
	return &catalog.Catalog{
		Models: []catalog.Model{
			{
				Name: "Lodge",
				Fields: []catalog.Field{
					{Name: "id", Kind: catalog.KindScalar, Type: catalog.TypeInt, IsID: true, IsRequired: true},
					{Name: "name", Kind: catalog.KindScalar, Type: catalog.TypeString, IsRequired: true},
					{Name: "number", Kind: catalog.KindScalar, Type: catalog.TypeInt},
					{Name: "wmName", Kind: catalog.KindScalar, Type: catalog.TypeString},
					{Name: "wmPostNominals", Kind: catalog.KindScalar, Type: catalog.TypeString},
					{Name: "workings", Kind: catalog.KindObject, Type: "Working", IsList: true},
				},
			},
			{
				Name: "Candidate",
				Fields: []catalog.Field{
					{Name: "id", Kind: catalog.KindScalar, Type: catalog.TypeInt, IsID: true, IsRequired: true},
					{Name: "firstName", Kind: catalog.KindScalar, Type: catalog.TypeString, IsRequired: true},
					{Name: "lastName", Kind: catalog.KindScalar, Type: catalog.TypeString, IsRequired: true},
					{Name: "membershipNumber", Kind: catalog.KindScalar, Type: catalog.TypeString, IsUnique: true},
					{Name: "workings", Kind: catalog.KindObject, Type: "CandidateWorking", IsList: true},
				},
			},
			{
				Name: "Working",
				Fields: []catalog.Field{
					{Name: "id", Kind: catalog.KindScalar, Type: catalog.TypeInt, IsID: true, IsRequired: true},
					{Name: "date", Kind: catalog.KindScalar, Type: catalog.TypeDateTime, IsRequired: true},
					{Name: "type", Kind: catalog.KindEnum, Type: "WorkingType"},
					{Name: "notes", Kind: catalog.KindScalar, Type: catalog.TypeString},
					{Name: "lodgeId", Kind: catalog.KindScalar, Type: catalog.TypeInt, IsRequired: true},
					{
						Name: "lodge", Kind: catalog.KindObject, Type: "Lodge", IsRequired: true,
						RelationFromFields: []string{"lodgeId"}, RelationToFields: []string{"id"},
					},
					{Name: "candidates", Kind: catalog.KindObject, Type: "CandidateWorking", IsList: true},
				},
			},
			{
				Name: "CandidateWorking",
				Fields: []catalog.Field{
					{Name: "id", Kind: catalog.KindScalar, Type: catalog.TypeInt, IsID: true, IsRequired: true},
					{Name: "candidateId", Kind: catalog.KindScalar, Type: catalog.TypeInt, IsRequired: true},
					{
						Name: "candidate", Kind: catalog.KindObject, Type: "Candidate", IsRequired: true,
						RelationFromFields: []string{"candidateId"}, RelationToFields: []string{"id"},
					},
					{Name: "workingId", Kind: catalog.KindScalar, Type: catalog.TypeInt, IsRequired: true},
					{
						Name: "working", Kind: catalog.KindObject, Type: "Working", IsRequired: true,
						RelationFromFields: []string{"workingId"}, RelationToFields: []string{"id"},
					},
					{Name: "ceremony", Kind: catalog.KindEnum, Type: "Ceremony", IsRequired: true},
					{Name: "result", Kind: catalog.KindEnum, Type: "CeremonyResult"},
					{Name: "remarks", Kind: catalog.KindScalar, Type: catalog.TypeString},
				},
			},
		},
		Enums: []catalog.Enum{
			{Name: "WorkingType", Values: catalog.EnumValues{"REGULAR", "EMERGENCY", "INSTALLATION"}},
			{Name: "Ceremony", Values: catalog.EnumValues{"INITIATION", "PASSING", "RAISING", "AFFILIATION", "RE_OBLIGATION"}},
			{Name: "CeremonyResult", Values: catalog.EnumValues{"COMPLETED", "POSTPONED", "CANCELLED"}},
		},
	}
}

// WithoutField returns c with the named field removed from the named model.
func WithoutField(c *catalog.Catalog, model, field string) *catalog.Catalog {
	m := c.Model(model)
	if m == nil {
		return c
	}

	kept := m.Fields[:0]
	for _, f := range m.Fields {
		if f.Name != field {
			kept = append(kept, f)
		}
	}

	m.Fields = kept

	return c
}
