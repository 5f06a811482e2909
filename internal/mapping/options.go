package mapping

import "gsr-report/internal/catalog"

// Options lists what an operator may choose from when editing a mapping by
// hand. Every entry comes from the catalog, so a mapping assembled from
// these options always references existing models and fields.
type Options struct {
	Models []ModelOption `json:"models"`
	Enums  []EnumRef     `json:"enums"`
}

// ModelOption groups one model's fields by the slots they can fill.
type ModelOption struct {
	Name        string           `json:"name"`
	Identifiers []string         `json:"identifiers"` // any field; id/unique first
	Strings     []string         `json:"strings"`     // name fields, notes, remarks, numbers
	DateTimes   []string         `json:"dateTimes"`   // working date
	Enums       []string         `json:"enums"`       // ceremony, result, type
	Relations   []RelationOption `json:"relations"`   // lodgeRel, candidateRel, workingRel
}

// RelationOption is an object field and the model it points at.
type RelationOption struct {
	Field  string `json:"field"`
	Target string `json:"target"`
	IsList bool   `json:"isList,omitempty"`
}

// BuildOptions derives the editor options from a catalog.
func BuildOptions(cat *catalog.Catalog) Options {
	var opts Options

	for i := range cat.Models {
		m := &cat.Models[i]
		opt := ModelOption{Name: m.Name}

		var flagged, rest []string

		for j := range m.Fields {
			f := &m.Fields[j]

			switch {
			case f.IsObject():
				opt.Relations = append(opt.Relations, RelationOption{Field: f.Name, Target: f.Type, IsList: f.IsList})
				continue
			case f.IsEnum():
				opt.Enums = append(opt.Enums, f.Name)
			case f.IsDateTime():
				opt.DateTimes = append(opt.DateTimes, f.Name)
			case f.IsString():
				opt.Strings = append(opt.Strings, f.Name)
			}

			if f.IsID || f.IsUnique {
				flagged = append(flagged, f.Name)
			} else {
				rest = append(rest, f.Name)
			}
		}

		opt.Identifiers = append(flagged, rest...)
		opts.Models = append(opts.Models, opt)
	}

	for i := range cat.Enums {
		e := &cat.Enums[i]
		opts.Enums = append(opts.Enums, EnumRef{Name: e.Name, Values: append([]string(nil), e.Values...)})
	}

	return opts
}
