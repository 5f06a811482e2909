// Package mapping defines the persisted correspondence between the four
// report roles and the models and fields of a concrete schema, together with
// its JSON codec and its validation against a catalog.
//
// # Schema Overview
//
// The mapping file is a single pretty-printed JSON document:
//
//	{
//	  "candidate": {"model": "Candidate", "id": "id", "nameFields": ["firstName", "lastName"], "membershipNumber": "membershipNumber"},
//	  "lodge": {"model": "Lodge", "id": "id", "name": "name", "number": "number"},
//	  "working": {"model": "Working", "id": "id", "date": "date", "type": "type", "lodgeRel": "lodge", "notes": "notes"},
//	  "candidateWorking": {"model": "CandidateWorking", "id": "id", "candidateRel": "candidate",
//	                       "workingRel": "working", "ceremony": "ceremony", "result": "result", "remarks": "remarks"},
//	  "ceremonyEnum": {"name": "Ceremony", "values": ["INITIATION", "PASSING", "RAISING"]},
//	  "resultEnum": {"name": "CeremonyResult", "values": ["COMPLETED", "POSTPONED"]}
//	}
//
// Optional fields are omitted (or empty) when the schema has no counterpart.
//
// # Validation
//
// Validate checks a mapping against the current catalog: every referenced
// model, field and enum must exist. A mapping with errors is stale and is
// replaced by a freshly inferred one. ValidateShape is the weaker structural
// check applied to operator-supplied mappings.
package mapping
