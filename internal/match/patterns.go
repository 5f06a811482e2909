package match

import "regexp"

// Patterns recognizing the role a field or model plays. They are matched
// against raw identifiers, case-insensitively.
var (
	NameField       = regexp.MustCompile(`(?i)name|first|last|preferred|given|family|full`)
	MembershipField = regexp.MustCompile(`(?i)membership|member|number`)
	LodgeRelation   = regexp.MustCompile(`(?i)lodge|chapter|craft`)
	CeremonyField   = regexp.MustCompile(`(?i)ceremony|degree|initiat|pass|rais|affil|re.?oblig`)

	CandidateModel = regexp.MustCompile(`(?i)candidate|member|person|brother`)
	WorkingModel   = regexp.MustCompile(`(?i)working|work|meeting|ceremony|event`)
	JoinModel      = regexp.MustCompile(`(?i)(candidate|member).*(working|meeting)|(working|meeting).*(candidate|member)|progress|attendance`)

	MasterNameField  = regexp.MustCompile(`(?i)(wm|master|superintendent).*name`)
	MasterField      = regexp.MustCompile(`(?i)(wm|master|superintendent)`)
	PostNominalField = regexp.MustCompile(`(?i)(postnom|letters|suffix)`)
)
