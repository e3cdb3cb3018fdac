package models

import "github.com/google/uuid"

// VocabularyKind names a value-unique lookup table. Entities of a kind are
// deduplicated by their Value.
type VocabularyKind string

const (
	VocabularyType           VocabularyKind = "type"
	VocabularyImProtocol     VocabularyKind = "im_protocol"
	VocabularyTagValue       VocabularyKind = "tag_value"
	VocabularyKindValue      VocabularyKind = "kind_value"
	VocabularyGenderValue    VocabularyKind = "gender_value"
	VocabularyParamValueType VocabularyKind = "param_value_type"
)

var validVocabularyKinds = map[VocabularyKind]bool{
	VocabularyType:           true,
	VocabularyImProtocol:     true,
	VocabularyTagValue:       true,
	VocabularyKindValue:      true,
	VocabularyGenderValue:    true,
	VocabularyParamValueType: true,
}

// IsValid reports whether k is one of the known vocabulary kinds.
func (k VocabularyKind) IsValid() bool {
	return validVocabularyKinds[k]
}

func (k VocabularyKind) String() string {
	return string(k)
}

// Vocabulary is a shared lookup entity. Within one decode session there is
// exactly one instance per (Kind, Value); entities reference it by pointer.
type Vocabulary struct {
	ID    uuid.UUID      `json:"id"`
	Kind  VocabularyKind `json:"kind"`
	Value string         `json:"value"`
}

// Kind values.
const (
	KindIndividual = "individual"
	KindGroup      = "group"
	KindOrg        = "org"
	KindLocation   = "location"

	// DefaultKind applies when a card has no KIND property.
	DefaultKind = KindIndividual
)

// Gender values. Anything else is discarded during decoding.
const (
	GenderMale    = "M"
	GenderFemale  = "F"
	GenderOther   = "O"
	GenderNone    = "N"
	GenderUnknown = "U"
)

var validGenders = map[string]bool{
	GenderMale:    true,
	GenderFemale:  true,
	GenderOther:   true,
	GenderNone:    true,
	GenderUnknown: true,
}

// IsValidGender reports whether v is a member of the gender vocabulary.
func IsValidGender(v string) bool {
	return validGenders[v]
}

// Instant messaging protocols.
const (
	ImProtocolAIM       = "aim"
	ImProtocolGaduGadu  = "gadugadu"
	ImProtocolGroupWise = "groupwise"
	ImProtocolICQ       = "icq"
	ImProtocolJabber    = "jabber"
	ImProtocolMSN       = "msn"
	ImProtocolSkype     = "skype"
	ImProtocolTwitter   = "twitter"
	ImProtocolYahoo     = "yahoo"
)

// DefaultPhoneType is attached to TEL properties that carry no TYPE.
const DefaultPhoneType = "voice"
