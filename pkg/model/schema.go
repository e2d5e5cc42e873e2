// pkg/model/schema.go
package model

// Input column names. The source files use the Swedish attribute names;
// they are carried through unchanged into the store.
const (
	ColMembershipTier = "medlemstyp"
	ColFacility       = "anläggning"
	ColStatus         = "status"
	ColSessionName    = "passnamn"
	ColInstructor     = "instruktör"
	ColMonthlyCost    = "månadskostnad"
	ColBirthYear      = "födelseår"
	ColMemberStart    = "medlem_startdatum"
	ColMemberEnd      = "medlem_slutdatum"
	ColBookingDate    = "bokningsdatum"
	ColSessionDate    = "passdatum"
	ColFeedbackDate   = "feedbackdatum"
	ColSessionTime    = "passtid"
	ColFeedbackText   = "feedback_text"
)

// Columns derived during cleaning
const (
	ColNegativeAmount = "är_negativt_belopp"
	ColMonthlyCostAbs = "månadskostnad_abs"
)

// ColOrigin tags each stored record with the dataset it came from
const ColOrigin = "dataset"

// Origin labels
const (
	OriginMain       = "main"
	OriginValidation = "validation"
)

// RequiredColumns is the fixed input schema. A file missing any of these
// cannot be processed.
var RequiredColumns = []string{
	ColMembershipTier,
	ColFacility,
	ColStatus,
	ColSessionName,
	ColInstructor,
	ColMonthlyCost,
	ColBirthYear,
	ColMemberStart,
	ColMemberEnd,
	ColBookingDate,
	ColSessionDate,
	ColFeedbackDate,
	ColSessionTime,
	ColFeedbackText,
}

// DateColumns are the five date-valued attributes cleaned by the date parser
var DateColumns = []string{
	ColMemberStart,
	ColMemberEnd,
	ColBookingDate,
	ColSessionDate,
	ColFeedbackDate,
}

// CategoricalColumns are dictionary-encoded at the end of the pipeline
var CategoricalColumns = []string{
	ColMembershipTier,
	ColFacility,
	ColStatus,
	ColSessionName,
	ColInstructor,
}
