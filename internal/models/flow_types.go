// Package models defines flow type definitions to avoid circular imports.
package models

// FlowStep represents one position in the fixed linear conversation sequence.
type FlowStep string

// Flow step constants, in conversation order. LanguageSelect is an
// un-skippable pseudo-step gating all subsequent prompts.
const (
	StepLanguageSelect     FlowStep = "language_selector"
	StepWelcome            FlowStep = "welcome"
	StepVideoShown         FlowStep = "video_shown"
	StepPositionType       FlowStep = "step_a_position_type"
	StepName               FlowStep = "step_a_name"
	StepEmail              FlowStep = "step_a_email"
	StepAge                FlowStep = "step_a_age"
	StepSchool             FlowStep = "step_a_school"
	StepStudyYear          FlowStep = "step_a_study_year"
	StepInternshipDuration FlowStep = "step_a_internship_duration"
	StepMotivation         FlowStep = "step_a_motivation"
	StepMusic              FlowStep = "step_b_music"
	StepFiles              FlowStep = "step_c_files"
	StepCompleted          FlowStep = "completed"
)

// Language identifies the session language chosen at the language selector.
type Language string

const (
	// LanguageFR is French, the default before explicit selection.
	LanguageFR Language = "fr"
	// LanguageEN is English.
	LanguageEN Language = "en"
)

// IsValidLanguage checks if the given language is supported.
func IsValidLanguage(l Language) bool {
	return l == LanguageFR || l == LanguageEN
}

// PositionType enumerates the internship tracks offered on the position
// button set.
type PositionType string

const (
	PositionTech          PositionType = "tech"
	PositionDesign        PositionType = "design"
	PositionCommunication PositionType = "communication"
	PositionBusiness      PositionType = "business"
	PositionOther         PositionType = "other"
)

// IsValidPositionType checks if the given position type is one of the fixed
// five options.
func IsValidPositionType(p PositionType) bool {
	switch p {
	case PositionTech, PositionDesign, PositionCommunication, PositionBusiness, PositionOther:
		return true
	default:
		return false
	}
}
