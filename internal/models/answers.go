// Package models defines the candidate answer accumulator.
package models

// CandidateAnswers accumulates the validated answers of one session.
//
// Each field is written exactly once, by exactly the flow step that owns it;
// later steps never retroactively edit earlier answers. The accumulator is
// read once by the submission pipeline at the terminal step and discarded
// with the session.
type CandidateAnswers struct {
	Name               string       `json:"name,omitempty"`
	Email              string       `json:"email,omitempty"`
	Age                string       `json:"age,omitempty"`
	School             string       `json:"school,omitempty"`
	StudyYear          string       `json:"studyYear,omitempty"`
	InternshipDuration string       `json:"internshipDuration,omitempty"`
	PositionType       PositionType `json:"positionType,omitempty"`
	Motivation         string       `json:"motivation,omitempty"`
	Song1              string       `json:"song1,omitempty"`
	Song2              string       `json:"song2,omitempty"`
	Song3              string       `json:"song3,omitempty"`
	Portfolio          string       `json:"portfolio,omitempty"`
}

// FormField is one scalar answer as it travels in the outbound multipart
// request.
type FormField struct {
	Key   string
	Value string
}

// FormFields returns the defined scalar answers in submission order.
// Undefined (empty) fields are omitted, matching the client-side form
// assembly which only appends populated entries.
func (a CandidateAnswers) FormFields() []FormField {
	ordered := []FormField{
		{"name", a.Name},
		{"email", a.Email},
		{"age", a.Age},
		{"school", a.School},
		{"studyYear", a.StudyYear},
		{"internshipDuration", a.InternshipDuration},
		{"positionType", string(a.PositionType)},
		{"motivation", a.Motivation},
		{"song1", a.Song1},
		{"song2", a.Song2},
		{"song3", a.Song3},
		{"portfolio", a.Portfolio},
	}
	fields := make([]FormField, 0, len(ordered))
	for _, f := range ordered {
		if f.Value != "" {
			fields = append(fields, f)
		}
	}
	return fields
}
