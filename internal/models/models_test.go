package models

import "testing"

func TestFormFieldsOrderAndOmission(t *testing.T) {
	answers := CandidateAnswers{
		Name:         "Alice",
		Email:        "alice@example.com",
		PositionType: PositionDesign,
		Song1:        "One by Band",
	}
	fields := answers.FormFields()

	want := []FormField{
		{"name", "Alice"},
		{"email", "alice@example.com"},
		{"positionType", "design"},
		{"song1", "One by Band"},
	}
	if len(fields) != len(want) {
		t.Fatalf("expected %d fields, got %d: %+v", len(want), len(fields), fields)
	}
	for i, f := range fields {
		if f != want[i] {
			t.Errorf("field %d: expected %+v, got %+v", i, want[i], f)
		}
	}
}

func TestSongChoiceString(t *testing.T) {
	structured := SongChoice{Candidate: &SongCandidate{Title: "Yesterday", Artist: "The Beatles"}}
	if got := structured.String(); got != "Yesterday by The Beatles" {
		t.Errorf("unexpected structured rendering: %q", got)
	}
	free := SongChoice{FreeText: "some obscure b-side"}
	if got := free.String(); got != "some obscure b-side" {
		t.Errorf("unexpected free-text rendering: %q", got)
	}
}

func TestSongChoiceEqual(t *testing.T) {
	a := SongChoice{Candidate: &SongCandidate{Title: "Yesterday", Artist: "The Beatles", Genre: "Rock"}}
	b := SongChoice{Candidate: &SongCandidate{Title: "Yesterday", Artist: "The Beatles", Genre: "Pop"}}
	if !a.Equal(b) {
		t.Error("expected candidates matching on title and artist to be equal")
	}
	c := SongChoice{Candidate: &SongCandidate{Title: "Imagine", Artist: "John Lennon"}}
	if a.Equal(c) {
		t.Error("different candidates compared equal")
	}
	if a.Equal(SongChoice{FreeText: "Yesterday by The Beatles"}) {
		t.Error("structured and free-text choices must not compare equal")
	}
	if !(SongChoice{FreeText: "x"}).Equal(SongChoice{FreeText: "x"}) {
		t.Error("identical free-text choices compared unequal")
	}
}

func TestIsValidPositionType(t *testing.T) {
	for _, p := range []PositionType{PositionTech, PositionDesign, PositionCommunication, PositionBusiness, PositionOther} {
		if !IsValidPositionType(p) {
			t.Errorf("expected %s to be valid", p)
		}
	}
	if IsValidPositionType(PositionType("pilot")) {
		t.Error("expected unknown position type to be invalid")
	}
}
