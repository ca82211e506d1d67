package fields

import (
	"reflect"
	"testing"
)

func strPtr(s string) *string { return &s }

func equalPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func TestNameFromFirstLines(t *testing.T) {
	ex := NewExtractor()
	cases := []struct {
		name string
		text string
		want string
	}{
		{name: "plain_first_line", text: "Jane Smith\nSoftware Engineer\njane@example.com", want: "Jane Smith"},
		{name: "skips_blank_lines", text: "\n\n   \nArjun Kumar Rao\nBangalore", want: "Arjun Kumar Rao"},
		{name: "after_heading", text: "RESUME\nCurriculum Vitae\nMaria Lopez", want: "Maria Lopez"},
		{name: "labelled", text: "Name: Priya Sharma | priya@example.com", want: "Priya Sharma"},
		{name: "all_caps", text: "JOHN DOE\nData Scientist", want: "JOHN DOE"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ex.Name(tc.text, ""); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestNameFallsBackPastHeaders(t *testing.T) {
	cases := []struct {
		name     string
		text     string
		fileName string
		want     string
	}{
		{name: "lowercase_headings", text: "resume\nsoftware engineer\n+1 555 123 4567\nJane Smith", fileName: "John_Doe_Resume_2023.pdf", want: "John Doe"},
		{name: "all_caps_heading", text: "RESUME\nWORK HISTORY\nfoo", fileName: "John_Doe_Resume_2023.pdf", want: "John Doe"},
		{name: "title_case_heading", text: "Professional Experience\nSoftware Engineer at Acme\nfoo", fileName: "John_Doe_Resume_2023.pdf", want: "John Doe"},
		{name: "city_state", text: "Contact Information\nNew York, NY\nfoo", fileName: "Jane.pdf", want: "Jane"},
		{name: "city_country", text: "CURRICULUM VITAE\nSpringfield Heights, India\nKey Skills", fileName: "alan-turing_cv.pdf", want: "Alan Turing"},
		{name: "headings_with_separators", text: "Career Objective | Technical Skills\nEmployment History\nAreas Of Expertise", fileName: "Grace_Hopper.docx", want: "Grace Hopper"},
		{name: "place_before_name_line", text: "San Francisco Bay Area\nSilicon Valley\nLos Angeles", fileName: "Ada_Lovelace_resume.pdf", want: "Ada Lovelace"},
	}
	for _, kind := range []string{"heuristic", "prose"} {
		ex := NewExtractor()
		ex.Recognizer = NewRecognizer(kind)
		for _, tc := range cases {
			t.Run(kind+"/"+tc.name, func(t *testing.T) {
				if got := ex.Name(tc.text, tc.fileName); got != tc.want {
					t.Fatalf("expected filename fallback %q, got %q", tc.want, got)
				}
			})
		}
	}
}

type stubRecognizer struct {
	spans map[string][]string
}

func (s stubRecognizer) PersonSpans(line string) []string { return s.spans[line] }

func TestNameSkipsBlacklistedSpans(t *testing.T) {
	ex := NewExtractor()
	ex.Recognizer = stubRecognizer{spans: map[string][]string{
		"Python Resume": {"Python", "Resume"},
		"Ada Lovelace":  {"Ada Lovelace"},
	}}
	if got := ex.Name("Python Resume\nAda Lovelace", ""); got != "Ada Lovelace" {
		t.Fatalf("expected Ada Lovelace, got %q", got)
	}
}

func TestNameFromFileName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"John_Doe_Resume_2023.pdf", "John Doe"},
		{"janeSmithCV_v2.pdf", "Jane Smith"},
		{"FINAL-updated-resume-mark.twain.pdf", "Mark Twain"},
		{"uploads/alan-turing_resume_202.pdf", "Alan Turing"},
		{"Resume_2024.pdf", ""},
		{"", ""},
	}
	for _, tc := range cases {
		if got := NameFromFileName(tc.in); got != tc.want {
			t.Fatalf("NameFromFileName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNameFallsBackToCandidate(t *testing.T) {
	ex := NewExtractor()
	if got := ex.Name("", "resume_final_2024.pdf"); got != FallbackName {
		t.Fatalf("expected %q, got %q", FallbackName, got)
	}
	if got := ex.Name("   \n\t", ""); got != FallbackName {
		t.Fatalf("expected %q for blank input, got %q", FallbackName, got)
	}
}

func TestEmail(t *testing.T) {
	cases := []struct {
		text string
		want *string
	}{
		{"Reach: jane.doe@example.com today", strPtr("jane.doe@example.com")},
		{"first a-b@x.org then c@d.io", strPtr("a-b@x.org")},
		{"no address here", nil},
	}
	for _, tc := range cases {
		if got := Email(tc.text); !equalPtr(got, tc.want) {
			t.Fatalf("Email(%q) mismatch", tc.text)
		}
	}
}

func TestPhone(t *testing.T) {
	cases := []struct {
		text string
		want *string
	}{
		{"Call me at (555) 123-4567", strPtr("(555) 123-4567")},
		{"tel 555-123-4567", strPtr("555-123-4567")},
		{"tel 555.123.4567", strPtr("555.123.4567")},
		{"mobile 9876543210", strPtr("9876543210")},
		{"tel 555 123 4567", strPtr("555 123 4567")},
		{"zip 12345", nil},
	}
	for _, tc := range cases {
		if got := Phone(tc.text); !equalPtr(got, tc.want) {
			t.Fatalf("Phone(%q) mismatch: got %v", tc.text, got)
		}
	}
}

func TestExtractEmptyInput(t *testing.T) {
	got := NewExtractor().Extract("", "")
	want := Fields{Name: FallbackName}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestHeuristicRecognizerSpans(t *testing.T) {
	r := NewHeuristicRecognizer()
	got := r.PersonSpans("Senior Developer | John Ronald Reuel Tolkien | Oxford")
	want := []string{"John Ronald Reuel Tolkien"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if spans := r.PersonSpans("john doe 2023"); len(spans) != 0 {
		t.Fatalf("expected no spans for lowercase tokens, got %v", spans)
	}
}

func TestHeuristicRecognizerRejectsHeadingsAndPlaces(t *testing.T) {
	r := NewHeuristicRecognizer()
	cases := []struct {
		line string
		want []string
	}{
		{line: "WORK HISTORY", want: nil},
		{line: "Contact Information", want: nil},
		{line: "New York, NY", want: nil},
		{line: "Austin Springs, TX", want: nil},
		{line: "Riverdale Park, USA", want: nil},
		{line: "John Smith | India | john@example.com", want: []string{"John Smith"}},
		{line: "Maria Lopez, Austin, TX", want: []string{"Maria Lopez"}},
		{line: "Priya Sharma - Hong Kong", want: []string{"Priya Sharma"}},
	}
	for _, tc := range cases {
		if got := r.PersonSpans(tc.line); !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("PersonSpans(%q) = %v, want %v", tc.line, got, tc.want)
		}
	}
}

func TestNewRecognizer(t *testing.T) {
	if _, ok := NewRecognizer("PROSE").(ProseRecognizer); !ok {
		t.Fatalf("expected prose recognizer")
	}
	if _, ok := NewRecognizer("").(HeuristicRecognizer); !ok {
		t.Fatalf("expected heuristic recognizer by default")
	}
}
