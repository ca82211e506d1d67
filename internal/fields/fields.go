package fields

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
)

// FallbackName is used when neither the text nor the file name yields a name.
const FallbackName = "Candidate"

const nameScanLines = 3

// Fields holds the contact fields extracted from a resume.
type Fields struct {
	Name  string  `json:"name"`
	Email *string `json:"email"`
	Phone *string `json:"phone"`
}

var (
	emailPattern = regexp.MustCompile(`[\w.\-]+@[\w.\-]+`)
	phonePattern = regexp.MustCompile(`\d{3}[-.\s]??\d{3}[-.\s]??\d{4}|\(\d{3}\)\s*\d{3}[-.\s]??\d{4}|\d{10}`)

	fileNameNoise = regexp.MustCompile(`(?i)(resume|cv|final|updated|v\d+|20\d{2}|20\d{1})`)
	fileNameSeps  = regexp.MustCompile(`[_\-.]`)
)

var defaultBlacklist = []string{"Pandas", "Numpy", "Spacy", "Java", "React", "Python", "Resume", "CV", "Page"}

// Extractor derives name, email and phone from resume text. It never fails.
type Extractor struct {
	Recognizer NameRecognizer
	Blacklist  map[string]struct{}
}

// NewExtractor returns an Extractor with the heuristic recognizer and the
// default boilerplate blacklist.
func NewExtractor() *Extractor {
	bl := make(map[string]struct{}, len(defaultBlacklist))
	for _, w := range defaultBlacklist {
		bl[w] = struct{}{}
	}
	return &Extractor{Recognizer: NewHeuristicRecognizer(), Blacklist: bl}
}

// Extract runs all field rules over text. fileName is only used for the
// name fallback.
func (e *Extractor) Extract(text, fileName string) Fields {
	return Fields{
		Name:  e.Name(text, fileName),
		Email: Email(text),
		Phone: Phone(text),
	}
}

// Name returns the first recognised person name in the first three non-blank
// lines, falling back to a name derived from fileName.
func (e *Extractor) Name(text, fileName string) string {
	if e.Recognizer != nil {
		for _, line := range leadingLines(text, nameScanLines) {
			for _, span := range e.Recognizer.PersonSpans(line) {
				span = strings.TrimSpace(span)
				if span == "" {
					continue
				}
				if _, banned := e.Blacklist[span]; banned {
					continue
				}
				return span
			}
		}
	}
	if name := NameFromFileName(fileName); name != "" {
		return name
	}
	return FallbackName
}

// Email returns the first email-shaped token in text, or nil.
func Email(text string) *string {
	if m := emailPattern.FindString(text); m != "" {
		return &m
	}
	return nil
}

// Phone returns the first phone-shaped token in text, or nil.
func Phone(text string) *string {
	if m := phonePattern.FindString(text); m != "" {
		return &m
	}
	return nil
}

// NameFromFileName derives a display name from an upload file name, e.g.
// "John_Doe_Resume_2023.pdf" becomes "John Doe". It returns "" when nothing
// usable remains.
func NameFromFileName(fileName string) string {
	base := filepath.Base(strings.TrimSpace(fileName))
	if base == "." || base == string(filepath.Separator) {
		return ""
	}
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = fileNameNoise.ReplaceAllString(base, "")
	base = splitCamel(base)
	base = fileNameSeps.ReplaceAllString(base, " ")
	base = strings.Join(strings.Fields(base), " ")
	return titleCase(base)
}

func leadingLines(text string, n int) []string {
	out := make([]string, 0, n)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, line)
		if len(out) == n {
			break
		}
	}
	return out
}

func splitCamel(s string) string {
	var b strings.Builder
	var prev rune
	for i, r := range s {
		if i > 0 && unicode.IsLower(prev) && unicode.IsUpper(r) {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
		prev = r
	}
	return b.String()
}

// titleCase upper-cases the first letter of every letter run and lower-cases
// the rest.
func titleCase(s string) string {
	var b strings.Builder
	inWord := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if inWord {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			inWord = true
			continue
		}
		inWord = false
		b.WriteRune(r)
	}
	return b.String()
}
