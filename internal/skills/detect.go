package skills

import (
	"regexp"
	"strings"
	"sync"

	"resume-analyzer/internal/taxonomy"
)

// Detector finds taxonomy keywords in resume text.
type Detector interface {
	Detect(text string, tax *taxonomy.Taxonomy) []string
}

// SubstringDetector matches keywords as case-insensitive substrings with no
// word-boundary check, so "ui" also matches inside "guide".
type SubstringDetector struct{}

// BoundaryDetector only accepts keywords delimited by non-word characters.
type BoundaryDetector struct {
	mu       sync.Mutex
	patterns map[string]*regexp.Regexp
}

// NewDetector picks a detector by name: "boundary" for word-boundary
// matching, anything else for substring matching.
func NewDetector(kind string) Detector {
	if strings.EqualFold(strings.TrimSpace(kind), "boundary") {
		return &BoundaryDetector{}
	}
	return SubstringDetector{}
}

// Detect returns the keywords found in text, deduplicated case-insensitively,
// in taxonomy order and with their declared casing.
func Detect(text string, tax *taxonomy.Taxonomy) []string {
	return SubstringDetector{}.Detect(text, tax)
}

// Detect implements Detector.
func (SubstringDetector) Detect(text string, tax *taxonomy.Taxonomy) []string {
	lower := strings.ToLower(text)
	return collect(tax, func(kw string) bool {
		return strings.Contains(lower, strings.ToLower(kw))
	})
}

// Detect implements Detector.
func (d *BoundaryDetector) Detect(text string, tax *taxonomy.Taxonomy) []string {
	return collect(tax, func(kw string) bool {
		return d.pattern(kw).MatchString(text)
	})
}

func (d *BoundaryDetector) pattern(kw string) *regexp.Regexp {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.patterns == nil {
		d.patterns = make(map[string]*regexp.Regexp)
	}
	if re, ok := d.patterns[kw]; ok {
		return re
	}
	// \b does not work next to symbols such as "#" in "C#".
	re := regexp.MustCompile(`(?i)(^|[^\p{L}\p{N}_])` + regexp.QuoteMeta(kw) + `($|[^\p{L}\p{N}_])`)
	d.patterns[kw] = re
	return re
}

func collect(tax *taxonomy.Taxonomy, match func(string) bool) []string {
	if tax == nil {
		return []string{}
	}
	seen := make(map[string]struct{})
	out := []string{}
	for _, kw := range tax.Keywords() {
		key := strings.ToLower(kw)
		if _, dup := seen[key]; dup {
			continue
		}
		if match(kw) {
			seen[key] = struct{}{}
			out = append(out, kw)
		}
	}
	return out
}
