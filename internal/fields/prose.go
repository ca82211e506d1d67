package fields

import (
	"strings"

	"github.com/jdkato/prose/v2"
)

// ProseRecognizer finds names with prose's named-entity model, keeping only
// PERSON entities that also look like a name. Fallback answers when the model
// fails on a line.
type ProseRecognizer struct {
	Fallback NameRecognizer
}

// NewProseRecognizer returns a ProseRecognizer backed by the heuristic.
func NewProseRecognizer() ProseRecognizer {
	return ProseRecognizer{Fallback: NewHeuristicRecognizer()}
}

// PersonSpans implements NameRecognizer.
func (r ProseRecognizer) PersonSpans(line string) []string {
	doc, err := prose.NewDocument(line)
	if err != nil {
		if r.Fallback != nil {
			return r.Fallback.PersonSpans(line)
		}
		return nil
	}
	locations := regionLocations(line)
	var spans []string
	for _, ent := range doc.Entities() {
		if ent.Label != "PERSON" {
			continue
		}
		span := strings.TrimSpace(ent.Text)
		if plausibleName(span, 2, 4) && !locatedBy(locations, span) {
			spans = append(spans, span)
		}
	}
	return spans
}

// NewRecognizer picks a recognizer by name: "prose" for the entity model,
// anything else for the heuristic.
func NewRecognizer(kind string) NameRecognizer {
	if strings.EqualFold(strings.TrimSpace(kind), "prose") {
		return NewProseRecognizer()
	}
	return NewHeuristicRecognizer()
}
