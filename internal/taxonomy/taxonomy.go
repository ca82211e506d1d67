package taxonomy

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Track identifies a career track.
type Track string

const (
	DataScience  Track = "data_science"
	WebDev       Track = "web_dev"
	Android      Track = "android"
	IOS          Track = "ios"
	UIUX         Track = "uiux"
	Unclassified Track = "unclassified"
)

// UnclassifiedLabel is the display label used when no track matches.
const UnclassifiedLabel = "NA"

//go:embed data/taxonomy.yaml
var defaultTable []byte

var (
	ErrEmptyTaxonomy = errors.New("taxonomy has no tracks")
	ErrInvalidTrack  = errors.New("invalid track entry")
)

// Entry is one track of the taxonomy.
type Entry struct {
	Track             Track    `yaml:"id" json:"id"`
	Label             string   `yaml:"label" json:"label"`
	Keywords          []string `yaml:"keywords" json:"keywords"`
	RecommendedSkills []string `yaml:"recommended_skills" json:"recommendedSkills"`

	lower map[string]struct{}
}

// Taxonomy is an ordered, read-only mapping from track to keywords.
// Entry order is classification priority.
type Taxonomy struct {
	entries []Entry
	byTrack map[Track]int
}

type document struct {
	Tracks []Entry `yaml:"tracks"`
}

var (
	defaultOnce sync.Once
	defaultTax  *Taxonomy
)

// Default returns the process-wide taxonomy parsed from the embedded table.
func Default() *Taxonomy {
	defaultOnce.Do(func() {
		tax, err := Parse(defaultTable)
		if err != nil {
			panic(fmt.Sprintf("taxonomy: embedded table: %v", err))
		}
		defaultTax = tax
	})
	return defaultTax
}

// Parse decodes and validates a YAML taxonomy table.
func Parse(raw []byte) (*Taxonomy, error) {
	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse taxonomy: %w", err)
	}
	return New(doc.Tracks)
}

// New builds a taxonomy from entries in priority order.
func New(entries []Entry) (*Taxonomy, error) {
	if len(entries) == 0 {
		return nil, ErrEmptyTaxonomy
	}
	t := &Taxonomy{
		entries: make([]Entry, 0, len(entries)),
		byTrack: make(map[Track]int, len(entries)),
	}
	for i, e := range entries {
		id := Track(strings.TrimSpace(string(e.Track)))
		if id == "" || id == Unclassified {
			return nil, fmt.Errorf("entry %d: %w: missing or reserved id", i, ErrInvalidTrack)
		}
		if _, dup := t.byTrack[id]; dup {
			return nil, fmt.Errorf("entry %d: %w: duplicate id %q", i, ErrInvalidTrack, id)
		}
		keywords := make([]string, 0, len(e.Keywords))
		lower := make(map[string]struct{}, len(e.Keywords))
		for _, kw := range e.Keywords {
			kw = strings.TrimSpace(kw)
			if kw == "" {
				continue
			}
			keywords = append(keywords, kw)
			lower[strings.ToLower(kw)] = struct{}{}
		}
		if len(keywords) == 0 {
			return nil, fmt.Errorf("entry %d (%s): %w: no keywords", i, id, ErrInvalidTrack)
		}
		label := strings.TrimSpace(e.Label)
		if label == "" {
			label = string(id)
		}
		t.byTrack[id] = len(t.entries)
		t.entries = append(t.entries, Entry{
			Track:             id,
			Label:             label,
			Keywords:          keywords,
			RecommendedSkills: append([]string(nil), e.RecommendedSkills...),
			lower:             lower,
		})
	}
	return t, nil
}

// Tracks returns track ids in priority order.
func (t *Taxonomy) Tracks() []Track {
	out := make([]Track, len(t.entries))
	for i, e := range t.entries {
		out[i] = e.Track
	}
	return out
}

// Entries returns copies of all entries in priority order.
func (t *Taxonomy) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	for i, e := range t.entries {
		out[i] = Entry{
			Track:             e.Track,
			Label:             e.Label,
			Keywords:          append([]string(nil), e.Keywords...),
			RecommendedSkills: append([]string(nil), e.RecommendedSkills...),
		}
	}
	return out
}

// KeywordsOf returns the declared keywords of a track, or nil for unknown tracks.
func (t *Taxonomy) KeywordsOf(track Track) []string {
	i, ok := t.byTrack[track]
	if !ok {
		return nil
	}
	return append([]string(nil), t.entries[i].Keywords...)
}

// Keywords returns every keyword of every track concatenated in priority order.
// Keywords shared by several tracks appear once per track.
func (t *Taxonomy) Keywords() []string {
	var out []string
	for _, e := range t.entries {
		out = append(out, e.Keywords...)
	}
	return out
}

// Contains reports whether keyword belongs to track, ignoring case.
func (t *Taxonomy) Contains(track Track, keyword string) bool {
	i, ok := t.byTrack[track]
	if !ok {
		return false
	}
	_, ok = t.entries[i].lower[strings.ToLower(strings.TrimSpace(keyword))]
	return ok
}

// RecommendedSkills returns the curated skill list for a track.
// Unknown tracks and Unclassified yield nil.
func (t *Taxonomy) RecommendedSkills(track Track) []string {
	i, ok := t.byTrack[track]
	if !ok {
		return nil
	}
	return append([]string(nil), t.entries[i].RecommendedSkills...)
}

// Label returns the display label of a track.
func (t *Taxonomy) Label(track Track) string {
	if i, ok := t.byTrack[track]; ok {
		return t.entries[i].Label
	}
	return UnclassifiedLabel
}
