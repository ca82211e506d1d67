package recommendations

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"resume-analyzer/internal/taxonomy"
)

//go:embed data/catalog.yaml
var defaultCatalog []byte

// Catalog holds the static course lists per track and the global tip videos.
type Catalog struct {
	Courses         map[taxonomy.Track][]Resource `yaml:"courses"`
	ResumeVideos    []string                      `yaml:"resume_videos"`
	InterviewVideos []string                      `yaml:"interview_videos"`
}

var (
	catalogOnce sync.Once
	catalogData *Catalog
)

// DefaultCatalog returns the embedded catalog.
func DefaultCatalog() *Catalog {
	catalogOnce.Do(func() {
		c, err := ParseCatalog(defaultCatalog)
		if err != nil {
			panic(fmt.Sprintf("recommendations: embedded catalog: %v", err))
		}
		catalogData = c
	})
	return catalogData
}

// ParseCatalog decodes a YAML catalog, dropping entries without a link.
func ParseCatalog(raw []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	for track, items := range c.Courses {
		kept := items[:0]
		for _, it := range items {
			it.Title = strings.TrimSpace(it.Title)
			it.Link = strings.TrimSpace(it.Link)
			if it.Link == "" {
				continue
			}
			if it.Title == "" {
				it.Title = it.Link
			}
			kept = append(kept, it)
		}
		c.Courses[track] = kept
	}
	c.ResumeVideos = nonEmpty(c.ResumeVideos)
	c.InterviewVideos = nonEmpty(c.InterviewVideos)
	return &c, nil
}

// CoursesFor returns a copy of the course list for track.
func (c *Catalog) CoursesFor(track taxonomy.Track) []Resource {
	if c == nil {
		return nil
	}
	return append([]Resource(nil), c.Courses[track]...)
}

func nonEmpty(items []string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		if trimmed := strings.TrimSpace(it); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
