package recommendations

import (
	"math/rand"
	"sync"
	"time"

	"resume-analyzer/internal/taxonomy"
)

const (
	MinCount     = 1
	MaxCount     = 10
	DefaultCount = 5
)

// ClampCount bounds a caller supplied resource count to MinCount..MaxCount.
func ClampCount(count int) int {
	switch {
	case count < MinCount:
		return MinCount
	case count > MaxCount:
		return MaxCount
	default:
		return count
	}
}

// Recommend shuffles a copy of catalog and returns its first count items.
// The catalog itself is left untouched.
func Recommend(rng *rand.Rand, catalog []Resource, count int) []Resource {
	count = ClampCount(count)
	shuffled := append([]Resource{}, catalog...)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	if count > len(shuffled) {
		count = len(shuffled)
	}
	return shuffled[:count]
}

// Generator builds recommendation bundles from a catalog. It is safe for
// concurrent use.
type Generator struct {
	Catalog *Catalog

	mu  sync.Mutex
	rng *rand.Rand
}

// NewGenerator returns a Generator over catalog. A nil rng seeds one from the clock.
func NewGenerator(catalog *Catalog, rng *rand.Rand) *Generator {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Generator{Catalog: catalog, rng: rng}
}

// Bundle samples count courses for track and one tip video of each kind.
func (g *Generator) Bundle(track taxonomy.Track, recommendedSkills []string, count int) Bundle {
	g.mu.Lock()
	defer g.mu.Unlock()

	b := Bundle{
		SkillSuggestions: append([]string{}, recommendedSkills...),
		Resources:        []Resource{},
	}
	if track != taxonomy.Unclassified {
		b.Resources = Recommend(g.rng, g.Catalog.CoursesFor(track), count)
	}
	b.ResumeVideo = g.pick(g.Catalog.ResumeVideos)
	b.InterviewVideo = g.pick(g.Catalog.InterviewVideos)
	return b
}

func (g *Generator) pick(items []string) string {
	if len(items) == 0 {
		return ""
	}
	return items[g.rng.Intn(len(items))]
}
