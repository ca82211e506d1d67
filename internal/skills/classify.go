package skills

import (
	"strings"

	"resume-analyzer/internal/taxonomy"
)

// Level is the coarse seniority label of a candidate.
type Level string

const (
	Fresher      Level = "Fresher"
	Intermediate Level = "Intermediate"
	Experienced  Level = "Experienced"
)

// NoRecommendations is the recommended-skills placeholder for unclassified resumes.
const NoRecommendations = "No Recommendations"

// Classification is the track decision for a resume.
type Classification struct {
	Track             taxonomy.Track `json:"track"`
	Label             string         `json:"label"`
	RecommendedSkills []string       `json:"recommendedSkills"`
	Level             Level          `json:"level"`
}

// Classify picks the first track, in taxonomy order, that owns any of the
// given skills. Skill order never affects the result.
func Classify(found []string, tax *taxonomy.Taxonomy) (taxonomy.Track, []string) {
	if tax == nil || len(found) == 0 {
		return taxonomy.Unclassified, []string{NoRecommendations}
	}
	for _, track := range tax.Tracks() {
		for _, skill := range found {
			if tax.Contains(track, skill) {
				return track, tax.RecommendedSkills(track)
			}
		}
	}
	return taxonomy.Unclassified, []string{NoRecommendations}
}

// DetectLevel derives the seniority label from lexical cues. INTERNSHIP is
// checked before EXPERIENCE.
func DetectLevel(text string) Level {
	upper := strings.ToUpper(text)
	switch {
	case strings.Contains(upper, "INTERNSHIP"):
		return Intermediate
	case strings.Contains(upper, "EXPERIENCE"):
		return Experienced
	default:
		return Fresher
	}
}

// ClassifyText runs Classify on found and DetectLevel on text.
func ClassifyText(text string, found []string, tax *taxonomy.Taxonomy) Classification {
	track, recommended := Classify(found, tax)
	label := taxonomy.UnclassifiedLabel
	if tax != nil {
		label = tax.Label(track)
	}
	return Classification{
		Track:             track,
		Label:             label,
		RecommendedSkills: recommended,
		Level:             DetectLevel(text),
	}
}
