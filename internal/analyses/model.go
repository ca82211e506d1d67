package analyses

import (
	"time"

	"resume-analyzer/internal/analyses/recommendations"
	"resume-analyzer/internal/skills"
)

// Record is the structured data extracted from one resume.
type Record struct {
	Name      string   `json:"name"`
	Email     *string  `json:"email"`
	Phone     *string  `json:"phone"`
	PageCount int      `json:"pageCount"`
	Skills    []string `json:"skills"`
}

// Analysis is a stored resume analysis.
type Analysis struct {
	ID              string                 `json:"id"`
	UserID          string                 `json:"userId"`
	FileName        string                 `json:"fileName"`
	StorageKey      string                 `json:"storageKey,omitempty"`
	Record          Record                 `json:"record"`
	Classification  skills.Classification  `json:"classification"`
	Recommendations recommendations.Bundle `json:"recommendations"`
	Pitch           string                 `json:"pitch"`
	CreatedAt       time.Time              `json:"createdAt"`
}

// Input is the text form of a resume submitted for analysis.
type Input struct {
	UserID        string
	FileName      string
	Text          string
	PageCount     int
	ResourceCount int
	StorageKey    string
}
