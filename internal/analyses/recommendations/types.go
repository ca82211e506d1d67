package recommendations

// Resource is a course or video link from the catalog.
type Resource struct {
	Title string `json:"title" yaml:"title"`
	Link  string `json:"link" yaml:"link"`
}

// Bundle is what gets presented for a classified resume.
type Bundle struct {
	SkillSuggestions []string   `json:"skillSuggestions"`
	Resources        []Resource `json:"resources"`
	ResumeVideo      string     `json:"resumeVideo,omitempty"`
	InterviewVideo   string     `json:"interviewVideo,omitempty"`
}
