package fields

import (
	"regexp"
	"strings"
	"unicode"
)

// NameRecognizer finds person-name spans in a single line of text.
type NameRecognizer interface {
	PersonSpans(line string) []string
}

// HeuristicRecognizer treats a run of two to four capitalised alphabetic tokens
// as a person name, unless the run is a section heading or a place.
type HeuristicRecognizer struct {
	MinTokens int
	MaxTokens int
}

// NewHeuristicRecognizer returns a recognizer accepting 2..4 token names.
func NewHeuristicRecognizer() HeuristicRecognizer {
	return HeuristicRecognizer{MinTokens: 2, MaxTokens: 4}
}

var segmentSplit = regexp.MustCompile(`[|,;:•·/\t()]|\s{2,}|\s[-–]\s`)

// Words that commonly appear capitalised at the top of a resume but are never
// part of a name.
var nonNameWords = wordSet(
	// document and section vocabulary
	"resume", "cv", "curriculum", "vitae", "page", "profile", "summary", "objective",
	"contact", "experience", "experiences", "education", "skills", "skill", "projects", "project",
	"internship", "internships", "certifications", "certification", "certificates", "certificate",
	"work", "history", "employment", "professional", "career", "information", "info",
	"personal", "details", "detail", "technical", "key", "core", "competencies", "competency",
	"qualifications", "qualification", "academic", "academics", "background", "achievements",
	"achievement", "awards", "award", "honors", "honours", "references", "reference",
	"languages", "language", "hobbies", "interests", "declaration", "activities", "activity",
	"extracurricular", "volunteer", "volunteering", "coursework", "relevant", "publications",
	"training", "trainings", "strengths", "expertise", "areas", "area", "highlights",
	"accomplishments", "responsibilities", "overview", "about", "me", "name", "date", "birth",
	"nationality", "status", "marital", "gender", "tools", "technologies", "frameworks",
	"leadership", "positions", "position", "research", "portfolio", "links", "social",
	"additional", "other", "miscellaneous", "selected", "recent", "current", "previous",
	"statement", "purpose", "cover", "letter", "job", "title", "role", "roles", "company",
	"present", "available", "upon", "request", "soft", "hard", "computer", "communication",
	// job titles
	"engineer", "engineering", "developer", "development", "software", "designer", "design",
	"manager", "management", "analyst", "analytics", "scientist", "science", "intern",
	"student", "senior", "junior", "lead", "principal", "staff", "associate", "assistant",
	"consultant", "architect", "administrator", "specialist", "executive", "officer",
	"director", "head", "trainee", "fresher", "graduate", "undergraduate", "freelance",
	"freelancer", "programmer", "coordinator", "technician", "tester", "qa",
	// tech vocabulary
	"data", "web", "full", "stack", "frontend", "backend", "mobile", "app", "apps",
	"machine", "learning", "deep", "artificial", "intelligence", "cloud", "devops",
	"python", "java", "javascript", "react", "node", "angular", "adobe", "android", "ios",
	"flutter", "kotlin", "swift", "django", "flask", "figma", "sql", "aws", "azure", "google",
	"microsoft", "linux", "excel", "office",
	// contact vocabulary
	"email", "mail", "phone", "tel", "telephone", "cell", "address", "linkedin", "github",
	"website", "twitter", "location",
	// institutions
	"university", "college", "institute", "school", "academy", "polytechnic", "bachelor",
	"bachelors", "master", "masters", "degree", "diploma", "technology", "of", "the", "and",
	"at", "in", "for", "to", "with",
	// address vocabulary
	"street", "road", "avenue", "lane", "city", "state", "county", "district", "nagar",
	"apartment", "suite", "floor", "sector", "block",
)

// Section headings matched as whole segments, normalised to lower case.
var sectionHeadings = wordSet(
	"work history", "professional experience", "work experience", "employment history",
	"contact information", "contact details", "personal information", "personal details",
	"career objective", "professional summary", "career summary", "technical skills",
	"key skills", "core competencies", "academic background", "educational qualifications",
	"areas of expertise", "extracurricular activities", "volunteer experience",
	"professional profile", "relevant coursework", "curriculum vitae", "about me",
)

// Tokens that only occur in place names.
var placeWords = wordSet(
	"new", "san", "santa", "los", "las", "saint", "st", "fort", "port", "united", "states",
	"kingdom", "republic", "emirates", "york", "jersey", "delhi", "francisco", "angeles",
	"vegas", "diego", "jose", "kong", "lumpur", "zealand", "hampshire", "mexico", "carolina",
	"dakota", "virginia", "island", "islands", "beach", "bay", "valley", "heights", "springs",
)

// Well known places that are written like names.
var placeNames = wordSet(
	"new york", "san francisco", "los angeles", "hong kong", "kuala lumpur", "new delhi",
	"tel aviv", "buenos aires", "rio de janeiro", "sao paulo", "cape town", "abu dhabi",
	"salt lake city", "silicon valley", "bay area", "greater london", "navi mumbai",
	"united states", "united kingdom", "south africa", "saudi arabia", "sri lanka",
	"north carolina", "south carolina", "north dakota", "south dakota", "west virginia",
	"rhode island", "new jersey", "new mexico", "new hampshire",
)

var regionCodes = wordSet(
	"al", "ak", "az", "ar", "ca", "co", "ct", "de", "dc", "fl", "ga", "hi", "id", "il", "in",
	"ia", "ks", "ky", "la", "me", "md", "ma", "mi", "mn", "ms", "mo", "mt", "ne", "nv", "nh",
	"nj", "nm", "ny", "nc", "nd", "oh", "ok", "or", "pa", "ri", "sc", "sd", "tn", "tx", "ut",
	"vt", "va", "wa", "wv", "wi", "wy", "on", "bc", "ab", "qc", "uk", "usa", "us", "uae",
	"india", "canada", "germany", "france", "singapore", "australia", "nigeria", "kenya",
	"pakistan", "bangladesh", "nepal", "ireland", "netherlands", "spain", "italy", "japan",
	"china", "brazil",
)

// PersonSpans returns candidate name spans in line, left to right.
func (r HeuristicRecognizer) PersonSpans(line string) []string {
	minTokens, maxTokens := r.MinTokens, r.MaxTokens
	if minTokens <= 0 {
		minTokens = 2
	}
	if maxTokens < minTokens {
		maxTokens = minTokens
	}

	locations := regionLocations(line)
	var spans []string
	for _, segment := range segmentSplit.Split(line, -1) {
		if isHeading(segment) {
			continue
		}
		var run []string
		flush := func() {
			if len(run) >= minTokens && len(run) <= maxTokens {
				if span := strings.Join(run, " "); !isPlace(span) && !locatedBy(locations, span) {
					spans = append(spans, span)
				}
			}
			run = run[:0]
		}
		for _, tok := range strings.Fields(segment) {
			tok = strings.TrimRight(tok, ".,")
			if isNameToken(tok) {
				run = append(run, tok)
				continue
			}
			flush()
		}
		flush()
	}
	return spans
}

// plausibleName reports whether span could be a person's name: every token is
// name-shaped and the span is neither a heading nor a place.
func plausibleName(span string, minTokens, maxTokens int) bool {
	tokens := strings.Fields(span)
	if len(tokens) < minTokens || len(tokens) > maxTokens {
		return false
	}
	for _, tok := range tokens {
		if !isNameToken(strings.TrimRight(tok, ".,")) {
			return false
		}
	}
	return !isHeading(span) && !isPlace(span)
}

func isNameToken(tok string) bool {
	if tok == "" {
		return false
	}
	if _, skip := nonNameWords[strings.ToLower(tok)]; skip {
		return false
	}
	letters := 0
	for i, r := range tok {
		switch {
		case unicode.IsLetter(r):
			if i == 0 && !unicode.IsUpper(r) {
				return false
			}
			letters++
		case r == '-' || r == '\'' || r == '.':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return letters > 0
}

func isHeading(s string) bool {
	_, ok := sectionHeadings[normalizePhrase(s)]
	return ok
}

func isPlace(span string) bool {
	norm := normalizePhrase(span)
	if _, ok := placeNames[norm]; ok {
		return true
	}
	for _, tok := range strings.Fields(norm) {
		if _, ok := placeWords[tok]; ok {
			return true
		}
	}
	return false
}

var regionPattern = regexp.MustCompile(`([\p{Lu}][\p{L}.'-]*(?:\s+[\p{Lu}][\p{L}.'-]*){0,3}),\s*([\p{Lu}][\p{L}]+)`)

// regionLocations returns the "City" part of every "City, ST" or
// "City, Country" pair in line.
func regionLocations(line string) []string {
	var out []string
	for _, m := range regionPattern.FindAllStringSubmatch(line, -1) {
		region := m[2]
		if len([]rune(region)) <= 3 && strings.ToUpper(region) != region {
			continue
		}
		if _, ok := regionCodes[strings.ToLower(region)]; ok {
			out = append(out, m[1])
		}
	}
	return out
}

func locatedBy(locations []string, span string) bool {
	for _, loc := range locations {
		if strings.HasSuffix(strings.Join(strings.Fields(loc), " "), span) {
			return true
		}
	}
	return false
}

func normalizePhrase(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsSpace(r) {
			return unicode.ToLower(r)
		}
		return ' '
	}, s)
	return strings.Join(strings.Fields(s), " ")
}

func wordSet(words ...string) map[string]struct{} {
	out := make(map[string]struct{}, len(words))
	for _, w := range words {
		out[w] = struct{}{}
	}
	return out
}
