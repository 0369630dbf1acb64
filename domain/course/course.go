// Package course holds the canonical course models. Search payloads from
// the AI backend map into Candidate; persisted courses with structured
// content map into Course.
package course

// CandidateLinks collects the outbound links a search result may carry.
type CandidateLinks struct {
	Class      string `json:"class,omitempty"`
	Instructor string `json:"instructor,omitempty"`
	Platform   string `json:"platform,omitempty"`
	Category   string `json:"category,omitempty"`
}

// Candidate is a tentative, not-yet-persisted course produced from a
// search payload. A Candidate never reaches the caller with a blank or
// null-sentinel title.
type Candidate struct {
	Title         string         `json:"title"`
	Institution   string         `json:"institution,omitempty"`
	Platform      string         `json:"platform,omitempty"`
	Category      string         `json:"category,omitempty"`
	DurationHours float64        `json:"durationHours"`
	PriceAmount   float64        `json:"priceAmount"`
	Language      string         `json:"language,omitempty"`
	Description   string         `json:"description,omitempty"`
	Links         CandidateLinks `json:"links"`

	// Aggregate marks a low-confidence candidate synthesized from
	// narrative text rather than a specific course record.
	Aggregate bool `json:"aggregate,omitempty"`
}

// QuizQuestion is a single question inside a chapter quiz. Options carry a
// stable letter prefix ("A) ..."); CorrectOption is that letter.
type QuizQuestion struct {
	Prompt        string   `json:"prompt"`
	Options       []string `json:"options"`
	CorrectOption string   `json:"correctOption"`
	Explanation   string   `json:"explanation,omitempty"`
}

// Chapter is one unit of structured course content, zero-indexed within
// its course.
type Chapter struct {
	Index           int            `json:"index"`
	Title           string         `json:"title"`
	DurationMinutes int            `json:"durationMinutes"`
	Quiz            []QuizQuestion `json:"quiz,omitempty"`
}

// Course is a persisted course with its ordered chapters.
type Course struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Chapters []Chapter `json:"chapters"`
}
