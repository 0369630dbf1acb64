package note

import (
	"strings"

	"github.com/google/uuid"
)

// Kind classifies a note record. The remote service stores it either as
// one of these tags or as a small integer, depending on which endpoint
// produced the record.
type Kind string

const (
	KindNote       Kind = "note"
	KindQuote      Kind = "quote"
	KindReflection Kind = "reflection"
	KindSummary    Kind = "summary"
	KindQuestion   Kind = "question"
	KindConnection Kind = "connection"
)

// DefaultColor is applied when a record arrives without a color.
const DefaultColor = "#fbbf24"

// kindByIndex is the fixed numeric-enum mapping used by the mutation
// endpoints.
var kindByIndex = [...]Kind{
	0: KindNote,
	1: KindQuote,
	2: KindReflection,
	3: KindSummary,
	4: KindQuestion,
	5: KindConnection,
}

var kindByTag = map[string]Kind{
	string(KindNote):       KindNote,
	string(KindQuote):      KindQuote,
	string(KindReflection): KindReflection,
	string(KindSummary):    KindSummary,
	string(KindQuestion):   KindQuestion,
	string(KindConnection): KindConnection,
}

// KindFromRaw resolves any raw kind value to a semantic tag. Total:
// unknown values resolve to KindNote, never an error.
func KindFromRaw(raw interface{}) Kind {
	switch v := raw.(type) {
	case Kind:
		if _, ok := kindByTag[string(v)]; ok {
			return v
		}
	case string:
		if k, ok := kindByTag[strings.ToLower(strings.TrimSpace(v))]; ok {
			return k
		}
	case int:
		if v >= 0 && v < len(kindByIndex) {
			return kindByIndex[v]
		}
	case int64:
		if v >= 0 && v < int64(len(kindByIndex)) {
			return kindByIndex[v]
		}
	case float64:
		// JSON numbers decode as float64; only whole values map.
		i := int(v)
		if float64(i) == v && i >= 0 && i < len(kindByIndex) {
			return kindByIndex[i]
		}
	}
	return KindNote
}

// Note is the canonical in-application shape of a note record, regardless
// of which wire shape the remote service used.
type Note struct {
	ID            string   `json:"id"`
	OwnerRecordID string   `json:"ownerRecordId"`
	Kind          Kind     `json:"kind"`
	Title         string   `json:"title"`
	Body          string   `json:"body"`
	ChapterRef    string   `json:"chapterRef"`
	PageRef       int      `json:"pageRef,omitempty"`
	Tags          []string `json:"tags"`
	Highlighted   bool     `json:"highlighted"`
	Color         string   `json:"color"`
	Date          string   `json:"date"`
}

// NewID generates a unique note identifier
func NewID() string {
	return uuid.New().String()
}
