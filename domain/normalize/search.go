package normalize

import (
	"strings"

	"vitae-backend/domain/course"
)

// Outcome classifies how a search payload resolved, for caller messaging
// and telemetry. Only the candidate list itself is rendered.
type Outcome string

const (
	// OutcomeCandidates means at least one specific course was extracted.
	OutcomeCandidates Outcome = "candidates"
	// OutcomeAggregate means a single low-confidence candidate was
	// synthesized from narrative text.
	OutcomeAggregate Outcome = "aggregate"
	// OutcomeNoPayload means there was nothing to normalize at all.
	OutcomeNoPayload Outcome = "no_payload"
	// OutcomeEmpty means a payload arrived but every field resolved to
	// structurally empty.
	OutcomeEmpty Outcome = "empty"
	// OutcomeUnrecognized means the payload holds plausibly useful data in
	// a structure no extractor knows.
	OutcomeUnrecognized Outcome = "unrecognized"
)

// SearchResult is the normalized form of a search payload.
type SearchResult struct {
	Candidates []course.Candidate
	Outcome    Outcome
}

// candidateExtractor attempts to pull candidates out of one structural
// variant of the search payload. Extractors are tried in order; the first
// hit wins. New backend shapes are supported by appending an extractor,
// not by editing control flow.
type candidateExtractor func(payload interface{}) ([]course.Candidate, Outcome, bool)

var searchExtractors = []candidateExtractor{
	extractNestedCourseList,
	extractTopLevelList,
	synthesizeFromNarrative,
}

// NormalizeSearch resolves a schema-unstable search payload into an
// ordered list of course candidates. Total: it never fails, it only
// classifies.
func NormalizeSearch(payload interface{}) SearchResult {
	if payload == nil {
		return SearchResult{Candidates: []course.Candidate{}, Outcome: OutcomeNoPayload}
	}

	for _, extract := range searchExtractors {
		if candidates, outcome, ok := extract(payload); ok {
			if len(candidates) == 0 {
				return SearchResult{Candidates: []course.Candidate{}, Outcome: OutcomeEmpty}
			}
			return SearchResult{Candidates: candidates, Outcome: outcome}
		}
	}

	if structurallyEmpty(payload) {
		return SearchResult{Candidates: []course.Candidate{}, Outcome: OutcomeEmpty}
	}
	return SearchResult{Candidates: []course.Candidate{}, Outcome: OutcomeUnrecognized}
}

// courseListKeys are the nesting conventions under which the backend has
// been observed to deliver the found-courses list.
var courseListKeys = []string{
	"cursos_encontrados", "cursosEncontrados", "found_courses",
	"foundCourses", "courses", "cursos", "results", "resultados",
}

func extractNestedCourseList(payload interface{}) ([]course.Candidate, Outcome, bool) {
	m, ok := asMap(payload)
	if !ok {
		return nil, "", false
	}
	list, ok := listField(m, courseListKeys...)
	if !ok {
		// One more level of wrapping shows up on some responses.
		if data, isMap := asMap(m["data"]); isMap {
			if list, ok = listField(data, courseListKeys...); !ok {
				return nil, "", false
			}
		} else {
			return nil, "", false
		}
	}
	return mapCandidates(list), OutcomeCandidates, true
}

func extractTopLevelList(payload interface{}) ([]course.Candidate, Outcome, bool) {
	list, ok := asList(payload)
	if !ok {
		return nil, "", false
	}
	return mapCandidates(list), OutcomeCandidates, true
}

// synthesizeFromNarrative builds exactly one aggregate candidate when the
// payload is a single object carrying a free-text answer, a summary, or
// key points.
func synthesizeFromNarrative(payload interface{}) ([]course.Candidate, Outcome, bool) {
	m, ok := asMap(payload)
	if !ok {
		return nil, "", false
	}

	answer := stringField(m, "respuesta", "answer", "response", "text")
	summary := stringField(m, "resumen", "summary", "descripcion", "description")
	points := stringsField(m, "puntos_clave", "puntosClave", "key_points", "keyPoints", "highlights")

	if answer == "" && summary == "" && len(points) == 0 {
		return nil, "", false
	}

	var parts []string
	if summary != "" {
		parts = append(parts, summary)
	} else if answer != "" {
		parts = append(parts, answer)
	}
	for _, p := range points {
		parts = append(parts, "- "+p)
	}

	title := stringField(m, "titulo", "title")
	if title == "" {
		title = "Search summary"
	}

	candidate := course.Candidate{
		Title:       title,
		Description: strings.Join(parts, "\n"),
		Language:    stringField(m, "idioma", "language"),
		Aggregate:   true,
	}
	return []course.Candidate{candidate}, OutcomeAggregate, true
}

// mapCandidates filters and maps loosely-typed course records. Records
// without a usable title are dropped here, before they can reach the UI.
func mapCandidates(list []interface{}) []course.Candidate {
	out := make([]course.Candidate, 0, len(list))
	for _, item := range list {
		if c, ok := mapCandidate(item); ok {
			out = append(out, c)
		}
	}
	return out
}

func mapCandidate(item interface{}) (course.Candidate, bool) {
	m, ok := asMap(item)
	if !ok {
		return course.Candidate{}, false
	}

	title := stringField(m, "titulo", "title", "nombre", "name", "course_title", "courseTitle")
	if title == "" {
		return course.Candidate{}, false
	}

	duration, ok := numberField(m, ExtractDurationHours,
		"duracion_horas", "durationHours", "duration_hours")
	if !ok {
		duration = ExtractDurationHours(stringField(m, "duracion", "duration"))
	}

	price, ok := numberField(m, ExtractPrice, "precio_monto", "priceAmount", "price_amount")
	if !ok {
		price = ExtractPrice(stringField(m, "precio", "price", "costo", "cost"))
	}

	c := course.Candidate{
		Title:         title,
		Institution:   stringField(m, "institucion", "institution", "universidad", "provider"),
		Platform:      stringField(m, "plataforma", "platform"),
		Category:      stringField(m, "categoria", "category"),
		DurationHours: duration,
		PriceAmount:   price,
		Language:      stringField(m, "idioma", "language"),
		Description:   stringField(m, "descripcion", "description"),
		Links:         mapLinks(m),
	}
	return c, true
}

func mapLinks(m map[string]interface{}) course.CandidateLinks {
	links, ok := asMap(m["links"])
	if !ok {
		if links, ok = asMap(m["enlaces"]); !ok {
			// Flat link fields appear on older responses.
			return course.CandidateLinks{
				Class:    stringField(m, "url", "link", "enlace"),
				Platform: stringField(m, "url_plataforma", "platformUrl"),
			}
		}
	}
	return course.CandidateLinks{
		Class:      stringField(links, "curso", "class", "course", "url"),
		Instructor: stringField(links, "instructor", "profesor"),
		Platform:   stringField(links, "plataforma", "platform"),
		Category:   stringField(links, "categoria", "category"),
	}
}
