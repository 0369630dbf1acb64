package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeSearchFoundCourses(t *testing.T) {
	payload := map[string]interface{}{
		"cursos_encontrados": []interface{}{
			map[string]interface{}{
				"titulo":      "Programación en Go",
				"institucion": "Universidad Austral",
				"plataforma":  "Coursera",
				"duracion":    "6 semanas",
				"precio":      "$45 USD",
				"idioma":      "Español",
				"links": map[string]interface{}{
					"curso":      "https://example.com/go",
					"plataforma": "https://coursera.org",
				},
			},
			map[string]interface{}{
				"titulo":   "null", // sentinel title, must be dropped
				"duracion": "3 h",
			},
			map[string]interface{}{
				"duracion": "2 weeks", // no title at all, dropped
			},
		},
	}

	result := NormalizeSearch(payload)

	require.Equal(t, OutcomeCandidates, result.Outcome)
	require.Len(t, result.Candidates, 1)

	c := result.Candidates[0]
	assert.Equal(t, "Programación en Go", c.Title)
	assert.Equal(t, "Universidad Austral", c.Institution)
	assert.Equal(t, 240.0, c.DurationHours)
	assert.Equal(t, 45.0, c.PriceAmount)
	assert.Equal(t, "https://example.com/go", c.Links.Class)
	assert.False(t, c.Aggregate)
}

func TestNormalizeSearchTopLevelList(t *testing.T) {
	payload := []interface{}{
		map[string]interface{}{"title": "Kubernetes Basics", "price": "Gratis"},
		map[string]interface{}{"title": "   "},
	}

	result := NormalizeSearch(payload)

	require.Equal(t, OutcomeCandidates, result.Outcome)
	require.Len(t, result.Candidates, 1)
	assert.Equal(t, "Kubernetes Basics", result.Candidates[0].Title)
	assert.Equal(t, 0.0, result.Candidates[0].PriceAmount)
}

func TestNormalizeSearchNarrativeSynthesis(t *testing.T) {
	payload := map[string]interface{}{
		"resumen":      "Hay varias opciones para aprender Go en línea.",
		"puntos_clave": []interface{}{"Coursera", "Udemy", "null"},
	}

	result := NormalizeSearch(payload)

	require.Equal(t, OutcomeAggregate, result.Outcome)
	require.Len(t, result.Candidates, 1)

	c := result.Candidates[0]
	assert.True(t, c.Aggregate)
	assert.Contains(t, c.Description, "Hay varias opciones")
	assert.Contains(t, c.Description, "- Coursera")
	assert.NotContains(t, c.Description, "null")
}

func TestNormalizeSearchEmptyObject(t *testing.T) {
	result := NormalizeSearch(map[string]interface{}{})
	assert.Equal(t, OutcomeEmpty, result.Outcome)
	assert.Empty(t, result.Candidates)
}

func TestNormalizeSearchNilPayload(t *testing.T) {
	result := NormalizeSearch(nil)
	assert.Equal(t, OutcomeNoPayload, result.Outcome)
	assert.Empty(t, result.Candidates)
}

func TestNormalizeSearchAllNullSentinels(t *testing.T) {
	// The upstream AI service sometimes returns the string "null" instead
	// of an actual null. No candidate may be synthesized from that.
	payload := map[string]interface{}{
		"respuesta":    "null",
		"resumen":      "NULL",
		"puntos_clave": []interface{}{"null", "undefined"},
	}

	result := NormalizeSearch(payload)

	assert.Equal(t, OutcomeEmpty, result.Outcome)
	assert.Empty(t, result.Candidates)
}

func TestNormalizeSearchAllBlankCourseList(t *testing.T) {
	payload := map[string]interface{}{
		"courses": []interface{}{
			map[string]interface{}{"title": "null"},
			map[string]interface{}{"title": ""},
		},
	}

	result := NormalizeSearch(payload)

	assert.Equal(t, OutcomeEmpty, result.Outcome)
	assert.Empty(t, result.Candidates)
}

func TestNormalizeSearchUnrecognizedShape(t *testing.T) {
	payload := map[string]interface{}{
		"weird": map[string]interface{}{"stuff": "that is not empty"},
	}

	result := NormalizeSearch(payload)

	assert.Equal(t, OutcomeUnrecognized, result.Outcome)
	assert.Empty(t, result.Candidates)
}

func TestNormalizeSearchWrappedData(t *testing.T) {
	payload := map[string]interface{}{
		"data": map[string]interface{}{
			"results": []interface{}{
				map[string]interface{}{"name": "Docker desde cero", "cost": "30"},
			},
		},
	}

	result := NormalizeSearch(payload)

	require.Equal(t, OutcomeCandidates, result.Outcome)
	require.Len(t, result.Candidates, 1)
	assert.Equal(t, "Docker desde cero", result.Candidates[0].Title)
	assert.Equal(t, 30.0, result.Candidates[0].PriceAmount)
}
