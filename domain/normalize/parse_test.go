package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractDurationHours(t *testing.T) {
	tests := []struct {
		name string
		text string
		want float64
	}{
		{"plain hours", "3 h", 3},
		{"hours word", "12 hours", 12},
		{"spanish hours", "40 horas de video", 40},
		{"weeks", "2 weeks", 80},
		{"spanish weeks", "6 semanas", 240},
		{"months", "1 month", 160},
		{"spanish months", "3 meses", 480},
		{"hours win over weeks", "10 horas por semana", 10},
		{"empty", "", 0},
		{"null sentinel", "null", 0},
		{"no number", "self paced", 0},
		{"decimal hours", "1.5 hrs", 1.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractDurationHours(tt.text))
		})
	}
}

func TestExtractPrice(t *testing.T) {
	tests := []struct {
		name string
		text string
		want float64
	}{
		{"gratis", "Gratis", 0},
		{"free embedded", "Free trial available", 0},
		{"dollar amount", "$45 USD", 45},
		{"plain number", "300", 300},
		{"number in text", "aprox. 120 euros", 120},
		{"empty", "", 0},
		{"undefined sentinel", "undefined", 0},
		{"unpriced text", "No especificado", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractPrice(tt.text))
		})
	}
}

func TestIsBlank(t *testing.T) {
	assert.True(t, IsBlank(nil))
	assert.True(t, IsBlank(""))
	assert.True(t, IsBlank("   "))
	assert.True(t, IsBlank("null"))
	assert.True(t, IsBlank("NULL"))
	assert.True(t, IsBlank("Undefined"))
	assert.False(t, IsBlank("Curso de Go"))
	assert.False(t, IsBlank(0.0))
	assert.False(t, IsBlank(false))
}
