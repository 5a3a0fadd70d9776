package products

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHighlight(t *testing.T) {
	tests := []struct {
		name  string
		value string
		term  string
		want  string
	}{
		{"empty term", "Tarjeta Oro", "", "Tarjeta Oro"},
		{"empty value", "", "oro", ""},
		{"case insensitive", "Tarjeta de Crédito Oro", "oro", `Tarjeta de Crédito <mark class="highlight">Oro</mark>`},
		{"every match", "ana y Ana", "ana", `<mark class="highlight">ana</mark> y <mark class="highlight">Ana</mark>`},
		{"regexp metacharacters", "tasa 5.5% (fija)", "(fija)", `tasa 5.5% <mark class="highlight">(fija)</mark>`},
		{"escapes html", "<b>Oro</b>", "oro", `&lt;b&gt;<mark class="highlight">Oro</mark>&lt;/b&gt;`},
		{"no match", "Seguro", "tarjeta", "Seguro"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Highlight(tt.value, tt.term))
		})
	}
}
