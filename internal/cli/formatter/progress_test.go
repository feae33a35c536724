package formatter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderProgress(t *testing.T) {
	tests := []struct {
		name  string
		pct   float64
		width int
		want  string
	}{
		{"empty", 0, 4, "[░░░░]   0%"},
		{"half", 0.5, 4, "[██░░]  50%"},
		{"full", 1, 4, "[████] 100%"},
		{"over 100% clamps", 1.5, 4, "[████] 100%"},
		{"negative clamps", -0.5, 4, "[░░░░]   0%"},
		{"tiny width clamps to 2", 0.5, 1, "[█░]  50%"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripANSI(RenderProgress(tt.pct, tt.width)))
		})
	}
}

func TestRenderStepSegments(t *testing.T) {
	got := stripANSI(RenderStepSegments(3, 8, "Curriculum"))
	assert.True(t, strings.HasPrefix(got, "███░░░░░"))
	assert.Contains(t, got, "Step 3 of 8 · Curriculum")

	assert.Empty(t, RenderStepSegments(0, 8, ""))
	assert.Empty(t, RenderStepSegments(9, 8, ""))
}
