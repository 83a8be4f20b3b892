package llm

import (
	"math"
	"testing"
)

func TestCostTableCost(t *testing.T) {
	table := DefaultCostTable()

	tests := []struct {
		name   string
		model  string
		tokens int
		want   float64
	}{
		{name: "gpt-3.5-turbo", model: "gpt-3.5-turbo", tokens: 1000, want: 0.002},
		{name: "gpt-4", model: "gpt-4", tokens: 1000, want: 0.03},
		{name: "gpt-4-turbo", model: "gpt-4-turbo", tokens: 2000, want: 0.02},
		{name: "unknown model falls back to default", model: "mystery-model", tokens: 1000, want: 0.002},
		{name: "zero tokens", model: "gpt-4", tokens: 0, want: 0},
		{name: "fractional thousand", model: "gpt-3.5-turbo", tokens: 500, want: 0.001},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := table.Cost(tt.model, tt.tokens)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Cost(%q, %d) = %v, want %v", tt.model, tt.tokens, got, tt.want)
			}
		})
	}
}

func TestCostTableImageCost(t *testing.T) {
	table := DefaultCostTable()

	if got := table.ImageCost(1); math.Abs(got-0.04) > 1e-9 {
		t.Errorf("ImageCost(1) = %v, want 0.04", got)
	}
	if got := table.ImageCost(3); math.Abs(got-0.12) > 1e-9 {
		t.Errorf("ImageCost(3) = %v, want 0.12", got)
	}
	if got := table.ImageCost(-1); got != 0 {
		t.Errorf("ImageCost(-1) = %v, want 0", got)
	}
}

func TestIsTransient(t *testing.T) {
	if !IsTransient(NewTransientError(503, "upstream down", nil)) {
		t.Error("transient error not recognized")
	}
	if IsTransient(NewPermanentError(400, "bad request", nil)) {
		t.Error("permanent error reported as transient")
	}
	if IsTransient(nil) {
		t.Error("nil reported as transient")
	}
}
