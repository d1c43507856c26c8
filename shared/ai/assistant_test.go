package ai

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"drone-dashboard/internal/models"
	"drone-dashboard/shared/config"
)

type fakeGenerator struct {
	response string
	err      error
	prompts  []string
	models   []string
}

func (f *fakeGenerator) Generate(ctx context.Context, model, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	f.models = append(f.models, model)
	return f.response, f.err
}

var testSummary = models.WeatherSummary{
	City:        "Machala",
	Temperature: "26.4 °C",
	Humidity:    "82 %",
	Condition:   "Wind 4.1 m/s",
}

func TestNewAssistantWithoutKey(t *testing.T) {
	assistant := NewAssistant(&config.AIConfig{Model: "gemini-2.5-flash"})

	result := assistant.Ask(context.Background(), "Can I fly?", testSummary)
	if result.Answer != "" {
		t.Errorf("expected no answer, got %q", result.Answer)
	}
	if result.Error != ErrNotConfigured.Error() {
		t.Errorf("Error = %q, want %q", result.Error, ErrNotConfigured.Error())
	}
}

func TestAsk(t *testing.T) {
	tests := []struct {
		name       string
		response   string
		err        error
		wantAnswer string
		wantError  string
	}{
		{
			name:       "JSON answer",
			response:   `{"answer": "Yes, winds are light."}`,
			wantAnswer: "Yes, winds are light.",
		},
		{
			name:       "JSON answer wrapped in markdown",
			response:   "```json\n{\"answer\": \"Fly before noon.\"}\n```",
			wantAnswer: "Fly before noon.",
		},
		{
			name:      "JSON business error",
			response:  `{"error": "Question is not about the weather"}`,
			wantError: "Question is not about the weather",
		},
		{
			name:       "Plain text answer",
			response:   "  Conditions look fine.  ",
			wantAnswer: "Conditions look fine.",
		},
		{
			name:      "Empty response",
			response:  "   ",
			wantError: ErrEmptyResponse.Error(),
		},
		{
			name:      "Empty JSON object",
			response:  `{}`,
			wantError: ErrEmptyResponse.Error(),
		},
		{
			name:      "Transport failure",
			err:       errors.New("401 unauthorized"),
			wantError: "assistant request failed: 401 unauthorized",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &fakeGenerator{response: tt.response, err: tt.err}
			assistant := &Assistant{generator: gen, model: "test-model", timeout: time.Second}

			result := assistant.Ask(context.Background(), "Can I fly?", testSummary)

			if result.Answer != tt.wantAnswer {
				t.Errorf("Answer = %q, want %q", result.Answer, tt.wantAnswer)
			}
			if result.Error != tt.wantError {
				t.Errorf("Error = %q, want %q", result.Error, tt.wantError)
			}
			if result.Answer != "" && result.Error != "" {
				t.Error("result must not carry both an answer and an error")
			}
			if len(gen.prompts) != 1 {
				t.Errorf("expected exactly one request, got %d", len(gen.prompts))
			}
			if gen.models[0] != "test-model" {
				t.Errorf("model = %s, want test-model", gen.models[0])
			}
		})
	}
}

func TestBuildPromptIncludesSummaryAndQuestion(t *testing.T) {
	prompt := buildPrompt("  Is it safe to fly my DJI Neo?  ", testSummary)

	for _, want := range []string{
		"City: Machala",
		"Temperature: 26.4 °C",
		"Humidity: 82 %",
		"Condition: Wind 4.1 m/s",
		"Is it safe to fly my DJI Neo?",
		`{"answer"`,
		`{"error"`,
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}
