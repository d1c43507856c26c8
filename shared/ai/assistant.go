package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"drone-dashboard/internal/models"
	"drone-dashboard/shared/config"
	"drone-dashboard/shared/monitoring"

	log "github.com/sirupsen/logrus"
	"google.golang.org/genai"
)

// ErrNotConfigured is reported when no API key is available
var ErrNotConfigured = errors.New("assistant is not configured (set GEMINI_API_KEY or ai.gemini_api_key)")

// ErrEmptyResponse is reported when the model returns no text
var ErrEmptyResponse = errors.New("assistant returned an empty response")

// generator produces a completion for a single prompt
type generator interface {
	Generate(ctx context.Context, model, prompt string) (string, error)
}

type geminiGenerator struct {
	client *genai.Client
}

func (g *geminiGenerator) Generate(ctx context.Context, model, prompt string) (string, error) {
	parts := []*genai.Part{
		genai.NewPartFromText(prompt),
	}

	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}

	result, err := g.client.Models.GenerateContent(ctx, model, contents, nil)
	if err != nil {
		return "", err
	}

	return result.Text(), nil
}

// Assistant answers free-text drone weather questions
type Assistant struct {
	generator generator
	initErr   error
	model     string
	timeout   time.Duration
}

// NewAssistant never fails: configuration problems are reported by Ask.
func NewAssistant(cfg *config.AIConfig) *Assistant {
	a := &Assistant{
		model:   cfg.Model,
		timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
	}

	if cfg.GeminiAPIKey == "" {
		log.Warn("No Gemini API key configured, assistant questions will return an error")
		a.initErr = ErrNotConfigured
		return a
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		log.WithError(err).Error("Failed to create Gemini client")
		a.initErr = fmt.Errorf("failed to create Gemini client: %w", err)
		return a
	}

	a.generator = &geminiGenerator{client: client}
	return a
}

// Ask sends the question with the weather summary in a single round trip.
// The result always holds exactly one of Answer or Error.
func (a *Assistant) Ask(ctx context.Context, question string, summary models.WeatherSummary) models.AskResult {
	start := time.Now()

	result := a.ask(ctx, question, summary)

	status := "answer"
	if result.Error != "" {
		status = "error"
		log.WithField("city", summary.City).Warnf("Assistant query failed: %s", result.Error)
	}
	monitoring.RecordAssistantRequest(status, time.Since(start))

	return result
}

func (a *Assistant) ask(ctx context.Context, question string, summary models.WeatherSummary) models.AskResult {
	if a.initErr != nil {
		return models.AskResult{Error: a.initErr.Error()}
	}
	if a.generator == nil {
		return models.AskResult{Error: ErrNotConfigured.Error()}
	}

	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	prompt := buildPrompt(question, summary)

	text, err := a.generator.Generate(ctx, a.model, prompt)
	if err != nil {
		return models.AskResult{Error: fmt.Sprintf("assistant request failed: %v", err)}
	}

	return parseResponse(text)
}

func buildPrompt(question string, summary models.WeatherSummary) string {
	return fmt.Sprintf(`You are an assistant that helps drone pilots decide whether and how to fly given the current weather.

CURRENT WEATHER:
City: %s
Temperature: %s
Humidity: %s
Condition: %s

QUESTION:
%s

Answer briefly and practically, using the weather above. Reply with JSON only, in one of these forms:
{"answer": "your answer"}
{"error": "why the question cannot be answered"}`,
		summary.City,
		summary.Temperature,
		summary.Humidity,
		summary.Condition,
		strings.TrimSpace(question),
	)
}

// parseResponse extracts the answer/error JSON, accepting plain text as an answer.
func parseResponse(response string) models.AskResult {
	response = strings.TrimSpace(response)
	if response == "" {
		return models.AskResult{Error: ErrEmptyResponse.Error()}
	}

	startIdx := strings.Index(response, "{")
	endIdx := strings.LastIndex(response, "}")
	if startIdx == -1 || endIdx <= startIdx {
		return models.AskResult{Answer: response}
	}

	var result struct {
		Answer string `json:"answer"`
		Error  string `json:"error"`
	}
	if err := json.Unmarshal([]byte(response[startIdx:endIdx+1]), &result); err != nil {
		log.WithError(err).Debug("Assistant response was not JSON, using raw text")
		return models.AskResult{Answer: response}
	}

	switch {
	case strings.TrimSpace(result.Error) != "":
		return models.AskResult{Error: strings.TrimSpace(result.Error)}
	case strings.TrimSpace(result.Answer) != "":
		return models.AskResult{Answer: strings.TrimSpace(result.Answer)}
	default:
		return models.AskResult{Error: ErrEmptyResponse.Error()}
	}
}
