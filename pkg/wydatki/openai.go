package wydatki

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/DimaStam/expenses-bot/pkg/services"
)

const defaultModel = "gpt-4.1-mini"

const openAIURL = "https://api.openai.com/v1/chat/completions"

const systemPrompt = `You are an expense data extractor for a Polish personal finance bot.
From the user's text, extract:
- amount: float in PLN (no currency symbol),
- date: in format DD.MM.YYYY (assume current year if year is missing),
- place: only the store or location name.

Respond ONLY in valid JSON, with keys: amount, date, place.
Example: {"amount": 200.0, "date": "15.07.2025", "place": "Biedronka"}`

// ErrMalformedResponse is returned when the model reply is not valid JSON.
// Treated the same as a service failure: no record, no retry.
var ErrMalformedResponse = errors.New("malformed extractor response")

// OpenAI extracts expense records with a single deterministic chat
// completion per invocation.
type OpenAI struct {
	token   string
	model   string
	baseURL string
}

func NewOpenAI(token, model string) *OpenAI {
	if model == "" {
		model = defaultModel
	}

	return &OpenAI{
		token:   token,
		model:   model,
		baseURL: openAIURL,
	}
}

type chatRequest struct {
	Model       string  `json:"model"`
	Temperature float64 `json:"temperature"`
	ResponseFormat struct {
		Type string `json:"type"`
	} `json:"response_format"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type ChatRole string

const (
	SystemRole ChatRole = "system"
	UserRole   ChatRole = "user"
)

func (o *OpenAI) callChat(ctx context.Context, userPrompt string) (string, error) {
	reqBody := chatRequest{
		Model:       o.model,
		Temperature: 0,
		Messages: []chatMessage{
			{Role: string(SystemRole), Content: systemPrompt},
			{Role: string(UserRole), Content: userPrompt},
		},
	}
	reqBody.ResponseFormat.Type = "json_object"

	jsonData, _ := json.Marshal(reqBody)

	req, _ := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL, bytes.NewBuffer(jsonData))

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.token)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("api error: %s", string(body))
	}

	var result chatResponse
	err = json.Unmarshal(body, &result)
	if err != nil {
		return "", fmt.Errorf("failed to parse openai response: %w", err)
	}

	if len(result.Choices) == 0 {
		return "", errors.New("no response from openai")
	}

	return result.Choices[0].Message.Content, nil
}

// buildExpensePrompt embeds the reference date so the model can resolve
// "wczoraj" and dates with the year omitted.
func buildExpensePrompt(text string, referenceDate time.Time) string {
	return fmt.Sprintf("Today is %s.\nText: %q\n", referenceDate.Format("02.01.2006"), text)
}

// Extract performs exactly one outbound call and parses the reply strictly
// as JSON. Any failure yields no record; there is no fallback path.
func (o *OpenAI) Extract(ctx context.Context, text string, referenceDate time.Time) (*services.Record, error) {
	response, err := o.callChat(ctx, buildExpensePrompt(text, referenceDate))
	if err != nil {
		return nil, fmt.Errorf("openai api call failed: %w", err)
	}

	var rec services.Record
	if err := json.Unmarshal([]byte(response), &rec); err != nil {
		return nil, fmt.Errorf("%w: %v, response: %s", ErrMalformedResponse, err, response)
	}

	if err := rec.Validate(); err != nil {
		return nil, err
	}

	return &rec, nil
}
