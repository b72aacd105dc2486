package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	// DefaultFireworksBaseURL speaks the OpenAI chat completions protocol.
	DefaultFireworksBaseURL = "https://api.fireworks.ai/inference/v1"
	DefaultFireworksModel   = "accounts/fireworks/models/firefunction-v2"
)

// OpenAIProvider implements ToolCaller against any OpenAI-compatible
// chat completions endpoint (Fireworks, OpenAI, local gateways).
type OpenAIProvider struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

// NewOpenAIProvider returns a provider for baseURL. A nil client means http.DefaultClient.
func NewOpenAIProvider(baseURL, apiKey, model string, client *http.Client) *OpenAIProvider {
	if client == nil {
		client = http.DefaultClient
	}
	return &OpenAIProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		client:  client,
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Tools       []chatTool    `json:"tools"`
	Temperature float32       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatTool struct {
	Type     string       `json:"type"`
	Function chatFunction `json:"function"`
}

type chatFunction struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Role      string `json:"role"`
			Content   string `json:"content"`
			ToolCalls []struct {
				ID       string `json:"id"`
				Type     string `json:"type"`
				Function struct {
					Name      string `json:"name"`
					Arguments string `json:"arguments"`
				} `json:"function"`
			} `json:"tool_calls"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// CallTool posts one chat completion with the single declared tool.
func (p *OpenAIProvider) CallTool(ctx context.Context, tr ToolRequest) ([]ToolInvocation, error) {
	msgs := make([]chatMessage, 0, len(tr.Messages))
	for _, m := range tr.Messages {
		msgs = append(msgs, chatMessage{Role: string(m.Role), Content: m.Content})
	}

	reqBody, err := json.Marshal(chatRequest{
		Model:       p.model,
		Messages:    msgs,
		Tools:       []chatTool{{Type: "function", Function: openAIFunction(tr.Tool)}},
		Temperature: tr.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("openai: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("openai: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openai: do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("openai: read response: %w", err)
	}

	var cr chatResponse
	if err := json.Unmarshal(body, &cr); err != nil {
		return nil, fmt.Errorf("openai: unmarshal response (status %d): %w", resp.StatusCode, err)
	}
	if cr.Error != nil {
		return nil, fmt.Errorf("openai: api error (status %d): %s", resp.StatusCode, cr.Error.Message)
	}
	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("openai: unexpected status %d", resp.StatusCode)
	}
	if len(cr.Choices) == 0 {
		return nil, fmt.Errorf("openai: API returned empty choices array (raw: %s)", body)
	}

	calls := cr.Choices[0].Message.ToolCalls
	out := make([]ToolInvocation, 0, len(calls))
	for _, c := range calls {
		out = append(out, ToolInvocation{
			Name:      c.Function.Name,
			Arguments: json.RawMessage(c.Function.Arguments),
		})
	}
	return out, nil
}

// openAIFunction renders a ToolDefinition as a JSON schema function declaration.
func openAIFunction(def ToolDefinition) chatFunction {
	props := make(map[string]any, len(def.Parameters.Properties))
	for _, p := range def.Parameters.Properties {
		props[p.Name] = map[string]any{
			"type":        p.Type,
			"description": p.Description,
		}
	}
	required := def.Parameters.Required
	if required == nil {
		required = []string{}
	}
	return chatFunction{
		Name:        def.Name,
		Description: def.Description,
		Parameters: map[string]any{
			"type":       "object",
			"properties": props,
			"required":   required,
		},
	}
}
