package review

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const systemPrompt = `You are an expert building inspector analyzing architectural plans for compliance.
Distinguish between lintel level (typically 2.1m), wall plate level (typically 2.4-3.6m), and ceiling height.
Section drawings show vertical dimensions; floor plans show horizontal dimensions.
Different building types have different requirements (dwellings vs. commercial).
Respond with JSON: {"issues": [], "warnings": [], "suggestions": []} where each entry is a short finding string.`

const userPromptHeader = `Analyze the following architectural plan text against building standards.
Focus on:
1. Room heights (minimum 2.4m for dwellings, 2.9m for shops, 2.6m for other buildings)
2. Room dimensions (minimum 7 sq meters floor area with 2.1m minimum horizontal dimension)
3. Ceiling height coverage (75% of floor area, 50% for steeply pitched roofs)
4. Access areas (minimum 2.1m height near doors/windows or within 1.5m of walls)
5. Structural heights (lintel level, wall plate level, maximum roof height)
6. Safety requirements (fire exits, structural integrity)
7. Window and door schedules (WO1/W1 for windows, DO1/D1 for doors)

Do NOT flag a lintel level of 2.1m as a room height violation; room height is indicated
by wall plate level or ceiling height. Assume compliance where there is no explicit
evidence of violation.

DOCUMENT TEXT:
`

// maxPromptTokens bounds the request; roughly 4 characters per token, with
// headroom reserved for the prompts themselves.
const maxPromptTokens = 6000

// OpenAIClient calls an OpenAI-compatible chat completions endpoint.
type OpenAIClient struct {
	endpoint string
	apiKey   string
	model    string
	client   *http.Client
}

// NewOpenAIClient builds a reviewer against the given chat completions API.
func NewOpenAIClient(endpoint, apiKey, model string, timeout time.Duration) *OpenAIClient {
	return &OpenAIClient{
		endpoint: strings.TrimRight(endpoint, "/"),
		apiKey:   apiKey,
		model:    model,
		client: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

var _ Reviewer = (*OpenAIClient)(nil)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	Temperature    float64       `json:"temperature"`
	MaxTokens      int           `json:"max_tokens"`
	ResponseFormat struct {
		Type string `json:"type"`
	} `json:"response_format"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	} `json:"error"`
}

// Review sends the plan text for analysis and parses the categorized JSON
// reply.
func (c *OpenAIClient) Review(ctx context.Context, text string) (*Findings, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("reviewer api key is not configured")
	}

	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPromptHeader + trimToTokenBudget(text, maxPromptTokens)},
		},
		Temperature: 0.2,
		MaxTokens:   1000,
	}
	reqBody.ResponseFormat.Type = "json_object"

	b, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/chat/completions", bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("reviewer request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("reviewer returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var cr chatResponse
	if err := json.Unmarshal(body, &cr); err != nil {
		return nil, fmt.Errorf("failed to decode reviewer response: %w", err)
	}
	if cr.Error != nil {
		return nil, fmt.Errorf("reviewer error: %s", cr.Error.Message)
	}
	if len(cr.Choices) == 0 {
		return nil, fmt.Errorf("reviewer returned no choices")
	}

	return parseFindings(cr.Choices[0].Message.Content)
}

func parseFindings(content string) (*Findings, error) {
	var f Findings
	if err := json.Unmarshal([]byte(content), &f); err != nil {
		return nil, fmt.Errorf("failed to parse reviewer findings: %w", err)
	}
	return &f, nil
}

func estimateTokens(text string) int {
	return (len(text) + 3) / 4
}

// trimToTokenBudget reduces the text to fit the prompt budget, preferring
// paragraphs dense in building vocabulary when the whole text will not fit.
func trimToTokenBudget(text string, maxTokens int) string {
	budget := maxTokens - 1000
	if estimateTokens(text) <= budget {
		return text
	}

	keyPhrases := []string{
		"height", "dimension", "room", "ceiling", "floor", "area", "building",
		"wall", "window", "door", "safety", "compliance", "regulation", "standard",
		"requirement", "minimum", "maximum", "measurement", "specification",
	}

	paragraphs := strings.Split(text, "\n\n")
	type scored struct {
		text  string
		score int
	}
	ranked := make([]scored, 0, len(paragraphs))
	for _, p := range paragraphs {
		lower := strings.ToLower(p)
		s := 0
		for _, phrase := range keyPhrases {
			if strings.Contains(lower, phrase) {
				s++
			}
		}
		ranked = append(ranked, scored{text: p, score: s})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	if len(ranked) > 10 {
		ranked = ranked[:10]
	}
	parts := make([]string, 0, len(ranked))
	for _, r := range ranked {
		parts = append(parts, r.text)
	}
	combined := strings.Join(parts, "\n\n")

	if estimateTokens(combined) > budget {
		combined = combined[:budget*4]
	}
	return combined
}
