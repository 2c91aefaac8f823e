// Package planner asks an external model for job-to-crew suggestions.
package planner

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"timeboss-backend/models"

	"github.com/tidwall/gjson"
)

const SystemPrompt = "You are an assistant that helps assign jobs to crews based on proximity, skills and workload. Provide suggestions in JSON format [{jobId: number, crewId: number}, ...]."

// ErrEmptyReply is returned when the model answered without content
var ErrEmptyReply = errors.New("planner returned no content")

// Planner proposes assignments for unassigned jobs. It returns the parsed
// suggestions and the raw model reply.
type Planner interface {
	Plan(ctx context.Context, jobs []*models.Job, crews []*models.Crew) ([]models.Suggestion, string, error)
}

// OpenAIPlanner calls an OpenAI compatible chat completions endpoint
type OpenAIPlanner struct {
	APIKey  string
	BaseURL string
	Model   string
	HTTP    *http.Client
}

func NewOpenAIPlanner(apiKey, baseURL, model string, timeout time.Duration) *OpenAIPlanner {
	if model == "" {
		model = "gpt-4o"
	}
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	return &OpenAIPlanner{
		APIKey:  apiKey,
		BaseURL: strings.TrimRight(baseURL, "/"),
		Model:   model,
		HTTP:    &http.Client{Timeout: timeout},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

func (p *OpenAIPlanner) Plan(ctx context.Context, jobs []*models.Job, crews []*models.Crew) ([]models.Suggestion, string, error) {
	jobsJSON, err := json.Marshal(jobs)
	if err != nil {
		return nil, "", err
	}
	crewsJSON, err := json.Marshal(crews)
	if err != nil {
		return nil, "", err
	}

	body, err := json.Marshal(chatRequest{
		Model: p.Model,
		Messages: []chatMessage{
			{Role: "system", Content: SystemPrompt},
			{Role: "user", Content: fmt.Sprintf("Jobs: %s\nCrews: %s", jobsJSON, crewsJSON)},
		},
	})
	if err != nil {
		return nil, "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.APIKey)

	resp, err := p.HTTP.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("planner request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, "", err
	}
	if resp.StatusCode != http.StatusOK {
		msg := gjson.GetBytes(raw, "error.message").String()
		return nil, "", fmt.Errorf("planner returned status %d: %s", resp.StatusCode, msg)
	}

	content := gjson.GetBytes(raw, "choices.0.message.content").String()
	if strings.TrimSpace(content) == "" {
		return nil, "", ErrEmptyReply
	}

	suggestions, err := ParseSuggestions(content, jobs, crews)
	if err != nil {
		return nil, content, err
	}
	return suggestions, content, nil
}

// ParseSuggestions decodes a reply of the form [{"jobId":1,"crewId":2}], optionally
// wrapped in a markdown code fence. Pairs naming unknown jobs or crews are dropped.
func ParseSuggestions(content string, jobs []*models.Job, crews []*models.Crew) ([]models.Suggestion, error) {
	text := stripFence(content)

	var parsed []models.Suggestion
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return nil, fmt.Errorf("planner reply is not a suggestion list: %w", err)
	}

	jobIDs := make(map[int]bool, len(jobs))
	for _, j := range jobs {
		jobIDs[j.ID] = true
	}
	crewIDs := make(map[int]bool, len(crews))
	for _, c := range crews {
		crewIDs[c.ID] = true
	}

	out := make([]models.Suggestion, 0, len(parsed))
	seen := make(map[int]bool, len(parsed))
	for _, s := range parsed {
		if !jobIDs[s.JobID] || !crewIDs[s.CrewID] || seen[s.JobID] {
			continue
		}
		seen[s.JobID] = true
		out = append(out, s)
	}
	return out, nil
}

func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		// drop the language tag line, e.g. ```json
		s = s[nl+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
