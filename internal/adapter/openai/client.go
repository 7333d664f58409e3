// internal/adapter/openai/client.go

package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"geonews/internal/logger"
	"geonews/internal/service/news"
)

const categoriesPlaceholder = "{{AVAILABLE_CATEGORIES}}"

// CategorySource supplies the category list injected into the analysis prompt.
type CategorySource interface {
	CommaSeparated(ctx context.Context) string
}

// Config contains configuration for the OpenAI client
type Config struct {
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float64

	// PromptDir holds the prompt template files
	PromptDir         string
	QueryAnalysisFile string
	SummaryFile       string
}

// Client is a chat-completions client implementing the news service's
// QueryAnalyzer and Summarizer. Prompt templates are loaded once at
// construction.
type Client struct {
	httpClient *http.Client
	config     Config
	categories CategorySource

	analysisPrompt string
	summaryPrompt  string
}

// NewClient creates an OpenAI client, loading prompt templates from disk.
func NewClient(config Config, categories CategorySource) (*Client, error) {
	analysisPrompt, err := os.ReadFile(filepath.Join(config.PromptDir, config.QueryAnalysisFile))
	if err != nil {
		return nil, fmt.Errorf("error loading query analysis prompt: %w", err)
	}
	summaryPrompt, err := os.ReadFile(filepath.Join(config.PromptDir, config.SummaryFile))
	if err != nil {
		return nil, fmt.Errorf("error loading summary prompt: %w", err)
	}

	logger.L().Info("openai_prompts_loaded",
		"dir", config.PromptDir,
		"analysis_chars", len(analysisPrompt),
		"summary_chars", len(summaryPrompt))

	return &Client{
		httpClient:     &http.Client{Timeout: 30 * time.Second},
		config:         config,
		categories:     categories,
		analysisPrompt: string(analysisPrompt),
		summaryPrompt:  string(summaryPrompt),
	}, nil
}

// AnalyzeQuery asks the model to classify a query into intents and
// entities. The model answers JSON, optionally fenced; fences are stripped
// before decoding.
func (c *Client) AnalyzeQuery(ctx context.Context, query string) (*news.Analysis, error) {
	prompt := strings.ReplaceAll(c.analysisPrompt, categoriesPlaceholder, c.categories.CommaSeparated(ctx))

	content, err := c.chatCompletion(ctx, prompt, query)
	if err != nil {
		return nil, fmt.Errorf("error analyzing query: %w", err)
	}

	content = stripJSONFences(content)

	var analysis news.Analysis
	if err := json.Unmarshal([]byte(content), &analysis); err != nil {
		return nil, fmt.Errorf("error decoding query analysis %q: %w", content, err)
	}
	return &analysis, nil
}

// Summarize asks the model for a short article summary.
func (c *Client) Summarize(ctx context.Context, title, description string) (string, error) {
	if description == "" {
		description = "No description available"
	}
	userMessage := fmt.Sprintf("Title: %s\nDescription: %s", title, description)

	content, err := c.chatCompletion(ctx, c.summaryPrompt, userMessage)
	if err != nil {
		return "", fmt.Errorf("error generating summary: %w", err)
	}
	return content, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Temperature float64       `json:"temperature"`
	Model       string        `json:"model"`
	MaxTokens   int           `json:"max_tokens"`
	Messages    []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *Client) chatCompletion(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Temperature: c.config.Temperature,
		Model:       c.config.Model,
		MaxTokens:   500,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userMessage},
		},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.config.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("error calling completion API: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 2<<20))
	if err != nil {
		return "", fmt.Errorf("error reading completion response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("completion API returned status %d: %s", resp.StatusCode, respBody)
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("error decoding completion response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("completion response has no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}

func stripJSONFences(content string) string {
	content = strings.ReplaceAll(content, "```json", "")
	content = strings.ReplaceAll(content, "```", "")
	return strings.TrimSpace(content)
}
