// Package enrich provides the AI enrichment collaborator backed by the
// Anthropic messages API. Each tier returns a JSON-shaped partial insight
// record; failures are classified into fault kinds at this boundary.
package enrich

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/velvetrock/gitscout/internal/config"
	"github.com/velvetrock/gitscout/internal/fault"
	"github.com/velvetrock/gitscout/internal/logging"
	"github.com/velvetrock/gitscout/pkg/models"
)

const systemPrompt = `You analyse GitHub issues and repositories for a developer
deciding what to work on. Respond with a single JSON object and nothing else.
Use only the keys you are asked for. Omit a key entirely when you cannot judge it.`

// Client is the Anthropic-backed enricher.
type Client struct {
	client anthropic.Client
	model  string
}

// NewClient creates an enrichment client from configuration.
func NewClient() (*Client, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := config.ValidateAnthropicConfig(cfg); err != nil {
		return nil, err
	}

	logging.Info("enrichment configuration",
		"model", cfg.Anthropic.Model,
		"api_key", logging.MaskSensitive(cfg.Anthropic.APIKey))

	return &Client{
		client: anthropic.NewClient(option.WithAPIKey(cfg.Anthropic.APIKey)),
		model:  cfg.Anthropic.Model,
	}, nil
}

// EnrichBasic requests the summary-level insight fields for an entity.
func (c *Client) EnrichBasic(ctx context.Context, entity models.Entity) (models.AIInsight, error) {
	prompt := fmt.Sprintf(`%s

Return JSON with these keys:
  "difficulty": one of "easy", "medium", "hard"
  "match_score": integer 0-100, fit for a newcomer to this codebase
  "estimated_time": short free-text estimate, e.g. "2-4 hours"
  "skills": array of skill names needed, most important first
  "summary": two sentences on what this is about
  "activity_level": one of "low", "moderate", "high"`, describe(entity))

	return c.enrich(ctx, entity, prompt)
}

// EnrichAdvanced requests the deeper guidance fields for an entity.
func (c *Client) EnrichAdvanced(ctx context.Context, entity models.Entity) (models.AIInsight, error) {
	prompt := fmt.Sprintf(`%s

Return JSON with these keys:
  "cause": one paragraph on the likely underlying cause or motivation
  "approach": array of concrete steps to tackle it, in order
  "files_to_explore": array of repository paths worth reading first
  "code_quality": integer 0-100
  "community_score": integer 0-100, responsiveness of maintainers`, describe(entity))

	return c.enrich(ctx, entity, prompt)
}

func (c *Client) enrich(ctx context.Context, entity models.Entity, prompt string) (models.AIInsight, error) {
	msg, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: 1024,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return models.AIInsight{}, classify(entity.Ref.ID(), err)
	}

	var text string
	for _, block := range msg.Content {
		if block.Text != "" {
			text = block.Text
			break
		}
	}
	if text == "" {
		return models.AIInsight{}, fault.New(fault.KindUnknown, "empty enrichment response")
	}

	insight, err := parseInsight(text)
	if err != nil {
		logging.Warn("unparseable enrichment response", "entity", entity.Ref.ID(), "error", err)
		return models.AIInsight{}, fault.Wrap(fault.KindUnknown, "parse enrichment response", err)
	}

	return insight, nil
}

// classify translates an Anthropic API failure into a fault kind.
func classify(id string, err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		kind := fault.FromStatus(apiErr.StatusCode)
		logging.Warn("enrichment request failed",
			"entity", id,
			"status_code", apiErr.StatusCode,
			"kind", kind)
		return fault.Wrap(kind, "enrichment request failed", err)
	}
	return fault.Wrap(fault.KindUnknown, "enrichment request failed", err)
}

// parseInsight extracts the JSON object from a response that may carry
// stray prose or code fences around it.
func parseInsight(text string) (models.AIInsight, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return models.AIInsight{}, fmt.Errorf("no JSON object in response")
	}

	var insight models.AIInsight
	if err := json.Unmarshal([]byte(text[start:end+1]), &insight); err != nil {
		return models.AIInsight{}, err
	}
	return insight, nil
}

// describe renders the entity for the prompt.
func describe(entity models.Entity) string {
	var b strings.Builder
	if entity.Ref.Kind == models.KindIssue {
		fmt.Fprintf(&b, "Issue %s: %s\n", entity.Ref.ID(), entity.Title)
		if len(entity.Labels) > 0 {
			fmt.Fprintf(&b, "Labels: %s\n", strings.Join(entity.Labels, ", "))
		}
	} else {
		fmt.Fprintf(&b, "Repository %s", entity.Title)
		if entity.Language != "" {
			fmt.Fprintf(&b, " (%s)", entity.Language)
		}
		fmt.Fprintf(&b, ", %d stars\n", entity.Stars)
	}
	if entity.Description != "" {
		body := entity.Description
		if r := []rune(body); len(r) > 4000 {
			body = string(r[:4000])
		}
		fmt.Fprintf(&b, "\n%s", body)
	}
	return b.String()
}
