package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/resume-analyzer/internal/logging"
	"github.com/jonathan/resume-analyzer/internal/prompts"
	"github.com/jonathan/resume-analyzer/internal/types"
)

const coachingPrompts = "coaching.json"

// Coach turns an analysis into short, prioritized advice.
type Coach struct {
	client Client
	logger *zap.Logger
}

// NewCoach creates a Coach backed by client.
func NewCoach(client Client, logger *zap.Logger) *Coach {
	return &Coach{client: client, logger: logging.OrNop(logger)}
}

// Advise asks the model for coaching notes on result.
func (c *Coach) Advise(ctx context.Context, result *types.AnalysisResult) (*types.Coaching, error) {
	prompt, err := prompts.Render(coachingPrompts, "advise", map[string]string{
		"Role":          result.RoleDetected,
		"ProfileType":   result.ProfileType,
		"OverallScore":  strconv.FormatFloat(result.OverallScore, 'f', 2, 64),
		"MatchedSkills": strings.Join(result.Skills.MatchedSkills, ", "),
		"MissingSkills": strings.Join(result.Skills.MissingSkills, ", "),
		"Weaknesses":    bulletList(result.Weaknesses),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build coaching prompt: %w", err)
	}

	raw, err := c.client.GenerateJSON(ctx, prompt, TierLite)
	if err != nil {
		return nil, fmt.Errorf("failed to generate coaching: %w", err)
	}
	c.logger.Debug("coaching response", zap.String("raw", logging.TruncateForLog(raw, 200)))

	var coaching types.Coaching
	if err := json.Unmarshal([]byte(raw), &coaching); err != nil {
		return nil, fmt.Errorf("failed to parse coaching response: %w", err)
	}
	if len(coaching.Priorities) > 5 {
		coaching.Priorities = coaching.Priorities[:5]
	}
	if err := coaching.Validate(); err != nil {
		return nil, fmt.Errorf("invalid coaching response: %w", err)
	}
	return &coaching, nil
}

func bulletList(items []string) string {
	if len(items) == 0 {
		return "- none"
	}
	var b strings.Builder
	for i, item := range items {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("- ")
		b.WriteString(item)
	}
	return b.String()
}
