// Package pipeline implements the sequential execution engine. A pipeline
// is an ordered Step sequence; each step's output is the next step's
// input, so overlapping pattern classes interact and step order matters.
package pipeline

import (
	"context"
	"strings"

	"github.com/iaramer/dobbi/internal/core/domain"
	"github.com/iaramer/dobbi/internal/pool"
	"github.com/iaramer/dobbi/internal/ports"
)

// Finalize controls what happens to the text once the last step ran.
type Finalize struct {
	// CollapseWhitespace collapses whitespace runs to single spaces and
	// trims the ends. Applied once per execution, never between steps.
	CollapseWhitespace bool
	// Lowercase lowercases the final result.
	Lowercase bool
}

// Engine applies Step sequences to input text. An Engine is stateless
// apart from its logger and builder pool and is safe for concurrent use.
type Engine struct {
	logger   ports.Logger
	builders *pool.BuilderPool
}

// NewEngine creates an engine that logs through the given logger.
func NewEngine(logger ports.Logger) *Engine {
	return &Engine{
		logger:   logger,
		builders: pool.NewBuilderPool(),
	}
}

// Run threads text through every step in insertion order and applies the
// finalization pass. The input steps are read-only; repeated runs over
// different inputs are safe.
func (e *Engine) Run(ctx context.Context, steps []domain.Step, text string, fin Finalize) (string, error) {
	e.logger.Debug("running pipeline", "steps", len(steps), "input_length", len(text))

	for _, step := range steps {
		select {
		case <-ctx.Done():
			e.logger.Error("pipeline cancelled", "step", step.Name, "error", ctx.Err())
			return "", ctx.Err()
		default:
		}
		text = step.Transform(text)
		e.logger.Debug("applied step", "step", step.Name, "length", len(text))
	}

	if fin.CollapseWhitespace {
		text = e.collapse(text)
	}
	if fin.Lowercase {
		text = strings.ToLower(text)
	}
	return text, nil
}

// Collect accumulates every step's matches against the unmodified input,
// in step order then encounter order.
func (e *Engine) Collect(ctx context.Context, steps []domain.Step, text string) ([]string, error) {
	e.logger.Debug("collecting matches", "steps", len(steps), "input_length", len(text))

	var matches []string
	for _, step := range steps {
		select {
		case <-ctx.Done():
			e.logger.Error("collection cancelled", "step", step.Name, "error", ctx.Err())
			return nil, ctx.Err()
		default:
		}
		found := step.Extract(text)
		e.logger.Debug("collected step matches", "step", step.Name, "matches", len(found))
		matches = append(matches, found...)
	}
	return matches, nil
}

// Counts tallies match frequencies per step name across all inputs.
// Matches are keyed by the step's Describe mapping, so emoji and emoticon
// occurrences are counted under their description tokens.
func (e *Engine) Counts(ctx context.Context, steps []domain.Step, texts []string) (map[string]map[string]int, error) {
	result := make(map[string]map[string]int, len(steps))
	for _, text := range texts {
		for _, step := range steps {
			select {
			case <-ctx.Done():
				e.logger.Error("counting cancelled", "step", step.Name, "error", ctx.Err())
				return nil, ctx.Err()
			default:
			}
			bucket := result[step.Name]
			if bucket == nil {
				bucket = make(map[string]int)
				result[step.Name] = bucket
			}
			for _, match := range step.Extract(text) {
				bucket[step.Describe(match)]++
			}
		}
	}
	return result, nil
}

// collapse joins the whitespace-separated fields of text with single
// spaces, trimming both ends as a side effect.
func (e *Engine) collapse(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return ""
	}

	sb := e.builders.Get()
	defer e.builders.Put(sb)
	sb.Grow(len(text))
	for i, field := range fields {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(field)
	}
	return sb.String()
}
