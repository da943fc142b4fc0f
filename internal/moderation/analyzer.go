package moderation

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/openai/openai-go"

	"github.com/spacesedan/safegram/internal/clients"
	"github.com/spacesedan/safegram/internal/models"
	"github.com/spacesedan/safegram/internal/monitoring"
)

const (
	// moderationTemperature biases the model toward reproducible
	// categorical decisions. Exact determinism is not guaranteed.
	moderationTemperature = 0.2

	// classifierTimeout routes a stalled call into the fail-open fallback
	// instead of blocking the submission.
	classifierTimeout = 15 * time.Second

	// auditTimeout bounds the audit write separately from the classifier
	// deadline. A verdict that fell back on that deadline must still reach
	// the audit trail.
	auditTimeout = 3 * time.Second

	// fallbackExplanation is the sentinel carried by every fail-open
	// verdict. Tests key on it to detect the fallback path.
	fallbackExplanation = "Error analyzing content. System defaulted to allowing the comment."
)

// FailOpenCategory is applied when classification infrastructure fails: the
// system favors availability over strictness on its own malfunction. The
// policy layer holds the opposite default for semantic ambiguity
// (FailClosedCategory); the asymmetry is deliberate.
const FailOpenCategory = models.CategoryHarmless

// Completer produces the raw model response for one moderation prompt.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// AuditSink receives every analyzed candidate with its verdict. Sinks must
// swallow their own failures; auditing never affects a submission.
type AuditSink interface {
	LogVerdict(ctx context.Context, text string, verdict models.SafetyVerdict)
}

// verdict boundary outcomes. The fail-open conversion happens exactly once,
// in Analyze, keyed on these.
type verdictOutcome int

const (
	verdictOK verdictOutcome = iota
	verdictParseError
	verdictTransportError
)

type ContentAnalyzer struct {
	completer Completer
	audit     AuditSink
}

func NewContentAnalyzer(audit AuditSink) *ContentAnalyzer {
	return &ContentAnalyzer{completer: openAICompleter{}, audit: audit}
}

// NewContentAnalyzerWithCompleter injects a custom completion backend.
func NewContentAnalyzerWithCompleter(completer Completer, audit AuditSink) *ContentAnalyzer {
	return &ContentAnalyzer{completer: completer, audit: audit}
}

// Analyze classifies one candidate against its conversational context and
// always returns a usable verdict: infrastructure failures (transport, parse)
// degrade to the fail-open default rather than surfacing an error.
func (a *ContentAnalyzer) Analyze(ctx context.Context, content string, analysisCtx models.AnalysisContext) models.SafetyVerdict {
	ctx, cancel := context.WithTimeout(ctx, classifierTimeout)
	defer cancel()

	start := time.Now()
	verdict, outcome := a.analyzeOnce(ctx, content, analysisCtx)
	monitoring.ObserveClassification(time.Since(start).Seconds())

	switch outcome {
	case verdictTransportError:
		monitoring.RecordFallback("transport")
		verdict = failOpenVerdict()
	case verdictParseError:
		monitoring.RecordFallback("parse")
		verdict = failOpenVerdict()
	default:
		// isSafe is derived from the category here; the model's own
		// boolean is not a source of truth.
		verdict.IsSafe = verdict.Category != models.CategoryHarmful
	}

	slog.Info("[ContentAnalyzer] Content analyzed",
		slog.String("content", content),
		slog.String("category", string(verdict.Category)),
		slog.Float64("confidence", verdict.Confidence))

	if a.audit != nil {
		auditCtx, auditCancel := context.WithTimeout(context.WithoutCancel(ctx), auditTimeout)
		defer auditCancel()
		a.audit.LogVerdict(auditCtx, content, verdict)
	}

	return verdict
}

func (a *ContentAnalyzer) analyzeOnce(ctx context.Context, content string, analysisCtx models.AnalysisContext) (models.SafetyVerdict, verdictOutcome) {
	raw, err := a.completer.Complete(ctx, buildPrompt(content, analysisCtx))
	if err != nil {
		slog.Error("[ContentAnalyzer] Classifier call failed",
			slog.String("error", err.Error()))
		return models.SafetyVerdict{}, verdictTransportError
	}

	cleaned := cleanModelResponse(raw)

	var verdict models.SafetyVerdict
	if err := json.Unmarshal([]byte(cleaned), &verdict); err != nil {
		slog.Warn("[ContentAnalyzer] Failed to parse verdict JSON",
			slog.String("error", err.Error()),
			slog.String("response", cleaned))
		return models.SafetyVerdict{}, verdictParseError
	}

	return verdict, verdictOK
}

func failOpenVerdict() models.SafetyVerdict {
	return models.SafetyVerdict{
		Category:    FailOpenCategory,
		IsSafe:      true,
		Confidence:  0.5,
		Explanation: fallbackExplanation,
	}
}

type openAICompleter struct{}

func (openAICompleter) Complete(ctx context.Context, prompt string) (string, error) {
	chatCompletion, err := clients.GetAIClient().Client.Chat.Completions.New(ctx,
		openai.ChatCompletionNewParams{
			Messages: openai.F([]openai.ChatCompletionMessageParamUnion{
				openai.SystemMessage(moderationSystemPrompt),
				openai.UserMessage(prompt),
			}),
			Model:       openai.F(openai.ChatModelGPT4o),
			Temperature: openai.Float(moderationTemperature),
		})
	if err != nil {
		return "", err
	}

	if len(chatCompletion.Choices) == 0 {
		return "", errors.New("empty completion")
	}

	return chatCompletion.Choices[0].Message.Content, nil
}
