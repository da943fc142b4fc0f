package moderation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spacesedan/safegram/internal/models"
)

type stubCompleter struct {
	response   string
	err        error
	calls      int
	lastPrompt string
}

func (s *stubCompleter) Complete(_ context.Context, prompt string) (string, error) {
	s.calls++
	s.lastPrompt = prompt
	return s.response, s.err
}

type recordingAudit struct {
	texts    []string
	verdicts []models.SafetyVerdict
}

func (r *recordingAudit) LogVerdict(_ context.Context, text string, verdict models.SafetyVerdict) {
	r.texts = append(r.texts, text)
	r.verdicts = append(r.verdicts, verdict)
}

func wantFallbackVerdict() models.SafetyVerdict {
	return models.SafetyVerdict{
		Category:    models.CategoryHarmless,
		IsSafe:      true,
		Confidence:  0.5,
		Explanation: "Error analyzing content. System defaulted to allowing the comment.",
	}
}

func TestAnalyzeParsesVerdict(t *testing.T) {
	completer := &stubCompleter{response: `{
		"category": "harmful",
		"isSafe": false,
		"flaggedReason": "harassment",
		"confidence": 0.93,
		"explanation": "contains targeted insult",
		"suggestedRevision": "Great post, though I disagree."
	}`}
	analyzer := NewContentAnalyzerWithCompleter(completer, nil)

	verdict := analyzer.Analyze(context.Background(), "you are an idiot", PostContext())

	assert.Equal(t, models.CategoryHarmful, verdict.Category)
	assert.False(t, verdict.IsSafe)
	assert.Equal(t, "harassment", verdict.FlaggedReason)
	assert.InDelta(t, 0.93, verdict.Confidence, 1e-9)
	assert.Equal(t, "Great post, though I disagree.", verdict.SuggestedRevision)
	assert.Equal(t, 1, completer.calls)
}

func TestAnalyzeDerivesIsSafeFromCategory(t *testing.T) {
	// The model's own boolean contradicts its category; the category wins.
	completer := &stubCompleter{response: `{"category": "harmful", "isSafe": true, "confidence": 0.8, "explanation": "x"}`}
	analyzer := NewContentAnalyzerWithCompleter(completer, nil)

	verdict := analyzer.Analyze(context.Background(), "text", PostContext())

	assert.Equal(t, models.CategoryHarmful, verdict.Category)
	assert.False(t, verdict.IsSafe)
}

func TestAnalyzeStripsMarkdownFences(t *testing.T) {
	completer := &stubCompleter{response: "```json\n{\"category\": \"harmless\", \"confidence\": 0.9, \"explanation\": \"fine\"}\n```"}
	analyzer := NewContentAnalyzerWithCompleter(completer, nil)

	verdict := analyzer.Analyze(context.Background(), "hello", PostContext())

	assert.Equal(t, models.CategoryHarmless, verdict.Category)
	assert.True(t, verdict.IsSafe)
	assert.Equal(t, "fine", verdict.Explanation)
}

func TestAnalyzeFailsOpenOnTransportError(t *testing.T) {
	completer := &stubCompleter{err: errors.New("connection refused")}
	analyzer := NewContentAnalyzerWithCompleter(completer, nil)

	verdict := analyzer.Analyze(context.Background(), "hello", PostContext())

	assert.Equal(t, wantFallbackVerdict(), verdict)
}

func TestAnalyzeFailsOpenOnGarbageResponse(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{"plain prose", "I cannot analyze this content."},
		{"truncated json", `{"category": "harmful", "expl`},
		{"empty response", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			completer := &stubCompleter{response: tt.response}
			analyzer := NewContentAnalyzerWithCompleter(completer, nil)

			verdict := analyzer.Analyze(context.Background(), "hello", PostContext())

			assert.Equal(t, wantFallbackVerdict(), verdict)
		})
	}
}

func TestAnalyzeAuditsEveryVerdict(t *testing.T) {
	audit := &recordingAudit{}
	completer := &stubCompleter{response: `{"category": "neutral", "confidence": 0.7, "explanation": "edgy"}`}
	analyzer := NewContentAnalyzerWithCompleter(completer, audit)

	analyzer.Analyze(context.Background(), "some text", PostContext())

	require.Len(t, audit.texts, 1)
	assert.Equal(t, "some text", audit.texts[0])
	assert.Equal(t, models.CategoryNeutral, audit.verdicts[0].Category)
}

type ctxRecordingAudit struct {
	calls  int
	ctxErr error
}

func (c *ctxRecordingAudit) LogVerdict(ctx context.Context, _ string, _ models.SafetyVerdict) {
	c.calls++
	c.ctxErr = ctx.Err()
}

// deadlineCompleter exhausts whatever deadline the analyzer gave it, the
// way a stalled model call does.
type deadlineCompleter struct{}

func (deadlineCompleter) Complete(ctx context.Context, _ string) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func TestAnalyzeAuditOutlivesClassifierDeadline(t *testing.T) {
	audit := &ctxRecordingAudit{}
	analyzer := NewContentAnalyzerWithCompleter(deadlineCompleter{}, audit)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	verdict := analyzer.Analyze(ctx, "hello", PostContext())

	assert.Equal(t, wantFallbackVerdict(), verdict)
	require.Equal(t, 1, audit.calls)
	assert.NoError(t, audit.ctxErr, "audit write must not inherit the classifier deadline")
}

func TestPromptIncludesCandidateAndContext(t *testing.T) {
	completer := &stubCompleter{response: `{"category": "harmless", "confidence": 1, "explanation": "ok"}`}
	analyzer := NewContentAnalyzerWithCompleter(completer, nil)

	analysisCtx := models.AnalysisContext{
		PostContent:      "My vacation photos",
		PreviousComments: []string{"So jealous!", "Where is this?"},
		Guidelines:       Guidelines(),
	}
	analyzer.Analyze(context.Background(), "Great post!", analysisCtx)

	prompt := completer.lastPrompt
	assert.Contains(t, prompt, `COMMENT: "Great post!"`)
	assert.Contains(t, prompt, `Original Post: "My vacation photos"`)
	assert.Contains(t, prompt, `- Comment 1: "So jealous!"`)
	assert.Contains(t, prompt, `- Comment 2: "Where is this?"`)
	assert.Contains(t, prompt, "Community Guidelines:")
	for _, guideline := range Guidelines() {
		assert.Contains(t, prompt, guideline)
	}
}
