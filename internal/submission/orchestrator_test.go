package submission

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spacesedan/safegram/internal/db"
	"github.com/spacesedan/safegram/internal/models"
	"github.com/spacesedan/safegram/internal/moderation"
)

type stubStore struct {
	postCalls    int
	commentCalls int

	insertPostErr    error
	insertCommentErr error

	lastContent string
	lastWarning bool
	lastNotes   string
}

func (s *stubStore) InsertPost(_ context.Context, content, _, _ string) (string, error) {
	s.postCalls++
	s.lastContent = content
	if s.insertPostErr != nil {
		return "", s.insertPostErr
	}
	return "post-1", nil
}

func (s *stubStore) InsertComment(_ context.Context, _, content, _ string, warning bool, notes string) (string, error) {
	s.commentCalls++
	s.lastContent = content
	s.lastWarning = warning
	s.lastNotes = notes
	if s.insertCommentErr != nil {
		return "", s.insertCommentErr
	}
	return "comment-1", nil
}

type stubAssembler struct {
	calls  int
	result models.AnalysisContext
	err    error
}

func (s *stubAssembler) Assemble(_ context.Context, _ string) (models.AnalysisContext, error) {
	s.calls++
	return s.result, s.err
}

type stubClassifier struct {
	calls   int
	verdict models.SafetyVerdict
}

func (s *stubClassifier) Analyze(_ context.Context, _ string, _ models.AnalysisContext) models.SafetyVerdict {
	s.calls++
	return s.verdict
}

var alice = models.User{ID: "u1", Name: "Alice", Email: "alice@example.com", Username: "alice"}

func newOrchestrator(verdict models.SafetyVerdict) (*Orchestrator, *stubStore, *stubAssembler, *stubClassifier) {
	store := &stubStore{}
	assembler := &stubAssembler{result: models.AnalysisContext{PostContent: "parent"}}
	classifier := &stubClassifier{verdict: verdict}
	return NewOrchestrator(store, assembler, classifier), store, assembler, classifier
}

func TestCreateCommentHarmless(t *testing.T) {
	orchestrator, store, _, classifier := newOrchestrator(models.SafetyVerdict{Category: models.CategoryHarmless})

	result := orchestrator.CreateComment(context.Background(), alice, "p1", "Great post!")

	assert.True(t, result.Success)
	assert.False(t, result.HasWarning)
	assert.Equal(t, 1, classifier.calls)
	require.Equal(t, 1, store.commentCalls)
	assert.False(t, store.lastWarning)
	assert.Empty(t, store.lastNotes)
}

func TestCreateCommentHarmful(t *testing.T) {
	orchestrator, store, _, _ := newOrchestrator(models.SafetyVerdict{
		Category:          models.CategoryHarmful,
		Explanation:       "contains targeted insult",
		SuggestedRevision: "Great post, though I disagree.",
	})

	result := orchestrator.CreateComment(context.Background(), alice, "p1", "you are an idiot")

	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "flagged")
	assert.Equal(t, "contains targeted insult", result.Explanation)
	assert.Equal(t, "Great post, though I disagree.", result.SuggestedRevision)
	assert.Zero(t, store.commentCalls, "rejected content must never be written")
}

func TestCreateCommentNeutral(t *testing.T) {
	orchestrator, store, _, _ := newOrchestrator(models.SafetyVerdict{
		Category:    models.CategoryNeutral,
		Explanation: "sensitive language in context",
	})

	result := orchestrator.CreateComment(context.Background(), alice, "p1", "that was a damn good trip")

	assert.True(t, result.Success)
	assert.True(t, result.HasWarning)
	require.Equal(t, 1, store.commentCalls)
	assert.True(t, store.lastWarning)
	assert.Equal(t, "sensitive language in context", store.lastNotes)
}

func TestCreateCommentParentNotFound(t *testing.T) {
	orchestrator, store, assembler, classifier := newOrchestrator(models.SafetyVerdict{Category: models.CategoryHarmless})
	assembler.err = db.ErrNotFound

	result := orchestrator.CreateComment(context.Background(), alice, "missing", "Great post!")

	assert.False(t, result.Success)
	assert.Equal(t, "Post not found", result.Message)
	assert.Zero(t, classifier.calls, "no classification against a phantom parent")
	assert.Zero(t, store.commentCalls)
}

func TestCreateCommentEmpty(t *testing.T) {
	orchestrator, store, assembler, classifier := newOrchestrator(models.SafetyVerdict{Category: models.CategoryHarmless})

	result := orchestrator.CreateComment(context.Background(), alice, "p1", "")

	assert.False(t, result.Success)
	assert.Equal(t, "Comment cannot be empty", result.Message)
	assert.Zero(t, assembler.calls)
	assert.Zero(t, classifier.calls)
	assert.Zero(t, store.commentCalls)
}

func TestCreateCommentUnauthenticated(t *testing.T) {
	orchestrator, store, _, classifier := newOrchestrator(models.SafetyVerdict{Category: models.CategoryHarmless})

	result := orchestrator.CreateComment(context.Background(), models.User{}, "p1", "Great post!")

	assert.False(t, result.Success)
	assert.Equal(t, "You must be signed in to comment", result.Message)
	assert.Zero(t, classifier.calls)
	assert.Zero(t, store.commentCalls)
}

func TestCreateCommentStoreFailure(t *testing.T) {
	orchestrator, store, _, _ := newOrchestrator(models.SafetyVerdict{Category: models.CategoryHarmless})
	store.insertCommentErr = errors.New("connection reset")

	result := orchestrator.CreateComment(context.Background(), alice, "p1", "Great post!")

	assert.False(t, result.Success)
	assert.Equal(t, "Failed to add comment", result.Message)
}

func TestCreateCommentAssemblerFailure(t *testing.T) {
	orchestrator, _, assembler, classifier := newOrchestrator(models.SafetyVerdict{Category: models.CategoryHarmless})
	assembler.err = errors.New("connection reset")

	result := orchestrator.CreateComment(context.Background(), alice, "p1", "Great post!")

	assert.False(t, result.Success)
	assert.Equal(t, "Failed to add comment", result.Message)
	assert.Zero(t, classifier.calls)
}

func TestCreatePostHarmless(t *testing.T) {
	orchestrator, store, _, classifier := newOrchestrator(models.SafetyVerdict{Category: models.CategoryHarmless})

	result := orchestrator.CreatePost(context.Background(), alice, "My vacation photos", "")

	assert.True(t, result.Success)
	assert.Equal(t, "Post created successfully", result.Message)
	assert.Equal(t, 1, classifier.calls)
	assert.Equal(t, 1, store.postCalls)
}

func TestCreatePostHarmful(t *testing.T) {
	orchestrator, store, _, _ := newOrchestrator(models.SafetyVerdict{
		Category:      models.CategoryHarmful,
		FlaggedReason: "hate speech",
	})

	result := orchestrator.CreatePost(context.Background(), alice, "something vile", "")

	assert.False(t, result.Success)
	assert.Equal(t, "hate speech", result.Reason)
	assert.Zero(t, store.postCalls)
}

func TestCreatePostImageOnlySkipsClassifier(t *testing.T) {
	orchestrator, store, _, classifier := newOrchestrator(models.SafetyVerdict{Category: models.CategoryHarmful})

	result := orchestrator.CreatePost(context.Background(), alice, "", "https://img.example/cat.png")

	assert.True(t, result.Success)
	assert.Zero(t, classifier.calls, "no text, nothing to classify")
	assert.Equal(t, 1, store.postCalls)
}

func TestCreatePostEmpty(t *testing.T) {
	orchestrator, store, _, classifier := newOrchestrator(models.SafetyVerdict{Category: models.CategoryHarmless})

	result := orchestrator.CreatePost(context.Background(), alice, "", "")

	assert.False(t, result.Success)
	assert.Equal(t, "Post must have content or an image", result.Message)
	assert.Zero(t, classifier.calls)
	assert.Zero(t, store.postCalls)
}

func TestCreatePostUnauthenticated(t *testing.T) {
	orchestrator, store, _, _ := newOrchestrator(models.SafetyVerdict{Category: models.CategoryHarmless})

	result := orchestrator.CreatePost(context.Background(), models.User{}, "hello", "")

	assert.False(t, result.Success)
	assert.Equal(t, "You must be signed in to create a post", result.Message)
	assert.Zero(t, store.postCalls)
}

// The full pipeline with a real analyzer wired to a broken completion
// backend: the classifier fails open and the comment is accepted.
func TestCreateCommentClassifierFailOpen(t *testing.T) {
	store := &stubStore{}
	assembler := &stubAssembler{result: models.AnalysisContext{PostContent: "parent"}}
	analyzer := moderation.NewContentAnalyzerWithCompleter(failingCompleter{}, nil)
	orchestrator := NewOrchestrator(store, assembler, analyzer)

	result := orchestrator.CreateComment(context.Background(), alice, "p1", "Great post!")

	assert.True(t, result.Success)
	assert.False(t, result.HasWarning)
	assert.Equal(t, 1, store.commentCalls)
}

type failingCompleter struct{}

func (failingCompleter) Complete(_ context.Context, _ string) (string, error) {
	return "", errors.New("service unavailable")
}
