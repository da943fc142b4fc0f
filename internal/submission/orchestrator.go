package submission

import (
	"context"
	"errors"
	"log/slog"

	"github.com/spacesedan/safegram/internal/db"
	"github.com/spacesedan/safegram/internal/models"
	"github.com/spacesedan/safegram/internal/moderation"
	"github.com/spacesedan/safegram/internal/monitoring"
)

// ContentStore is the write side of the content store.
type ContentStore interface {
	InsertPost(ctx context.Context, content, imageURL, userID string) (string, error)
	InsertComment(ctx context.Context, postID, content, userID string, warning bool, notes string) (string, error)
}

// ContextAssembler resolves the conversational context for a comment. A
// missing parent surfaces as db.ErrNotFound.
type ContextAssembler interface {
	Assemble(ctx context.Context, postID string) (models.AnalysisContext, error)
}

// Classifier produces a safety verdict for a candidate. Implementations
// never fail; infrastructure trouble degrades to a fail-open verdict.
type Classifier interface {
	Analyze(ctx context.Context, content string, analysisCtx models.AnalysisContext) models.SafetyVerdict
}

// Orchestrator runs the create-post / create-comment pipeline: validate,
// assemble context, classify, decide, persist. Every internal failure is
// mapped to a generic result; nothing panics or errors past this boundary.
type Orchestrator struct {
	store      ContentStore
	assembler  ContextAssembler
	classifier Classifier
}

func NewOrchestrator(store ContentStore, assembler ContextAssembler, classifier Classifier) *Orchestrator {
	return &Orchestrator{store: store, assembler: assembler, classifier: classifier}
}

// CreatePost moderates and persists a new top-level post. Image-only posts
// skip classification; there is no text to classify.
func (o *Orchestrator) CreatePost(ctx context.Context, author models.User, content, imageURL string) models.SubmissionResult {
	if author.ID == "" {
		return models.SubmissionResult{Success: false, Message: "You must be signed in to create a post"}
	}
	if content == "" && imageURL == "" {
		return models.SubmissionResult{Success: false, Message: "Post must have content or an image"}
	}

	decision := models.ModerationDecision{Accepted: true, Message: "Post created successfully"}
	if content != "" {
		verdict := o.classifier.Analyze(ctx, content, moderation.PostContext())
		decision = moderation.Decide(verdict, moderation.KindPost)
		monitoring.RecordDecision(string(decision.Verdict.Category), decision.Accepted)

		if !decision.Accepted {
			return denialResult(decision)
		}
	}

	id, err := o.store.InsertPost(ctx, content, imageURL, author.ID)
	if err != nil {
		slog.Error("[Submission] Failed to create post",
			slog.String("error", err.Error()))
		return models.SubmissionResult{Success: false, Message: "Failed to create post"}
	}

	return models.SubmissionResult{
		Success:    true,
		Message:    decision.Message,
		ID:         id,
		Category:   string(decision.Verdict.Category),
		HasWarning: decision.Warning,
	}
}

// CreateComment moderates and persists a comment on an existing post. The
// parent must exist before any classifier call is made.
func (o *Orchestrator) CreateComment(ctx context.Context, author models.User, postID, content string) models.SubmissionResult {
	if author.ID == "" {
		return models.SubmissionResult{Success: false, Message: "You must be signed in to comment"}
	}
	if content == "" {
		return models.SubmissionResult{Success: false, Message: "Comment cannot be empty"}
	}

	analysisCtx, err := o.assembler.Assemble(ctx, postID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return models.SubmissionResult{Success: false, Message: "Post not found"}
		}
		slog.Error("[Submission] Failed to assemble analysis context",
			slog.String("post_id", postID),
			slog.String("error", err.Error()))
		return models.SubmissionResult{Success: false, Message: "Failed to add comment"}
	}

	verdict := o.classifier.Analyze(ctx, content, analysisCtx)
	decision := moderation.Decide(verdict, moderation.KindComment)
	monitoring.RecordDecision(string(decision.Verdict.Category), decision.Accepted)

	if !decision.Accepted {
		return denialResult(decision)
	}

	id, err := o.store.InsertComment(ctx, postID, content, author.ID, decision.Warning, decision.ModerationNotes)
	if err != nil {
		slog.Error("[Submission] Failed to insert comment",
			slog.String("post_id", postID),
			slog.String("error", err.Error()))
		return models.SubmissionResult{Success: false, Message: "Failed to add comment"}
	}

	return models.SubmissionResult{
		Success:    true,
		Message:    decision.Message,
		ID:         id,
		Category:   string(decision.Verdict.Category),
		HasWarning: decision.Warning,
	}
}

// denialResult carries the verdict's denial fields verbatim so the client
// can show the reason and the suggested revision.
func denialResult(decision models.ModerationDecision) models.SubmissionResult {
	return models.SubmissionResult{
		Success:           false,
		Message:           decision.Message,
		Category:          string(decision.Verdict.Category),
		Reason:            decision.Verdict.FlaggedReason,
		Explanation:       decision.Verdict.Explanation,
		SuggestedRevision: decision.Verdict.SuggestedRevision,
	}
}
