package moderation

import (
	"context"
	"fmt"

	"github.com/spacesedan/safegram/internal/models"
)

// siblingLookback caps how many recent comments on the same post are fed to
// the classifier as conversational context.
const siblingLookback = 5

// ContextReader is the read-only slice of the content store the assembler
// needs.
type ContextReader interface {
	GetPostContent(ctx context.Context, postID string) (string, error)
	GetRecentComments(ctx context.Context, postID string, limit int) ([]string, error)
}

type ContextAssembler struct {
	store ContextReader
}

func NewContextAssembler(store ContextReader) *ContextAssembler {
	return &ContextAssembler{store: store}
}

// Assemble builds the analysis context for a comment on postID. A missing
// post is a hard error rather than silently-empty context: classifying a
// reply without its parent has a materially different risk profile, so the
// submission must stop before any classifier call.
func (a *ContextAssembler) Assemble(ctx context.Context, postID string) (models.AnalysisContext, error) {
	parent, err := a.store.GetPostContent(ctx, postID)
	if err != nil {
		return models.AnalysisContext{}, err
	}

	siblings, err := a.store.GetRecentComments(ctx, postID, siblingLookback)
	if err != nil {
		return models.AnalysisContext{}, fmt.Errorf("failed to load recent comments: %w", err)
	}
	if len(siblings) > siblingLookback {
		siblings = siblings[:siblingLookback]
	}

	return models.AnalysisContext{
		PostContent:      parent,
		PreviousComments: siblings,
		Guidelines:       Guidelines(),
	}, nil
}

// PostContext is the analysis context for a top-level post: no parent, no
// siblings, guidelines only.
func PostContext() models.AnalysisContext {
	return models.AnalysisContext{Guidelines: Guidelines()}
}
