package moderation

import (
	"fmt"

	"github.com/spacesedan/safegram/internal/models"
)

// FailClosedCategory is applied when a verdict carries an unknown or missing
// category: semantic ambiguity blocks content. This is the inverse of the
// analyzer's FailOpenCategory for infrastructure failure. Both directions are
// intentional; do not align one with the other.
const FailClosedCategory = models.CategoryHarmful

// ContentKind selects the user-facing wording for a decision.
type ContentKind string

const (
	KindPost    ContentKind = "post"
	KindComment ContentKind = "comment"
)

func (k ContentKind) noun() string {
	if k == KindPost {
		return "post"
	}
	return "comment"
}

// Decide maps a classifier verdict onto an accept/reject outcome with
// user-facing messaging.
func Decide(verdict models.SafetyVerdict, kind ContentKind) models.ModerationDecision {
	switch verdict.Category {
	case models.CategoryHarmless:
		return models.ModerationDecision{
			Accepted: true,
			Verdict:  verdict,
			Message:  successMessage(kind),
		}

	case models.CategoryNeutral:
		return models.ModerationDecision{
			Accepted:        true,
			Verdict:         verdict,
			Warning:         true,
			ModerationNotes: verdict.Explanation,
			Message:         warningMessage(kind),
		}

	default:
		// Harmful, and any category the policy does not recognize:
		// ambiguity fails closed.
		verdict.Category = FailClosedCategory
		verdict.IsSafe = false
		return models.ModerationDecision{
			Accepted: false,
			Verdict:  verdict,
			Message:  rejectionMessage(kind),
		}
	}
}

func successMessage(kind ContentKind) string {
	if kind == KindPost {
		return "Post created successfully"
	}
	return "Comment added successfully"
}

func warningMessage(kind ContentKind) string {
	if kind == KindPost {
		return "Post created, but it was annotated with a content warning"
	}
	return "Comment added, but it was annotated with a content warning"
}

func rejectionMessage(kind ContentKind) string {
	return fmt.Sprintf("Your %s was flagged as harmful and cannot be posted.", kind.noun())
}
