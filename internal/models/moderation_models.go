package models

type ContentCategory string

const (
	CategoryHarmful  ContentCategory = "harmful"
	CategoryNeutral  ContentCategory = "neutral"
	CategoryHarmless ContentCategory = "harmless"
)

// ContentCandidate is a post or comment body awaiting a moderation verdict.
// Candidates are never persisted before a verdict is reached.
type ContentCandidate struct {
	Text     string
	ImageURL string
	AuthorID string
	PostID   string // set when the candidate is a comment
}

// AnalysisContext carries the conversational context for a single
// classification call. It is built once per submission and not reused.
type AnalysisContext struct {
	PostContent      string   `json:"post_content,omitempty"`
	PreviousComments []string `json:"previous_comments,omitempty"` // newest first, at most 5
	Guidelines       []string `json:"guidelines"`
}

// SafetyVerdict is the classifier's structured judgment for one candidate.
// IsSafe is always derived server-side from Category; the model's own
// boolean is never trusted.
type SafetyVerdict struct {
	Category          ContentCategory `json:"category"`
	IsSafe            bool            `json:"isSafe"`
	FlaggedReason     string          `json:"flaggedReason,omitempty"`
	Confidence        float64         `json:"confidence"`
	Explanation       string          `json:"explanation"`
	SuggestedRevision string          `json:"suggestedRevision,omitempty"`
}

// ModerationDecision is the policy outcome applied to a candidate.
type ModerationDecision struct {
	Accepted        bool
	Verdict         SafetyVerdict
	Message         string
	Warning         bool
	ModerationNotes string
}

// SubmissionResult is the uniform shape handed back to callers of the
// submission orchestrator, discriminated by Success.
type SubmissionResult struct {
	Success           bool   `json:"success"`
	Message           string `json:"message"`
	ID                string `json:"id,omitempty"`
	Category          string `json:"category,omitempty"`
	Reason            string `json:"reason,omitempty"`
	Explanation       string `json:"explanation,omitempty"`
	SuggestedRevision string `json:"suggestedRevision,omitempty"`
	HasWarning        bool   `json:"hasWarning,omitempty"`
}
