package moderation

// communityGuidelines is a design constant, not configuration: the rules are
// part of the classifier's behavioral boundary and are versioned together
// with the policy that interprets its verdicts.
var communityGuidelines = []string{
	"No hate speech or discrimination based on race, gender, sexuality, religion, etc.",
	"No direct threats of violence or harm to individuals or groups",
	"No harassment, bullying, or personal attacks",
	"No explicit sexual content or solicitation",
	"No glorification of self-harm or suicide",
	"No doxxing or sharing of personal information without consent",
	"Constructive criticism is allowed, but must be respectful",
	"Context matters - consider the full conversation before reporting",
}

// Guidelines returns the ordered community rules. Callers get a copy so the
// canonical list cannot be mutated.
func Guidelines() []string {
	return append([]string(nil), communityGuidelines...)
}
