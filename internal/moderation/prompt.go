package moderation

import (
	"fmt"
	"strings"

	"github.com/spacesedan/safegram/internal/models"
)

const moderationSystemPrompt = `You are SafeGram's content moderation AI. Analyze the comment provided by the user for safety.

Categorize the comment as exactly one of:
- "harmful": Content that is clearly harmful, hateful, threatening, or severely inappropriate
- "neutral": Content that contains potentially sensitive language but is not clearly harmful in context
- "harmless": Content that is clearly safe and appropriate

Analyze the comment considering:
1. Intent: Is the comment meant to harm, help, or is it neutral?
2. Context: How does the surrounding conversation affect the meaning?
3. Language: Are potentially harmful words being used in a non-harmful way?
4. Severity: How serious is the potential harm?
5. Target: Is the comment directed at a specific person or group?

### STRICT OUTPUT FORMAT
You MUST return only valid JSON, formatted exactly as follows:
{
  "category": "harmful" | "neutral" | "harmless",
  "isSafe": false if harmful true otherwise,
  "flaggedReason": "reason if harmful or neutral, otherwise empty",
  "confidence": number between 0 and 1,
  "explanation": "detailed explanation of the analysis",
  "suggestedRevision": "suggested revision if harmful, otherwise empty"
}

### REQUIREMENTS
- No Markdown formatting (no triple backticks, no explanations outside the JSON).
- No extra text before or after the JSON output.
- No trailing commas in JSON objects or arrays.
- Ensure correct escaping of special characters in JSON strings.`

// buildPrompt renders the candidate and its conversational context into the
// user message sent alongside the fixed system prompt.
func buildPrompt(content string, analysisCtx models.AnalysisContext) string {
	var b strings.Builder

	fmt.Fprintf(&b, "COMMENT: %q\n", content)

	b.WriteString("\nCONTEXT INFORMATION:\n")
	if analysisCtx.PostContent != "" {
		fmt.Fprintf(&b, "Original Post: %q\n", analysisCtx.PostContent)
	}
	if len(analysisCtx.PreviousComments) > 0 {
		b.WriteString("Previous Comments in Thread:\n")
		for i, comment := range analysisCtx.PreviousComments {
			fmt.Fprintf(&b, "- Comment %d: %q\n", i+1, comment)
		}
	}
	if len(analysisCtx.Guidelines) > 0 {
		b.WriteString("Community Guidelines:\n")
		for _, guideline := range analysisCtx.Guidelines {
			fmt.Fprintf(&b, "- %s\n", guideline)
		}
	}

	return b.String()
}

// cleanModelResponse strips markdown fences and curly quotes the model
// sometimes wraps its JSON in, despite the prompt forbidding them.
func cleanModelResponse(response string) string {
	response = strings.TrimSpace(response)

	response = strings.TrimPrefix(response, "```json")
	response = strings.TrimPrefix(response, "```")
	response = strings.TrimSuffix(response, "```")

	response = strings.ReplaceAll(response, "“", `"`)
	response = strings.ReplaceAll(response, "”", `"`)

	return strings.TrimSpace(response)
}
