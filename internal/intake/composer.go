package intake

import "strings"

// FallbackReply is used whenever the generative collaborator returns nothing;
// an assistant message is never empty.
const FallbackReply = "I'm here with you. Please tell me more."

// questionPreamble softens appended follow-ups so the reply never reads like
// an interrogation.
const questionPreamble = "If you feel comfortable sharing, "

// Compose joins the generated primary reply with an optional follow-up
// question into one outgoing message. The question goes on its own paragraph,
// lower-cased behind the softening preamble.
func Compose(primary, question string) string {
	primary = strings.TrimSpace(primary)
	if primary == "" {
		primary = FallbackReply
	}

	question = strings.TrimSpace(question)
	if question == "" {
		return primary
	}

	return primary + "\n\n" + questionPreamble + strings.ToLower(question)
}
