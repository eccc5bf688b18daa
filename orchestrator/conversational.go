package orchestrator

import "regexp"

var (
	greetingPattern   = phrasePattern("hi", "hello", "hey")
	thanksPattern     = phrasePattern("thanks", "thank you")
	farewellPattern   = phrasePattern("bye", "goodbye")
	acknowledgePatern = phrasePattern("ok", "okay", "got it", "understood", "sure")
)

func phrasePattern(phrases ...string) *regexp.Regexp {
	pattern := `(?i)\b(`
	for i, p := range phrases {
		if i > 0 {
			pattern += "|"
		}
		pattern += regexp.QuoteMeta(p)
	}
	pattern += `)\b`
	return regexp.MustCompile(pattern)
}

// conversationalReply picks a canned reply by keyword bucket.
func conversationalReply(query string) string {
	switch {
	case greetingPattern.MatchString(query):
		return "Hello! I'm Cortex. How can I help you today? You can ask me questions about your documents."
	case thanksPattern.MatchString(query):
		return "You're welcome! Let me know if there's anything else I can help with."
	case farewellPattern.MatchString(query):
		return "Goodbye! Feel free to come back anytime you have more questions."
	case acknowledgePatern.MatchString(query):
		return "Great, let me know if you need anything else."
	default:
		return "Happy to help! What would you like to know?"
	}
}
