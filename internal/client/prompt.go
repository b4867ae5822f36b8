package client

import (
	"fmt"
	"strings"

	"github.com/hasnain769/botharbor/internal/store"
)

// historyWindow is how many messages of each type go into the transcript.
const historyWindow = 3

// transcriptDelimiter separates history from the current message.
const transcriptDelimiter = "====================================="

// ComposeSystemPrompt combines the backend system prompt with the bot's
// few-shot QA examples, when any exist.
func ComposeSystemPrompt(bot BotData, qaPairs []QAPair) string {
	if len(qaPairs) == 0 {
		return bot.SystemPrompt
	}

	var b strings.Builder
	b.WriteString(bot.SystemPrompt)
	b.WriteString("\n\nExample question-answer pairs:\n")
	for _, qa := range qaPairs {
		fmt.Fprintf(&b, "Q: %s\nA: %s\n\n", qa.Question, qa.Answer)
	}
	return b.String()
}

// BuildMessage builds the chat request text: the last historyWindow user and
// bot messages from history (which already includes the optimistic append of
// current), interleaved oldest-first with role prefixes, a delimiter, then the
// current message.
func BuildMessage(history []store.Message, current string) string {
	var userMsgs, botMsgs []store.Message
	for _, m := range history {
		switch m.Type {
		case store.MessageTypeUser:
			userMsgs = append(userMsgs, m)
		case store.MessageTypeBot:
			botMsgs = append(botMsgs, m)
		}
	}
	userMsgs = lastN(userMsgs, historyWindow)
	botMsgs = lastN(botMsgs, historyWindow)

	lines := []string{"conversation history"}
	for i := range historyWindow {
		if i < len(botMsgs) {
			lines = append(lines, "ai: "+botMsgs[i].Content)
		}
		if i < len(userMsgs) {
			lines = append(lines, "user: "+userMsgs[i].Content)
		}
	}
	lines = append(lines, transcriptDelimiter, "current message", current)

	return strings.Join(lines, "\n")
}

func lastN(msgs []store.Message, n int) []store.Message {
	if len(msgs) > n {
		return msgs[len(msgs)-n:]
	}
	return msgs
}
