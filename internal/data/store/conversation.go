package store

import (
	"unicode/utf8"

	"github.com/clauselens/clauselens/internal/config"
	"github.com/clauselens/clauselens/internal/domain/commonModels"
)

// advanceConversation applies one appended message to the conversation
// record. The first user message names the conversation.
func advanceConversation(conv *commonModels.Conversation, msg commonModels.Message) {
	if conv.MessageCount == 0 && msg.Role == commonModels.RoleUser {
		conv.Title = deriveTitle(msg.Content)
	}
	conv.MessageCount++
	conv.UpdatedAt = msg.CreatedAt
}

func deriveTitle(firstMessage string) string {
	if len(firstMessage) <= config.TitleMaxLength {
		return firstMessage
	}
	cut := config.TitleMaxLength
	// never split a multi-byte rune at the cut point
	for cut > 0 && !utf8.RuneStart(firstMessage[cut]) {
		cut--
	}
	return firstMessage[:cut] + "..."
}
