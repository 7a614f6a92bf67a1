// Package notify turns domain events into stored user notifications.
package notify

import (
	"fmt"
	"net/url"

	"github.com/ManuelReschke/Lebensenergie/app/models"
)

// MaxMessageRunes is the preview length before a message is cut.
const MaxMessageRunes = 100

const ellipsis = "..."

// Content is a formatted notification ready to be stored.
type Content struct {
	Kind      string
	Title     string
	Message   string
	ActionURL string
}

// Truncate shortens s to MaxMessageRunes runes followed by "...".
func Truncate(s string) string {
	r := []rune(s)
	if len(r) <= MaxMessageRunes {
		return s
	}
	return string(r[:MaxMessageRunes]) + ellipsis
}

func NewMessage(senderName, conversationID, message string) Content {
	return Content{
		Kind:      models.NotificationKindNewMessage,
		Title:     fmt.Sprintf("New message from %s", senderName),
		Message:   Truncate(message),
		ActionURL: conversationURL(conversationID),
	}
}

func MessageReply(conversationName, conversationID, message string) Content {
	return Content{
		Kind:      models.NotificationKindMessageReply,
		Title:     fmt.Sprintf("Reply in %s", conversationName),
		Message:   Truncate(message),
		ActionURL: conversationURL(conversationID),
	}
}

func ContactRequest(requesterName, message string) Content {
	return Content{
		Kind:      models.NotificationKindContactRequest,
		Title:     fmt.Sprintf("Contact request from %s", requesterName),
		Message:   Truncate(message),
		ActionURL: "/contacts/requests",
	}
}

func BadgeEarned(badgeName, description string) Content {
	return Content{
		Kind:      models.NotificationKindBadgeEarned,
		Title:     fmt.Sprintf("Badge earned: %s", badgeName),
		Message:   Truncate(description),
		ActionURL: "/badges",
	}
}

func conversationURL(conversationID string) string {
	if conversationID == "" {
		return "/messages"
	}
	return "/messages/" + url.PathEscape(conversationID)
}
