package webhook

import (
	"context"

	"github.com/ManuelReschke/Lebensenergie/app/models"
)

const (
	EventMessageNew     = "message.new"
	EventMessageReply   = "message.reply"
	EventContactRequest = "contact.request"
)

// MessagingVisitor handles every messaging event.
type MessagingVisitor interface {
	VisitMessageNew(ctx context.Context, meta Meta, ev *MessageNew) error
	VisitMessageReply(ctx context.Context, meta Meta, ev *MessageReply) error
	VisitContactRequested(ctx context.Context, meta Meta, ev *ContactRequested) error
}

var messagingEvents = map[string]factory{
	EventMessageNew:     func() Event { return &MessageNew{} },
	EventMessageReply:   func() Event { return &MessageReply{} },
	EventContactRequest: func() Event { return &ContactRequested{} },
}

// MessageNew notifies the recipient (the subject) of a new message.
type MessageNew struct {
	Subject
	SenderName     string `json:"senderName" validate:"required,max=150"`
	ConversationID string `json:"conversationId" validate:"required,max=191"`
	Message        string `json:"message" validate:"required"`
}

func (e *MessageNew) Source() string { return models.WebhookSourceMessaging }
func (e *MessageNew) Type() string   { return EventMessageNew }
func (e *MessageNew) accept(ctx context.Context, meta Meta, h Handler) error {
	return h.VisitMessageNew(ctx, meta, e)
}

type MessageReply struct {
	Subject
	ConversationName string `json:"conversationName" validate:"required,max=150"`
	ConversationID   string `json:"conversationId" validate:"required,max=191"`
	Message          string `json:"message" validate:"required"`
}

func (e *MessageReply) Source() string { return models.WebhookSourceMessaging }
func (e *MessageReply) Type() string   { return EventMessageReply }
func (e *MessageReply) accept(ctx context.Context, meta Meta, h Handler) error {
	return h.VisitMessageReply(ctx, meta, e)
}

type ContactRequested struct {
	Subject
	RequesterName string `json:"requesterName" validate:"required,max=150"`
	Message       string `json:"message"`
}

func (e *ContactRequested) Source() string { return models.WebhookSourceMessaging }
func (e *ContactRequested) Type() string   { return EventContactRequest }
func (e *ContactRequested) accept(ctx context.Context, meta Meta, h Handler) error {
	return h.VisitContactRequested(ctx, meta, e)
}
