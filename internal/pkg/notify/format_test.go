package notify

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/ManuelReschke/Lebensenergie/app/models"
	"github.com/ManuelReschke/Lebensenergie/app/repository/memstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruncate(t *testing.T) {
	short := strings.Repeat("a", 100)
	assert.Equal(t, short, Truncate(short))

	long := strings.Repeat("b", 150)
	got := Truncate(long)
	assert.Equal(t, 103, utf8.RuneCountInString(got))
	assert.True(t, strings.HasSuffix(got, "..."))

	umlauts := strings.Repeat("ä", 101)
	got = Truncate(umlauts)
	assert.Equal(t, 103, utf8.RuneCountInString(got))
	assert.True(t, utf8.ValidString(got))
}

func TestFormatters(t *testing.T) {
	c := NewMessage("Lena", "conv-1", "Hallo!")
	assert.Equal(t, models.NotificationKindNewMessage, c.Kind)
	assert.Equal(t, "New message from Lena", c.Title)
	assert.Equal(t, "/messages/conv-1", c.ActionURL)

	c = MessageReply("Morgenrunde", "conv-2", strings.Repeat("x", 120))
	assert.Equal(t, "Reply in Morgenrunde", c.Title)
	assert.Len(t, c.Message, 103)

	c = ContactRequest("Tom", "Lass uns vernetzen")
	assert.Equal(t, "Contact request from Tom", c.Title)
	assert.Equal(t, "/contacts/requests", c.ActionURL)

	c = BadgeEarned("Volle Energie", "Score 9+")
	assert.Equal(t, "Badge earned: Volle Energie", c.Title)
	assert.Equal(t, "/badges", c.ActionURL)
}

func TestService_Create(t *testing.T) {
	store := memstore.New()
	svc := NewService(store.Repositories().Notification)

	n, err := svc.Create(context.Background(), 7, Content{
		Kind:    models.NotificationKindNewMessage,
		Title:   "t",
		Message: strings.Repeat("m", 200),
	})
	require.NoError(t, err)
	assert.NotZero(t, n.ID)

	stored := store.Notifications(7)
	require.Len(t, stored, 1)
	assert.Equal(t, 103, len(stored[0].Message))
	assert.False(t, stored[0].IsRead)
}
