package review

import (
	"context"
	"testing"

	"stickerbot/internal/database/models"

	"github.com/mymmrac/telego"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAcceptedExtension(t *testing.T) {
	accepted := []string{"sticker.jpg", "sticker.jpeg", "sticker.png", "STICKER.PNG", "a.b.c.JPG"}
	for _, name := range accepted {
		assert.True(t, acceptedExtension(name), "expected %q to be accepted", name)
	}

	rejected := []string{"", "sticker", "sticker.gif", "sticker.webp", "sticker.pdf", "jpg"}
	for _, name := range rejected {
		assert.False(t, acceptedExtension(name), "expected %q to be rejected", name)
	}
}

func TestHandleNewSuggestionIgnoresNonImageFiles(t *testing.T) {
	bot := new(MockBot)
	suggestions := new(MockSuggestionRepo)
	senders := new(MockSenderRepo)
	queue := NewQueue(bot, suggestions, senders, testReviewChatID)
	h := NewSubmissionHandler(bot, suggestions, queue)

	sender := &models.Sender{UserID: 100, ChatID: 100}
	err := h.HandleNewSuggestion(context.Background(), sender, &telego.Document{FileName: "notes.pdf", FileID: "file-x"})

	require.NoError(t, err)
	suggestions.AssertNotCalled(t, "CreateSuggestion", mock.Anything, mock.Anything)
	bot.AssertNotCalled(t, "SendMessage", mock.Anything, mock.Anything)
}

func TestHandleNewSuggestionAcknowledgesWithAssignedID(t *testing.T) {
	bot := new(MockBot)
	suggestions := new(MockSuggestionRepo)
	senders := new(MockSenderRepo)
	queue := NewQueue(bot, suggestions, senders, testReviewChatID)
	h := NewSubmissionHandler(bot, suggestions, queue)

	// The store assigns the sequential id on insert.
	suggestions.On("CreateSuggestion", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Suggestion).ID = 42
	}).Return(nil)

	var ack *telego.SendMessageParams
	bot.On("SendMessage", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		ack = args.Get(1).(*telego.SendMessageParams)
	}).Return(&telego.Message{}, nil)

	// Something older is already ahead in the queue, so no render happens.
	older := &models.Suggestion{ID: 41, FileID: "file-41", SubmitterID: 99}
	suggestions.On("GetOldestUndecidedSuggestion", mock.Anything).Return(older, nil)

	sender := &models.Sender{UserID: 100, ChatID: 100}
	err := h.HandleNewSuggestion(context.Background(), sender, &telego.Document{FileName: "cat.png", FileID: "file-42"})

	require.NoError(t, err)
	require.NotNil(t, ack)
	assert.Equal(t, int64(100), ack.ChatID.ID)
	assert.Contains(t, ack.Text, "/status 42")
	bot.AssertNotCalled(t, "SendDocument", mock.Anything, mock.Anything)
}

func TestHandleNewSuggestionRendersWhenQueueWasEmpty(t *testing.T) {
	bot := new(MockBot)
	suggestions := new(MockSuggestionRepo)
	senders := new(MockSenderRepo)
	queue := NewQueue(bot, suggestions, senders, testReviewChatID)
	h := NewSubmissionHandler(bot, suggestions, queue)

	created := &models.Suggestion{ID: 7, FileID: "file-7", SubmitterID: 100}
	suggestions.On("CreateSuggestion", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		s := args.Get(1).(*models.Suggestion)
		s.ID = created.ID
	}).Return(nil)
	suggestions.On("GetOldestUndecidedSuggestion", mock.Anything).Return(created, nil)
	senders.On("GetSender", mock.Anything, int64(100)).Return(&models.Sender{UserID: 100, ChatID: 100, Username: "alice"}, nil)
	bot.On("SendMessage", mock.Anything, mock.Anything).Return(&telego.Message{}, nil)

	var review *telego.SendDocumentParams
	bot.On("SendDocument", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		review = args.Get(1).(*telego.SendDocumentParams)
	}).Return(&telego.Message{MessageID: 60}, nil)

	sender := &models.Sender{UserID: 100, ChatID: 100, Username: "alice"}
	err := h.HandleNewSuggestion(context.Background(), sender, &telego.Document{FileName: "cat.png", FileID: "file-7"})

	require.NoError(t, err)
	require.NotNil(t, review)
	assert.Equal(t, testReviewChatID, review.ChatID.ID)
	assert.Equal(t, "file-7", review.Document.FileID)
}

func TestHandleNewSuggestionNilDocumentIsNoOp(t *testing.T) {
	bot := new(MockBot)
	suggestions := new(MockSuggestionRepo)
	senders := new(MockSenderRepo)
	queue := NewQueue(bot, suggestions, senders, testReviewChatID)
	h := NewSubmissionHandler(bot, suggestions, queue)

	err := h.HandleNewSuggestion(context.Background(), &models.Sender{UserID: 100}, nil)

	require.NoError(t, err)
	suggestions.AssertNotCalled(t, "CreateSuggestion", mock.Anything, mock.Anything)
}
