package review

import (
	"context"
	"errors"
	"testing"

	"stickerbot/internal/database"
	"stickerbot/internal/database/models"

	"github.com/mymmrac/telego"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testReviewChatID = int64(-1001234567890)

func TestAdvanceEmptyQueueIsSilent(t *testing.T) {
	bot := new(MockBot)
	suggestions := new(MockSuggestionRepo)
	senders := new(MockSenderRepo)

	suggestions.On("GetOldestUndecidedSuggestion", mock.Anything).Return(nil, database.ErrSuggestionNotFound)

	q := NewQueue(bot, suggestions, senders, testReviewChatID)
	err := q.Advance(context.Background())

	require.NoError(t, err)
	bot.AssertNotCalled(t, "SendDocument", mock.Anything, mock.Anything)
}

func TestAdvanceRendersOldestWithAllDecisionButtons(t *testing.T) {
	bot := new(MockBot)
	suggestions := new(MockSuggestionRepo)
	senders := new(MockSenderRepo)

	suggestion := &models.Suggestion{ID: 7, FileID: "file-7", SubmitterID: 100}
	suggestions.On("GetOldestUndecidedSuggestion", mock.Anything).Return(suggestion, nil)
	senders.On("GetSender", mock.Anything, int64(100)).Return(&models.Sender{UserID: 100, Username: "alice"}, nil)

	var sent *telego.SendDocumentParams
	bot.On("SendDocument", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		sent = args.Get(1).(*telego.SendDocumentParams)
	}).Return(&telego.Message{MessageID: 55}, nil)

	q := NewQueue(bot, suggestions, senders, testReviewChatID)
	err := q.Advance(context.Background())

	require.NoError(t, err)
	require.NotNil(t, sent)
	assert.Equal(t, testReviewChatID, sent.ChatID.ID)
	assert.Equal(t, "file-7", sent.Document.FileID)
	assert.Equal(t, "From alice", sent.Caption)

	markup, ok := sent.ReplyMarkup.(*telego.InlineKeyboardMarkup)
	require.True(t, ok)
	require.Len(t, markup.InlineKeyboard, 6)
	for i, result := range DecisionValues() {
		row := markup.InlineKeyboard[i]
		require.Len(t, row, 1)
		assert.Equal(t, result.Description(), row[0].Text)

		payload, err := DecodePayload(row[0].CallbackData)
		require.NoError(t, err)
		assert.Equal(t, int64(7), payload.SuggestionID)
		assert.Equal(t, int64(100), payload.SubmitterID)
		assert.Equal(t, result, payload.Result)
	}
}

func TestAdvanceDoesNotRenderOutstandingTwice(t *testing.T) {
	bot := new(MockBot)
	suggestions := new(MockSuggestionRepo)
	senders := new(MockSenderRepo)

	suggestion := &models.Suggestion{ID: 3, FileID: "file-3", SubmitterID: 200}
	suggestions.On("GetOldestUndecidedSuggestion", mock.Anything).Return(suggestion, nil)
	senders.On("GetSender", mock.Anything, int64(200)).Return(&models.Sender{UserID: 200, Username: "bob"}, nil)
	bot.On("SendDocument", mock.Anything, mock.Anything).Return(&telego.Message{MessageID: 56}, nil)

	q := NewQueue(bot, suggestions, senders, testReviewChatID)
	require.NoError(t, q.Advance(context.Background()))
	// A racing trigger while suggestion 3 is still undecided must be a no-op.
	require.NoError(t, q.Advance(context.Background()))

	bot.AssertNumberOfCalls(t, "SendDocument", 1)
}

func TestAdvanceRendersAgainAfterDecision(t *testing.T) {
	bot := new(MockBot)
	suggestions := new(MockSuggestionRepo)
	senders := new(MockSenderRepo)

	first := &models.Suggestion{ID: 3, FileID: "file-3", SubmitterID: 200}
	second := &models.Suggestion{ID: 4, FileID: "file-4", SubmitterID: 201}
	suggestions.On("GetOldestUndecidedSuggestion", mock.Anything).Return(first, nil).Once()
	suggestions.On("GetOldestUndecidedSuggestion", mock.Anything).Return(second, nil).Once()
	senders.On("GetSender", mock.Anything, mock.Anything).Return(&models.Sender{UserID: 200, Username: "bob"}, nil)
	bot.On("SendDocument", mock.Anything, mock.Anything).Return(&telego.Message{MessageID: 57}, nil)

	q := NewQueue(bot, suggestions, senders, testReviewChatID)
	require.NoError(t, q.Advance(context.Background()))
	q.markDecided(3)
	require.NoError(t, q.Advance(context.Background()))

	bot.AssertNumberOfCalls(t, "SendDocument", 2)
}

func TestRerenderSendsOutstandingSuggestionAgain(t *testing.T) {
	bot := new(MockBot)
	suggestions := new(MockSuggestionRepo)
	senders := new(MockSenderRepo)

	suggestion := &models.Suggestion{ID: 3, FileID: "file-3", SubmitterID: 200}
	suggestions.On("GetOldestUndecidedSuggestion", mock.Anything).Return(suggestion, nil)
	senders.On("GetSender", mock.Anything, int64(200)).Return(&models.Sender{UserID: 200, Username: "bob"}, nil)
	bot.On("SendDocument", mock.Anything, mock.Anything).Return(&telego.Message{MessageID: 58}, nil)

	q := NewQueue(bot, suggestions, senders, testReviewChatID)
	require.NoError(t, q.Advance(context.Background()))
	// Advance skips the outstanding item, Rerender sends it again.
	require.NoError(t, q.Advance(context.Background()))
	require.NoError(t, q.Rerender(context.Background()))

	bot.AssertNumberOfCalls(t, "SendDocument", 2)
}

func TestAdvancePropagatesStoreFailure(t *testing.T) {
	bot := new(MockBot)
	suggestions := new(MockSuggestionRepo)
	senders := new(MockSenderRepo)

	suggestions.On("GetOldestUndecidedSuggestion", mock.Anything).Return(nil, errors.New("store is down"))

	q := NewQueue(bot, suggestions, senders, testReviewChatID)
	err := q.Advance(context.Background())

	assert.Error(t, err)
	bot.AssertNotCalled(t, "SendDocument", mock.Anything, mock.Anything)
}
