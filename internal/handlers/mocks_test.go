package handlers

import (
	"context"
	"os"
	"testing"

	"stickerbot/internal/database/models"
	"stickerbot/internal/locales"
	"stickerbot/internal/review"

	"github.com/mymmrac/telego"
	"github.com/stretchr/testify/mock"
)

func TestMain(m *testing.M) {
	locales.Init("en")
	os.Exit(m.Run())
}

const testReviewChatID = int64(-1001234567890)
const testGuidelinesURL = "https://example.com/guidelines"

// --- Mocks ---

// MockBot is a mock implementing the telegoapi.BotAPI interface
type MockBot struct {
	mock.Mock
}

func (m *MockBot) SendMessage(ctx context.Context, params *telego.SendMessageParams) (*telego.Message, error) {
	args := m.Called(ctx, params)
	if msg, ok := args.Get(0).(*telego.Message); ok {
		return msg, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockBot) SendDocument(ctx context.Context, params *telego.SendDocumentParams) (*telego.Message, error) {
	args := m.Called(ctx, params)
	if msg, ok := args.Get(0).(*telego.Message); ok {
		return msg, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockBot) EditMessageCaption(ctx context.Context, params *telego.EditMessageCaptionParams) (*telego.Message, error) {
	args := m.Called(ctx, params)
	if msg, ok := args.Get(0).(*telego.Message); ok {
		return msg, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockBot) AnswerCallbackQuery(ctx context.Context, params *telego.AnswerCallbackQueryParams) error {
	args := m.Called(ctx, params)
	return args.Error(0)
}

func (m *MockBot) SetMyCommands(ctx context.Context, params *telego.SetMyCommandsParams) error {
	args := m.Called(ctx, params)
	return args.Error(0)
}

func (m *MockBot) GetChatMember(ctx context.Context, params *telego.GetChatMemberParams) (telego.ChatMember, error) {
	args := m.Called(ctx, params)
	if member, ok := args.Get(0).(telego.ChatMember); ok {
		return member, args.Error(1)
	}
	return nil, args.Error(1)
}

// MockSuggestionRepo is a mock for database.SuggestionRepository
type MockSuggestionRepo struct {
	mock.Mock
}

func (m *MockSuggestionRepo) CreateSuggestion(ctx context.Context, suggestion *models.Suggestion) error {
	args := m.Called(ctx, suggestion)
	return args.Error(0)
}

func (m *MockSuggestionRepo) GetSuggestionByID(ctx context.Context, id int64) (*models.Suggestion, error) {
	args := m.Called(ctx, id)
	if s, ok := args.Get(0).(*models.Suggestion); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSuggestionRepo) GetOldestUndecidedSuggestion(ctx context.Context) (*models.Suggestion, error) {
	args := m.Called(ctx)
	if s, ok := args.Get(0).(*models.Suggestion); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSuggestionRepo) GetLatestSuggestionBySubmitter(ctx context.Context, submitterID int64) (*models.Suggestion, error) {
	args := m.Called(ctx, submitterID)
	if s, ok := args.Get(0).(*models.Suggestion); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSuggestionRepo) SetSuggestionStatus(ctx context.Context, id int64, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

// MockSenderRepo is a mock for database.SenderRepository
type MockSenderRepo struct {
	mock.Mock
}

func (m *MockSenderRepo) GetSender(ctx context.Context, userID int64) (*models.Sender, error) {
	args := m.Called(ctx, userID)
	if s, ok := args.Get(0).(*models.Sender); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSenderRepo) CreateSender(ctx context.Context, sender *models.Sender) error {
	args := m.Called(ctx, sender)
	return args.Error(0)
}

func (m *MockSenderRepo) UpdateSender(ctx context.Context, sender *models.Sender) error {
	args := m.Called(ctx, sender)
	return args.Error(0)
}

// MockReviewRepo is a mock for database.ReviewRepository
type MockReviewRepo struct {
	mock.Mock
}

func (m *MockReviewRepo) CreateReview(ctx context.Context, rev *models.Review) error {
	args := m.Called(ctx, rev)
	return args.Error(0)
}

func (m *MockReviewRepo) GetReviewBySuggestion(ctx context.Context, suggestionID int64) (*models.Review, error) {
	args := m.Called(ctx, suggestionID)
	if r, ok := args.Get(0).(*models.Review); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockReviewRepo) GetLatestReviewBySubmitter(ctx context.Context, submitterID int64) (*models.Review, error) {
	args := m.Called(ctx, submitterID)
	if r, ok := args.Get(0).(*models.Review); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

// MockReviewerChecker is a mock for the review.ReviewerChecker interface
type MockReviewerChecker struct {
	mock.Mock
}

func (m *MockReviewerChecker) IsReviewer(ctx context.Context, userID int64) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

// --- Fixture ---

type handlerFixture struct {
	bot         *MockBot
	senders     *MockSenderRepo
	suggestions *MockSuggestionRepo
	reviews     *MockReviewRepo
	checker     *MockReviewerChecker
	handler     *MessageHandler
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()
	f := &handlerFixture{
		bot:         new(MockBot),
		senders:     new(MockSenderRepo),
		suggestions: new(MockSuggestionRepo),
		reviews:     new(MockReviewRepo),
		checker:     new(MockReviewerChecker),
	}
	queue := review.NewQueue(f.bot, f.suggestions, f.senders, testReviewChatID)
	submissions := review.NewSubmissionHandler(f.bot, f.suggestions, queue)
	f.handler = NewMessageHandler(f.bot, f.senders, f.suggestions, f.reviews, submissions, f.checker, queue, testGuidelinesURL)
	return f
}

// expectReply captures the next message the bot sends so tests can assert on
// its text and destination.
func (f *handlerFixture) expectReply(captured **telego.SendMessageParams) {
	f.bot.On("SendMessage", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		*captured = args.Get(1).(*telego.SendMessageParams)
	}).Return(&telego.Message{}, nil)
}

func commandMessage(text string) telego.Message {
	return telego.Message{Text: text}
}
