package telegoapi

import (
	"context"

	"github.com/mymmrac/telego"
)

// BotAPI defines the interface for bot operations used by various packages.
// This allows using both the real telego.Bot and mocks.
type BotAPI interface {
	SendMessage(ctx context.Context, params *telego.SendMessageParams) (*telego.Message, error)
	SendDocument(ctx context.Context, params *telego.SendDocumentParams) (*telego.Message, error)
	EditMessageCaption(ctx context.Context, params *telego.EditMessageCaptionParams) (*telego.Message, error)
	AnswerCallbackQuery(ctx context.Context, params *telego.AnswerCallbackQueryParams) error
	SetMyCommands(ctx context.Context, params *telego.SetMyCommandsParams) error
	GetChatMember(ctx context.Context, params *telego.GetChatMemberParams) (telego.ChatMember, error)
}
