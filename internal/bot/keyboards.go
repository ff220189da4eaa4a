package bot

import (
	"fmt"
	"strings"

	"github.com/artilectai/artilect-bot/internal/telegram"
)

// OpenAppKeyboard offers two ways into the app: a deep link that opens the
// Mini App full-screen, and a web_app button that opens it as a sheet inside
// the chat.
func OpenAppKeyboard(botUsername, webAppURL string) *telegram.InlineKeyboardMarkup {
	deepLink := fmt.Sprintf("https://t.me/%s?startapp=start", strings.TrimPrefix(botUsername, "@"))
	return &telegram.InlineKeyboardMarkup{
		InlineKeyboard: [][]telegram.InlineKeyboardButton{
			{{Text: "Open Artilect", URL: deepLink}},
			{{Text: "Open inside chat", WebApp: &telegram.WebAppInfo{URL: webAppURL}}},
		},
	}
}
