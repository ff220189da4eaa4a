// Package telegram is a minimal Bot API client covering what the bot
// actually uses: webhook management, sending messages with inline keyboards,
// and downloading voice/photo attachments.
package telegram

// Update is one inbound webhook event. Only message updates are handled.
type Update struct {
	UpdateID int64    `json:"update_id"`
	Message  *Message `json:"message"`
}

type Message struct {
	MessageID  int64       `json:"message_id"`
	From       *User       `json:"from"`
	Chat       Chat        `json:"chat"`
	Text       string      `json:"text"`
	Caption    string      `json:"caption"`
	Voice      *Voice      `json:"voice"`
	Photo      []PhotoSize `json:"photo"`
	WebAppData *WebAppData `json:"web_app_data"`
}

type User struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
}

type Chat struct {
	ID int64 `json:"id"`
}

type Voice struct {
	FileID   string `json:"file_id"`
	MIMEType string `json:"mime_type"`
	Duration int    `json:"duration"`
}

// PhotoSize is one rendition of a photo; Telegram sends several sizes and
// the last one is the largest.
type PhotoSize struct {
	FileID   string `json:"file_id"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	FileSize int64  `json:"file_size"`
}

// WebAppData is the payload a Mini App sends back through sendData.
type WebAppData struct {
	Data       string `json:"data"`
	ButtonText string `json:"button_text"`
}

type File struct {
	FileID   string `json:"file_id"`
	FilePath string `json:"file_path"`
}

type InlineKeyboardMarkup struct {
	InlineKeyboard [][]InlineKeyboardButton `json:"inline_keyboard"`
}

type InlineKeyboardButton struct {
	Text   string      `json:"text"`
	URL    string      `json:"url,omitempty"`
	WebApp *WebAppInfo `json:"web_app,omitempty"`
}

type WebAppInfo struct {
	URL string `json:"url"`
}
