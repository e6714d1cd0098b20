package dispatch

import "github.com/jfk9w-go/telegram-bot-api"

type WebAppInfo struct {
	URL string `json:"url"`
}

type KeyboardButton struct {
	Text   string      `json:"text"`
	WebApp *WebAppInfo `json:"web_app,omitempty"`
}

// ReplyKeyboard is a custom keyboard shown in place of the regular one.
// Pressing a button sends its text as a plain message.
type ReplyKeyboard struct {
	telegram.InlineKeyboardMarkup `json:"-"`
	Keyboard                      [][]KeyboardButton `json:"keyboard"`
	ResizeKeyboard                bool               `json:"resize_keyboard,omitempty"`
}

func LabelKeyboard(rows ...[]string) *ReplyKeyboard {
	keyboard := make([][]KeyboardButton, len(rows))
	for i, row := range rows {
		keyboard[i] = make([]KeyboardButton, len(row))
		for j, label := range row {
			keyboard[i][j] = KeyboardButton{Text: label}
		}
	}

	return &ReplyKeyboard{
		Keyboard:       keyboard,
		ResizeKeyboard: true,
	}
}

type WebAppButton struct {
	Text   string     `json:"text"`
	WebApp WebAppInfo `json:"web_app"`
}

// WebAppKeyboard is an inline keyboard with buttons opening web apps.
type WebAppKeyboard struct {
	telegram.InlineKeyboardMarkup `json:"-"`
	InlineKeyboard                [][]WebAppButton `json:"inline_keyboard"`
}

func WebAppLink(text, url string) *WebAppKeyboard {
	return &WebAppKeyboard{
		InlineKeyboard: [][]WebAppButton{{{Text: text, WebApp: WebAppInfo{URL: url}}}},
	}
}
