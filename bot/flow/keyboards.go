package flow

import (
	"filebot/core/telegram/keyboard"

	tele "gopkg.in/telebot.v4"
)

// Callback keys for the password choice buttons.
const (
	CallbackNoPassword  = "pwd_no"
	CallbackSetPassword = "pwd_yes"
)

func passwordChoiceKeyboard() *tele.ReplyMarkup {
	return keyboard.InlineButtonsRows([]keyboard.InlineBtn{
		{Text: "✅ No Password", Unique: CallbackNoPassword},
		{Text: "🔒 Yes, Set Password", Unique: CallbackSetPassword},
	})
}
