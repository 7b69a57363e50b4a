package flow

import (
	"fmt"

	"filebot/core/telegram/format"
)

const (
	textProcessing = "⏳ Processing your file..."

	textAskPassword = "🔐 Enter a password for your file:\n\n" +
		"Just send the password as a message."

	textEmptyPassword = "❌ Password cannot be empty. Please try again:"

	textNoPendingFile = "❌ No file in progress. Send a file first."

	textFileNotFound = "❌ File not found"

	textRelayError = "❌ Error processing file. Please try again."

	textDeliveryError = "❌ Error generating links. Please try again."

	textPasswordError = "❌ Error setting password. Please try again."

	textLinksGenerated = "✅ Links generated!"

	textSendAFile = "📤 Please send a file (document, video, or audio) " +
		"or use /start for help."
)

func greeting(botName string) string {
	return fmt.Sprintf("👋 Welcome to %s!\n\n"+
		"📤 Send me any file (document, video, audio) and I'll convert it to:\n"+
		"  • Stream Link (▶️)\n"+
		"  • Download Link (⬇️)\n"+
		"  • Telegram Link (📱)\n\n"+
		"🔒 Optional: Protect your file with a password!\n\n"+
		"Just send a file to get started.", botName)
}

func receivedPrompt(fileName, fileKey string, fileSize int64) string {
	return fmt.Sprintf("📁 *File Received:* `%s`\n"+
		"💾 *Size:* %.2f MB\n"+
		"🔑 *Key:* `%s`\n\n"+
		"🔐 Do you want to protect this file with a password?",
		format.EscapeMarkdown(fileName), float64(fileSize)/(1024*1024), fileKey)
}
