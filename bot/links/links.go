// Package links renders access links and the delivery message from
// configured URL templates. It is pure string work, no I/O.
package links

import (
	"fmt"
	"strconv"
	"strings"

	"filebot/core/telegram/format"
)

// Builder expands the configured link templates.
type Builder struct {
	streamTpl   string
	downloadTpl string
	telegramTpl string
}

// NewBuilder creates a Builder from the three URL templates.
// Stream and download templates use {file_key}; the telegram template
// uses {username} and {message_id}.
func NewBuilder(streamTpl, downloadTpl, telegramTpl string) *Builder {
	return &Builder{
		streamTpl:   streamTpl,
		downloadTpl: downloadTpl,
		telegramTpl: telegramTpl,
	}
}

// Stream returns the streaming link for a key.
func (b *Builder) Stream(fileKey string) string {
	return strings.ReplaceAll(b.streamTpl, "{file_key}", fileKey)
}

// Download returns the direct download link for a key.
func (b *Builder) Download(fileKey string) string {
	return strings.ReplaceAll(b.downloadTpl, "{file_key}", fileKey)
}

// Telegram returns the in-Telegram link to the archived copy.
func (b *Builder) Telegram(botUsername string, archiveMsgID int) string {
	link := strings.ReplaceAll(b.telegramTpl, "{username}", botUsername)
	return strings.ReplaceAll(link, "{message_id}", strconv.Itoa(archiveMsgID))
}

// Set bundles the three links issued for one file.
type Set struct {
	Stream   string
	Download string
	Telegram string
}

// Build produces all three links at once.
func (b *Builder) Build(fileKey, botUsername string, archiveMsgID int) Set {
	return Set{
		Stream:   b.Stream(fileKey),
		Download: b.Download(fileKey),
		Telegram: b.Telegram(botUsername, archiveMsgID),
	}
}

// DeliveryMessage renders the final Markdown message with the file
// name, key, password status and the three links. The file name is
// escaped; key and links are kept verbatim.
func DeliveryMessage(fileName, fileKey string, hasPassword bool, set Set) string {
	protected := "No"
	if hasPassword {
		protected = "Yes"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "📁 *File Links for:* `%s`\n\n", format.EscapeMarkdown(fileName))
	fmt.Fprintf(&sb, "🔑 *File Key:* `%s`\n", fileKey)
	fmt.Fprintf(&sb, "🔒 *Password Protected:* %s\n\n", protected)
	sb.WriteString("*Available Links:*\n")
	fmt.Fprintf(&sb, "▶️ [Stream Link](%s)\n", set.Stream)
	fmt.Fprintf(&sb, "⬇️ [Download Link](%s)\n", set.Download)
	fmt.Fprintf(&sb, "📱 [Telegram Link](%s)\n", set.Telegram)
	return sb.String()
}
