package format

import "strings"

var mdV1Replacer = strings.NewReplacer(
	"_", `\_`,
	"*", `\*`,
	"[", `\[`,
	"`", "\\`",
)

// EscapeMarkdown escapes the characters Telegram treats as Markdown (V1)
// markup, so user-supplied strings such as file names render literally.
func EscapeMarkdown(text string) string {
	return mdV1Replacer.Replace(text)
}
