package notifier

import "strings"

var replacer = strings.NewReplacer(
	"-", "\\-",
	"_", "\\_",
	"*", "\\*",
	"[", "\\[",
	"]", "\\]",
	"(", "\\(",
	")", "\\)",
	"~", "\\~",
	"`", "\\`",
	">", "\\>",
	"#", "\\#",
	"+", "\\+",
	"=", "\\=",
	"|", "\\|",
	"{", "\\{",
	"}", "\\}",
	".", "\\.",
	"!", "\\!",
)

// EscapeForMarkdown escapes the characters Telegram's MarkdownV2 mode
// treats as markup.
func EscapeForMarkdown(src string) string {
	return replacer.Replace(src)
}
