package bot

import (
	"fmt"
	"html"
	"strings"

	"github.com/meower-media/reactions/pkg/reactions"
)

const (
	MsgUnsupported = "This reaction is not supported"
	MsgTapFailed   = "Something went wrong, try again"
	MsgRemoved     = "Reaction removed"

	MsgStatsForbidden = "🚫 Only admins can view statistics."
	MsgStatsUsage     = "Usage: /stats <message_id>"
	MsgStatsEmpty     = "📭 No reactions on this message yet."
	MsgStatsFailed    = "Could not load statistics, try again later."
)

// AckText is the feedback shown to the user after a tap.
func AckText(out reactions.Outcome) string {
	switch out.Action {
	case reactions.ActionAdded:
		return fmt.Sprintf("You picked %s", out.Emoji)
	case reactions.ActionChanged:
		return fmt.Sprintf("Changed to %s", out.Emoji)
	}
	return MsgRemoved
}

// FormatStats renders the admin report as Telegram HTML.
func FormatStats(entries []reactions.Entry) string {
	var b strings.Builder
	b.WriteString("📊 <b>Reactions:</b>\n\n")
	for _, e := range entries {
		fmt.Fprintf(&b, "%s — %s\n", e.Emoji, html.EscapeString(e.UserName))
	}
	return b.String()
}
