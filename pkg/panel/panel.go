package panel

import (
	"fmt"

	"github.com/meower-media/reactions/pkg/emojis"
	"github.com/meower-media/reactions/pkg/reactions"
)

// RowWidth is the number of buttons per panel row.
const RowWidth = 3

type Button struct {
	Text  string
	Token string
}

// Panel is the button grid attached under a post, row by row.
type Panel [][]Button

// Render lays out one button per supported emoji in display order, labelled
// with the emoji alone or "emoji count" once somebody picked it.
func Render(counts reactions.Counts, set *emojis.Set) Panel {
	all := set.All()
	p := make(Panel, 0, (len(all)+RowWidth-1)/RowWidth)
	for start := 0; start < len(all); start += RowWidth {
		end := min(start+RowWidth, len(all))
		row := make([]Button, 0, end-start)
		for _, e := range all[start:end] {
			row = append(row, Button{Text: label(e, counts[e]), Token: e.Token()})
		}
		p = append(p, row)
	}
	return p
}

// Empty is the panel of a post nobody reacted to yet.
func Empty(set *emojis.Set) Panel {
	return Render(nil, set)
}

func label(e emojis.Emoji, count int) string {
	if count <= 0 {
		return e.String()
	}
	return fmt.Sprintf("%s %d", e, count)
}

// Buttons flattens the panel in display order.
func (p Panel) Buttons() []Button {
	var out []Button
	for _, row := range p {
		out = append(out, row...)
	}
	return out
}
