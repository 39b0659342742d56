package document

import (
	"strings"
	"unicode"

	"github.com/mattn/go-runewidth"
)

type piece struct {
	text  string
	style string
	dest  NamedDestination
	space bool
}

// splitSpans 把片段切成空白段和非空白段，锚点落在第一个非空白段上
func splitSpans(spans []Span) []piece {
	var pieces []piece
	for _, span := range spans {
		dest := span.Destination
		start := len(pieces)
		for _, run := range splitRuns(span.Text) {
			pieces = append(pieces, piece{
				text:  run,
				style: span.Style,
				space: strings.TrimSpace(run) == "",
			})
		}
		if dest == "" {
			continue
		}
		placed := false
		for i := start; i < len(pieces); i++ {
			if !pieces[i].space {
				pieces[i].dest = dest
				placed = true
				break
			}
		}
		if !placed {
			pieces = append(pieces, piece{style: span.Style, dest: dest})
		}
	}
	return pieces
}

func splitRuns(s string) []string {
	var runs []string
	start := 0
	inSpace := false
	for i, r := range s {
		sp := unicode.IsSpace(r)
		if i > 0 && sp != inSpace {
			runs = append(runs, s[start:i])
			start = i
		}
		inSpace = sp
	}
	if start < len(s) {
		runs = append(runs, s[start:])
	}
	return runs
}

func piecesWidth(pieces []piece) int {
	w := 0
	for _, p := range pieces {
		w += runewidth.StringWidth(p.text)
	}
	return w
}

// WrapSpans 按显示宽度折行；width <= 0 时不折行
//
// 单词不会被拆开，超宽单词独占一行。行首行尾的空白被丢弃。
func WrapSpans(spans []Span, width int) [][]Span {
	pieces := splitSpans(spans)

	var units [][]piece
	for i := 0; i < len(pieces); {
		j := i + 1
		for j < len(pieces) && pieces[j].space == pieces[i].space {
			j++
		}
		units = append(units, pieces[i:j])
		i = j
	}

	var lines [][]Span
	var cur, pending []piece
	curWidth := 0
	flush := func() {
		if len(cur) > 0 {
			lines = append(lines, mergePieces(cur))
		}
		cur, pending, curWidth = nil, nil, 0
	}

	for _, unit := range units {
		if unit[0].space {
			if curWidth > 0 {
				pending = unit
			}
			continue
		}
		w := piecesWidth(unit)
		if w == 0 {
			// 不含文字的锚点跟在前一个词后面，不吃掉词间空白
			cur = append(cur, unit...)
			continue
		}
		sw := piecesWidth(pending)
		if curWidth > 0 && width > 0 && curWidth+sw+w > width {
			flush()
		}
		if curWidth > 0 {
			cur = append(cur, pending...)
			curWidth += sw
		}
		cur = append(cur, unit...)
		curWidth += w
		pending = nil
	}
	flush()
	return lines
}

func mergePieces(pieces []piece) []Span {
	var spans []Span
	for _, p := range pieces {
		n := len(spans)
		// 不含文字的锚点片段保持独立
		if n > 0 && p.dest == "" && spans[n-1].Style == p.style && !isAnchor(spans[n-1]) {
			spans[n-1].Text += p.text
			continue
		}
		spans = append(spans, Span{Text: p.text, Style: p.style, Destination: p.dest})
	}
	return spans
}

func isAnchor(span Span) bool {
	return span.Destination != "" && span.Text == ""
}
