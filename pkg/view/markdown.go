package view

import (
	"strconv"
	"strings"
)

var blockTags = map[string]bool{
	"div": true, "section": true, "main": true, "article": true,
	"header": true, "footer": true, "p": true, "pre": true,
	"ul": true, "ol": true, "li": true, "hr": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
}

// Markdown renders a switched tree as Markdown. State cases and callbacks
// left in the tree are skipped; run it on Switch output.
func Markdown(nodes []Node) string {
	return text{markup: true}.render(nodes)
}

// PlainText renders a switched tree without markup.
func PlainText(nodes []Node) string {
	return text{}.render(nodes)
}

type text struct {
	markup bool
}

func (t text) render(nodes []Node) string {
	out := strings.Join(t.blocks(nodes), "\n\n")
	if out == "" {
		return ""
	}
	return out + "\n"
}

// flatten expands groups in place.
func flatten(nodes []Node) []Node {
	out := make([]Node, 0, len(nodes))
	for _, n := range nodes {
		if n.Kind == KindElement && n.Tag == "" {
			out = append(out, flatten(n.Children)...)
			continue
		}
		out = append(out, n)
	}
	return out
}

func (t text) blocks(nodes []Node) []string {
	var (
		out []string
		run strings.Builder
	)
	flush := func() {
		if s := strings.TrimSpace(run.String()); s != "" {
			out = append(out, s)
		}
		run.Reset()
	}

	for _, n := range flatten(nodes) {
		if n.Kind == KindElement && blockTags[n.Tag] {
			flush()
			if b := t.block(n); b != "" {
				out = append(out, b)
			}
			continue
		}
		run.WriteString(t.inline([]Node{n}))
	}
	flush()
	return out
}

func (t text) block(n Node) string {
	switch n.Tag {
	case "h1", "h2", "h3", "h4", "h5", "h6":
		body := t.inline(n.Children)
		if !t.markup {
			return body
		}
		level, _ := strconv.Atoi(n.Tag[1:])
		return strings.Repeat("#", level) + " " + body
	case "p":
		return t.inline(n.Children)
	case "pre":
		body := t.inline(n.Children)
		if !t.markup {
			return body
		}
		return "```\n" + body + "\n```"
	case "hr":
		return "---"
	case "li":
		return "- " + t.inline(n.Children)
	case "ul", "ol":
		var items []string
		i := 0
		for _, c := range flatten(n.Children) {
			if c.Kind != KindElement || c.Tag != "li" {
				continue
			}
			i++
			marker := "- "
			if n.Tag == "ol" {
				marker = strconv.Itoa(i) + ". "
			}
			items = append(items, marker+t.inline(c.Children))
		}
		return strings.Join(items, "\n")
	default:
		return strings.Join(t.blocks(n.Children), "\n\n")
	}
}

func (t text) inline(nodes []Node) string {
	var sb strings.Builder
	for _, n := range flatten(nodes) {
		switch n.Kind {
		case KindText:
			sb.WriteString(n.Text)
		case KindElement:
			body := t.inline(n.Children)
			switch {
			case n.Tag == "br":
				sb.WriteString("\n")
			case !t.markup:
				sb.WriteString(body)
			case n.Tag == "strong" || n.Tag == "b":
				sb.WriteString("**" + body + "**")
			case n.Tag == "em" || n.Tag == "i":
				sb.WriteString("_" + body + "_")
			case n.Tag == "code":
				sb.WriteString("`" + body + "`")
			default:
				sb.WriteString(body)
			}
		}
	}
	return sb.String()
}
