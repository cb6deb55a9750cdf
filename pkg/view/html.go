package view

import (
	"fmt"
	"io"
	"sort"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// RenderHTML writes a switched tree as an HTML fragment.
func RenderHTML(w io.Writer, nodes []Node) error {
	for _, n := range toHTML(nodes) {
		if err := html.Render(w, n); err != nil {
			return fmt.Errorf("render html: %w", err)
		}
	}
	return nil
}

// RenderDocument wraps a switched tree in a complete HTML page.
func RenderDocument(w io.Writer, title string, nodes []Node) error {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	for _, n := range toHTML(nodes) {
		body.AppendChild(n)
	}

	titleNode := &html.Node{Type: html.ElementNode, Data: "title", DataAtom: atom.Title}
	titleNode.AppendChild(&html.Node{Type: html.TextNode, Data: title})
	head := &html.Node{Type: html.ElementNode, Data: "head", DataAtom: atom.Head}
	head.AppendChild(&html.Node{
		Type: html.ElementNode, Data: "meta", DataAtom: atom.Meta,
		Attr: []html.Attribute{{Key: "charset", Val: "utf-8"}},
	})
	head.AppendChild(titleNode)

	root := &html.Node{Type: html.ElementNode, Data: "html", DataAtom: atom.Html}
	root.AppendChild(head)
	root.AppendChild(body)

	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})
	doc.AppendChild(root)

	if err := html.Render(w, doc); err != nil {
		return fmt.Errorf("render document: %w", err)
	}
	return nil
}

func toHTML(nodes []Node) []*html.Node {
	var out []*html.Node
	for _, n := range nodes {
		switch n.Kind {
		case KindText:
			out = append(out, &html.Node{Type: html.TextNode, Data: n.Text})
		case KindElement:
			if n.Tag == "" {
				out = append(out, toHTML(n.Children)...)
				continue
			}
			el := &html.Node{
				Type:     html.ElementNode,
				Data:     n.Tag,
				DataAtom: atom.Lookup([]byte(n.Tag)),
				Attr:     attributes(n.Props),
			}
			for _, c := range toHTML(n.Children) {
				el.AppendChild(c)
			}
			out = append(out, el)
		}
	}
	return out
}

func attributes(p Props) []html.Attribute {
	if len(p) == 0 {
		return nil
	}
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	attrs := make([]html.Attribute, 0, len(keys))
	for _, k := range keys {
		attrs = append(attrs, html.Attribute{Key: k, Val: fmt.Sprint(p[k])})
	}
	return attrs
}
