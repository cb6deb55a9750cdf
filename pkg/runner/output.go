package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aretw0/pagestate/pkg/view"
)

// Output receives rendered frames.
type Output interface {
	Write(ctx context.Context, frame Frame) error
}

// OutputFunc adapts a function to Output.
type OutputFunc func(ctx context.Context, frame Frame) error

// Write implements Output.
func (f OutputFunc) Write(ctx context.Context, frame Frame) error {
	return f(ctx, frame)
}

// ContentRenderer transforms Markdown before it is printed.
// This allows terminal rendering (markdown to ANSI) without coupling the core package.
type ContentRenderer func(string) (string, error)

// TextOutput prints each frame as Markdown.
type TextOutput struct {
	Writer    io.Writer
	Renderer  ContentRenderer
	Separator string
}

// NewTextOutput creates a text output. A nil renderer prints raw Markdown.
func NewTextOutput(w io.Writer, renderer ContentRenderer) *TextOutput {
	if w == nil {
		w = os.Stdout
	}
	return &TextOutput{
		Writer:    w,
		Renderer:  renderer,
		Separator: "---",
	}
}

// Write implements Output.
func (o *TextOutput) Write(ctx context.Context, frame Frame) error {
	output := view.Markdown(frame.Nodes)
	if o.Renderer != nil {
		// Rendering is cosmetic; fall back to raw Markdown.
		if rendered, err := o.Renderer(output); err == nil {
			output = rendered
		}
	}
	if o.Separator != "" {
		if _, err := fmt.Fprintln(o.Writer, o.Separator); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(o.Writer, strings.TrimSpace(output))
	return err
}

// JSONOutput writes one JSON line per frame.
type JSONOutput struct {
	Encoder *json.Encoder
}

type jsonFrame struct {
	MachineID  string   `json:"machine_id"`
	Generation uint64   `json:"generation"`
	Current    string   `json:"current"`
	Active     []string `json:"active"`
	Text       string   `json:"text"`
}

// NewJSONOutput creates a JSON-Lines output.
func NewJSONOutput(w io.Writer) *JSONOutput {
	if w == nil {
		w = os.Stdout
	}
	return &JSONOutput{Encoder: json.NewEncoder(w)}
}

// Write implements Output.
func (o *JSONOutput) Write(ctx context.Context, frame Frame) error {
	return o.Encoder.Encode(jsonFrame{
		MachineID:  frame.Snapshot.MachineID,
		Generation: frame.Snapshot.Generation,
		Current:    frame.Snapshot.Current,
		Active:     frame.Snapshot.Names(),
		Text:       strings.TrimSpace(view.PlainText(frame.Nodes)),
	})
}
