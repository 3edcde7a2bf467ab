// Package render writes payloads for people and programs.
package render

import (
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/poiesic/polysearch/ai"
	"github.com/poiesic/polysearch/core"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatHTML = "html"
)

// Formats lists every supported format.
var Formats = []string{FormatText, FormatJSON, FormatHTML}

// ErrUnknownFormat is returned by New for an unsupported format.
var ErrUnknownFormat = errors.New("unknown output format")

// Renderer writes a payload to w.
type Renderer interface {
	Render(w io.Writer, payload *core.Payload) error
}

// New returns the renderer for format. Section labels come from localizer.
func New(format string, localizer ai.Localizer) (Renderer, error) {
	switch strings.ToLower(format) {
	case FormatText:
		return &textRenderer{localizer: localizer}, nil
	case FormatJSON:
		return &jsonRenderer{}, nil
	case FormatHTML:
		return &htmlRenderer{localizer: localizer}, nil
	default:
		return nil, fmt.Errorf("%w: %q (valid: %s)", ErrUnknownFormat, format, strings.Join(Formats, ", "))
	}
}

type textRenderer struct {
	localizer ai.Localizer
}

func (r *textRenderer) Render(w io.Writer, p *core.Payload) error {
	var b strings.Builder
	if p.NoResults {
		fmt.Fprintln(&b, p.Message)
		_, err := io.WriteString(w, b.String())
		return err
	}

	if p.Summary != "" {
		fmt.Fprintf(&b, "== %s ==\n%s\n\n", r.localizer.Localize(ai.LabelSummary, p.Language), p.Summary)
	}
	if p.Answer != "" {
		fmt.Fprintf(&b, "== %s ==\n%s\n\n", r.localizer.Localize(ai.LabelFAQ, p.Language), p.Answer)
	}
	for _, e := range p.Entries {
		fmt.Fprintf(&b, "%d. %s (%s)\n   %s\n", e.Rank, e.Title, e.Source, e.Link)
		if e.Snippet != "" {
			fmt.Fprintf(&b, "   %s\n", e.Snippet)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

type jsonEntry struct {
	Rank    int    `json:"rank"`
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
	Source  string `json:"source"`
}

type jsonPayload struct {
	Query     string      `json:"query"`
	Language  string      `json:"language"`
	NoResults bool        `json:"no_results"`
	Message   string      `json:"message,omitempty"`
	Summary   string      `json:"summary,omitempty"`
	Answer    string      `json:"answer,omitempty"`
	Results   []jsonEntry `json:"results"`
}

type jsonRenderer struct{}

func (r *jsonRenderer) Render(w io.Writer, p *core.Payload) error {
	out := jsonPayload{
		Query:     p.Query,
		Language:  p.Language,
		NoResults: p.NoResults,
		Message:   p.Message,
		Summary:   p.Summary,
		Answer:    p.Answer,
		Results:   make([]jsonEntry, len(p.Entries)),
	}
	for i, e := range p.Entries {
		out.Results[i] = jsonEntry{
			Rank:    e.Rank,
			Title:   e.Title,
			Link:    e.Link,
			Snippet: e.Snippet,
			Source:  e.Source.String(),
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

var htmlTemplate = template.Must(template.New("payload").Parse(`
{{- if .Payload.NoResults -}}
<p>{{ .Payload.Message }}</p>
{{- else -}}
<div>
{{- if .Payload.Summary }}
<h3>{{ .SummaryLabel }}</h3><p>{{ .Payload.Summary }}</p>
{{- end }}
{{- if .Payload.Answer }}
<h3>{{ .FAQLabel }}</h3><p>{{ .Payload.Answer }}</p><hr>
{{- end }}
{{- range .Payload.Entries }}
<div style="margin-bottom:1em; border-left: 3px solid #eee; padding-left: 1em;">
<b><a href="{{ .Link }}" target="_blank" style="text-decoration: none;">{{ .Title }}</a></b>
<small>({{ .Source }})</small><br>
<p style="margin-top: 0.5em; color: #555;">{{ .Snippet }}</p>
</div>
{{- end }}
</div>
{{- end }}
`))

type htmlRenderer struct {
	localizer ai.Localizer
}

func (r *htmlRenderer) Render(w io.Writer, p *core.Payload) error {
	return htmlTemplate.Execute(w, struct {
		Payload      *core.Payload
		SummaryLabel string
		FAQLabel     string
	}{
		Payload:      p,
		SummaryLabel: r.localizer.Localize(ai.LabelSummary, p.Language),
		FAQLabel:     r.localizer.Localize(ai.LabelFAQ, p.Language),
	})
}
