// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	_ "embed"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/litwatch/pkg/types"
)

//go:embed template.html
var htmlTemplate string

// compiledTemplate is parsed at init time to fail fast on template errors.
var compiledTemplate = template.Must(template.New("report").Parse(htmlTemplate))

const displayDate = "2006/01/02"

// templateData is the view model handed to the HTML template.
type templateData struct {
	Generated string
	Version   string
	Window    string
	Warnings  []string
	Sections  []sectionView
}

type sectionView struct {
	Anchor       string
	Title        string
	Count        string
	Range        string
	Publications []publicationView
}

type publicationView struct {
	Title       string
	Link        string
	Authors     []authorView
	Journal     string
	Date        string
	Sources     string
	Abstract    string
	Highlighted bool
}

type authorView struct {
	Name        string
	Highlighted bool
}

// RenderHTML writes r as a self-contained HTML page.
func RenderHTML(w io.Writer, r *types.Report) error {
	if r == nil {
		return fmt.Errorf("report cannot be nil")
	}
	if err := compiledTemplate.Execute(w, newTemplateData(r)); err != nil {
		return fmt.Errorf("rendering report: %w", err)
	}
	return nil
}

// WriteHTML renders r to path, creating parent directories as needed.
func WriteHTML(path string, r *types.Report) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := RenderHTML(f, r); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func newTemplateData(r *types.Report) templateData {
	data := templateData{
		Generated: r.GeneratedAt.Format(displayDate),
		Version:   r.Version,
		Window:    r.StartDate.Format(displayDate) + " - " + r.GeneratedAt.Format(displayDate),
		Warnings:  r.Warnings,
	}
	for i, f := range r.Facets {
		s := sectionView{
			Anchor: fmt.Sprintf("section-%d", i+1),
			Title:  f.Title(),
			Count:  f.Count(),
		}
		if !f.Earliest.IsZero() {
			s.Range = f.Earliest.String() + " to " + f.Latest.String()
		}
		for _, p := range f.Publications {
			s.Publications = append(s.Publications, newPublicationView(p))
		}
		data.Sections = append(data.Sections, s)
	}
	return data
}

func newPublicationView(p types.Publication) publicationView {
	v := publicationView{
		Title:       p.Title,
		Link:        p.Link(),
		Journal:     p.Journal,
		Date:        p.Date.String(),
		Abstract:    p.Abstract,
		Highlighted: p.Highlighted,
		Sources:     strings.Join(p.SeenIn, ", "),
	}
	if v.Sources == "" {
		v.Sources = p.Source
	}
	for _, a := range p.Authors {
		v.Authors = append(v.Authors, authorView{Name: a, Highlighted: p.IsHighlightedAuthor(a)})
	}
	return v
}
