package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/marquee/internal/models"
	"github.com/desertthunder/marquee/internal/shared"
)

// Styles is the default palette used by the CLI.
var Styles = NewPalette("#7D56F4", "#04B575", "#FF0000", "#FFA500", "#626262")

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
	help  lipgloss.Style
}

func NewPalette(t, s, e, w, h string) *Palette {
	return &Palette{
		title: NewBold(t).MarginBottom(1),
		ok:    NewBold(s),
		err:   NewBold(e),
		warn:  NewStyle(w),
		help:  NewEm(h),
	}
}

// Plain returns a palette that renders text unchanged, for non-terminal output.
func Plain() *Palette {
	s := lipgloss.NewStyle()
	return &Palette{title: s, ok: s, err: s, warn: s, help: s}
}

func (p *Palette) Title(s string) string { return p.title.Render(s) }
func (p *Palette) OK(s string) string    { return p.ok.Render(s) }
func (p *Palette) Err(s string) string   { return p.err.Render(s) }
func (p *Palette) Warn(s string) string  { return p.warn.Render(s) }
func (p *Palette) Help(s string) string  { return p.help.Render(s) }

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}

// MovieLine renders one numbered row of a list: "3. Heat (1995) · Crime, Drama · 2h 50m".
func (p *Palette) MovieLine(position int, m models.Movie) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%3d. %s", position, p.OK(m.Title))
	if y := m.Year(); y != "" {
		fmt.Fprintf(&b, " (%s)", y)
	}
	if len(m.Genres) > 0 {
		b.WriteString(" · " + strings.Join(m.Genres, ", "))
	}
	if m.RuntimeMinutes > 0 {
		b.WriteString(" · " + shared.FormatRuntime(m.RuntimeMinutes))
	}
	b.WriteString(" " + p.Help("["+m.ID+"]"))
	return b.String()
}

// MovieDetail renders every field of m across several lines.
func (p *Palette) MovieDetail(m models.Movie) string {
	var b strings.Builder

	title := m.Title
	if y := m.Year(); y != "" {
		title += " (" + y + ")"
	}
	b.WriteString(p.Title(title) + "\n")

	director := m.Director
	if director == "" {
		director = models.UnknownDirector
	}
	fmt.Fprintf(&b, "Director: %s\n", director)
	if len(m.Cast) > 0 {
		fmt.Fprintf(&b, "Cast:     %s\n", strings.Join(m.Cast, ", "))
	}
	if len(m.Genres) > 0 {
		fmt.Fprintf(&b, "Genres:   %s\n", strings.Join(m.Genres, ", "))
	}
	fmt.Fprintf(&b, "Runtime:  %s\n", shared.FormatRuntime(m.RuntimeMinutes))
	if m.Rating > 0 {
		fmt.Fprintf(&b, "Rating:   %.1f/10\n", m.Rating)
	}
	if m.TrailerURL != "" {
		fmt.Fprintf(&b, "Trailer:  %s\n", m.TrailerURL)
	}
	if m.PosterURL != "" {
		fmt.Fprintf(&b, "Poster:   %s\n", m.PosterURL)
	}

	overview := m.Overview
	if overview == "" {
		overview = models.NoOverview
	}
	b.WriteString("\n" + overview + "\n")
	return b.String()
}
