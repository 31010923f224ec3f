package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"lfilms/internal/media"
	"lfilms/internal/store"
)

var (
	accentColor = lipgloss.AdaptiveColor{Light: "#B3261E", Dark: "#F2B8B5"}
	mutedColor  = lipgloss.AdaptiveColor{Light: "#5F6368", Dark: "#9AA0A6"}
	warnColor   = lipgloss.AdaptiveColor{Light: "#B06000", Dark: "#FDD663"}
)

// Printer writes results. Styling is applied only when the output is a
// terminal.
type Printer struct {
	w      io.Writer
	diag   io.Writer
	styled bool

	title  lipgloss.Style
	accent lipgloss.Style
	muted  lipgloss.Style
	warn   lipgloss.Style
}

// NewPrinter returns a Printer for w. Warnings go to diag so that w carries
// results only. theme picks the palette; ThemeAuto asks the terminal.
func NewPrinter(w, diag io.Writer, theme store.Theme) *Printer {
	r := lipgloss.NewRenderer(w)
	switch theme {
	case store.ThemeLight:
		r.SetHasDarkBackground(false)
	case store.ThemeDark:
		r.SetHasDarkBackground(true)
	}

	return &Printer{
		w:      w,
		diag:   diag,
		styled: isTerminal(w),
		title:  r.NewStyle().Bold(true),
		accent: r.NewStyle().Foreground(accentColor),
		muted:  r.NewStyle().Foreground(mutedColor),
		warn:   r.NewStyle().Foreground(warnColor).Bold(true),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (p *Printer) render(s lipgloss.Style, text string) string {
	if !p.styled || text == "" {
		return text
	}
	return s.Render(text)
}

// Lines prints one item per line.
func (p *Printer) Lines(items []string) {
	for _, item := range items {
		fmt.Fprintln(p.w, item)
	}
}

// Warn prints a highlighted notice.
func (p *Printer) Warn(format string, args ...any) {
	fmt.Fprintln(p.diag, p.render(p.warn, fmt.Sprintf(format, args...)))
}

// Listing prints a page of cards followed by the paging position.
func (p *Printer) Listing(list media.MoviesList) {
	if len(list.Movies) == 0 {
		fmt.Fprintln(p.w, p.render(p.muted, "Nothing found."))
		return
	}
	for i, m := range list.Movies {
		fmt.Fprintf(p.w, "%3d. %s\n", i+1, p.render(p.title, m.Name))
		if m.Description != "" {
			fmt.Fprintf(p.w, "     %s\n", m.Description)
		}
		fmt.Fprintf(p.w, "     %s\n", p.render(p.muted, m.Path))
	}
	footer := fmt.Sprintf("page %d of %d", list.Page, list.MaxPage)
	if list.HasNext() {
		footer += fmt.Sprintf(" (next: --page %d)", list.Page+1)
	}
	fmt.Fprintln(p.w, p.render(p.muted, footer))
}

// Movie prints the detail card of a title.
func (p *Printer) Movie(m media.Movie) {
	header := p.render(p.title, m.Title)
	if m.OriginalTitle != "" {
		header += " " + p.render(p.muted, "("+m.OriginalTitle+")")
	}
	fmt.Fprintln(p.w, header)

	var flags []string
	if m.IsSerial {
		flags = append(flags, "serial")
	}
	if m.IsComingSoon {
		flags = append(flags, "coming soon")
	}
	if m.IsRestricted {
		flags = append(flags, "restricted in your region")
	}
	if len(flags) > 0 {
		fmt.Fprintln(p.w, p.render(p.warn, strings.Join(flags, ", ")))
	}

	rows := [][2]string{
		{"IMDb", score(m.IMDb)},
		{"Kinopoisk", score(m.Kinopoisk)},
		{"Slogan", m.Slogan},
		{"Released", m.ReleaseDate.String()},
		{"Country", strings.Join(m.Countries, ", ")},
		{"Director", strings.Join(m.Directors, ", ")},
		{"Genre", m.GenresString()},
		{"Age", m.AgeRating},
		{"Duration", m.Duration.String()},
		{"Series", strings.Join(m.Series, "; ")},
		{"Cast", strings.Join(m.Actors, ", ")},
	}
	for _, row := range rows {
		if row[1] == "" {
			continue
		}
		fmt.Fprintf(p.w, "%-10s %s\n", p.render(p.accent, row[0]+":"), row[1])
	}

	if m.Description != "" {
		fmt.Fprintf(p.w, "\n%s\n", m.Description)
	}

	fmt.Fprintln(p.w)
	fmt.Fprintln(p.w, p.render(p.title, "Translations"))
	for _, t := range m.Translations {
		fmt.Fprintf(p.w, "  %5d  %s\n", t.ID, t.Name)
	}
}

func score(s media.Score) string {
	if s.Rating == 0 {
		return ""
	}
	if s.Votes == 0 {
		return s.Rating.String()
	}
	return fmt.Sprintf("%s (%s votes)", s.Rating, s.Votes.Full())
}

// Seasons prints season and episode ids.
func (p *Printer) Seasons(seasons []media.Season) {
	if len(seasons) == 0 {
		fmt.Fprintln(p.w, p.render(p.muted, "No seasons available for this translation."))
		return
	}
	for _, s := range seasons {
		ids := make([]string, len(s.Episodes))
		for i, e := range s.Episodes {
			ids[i] = fmt.Sprint(e.ID)
		}
		fmt.Fprintf(p.w, "%s %d: %s\n", p.render(p.accent, "Season"), s.ID, strings.Join(ids, " "))
	}
}

// Streams prints one line per quality, then the shared subtitle tracks.
func (p *Printer) Streams(streams []media.Stream) {
	if len(streams) == 0 {
		fmt.Fprintln(p.w, p.render(p.muted, "No streams returned. The translation may be unavailable."))
		return
	}
	for _, s := range streams {
		fmt.Fprintf(p.w, "%-10s %s\n", p.render(p.accent, s.Quality), s.URL)
	}
	if subs := streams[0].Subtitles; len(subs) > 0 {
		fmt.Fprintln(p.w, p.render(p.title, "Subtitles"))
		for _, sub := range subs {
			fmt.Fprintf(p.w, "  %-4s %-14s %s\n", sub.Lang, sub.Name, p.render(p.muted, sub.URL))
		}
	}
}
