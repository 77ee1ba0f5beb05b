// package formatter exports movie lists to various formats (CSV, Markdown, plain text, JSON)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/marquee/internal/models"
	"github.com/desertthunder/marquee/internal/shared"
)

// Format names an export format.
type Format string

const (
	CSV      Format = "csv"
	Markdown Format = "markdown"
	Text     Format = "txt"
	JSON     Format = "json"
)

// ParseFormat accepts a format name or a common file extension.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "csv":
		return CSV, nil
	case "markdown", "md":
		return Markdown, nil
	case "txt", "text":
		return Text, nil
	case "json":
		return JSON, nil
	default:
		return "", fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidFlag, s)
	}
}

// Export is a titled snapshot of a list view.
type Export struct {
	Title    string         `json:"title"`
	Language string         `json:"language"`
	Genres   []string       `json:"genres,omitempty"`
	Movies   []models.Movie `json:"movies"`
}

// WriteExport renders export in format to w.
func WriteExport(w io.Writer, export *Export, format Format) error {
	var (
		data []byte
		err  error
	)

	switch format {
	case CSV:
		data, err = ExportToCSV(export)
	case Markdown:
		data, err = ExportToMarkdown(export, nil)
	case Text:
		data, err = ExportToText(export)
	case JSON:
		data, err = ExportToJSON(export)
	default:
		return fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidFlag, format)
	}
	if err != nil {
		return err
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}

// ExportToCSV converts an Export to CSV format with columns: Position, ID, Title, Year, Director, Genres, Rating, Runtime
func ExportToCSV(export *Export) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Position", "ID", "Title", "Year", "Director", "Genres", "Rating", "Runtime"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for i, m := range export.Movies {
		record := []string{
			strconv.Itoa(i + 1),
			m.ID,
			m.Title,
			m.Year(),
			m.Director,
			strings.Join(m.Genres, "; "),
			strconv.FormatFloat(m.Rating, 'f', 1, 64),
			strconv.Itoa(m.RuntimeMinutes),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts an Export to Markdown format.
//
// posters maps movie ids to local image paths; movies without one link the remote poster when known.
func ExportToMarkdown(export *Export, posters map[string]string) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", export.Title)
	fmt.Fprintf(&buf, "**Movies**: %d\n", len(export.Movies))
	if export.Language != "" {
		fmt.Fprintf(&buf, "**Language**: %s\n", export.Language)
	}
	if len(export.Genres) > 0 {
		fmt.Fprintf(&buf, "**Genres**: %s\n", strings.Join(export.Genres, ", "))
	}
	buf.WriteString("\n")

	for i, m := range export.Movies {
		year := ""
		if y := m.Year(); y != "" {
			year = fmt.Sprintf(" (%s)", y)
		}
		fmt.Fprintf(&buf, "## %d. %s%s\n\n", i+1, m.Title, year)

		if poster, ok := posters[m.ID]; ok {
			fmt.Fprintf(&buf, "![Poster](%s)\n\n", poster)
		} else if m.PosterURL != "" {
			fmt.Fprintf(&buf, "![Poster](%s)\n\n", m.PosterURL)
		}

		director := m.Director
		if director == "" {
			director = models.UnknownDirector
		}
		fmt.Fprintf(&buf, "**Director**: %s  \n", director)
		if len(m.Cast) > 0 {
			fmt.Fprintf(&buf, "**Cast**: %s  \n", strings.Join(m.Cast, ", "))
		}
		if len(m.Genres) > 0 {
			fmt.Fprintf(&buf, "**Genres**: %s  \n", strings.Join(m.Genres, ", "))
		}
		fmt.Fprintf(&buf, "**Runtime**: %s  \n", shared.FormatRuntime(m.RuntimeMinutes))
		if m.Rating > 0 {
			fmt.Fprintf(&buf, "**Rating**: %.1f/10  \n", m.Rating)
		}
		if m.TrailerURL != "" {
			fmt.Fprintf(&buf, "**Trailer**: %s  \n", m.TrailerURL)
		}

		overview := m.Overview
		if overview == "" {
			overview = models.NoOverview
		}
		fmt.Fprintf(&buf, "\n%s\n\n", overview)
	}

	return buf.Bytes(), nil
}

// ExportToText converts an Export to plain text format
func ExportToText(export *Export) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "List: %s\n", export.Title)
	if len(export.Genres) > 0 {
		fmt.Fprintf(&buf, "Genres: %s\n", strings.Join(export.Genres, ", "))
	}
	fmt.Fprintf(&buf, "Movies: %d\n\n", len(export.Movies))

	for i, m := range export.Movies {
		line := fmt.Sprintf("%d. %s", i+1, m.Title)
		if y := m.Year(); y != "" {
			line += fmt.Sprintf(" (%s)", y)
		}
		if m.Director != "" {
			line += " - " + m.Director
		}
		buf.WriteString(line + "\n")
	}

	return buf.Bytes(), nil
}

// ExportToJSON renders the export as indented JSON.
func ExportToJSON(export *Export) ([]byte, error) {
	data, err := shared.MarshalJSON(export, true)
	if err != nil {
		return nil, fmt.Errorf("failed to encode JSON: %w", err)
	}
	return append(data, '\n'), nil
}

// DownloadImage downloads an image from the given URL and returns the raw bytes
func DownloadImage(url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("%w: empty URL provided", shared.ErrInvalidInput)
	}

	client := &http.Client{
		Timeout: 30 * time.Second,
	}

	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	return imageData, nil
}

// MarkdownExportResult contains information about files created by WriteMarkdownExport
type MarkdownExportResult struct {
	Directory string
	Files     []string
	Posters   int
}

// WriteMarkdownExport exports a list to Markdown format in a dedicated directory.
//
// When withPosters is set, each poster is downloaded into {dir}/posters/{id}.jpg; failed downloads
// fall back to the remote URL and are reported through warn.
// Creates a directory structure: {dir}/README.md and optionally {dir}/posters/
func WriteMarkdownExport(export *Export, outputDir string, withPosters bool, warn func(id string, err error)) (*MarkdownExportResult, error) {
	if outputDir == "" {
		return nil, fmt.Errorf("%w: output directory", shared.ErrMissingArgument)
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	result := &MarkdownExportResult{
		Directory: outputDir,
		Files:     []string{},
	}

	posters := map[string]string{}
	if withPosters {
		posterDir := filepath.Join(outputDir, "posters")
		if err := os.MkdirAll(posterDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create poster directory: %w", err)
		}

		for _, m := range export.Movies {
			if m.PosterURL == "" {
				continue
			}
			data, err := DownloadImage(m.PosterURL)
			if err == nil {
				name := m.ID + ".jpg"
				err = os.WriteFile(filepath.Join(posterDir, name), data, 0644)
				if err == nil {
					posters[m.ID] = "posters/" + name
					result.Files = append(result.Files, filepath.Join(posterDir, name))
					result.Posters++
					continue
				}
			}
			if warn != nil {
				warn(m.ID, err)
			}
		}
	}

	mdData, err := ExportToMarkdown(export, posters)
	if err != nil {
		return nil, fmt.Errorf("failed to generate Markdown: %w", err)
	}

	mdFile := filepath.Join(outputDir, "README.md")
	if err := os.WriteFile(mdFile, mdData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write Markdown file: %w", err)
	}

	result.Files = append(result.Files, mdFile)

	return result, nil
}

// WriteFileExport writes a single-file export, defaulting the path to movies.{ext}.
func WriteFileExport(export *Export, format Format, path string) (string, error) {
	if path == "" {
		ext := string(format)
		if format == Markdown {
			ext = "md"
		}
		path = "movies." + ext
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create export file: %w", err)
	}
	defer f.Close()

	if err := WriteExport(f, export, format); err != nil {
		return "", err
	}
	return path, nil
}
