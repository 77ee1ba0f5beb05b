package formatter

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/marquee/internal/models"
	"github.com/desertthunder/marquee/internal/shared"
	th "github.com/desertthunder/marquee/internal/testing"
)

func sampleExport() *Export {
	return &Export{
		Title:    "Heists",
		Language: "en-US",
		Genres:   []string{"Crime"},
		Movies: []models.Movie{
			{
				ID:             "949",
				Title:          "Heat",
				Overview:       "A group of professional bank robbers.",
				Cast:           []string{"Al Pacino", "Robert De Niro"},
				Genres:         []string{"Crime", "Drama"},
				ReleaseDate:    "1995-12-15",
				Rating:         7.9,
				Director:       "Michael Mann",
				RuntimeMinutes: 170,
				TrailerURL:     "https://www.youtube.com/watch?v=abc",
			},
			{
				ID:     "8195",
				Title:  "Ronin",
				Genres: []string{"Crime"},
			},
		},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"csv", CSV},
		{".md", Markdown},
		{"Markdown", Markdown},
		{"text", Text},
		{"txt", Text},
		{"JSON", JSON},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if err != nil || got != tt.want {
				t.Errorf("ParseFormat(%q) = (%q, %v), want %q", tt.in, got, err, tt.want)
			}
		})
	}

	t.Run("Unknown", func(t *testing.T) {
		if _, err := ParseFormat("xml"); !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("expected ErrInvalidFlag, got %v", err)
		}
	})
}

func TestExporters(t *testing.T) {
	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(sampleExport())
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		lines := strings.Split(strings.TrimSpace(string(data)), "\n")
		if len(lines) != 3 {
			t.Fatalf("expected header and 2 rows, got %d lines", len(lines))
		}
		if lines[0] != "Position,ID,Title,Year,Director,Genres,Rating,Runtime" {
			t.Errorf("CSV missing headers, got: %s", lines[0])
		}
		if lines[1] != "1,949,Heat,1995,Michael Mann,Crime; Drama,7.9,170" {
			t.Errorf("unexpected first row: %s", lines[1])
		}
		if !strings.HasPrefix(lines[2], "2,8195,Ronin,") {
			t.Errorf("unexpected second row: %s", lines[2])
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		data, err := ExportToMarkdown(sampleExport(), map[string]string{"949": "posters/949.jpg"})
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}

		output := string(data)
		for _, want := range []string{
			"# Heists",
			"**Movies**: 2",
			"**Genres**: Crime",
			"## 1. Heat (1995)",
			"![Poster](posters/949.jpg)",
			"**Runtime**: 2h 50m",
			"**Rating**: 7.9/10",
			"## 2. Ronin",
			"**Director**: Unknown",
			"No overview available",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("Markdown missing %q", want)
			}
		}
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(sampleExport())
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, "List: Heists") {
			t.Error("Text missing list title")
		}
		if !strings.Contains(output, "1. Heat (1995) - Michael Mann") {
			t.Error("Text missing first movie")
		}
		if !strings.Contains(output, "2. Ronin\n") {
			t.Error("Text missing second movie")
		}
	})

	t.Run("ExportToJSON", func(t *testing.T) {
		data, err := ExportToJSON(sampleExport())
		if err != nil {
			t.Fatalf("ExportToJSON failed: %v", err)
		}

		var decoded Export
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if len(decoded.Movies) != 2 || decoded.Movies[0].Director != "Michael Mann" {
			t.Errorf("unexpected decoded export %+v", decoded)
		}
		if !strings.Contains(string(data), `"runtimeMinutes": 170`) {
			t.Error("expected camelCase field names")
		}
	})
}

func TestWriteExport(t *testing.T) {
	t.Run("Formats", func(t *testing.T) {
		for _, format := range []Format{CSV, Markdown, Text, JSON} {
			var buf bytes.Buffer
			if err := WriteExport(&buf, sampleExport(), format); err != nil {
				t.Errorf("%s: unexpected error %v", format, err)
			}
			if !strings.Contains(buf.String(), "Heat") {
				t.Errorf("%s: output missing movie", format)
			}
		}
	})

	t.Run("UnknownFormat", func(t *testing.T) {
		var buf bytes.Buffer
		if err := WriteExport(&buf, sampleExport(), Format("xml")); !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("expected ErrInvalidFlag, got %v", err)
		}
	})

	t.Run("WriterError", func(t *testing.T) {
		if err := WriteExport(&th.FWriter{}, sampleExport(), Text); err == nil {
			t.Error("expected write error")
		}
	})
}

func TestDownloadImage(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("image-bytes"))
		}))
		defer server.Close()

		data, err := DownloadImage(server.URL)
		if err != nil {
			t.Fatalf("DownloadImage failed: %v", err)
		}
		if string(data) != "image-bytes" {
			t.Errorf("unexpected data %q", data)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		defer server.Close()

		if _, err := DownloadImage(server.URL); err == nil {
			t.Error("expected error for 404")
		}
	})

	t.Run("EmptyURL", func(t *testing.T) {
		if _, err := DownloadImage(""); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})
}

func TestWriteMarkdownExport(t *testing.T) {
	t.Run("WithPosters", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasSuffix(r.URL.Path, "missing.jpg") {
				http.NotFound(w, r)
				return
			}
			w.Write([]byte("poster"))
		}))
		defer server.Close()

		export := sampleExport()
		export.Movies[0].PosterURL = server.URL + "/heat.jpg"
		export.Movies[1].PosterURL = server.URL + "/missing.jpg"

		dir := filepath.Join(t.TempDir(), "heists")
		var warned []string
		result, err := WriteMarkdownExport(export, dir, true, func(id string, err error) {
			warned = append(warned, id)
		})
		if err != nil {
			t.Fatalf("WriteMarkdownExport failed: %v", err)
		}

		th.AssertDirExists(t, result.Directory)
		th.AssertFileExists(t, filepath.Join(dir, "posters", "949.jpg"))
		if result.Posters != 1 {
			t.Errorf("expected 1 poster, got %d", result.Posters)
		}
		if len(warned) != 1 || warned[0] != "8195" {
			t.Errorf("expected warning for 8195, got %v", warned)
		}

		content := th.MustReadFile(t, filepath.Join(dir, "README.md"))
		if !strings.Contains(content, "![Poster](posters/949.jpg)") {
			t.Error("README should reference the local poster")
		}
		if !strings.Contains(content, "![Poster]("+server.URL+"/missing.jpg)") {
			t.Error("README should fall back to the remote poster")
		}
	})

	t.Run("WithoutPosters", func(t *testing.T) {
		dir := t.TempDir()

		result, err := WriteMarkdownExport(sampleExport(), dir, false, nil)
		if err != nil {
			t.Fatalf("WriteMarkdownExport failed: %v", err)
		}
		if len(result.Files) != 1 {
			t.Errorf("expected only README, got %v", result.Files)
		}
	})

	t.Run("MissingDirectory", func(t *testing.T) {
		if _, err := WriteMarkdownExport(sampleExport(), "", false, nil); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})
}

func TestWriteFileExport(t *testing.T) {
	t.Run("WithDefaultPath", func(t *testing.T) {
		tempDir := t.TempDir()
		originalDir := th.MustGetwd(t)
		th.MustChdir(t, tempDir)
		defer th.MustChdir(t, originalDir)

		path, err := WriteFileExport(sampleExport(), Markdown, "")
		if err != nil {
			t.Fatalf("WriteFileExport failed: %v", err)
		}
		if path != "movies.md" {
			t.Errorf("expected movies.md, got %s", path)
		}
		th.AssertFileExists(t, path)
	})

	t.Run("WithCustomPath", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "list.csv")

		got, err := WriteFileExport(sampleExport(), CSV, path)
		if err != nil {
			t.Fatalf("WriteFileExport failed: %v", err)
		}
		if !strings.Contains(th.MustReadFile(t, got), "Heat") {
			t.Error("expected movie in export file")
		}
	})
}
