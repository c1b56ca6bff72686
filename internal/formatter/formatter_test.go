package formatter

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/wrlog/internal/models"
	"github.com/desertthunder/wrlog/internal/shared"
	th "github.com/desertthunder/wrlog/internal/testing"
	"github.com/google/go-cmp/cmp"
)

func sampleChangelist() models.Changelist {
	return models.Changelist{
		{
			MapName:                "Broken Symmetry",
			Mode:                   "Sprint",
			NewRecordholder:        "Alice",
			OldRecordholder:        models.StringPtr("Bob"),
			RecordNew:              "0:41.20",
			RecordOld:              models.StringPtr("0:42.00"),
			SteamIDNewRecordholder: "76561198000000001",
			SteamIDOldRecordholder: models.StringPtr("76561198000000002"),
			FetchTime:              "Wed, 01 May 2024 12:00:00 +0000",
		},
		{
			MapName:                "Loop, the Loop",
			MapAuthor:              models.StringPtr("Carol"),
			MapPreview:             models.StringPtr("https://example.com/preview.png"),
			Mode:                   "Stunt",
			NewRecordholder:        "Dave",
			RecordNew:              "120000 eV",
			WorkshopItemID:         models.StringPtr("123456"),
			SteamIDAuthor:          models.StringPtr("76561198000000003"),
			SteamIDNewRecordholder: "76561198000000004",
			FetchTime:              "Wed, 01 May 2024 12:05:00 +0000",
		},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		name string
		want Format
	}{
		{"json", JSON},
		{"CSV", CSV},
		{"markdown", Markdown},
		{"md", Markdown},
		{" text ", Text},
		{"txt", Text},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFormat(tt.name)
			if err != nil {
				t.Fatalf("ParseFormat(%q) error = %v", tt.name, err)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}

	t.Run("unknown", func(t *testing.T) {
		if _, err := ParseFormat("yaml"); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("ParseFormat(yaml) error = %v, want ErrInvalidArgument", err)
		}
	})
}

func TestExtension(t *testing.T) {
	want := map[Format]string{JSON: "json", CSV: "csv", Markdown: "md", Text: "txt"}
	for f, ext := range want {
		if got := f.Extension(); got != ext {
			t.Errorf("%s.Extension() = %q, want %q", f, got, ext)
		}
	}
}

func TestExporters(t *testing.T) {
	entries := sampleChangelist()

	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(entries)
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		lines := strings.Split(strings.TrimSpace(string(data)), "\n")
		if len(lines) != 3 {
			t.Fatalf("expected header plus 2 rows, got %d lines:\n%s", len(lines), data)
		}
		if !strings.HasPrefix(lines[0], "Fetch Time,Map,Mode,Record,Holder") {
			t.Errorf("CSV missing headers, got: %s", lines[0])
		}
		if !strings.Contains(lines[1], "Broken Symmetry,Sprint,0:41.20,Alice,76561198000000001,0:42.00,Bob") {
			t.Errorf("CSV row 1 unexpected: %s", lines[1])
		}
		if !strings.Contains(lines[2], `"Loop, the Loop",Stunt,120000 eV,Dave`) {
			t.Errorf("CSV row 2 should quote the comma in the map name: %s", lines[2])
		}
		if !strings.HasSuffix(lines[2], "123456,Carol,76561198000000003") {
			t.Errorf("CSV row 2 missing workshop columns: %s", lines[2])
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		data, err := ExportToMarkdown(entries, "")
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}

		output := string(data)
		for _, want := range []string{
			"# World Records",
			"**Records**: 2",
			"## Changes",
			"1. **Broken Symmetry** (Sprint): 0:41.20 by Alice (was 0:42.00 by Bob)",
			"2. **Loop, the Loop** (Stunt): 120000 eV by Dave\n",
			"   - Author: Carol",
			"   - ![Loop, the Loop](https://example.com/preview.png)",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("Markdown missing %q, got:\n%s", want, output)
			}
		}

		t.Run("custom title and empty list", func(t *testing.T) {
			data, err := ExportToMarkdown(nil, "Today")
			if err != nil {
				t.Fatalf("ExportToMarkdown failed: %v", err)
			}
			output := string(data)
			if !strings.Contains(output, "# Today") || !strings.Contains(output, "**Records**: 0") {
				t.Errorf("unexpected output: %s", output)
			}
			if strings.Contains(output, "## Changes") {
				t.Error("empty changelist should not have a changes section")
			}
		})
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(entries)
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, "Records: 2") {
			t.Errorf("Text missing count")
		}
		if !strings.Contains(output, "1. [Sprint] Broken Symmetry: 0:41.20 by Alice (was 0:42.00 by Bob)") {
			t.Errorf("Text missing entry 1, got: %s", output)
		}
		if !strings.Contains(output, "2. [Stunt] Loop, the Loop: 120000 eV by Dave\n") {
			t.Errorf("Text missing entry 2, got: %s", output)
		}
	})

	t.Run("ExportToJSON", func(t *testing.T) {
		data, err := ExportToJSON(entries)
		if err != nil {
			t.Fatalf("ExportToJSON failed: %v", err)
		}

		var got models.Changelist
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if diff := cmp.Diff(entries, got); diff != "" {
			t.Errorf("JSON mismatch (-want +got):\n%s", diff)
		}
		if !strings.Contains(string(data), "\n  ") {
			t.Error("expected indented JSON")
		}
		if !strings.Contains(string(data), `"map_author": null`) {
			t.Error("expected absent optional fields to be null")
		}

		empty, err := ExportToJSON(nil)
		if err != nil {
			t.Fatalf("ExportToJSON(nil) failed: %v", err)
		}
		if strings.TrimSpace(string(empty)) != "[]" {
			t.Errorf("ExportToJSON(nil) = %s, want []", empty)
		}
	})

	t.Run("Export rejects unknown formats", func(t *testing.T) {
		if _, err := Export(entries, Format("xml")); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("Export(xml) error = %v, want ErrInvalidArgument", err)
		}
	})
}

func TestWriteExport(t *testing.T) {
	entries := sampleChangelist()

	t.Run("WithDefaultPath", func(t *testing.T) {
		tempDir := t.TempDir()
		originalDir := th.MustGetwd(t)
		th.MustChdir(t, tempDir)
		defer th.MustChdir(t, originalDir)

		path, err := WriteExport(entries, Markdown, "")
		if err != nil {
			t.Fatalf("WriteExport failed: %v", err)
		}
		if path != "changelist.md" {
			t.Errorf("path = %q, want changelist.md", path)
		}

		th.AssertFileExists(t, path)
		if content := th.MustReadFile(t, path); !strings.Contains(content, "Broken Symmetry") {
			t.Errorf("file missing entry, got: %s", content)
		}
	})

	t.Run("WithCustomPath", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "exports", "records.csv")

		got, err := WriteExport(entries, CSV, path)
		if err != nil {
			t.Fatalf("WriteExport failed: %v", err)
		}
		if got != path {
			t.Errorf("path = %q, want %q", got, path)
		}
		th.AssertFileExists(t, path)
		if content := th.MustReadFile(t, path); !strings.HasPrefix(content, "Fetch Time,") {
			t.Errorf("file is not CSV, got: %s", content)
		}
	})
}
