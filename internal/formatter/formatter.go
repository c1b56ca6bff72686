// package formatter exports changelist entries to various formats (JSON, CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/desertthunder/wrlog/internal/models"
	"github.com/desertthunder/wrlog/internal/shared"
)

// Format is an export format.
type Format string

const (
	JSON     Format = "json"
	CSV      Format = "csv"
	Markdown Format = "markdown"
	Text     Format = "text"
)

// Formats lists the supported formats.
var Formats = []Format{JSON, CSV, Markdown, Text}

// ParseFormat accepts a format name or its common file extension ("md", "txt").
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "json":
		return JSON, nil
	case "csv":
		return CSV, nil
	case "markdown", "md":
		return Markdown, nil
	case "text", "txt":
		return Text, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, name)
	}
}

// Extension returns the file extension used for f, without the dot.
func (f Format) Extension() string {
	switch f {
	case Markdown:
		return "md"
	case Text:
		return "txt"
	default:
		return string(f)
	}
}

var csvHeaders = []string{
	"Fetch Time", "Map", "Mode", "Record", "Holder", "Holder Steam ID",
	"Previous Record", "Previous Holder", "Previous Holder Steam ID",
	"Workshop Item ID", "Author", "Author Steam ID",
}

// ExportToCSV writes one row per entry; optional fields become empty cells.
func ExportToCSV(entries models.Changelist) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(csvHeaders); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, e := range entries {
		record := []string{
			e.FetchTime,
			e.MapName,
			e.Mode,
			e.RecordNew,
			e.NewRecordholder,
			e.SteamIDNewRecordholder,
			models.Deref(e.RecordOld),
			models.Deref(e.OldRecordholder),
			models.Deref(e.SteamIDOldRecordholder),
			models.Deref(e.WorkshopItemID),
			models.Deref(e.MapAuthor),
			models.Deref(e.SteamIDAuthor),
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

// ExportToMarkdown renders entries as a numbered list under title.
func ExportToMarkdown(entries models.Changelist, title string) ([]byte, error) {
	var buf bytes.Buffer

	if title == "" {
		title = "World Records"
	}
	fmt.Fprintf(&buf, "# %s\n\n", title)
	fmt.Fprintf(&buf, "**Records**: %d\n\n", len(entries))

	if len(entries) == 0 {
		return buf.Bytes(), nil
	}

	buf.WriteString("## Changes\n\n")
	for i, e := range entries {
		fmt.Fprintf(&buf, "%d. **%s** (%s): %s by %s%s\n", i+1, e.MapName, e.Mode, e.RecordNew, e.NewRecordholder, previous(e))
		if e.MapAuthor != nil {
			fmt.Fprintf(&buf, "   - Author: %s\n", *e.MapAuthor)
		}
		if e.MapPreview != nil {
			fmt.Fprintf(&buf, "   - ![%s](%s)\n", e.MapName, *e.MapPreview)
		}
		fmt.Fprintf(&buf, "   - Fetched: %s\n", e.FetchTime)
	}

	return buf.Bytes(), nil
}

// ExportToText renders one line per entry.
func ExportToText(entries models.Changelist) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Records: %d\n\n", len(entries))
	for i, e := range entries {
		fmt.Fprintf(&buf, "%d. [%s] %s: %s by %s%s\n", i+1, e.Mode, e.MapName, e.RecordNew, e.NewRecordholder, previous(e))
	}

	return buf.Bytes(), nil
}

// ExportToJSON writes entries as an indented JSON array.
func ExportToJSON(entries models.Changelist) ([]byte, error) {
	if entries == nil {
		entries = models.Changelist{}
	}
	return shared.MarshalJSON(entries, true)
}

// Export renders entries in format f.
func Export(entries models.Changelist, f Format) ([]byte, error) {
	switch f {
	case JSON:
		return ExportToJSON(entries)
	case CSV:
		return ExportToCSV(entries)
	case Markdown:
		return ExportToMarkdown(entries, "")
	case Text:
		return ExportToText(entries)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, f)
	}
}

// WriteExport renders entries and writes them to path.
//
// Defaults to changelist.{ext} in the working directory.
func WriteExport(entries models.Changelist, f Format, path string) (string, error) {
	if path == "" {
		path = "changelist." + f.Extension()
	}

	data, err := Export(entries, f)
	if err != nil {
		return "", fmt.Errorf("failed to generate %s: %w", f, err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s file: %w", f, err)
	}

	return path, nil
}

func previous(e models.ChangelistEntry) string {
	if e.RecordOld == nil {
		return ""
	}
	if e.OldRecordholder == nil {
		return fmt.Sprintf(" (was %s)", *e.RecordOld)
	}
	return fmt.Sprintf(" (was %s by %s)", *e.RecordOld, *e.OldRecordholder)
}
