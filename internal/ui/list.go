package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/wrlog/internal/models"
)

var _ list.Item = entryItem{}

// entryItem wraps [models.ChangelistEntry] to implement [list.Item].
type entryItem struct {
	entry models.ChangelistEntry
}

func (i entryItem) FilterValue() string {
	return i.entry.MapName + " " + i.entry.NewRecordholder
}

func (i entryItem) Title() string { return fmt.Sprintf("%s (%s)", i.entry.MapName, i.entry.Mode) }

func (i entryItem) Description() string {
	desc := fmt.Sprintf("%s by %s", i.entry.RecordNew, i.entry.NewRecordholder)
	if i.entry.RecordOld != nil {
		desc = fmt.Sprintf("%s • was %s", desc, *i.entry.RecordOld)
	}
	return desc
}

func entryItems(entries models.Changelist) []list.Item {
	items := make([]list.Item, len(entries))
	for i, e := range entries {
		items[i] = entryItem{entry: e}
	}
	return items
}
