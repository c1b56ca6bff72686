package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/wrlog/internal/models"
	"github.com/desertthunder/wrlog/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgChangelistLoaded MsgKind = iota
	MsgProgressUpdate
	MsgUpdateComplete
)

type changelistLoaded struct {
	entries models.Changelist
	err     error
}

type updateComplete struct {
	result *tasks.UpdateResult
	err    error
}

// changelistLoadedMsg is the constructor for [MsgChangelistLoaded]
func changelistLoadedMsg(entries models.Changelist, err error) Msg {
	return Msg{kind: MsgChangelistLoaded, data: changelistLoaded{entries, err}}
}

// progressUpdateMsg is the constructor for [MsgProgressUpdate]
func progressUpdateMsg(update tasks.ProgressUpdate) Msg {
	return Msg{kind: MsgProgressUpdate, data: update}
}

// updateCompleteMsg is the constructor for [MsgUpdateComplete]
func updateCompleteMsg(result *tasks.UpdateResult, err error) Msg {
	return Msg{kind: MsgUpdateComplete, data: updateComplete{result, err}}
}
