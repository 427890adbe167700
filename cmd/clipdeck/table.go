package main

import (
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/lixenwraith/clipdeck/board"
	"github.com/lixenwraith/clipdeck/core"
	"github.com/lixenwraith/clipdeck/trigger"
)

const nameWidth = 32

func newTable(out io.Writer, header ...any) table.Writer {
	w := table.NewWriter()
	w.SetOutputMirror(out)
	w.SetStyle(table.StyleLight)
	w.AppendHeader(table.Row(header))
	return w
}

// renderSounds lists the catalog with the triggers bound to each clip
func renderSounds(out io.Writer, snap board.Snapshot) {
	w := newTable(out, "#", "ID", "Name", "Triggers", "File")
	w.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 3, WidthMax: nameWidth},
	})

	bound := make(map[string][]string)
	for _, t := range trigger.All() {
		if id, ok := snap.Mapping[t.Key()]; ok {
			bound[id] = append(bound[id], string(t.Key()))
		}
	}
	for i, snd := range snap.Sounds {
		w.AppendRow(table.Row{i + 1, snd.ID, snd.Name, strings.Join(bound[snd.ID], " "), snd.URI})
	}
	w.AppendFooter(table.Row{"", "", len(snap.Sounds), "", ""})
	w.Render()
}

// renderTriggers lists the nine triggers with their bindings
func renderTriggers(out io.Writer, snap board.Snapshot) {
	w := newTable(out, "Trigger", "Label", "Sound", "ID")
	w.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, WidthMax: nameWidth},
	})
	for _, t := range trigger.All() {
		w.AppendRow(triggerRow(t, snap))
	}
	w.Render()
}

func triggerRow(t trigger.Trigger, snap board.Snapshot) table.Row {
	id, mapped := snap.Mapping[t.Key()]
	if !mapped {
		return table.Row{t.Key(), t.Label(), "—", ""}
	}
	snd, ok := snap.Sound(id)
	if !ok {
		return table.Row{t.Key(), t.Label(), "(missing)", id}
	}
	return table.Row{t.Key(), t.Label(), displayName(snd), id}
}

func displayName(snd core.Sound) string {
	if snd.Name == "" {
		return "(unnamed)"
	}
	return snd.Name
}
