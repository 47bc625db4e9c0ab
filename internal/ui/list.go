package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"

	"github.com/desertthunder/lyrx/internal/models"
)

var (
	_ list.Item = recordItem{}
)

// recordItem wraps [models.Record] to implement [list.Item].
type recordItem struct {
	record models.Record
}

func (i recordItem) FilterValue() string { return i.record.Title }
func (i recordItem) Title() string {
	return fmt.Sprintf("%s - %s", i.record.Artist, i.record.Title)
}
func (i recordItem) Description() string {
	parts := []string{i.record.Genres}
	if models.IsUnavailable(i.record.Lyrics) {
		parts = append(parts, "no lyrics")
	} else {
		parts = append(parts, fmt.Sprintf("%d lines", strings.Count(i.record.Lyrics, "\n")+1))
	}
	if !models.IsUnavailable(i.record.VideoURL) {
		parts = append(parts, "video")
	}
	return strings.Join(parts, " • ")
}

// recordItems wraps every record in a [recordItem].
func recordItems(records []models.Record) []list.Item {
	items := make([]list.Item, len(records))
	for i, rec := range records {
		items[i] = recordItem{record: rec}
	}
	return items
}
