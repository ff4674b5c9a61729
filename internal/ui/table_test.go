package ui

import (
	"testing"

	"github.com/charmbracelet/bubbles/table"
	"github.com/stretchr/testify/assert"
)

func TestNewTable(t *testing.T) {
	columns := []TableColumn{
		{Title: "Section", Width: 20},
		{Title: "Field", Width: 10},
	}
	rows := []table.Row{
		{"status", "status"},
		{"database", "type"},
	}

	view := NewTable(columns, rows).View()

	assert.Contains(t, view, "Section")
	assert.Contains(t, view, "Field")
	assert.Contains(t, view, "status")
	assert.Contains(t, view, "database")
}

func TestNewTable_EmptyRows(t *testing.T) {
	view := NewTable([]TableColumn{{Title: "Name", Width: 20}}, []table.Row{}).View()
	assert.Contains(t, view, "Name")
}

func TestRenderSimpleTable(t *testing.T) {
	columns := []TableColumn{
		{Title: "Field", Width: 15},
		{Title: "Path", Width: 40},
	}
	rows := [][]string{
		{"version", "ocs/data/server/php/version"},
		{"memcache_local", "ocs/data/nextcloud/system/memcache.local"},
	}

	output := RenderSimpleTable(columns, rows)

	assert.Contains(t, output, "Field")
	assert.Contains(t, output, "ocs/data/server/php/version")
	assert.Contains(t, output, "memcache.local")
}

func TestRenderSimpleTable_EmptyRows(t *testing.T) {
	assert.Empty(t, RenderSimpleTable([]TableColumn{{Title: "Name", Width: 20}}, nil))
}

func TestFitColumns(t *testing.T) {
	rows := [][]string{
		{"status", "status_code", "ocs/meta/statuscode"},
		{"nextcloud_info", "version"},
	}

	cols := FitColumns([]string{"SECTION", "FIELD", "PATH"}, rows, 12)

	assert.Equal(t, []TableColumn{
		{Title: "SECTION", Width: 12},
		{Title: "FIELD", Width: 11},
		{Title: "PATH", Width: 12},
	}, cols)

	uncapped := FitColumns([]string{"PATH"}, [][]string{{"ocs/meta/statuscode"}}, 0)
	assert.Equal(t, 19, uncapped[0].Width)
}
