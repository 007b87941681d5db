package utils

import (
	"bytes"
	"strings"
	"testing"

	"github.com/iancoleman/orderedmap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	Name     string   `json:"name"`
	Priority uint32   `json:"priority"`
	Active   bool     `json:"active"`
	Parent   string   `json:"parent"`
	Tags     []string `json:"tags"`
}

func TestStructToOrderedMapKeepsFieldOrder(t *testing.T) {
	m, err := StructToOrderedMap(row{Name: "a", Priority: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "priority", "active", "parent", "tags"}, m.Keys())
	v, ok := m.Get("name")
	require.True(t, ok)
	assert.Equal(t, "a", v)
}

func TestPrintFormat(t *testing.T) {
	var rows []*orderedmap.OrderedMap
	for _, r := range []row{
		{Name: "Boundary System", Priority: 0, Active: true},
		{Name: "process", Priority: 10, Parent: "Diagnostics System", Tags: []string{"linux", "all"}},
	} {
		m, err := StructToOrderedMap(r)
		require.NoError(t, err)
		rows = append(rows, m)
	}

	var out bytes.Buffer
	require.NoError(t, PrintFormat(&out, rows))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, []string{"NAME", "PRIORITY", "ACTIVE", "PARENT", "TAGS"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"Boundary", "System", "0", "true", "-", "-"}, strings.Fields(lines[1]))
	assert.Contains(t, lines[2], "linux,all")
}

func TestPrintFormatEmpty(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, PrintFormat(&out, nil))
	assert.Empty(t, out.String())
}
