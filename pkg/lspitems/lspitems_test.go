package lspitems

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.lsp.dev/protocol"

	"pathsource/pkg/pathsource"
)

func TestFromItemFile(t *testing.T) {
	item := pathsource.Item{
		Label:      "main.go",
		FilterText: "main.go",
		InsertText: "main.go",
		Kind:       pathsource.ItemKindFile,
		Data: pathsource.ItemData{
			Path: "/proj/src/main.go",
			Kind: pathsource.ItemKindFile,
			Stat: &pathsource.Stat{Size: 512},
		},
	}

	got := FromItem(item)

	assert.Equal(t, "main.go", got.Label)
	assert.Equal(t, protocol.CompletionItemKindFile, got.Kind)
	data, ok := got.Data.(ItemData)
	assert.True(t, ok)
	assert.Equal(t, "/proj/src/main.go", data.Path)
	assert.Equal(t, "file", data.Type)
	assert.Equal(t, int64(512), data.Size)
}

func TestFromItemFolder(t *testing.T) {
	item := pathsource.Item{
		Label:      "lib/",
		FilterText: "lib/",
		InsertText: "lib/",
		Kind:       pathsource.ItemKindFolder,
		Data: pathsource.ItemData{
			Path: "/proj/lib",
			Kind: pathsource.ItemKindFolder,
		},
	}

	got := FromItem(item)

	assert.Equal(t, protocol.CompletionItemKindFolder, got.Kind)
	assert.Equal(t, "lib/", got.InsertText)
	data := got.Data.(ItemData)
	assert.Equal(t, "folder", data.Type)
	assert.Zero(t, data.Size)
}

func TestFromResultNeverIncomplete(t *testing.T) {
	res := pathsource.CompleteResult{
		Items: []pathsource.Item{
			{Label: "a", Kind: pathsource.ItemKindFile},
			{Label: "b/", Kind: pathsource.ItemKindFolder},
		},
	}

	list := FromResult(res)

	assert.False(t, list.IsIncomplete)
	assert.Len(t, list.Items, 2)
}

func TestWithDocumentation(t *testing.T) {
	item := protocol.CompletionItem{Label: "main.go"}

	got := WithDocumentation(item, pathsource.DocResult{Markdown: "```go\npackage main\n```"})
	if assert.NotNil(t, got.Documentation) {
		content := got.Documentation.(*protocol.MarkupContent)
		assert.Equal(t, protocol.Markdown, content.Kind)
		assert.Contains(t, content.Value, "package main")
	}

	unchanged := WithDocumentation(item, pathsource.DocResult{})
	assert.Nil(t, unchanged.Documentation)
}
