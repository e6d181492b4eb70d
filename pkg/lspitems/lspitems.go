// Package lspitems converts pathsource completion results into LSP protocol
// shapes, for hosts that speak textDocument/completion.
package lspitems

import (
	"go.lsp.dev/protocol"

	"pathsource/pkg/pathsource"
)

// ItemData is the serializable data bag attached to each completion item,
// round-tripped by the host between the completion request and a later
// completionItem/resolve request.
type ItemData struct {
	Path string `json:"path"`
	Type string `json:"type"`
	Size int64  `json:"size,omitempty"`
}

// FromResult converts a completion result into an LSP completion list. The
// list is never incomplete: the scan delivered every candidate it will ever
// deliver for this request.
func FromResult(res pathsource.CompleteResult) *protocol.CompletionList {
	items := make([]protocol.CompletionItem, 0, len(res.Items))
	for _, item := range res.Items {
		items = append(items, FromItem(item))
	}
	return &protocol.CompletionList{
		IsIncomplete: false,
		Items:        items,
	}
}

// FromItem converts one candidate.
func FromItem(item pathsource.Item) protocol.CompletionItem {
	kind := protocol.CompletionItemKindFile
	if item.Kind == pathsource.ItemKindFolder {
		kind = protocol.CompletionItemKindFolder
	}

	data := ItemData{
		Path: item.Data.Path,
		Type: item.Data.Kind.String(),
	}
	if item.Data.Stat != nil {
		data.Size = item.Data.Stat.Size
	}

	return protocol.CompletionItem{
		Label:      item.Label,
		FilterText: item.FilterText,
		InsertText: item.InsertText,
		Kind:       kind,
		Data:       data,
	}
}

// WithDocumentation attaches formatted documentation to a resolved item.
func WithDocumentation(item protocol.CompletionItem, doc pathsource.DocResult) protocol.CompletionItem {
	if doc.Markdown == "" {
		return item
	}
	item.Documentation = &protocol.MarkupContent{
		Kind:  protocol.Markdown,
		Value: doc.Markdown,
	}
	return item
}
