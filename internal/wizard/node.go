package wizard

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dirscribe/dirscribe/internal/analyzer"
	"github.com/dirscribe/dirscribe/internal/config"
	"github.com/dirscribe/dirscribe/internal/types"
)

// selectionState is the tri-state checkbox value of a node. A directory whose
// children are mixed is partial.
type selectionState int

const (
	selectionNone selectionState = iota
	selectionFull
	selectionPartial
)

// selectionNode is one row of the wizard's checkbox tree.
type selectionNode struct {
	entry    types.Entry
	depth    int
	expanded bool
	parent   *selectionNode
	children []*selectionNode
	state    selectionState
}

// buildSelectionNode constructs the checkbox tree rooted at path, applying the
// same inclusion filter the renderer uses so the wizard offers exactly what a
// scan would list. A directory that cannot be listed is shown without children.
func buildSelectionNode(path string, name string, depth int, settings config.Settings, parent *selectionNode) (*selectionNode, error) {
	info, statError := os.Stat(path)
	if statError != nil {
		return nil, statError
	}

	node := &selectionNode{
		entry: types.Entry{
			Name:       name,
			Path:       path,
			ParentPath: filepath.Dir(path),
			IsDir:      info.IsDir(),
		},
		depth:  depth,
		parent: parent,
	}
	if !node.entry.IsDir {
		return node, nil
	}

	directoryEntries, readError := os.ReadDir(path)
	if readError != nil {
		return node, nil
	}
	for _, directoryEntry := range directoryEntries {
		childPath := filepath.Join(path, directoryEntry.Name())
		childEntry := types.Entry{
			Name:       directoryEntry.Name(),
			Path:       childPath,
			ParentPath: path,
			IsDir:      directoryEntry.IsDir(),
		}
		if !analyzer.ShouldInclude(childEntry, settings) {
			continue
		}
		child, buildError := buildSelectionNode(childPath, directoryEntry.Name(), depth+1, settings, node)
		if buildError != nil {
			continue
		}
		node.children = append(node.children, child)
	}
	sort.Slice(node.children, func(first, second int) bool {
		if node.children[first].entry.IsDir != node.children[second].entry.IsDir {
			return node.children[first].entry.IsDir
		}
		return strings.ToLower(node.children[first].entry.Name) < strings.ToLower(node.children[second].entry.Name)
	})
	return node, nil
}

// flattenVisible returns the node and, when expanded, its descendants in
// display order.
func flattenVisible(node *selectionNode) []*selectionNode {
	visible := []*selectionNode{node}
	if node.expanded {
		for _, child := range node.children {
			visible = append(visible, flattenVisible(child)...)
		}
	}
	return visible
}

// setSelection applies state to the node and its whole subtree, then refreshes
// ancestor states.
func setSelection(node *selectionNode, state selectionState) {
	applySelection(node, state)
	if node.parent != nil {
		refreshParentSelection(node.parent)
	}
}

func applySelection(node *selectionNode, state selectionState) {
	node.state = state
	for _, child := range node.children {
		applySelection(child, state)
	}
}

// refreshParentSelection recomputes a directory's state from its children and
// propagates upward.
func refreshParentSelection(node *selectionNode) {
	allFull := true
	allNone := true
	for _, child := range node.children {
		if child.state != selectionFull {
			allFull = false
		}
		if child.state != selectionNone {
			allNone = false
		}
	}
	switch {
	case allFull && len(node.children) > 0:
		node.state = selectionFull
	case allNone:
		node.state = selectionNone
	default:
		node.state = selectionPartial
	}
	if node.parent != nil {
		refreshParentSelection(node.parent)
	}
}

// collectSelection appends the roots of fully-selected subtrees. Partially
// selected directories are descended so only their chosen children are staged.
func collectSelection(node *selectionNode, selection *[]*selectionNode) {
	switch node.state {
	case selectionFull:
		*selection = append(*selection, node)
	case selectionPartial:
		for _, child := range node.children {
			collectSelection(child, selection)
		}
	}
}

// selectedExtensions returns the sorted set of extensions across all selected
// files, the candidates offered on the wizard's extension step.
func selectedExtensions(node *selectionNode) []string {
	extensionSet := map[string]struct{}{}
	gatherExtensions(node, extensionSet)
	extensions := make([]string, 0, len(extensionSet))
	for extension := range extensionSet {
		extensions = append(extensions, extension)
	}
	sort.Strings(extensions)
	return extensions
}

func gatherExtensions(node *selectionNode, extensionSet map[string]struct{}) {
	if node.state == selectionNone {
		return
	}
	if !node.entry.IsDir {
		if node.state == selectionFull {
			if extension := strings.ToLower(filepath.Ext(node.entry.Name)); extension != "" {
				extensionSet[extension] = struct{}{}
			}
		}
		return
	}
	for _, child := range node.children {
		gatherExtensions(child, extensionSet)
	}
}
