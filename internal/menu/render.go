package menu

import (
	"fmt"
	"strings"

	"github.com/xlab/treeprint"
)

// Render prints the menu as a tree, one item per line.
func Render(m *Menu) string {
	if m == nil {
		return ""
	}
	tree := treeprint.NewWithRoot(fmt.Sprintf("%s [%s]", m.Kind, m.Language))
	addItems(tree, m.Items)
	return tree.String()
}

func addItems(branch treeprint.Tree, items []Item) {
	for _, it := range items {
		switch {
		case it.Separator:
			branch.AddNode("────")
		case it.Submenu != nil:
			addItems(branch.AddBranch(describe(it)), it.Submenu)
		default:
			branch.AddNode(describe(it))
		}
	}
}

func describe(it Item) string {
	var b strings.Builder
	b.WriteString(it.Label)
	if it.Accelerator != "" {
		fmt.Fprintf(&b, " (%s)", it.Accelerator)
	}
	if it.Role != RoleNone {
		fmt.Fprintf(&b, " role=%s", it.Role)
	}
	if it.Action != nil {
		fmt.Fprintf(&b, " -> %s", it.Action.Channel)
	}
	return b.String()
}

// Labels flattens every label of the tree in display order. Separators are
// skipped.
func Labels(m *Menu) []string {
	if m == nil {
		return nil
	}
	var out []string
	var walk func(items []Item)
	walk = func(items []Item) {
		for _, it := range items {
			if it.Separator {
				continue
			}
			out = append(out, it.Label)
			walk(it.Submenu)
		}
	}
	walk(m.Items)
	return out
}

// Find returns the first item whose key matches.
func Find(items []Item, key string) (Item, bool) {
	for _, it := range items {
		if it.Key == key {
			return it, true
		}
		if found, ok := Find(it.Submenu, key); ok {
			return found, true
		}
	}
	return Item{}, false
}
