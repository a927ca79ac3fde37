package output

import (
	"sort"
	"strings"
)

const (
	// Tree characters
	treeEdge  = "├── "
	treeLast  = "└── "
	treeVert  = "│   "
	treeSpace = "    "
)

// TreeNode represents a node in the file tree.
type TreeNode struct {
	Name     string
	IsDir    bool
	Children []*TreeNode
}

// RenderFileTree renders slash-separated relative paths as a tree under root.
func RenderFileTree(root string, files []string) string {
	if len(files) == 0 {
		return ""
	}

	top := &TreeNode{Name: root, IsDir: true}
	for _, p := range files {
		parts := strings.Split(p, "/")
		current := top

		for i, part := range parts {
			var child *TreeNode
			for _, c := range current.Children {
				if c.Name == part {
					child = c
					break
				}
			}
			if child == nil {
				child = &TreeNode{Name: part, IsDir: i < len(parts)-1}
				current.Children = append(current.Children, child)
			}
			current = child
		}
	}

	sortTree(top)

	var sb strings.Builder
	sb.WriteString(StyleSummary.Render(strings.TrimSuffix(top.Name, "/") + "/"))
	sb.WriteString("\n")
	renderChildren(&sb, top, "")
	return sb.String()
}

// sortTree recursively sorts tree nodes (directories first, then alphabetically).
func sortTree(node *TreeNode) {
	sort.Slice(node.Children, func(i, j int) bool {
		if node.Children[i].IsDir != node.Children[j].IsDir {
			return node.Children[i].IsDir
		}
		return node.Children[i].Name < node.Children[j].Name
	})
	for _, child := range node.Children {
		sortTree(child)
	}
}

func renderChildren(sb *strings.Builder, node *TreeNode, prefix string) {
	for i, child := range node.Children {
		last := i == len(node.Children)-1

		connector, next := treeEdge, treeVert
		if last {
			connector, next = treeLast, treeSpace
		}

		name := child.Name
		if child.IsDir {
			name = StyleNoun.Render(name + "/")
		}
		sb.WriteString(StyleDim.Render(prefix+connector) + name + "\n")
		renderChildren(sb, child, prefix+next)
	}
}
