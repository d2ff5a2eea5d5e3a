package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/prp-platform/prp-api/internal/dto"
)

func TestSortTreeNodesDirectoriesFirst(t *testing.T) {
	nodes := []dto.TreeNode{
		{Name: "main.go", Type: dto.TreeNodeFile},
		{Name: "docs", Type: dto.TreeNodeDirectory},
		{Name: "README.md", Type: dto.TreeNodeFile},
		{Name: "cmd", Type: dto.TreeNodeDirectory},
	}

	SortTreeNodes(nodes)

	names := make([]string, 0, len(nodes))
	for _, node := range nodes {
		names = append(names, node.Name)
	}
	require.Equal(t, []string{"cmd", "docs", "main.go", "README.md"}, names)
}
