package hierarchy

import (
	"fmt"
	"testing"

	"github.com/leboweric/eos-platform-sub008/internal/svcerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	id     string
	parent *string
	name   string
}

func ptr(s string) *string { return &s }

func build(rows []row) []*Node[row] {
	return Build(rows,
		func(r row) string { return r.id },
		func(r row) *string { return r.parent },
		func(r row) string { return r.name },
	)
}

func TestBuildForest(t *testing.T) {
	rows := []row{
		{id: "sales", name: "Sales"},
		{id: "eng", name: "Engineering"},
		{id: "backend", parent: ptr("eng"), name: "Backend"},
		{id: "frontend", parent: ptr("eng"), name: "Frontend"},
		{id: "infra", parent: ptr("backend"), name: "Infrastructure"},
	}

	roots := build(rows)
	require.Len(t, roots, 2)

	// 根按名称排序
	assert.Equal(t, "Engineering", roots[0].Row.name)
	assert.Equal(t, "Sales", roots[1].Row.name)

	eng := roots[0]
	require.Len(t, eng.Children, 2)
	assert.Equal(t, "Backend", eng.Children[0].Row.name)
	assert.Equal(t, "Frontend", eng.Children[1].Row.name)

	infra := eng.Children[0].Children[0]
	assert.Equal(t, "Infrastructure", infra.Row.name)
	assert.Equal(t, 2, infra.Level)
	assert.Equal(t, []string{"Engineering", "Backend", "Infrastructure"}, infra.Path)

	assert.Equal(t, 0, eng.Level)
	assert.Equal(t, []string{"Engineering"}, eng.Path)
}

func TestBuildOrphanBecomesRoot(t *testing.T) {
	// 父节点不在集合中（对主体不可见）的行应按根处理
	rows := []row{
		{id: "visible", parent: ptr("hidden"), name: "Visible"},
		{id: "child", parent: ptr("visible"), name: "Child"},
	}

	roots := build(rows)
	require.Len(t, roots, 1)
	assert.Equal(t, "Visible", roots[0].Row.name)
	assert.Equal(t, 0, roots[0].Level)
	assert.Equal(t, []string{"Visible"}, roots[0].Path)

	require.Len(t, roots[0].Children, 1)
	assert.Equal(t, 1, roots[0].Children[0].Level)
}

func TestBuildEmptyInput(t *testing.T) {
	assert.Empty(t, build(nil))
}

func TestBuildDeepChain(t *testing.T) {
	var rows []row
	parent := ""
	for i := 0; i < 30; i++ {
		id := fmt.Sprintf("n%02d", i)
		r := row{id: id, name: id}
		if parent != "" {
			r.parent = ptr(parent)
		}
		rows = append(rows, r)
		parent = id
	}

	roots := build(rows)
	require.Len(t, roots, 1)

	cur := roots[0]
	for i := 0; i < 29; i++ {
		require.Len(t, cur.Children, 1)
		cur = cur.Children[0]
	}
	assert.Equal(t, 29, cur.Level)
	assert.Len(t, cur.Path, 30)
}

func TestBuildCyclicDataTerminates(t *testing.T) {
	// 互为父节点的脏数据：两行都挂到对方之下，没有根，遍历必须终止
	rows := []row{
		{id: "a", parent: ptr("b"), name: "A"},
		{id: "b", parent: ptr("a"), name: "B"},
	}

	roots := build(rows)
	// 没有可达的根，输出为空森林
	assert.Empty(t, roots)
}

func TestValidateParentRejectsSelf(t *testing.T) {
	err := ValidateParent("a", ptr("a"), map[string]*string{"a": nil})
	require.Error(t, err)
	assert.True(t, svcerr.IsValidation(err))
	assert.Contains(t, err.Error(), "cannot be its own parent")
}

func TestValidateParentRejectsCycle(t *testing.T) {
	// a -> b -> c，把 a 的父节点改为 c 会成环
	parents := map[string]*string{
		"a": nil,
		"b": ptr("a"),
		"c": ptr("b"),
	}
	err := ValidateParent("a", ptr("c"), parents)
	require.Error(t, err)
	assert.True(t, svcerr.IsValidation(err))
	assert.Contains(t, err.Error(), "circular")
}

func TestValidateParentAllowsValidMove(t *testing.T) {
	parents := map[string]*string{
		"a": nil,
		"b": ptr("a"),
		"c": ptr("a"),
	}
	// 把 c 挂到 b 之下不会成环
	assert.NoError(t, ValidateParent("c", ptr("b"), parents))
	// 置空等于变成根
	assert.NoError(t, ValidateParent("c", nil, parents))
}

func TestValidateParentTerminatesOnExistingCycle(t *testing.T) {
	// 现存数据已经成环时，校验也必须终止并报错
	parents := map[string]*string{
		"x": ptr("y"),
		"y": ptr("x"),
	}
	err := ValidateParent("z", ptr("x"), parents)
	require.Error(t, err)
	assert.True(t, svcerr.IsValidation(err))
}
