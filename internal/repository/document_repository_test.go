package repository

import (
	"testing"

	"github.com/leboweric/eos-platform-sub008/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVisibilityPredicateMember(t *testing.T) {
	cond, args := visibilityPredicate(DocumentViewer{
		UserID:  "u1",
		TeamIDs: []string{"t1", "t2"},
	})

	assert.Equal(t,
		"visibility = ? OR (visibility = ? AND department_id IN ?) OR (visibility = ? AND uploaded_by = ?)",
		cond)
	require.Len(t, args, 5)
	assert.Equal(t, model.VisibilityCompany, args[0])
	assert.Equal(t, model.VisibilityDepartment, args[1])
	// department 可见性只对成员所在团队展开，NULL department_id 不会被 IN 命中
	assert.Equal(t, []string{"t1", "t2"}, args[2])
	assert.Equal(t, model.VisibilityPrivate, args[3])
	assert.Equal(t, "u1", args[4])
}

func TestVisibilityPredicateNoTeams(t *testing.T) {
	_, args := visibilityPredicate(DocumentViewer{UserID: "u1"})

	// 没有团队成员关系时 IN 里是不可能命中的占位值，
	// department 行一条也取不到
	assert.Equal(t, []string{""}, args[2])
}

func TestVisibilityPredicateAdmin(t *testing.T) {
	cond, args := visibilityPredicate(DocumentViewer{
		UserID:  "u1",
		IsAdmin: true,
		TeamIDs: []string{"t1"},
	})

	// 管理员对 private 免除 uploaded_by 条件，
	// 但 department 仍然按成员关系过滤，没有额外放宽
	assert.Equal(t,
		"visibility = ? OR (visibility = ? AND department_id IN ?) OR visibility = ?",
		cond)
	require.Len(t, args, 4)
	assert.Equal(t, []string{"t1"}, args[2])
	assert.NotContains(t, cond, "uploaded_by")
}
