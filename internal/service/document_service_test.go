package service

import (
	"testing"

	"github.com/leboweric/eos-platform-sub008/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestSortByRelevance(t *testing.T) {
	docs := []DocumentResponse{
		{Document: model.Document{ID: "d3"}},
		{Document: model.Document{ID: "d1"}},
		{Document: model.Document{ID: "d2"}},
	}
	// 命中次序即相关度次序
	sortByRelevance(docs, map[string]int{"d1": 0, "d2": 1, "d3": 2})

	got := []string{docs[0].ID, docs[1].ID, docs[2].ID}
	assert.Equal(t, []string{"d1", "d2", "d3"}, got)
}

func TestSortByRelevanceEmpty(t *testing.T) {
	var docs []DocumentResponse
	sortByRelevance(docs, map[string]int{})
	assert.Empty(t, docs)
}
