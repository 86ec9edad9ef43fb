// Package es 提供了与 Elasticsearch 交互的客户端功能。
package es

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/leboweric/eos-platform-sub008/internal/config"
	"github.com/leboweric/eos-platform-sub008/internal/model"
	"github.com/leboweric/eos-platform-sub008/pkg/log"
)

var ESClient *elasticsearch.Client

// InitES 初始化 Elasticsearch 客户端
func InitES(esCfg config.ElasticsearchConfig) error {
	cfg := elasticsearch.Config{
		Addresses: []string{esCfg.Addresses},
		Username:  esCfg.Username,
		Password:  esCfg.Password,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		},
	}
	client, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return err
	}
	ESClient = client
	return createIndexIfNotExists(esCfg.IndexName)
}

// createIndexIfNotExists 检查索引是否存在，如果不存在则创建它
func createIndexIfNotExists(indexName string) error {
	res, err := ESClient.Indices.Exists([]string{indexName})
	if err != nil {
		log.Errorf("检查索引是否存在时出错: %v", err)
		return err
	}
	// 如果 res.StatusCode 是 200，说明索引已存在
	if !res.IsError() && res.StatusCode == http.StatusOK {
		log.Infof("索引 '%s' 已存在", indexName)
		return nil
	}
	// 如果 res.StatusCode 是 404，说明索引不存在，需要创建
	if res.StatusCode != http.StatusNotFound {
		log.Errorf("检查索引 '%s' 是否存在时收到意外的状态码: %d", indexName, res.StatusCode)
		return fmt.Errorf("检查索引是否存在时收到意外的状态码: %d", res.StatusCode)
	}

	// 作用域字段全部使用 keyword，检索走 title/description/file_name
	mapping := `{
		"mappings": {
			"properties": {
				"document_id": { "type": "keyword" },
				"title": { "type": "text" },
				"description": { "type": "text" },
				"file_name": { "type": "text" },
				"organization_id": { "type": "keyword" },
				"visibility": { "type": "keyword" },
				"department_id": { "type": "keyword" },
				"uploaded_by": { "type": "keyword" }
			}
		}
	}`

	res, err = ESClient.Indices.Create(
		indexName,
		ESClient.Indices.Create.WithBody(strings.NewReader(mapping)),
	)

	if err != nil {
		log.Errorf("创建索引 '%s' 失败: %v", indexName, err)
		return err
	}
	if res.IsError() {
		log.Errorf("创建索引 '%s' 时 Elasticsearch 返回错误: %s", indexName, res.String())
		return errors.New("创建索引时 Elasticsearch 返回错误")
	}

	log.Infof("索引 '%s' 创建成功", indexName)
	return nil
}

// IndexDocument 将单个文档的元数据索引到 Elasticsearch。
func IndexDocument(ctx context.Context, indexName string, doc model.EsDocument) error {
	docBytes, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	req := esapi.IndexRequest{
		Index:      indexName,
		DocumentID: doc.DocumentID,
		Body:       bytes.NewReader(docBytes),
		Refresh:    "true",
	}

	res, err := req.Do(ctx, ESClient)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("索引文档失败: %s", res.String())
	}
	return nil
}

// DeleteDocument 从索引中移除一个文档，文档不存在不视为错误。
func DeleteDocument(ctx context.Context, indexName, documentID string) error {
	req := esapi.DeleteRequest{
		Index:      indexName,
		DocumentID: documentID,
		Refresh:    "true",
	}

	res, err := req.Do(ctx, ESClient)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("删除索引文档失败: %s", res.String())
	}
	return nil
}

// SearchFilter 描述了检索主体的可见范围，过滤条件在 ES 查询内展开，
// 与数据库侧的三分类谓词保持一致。
type SearchFilter struct {
	OrganizationID string
	UserID         string
	IsAdmin        bool
	TeamIDs        []string
}

// SearchDocuments 在组织可见范围内做全文检索，返回命中的文档 ID 与得分。
func SearchDocuments(ctx context.Context, indexName, queryText string, filter SearchFilter) ([]model.SearchHit, error) {
	// 可见性子句：company 全员、department 需要团队命中、private 仅本人（管理员除外）
	visibilityShould := []map[string]interface{}{
		{"term": map[string]interface{}{"visibility": model.VisibilityCompany}},
	}
	if len(filter.TeamIDs) > 0 {
		visibilityShould = append(visibilityShould, map[string]interface{}{
			"bool": map[string]interface{}{
				"must": []map[string]interface{}{
					{"term": map[string]interface{}{"visibility": model.VisibilityDepartment}},
					{"terms": map[string]interface{}{"department_id": filter.TeamIDs}},
				},
			},
		})
	}
	if filter.IsAdmin {
		visibilityShould = append(visibilityShould, map[string]interface{}{
			"term": map[string]interface{}{"visibility": model.VisibilityPrivate},
		})
	} else {
		visibilityShould = append(visibilityShould, map[string]interface{}{
			"bool": map[string]interface{}{
				"must": []map[string]interface{}{
					{"term": map[string]interface{}{"visibility": model.VisibilityPrivate}},
					{"term": map[string]interface{}{"uploaded_by": filter.UserID}},
				},
			},
		})
	}

	query := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must": map[string]interface{}{
					"multi_match": map[string]interface{}{
						"query":  queryText,
						"fields": []string{"title^2", "description", "file_name"},
					},
				},
				"filter": []map[string]interface{}{
					{"term": map[string]interface{}{"organization_id": filter.OrganizationID}},
					{"bool": map[string]interface{}{"should": visibilityShould, "minimum_should_match": 1}},
				},
			},
		},
		"size": 100,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(query); err != nil {
		return nil, err
	}

	res, err := ESClient.Search(
		ESClient.Search.WithContext(ctx),
		ESClient.Search.WithIndex(indexName),
		ESClient.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("检索失败: %s", res.String())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Score  float64          `json:"_score"`
				Source model.EsDocument `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	hits := make([]model.SearchHit, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		hits = append(hits, model.SearchHit{DocumentID: h.Source.DocumentID, Score: h.Score})
	}
	return hits, nil
}
