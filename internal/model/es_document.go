package model

// EsDocument 定义了存储在 Elasticsearch 中的文档元数据结构。
// 正文不入索引，命中后仍以数据库行为准；索引里冗余了做
// 可见性过滤所需的全部作用域字段。
type EsDocument struct {
	DocumentID     string `json:"document_id"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	FileName       string `json:"file_name"`
	OrganizationID string `json:"organization_id"`
	Visibility     string `json:"visibility"`
	DepartmentID   string `json:"department_id,omitempty"`
	UploadedBy     string `json:"uploaded_by"`
}

// SearchHit 是一次全文检索的单条命中。
type SearchHit struct {
	DocumentID string  `json:"documentId"`
	Score      float64 `json:"score"`
}
