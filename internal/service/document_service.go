package service

import (
	"context"
	"io"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/leboweric/eos-platform-sub008/internal/model"
	"github.com/leboweric/eos-platform-sub008/internal/repository"
	"github.com/leboweric/eos-platform-sub008/internal/svcerr"
	"github.com/leboweric/eos-platform-sub008/pkg/es"
	"github.com/leboweric/eos-platform-sub008/pkg/log"
	"github.com/leboweric/eos-platform-sub008/pkg/storage"
)

// downloadURLExpiry 是预签名下载链接的有效期。
const downloadURLExpiry = 15 * time.Minute

// CreateDocumentRequest 携带新文档的元数据与文件内容。
type CreateDocumentRequest struct {
	Title             string
	Description       string
	Visibility        string
	DepartmentID      *string
	FolderID          *string
	RelatedPriorityID *string
	FileName          string
	FileSize          int64
	MimeType          string
	Content           io.Reader
}

// UpdateDocumentRequest 定义了文档元数据更新的请求体，文件内容不可变。
type UpdateDocumentRequest struct {
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Visibility   string  `json:"visibility"`
	DepartmentID *string `json:"departmentId"`
	FolderID     *string `json:"folderId"`
}

// DocumentListOptions 定义了文档列表的过滤条件。
type DocumentListOptions struct {
	DepartmentID  string
	Search        string
	FavoritesOnly bool
	// FolderID 为空指针表示不过滤，空字符串表示只取根层文档。
	FolderID *string
}

// DocumentResponse 在文档之上附加了列表展示所需的收藏标记。
type DocumentResponse struct {
	model.Document
	IsFavorite bool `json:"isFavorite"`
}

// DocumentService 定义了文档库的业务逻辑。
type DocumentService interface {
	List(ctx context.Context, scope *AccessScope, opts DocumentListOptions) ([]DocumentResponse, error)
	Get(ctx context.Context, scope *AccessScope, id string) (*model.Document, error)
	Create(ctx context.Context, scope *AccessScope, req CreateDocumentRequest) (*model.Document, error)
	Update(ctx context.Context, scope *AccessScope, id string, req UpdateDocumentRequest) (*model.Document, error)
	Delete(ctx context.Context, scope *AccessScope, id string) error
	// DownloadURL 为可见的文档生成限时下载链接。
	DownloadURL(ctx context.Context, scope *AccessScope, id string) (string, error)
	Favorite(ctx context.Context, scope *AccessScope, id string) error
	Unfavorite(ctx context.Context, scope *AccessScope, id string) error
}

type documentService struct {
	docRepo    repository.DocumentRepository
	access     AccessService
	bucketName string
	indexName  string
}

// NewDocumentService 创建一个文档服务实例。
func NewDocumentService(docRepo repository.DocumentRepository, access AccessService, bucketName, indexName string) DocumentService {
	return &documentService{docRepo: docRepo, access: access, bucketName: bucketName, indexName: indexName}
}

// viewerOf 把访问视角转换为仓库层的可见性查询条件。
func viewerOf(scope *AccessScope) repository.DocumentViewer {
	return repository.DocumentViewer{
		UserID:  scope.UserID,
		IsAdmin: scope.IsAdmin(),
		TeamIDs: scope.TeamIDs,
	}
}

func (s *documentService) List(ctx context.Context, scope *AccessScope, opts DocumentListOptions) ([]DocumentResponse, error) {
	filter := repository.DocumentFilter{
		DepartmentID:  opts.DepartmentID,
		FavoritesOnly: opts.FavoritesOnly,
		FolderID:      opts.FolderID,
	}

	// 有检索词时走 Elasticsearch，可见性过滤在查询内完成
	var searchOrder map[string]int
	if opts.Search != "" {
		hits, err := es.SearchDocuments(ctx, s.indexName, opts.Search, es.SearchFilter{
			OrganizationID: scope.OrganizationID,
			UserID:         scope.UserID,
			IsAdmin:        scope.IsAdmin(),
			TeamIDs:        scope.TeamIDs,
		})
		if err != nil {
			// 检索节点故障时退化为数据库模糊匹配
			log.Warnf("文档检索失败，回退到数据库模糊匹配: %v", err)
			filter.Search = opts.Search
		} else {
			searchOrder = make(map[string]int, len(hits))
			for i, h := range hits {
				searchOrder[h.DocumentID] = i
			}
			if len(searchOrder) == 0 {
				return []DocumentResponse{}, nil
			}
		}
	}

	docs, err := s.docRepo.ListVisible(ctx, scope.OrganizationID, viewerOf(scope), filter)
	if err != nil {
		return nil, err
	}

	favorites, err := s.docRepo.ListFavoriteIDs(ctx, scope.UserID)
	if err != nil {
		return nil, err
	}

	out := make([]DocumentResponse, 0, len(docs))
	for _, doc := range docs {
		if searchOrder != nil {
			if _, hit := searchOrder[doc.ID]; !hit {
				continue
			}
		}
		out = append(out, DocumentResponse{Document: doc, IsFavorite: favorites[doc.ID]})
	}

	// 检索结果按相关度排序
	if searchOrder != nil {
		sortByRelevance(out, searchOrder)
	}
	return out, nil
}

// sortByRelevance 按检索命中的先后次序重排文档列表。
func sortByRelevance(docs []DocumentResponse, order map[string]int) {
	sort.Slice(docs, func(i, j int) bool {
		return order[docs[i].ID] < order[docs[j].ID]
	})
}

func (s *documentService) Get(ctx context.Context, scope *AccessScope, id string) (*model.Document, error) {
	doc, err := s.docRepo.FindByID(ctx, scope.OrganizationID, id)
	if err != nil {
		return nil, err
	}
	// 不可见与不存在返回同一个错误，避免泄露文档是否存在
	if doc == nil || !s.access.CanView(scope, doc) {
		return nil, svcerr.NotFound("文档")
	}
	return doc, nil
}

func validateVisibility(visibility string, departmentID *string) error {
	switch visibility {
	case model.VisibilityCompany, model.VisibilityPrivate:
		return nil
	case model.VisibilityDepartment:
		if departmentID == nil || *departmentID == "" {
			return svcerr.Validation("departmentId", "department 可见性必须指定团队")
		}
		return nil
	default:
		return svcerr.Validation("visibility", "可见性必须是 company、department 或 private")
	}
}

func (s *documentService) Create(ctx context.Context, scope *AccessScope, req CreateDocumentRequest) (*model.Document, error) {
	if req.Title == "" {
		return nil, svcerr.Validation("title", "标题不能为空")
	}
	if err := validateVisibility(req.Visibility, req.DepartmentID); err != nil {
		return nil, err
	}

	doc := &model.Document{
		ID:                uuid.NewString(),
		Title:             req.Title,
		Description:       req.Description,
		FileName:          req.FileName,
		FileSize:          req.FileSize,
		MimeType:          req.MimeType,
		Visibility:        req.Visibility,
		OrganizationID:    scope.OrganizationID,
		DepartmentID:      req.DepartmentID,
		UploadedBy:        scope.UserID,
		FolderID:          req.FolderID,
		RelatedPriorityID: req.RelatedPriorityID,
	}
	doc.ObjectKey = scope.OrganizationID + "/" + doc.ID + filepath.Ext(req.FileName)

	// 文件先落对象存储，元数据写库失败时回收对象
	if err := storage.PutObject(ctx, s.bucketName, doc.ObjectKey, req.Content, req.FileSize, req.MimeType); err != nil {
		return nil, err
	}
	if err := s.docRepo.Create(ctx, doc); err != nil {
		if cleanupErr := storage.RemoveObject(context.Background(), s.bucketName, doc.ObjectKey); cleanupErr != nil {
			log.Errorf("回收对象失败 key=%s: %v", doc.ObjectKey, cleanupErr)
		}
		return nil, err
	}

	s.indexDocument(ctx, doc)
	return doc, nil
}

func (s *documentService) Update(ctx context.Context, scope *AccessScope, id string, req UpdateDocumentRequest) (*model.Document, error) {
	doc, err := s.Get(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	// 只有上传者和管理员可以修改
	if !scope.IsAdmin() && doc.UploadedBy != scope.UserID {
		return nil, svcerr.Forbidden("只有上传者和管理员可以修改文档")
	}

	if req.Title != "" {
		doc.Title = req.Title
	}
	doc.Description = req.Description
	if req.Visibility != "" {
		if err := validateVisibility(req.Visibility, req.DepartmentID); err != nil {
			return nil, err
		}
		doc.Visibility = req.Visibility
		doc.DepartmentID = req.DepartmentID
	}
	if req.FolderID != nil {
		doc.FolderID = req.FolderID
	}

	if err := s.docRepo.Update(ctx, doc); err != nil {
		return nil, err
	}

	s.indexDocument(ctx, doc)
	return doc, nil
}

func (s *documentService) Delete(ctx context.Context, scope *AccessScope, id string) error {
	doc, err := s.Get(ctx, scope, id)
	if err != nil {
		return err
	}
	if !scope.IsAdmin() && doc.UploadedBy != scope.UserID {
		return svcerr.Forbidden("只有上传者和管理员可以删除文档")
	}

	if err := s.docRepo.Delete(ctx, scope.OrganizationID, id); err != nil {
		return err
	}

	// 对象与索引清理失败不影响删除结果，记录后续人工处理
	if err := storage.RemoveObject(ctx, s.bucketName, doc.ObjectKey); err != nil {
		log.Errorf("删除文档对象失败 key=%s: %v", doc.ObjectKey, err)
	}
	if err := es.DeleteDocument(ctx, s.indexName, doc.ID); err != nil {
		log.Errorf("删除文档索引失败 id=%s: %v", doc.ID, err)
	}
	return nil
}

func (s *documentService) DownloadURL(ctx context.Context, scope *AccessScope, id string) (string, error) {
	doc, err := s.Get(ctx, scope, id)
	if err != nil {
		return "", err
	}
	return storage.GetPresignedURL(ctx, s.bucketName, doc.ObjectKey, doc.FileName, downloadURLExpiry)
}

func (s *documentService) Favorite(ctx context.Context, scope *AccessScope, id string) error {
	if _, err := s.Get(ctx, scope, id); err != nil {
		return err
	}
	return s.docRepo.Favorite(ctx, id, scope.UserID)
}

func (s *documentService) Unfavorite(ctx context.Context, scope *AccessScope, id string) error {
	if _, err := s.Get(ctx, scope, id); err != nil {
		return err
	}
	return s.docRepo.Unfavorite(ctx, id, scope.UserID)
}

// indexDocument 把文档元数据写入检索索引，失败只记录日志。
func (s *documentService) indexDocument(ctx context.Context, doc *model.Document) {
	esDoc := model.EsDocument{
		DocumentID:     doc.ID,
		Title:          doc.Title,
		Description:    doc.Description,
		FileName:       doc.FileName,
		OrganizationID: doc.OrganizationID,
		Visibility:     doc.Visibility,
		UploadedBy:     doc.UploadedBy,
	}
	if doc.DepartmentID != nil {
		esDoc.DepartmentID = *doc.DepartmentID
	}
	if err := es.IndexDocument(ctx, s.indexName, esDoc); err != nil {
		log.Errorf("索引文档元数据失败 id=%s: %v", doc.ID, err)
	}
}
