package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/leboweric/eos-platform-sub008/internal/hierarchy"
	"github.com/leboweric/eos-platform-sub008/internal/model"
	"github.com/leboweric/eos-platform-sub008/internal/repository"
	"github.com/leboweric/eos-platform-sub008/internal/svcerr"
	"gorm.io/gorm"
)

// DepartmentRequest 定义了部门创建与更新的请求体。
type DepartmentRequest struct {
	Name               string  `json:"name" binding:"required"`
	Description        string  `json:"description"`
	LeaderID           *string `json:"leaderId"`
	ParentDepartmentID *string `json:"parentDepartmentId"`
}

// DepartmentService 定义了部门树相关的业务逻辑。
type DepartmentService interface {
	// GetTree 返回组织的完整部门树，附带负责人姓名与成员数。
	GetTree(ctx context.Context, orgID string) ([]*model.DepartmentNode, error)
	Get(ctx context.Context, orgID, id string) (*model.Department, error)
	// Create 创建部门及其默认团队，负责人自动成为默认团队成员。
	Create(ctx context.Context, orgID string, req DepartmentRequest) (*model.Department, error)
	Update(ctx context.Context, orgID, id string, req DepartmentRequest) (*model.Department, error)
	// Delete 删除部门，存在子部门时拒绝。
	Delete(ctx context.Context, orgID, id string) error
}

type departmentService struct {
	db       *gorm.DB
	deptRepo repository.DepartmentRepository
	userRepo repository.UserRepository
}

// NewDepartmentService 创建一个部门服务实例。
func NewDepartmentService(db *gorm.DB, deptRepo repository.DepartmentRepository, userRepo repository.UserRepository) DepartmentService {
	return &departmentService{db: db, deptRepo: deptRepo, userRepo: userRepo}
}

func (s *departmentService) GetTree(ctx context.Context, orgID string) ([]*model.DepartmentNode, error) {
	depts, err := s.deptRepo.ListForOrg(ctx, orgID)
	if err != nil {
		return nil, err
	}

	counts, err := s.deptRepo.MemberCounts(ctx, orgID)
	if err != nil {
		return nil, err
	}

	leaderNames, err := s.resolveLeaderNames(ctx, depts)
	if err != nil {
		return nil, err
	}

	roots := hierarchy.Build(depts,
		func(d model.Department) string { return d.ID },
		func(d model.Department) *string { return d.ParentDepartmentID },
		func(d model.Department) string { return d.Name },
	)

	nodes := make([]*model.DepartmentNode, 0, len(roots))
	for _, root := range roots {
		nodes = append(nodes, toDepartmentNode(root, counts, leaderNames))
	}
	return nodes, nil
}

// resolveLeaderNames 批量解析部门负责人的姓名，同一负责人只查一次。
func (s *departmentService) resolveLeaderNames(ctx context.Context, depts []model.Department) (map[string]string, error) {
	names := make(map[string]string)
	for _, d := range depts {
		if d.LeaderID == nil {
			continue
		}
		if _, ok := names[*d.LeaderID]; ok {
			continue
		}
		leader, err := s.userRepo.FindByID(ctx, *d.LeaderID)
		if err != nil {
			return nil, err
		}
		if leader != nil {
			names[*d.LeaderID] = leader.FullName()
		}
	}
	return names, nil
}

func toDepartmentNode(node *hierarchy.Node[model.Department], counts map[string]int64, leaderNames map[string]string) *model.DepartmentNode {
	d := node.Row
	out := &model.DepartmentNode{
		ID:                 d.ID,
		Name:               d.Name,
		Description:        d.Description,
		LeaderID:           d.LeaderID,
		ParentDepartmentID: d.ParentDepartmentID,
		MemberCount:        counts[d.ID],
		SubDepartments:     make([]*model.DepartmentNode, 0, len(node.Children)),
	}
	if d.LeaderID != nil {
		out.LeaderName = leaderNames[*d.LeaderID]
	}
	for _, child := range node.Children {
		out.SubDepartments = append(out.SubDepartments, toDepartmentNode(child, counts, leaderNames))
	}
	return out
}

func (s *departmentService) Get(ctx context.Context, orgID, id string) (*model.Department, error) {
	dept, err := s.deptRepo.FindByID(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	if dept == nil {
		return nil, svcerr.NotFound("部门")
	}
	return dept, nil
}

func (s *departmentService) Create(ctx context.Context, orgID string, req DepartmentRequest) (*model.Department, error) {
	if req.ParentDepartmentID != nil {
		if _, err := s.Get(ctx, orgID, *req.ParentDepartmentID); err != nil {
			return nil, err
		}
	}

	dept := &model.Department{
		ID:                 uuid.NewString(),
		OrganizationID:     orgID,
		Name:               req.Name,
		Description:        req.Description,
		LeaderID:           req.LeaderID,
		ParentDepartmentID: req.ParentDepartmentID,
	}

	// 部门连同它的默认团队一起创建，负责人自动进入默认团队
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(dept).Error; err != nil {
			return err
		}

		team := &model.Team{
			ID:             uuid.NewString(),
			OrganizationID: orgID,
			DepartmentID:   &dept.ID,
			Name:           dept.Name,
		}
		if err := tx.Create(team).Error; err != nil {
			return err
		}

		if dept.LeaderID == nil {
			return nil
		}
		member := &model.TeamMember{
			TeamID:   team.ID,
			UserID:   *dept.LeaderID,
			Role:     model.RoleManager,
			JoinedAt: time.Now(),
		}
		return tx.Create(member).Error
	})
	if err != nil {
		return nil, err
	}
	return dept, nil
}

func (s *departmentService) Update(ctx context.Context, orgID, id string, req DepartmentRequest) (*model.Department, error) {
	dept, err := s.Get(ctx, orgID, id)
	if err != nil {
		return nil, err
	}

	if req.ParentDepartmentID != nil {
		if _, err := s.Get(ctx, orgID, *req.ParentDepartmentID); err != nil {
			return nil, err
		}
	}

	// 父部门变化时校验不会形成环
	parents, err := s.parentMap(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if err := hierarchy.ValidateParent(id, req.ParentDepartmentID, parents); err != nil {
		return nil, err
	}

	dept.Name = req.Name
	dept.Description = req.Description
	dept.LeaderID = req.LeaderID
	dept.ParentDepartmentID = req.ParentDepartmentID
	if err := s.deptRepo.Update(ctx, dept); err != nil {
		return nil, err
	}
	return dept, nil
}

func (s *departmentService) Delete(ctx context.Context, orgID, id string) error {
	if _, err := s.Get(ctx, orgID, id); err != nil {
		return err
	}

	children, err := s.deptRepo.CountChildren(ctx, orgID, id)
	if err != nil {
		return err
	}
	if children > 0 {
		return svcerr.Conflict("请先删除或移走子部门")
	}

	return s.deptRepo.Delete(ctx, orgID, id)
}

func (s *departmentService) parentMap(ctx context.Context, orgID string) (map[string]*string, error) {
	depts, err := s.deptRepo.ListForOrg(ctx, orgID)
	if err != nil {
		return nil, err
	}
	parents := make(map[string]*string, len(depts))
	for _, d := range depts {
		parents[d.ID] = d.ParentDepartmentID
	}
	return parents, nil
}
