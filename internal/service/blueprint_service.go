package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/leboweric/eos-platform-sub008/internal/model"
	"github.com/leboweric/eos-platform-sub008/internal/repository"
	"github.com/leboweric/eos-platform-sub008/internal/svcerr"
)

// BlueprintScope 指定战略蓝图的归属：组织 + 可选的团队或部门（二者互斥）。
type BlueprintScope struct {
	TeamID       *string
	DepartmentID *string
}

// BlueprintResponse 是蓝图及其全部子实体的聚合视图。
type BlueprintResponse struct {
	Blueprint        *model.BusinessBlueprint `json:"blueprint"`
	CoreValues       []model.CoreValue        `json:"coreValues"`
	CoreFocus        *model.CoreFocus         `json:"coreFocus"`
	TenYearTarget    *model.TenYearTarget     `json:"tenYearTarget"`
	ThreeYearPicture *model.ThreeYearPicture  `json:"threeYearPicture"`
	OneYearPlan      *model.OneYearPlan       `json:"oneYearPlan"`
}

// CoreValueInput 是核心价值观整组替换的单个条目。
type CoreValueInput struct {
	Value       string `json:"value" binding:"required"`
	Description string `json:"description"`
}

// CoreFocusRequest 定义了核心焦点的更新请求体。
type CoreFocusRequest struct {
	Purpose string `json:"purpose"`
	Niche   string `json:"niche"`
}

// TenYearTargetRequest 定义了十年目标的更新请求体。
type TenYearTargetRequest struct {
	Description string `json:"description"`
	TargetYear  int    `json:"targetYear"`
}

// ThreeYearPictureRequest 定义了三年图景的更新请求体。
type ThreeYearPictureRequest struct {
	Revenue    string     `json:"revenue"`
	Profit     string     `json:"profit"`
	Vision     string     `json:"vision"`
	TargetDate *time.Time `json:"targetDate"`
}

// OneYearPlanRequest 定义了一年计划的更新请求体。
type OneYearPlanRequest struct {
	Revenue    string     `json:"revenue"`
	Profit     string     `json:"profit"`
	Goals      string     `json:"goals"`
	TargetDate *time.Time `json:"targetDate"`
}

// BlueprintService 定义了战略蓝图聚合的业务逻辑。
// 蓝图在首次访问时惰性创建，子实体按蓝图 ID upsert。
type BlueprintService interface {
	Get(ctx context.Context, orgID string, scope BlueprintScope) (*BlueprintResponse, error)
	ReplaceCoreValues(ctx context.Context, orgID string, scope BlueprintScope, values []CoreValueInput) ([]model.CoreValue, error)
	UpdateCoreFocus(ctx context.Context, orgID string, scope BlueprintScope, req CoreFocusRequest) (*model.CoreFocus, error)
	UpdateTenYearTarget(ctx context.Context, orgID string, scope BlueprintScope, req TenYearTargetRequest) (*model.TenYearTarget, error)
	UpdateThreeYearPicture(ctx context.Context, orgID string, scope BlueprintScope, req ThreeYearPictureRequest) (*model.ThreeYearPicture, error)
	UpdateOneYearPlan(ctx context.Context, orgID string, scope BlueprintScope, req OneYearPlanRequest) (*model.OneYearPlan, error)
}

type blueprintService struct {
	bpRepo repository.BlueprintRepository
}

// NewBlueprintService 创建一个蓝图服务实例。
func NewBlueprintService(bpRepo repository.BlueprintRepository) BlueprintService {
	return &blueprintService{bpRepo: bpRepo}
}

// getOrCreate 按作用域取蓝图，不存在时创建。
func (s *blueprintService) getOrCreate(ctx context.Context, orgID string, scope BlueprintScope) (*model.BusinessBlueprint, error) {
	if scope.TeamID != nil && scope.DepartmentID != nil {
		return nil, svcerr.Validation("scope", "teamId 和 departmentId 不能同时指定")
	}

	bp, err := s.bpRepo.FindByScope(ctx, orgID, scope.TeamID, scope.DepartmentID)
	if err != nil {
		return nil, err
	}
	if bp != nil {
		return bp, nil
	}

	bp = &model.BusinessBlueprint{
		ID:             uuid.NewString(),
		OrganizationID: orgID,
		TeamID:         scope.TeamID,
		DepartmentID:   scope.DepartmentID,
	}
	if err := s.bpRepo.Create(ctx, bp); err != nil {
		return nil, err
	}
	return bp, nil
}

func (s *blueprintService) Get(ctx context.Context, orgID string, scope BlueprintScope) (*BlueprintResponse, error) {
	bp, err := s.getOrCreate(ctx, orgID, scope)
	if err != nil {
		return nil, err
	}

	values, err := s.bpRepo.ListCoreValues(ctx, bp.ID)
	if err != nil {
		return nil, err
	}
	focus, err := s.bpRepo.GetCoreFocus(ctx, bp.ID)
	if err != nil {
		return nil, err
	}
	target, err := s.bpRepo.GetTenYearTarget(ctx, bp.ID)
	if err != nil {
		return nil, err
	}
	picture, err := s.bpRepo.GetThreeYearPicture(ctx, bp.ID)
	if err != nil {
		return nil, err
	}
	plan, err := s.bpRepo.GetOneYearPlan(ctx, bp.ID)
	if err != nil {
		return nil, err
	}

	return &BlueprintResponse{
		Blueprint:        bp,
		CoreValues:       values,
		CoreFocus:        focus,
		TenYearTarget:    target,
		ThreeYearPicture: picture,
		OneYearPlan:      plan,
	}, nil
}

func (s *blueprintService) ReplaceCoreValues(ctx context.Context, orgID string, scope BlueprintScope, inputs []CoreValueInput) ([]model.CoreValue, error) {
	bp, err := s.getOrCreate(ctx, orgID, scope)
	if err != nil {
		return nil, err
	}

	values := make([]model.CoreValue, 0, len(inputs))
	for i, in := range inputs {
		values = append(values, model.CoreValue{
			ID:          uuid.NewString(),
			BlueprintID: bp.ID,
			Value:       in.Value,
			Description: in.Description,
			SortOrder:   i,
		})
	}
	if err := s.bpRepo.ReplaceCoreValues(ctx, bp.ID, values); err != nil {
		return nil, err
	}
	return values, nil
}

func (s *blueprintService) UpdateCoreFocus(ctx context.Context, orgID string, scope BlueprintScope, req CoreFocusRequest) (*model.CoreFocus, error) {
	bp, err := s.getOrCreate(ctx, orgID, scope)
	if err != nil {
		return nil, err
	}

	focus := &model.CoreFocus{
		ID:          uuid.NewString(),
		BlueprintID: bp.ID,
		Purpose:     req.Purpose,
		Niche:       req.Niche,
	}
	if err := s.bpRepo.UpsertCoreFocus(ctx, focus); err != nil {
		return nil, err
	}
	return s.bpRepo.GetCoreFocus(ctx, bp.ID)
}

func (s *blueprintService) UpdateTenYearTarget(ctx context.Context, orgID string, scope BlueprintScope, req TenYearTargetRequest) (*model.TenYearTarget, error) {
	bp, err := s.getOrCreate(ctx, orgID, scope)
	if err != nil {
		return nil, err
	}

	target := &model.TenYearTarget{
		ID:          uuid.NewString(),
		BlueprintID: bp.ID,
		Description: req.Description,
		TargetYear:  req.TargetYear,
	}
	if err := s.bpRepo.UpsertTenYearTarget(ctx, target); err != nil {
		return nil, err
	}
	return s.bpRepo.GetTenYearTarget(ctx, bp.ID)
}

func (s *blueprintService) UpdateThreeYearPicture(ctx context.Context, orgID string, scope BlueprintScope, req ThreeYearPictureRequest) (*model.ThreeYearPicture, error) {
	bp, err := s.getOrCreate(ctx, orgID, scope)
	if err != nil {
		return nil, err
	}

	picture := &model.ThreeYearPicture{
		ID:          uuid.NewString(),
		BlueprintID: bp.ID,
		Revenue:     req.Revenue,
		Profit:      req.Profit,
		Vision:      req.Vision,
		TargetDate:  req.TargetDate,
	}
	if err := s.bpRepo.UpsertThreeYearPicture(ctx, picture); err != nil {
		return nil, err
	}
	return s.bpRepo.GetThreeYearPicture(ctx, bp.ID)
}

func (s *blueprintService) UpdateOneYearPlan(ctx context.Context, orgID string, scope BlueprintScope, req OneYearPlanRequest) (*model.OneYearPlan, error) {
	bp, err := s.getOrCreate(ctx, orgID, scope)
	if err != nil {
		return nil, err
	}

	plan := &model.OneYearPlan{
		ID:          uuid.NewString(),
		BlueprintID: bp.ID,
		Revenue:     req.Revenue,
		Profit:      req.Profit,
		Goals:       req.Goals,
		TargetDate:  req.TargetDate,
	}
	if err := s.bpRepo.UpsertOneYearPlan(ctx, plan); err != nil {
		return nil, err
	}
	return s.bpRepo.GetOneYearPlan(ctx, bp.ID)
}
