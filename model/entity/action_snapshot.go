package entity

import (
	"time"

	"gorm.io/datatypes"
)

// ActionSnapshot is one action of one service as it was registered when a
// snapshot batch was taken.
type ActionSnapshot struct {
	ID          uint           `gorm:"column:id;primaryKey;autoIncrement"`
	Batch       string         `gorm:"column:batch;type:varchar(36);not null;index"`
	ServiceKey  string         `gorm:"column:service_key;type:varchar(128);not null"`
	ServiceType string         `gorm:"column:service_type;type:varchar(16);not null"`
	ActionKey   string         `gorm:"column:action_key;type:varchar(128);not null"`
	HTTPMethod  string         `gorm:"column:http_method;type:varchar(16)"`
	HTTPPath    string         `gorm:"column:http_path;type:varchar(255)"`
	Description string         `gorm:"column:description;type:text"`
	Groups      datatypes.JSON `gorm:"column:group_tags"`
	Params      datatypes.JSON `gorm:"column:params"`
	Labels      datatypes.JSON `gorm:"column:labels"`
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime"`
}

func (ActionSnapshot) TableName() string {
	return "platform_action_snapshot"
}
