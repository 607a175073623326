package models

import (
	"time"

	"gorm.io/gorm"
)

// Client 客户表（发件商家）
type Client struct {
	ID            uint           `gorm:"primarykey" json:"id"`            // 主键
	Name          string         `gorm:"index;not null" json:"name"`      // 商家名称
	Phone         string         `gorm:"type:varchar(32)" json:"phone"`   // 电话（E.164 格式）
	PickupAddress string         `gorm:"type:text" json:"pickup_address"` // 取件地址
	PickupZone    string         `gorm:"index" json:"pickup_zone"`        // 取件分区（tana_ville/peripherie/super_peripherie）
	Note          string         `gorm:"type:text" json:"note,omitempty"` // 备注
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`         // 创建时间
	UpdatedAt     time.Time      `gorm:"index" json:"updated_at"`         // 更新时间
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`                  // 软删除时间
}

// TableName 指定表名
func (Client) TableName() string {
	return "clients"
}
