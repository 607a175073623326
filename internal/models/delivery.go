package models

import (
	"time"

	"gorm.io/gorm"
)

// Delivery 配送单表
type Delivery struct {
	ID         uint   `gorm:"primarykey" json:"id"`                    // 主键
	TrackingNo string `gorm:"uniqueIndex;not null" json:"tracking_no"` // 单号

	// 排程
	PlannedDate         time.Time  `gorm:"index;not null" json:"planned_date"` // 计划配送日期
	OriginalPlannedDate *time.Time `gorm:"index" json:"original_planned_date"` // 改期前的原计划日期
	PostponedTo         *time.Time `json:"postponed_to"`                       // 改期目标日期

	// 相关方
	SenderID  uint    `gorm:"index;not null" json:"sender_id"` // 发件客户ID
	Sender    *Client `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
	CourierID *uint   `gorm:"index" json:"courier_id"` // 指派骑手ID（可空）
	Courier   *User   `gorm:"foreignKey:CourierID" json:"courier,omitempty"`

	// 收件人信息（自由文本，非关联实体）
	ReceiverName    string `gorm:"not null" json:"receiver_name"`
	ReceiverPhone   string `gorm:"type:varchar(32)" json:"receiver_phone"`
	ReceiverAddress string `gorm:"type:text" json:"receiver_address"`

	// 包裹属性
	ParcelCount int    `gorm:"not null;default:1" json:"parcel_count"`       // 件数（≥1）
	WeightKg    Weight `gorm:"type:decimal(10,1);not null" json:"weight_kg"` // 重量（≥0.1kg）
	Description string `gorm:"type:text" json:"description,omitempty"`       // 描述

	// 计价属性
	Zone          string `gorm:"index;not null" json:"zone"`                   // 计价分区（tana/peri/super）
	IsExpress     bool   `gorm:"not null;default:false" json:"is_express"`     // 加急
	DeliveryPrice int64  `gorm:"not null;default:0" json:"delivery_price"`     // 配送费（MGA 整数）
	CollectAmount *int64 `json:"collect_amount"`                               // 代收货款（可空）
	PriceOverride bool   `gorm:"not null;default:false" json:"price_override"` // 管理员手工定价

	// 付款标记
	IsPrepaid          bool `gorm:"not null;default:false" json:"is_prepaid"`           // 货款已由收件人预付给客户
	DeliveryFeePrepaid bool `gorm:"not null;default:false" json:"delivery_fee_prepaid"` // 配送费已由客户预付给门店

	// 状态
	Status         string `gorm:"index;not null" json:"status"`
	CourierRemarks string `gorm:"type:text" json:"courier_remarks,omitempty"` // 骑手备注

	// 骑手→门店 结算轨道
	CourierSettled   bool       `gorm:"index;not null;default:false" json:"courier_settled"`
	CourierSettledAt *time.Time `json:"courier_settled_at"`
	CourierSettledBy *uint      `json:"courier_settled_by"`

	// 门店→客户 结算轨道（与骑手结算相互独立）
	IsSettled      bool       `gorm:"index;not null;default:false" json:"is_settled"`
	SettledAt      *time.Time `json:"settled_at"`
	SettledBy      *uint      `json:"settled_by"`
	SettlementType string     `gorm:"type:varchar(32)" json:"settlement_type,omitempty"` // cash_courier/mobile_money/office_pickup

	CreatedAt time.Time      `gorm:"index" json:"created_at"` // 创建时间
	UpdatedAt time.Time      `gorm:"index" json:"updated_at"` // 更新时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`          // 软删除时间
}

// TableName 指定表名
func (Delivery) TableName() string {
	return "deliveries"
}
