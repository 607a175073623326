package repository

import "time"

// ClientListFilter 查询客户列表的过滤条件
type ClientListFilter struct {
	Page       int
	PageSize   int
	Search     string
	PickupZone string
}

// UserListFilter 查询账号列表的过滤条件
type UserListFilter struct {
	Page     int
	PageSize int
	Keyword  string
	Role     string
	Status   string
}

// DeliveryListFilter 查询配送单列表的过滤条件
// DateFrom/DateTo 同时匹配计划日期与改期前的原计划日期，保证改期单仍落在原报表区间。
type DeliveryListFilter struct {
	Page           int
	PageSize       int
	SenderID       uint
	CourierID      uint
	Status         string
	Statuses       []string
	Zone           string
	TrackingNo     string
	Search         string
	DateFrom       *time.Time
	DateTo         *time.Time
	OnlyUnsettled  bool
	CourierPending bool
	WithSender     bool
	WithCourier    bool
}
