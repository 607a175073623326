package constants

// 用户角色常量
// staff 为后台员工账号，访问范围由 Casbin 策略表决定；admin 全量放行。
const (
	RoleAdmin   = "admin"
	RoleStaff   = "staff"
	RoleCourier = "courier"
)

// 配送单状态常量
const (
	DeliveryStatusCreated   = "created"
	DeliveryStatusPickedUp  = "picked_up"
	DeliveryStatusDelivered = "delivered"
	DeliveryStatusPaid      = "paid"
	DeliveryStatusPostponed = "postponed"
	DeliveryStatusCanceled  = "canceled"
)

// AllDeliveryStatuses 配送单状态全集（管理员可任意设置）
var AllDeliveryStatuses = []string{
	DeliveryStatusCreated,
	DeliveryStatusPickedUp,
	DeliveryStatusDelivered,
	DeliveryStatusPaid,
	DeliveryStatusPostponed,
	DeliveryStatusCanceled,
}

// 计价分区常量（配送目的地）
const (
	ZoneTana  = "tana"
	ZonePeri  = "peri"
	ZoneSuper = "super"
)

// 客户取件分区常量（与计价分区相互独立，仅用于取件路线分组）
const (
	PickupZoneTanaVille       = "tana_ville"
	PickupZonePeripherie      = "peripherie"
	PickupZoneSuperPeripherie = "super_peripherie"
)

// 客户结算方式常量
const (
	SettlementTypeCashCourier  = "cash_courier"
	SettlementTypeMobileMoney  = "mobile_money"
	SettlementTypeOfficePickup = "office_pickup"
)

// 用户状态常量
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// 队列常量
const (
	QueueDefault             = "default"
	TaskDeliveryStatusNotify = "delivery:status_notify"
	TaskSettlementReminder   = "settlement:reminder"
)

// 缓存默认配置常量
const (
	RedisPrefixDefault = "cx"
)

// 币种常量（马达加斯加阿里亚里，无小数位）
const (
	SiteCurrencyDefault = "MGA"
)

// 站点语言常量
const (
	LocaleFrFR = "fr-FR"
	LocaleMgMG = "mg-MG"
	LocaleEnUS = "en-US"
)

// 支持的站点语言顺序（含回退顺序）
var SupportedLocales = []string{LocaleFrFR, LocaleMgMG, LocaleEnUS}
