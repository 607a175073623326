package service

import "errors"

// 业务哨兵错误，处理层通过 errors.Is 匹配并映射为响应码与文案 key。
var (
	ErrInvalidCredentials = errors.New("error.invalid_credentials")
	ErrAccountDisabled    = errors.New("error.account_disabled")
	ErrWeakPassword       = errors.New("error.weak_password")
	ErrEmailTaken         = errors.New("error.email_taken")
	ErrInvalidPhone       = errors.New("error.invalid_phone")

	ErrUserNotFound     = errors.New("error.user_not_found")
	ErrClientNotFound   = errors.New("error.client_not_found")
	ErrDeliveryNotFound = errors.New("error.delivery_not_found")

	ErrClientInUse  = errors.New("error.client_in_use")
	ErrCourierInUse = errors.New("error.courier_in_use")

	ErrInvalidTransition    = errors.New("error.invalid_transition")
	ErrPostponeDateInvalid  = errors.New("error.postpone_date_invalid")
	ErrPostponeNotAllowed   = errors.New("error.postpone_not_allowed")
	ErrTransferInvalid      = errors.New("error.transfer_invalid")
	ErrDeliveryNotDeletable = errors.New("error.delivery_not_deletable")
	ErrNotAssignedCourier   = errors.New("error.not_assigned_courier")

	ErrSettlementEmpty = errors.New("error.settlement_empty")

	ErrInvalidParameter = errors.New("error.invalid_parameter")
)
