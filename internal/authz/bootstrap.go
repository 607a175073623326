package authz

import "fmt"

// RoleSeed 预置角色定义
type RoleSeed struct {
	Role     string
	Inherits []string
	Policies []Policy
}

// BuiltinRoleSeeds 系统预置角色矩阵
// dispatcher 负责排单与骑手调度，accountant 负责报表与结算确认。
func BuiltinRoleSeeds() []RoleSeed {
	return []RoleSeed{
		{
			Role: "readonly_auditor",
			Policies: []Policy{
				{Object: "/admin/*", Action: "GET"},
			},
		},
		{
			Role:     "dispatcher",
			Inherits: []string{"readonly_auditor"},
			Policies: []Policy{
				{Object: "/admin/clients", Action: "*"},
				{Object: "/admin/clients/:id", Action: "*"},
				{Object: "/admin/couriers", Action: "*"},
				{Object: "/admin/couriers/:id", Action: "*"},
				{Object: "/admin/deliveries", Action: "*"},
				{Object: "/admin/deliveries/:id", Action: "*"},
				{Object: "/admin/deliveries/:id/status", Action: "*"},
				{Object: "/admin/deliveries/:id/postpone", Action: "*"},
				{Object: "/admin/deliveries/:id/transfer", Action: "*"},
			},
		},
		{
			Role:     "accountant",
			Inherits: []string{"readonly_auditor"},
			Policies: []Policy{
				{Object: "/admin/reports/clients", Action: "GET"},
				{Object: "/admin/reports/clients/export", Action: "GET"},
				{Object: "/admin/reports/couriers", Action: "GET"},
				{Object: "/admin/settlements/pending", Action: "GET"},
				{Object: "/admin/settlements/couriers/pending", Action: "GET"},
				{Object: "/admin/settlements/confirm", Action: "POST"},
				{Object: "/admin/settlements/courier-confirm", Action: "POST"},
			},
		},
	}
}

// BootstrapBuiltinRoles 写入预置角色与策略，已存在的保持不变
func (s *Service) BootstrapBuiltinRoles() error {
	if s == nil || s.enforcer == nil {
		return fmt.Errorf("authz service unavailable")
	}
	for _, seed := range BuiltinRoleSeeds() {
		role, err := s.EnsureRole(seed.Role)
		if err != nil {
			return err
		}
		for _, parent := range seed.Inherits {
			normalizedParent, err := s.EnsureRole(parent)
			if err != nil {
				return err
			}
			if _, err := s.enforcer.AddNamedGroupingPolicy("g", role, normalizedParent); err != nil {
				return fmt.Errorf("link role %s -> %s failed: %w", role, normalizedParent, err)
			}
		}
		for _, policy := range seed.Policies {
			if err := s.GrantRolePolicy(seed.Role, policy.Object, policy.Action); err != nil {
				return err
			}
		}
	}
	return s.saveAndReload()
}
