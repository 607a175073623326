package authz

import (
	"fmt"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupAuthzServiceTest(t *testing.T) *Service {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	svc, err := NewService(db)
	if err != nil {
		t.Fatalf("new authz service failed: %v", err)
	}
	return svc
}

func TestEnforceUserWithRolePolicy(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.GrantRolePolicy("dispatcher", "/admin/deliveries/:id", "GET"); err != nil {
		t.Fatalf("grant role policy failed: %v", err)
	}
	if err := svc.AssignRole(1, "dispatcher"); err != nil {
		t.Fatalf("assign role failed: %v", err)
	}

	allow, err := svc.EnforceUser(1, "/api/v1/admin/deliveries/42", "get")
	if err != nil {
		t.Fatalf("enforce allow failed: %v", err)
	}
	if !allow {
		t.Fatalf("expected allow=true")
	}

	allow, err = svc.EnforceUser(1, "/api/v1/admin/deliveries/42", "DELETE")
	if err != nil {
		t.Fatalf("enforce deny failed: %v", err)
	}
	if allow {
		t.Fatalf("expected allow=false")
	}
}

func TestBootstrapBuiltinRolesInheritance(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap failed: %v", err)
	}
	if err := svc.AssignRole(2, "accountant"); err != nil {
		t.Fatalf("assign role failed: %v", err)
	}

	// accountant 自身策略
	allow, err := svc.EnforceUser(2, "/admin/settlements/confirm", "POST")
	if err != nil || !allow {
		t.Fatalf("accountant confirm: allow=%v err=%v", allow, err)
	}
	// 继承 readonly_auditor 的只读权限
	allow, err = svc.EnforceUser(2, "/admin/deliveries", "GET")
	if err != nil || !allow {
		t.Fatalf("inherited read: allow=%v err=%v", allow, err)
	}
	// 未授权的写操作被拒绝
	allow, err = svc.EnforceUser(2, "/admin/deliveries", "POST")
	if err != nil || allow {
		t.Fatalf("unauthorized write: allow=%v err=%v", allow, err)
	}
}

func TestNormalizeHelpers(t *testing.T) {
	if got := NormalizeObject("/api/v1/admin/clients"); got != "/admin/clients" {
		t.Fatalf("NormalizeObject = %s", got)
	}
	if got := NormalizeAction(" get "); got != "GET" {
		t.Fatalf("NormalizeAction = %s", got)
	}
	role, err := NormalizeRole("Dispatcher")
	if err != nil || role != "role:dispatcher" {
		t.Fatalf("NormalizeRole = %s, %v", role, err)
	}
}
