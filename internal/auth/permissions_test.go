package auth

import (
	"context"
	"errors"
	"testing"

	"gestor/internal/models"
)

type fakePerms struct {
	roles map[string]*models.Role
	rows  map[string]*models.RolePermission // key roleID + "/" + module
	err   error
}

func (f *fakePerms) FindRole(_ context.Context, id string) (*models.Role, error) {
	if f.err != nil {
		return nil, f.err
	}
	r, ok := f.roles[id]
	if !ok {
		return nil, ErrNotFound
	}
	return r, nil
}

func (f *fakePerms) FindRolePermission(_ context.Context, roleID, module string) (*models.RolePermission, error) {
	if f.err != nil {
		return nil, f.err
	}
	rp, ok := f.rows[roleID+"/"+module]
	if !ok {
		return nil, ErrNotFound
	}
	return rp, nil
}

func strptr(s string) *string { return &s }

func TestResolve(t *testing.T) {
	ctx := context.Background()
	perms := &fakePerms{
		roles: map[string]*models.Role{
			"r1":  {ID: "r1", Name: "seller", CompanyID: strptr("c1")},
			"sys": {ID: "sys", Name: "admin"},
		},
		rows: map[string]*models.RolePermission{
			"r1/sales":  {RoleID: "r1", ModuleName: "sales", CanRead: true},
			"sys/sales": {RoleID: "sys", ModuleName: "sales", CanRead: true, CanWrite: true, CanDelete: true},
		},
	}
	resolver := NewPermissionResolver(perms)

	tests := []struct {
		name    string
		roleID  string
		module  string
		company string
		want    Grants
	}{
		{"matching row", "r1", "sales", "c1", Grants{CanRead: true}},
		{"no row defaults to deny", "r1", "shipping", "c1", Grants{}},
		{"cross-tenant denies despite row", "r1", "sales", "c2", Grants{}},
		{"caller without company denied for scoped role", "r1", "sales", "", Grants{}},
		{"system role matches any company", "sys", "sales", "c2", Grants{CanRead: true, CanWrite: true, CanDelete: true}},
		{"unknown role", "ghost", "sales", "c1", Grants{}},
		{"empty role id", "", "sales", "c1", Grants{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := resolver.Resolve(ctx, tc.roleID, tc.module, tc.company)
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestResolveStoreFailure(t *testing.T) {
	resolver := NewPermissionResolver(&fakePerms{err: errors.New("timeout")})
	if _, err := resolver.Resolve(context.Background(), "r1", "sales", "c1"); err == nil {
		t.Fatal("expected store error to surface")
	}
}

func TestGrantsAllows(t *testing.T) {
	g := Grants{CanRead: true, CanWrite: true}
	if !g.Allows(ActionRead) || !g.Allows(ActionWrite) {
		t.Fatal("expected read and write to be allowed")
	}
	if g.Allows(ActionDelete) {
		t.Fatal("delete should be denied")
	}
	if g.Allows(Action("export")) {
		t.Fatal("unknown actions should be denied")
	}
}
