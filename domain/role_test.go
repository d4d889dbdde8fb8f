package domain

import "testing"

func TestParseRole(t *testing.T) {
	cases := []struct {
		in   string
		want Role
		ok   bool
	}{
		{"ADMIN", RoleAdmin, true},
		{"admin", RoleAdmin, true},
		{"  Seller ", RoleSeller, true},
		{"learner", RoleLearner, true},
		{"ROOT", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := ParseRole(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("ParseRole(%q) = %q, %v; want %q, %v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestRoleValid(t *testing.T) {
	if !RoleWriter.Valid() {
		t.Fatalf("WRITER should be valid")
	}
	if Role("SUPERUSER").Valid() {
		t.Fatalf("unknown role should be invalid")
	}
}

func TestRoleSetString(t *testing.T) {
	set := NewRoleSet(RoleAdmin, RoleWriter)
	if set.String() != "ADMIN, WRITER" {
		t.Fatalf("got %q", set.String())
	}
	if !set.Contains(RoleAdmin) || set.Contains(RoleCustomer) {
		t.Fatalf("membership broken")
	}
	if NewRoleSet().Empty() != true || set.Empty() {
		t.Fatalf("emptiness broken")
	}
}
