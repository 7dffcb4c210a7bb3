package rbac

import "testing"

func TestRolePermissions(t *testing.T) {
	c := NewChecker(nil)

	cases := []struct {
		role, perm string
		want       bool
	}{
		{"student", "sheet:upload", true},
		{"student", "sheet:view-own", true},
		{"student", "sheet:view-all", false},
		{"student", "key:upload", false},
		{"teacher", "sheet:grade", true},
		{"teacher", "key:regrade", true},
		{"admin", "anything:at-all", true},
		{"nobody", "sheet:upload", false},
		{"", "sheet:upload", false},
	}
	for _, tc := range cases {
		if got := c.Has(tc.role, tc.perm); got != tc.want {
			t.Errorf("Has(%q, %q) = %v, want %v", tc.role, tc.perm, got, tc.want)
		}
	}
}

func TestCheckerAny(t *testing.T) {
	c := NewChecker(nil)
	if !c.Any("student", "sheet:view-all", "sheet:view-own") {
		t.Fatal("student should pass via sheet:view-own")
	}
	if c.Any("student", "key:upload", "key:regrade") {
		t.Fatal("student should not hold any key permission")
	}
}

func TestMatchPermPrefixWildcard(t *testing.T) {
	c := NewChecker(map[string][]string{"auditor": {"sheet:*"}})
	if !c.Has("auditor", "sheet:view-all") {
		t.Fatal("prefix wildcard should match")
	}
	if c.Has("auditor", "key:upload") {
		t.Fatal("prefix wildcard matched outside its prefix")
	}
}
