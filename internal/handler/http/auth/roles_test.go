package auth

import "testing"

func TestCheckRolePermission(t *testing.T) {
	tests := []struct {
		name   string
		role   string
		method string
		path   string
		want   bool
	}{
		{name: "admin writes anywhere", role: RoleAdmin, method: "POST", path: "/feeds", want: true},
		{name: "admin deletes articles", role: RoleAdmin, method: "DELETE", path: "/articles/1", want: true},
		{name: "viewer reads articles", role: RoleViewer, method: "GET", path: "/articles/1", want: true},
		{name: "viewer reads feeds list", role: RoleViewer, method: "GET", path: "/feeds", want: true},
		{name: "viewer preflight allowed", role: RoleViewer, method: "OPTIONS", path: "/articles", want: true},
		{name: "viewer cannot write", role: RoleViewer, method: "POST", path: "/feeds", want: false},
		{name: "viewer blocked outside content", role: RoleViewer, method: "GET", path: "/admin", want: false},
		{name: "empty role denied", role: "", method: "GET", path: "/articles", want: false},
		{name: "unknown role denied", role: "editor", method: "GET", path: "/articles", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := checkRolePermission(tt.role, tt.method, tt.path); got != tt.want {
				t.Errorf("checkRolePermission(%q, %q, %q) = %v, want %v",
					tt.role, tt.method, tt.path, got, tt.want)
			}
		})
	}
}

func TestMatchesPathPattern(t *testing.T) {
	patterns := []string{"/articles/*", "/feeds"}

	tests := []struct {
		path string
		want bool
	}{
		{path: "/articles", want: true},
		{path: "/articles/1", want: true},
		{path: "/articles/1/summarize", want: true},
		{path: "/feeds", want: true},
		{path: "/feeds/1", want: false},
		{path: "/users", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := matchesPathPattern(tt.path, patterns); got != tt.want {
				t.Errorf("matchesPathPattern(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}
