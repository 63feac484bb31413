package auth

import "testing"

func TestHasPermission(t *testing.T) {
	tests := []struct {
		name     string
		user     *User
		required []string
		want     bool
	}{
		{
			name:     "empty required set is public",
			user:     NewUser("u1", "alice", nil),
			required: nil,
			want:     true,
		},
		{
			name:     "empty required set is public even for nil user",
			user:     nil,
			required: []string{},
			want:     true,
		},
		{
			name:     "nil user denied when roles required",
			user:     nil,
			required: []string{"get-authors"},
			want:     false,
		},
		{
			name:     "single role present",
			user:     NewUser("u1", "alice", []string{"get-authors", "admin"}),
			required: []string{"get-authors"},
			want:     true,
		},
		{
			name:     "single role missing",
			user:     NewUser("u1", "alice", []string{"other"}),
			required: []string{"get-authors"},
			want:     false,
		},
		{
			name:     "all required roles present",
			user:     NewUser("u1", "alice", []string{"authors-write", "authors-read", "admin"}),
			required: []string{"authors-read", "authors-write"},
			want:     true,
		},
		{
			name:     "subset is not enough (AND, not OR)",
			user:     NewUser("u1", "alice", []string{"authors-read"}),
			required: []string{"authors-read", "authors-write"},
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasPermission(tt.user, tt.required); got != tt.want {
				t.Errorf("auth:auth_test - HasPermission(%v, %v) = %v, want %v",
					tt.user, tt.required, got, tt.want)
			}
		})
	}
}

func TestHasRole(t *testing.T) {
	u := NewUser("u1", "alice", []string{"admin"})
	if !u.HasRole("admin") {
		t.Error("auth:auth_test - expected HasRole(admin) = true")
	}
	if u.HasRole("other") {
		t.Error("auth:auth_test - expected HasRole(other) = false")
	}
	var nilUser *User
	if nilUser.HasRole("admin") {
		t.Error("auth:auth_test - nil user should have no roles")
	}
}
