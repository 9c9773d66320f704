package bastion

import "testing"

func TestMatchPermission(t *testing.T) {
	tests := []struct {
		pattern  string
		required string
		want     bool
	}{
		{"data:read", "data:read", true},
		{"data:read", "data:write", false},
		{"data:*", "data:read", true},
		{"data:*", "data:write", true},
		{"data:*", "schema:read", false},
		{"*", "anything:at_all", true},
		{"data:re*", "data:read", true},
		{"data:read", "data:read:extra", false},
	}
	for _, tt := range tests {
		if got := matchPermission(tt.pattern, tt.required); got != tt.want {
			t.Errorf("matchPermission(%q, %q) = %v, want %v", tt.pattern, tt.required, got, tt.want)
		}
	}
}

func TestGrantsEvaluator(t *testing.T) {
	e := NewGrantsEvaluator(nil) // default grants

	tests := []struct {
		name  string
		roles []string
		query string
		want  bool
	}{
		{"reader reads", []string{RoleReader}, "data:read", true},
		{"reader cannot write", []string{RoleReader}, "data:write", false},
		{"publisher writes", []string{RolePublisher}, "data:write", true},
		{"architect touches schema", []string{RoleArchitect}, "schema:write", true},
		{"admin does anything", []string{RoleAdmin}, "cluster:drop", true},
		{"union across roles", []string{RoleReader, RolePublisher}, "data:write", true},
		{"no roles", nil, "data:read", false},
		{"unknown role", []string{"mystery"}, "data:read", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := e.Evaluate(tt.roles, tt.query); got != tt.want {
				t.Errorf("Evaluate(%v, %q) = %v, want %v", tt.roles, tt.query, got, tt.want)
			}
		})
	}
}

func TestGrantsEvaluatorCustomTable(t *testing.T) {
	e := NewGrantsEvaluator(map[string][]string{
		"auditor": {"log:*"},
	})
	if !e.Evaluate([]string{"auditor"}, "log:read") {
		t.Error("custom grant not honored")
	}
	if e.Evaluate([]string{RoleReader}, "data:read") {
		t.Error("default grants leaked into a custom table")
	}
}
