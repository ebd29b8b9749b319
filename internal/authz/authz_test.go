package authz

import (
	"testing"

	"github.com/MinhPhatVilla/WebVilla-sub000/internal/models"
)

func TestRolePermissions(t *testing.T) {
	a, err := New()
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	tests := []struct {
		role     models.Role
		resource string
		action   string
		want     bool
	}{
		{models.RoleStaff, ResourceBookings, ActionWrite, true},
		{models.RoleStaff, ResourceNotifications, ActionRead, true},
		{models.RoleStaff, ResourceProperties, ActionRead, true},
		{models.RoleStaff, ResourceProperties, ActionWrite, false},
		{models.RoleStaff, ResourceUsers, ActionRead, false},
		{models.RoleAdmin, ResourceBookings, ActionWrite, true},
		{models.RoleAdmin, ResourcePrices, ActionWrite, true},
		{models.RoleAdmin, ResourceUsers, ActionWrite, true},
		{models.RoleCustomer, ResourceBookings, ActionRead, false},
		{"", ResourceBookings, ActionRead, false},
	}

	for _, tt := range tests {
		if got := a.Allowed(tt.role, tt.resource, tt.action); got != tt.want {
			t.Errorf("Allowed(%q, %s, %s) = %v, want %v", tt.role, tt.resource, tt.action, got, tt.want)
		}
	}
}
