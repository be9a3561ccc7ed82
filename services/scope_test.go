package services

import (
	"testing"

	"instalapro-backend/models"

	"github.com/google/uuid"
)

func TestStoreScopeFilterLocal(t *testing.T) {
	storeID := uuid.New()
	admin := &models.Admin{Role: models.RoleLocal, StoreID: &storeID}

	cond, arg, err := StoreScopeFilter(admin)
	if err != nil {
		t.Fatalf("StoreScopeFilter failed: %v", err)
	}
	if cond != "stores.id = ?" {
		t.Errorf("cond = %q", cond)
	}
	if arg != storeID {
		t.Errorf("arg = %v, want %v", arg, storeID)
	}
}

func TestStoreScopeFilterDistrict(t *testing.T) {
	admin := &models.Admin{Role: models.RoleDistrict, District: "North"}

	cond, arg, err := StoreScopeFilter(admin)
	if err != nil {
		t.Fatalf("StoreScopeFilter failed: %v", err)
	}
	if cond != "stores.district = ?" {
		t.Errorf("cond = %q", cond)
	}
	if arg != "North" {
		t.Errorf("arg = %v", arg)
	}
}

func TestStoreScopeFilterNational(t *testing.T) {
	admin := &models.Admin{Role: models.RoleNational, Country: "MX"}

	cond, arg, err := StoreScopeFilter(admin)
	if err != nil {
		t.Fatalf("StoreScopeFilter failed: %v", err)
	}
	if cond != "stores.country = ?" {
		t.Errorf("cond = %q", cond)
	}
	if arg != "MX" {
		t.Errorf("arg = %v", arg)
	}
}

func TestStoreScopeFilterIncompleteScope(t *testing.T) {
	cases := []*models.Admin{
		{Role: models.RoleLocal},
		{Role: models.RoleDistrict},
		{Role: models.RoleNational},
		{Role: "regional"},
	}
	for _, admin := range cases {
		if _, _, err := StoreScopeFilter(admin); !IsKind(err, KindValidation) {
			t.Errorf("role %q: expected validation error, got %v", admin.Role, err)
		}
	}
}

func TestStatusForMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{NewValidationError("bad"), 400},
		{NewConflictError("busy"), 400},
		{NewNotFoundError("gone"), 404},
		{NewDuplicateError("again"), 409},
		{NewForbiddenError("no"), 403},
	}
	for _, tc := range cases {
		if got := StatusFor(tc.err); got != tc.status {
			t.Errorf("StatusFor(%v) = %d, want %d", tc.err, got, tc.status)
		}
	}
}
