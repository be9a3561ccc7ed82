package services

import (
	"instalapro-backend/models"
)

// CallerScope is the authenticated identity threaded into every engine
// operation. Exactly one of Admin / Installer is set.
type CallerScope struct {
	Admin     *models.Admin
	Installer *models.Installer
}

func AdminScope(admin *models.Admin) CallerScope {
	return CallerScope{Admin: admin}
}

func InstallerScope(installer *models.Installer) CallerScope {
	return CallerScope{Installer: installer}
}

// StoreScopeFilter maps an admin's role to the filter applied on the
// joined stores table: a local admin sees one store, a district admin a
// district, a national admin a country.
func StoreScopeFilter(admin *models.Admin) (string, interface{}, error) {
	switch admin.Role {
	case models.RoleLocal:
		if admin.StoreID == nil {
			return "", nil, NewValidationError("Admin has no store assigned")
		}
		return "stores.id = ?", *admin.StoreID, nil
	case models.RoleDistrict:
		if admin.District == "" {
			return "", nil, NewValidationError("Admin has no district assigned")
		}
		return "stores.district = ?", admin.District, nil
	case models.RoleNational:
		if admin.Country == "" {
			return "", nil, NewValidationError("Admin has no country assigned")
		}
		return "stores.country = ?", admin.Country, nil
	default:
		return "", nil, NewValidationError("Unknown admin role")
	}
}
