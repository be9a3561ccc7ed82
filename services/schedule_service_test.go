package services

import (
	"fmt"
	"testing"
	"time"

	"instalapro-backend/models"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	err = db.AutoMigrate(
		&models.Store{},
		&models.Admin{},
		&models.Installer{},
		&models.Service{},
		&models.JobDetail{},
		&models.ScheduleEntry{},
		&models.Receipt{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func seedStore(t *testing.T, db *gorm.DB, num int, district, country string) *models.Store {
	t.Helper()
	store := models.Store{
		Name:     fmt.Sprintf("Store %d", num),
		NumStore: num,
		District: district,
		City:     "Monterrey",
		State:    "NL",
		Country:  country,
	}
	if err := db.Create(&store).Error; err != nil {
		t.Fatalf("failed to seed store: %v", err)
	}
	return &store
}

func seedInstaller(t *testing.T, db *gorm.DB, number int) *models.Installer {
	t.Helper()
	installer := models.Installer{
		Number:   number,
		Name:     fmt.Sprintf("Installer %d", number),
		Email:    fmt.Sprintf("installer%d@example.com", number),
		Company:  "HVAC Norte",
		Password: "s3cret-pass",
	}
	if err := db.Create(&installer).Error; err != nil {
		t.Fatalf("failed to seed installer: %v", err)
	}
	return &installer
}

func seedService(t *testing.T, db *gorm.DB, folio int, store *models.Store, installer *models.Installer) *models.Service {
	t.Helper()
	service := models.Service{
		Folio:       folio,
		Client:      "Maria Lopez",
		ClientPhone: "+528112345678",
		Address:     "Av. Constitucion 400",
		Status:      models.StatusToDo,
		StoreID:     store.ID,
		InstallerID: installer.ID,
		AdminID:     uuid.New(),
	}
	if err := db.Create(&service).Error; err != nil {
		t.Fatalf("failed to seed service: %v", err)
	}
	return &service
}

func at(hour, min int) time.Time {
	return time.Date(2026, time.March, 10, hour, min, 0, 0, time.UTC)
}

func TestCreateEntryServiceKind(t *testing.T) {
	db := openTestDB(t)
	store := seedStore(t, db, 1001, "North", "MX")
	installer := seedInstaller(t, db, 77)
	service := seedService(t, db, 5001, store, installer)

	svc := NewScheduleService(db)
	entry, err := svc.CreateEntry(CallerScope{}, CreateEntryInput{
		Kind:      models.EntryKindService,
		StartTime: at(9, 0),
		EndTime:   at(11, 0),
		ServiceID: &service.ID,
	})
	if err != nil {
		t.Fatalf("CreateEntry failed: %v", err)
	}
	if entry.ServiceID == nil || *entry.ServiceID != service.ID {
		t.Errorf("entry not linked to service")
	}
	if entry.InstallerID != nil {
		t.Errorf("service entry must not carry a direct installer")
	}
}

func TestCreateEntryRejectsInvertedInterval(t *testing.T) {
	db := openTestDB(t)
	store := seedStore(t, db, 1001, "North", "MX")
	installer := seedInstaller(t, db, 77)
	service := seedService(t, db, 5001, store, installer)

	svc := NewScheduleService(db)
	_, err := svc.CreateEntry(CallerScope{}, CreateEntryInput{
		Kind:      models.EntryKindService,
		StartTime: at(11, 0),
		EndTime:   at(9, 0),
		ServiceID: &service.ID,
	})
	if !IsKind(err, KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	_, err = svc.CreateEntry(CallerScope{}, CreateEntryInput{
		Kind:      models.EntryKindService,
		StartTime: at(9, 0),
		EndTime:   at(9, 0),
		ServiceID: &service.ID,
	})
	if !IsKind(err, KindValidation) {
		t.Fatalf("expected validation error for zero-length interval, got %v", err)
	}
}

func TestCreateEntryConflictSameInstaller(t *testing.T) {
	db := openTestDB(t)
	store := seedStore(t, db, 1001, "North", "MX")
	installer := seedInstaller(t, db, 77)
	first := seedService(t, db, 5001, store, installer)
	second := seedService(t, db, 5002, store, installer)

	svc := NewScheduleService(db)
	if _, err := svc.CreateEntry(CallerScope{}, CreateEntryInput{
		Kind:      models.EntryKindService,
		StartTime: at(9, 0),
		EndTime:   at(11, 0),
		ServiceID: &first.ID,
	}); err != nil {
		t.Fatalf("first booking failed: %v", err)
	}

	_, err := svc.CreateEntry(CallerScope{}, CreateEntryInput{
		Kind:      models.EntryKindService,
		StartTime: at(10, 0),
		EndTime:   at(12, 0),
		ServiceID: &second.ID,
	})
	if !IsKind(err, KindConflict) {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

func TestCreateEntryTouchingIntervalsAllowed(t *testing.T) {
	db := openTestDB(t)
	store := seedStore(t, db, 1001, "North", "MX")
	installer := seedInstaller(t, db, 77)
	first := seedService(t, db, 5001, store, installer)
	second := seedService(t, db, 5002, store, installer)

	svc := NewScheduleService(db)
	if _, err := svc.CreateEntry(CallerScope{}, CreateEntryInput{
		Kind:      models.EntryKindService,
		StartTime: at(9, 0),
		EndTime:   at(11, 0),
		ServiceID: &first.ID,
	}); err != nil {
		t.Fatalf("first booking failed: %v", err)
	}

	// Back-to-back: [9,11) then [11,13) must not conflict.
	if _, err := svc.CreateEntry(CallerScope{}, CreateEntryInput{
		Kind:      models.EntryKindService,
		StartTime: at(11, 0),
		EndTime:   at(13, 0),
		ServiceID: &second.ID,
	}); err != nil {
		t.Fatalf("touching interval rejected: %v", err)
	}
}

func TestCreateEntryDifferentInstallersDoNotConflict(t *testing.T) {
	db := openTestDB(t)
	store := seedStore(t, db, 1001, "North", "MX")
	first := seedService(t, db, 5001, store, seedInstaller(t, db, 77))
	second := seedService(t, db, 5002, store, seedInstaller(t, db, 78))

	svc := NewScheduleService(db)
	if _, err := svc.CreateEntry(CallerScope{}, CreateEntryInput{
		Kind:      models.EntryKindService,
		StartTime: at(9, 0),
		EndTime:   at(11, 0),
		ServiceID: &first.ID,
	}); err != nil {
		t.Fatalf("first booking failed: %v", err)
	}

	if _, err := svc.CreateEntry(CallerScope{}, CreateEntryInput{
		Kind:      models.EntryKindService,
		StartTime: at(9, 0),
		EndTime:   at(11, 0),
		ServiceID: &second.ID,
	}); err != nil {
		t.Fatalf("overlap across installers rejected: %v", err)
	}
}

func TestCreateEntryBlockConflictsWithServiceBooking(t *testing.T) {
	db := openTestDB(t)
	store := seedStore(t, db, 1001, "North", "MX")
	installer := seedInstaller(t, db, 77)
	service := seedService(t, db, 5001, store, installer)

	svc := NewScheduleService(db)
	if _, err := svc.CreateEntry(CallerScope{}, CreateEntryInput{
		Kind:      models.EntryKindService,
		StartTime: at(9, 0),
		EndTime:   at(11, 0),
		ServiceID: &service.ID,
	}); err != nil {
		t.Fatalf("service booking failed: %v", err)
	}

	_, err := svc.CreateEntry(InstallerScope(installer), CreateEntryInput{
		Kind:        models.EntryKindBlock,
		StartTime:   at(10, 0),
		EndTime:     at(12, 0),
		Description: "Vehicle maintenance",
	})
	if !IsKind(err, KindConflict) {
		t.Fatalf("expected conflict against service booking, got %v", err)
	}
}

func TestCreateEntryServiceConflictsWithBlock(t *testing.T) {
	db := openTestDB(t)
	store := seedStore(t, db, 1001, "North", "MX")
	installer := seedInstaller(t, db, 77)
	service := seedService(t, db, 5001, store, installer)

	svc := NewScheduleService(db)
	if _, err := svc.CreateEntry(InstallerScope(installer), CreateEntryInput{
		Kind:        models.EntryKindBlock,
		StartTime:   at(9, 0),
		EndTime:     at(11, 0),
		Description: "Personal errand",
	}); err != nil {
		t.Fatalf("block failed: %v", err)
	}

	_, err := svc.CreateEntry(CallerScope{}, CreateEntryInput{
		Kind:      models.EntryKindService,
		StartTime: at(10, 0),
		EndTime:   at(12, 0),
		ServiceID: &service.ID,
	})
	if !IsKind(err, KindConflict) {
		t.Fatalf("expected conflict against block, got %v", err)
	}
}

func TestCreateEntryBlockRequiresInstallerCaller(t *testing.T) {
	db := openTestDB(t)
	svc := NewScheduleService(db)

	_, err := svc.CreateEntry(CallerScope{}, CreateEntryInput{
		Kind:      models.EntryKindBlock,
		StartTime: at(9, 0),
		EndTime:   at(11, 0),
	})
	if !IsKind(err, KindForbidden) {
		t.Fatalf("expected forbidden error, got %v", err)
	}
}

func TestCreateEntryDuplicateServiceBooking(t *testing.T) {
	db := openTestDB(t)
	store := seedStore(t, db, 1001, "North", "MX")
	installer := seedInstaller(t, db, 77)
	service := seedService(t, db, 5001, store, installer)

	svc := NewScheduleService(db)
	if _, err := svc.CreateEntry(CallerScope{}, CreateEntryInput{
		Kind:      models.EntryKindService,
		StartTime: at(9, 0),
		EndTime:   at(11, 0),
		ServiceID: &service.ID,
	}); err != nil {
		t.Fatalf("first booking failed: %v", err)
	}

	// A second entry for the same service, even at a free time.
	_, err := svc.CreateEntry(CallerScope{}, CreateEntryInput{
		Kind:      models.EntryKindService,
		StartTime: at(14, 0),
		EndTime:   at(16, 0),
		ServiceID: &service.ID,
	})
	if !IsKind(err, KindDuplicate) {
		t.Fatalf("expected duplicate error, got %v", err)
	}
}

func TestCreateEntryUnknownService(t *testing.T) {
	db := openTestDB(t)
	svc := NewScheduleService(db)

	missing := uuid.New()
	_, err := svc.CreateEntry(CallerScope{}, CreateEntryInput{
		Kind:      models.EntryKindService,
		StartTime: at(9, 0),
		EndTime:   at(11, 0),
		ServiceID: &missing,
	})
	if !IsKind(err, KindNotFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestUpdateEntryDoesNotConflictWithItself(t *testing.T) {
	db := openTestDB(t)
	store := seedStore(t, db, 1001, "North", "MX")
	installer := seedInstaller(t, db, 77)
	service := seedService(t, db, 5001, store, installer)

	svc := NewScheduleService(db)
	entry, err := svc.CreateEntry(CallerScope{}, CreateEntryInput{
		Kind:      models.EntryKindService,
		StartTime: at(9, 0),
		EndTime:   at(11, 0),
		ServiceID: &service.ID,
	})
	if err != nil {
		t.Fatalf("booking failed: %v", err)
	}

	// Shift within the original window; the only "conflict" would be
	// the entry itself.
	newStart, newEnd := at(9, 30), at(11, 30)
	updated, err := svc.UpdateEntry(CallerScope{}, entry.ID, UpdateEntryInput{
		StartTime: &newStart,
		EndTime:   &newEnd,
	})
	if err != nil {
		t.Fatalf("UpdateEntry failed: %v", err)
	}
	if !updated.StartTime.Equal(newStart) || !updated.EndTime.Equal(newEnd) {
		t.Errorf("interval not updated: got [%v, %v)", updated.StartTime, updated.EndTime)
	}
}

func TestUpdateEntryConflictWithOtherEntry(t *testing.T) {
	db := openTestDB(t)
	store := seedStore(t, db, 1001, "North", "MX")
	installer := seedInstaller(t, db, 77)
	first := seedService(t, db, 5001, store, installer)
	second := seedService(t, db, 5002, store, installer)

	svc := NewScheduleService(db)
	if _, err := svc.CreateEntry(CallerScope{}, CreateEntryInput{
		Kind:      models.EntryKindService,
		StartTime: at(9, 0),
		EndTime:   at(11, 0),
		ServiceID: &first.ID,
	}); err != nil {
		t.Fatalf("first booking failed: %v", err)
	}
	entry, err := svc.CreateEntry(CallerScope{}, CreateEntryInput{
		Kind:      models.EntryKindService,
		StartTime: at(12, 0),
		EndTime:   at(14, 0),
		ServiceID: &second.ID,
	})
	if err != nil {
		t.Fatalf("second booking failed: %v", err)
	}

	newStart := at(10, 0)
	newEnd := at(12, 0)
	_, err = svc.UpdateEntry(CallerScope{}, entry.ID, UpdateEntryInput{
		StartTime: &newStart,
		EndTime:   &newEnd,
	})
	if !IsKind(err, KindConflict) {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

func TestUpdateEntryNotFound(t *testing.T) {
	db := openTestDB(t)
	svc := NewScheduleService(db)

	desc := "moved"
	_, err := svc.UpdateEntry(CallerScope{}, uuid.New(), UpdateEntryInput{Description: &desc})
	if !IsKind(err, KindNotFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestDeleteEntry(t *testing.T) {
	db := openTestDB(t)
	store := seedStore(t, db, 1001, "North", "MX")
	installer := seedInstaller(t, db, 77)
	service := seedService(t, db, 5001, store, installer)

	svc := NewScheduleService(db)
	entry, err := svc.CreateEntry(CallerScope{}, CreateEntryInput{
		Kind:      models.EntryKindService,
		StartTime: at(9, 0),
		EndTime:   at(11, 0),
		ServiceID: &service.ID,
	})
	if err != nil {
		t.Fatalf("booking failed: %v", err)
	}

	if err := svc.DeleteEntry(entry.ID); err != nil {
		t.Fatalf("DeleteEntry failed: %v", err)
	}
	if err := svc.DeleteEntry(entry.ID); !IsKind(err, KindNotFound) {
		t.Fatalf("expected not-found on second delete, got %v", err)
	}

	entries, err := svc.FindEntriesForInstaller(installer)
	if err != nil {
		t.Fatalf("FindEntriesForInstaller failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("deleted entry still listed: %d entries", len(entries))
	}

	// The freed slot is bookable again.
	if _, err := svc.CreateEntry(CallerScope{}, CreateEntryInput{
		Kind:      models.EntryKindService,
		StartTime: at(9, 0),
		EndTime:   at(11, 0),
		ServiceID: &service.ID,
	}); err != nil {
		t.Fatalf("rebooking the freed slot failed: %v", err)
	}
}

func TestFindEntriesForAdminScoping(t *testing.T) {
	db := openTestDB(t)
	north := seedStore(t, db, 1001, "North", "MX")
	south := seedStore(t, db, 2001, "South", "MX")
	installer := seedInstaller(t, db, 77)
	other := seedInstaller(t, db, 78)
	northJob := seedService(t, db, 5001, north, installer)
	southJob := seedService(t, db, 5002, south, other)

	svc := NewScheduleService(db)
	if _, err := svc.CreateEntry(CallerScope{}, CreateEntryInput{
		Kind:      models.EntryKindService,
		StartTime: at(9, 0),
		EndTime:   at(11, 0),
		ServiceID: &northJob.ID,
	}); err != nil {
		t.Fatalf("north booking failed: %v", err)
	}
	if _, err := svc.CreateEntry(CallerScope{}, CreateEntryInput{
		Kind:      models.EntryKindService,
		StartTime: at(9, 0),
		EndTime:   at(11, 0),
		ServiceID: &southJob.ID,
	}); err != nil {
		t.Fatalf("south booking failed: %v", err)
	}
	// Blocks never surface in the admin calendar.
	if _, err := svc.CreateEntry(InstallerScope(installer), CreateEntryInput{
		Kind:        models.EntryKindBlock,
		StartTime:   at(14, 0),
		EndTime:     at(15, 0),
		Description: "Lunch",
	}); err != nil {
		t.Fatalf("block failed: %v", err)
	}

	local := &models.Admin{Role: models.RoleLocal, StoreID: &north.ID}
	views, err := svc.FindEntriesForAdmin(local)
	if err != nil {
		t.Fatalf("local admin query failed: %v", err)
	}
	if len(views) != 1 || views[0].Folio != 5001 {
		t.Errorf("local admin: got %d entries, want the single north job", len(views))
	}

	district := &models.Admin{Role: models.RoleDistrict, District: "South"}
	views, err = svc.FindEntriesForAdmin(district)
	if err != nil {
		t.Fatalf("district admin query failed: %v", err)
	}
	if len(views) != 1 || views[0].Folio != 5002 {
		t.Errorf("district admin: got %d entries, want the single south job", len(views))
	}

	national := &models.Admin{Role: models.RoleNational, Country: "MX"}
	views, err = svc.FindEntriesForAdmin(national)
	if err != nil {
		t.Fatalf("national admin query failed: %v", err)
	}
	if len(views) != 2 {
		t.Errorf("national admin: got %d entries, want 2", len(views))
	}
}

func TestFindEntriesForInstallerHidesFinishedServices(t *testing.T) {
	db := openTestDB(t)
	store := seedStore(t, db, 1001, "North", "MX")
	installer := seedInstaller(t, db, 77)
	active := seedService(t, db, 5001, store, installer)
	finished := seedService(t, db, 5002, store, installer)

	svc := NewScheduleService(db)
	if _, err := svc.CreateEntry(CallerScope{}, CreateEntryInput{
		Kind:      models.EntryKindService,
		StartTime: at(9, 0),
		EndTime:   at(11, 0),
		ServiceID: &active.ID,
	}); err != nil {
		t.Fatalf("active booking failed: %v", err)
	}
	if _, err := svc.CreateEntry(CallerScope{}, CreateEntryInput{
		Kind:      models.EntryKindService,
		StartTime: at(12, 0),
		EndTime:   at(14, 0),
		ServiceID: &finished.ID,
	}); err != nil {
		t.Fatalf("finished booking failed: %v", err)
	}
	if _, err := svc.CreateEntry(InstallerScope(installer), CreateEntryInput{
		Kind:        models.EntryKindBlock,
		StartTime:   at(15, 0),
		EndTime:     at(16, 0),
		Description: "Workshop visit",
	}); err != nil {
		t.Fatalf("block failed: %v", err)
	}

	if err := db.Model(&models.Service{}).Where("id = ?", finished.ID).Update("status", models.StatusDone).Error; err != nil {
		t.Fatalf("failed to finish service: %v", err)
	}

	entries, err := svc.FindEntriesForInstaller(installer)
	if err != nil {
		t.Fatalf("FindEntriesForInstaller failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want active booking plus block", len(entries))
	}
	for _, e := range entries {
		if e.ServiceID != nil && *e.ServiceID == finished.ID {
			t.Errorf("entry for a Done service still listed")
		}
	}
}

func TestDeleteEntriesForService(t *testing.T) {
	db := openTestDB(t)
	store := seedStore(t, db, 1001, "North", "MX")
	installer := seedInstaller(t, db, 77)
	service := seedService(t, db, 5001, store, installer)

	svc := NewScheduleService(db)
	if _, err := svc.CreateEntry(CallerScope{}, CreateEntryInput{
		Kind:      models.EntryKindService,
		StartTime: at(9, 0),
		EndTime:   at(11, 0),
		ServiceID: &service.ID,
	}); err != nil {
		t.Fatalf("booking failed: %v", err)
	}

	if err := svc.DeleteEntriesForService(nil, service.ID); err != nil {
		t.Fatalf("DeleteEntriesForService failed: %v", err)
	}

	var count int64
	db.Model(&models.ScheduleEntry{}).Where("service_id = ?", service.ID).Count(&count)
	if count != 0 {
		t.Errorf("schedule entry survived: count = %d", count)
	}
}
