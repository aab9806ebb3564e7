package store

import (
	"reflect"
	"testing"

	"github.com/avelan/rationd/internal/database"
	"github.com/avelan/rationd/internal/model"
)

func setupFamilyTestDB(t *testing.T) *FamilyStore {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewFamilyStore(db)
}

func testFamily(familyID string) *model.Family {
	return &model.Family{
		FamilyID:     familyID,
		HeadOfFamily: "Raman",
		NumMembers:   3,
		MemberList:   []string{"Raman", "Lakshmi", "Arun"},
		Address:      "12 Main Street",
		Phone:        "9876543210",
		Aadhaar:      "1234-5678-9012",
		CardType:     "BPL",
	}
}

func TestFamilyCRUD(t *testing.T) {
	fs := setupFamilyTestDB(t)

	created, err := fs.Create(testFamily("FAM001"))
	if err != nil {
		t.Fatalf("create family: %v", err)
	}
	if created.FamilyID != "FAM001" {
		t.Errorf("familyId = %q, want %q", created.FamilyID, "FAM001")
	}
	if created.HeadOfFamily != "Raman" {
		t.Errorf("headOfFamily = %q, want %q", created.HeadOfFamily, "Raman")
	}
	if !reflect.DeepEqual(created.MemberList, []string{"Raman", "Lakshmi", "Arun"}) {
		t.Errorf("memberList = %v", created.MemberList)
	}
	if created.CreatedAt.IsZero() {
		t.Error("expected createdAt to be set")
	}

	// GetByID
	got, err := fs.GetByID(created.ID)
	if err != nil {
		t.Fatalf("get family: %v", err)
	}
	if got == nil || got.FamilyID != "FAM001" {
		t.Fatalf("got = %+v, want FAM001", got)
	}

	// GetByFamilyID (natural key)
	got, err = fs.GetByFamilyID("FAM001")
	if err != nil {
		t.Fatalf("get by family id: %v", err)
	}
	if got == nil || got.ID != created.ID {
		t.Fatalf("got = %+v, want id %d", got, created.ID)
	}

	// Update
	upd := testFamily("FAM001")
	upd.HeadOfFamily = "Lakshmi"
	upd.NumMembers = 4
	upd.MemberList = append(upd.MemberList, "Meena")
	updated, err := fs.Update(created.ID, upd)
	if err != nil {
		t.Fatalf("update family: %v", err)
	}
	if updated.HeadOfFamily != "Lakshmi" {
		t.Errorf("updated head = %q, want %q", updated.HeadOfFamily, "Lakshmi")
	}
	if len(updated.MemberList) != 4 {
		t.Errorf("updated memberList size = %d, want 4", len(updated.MemberList))
	}

	// List
	families, err := fs.List()
	if err != nil {
		t.Fatalf("list families: %v", err)
	}
	if len(families) != 1 {
		t.Fatalf("expected 1 family, got %d", len(families))
	}

	// Delete
	if err := fs.Delete(created.ID); err != nil {
		t.Fatalf("delete family: %v", err)
	}
	got, err = fs.GetByID(created.ID)
	if err != nil {
		t.Fatalf("get after delete: %v", err)
	}
	if got != nil {
		t.Error("expected nil after delete")
	}
}

func TestFamilyDuplicateFamilyID(t *testing.T) {
	fs := setupFamilyTestDB(t)

	if _, err := fs.Create(testFamily("FAM001")); err != nil {
		t.Fatalf("create family: %v", err)
	}

	_, err := fs.Create(testFamily("FAM001"))
	if err != ErrDuplicateFamilyID {
		t.Fatalf("err = %v, want ErrDuplicateFamilyID", err)
	}

	// No duplicate stored
	count, err := fs.Count()
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}

func TestFamilyUpdateToDuplicateFamilyID(t *testing.T) {
	fs := setupFamilyTestDB(t)

	if _, err := fs.Create(testFamily("FAM001")); err != nil {
		t.Fatalf("create first: %v", err)
	}
	second, err := fs.Create(testFamily("FAM002"))
	if err != nil {
		t.Fatalf("create second: %v", err)
	}

	if _, err := fs.Update(second.ID, testFamily("FAM001")); err != ErrDuplicateFamilyID {
		t.Fatalf("err = %v, want ErrDuplicateFamilyID", err)
	}
}

func TestFamilyIDExists(t *testing.T) {
	fs := setupFamilyTestDB(t)

	created, err := fs.Create(testFamily("FAM001"))
	if err != nil {
		t.Fatalf("create family: %v", err)
	}

	exists, err := fs.FamilyIDExists("FAM001", 0)
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if !exists {
		t.Error("expected FAM001 to exist")
	}

	// Excluding its own row means an update keeping its key passes
	exists, err = fs.FamilyIDExists("FAM001", created.ID)
	if err != nil {
		t.Fatalf("exists with exclude: %v", err)
	}
	if exists {
		t.Error("expected no conflict when excluding own id")
	}

	exists, err = fs.FamilyIDExists("FAM999", 0)
	if err != nil {
		t.Fatalf("exists unknown: %v", err)
	}
	if exists {
		t.Error("expected FAM999 to not exist")
	}
}

func TestFamilyGetMissing(t *testing.T) {
	fs := setupFamilyTestDB(t)

	got, err := fs.GetByID(42)
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if got != nil {
		t.Error("expected nil for missing family")
	}

	got, err = fs.GetByFamilyID("NOPE")
	if err != nil {
		t.Fatalf("get missing by key: %v", err)
	}
	if got != nil {
		t.Error("expected nil for missing family key")
	}
}

// An update against a row deleted since the caller's lookup must report the
// row as gone, not hand back a stale read.
func TestFamilyUpdateDeletedRow(t *testing.T) {
	fs := setupFamilyTestDB(t)

	created, err := fs.Create(testFamily("FAM001"))
	if err != nil {
		t.Fatalf("create family: %v", err)
	}
	if err := fs.Delete(created.ID); err != nil {
		t.Fatalf("delete family: %v", err)
	}

	got, err := fs.Update(created.ID, testFamily("FAM001"))
	if err != nil {
		t.Fatalf("update deleted: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for deleted family, got %+v", got)
	}
}
