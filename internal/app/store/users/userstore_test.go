package userstore

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dalemusser/stratapage/internal/domain/models"
	"github.com/dalemusser/stratapage/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, "  admin ", "hash")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if created.ID == "" {
		t.Error("Create() did not assign ID")
	}
	if created.Username != "admin" {
		t.Errorf("Username = %q, want %q", created.Username, "admin")
	}
	if !created.IsActive {
		t.Error("new admin should be active")
	}
	if created.CreatedAt.IsZero() {
		t.Error("Create() did not set CreatedAt")
	}
	if created.LastLogin != nil {
		t.Error("LastLogin should be nil for a new admin")
	}
	if created.Singleton != "" {
		t.Error("Create() should not mark the admin as primary")
	}
}

func TestStore_Create_DuplicateUsername(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, "admin", "hash"); err != nil {
		t.Fatalf("Create() first admin error = %v", err)
	}

	_, err := store.Create(ctx, "admin", "other")
	if !errors.Is(err, ErrDuplicateUsername) {
		t.Errorf("Create() duplicate error = %v, want %v", err, ErrDuplicateUsername)
	}
}

func TestStore_Create_UsernameIsCaseSensitive(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, "admin", "hash"); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := store.Create(ctx, "Admin", "hash"); err != nil {
		t.Errorf("Create() with different case error = %v", err)
	}
}

func TestStore_CreatePrimary(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	first, err := store.CreatePrimary(ctx, "admin", "hash")
	if err != nil {
		t.Fatalf("CreatePrimary() error = %v", err)
	}
	if first.Singleton != models.SingletonPrimary {
		t.Errorf("Singleton = %q, want %q", first.Singleton, models.SingletonPrimary)
	}

	_, err = store.CreatePrimary(ctx, "second", "hash")
	if !errors.Is(err, ErrPrimaryExists) {
		t.Errorf("CreatePrimary() second error = %v, want %v", err, ErrPrimaryExists)
	}

	// Regular admins are unaffected by the primary marker.
	if _, err := store.Create(ctx, "third", "hash"); err != nil {
		t.Errorf("Create() after primary error = %v", err)
	}
	if _, err := store.Create(ctx, "fourth", "hash"); err != nil {
		t.Errorf("Create() second regular admin error = %v", err)
	}
}

func TestStore_CreatePrimary_Concurrent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	const n = 8
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = store.CreatePrimary(ctx, "admin"+string(rune('a'+i)), "hash")
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrPrimaryExists):
		default:
			t.Errorf("CreatePrimary() unexpected error = %v", err)
		}
	}
	if succeeded != 1 {
		t.Errorf("successful primaries = %d, want 1", succeeded)
	}

	count, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 1 {
		t.Errorf("Count() = %d, want 1", count)
	}
}

func TestStore_GetByUsername(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, _ := store.Create(ctx, "admin", "hash")

	got, err := store.GetByUsername(ctx, "admin")
	if err != nil {
		t.Fatalf("GetByUsername() error = %v", err)
	}
	if got == nil || got.ID != created.ID {
		t.Fatalf("GetByUsername() = %v, want %q", got, created.ID)
	}
	if got.PasswordHash != "hash" {
		t.Errorf("PasswordHash = %q, want %q", got.PasswordHash, "hash")
	}

	missing, err := store.GetByUsername(ctx, "nobody")
	if err != nil {
		t.Fatalf("GetByUsername(missing) error = %v", err)
	}
	if missing != nil {
		t.Errorf("GetByUsername(missing) = %v, want nil", missing)
	}
}

func TestStore_GetByID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, _ := store.Create(ctx, "admin", "hash")

	got, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got == nil || got.Username != "admin" {
		t.Fatalf("GetByID() = %v", got)
	}

	for _, id := range []string{"", "nonexistent"} {
		got, err := store.GetByID(ctx, id)
		if err != nil {
			t.Errorf("GetByID(%q) error = %v", id, err)
		}
		if got != nil {
			t.Errorf("GetByID(%q) = %v, want nil", id, got)
		}
	}
}

func TestStore_SetLastLogin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, _ := store.Create(ctx, "admin", "hash")
	at := time.Date(2025, 5, 1, 8, 30, 0, 0, time.UTC)

	if err := store.SetLastLogin(ctx, created.ID, at); err != nil {
		t.Fatalf("SetLastLogin() error = %v", err)
	}

	got, _ := store.GetByID(ctx, created.ID)
	if got.LastLogin == nil || !got.LastLogin.Equal(at) {
		t.Errorf("LastLogin = %v, want %v", got.LastLogin, at)
	}
}

func TestStore_SetPasswordHash(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, _ := store.Create(ctx, "admin", "old-hash")

	ok, err := store.SetPasswordHash(ctx, created.ID, "new-hash")
	if err != nil {
		t.Fatalf("SetPasswordHash() error = %v", err)
	}
	if !ok {
		t.Error("SetPasswordHash() = false, want true")
	}
	got, _ := store.GetByID(ctx, created.ID)
	if got.PasswordHash != "new-hash" {
		t.Errorf("PasswordHash = %q, want %q", got.PasswordHash, "new-hash")
	}

	ok, err = store.SetPasswordHash(ctx, "nonexistent", "x")
	if err != nil {
		t.Fatalf("SetPasswordHash(missing) error = %v", err)
	}
	if ok {
		t.Error("SetPasswordHash(missing) = true, want false")
	}
}

func TestStore_SetActive(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, _ := store.Create(ctx, "admin", "hash")
	if err := store.SetActive(ctx, created.ID, false); err != nil {
		t.Fatalf("SetActive() error = %v", err)
	}
	got, _ := store.GetByID(ctx, created.ID)
	if got.IsActive {
		t.Error("admin should be inactive")
	}
}

func TestStore_Count(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	count, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 0 {
		t.Errorf("Count() on empty = %d, want 0", count)
	}

	for _, name := range []string{"charlie", "alice", "bob"} {
		if _, err := store.Create(ctx, name, "hash"); err != nil {
			t.Fatalf("Create(%q) error = %v", name, err)
		}
	}

	count, _ = store.Count(ctx)
	if count != 3 {
		t.Errorf("Count() = %d, want 3", count)
	}
}

func TestStore_PasswordHashStoredNotExposed(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, _ := store.Create(ctx, "admin", "hash")

	var raw bson.M
	if err := db.Collection(CollectionName).FindOne(ctx, bson.M{"id": created.ID}).Decode(&raw); err != nil {
		t.Fatalf("FindOne() error = %v", err)
	}
	if raw["password_hash"] != "hash" {
		t.Errorf("password_hash = %v, want %q", raw["password_hash"], "hash")
	}
	if _, ok := raw["singleton"]; ok {
		t.Error("regular admins should not carry the singleton field")
	}
}
