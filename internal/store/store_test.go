package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"appointment-tracker/internal/model"
)

func setup(t *testing.T) *Store {
	t.Helper()
	_ = godotenv.Load("../../.env")
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set")
	}
	pool, err := pgxpool.New(context.Background(), dbURL)
	if err != nil {
		t.Fatalf("db: %v", err)
	}
	t.Cleanup(pool.Close)
	s := New(pool)
	if err := s.InitSchema(context.Background()); err != nil {
		t.Fatalf("schema init: %v", err)
	}
	return s
}

func newTestUser(t *testing.T, s *Store, isAdmin bool) *model.User {
	t.Helper()
	email := fmt.Sprintf("test-%s@test.com", uuid.New().String()[:8])
	if _, err := s.CreateUser(context.Background(), email, "x-not-a-real-hash", isAdmin); err != nil {
		t.Fatalf("create user: %v", err)
	}
	u, err := s.UserByEmail(context.Background(), email)
	if err != nil || u == nil {
		t.Fatalf("lookup user %s: %v", email, err)
	}
	return u
}

func newTestAppointment(t *testing.T, s *Store, ownerID int64) int64 {
	t.Helper()
	id, err := s.CreateAppointment(context.Background(), ownerID,
		"meeting", "2026-02-01", "10:00", "tel aviv", "bring notes")
	if err != nil {
		t.Fatalf("create appointment: %v", err)
	}
	return id
}

// ----- users -----

func TestInitSchemaIdempotent(t *testing.T) {
	s := setup(t)
	// second run against an initialized database must not error
	if err := s.InitSchema(context.Background()); err != nil {
		t.Fatalf("re-init: %v", err)
	}
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	s := setup(t)
	email := fmt.Sprintf("Test-%s@Test.com", uuid.New().String()[:8])

	if _, err := s.CreateUser(context.Background(), email, "h", false); err != nil {
		t.Fatalf("first create: %v", err)
	}
	// same address in different case is still a duplicate
	_, err := s.CreateUser(context.Background(), "  "+email+" ", "h", false)
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestUserByEmailNormalizes(t *testing.T) {
	s := setup(t)
	u := newTestUser(t, s, false)

	found, err := s.UserByEmail(context.Background(), "  "+u.Email+"  ")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if found == nil || found.ID != u.ID {
		t.Fatal("normalized lookup failed")
	}

	missing, err := s.UserByEmail(context.Background(), "nobody@nowhere.test")
	if err != nil {
		t.Fatalf("lookup missing: %v", err)
	}
	if missing != nil {
		t.Fatal("expected nil for unknown email")
	}
}

// ----- ownership -----

func TestOwnershipIsolation(t *testing.T) {
	s := setup(t)
	owner := newTestUser(t, s, false)
	other := newTestUser(t, s, false)
	ctx := context.Background()

	id := newTestAppointment(t, s, owner.ID)

	appts, err := s.AppointmentsByOwner(ctx, other.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, a := range appts {
		if a.ID == id {
			t.Fatal("other user's list contains owner's appointment")
		}
	}

	got, err := s.AppointmentByIDForOwner(ctx, id, other.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Fatal("other user can read owner's appointment")
	}
}

func TestOwnerScopedMutationsNoOpForNonOwner(t *testing.T) {
	s := setup(t)
	owner := newTestUser(t, s, false)
	other := newTestUser(t, s, false)
	ctx := context.Background()

	id := newTestAppointment(t, s, owner.ID)

	if rows, err := s.UpdateAppointmentContent(ctx, id, other.ID, "stolen", "23:59", "", ""); err != nil || rows != 0 {
		t.Fatalf("update: rows=%d err=%v", rows, err)
	}
	if rows, err := s.CompleteAppointment(ctx, id, other.ID); err != nil || rows != 0 {
		t.Fatalf("complete: rows=%d err=%v", rows, err)
	}
	if rows, err := s.DeleteAppointment(ctx, id, other.ID); err != nil || rows != 0 {
		t.Fatalf("delete: rows=%d err=%v", rows, err)
	}

	a, err := s.AppointmentByIDForOwner(ctx, id, owner.ID)
	if err != nil || a == nil {
		t.Fatalf("row lost: %v", err)
	}
	if a.Title != "meeting" || a.Status != model.StatusPlanned || a.UpdatedAt != nil {
		t.Errorf("row changed by non-owner: %+v", a)
	}
}

// ----- content edits -----

func TestUpdateContentLeavesDateAndStatusAlone(t *testing.T) {
	s := setup(t)
	owner := newTestUser(t, s, false)
	ctx := context.Background()

	id := newTestAppointment(t, s, owner.ID)

	before, _ := s.AppointmentByIDForOwner(ctx, id, owner.ID)
	if before.UpdatedAt != nil {
		t.Fatal("fresh appointment has updated_at set")
	}

	rows, err := s.UpdateAppointmentContent(ctx, id, owner.ID, "renamed", "11:30", "haifa", "updated")
	if err != nil || rows != 1 {
		t.Fatalf("update: rows=%d err=%v", rows, err)
	}

	after, _ := s.AppointmentByIDForOwner(ctx, id, owner.ID)
	if after.Title != "renamed" || after.TimeText != "11:30" {
		t.Errorf("content not updated: %+v", after)
	}
	if after.DateText != "2026-02-01" {
		t.Errorf("date changed by content edit: %s", after.DateText)
	}
	if after.Status != model.StatusPlanned {
		t.Errorf("status changed by content edit: %s", after.Status)
	}
	if after.UpdatedAt == nil {
		t.Error("updated_at not stamped")
	}
	if after.StatusUpdatedAt != nil || after.StatusUpdatedBy != nil {
		t.Error("content edit wrote status-audit fields")
	}
}

func TestCompleteForcesDoneFromAnyState(t *testing.T) {
	s := setup(t)
	owner := newTestUser(t, s, false)
	admin := newTestUser(t, s, true)
	ctx := context.Background()

	id := newTestAppointment(t, s, owner.ID)

	if _, err := s.SetAppointmentStatus(ctx, id, model.StatusCanceled, admin.ID); err != nil {
		t.Fatalf("set status: %v", err)
	}
	rows, err := s.CompleteAppointment(ctx, id, owner.ID)
	if err != nil || rows != 1 {
		t.Fatalf("complete: rows=%d err=%v", rows, err)
	}

	a, _ := s.AppointmentByIDForOwner(ctx, id, owner.ID)
	if a.Status != model.StatusDone {
		t.Errorf("expected done, got %s", a.Status)
	}
	if a.UpdatedAt != nil {
		t.Error("complete touched the content-update timestamp")
	}
}

// ----- status changes -----

func TestSetStatusInvalidValue(t *testing.T) {
	s := setup(t)
	owner := newTestUser(t, s, false)
	admin := newTestUser(t, s, true)
	ctx := context.Background()

	id := newTestAppointment(t, s, owner.ID)

	_, err := s.SetAppointmentStatus(ctx, id, "postponed", admin.ID)
	if !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}

	a, _ := s.AppointmentByIDForOwner(ctx, id, owner.ID)
	if a.Status != model.StatusPlanned || a.StatusUpdatedAt != nil || a.StatusUpdatedBy != nil {
		t.Errorf("row changed by rejected status: %+v", a)
	}
}

func TestSetStatusWritesAudit(t *testing.T) {
	s := setup(t)
	owner := newTestUser(t, s, false)
	admin1 := newTestUser(t, s, true)
	admin2 := newTestUser(t, s, true)
	ctx := context.Background()

	id := newTestAppointment(t, s, owner.ID)

	rows, err := s.SetAppointmentStatus(ctx, id, model.StatusCanceled, admin1.ID)
	if err != nil || rows != 1 {
		t.Fatalf("set status: rows=%d err=%v", rows, err)
	}

	a, _ := s.AppointmentByID(ctx, id)
	if a.Status != model.StatusCanceled {
		t.Errorf("status: %s", a.Status)
	}
	if a.StatusUpdatedAt == nil {
		t.Error("status_updated_at not set")
	}
	if a.StatusUpdatedBy == nil || *a.StatusUpdatedBy != admin1.ID {
		t.Errorf("status actor: %v", a.StatusUpdatedBy)
	}
	if a.StatusUpdatedByEmail != admin1.Email {
		t.Errorf("actor email join: %s", a.StatusUpdatedByEmail)
	}

	// any state may move to any other, and audit is overwritten
	if _, err := s.SetAppointmentStatus(ctx, id, model.StatusPlanned, admin2.ID); err != nil {
		t.Fatalf("reopen: %v", err)
	}
	a, _ = s.AppointmentByID(ctx, id)
	if a.Status != model.StatusPlanned {
		t.Errorf("reopened status: %s", a.Status)
	}
	if a.StatusUpdatedBy == nil || *a.StatusUpdatedBy != admin2.ID {
		t.Errorf("audit not overwritten: %v", a.StatusUpdatedBy)
	}
}

// ----- delete and ordering -----

func TestDeleteRemovesExactlyOneRow(t *testing.T) {
	s := setup(t)
	owner := newTestUser(t, s, false)
	ctx := context.Background()

	id := newTestAppointment(t, s, owner.ID)
	newTestAppointment(t, s, owner.ID)

	var before int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM appointments`).Scan(&before); err != nil {
		t.Fatalf("count: %v", err)
	}

	rows, err := s.DeleteAppointment(ctx, id, owner.ID)
	if err != nil || rows != 1 {
		t.Fatalf("delete: rows=%d err=%v", rows, err)
	}

	var after int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM appointments`).Scan(&after); err != nil {
		t.Fatalf("count: %v", err)
	}
	if after != before-1 {
		t.Errorf("row count %d -> %d", before, after)
	}

	a, err := s.AppointmentByIDForOwner(ctx, id, owner.ID)
	if err != nil {
		t.Fatalf("refetch: %v", err)
	}
	if a != nil {
		t.Fatal("deleted appointment still readable")
	}
}

func TestListNewestFirst(t *testing.T) {
	s := setup(t)
	owner := newTestUser(t, s, false)
	ctx := context.Background()

	first := newTestAppointment(t, s, owner.ID)
	second := newTestAppointment(t, s, owner.ID)

	appts, err := s.AppointmentsByOwner(ctx, owner.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(appts) != 2 {
		t.Fatalf("expected 2 appointments, got %d", len(appts))
	}
	if appts[0].ID != second || appts[1].ID != first {
		t.Errorf("order: got %d, %d", appts[0].ID, appts[1].ID)
	}
	if appts[0].OwnerEmail != owner.Email {
		t.Errorf("owner email join: %s", appts[0].OwnerEmail)
	}
}
