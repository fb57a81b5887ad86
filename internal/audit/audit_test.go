package audit

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ardidrizi/inventory-saas/pkg/db/models"
	"github.com/ardidrizi/inventory-saas/pkg/enums"
	"github.com/ardidrizi/inventory-saas/pkg/logger"
	"github.com/ardidrizi/inventory-saas/pkg/pagination"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:audit_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{SkipDefaultTransaction: true})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := conn.AutoMigrate(&models.User{}, &models.AuditLog{}); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	return conn
}

func testLogger(buf *bytes.Buffer) *logger.Logger {
	return logger.New(logger.Options{ServiceName: "audit-test", Output: buf})
}

func mustRecorder(t *testing.T, repo *Repository, buf *bytes.Buffer) Recorder {
	t.Helper()
	rec, err := NewRecorder(repo, testLogger(buf))
	if err != nil {
		t.Fatalf("build recorder: %v", err)
	}
	return rec
}

func TestRecorderPersistsEntry(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	rec := mustRecorder(t, repo, &bytes.Buffer{})
	ctx := context.Background()

	actor := uuid.New()
	target := uuid.New()
	rec.Record(ctx, Entry{
		UserID:     actor,
		Action:     enums.AuditActionUpdateRole,
		EntityType: enums.EntityTypeUser,
		EntityID:   target,
		Metadata:   map[string]any{"newRole": "admin"},
	})

	rows, total, err := repo.List(ctx, ListFilter{}, pagination.Params{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 1 || len(rows) != 1 {
		t.Fatalf("expected 1 row, got total=%d", total)
	}
	row := rows[0]
	if row.UserID != actor || row.Action != enums.AuditActionUpdateRole || row.EntityID != target {
		t.Fatalf("unexpected row %+v", row)
	}
	if row.Metadata["newRole"] != "admin" {
		t.Fatalf("unexpected metadata %+v", row.Metadata)
	}
}

func TestRecorderSwallowsInsertFailure(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	var buf bytes.Buffer
	rec := mustRecorder(t, repo, &buf)

	if err := conn.Migrator().DropTable(&models.AuditLog{}); err != nil {
		t.Fatalf("drop table: %v", err)
	}

	// Must not panic or surface an error to the caller.
	rec.Record(context.Background(), Entry{
		UserID:     uuid.New(),
		Action:     enums.AuditActionCreate,
		EntityType: enums.EntityTypeOrder,
		EntityID:   uuid.New(),
	})

	if !strings.Contains(buf.String(), "audit record dropped") {
		t.Fatalf("expected dropped-record log, got %q", buf.String())
	}
}

func TestRepositoryListFiltersAndPreloadsActor(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	actor := &models.User{ID: uuid.New(), Email: "admin@example.com", PasswordHash: "x", Name: "Admin", Role: enums.UserRoleAdmin, IsActive: true}
	if err := conn.Create(actor).Error; err != nil {
		t.Fatalf("seed actor: %v", err)
	}

	entity := uuid.New()
	seed := []models.AuditLog{
		{ID: uuid.New(), UserID: actor.ID, Action: enums.AuditActionCreate, EntityType: enums.EntityTypeProduct, EntityID: entity},
		{ID: uuid.New(), UserID: actor.ID, Action: enums.AuditActionDelete, EntityType: enums.EntityTypeProduct, EntityID: entity},
		{ID: uuid.New(), UserID: actor.ID, Action: enums.AuditActionCreate, EntityType: enums.EntityTypeOrder, EntityID: uuid.New()},
	}
	for i := range seed {
		if err := repo.Insert(ctx, &seed[i]); err != nil {
			t.Fatalf("seed row: %v", err)
		}
	}

	action := enums.AuditActionCreate
	entityType := enums.EntityTypeProduct
	rows, total, err := repo.List(ctx, ListFilter{Action: &action, EntityType: &entityType}, pagination.Params{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 1 || len(rows) != 1 {
		t.Fatalf("expected 1 filtered row, got total=%d", total)
	}
	if rows[0].Actor == nil || rows[0].Actor.Email != "admin@example.com" {
		t.Fatalf("expected preloaded actor, got %+v", rows[0].Actor)
	}
}

func TestServiceListMapsRows(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	actor := &models.User{ID: uuid.New(), Email: "admin@example.com", PasswordHash: "x", Name: "Admin", Role: enums.UserRoleAdmin, IsActive: true}
	if err := conn.Create(actor).Error; err != nil {
		t.Fatalf("seed actor: %v", err)
	}
	row := &models.AuditLog{
		ID:         uuid.New(),
		UserID:     actor.ID,
		Action:     enums.AuditActionDeactivate,
		EntityType: enums.EntityTypeUser,
		EntityID:   uuid.New(),
	}
	if err := repo.Insert(ctx, row); err != nil {
		t.Fatalf("seed row: %v", err)
	}

	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	result, err := svc.List(ctx, ListFilter{}, pagination.Params{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if result.Meta.Total != 1 || len(result.Logs) != 1 {
		t.Fatalf("expected 1 log, got %+v", result.Meta)
	}
	log := result.Logs[0]
	if log.Action != enums.AuditActionDeactivate || log.Actor == nil || log.Actor.Name != "Admin" {
		t.Fatalf("unexpected log %+v", log)
	}
}
