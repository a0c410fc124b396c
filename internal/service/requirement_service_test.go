package service

import (
	"testing"

	"github.com/emert/crm-service/internal/model"
)

func reqStatusPtr(s model.RequirementStatus) *model.RequirementStatus { return &s }

func TestRequirementCompletionStamp(t *testing.T) {
	database := setupTestDB(t, t.Name())
	ctx := testContext()
	client := seedClient(t, database)
	project := seedProject(t, database, client.ID)

	svc := NewRequirementService(database)
	req, err := svc.Create(ctx, CreateRequirementInput{
		ProjectID: project.ID,
		Title:     "User login",
		CreatedBy: 1,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if req.Status != model.RequirementStatusPending {
		t.Fatalf("expected pending default got %s", req.Status)
	}
	if req.CompletedAt != nil {
		t.Fatalf("expected nil completed_at")
	}

	req, err = svc.Update(ctx, req.ID, UpdateRequirementInput{Status: reqStatusPtr(model.RequirementStatusCompleted)})
	if err != nil {
		t.Fatalf("update to completed: %v", err)
	}
	if req.CompletedAt == nil {
		t.Fatalf("expected completed_at set on completion")
	}

	req, err = svc.Update(ctx, req.ID, UpdateRequirementInput{Status: reqStatusPtr(model.RequirementStatusInProgress)})
	if err != nil {
		t.Fatalf("update to in_progress: %v", err)
	}
	if req.CompletedAt != nil {
		t.Fatalf("expected completed_at cleared on reopen")
	}
}

func TestRequirementCreatedCompletedStamps(t *testing.T) {
	database := setupTestDB(t, t.Name())
	ctx := testContext()
	client := seedClient(t, database)
	project := seedProject(t, database, client.ID)

	svc := NewRequirementService(database)
	req, err := svc.Create(ctx, CreateRequirementInput{
		ProjectID: project.ID,
		Title:     "Import legacy data",
		Status:    model.RequirementStatusCompleted,
		CreatedBy: 1,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if req.CompletedAt == nil {
		t.Fatalf("expected completed_at on requirement created completed")
	}
}

func TestRequirementUpdateWithoutStatusKeepsStamp(t *testing.T) {
	database := setupTestDB(t, t.Name())
	ctx := testContext()
	client := seedClient(t, database)
	project := seedProject(t, database, client.ID)

	svc := NewRequirementService(database)
	req, err := svc.Create(ctx, CreateRequirementInput{
		ProjectID: project.ID,
		Title:     "Checkout flow",
		Status:    model.RequirementStatusCompleted,
		CreatedBy: 1,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	req, err = svc.Update(ctx, req.ID, UpdateRequirementInput{Title: strPtr("Checkout flow v2")})
	if err != nil {
		t.Fatalf("update title: %v", err)
	}
	if req.CompletedAt == nil {
		t.Fatalf("expected completed_at untouched when status absent")
	}
	if req.Title != "Checkout flow v2" {
		t.Fatalf("expected title updated got %q", req.Title)
	}
}

func TestRequirementRepeatedCompletedKeepsStamp(t *testing.T) {
	database := setupTestDB(t, t.Name())
	ctx := testContext()
	client := seedClient(t, database)
	project := seedProject(t, database, client.ID)

	svc := NewRequirementService(database)
	req, err := svc.Create(ctx, CreateRequirementInput{
		ProjectID: project.ID,
		Title:     "Email notifications",
		CreatedBy: 1,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	req, err = svc.Update(ctx, req.ID, UpdateRequirementInput{Status: reqStatusPtr(model.RequirementStatusCompleted)})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	first := *req.CompletedAt

	// Sending completed again leaves the stamp as-is.
	req, err = svc.Update(ctx, req.ID, UpdateRequirementInput{Status: reqStatusPtr(model.RequirementStatusCompleted)})
	if err != nil {
		t.Fatalf("complete again: %v", err)
	}
	if req.CompletedAt == nil || !req.CompletedAt.Equal(first) {
		t.Fatalf("expected stamp preserved on repeated completed status")
	}
}
