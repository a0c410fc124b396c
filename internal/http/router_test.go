package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/emert/crm-service/internal/db"
	"github.com/emert/crm-service/internal/excel"
	"github.com/emert/crm-service/internal/model"
	"github.com/emert/crm-service/internal/pdf"
	"github.com/emert/crm-service/internal/service"
)

func setupRouter(t *testing.T, name string) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	database, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.Migrate(database); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	handler := NewHandler(
		service.NewClientService(database),
		service.NewProjectService(database),
		service.NewTaskService(database),
		service.NewQuoteService(database, pdf.NewGenerator()),
		service.NewRequirementService(database),
		service.NewUpdateService(database),
		service.NewCommunicationService(database),
		service.NewAnalyticsService(database, excel.NewGenerator()),
		zerolog.Nop(),
	)
	router := NewRouter(handler, "test", []string{"*"}, t.TempDir())
	return router, database
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	router, _ := setupRouter(t, t.Name())

	rec := doJSON(t, router, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
}

func TestClientCRUDOverHTTP(t *testing.T) {
	router, _ := setupRouter(t, t.Name())

	rec := doJSON(t, router, http.MethodPost, "/api/clients", map[string]interface{}{
		"company_name": "Globex",
		"contact_name": "Sam Fisher",
		"email":        "sam@globex.test",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: expected 201 got %d body=%s", rec.Code, rec.Body.String())
	}
	var created model.Client
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}

	rec = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/clients/%d", created.ID), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get: expected 200 got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodPut, fmt.Sprintf("/api/clients/%d", created.ID), map[string]interface{}{
		"phone": "+1 555 0100",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("update: expected 200 got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/api/clients/%d", created.ID), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: expected 200 got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/clients/%d", created.ID), nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete: expected 404 got %d", rec.Code)
	}
}

func TestCreateClientValidationOverHTTP(t *testing.T) {
	router, _ := setupRouter(t, t.Name())

	rec := doJSON(t, router, http.MethodPost, "/api/clients", map[string]interface{}{
		"company_name": "No Contact Inc",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestTaskFilterValidationOverHTTP(t *testing.T) {
	router, _ := setupRouter(t, t.Name())

	rec := doJSON(t, router, http.MethodGet, "/api/tasks?status=archived", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown status got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodGet, "/api/tasks?status=todo", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
}

func TestQuoteLifecycleOverHTTP(t *testing.T) {
	router, database := setupRouter(t, t.Name())

	client := model.Client{CompanyName: "Initech", ContactName: "Pat", Email: "pat@initech.test"}
	if err := database.Create(&client).Error; err != nil {
		t.Fatalf("seed client: %v", err)
	}

	rec := doJSON(t, router, http.MethodPost, "/api/quotes", map[string]interface{}{
		"client_id": client.ID,
		"title":     "Annual contract",
		"items": []map[string]interface{}{
			{"service_name": "Consulting", "quantity": 10, "unit_price": 120},
		},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: expected 201 got %d body=%s", rec.Code, rec.Body.String())
	}
	var quote model.Quote
	if err := json.Unmarshal(rec.Body.Bytes(), &quote); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if quote.TotalAmount != 1200 {
		t.Fatalf("expected total 1200 got %v", quote.TotalAmount)
	}

	rec = doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/quotes/%d/send", quote.ID), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("send: expected 200 got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/quotes/%d/pdf", quote.ID), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("pdf: expected 200 got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("expected pdf content type got %q", ct)
	}
}

func TestCreateTaskUnderProject(t *testing.T) {
	router, database := setupRouter(t, t.Name())

	client := model.Client{CompanyName: "Umbrella", ContactName: "Alex", Email: "alex@umbrella.test"}
	if err := database.Create(&client).Error; err != nil {
		t.Fatalf("seed client: %v", err)
	}
	project := model.Project{ClientID: client.ID, Name: "Portal", Status: model.ProjectStatusActive}
	if err := database.Create(&project).Error; err != nil {
		t.Fatalf("seed project: %v", err)
	}

	rec := doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/projects/%d/tasks", project.ID), map[string]interface{}{
		"title":      "Wire auth pages",
		"created_by": 1,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d body=%s", rec.Code, rec.Body.String())
	}
	var task model.Task
	if err := json.Unmarshal(rec.Body.Bytes(), &task); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if task.ProjectID != project.ID {
		t.Fatalf("expected task bound to project %d got %d", project.ID, task.ProjectID)
	}

	rec = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/projects/%d/tasks/kanban", project.ID), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("kanban: expected 200 got %d", rec.Code)
	}
}

func TestAnalyticsEndpoints(t *testing.T) {
	router, _ := setupRouter(t, t.Name())

	for _, path := range []string{
		"/api/analytics/dashboard",
		"/api/analytics/revenue",
		"/api/analytics/pipeline",
	} {
		rec := doJSON(t, router, http.MethodGet, path, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200 got %d", path, rec.Code)
		}
	}

	rec := doJSON(t, router, http.MethodGet, "/api/analytics/export", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("export: expected 200 got %d", rec.Code)
	}
	if rec.Header().Get("Content-Disposition") == "" {
		t.Fatalf("expected attachment disposition")
	}
}

func TestUnknownAPIPathReturnsJSON404(t *testing.T) {
	router, _ := setupRouter(t, t.Name())

	rec := doJSON(t, router, http.MethodGet, "/api/nope", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}
}
