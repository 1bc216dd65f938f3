package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"leadqual_backend/internal/results/repository"
	"leadqual_backend/internal/results/service"
	"leadqual_backend/platform/logger"
	"leadqual_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type staticRepo struct{ rows []repository.Row }

func (s staticRepo) List(context.Context, repository.Filter) ([]repository.Row, error) {
	return s.rows, nil
}

func newEngine() *gin.Engine {
	intent, score, reasoning := "Low", 30, "Rule: role 10. AI: No budget."
	repo := staticRepo{rows: []repository.Row{
		{Name: "Grace", Role: "Engineer", Company: "Navy", Industry: "Defense", Location: "Arlington",
			Intent: &intent, Score: &score, Reasoning: &reasoning},
		{Name: "Linus", Role: "Engineer", Company: "", Industry: "SaaS", Location: "Portland"},
	}}
	h := New(service.New(repo, nil, "", 0, logger.Nop()), validator.New())
	engine := gin.New()
	h.RegisterRoutes(engine.Group("/results"))
	return engine
}

func get(engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestListJSON(t *testing.T) {
	rec := get(newEngine(), http.MethodGet, "/results?batchId="+uuid.NewString())
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"intent":"Unknown","score":null,"reasoning":null`) {
		t.Fatalf("unscored lead not rendered with nulls: %s", body)
	}
	if !strings.Contains(body, `"intent":"Low","score":30`) {
		t.Fatalf("scored lead missing: %s", body)
	}
}

func TestListRejectsMalformedFilter(t *testing.T) {
	rec := get(newEngine(), http.MethodGet, "/results?offerId=abc")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCSVAttachment(t *testing.T) {
	rec := get(newEngine(), http.MethodGet, "/results/csv")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/csv" {
		t.Fatalf("unexpected content type %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); cd != `attachment; filename="results.csv"` {
		t.Fatalf("unexpected disposition %q", cd)
	}
	lines := strings.Split(rec.Body.String(), "\n")
	if len(lines) != 3 || lines[0] != "name,role,company,industry,location,intent,score,reasoning" {
		t.Fatalf("unexpected csv %q", rec.Body.String())
	}
	if lines[2] != `"Linus","Engineer","","SaaS","Portland","Unknown","",""` {
		t.Fatalf("unexpected row %q", lines[2])
	}
}

func TestExportWithoutStorage(t *testing.T) {
	rec := get(newEngine(), http.MethodPost, "/results/exports")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}
