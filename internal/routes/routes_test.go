package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/valeriaulyamaeva/neofin/internal/bank"
	"github.com/valeriaulyamaeva/neofin/internal/handlers"
	"github.com/valeriaulyamaeva/neofin/internal/importer"
	"github.com/valeriaulyamaeva/neofin/internal/jobs"
	"github.com/valeriaulyamaeva/neofin/internal/jobs/inmemory"
	"github.com/valeriaulyamaeva/neofin/internal/realtime"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func request(r http.Handler, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestUserScopedRoutesRequireUser(t *testing.T) {
	r := SetupRouter(Deps{Log: zerolog.Nop()})

	for _, path := range []string{"/transactions", "/budgets/status", "/insights/trend", "/imports", "/dashboard"} {
		rr := request(r, http.MethodGet, path, "", nil)
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("%s: code = %d, want 401", path, rr.Code)
		}
	}
}

func TestHealthIsPublic(t *testing.T) {
	registry := realtime.NewRegistry(zerolog.Nop())
	r := SetupRouter(Deps{
		Log:     zerolog.Nop(),
		Monitor: handlers.Monitor{Registry: registry},
	})

	rr := request(r, http.MethodGet, "/health", "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("code = %d, body = %s", rr.Code, rr.Body.String())
	}
	if rr.Header().Get("X-Request-ID") == "" {
		t.Error("request id header missing")
	}
}

func TestImportRoundTrip(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := inmemory.NewStore()
	queue := inmemory.NewQueue(10, 1, store, zerolog.Nop())
	queue.Register(jobs.JobTypeImportStatement, func(ctx context.Context, job *jobs.Job) (any, error) {
		req := job.Payload.(importer.Request)
		return &importer.Result{Total: len(req.Lines), Imported: len(req.Lines)}, nil
	})
	if err := queue.Start(ctx); err != nil {
		t.Fatalf("start queue: %v", err)
	}
	defer queue.Stop(context.Background())

	r := SetupRouter(Deps{Log: zerolog.Nop(), Jobs: queue, JobStore: store})
	user := map[string]string{"X-User-ID": "9"}

	body := `{"account_id": 1, "lines": [
		{"external_id": "A", "date": "2026-10-01T00:00:00Z", "amount": "-3.20", "description": "Coffee"},
		{"external_id": "B", "date": "2026-10-02T00:00:00Z", "amount": "1500", "description": "Salary"}
	]}`
	rr := request(r, http.MethodPost, "/imports", body, user)
	if rr.Code != http.StatusAccepted {
		t.Fatalf("code = %d, body = %s", rr.Code, rr.Body.String())
	}
	location := rr.Header().Get("Location")

	deadline := time.Now().Add(2 * time.Second)
	for {
		rr = request(r, http.MethodGet, location, "", user)
		if rr.Code != http.StatusOK {
			t.Fatalf("status code = %d", rr.Code)
		}
		var job struct {
			Status jobs.JobStatus  `json:"status"`
			Result importer.Result `json:"result"`
		}
		if err := json.Unmarshal(rr.Body.Bytes(), &job); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if job.Status == jobs.JobStatusCompleted {
			if job.Result.Imported != 2 {
				t.Errorf("imported = %d, want 2", job.Result.Imported)
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("job not completed, last status %q", job.Status)
		}
		time.Sleep(10 * time.Millisecond)
	}

	// Another user cannot see the job.
	rr = request(r, http.MethodGet, location, "", map[string]string{"X-User-ID": "10"})
	if rr.Code != http.StatusNotFound {
		t.Errorf("foreign user: code = %d, want 404", rr.Code)
	}
}

func TestBankProxyMounted(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"path":"` + r.URL.Path + `"}`))
	}))
	defer upstream.Close()

	proxy := bank.NewProxy(bank.Config{BaseURL: upstream.URL, Timeout: time.Second}, zerolog.Nop())
	r := SetupRouter(Deps{Log: zerolog.Nop(), Bank: proxy})

	rr := request(r, http.MethodPost, "/bank/balance", `{"token":"x"}`, nil)
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), `"/balance"`) {
		t.Errorf("code = %d, body = %s", rr.Code, rr.Body.String())
	}
}
