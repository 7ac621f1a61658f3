package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/joho/godotenv"

	"wanderplan/internal/ai"
	"wanderplan/internal/types"
)

func futurePrefs() types.Preferences {
	start := time.Now().UTC().AddDate(0, 1, 0)
	return types.Preferences{
		Destination: "Rome, Italy",
		Budget:      "1500",
		StartDate:   start.Format(types.DateLayout),
		EndDate:     start.AddDate(0, 0, 4).Format(types.DateLayout),
		Interests:   []string{"History", "Foodie"},
		Pace:        types.PaceModerate,
	}
}

// TestGeminiGeneratesValidItinerary calls the live model; it skips when GEMINI_API_KEY is not set.
func TestGeminiGeneratesValidItinerary(t *testing.T) {
	loadDotEnv(t)
	key := strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
	if key == "" {
		t.Skip("GEMINI_API_KEY not set; skipping live model test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	provider, err := ai.NewGeminiProvider(ctx, key, os.Getenv("WANDER_AI_MODEL"))
	if err != nil {
		t.Fatalf("NewGeminiProvider: %v", err)
	}
	defer provider.Close()

	prefs := futurePrefs()
	it, err := provider.Generate(ctx, prefs)
	if err != nil {
		t.Fatalf("Generate (%s): %v", ai.Classify(err), err)
	}
	if len(it.DailyPlan) == 0 || len(it.CostBreakdown) == 0 {
		t.Fatalf("incomplete itinerary: %+v", it)
	}
	t.Logf("[TEST LOG] %q: %d days, total %s (requested %d days)",
		it.TripTitle, len(it.DailyPlan), types.FormatUSD(it.TotalCost), prefs.Days())
}

// TestSessionFlowAgainstRunningAPI drives a deployed API; it skips when WANDER_API_BASE_URL is not set.
func TestSessionFlowAgainstRunningAPI(t *testing.T) {
	loadDotEnv(t)
	baseURL := strings.TrimRight(os.Getenv("WANDER_API_BASE_URL"), "/")
	if baseURL == "" {
		t.Skip("WANDER_API_BASE_URL not set; skipping end-to-end API test")
	}
	client := &http.Client{Timeout: 30 * time.Second}
	waitForAPIReady(t, client, baseURL)

	var sess struct {
		ID    string `json:"id"`
		State string `json:"state"`
	}
	status, body := call(t, client, http.MethodPost, baseURL+"/api/sessions", nil)
	if status != http.StatusCreated {
		t.Fatalf("create session: expected 201, got %d, body=%s", status, body)
	}
	if err := json.Unmarshal(body, &sess); err != nil {
		t.Fatalf("create session: %v, raw=%s", err, body)
	}

	status, body = call(t, client, http.MethodPost, baseURL+"/api/sessions/"+sess.ID+"/itinerary", futurePrefs())
	if status != http.StatusAccepted {
		t.Fatalf("submit: expected 202, got %d, body=%s", status, body)
	}

	var snap struct {
		State       string `json:"state"`
		Error       string `json:"error"`
		FailureKind string `json:"failureKind"`
		Itinerary   *struct {
			Days  []json.RawMessage `json:"days"`
			Costs []json.RawMessage `json:"costs"`
		} `json:"itinerary"`
	}
	deadline := time.Now().Add(120 * time.Second)
	for time.Now().Before(deadline) {
		_, body = call(t, client, http.MethodGet, baseURL+"/api/sessions/"+sess.ID, nil)
		if err := json.Unmarshal(body, &snap); err != nil {
			t.Fatalf("get session: %v, raw=%s", err, body)
		}
		if snap.State != "submitting" {
			break
		}
		time.Sleep(time.Second)
	}
	if snap.State != "success" {
		t.Fatalf("expected success, got %s (%s: %s)", snap.State, snap.FailureKind, snap.Error)
	}
	if snap.Itinerary == nil || len(snap.Itinerary.Days) == 0 || len(snap.Itinerary.Costs) == 0 {
		t.Fatalf("incomplete itinerary view: %s", body)
	}

	status, body = call(t, client, http.MethodGet, baseURL+"/api/sessions/"+sess.ID+"/itinerary.pdf", nil)
	if status != http.StatusOK || !bytes.HasPrefix(body, []byte("%PDF-")) {
		t.Fatalf("pdf: status %d", status)
	}

	status, _ = call(t, client, http.MethodPost, baseURL+"/api/sessions/"+sess.ID+"/reset", nil)
	if status != http.StatusOK {
		t.Fatalf("reset: expected 200, got %d", status)
	}
}

func call(t *testing.T, client *http.Client, method, url string, payload any) (int, []byte) {
	t.Helper()

	var reader io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}
	return resp.StatusCode, body
}

func waitForAPIReady(t *testing.T, client *http.Client, baseURL string) {
	t.Helper()

	deadline := time.Now().Add(20 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := client.Get(baseURL + "/health")
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(500 * time.Millisecond)
	}
	t.Fatalf("api not ready: GET %s/health did not return 200 in time", baseURL)
}

// loadDotEnv loads the nearest .env walking up from the test directory.
func loadDotEnv(t *testing.T) {
	t.Helper()

	dir, err := os.Getwd()
	if err != nil {
		return
	}
	for i := 0; i < 8; i++ {
		candidate := filepath.Join(dir, ".env")
		if _, err := os.Stat(candidate); err == nil {
			_ = godotenv.Load(candidate)
			return
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return
		}
		dir = parent
	}
}
