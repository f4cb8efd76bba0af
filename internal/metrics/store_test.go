package metrics

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"nutriplan/internal/database"
	"nutriplan/internal/shared"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewStore(db.SQL)
}

func TestStoreTimestampsParseableBySQLite(t *testing.T) {
	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	store := NewStore(db.SQL)

	if err := store.Record(ExecutionMetric{AgentName: "PlanGenerator", Source: "oracle"}); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	// The daily rollup groups on date(timestamp); a stored form SQLite
	// cannot parse makes it return NULL for every row.
	var day sql.NullString
	if err := db.SQL.QueryRow(`SELECT date(timestamp) FROM execution_metrics`).Scan(&day); err != nil {
		t.Fatalf("failed to read back timestamp: %v", err)
	}
	if !day.Valid {
		t.Fatal("date(timestamp) returned NULL for a freshly stored metric")
	}
	if want := time.Now().UTC().Format("2006-01-02"); day.String != want {
		t.Errorf("date(timestamp) = %q, want %q", day.String, want)
	}
}

func TestStoreRecordAndDailyUsage(t *testing.T) {
	store := newTestStore(t)

	metrics := []ExecutionMetric{
		{AgentName: "PlanGenerator", Model: "test-model", Source: "oracle", PromptTokens: 120, CompletionTokens: 800, LatencyMS: 1500},
		{AgentName: "MealRegenerator", Model: "test-model", Source: "oracle", PromptTokens: 40, CompletionTokens: 200, LatencyMS: 600},
		{AgentName: "PlanGenerator", Source: "fallback", LatencyMS: 2},
	}
	for _, m := range metrics {
		if err := store.Record(m); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}

	usage, err := store.GetDailyUsage(7)
	if err != nil {
		t.Fatalf("GetDailyUsage() error = %v", err)
	}
	if len(usage) != 1 {
		t.Fatalf("expected usage for 1 day, got %d", len(usage))
	}

	day := usage[0]
	if day.TotalCalls != 3 {
		t.Errorf("TotalCalls = %d, want 3", day.TotalCalls)
	}
	if day.TotalPrompt != 160 {
		t.Errorf("TotalPrompt = %d, want 160", day.TotalPrompt)
	}
	if day.TotalCompletion != 1000 {
		t.Errorf("TotalCompletion = %d, want 1000", day.TotalCompletion)
	}
	if day.FallbackCalls != 1 {
		t.Errorf("FallbackCalls = %d, want 1", day.FallbackCalls)
	}
}

func TestStoreRecordMeta(t *testing.T) {
	store := newTestStore(t)

	meta := shared.AgentMeta{
		AgentName: "PlanGenerator",
		Usage:     shared.TokenUsage{PromptTokens: 100, CompletionTokens: 500, TotalTokens: 600, Model: "test-model"},
		Latency:   1200 * time.Millisecond,
		Source:    "oracle",
	}
	if err := store.RecordMeta(meta); err != nil {
		t.Fatalf("RecordMeta() error = %v", err)
	}

	usage, err := store.GetDailyUsage(1)
	if err != nil {
		t.Fatalf("GetDailyUsage() error = %v", err)
	}
	if len(usage) != 1 || usage[0].TotalPrompt != 100 || usage[0].TotalCompletion != 500 {
		t.Errorf("unexpected usage %+v", usage)
	}
}

func TestStoreCleanup(t *testing.T) {
	store := newTestStore(t)

	old := ExecutionMetric{
		AgentName: "PlanGenerator",
		Source:    "oracle",
		Timestamp: time.Now().UTC().AddDate(0, 0, -45),
	}
	recent := ExecutionMetric{
		AgentName: "PlanGenerator",
		Source:    "oracle",
		Timestamp: time.Now().UTC(),
	}
	if err := store.Record(old); err != nil {
		t.Fatal(err)
	}
	if err := store.Record(recent); err != nil {
		t.Fatal(err)
	}

	removed, err := store.Cleanup(30)
	if err != nil {
		t.Fatalf("Cleanup() error = %v", err)
	}
	if removed != 1 {
		t.Errorf("Cleanup() removed %d rows, want 1", removed)
	}

	usage, err := store.GetDailyUsage(60)
	if err != nil {
		t.Fatal(err)
	}
	if len(usage) != 1 {
		t.Errorf("expected only the recent metric to survive, got %+v", usage)
	}
}
