package usecase

import (
	"context"
	"testing"
	"time"

	"StockScope/internal/domain/models"
)

func TestHydrateSkipsFailedSymbols(t *testing.T) {
	kv := newFakeKV()
	w := NewWatchlistStore(kv, testLogger())
	ctx := context.Background()
	w.Add(ctx, "AAPL", "Tech")
	w.Add(ctx, "GONE", "Tech")

	provider := &fakeProvider{
		quotes:   map[string]*models.Quote{"AAPL": quoteOf("AAPL", 150, 145)},
		profiles: map[string]*models.Profile{"AAPL": {Name: "Apple Inc"}},
	}
	h := NewWatchlistHydrator(w, provider, fakePacer{}, testLogger(), time.Millisecond)

	entries, err := h.Hydrate(ctx)
	if err != nil {
		t.Fatalf("hydrate: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	entry := entries[0]
	if len(entry.Symbols) != 2 {
		t.Fatalf("failed symbol must stay listed, got %v", entry.Symbols)
	}
	if _, ok := entry.Quotes["AAPL"]; !ok {
		t.Fatalf("expected quote for AAPL")
	}
	if _, ok := entry.Quotes["GONE"]; ok {
		t.Fatalf("did not expect quote for GONE")
	}
	if entry.Quotes["AAPL"].Name != "Apple Inc" {
		t.Fatalf("expected profile merge, got %+v", entry.Quotes["AAPL"])
	}
}

func TestHydrateEmptyWatchlists(t *testing.T) {
	kv := newFakeKV()
	w := NewWatchlistStore(kv, testLogger())
	provider := &fakeProvider{quotes: map[string]*models.Quote{}, profiles: map[string]*models.Profile{}}
	h := NewWatchlistHydrator(w, provider, fakePacer{}, testLogger(), time.Millisecond)

	entries, err := h.Hydrate(context.Background())
	if err != nil {
		t.Fatalf("hydrate: %v", err)
	}
	if entries != nil {
		t.Fatalf("expected nil entries, got %v", entries)
	}
	if provider.callCount() != 0 {
		t.Fatalf("expected zero provider calls for empty watchlists")
	}
}
