package usecase

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"StockScope/internal/domain/models"
	drepo "StockScope/internal/domain/repository"
	xlogger "StockScope/pkg/logger"
)

// WatchlistStorageKey is the durable storage key for the watchlist mapping.
const WatchlistStorageKey = "user_watchlists"

// WatchlistStore owns the named watchlists: an insertion-ordered mapping
// from list name to an ordered, duplicate-free symbol slice. Every mutation
// writes through to durable storage; persistence failures are logged and the
// in-memory mutation stands.
//
// Lists are never deleted, only emptied; empty lists are hidden from
// enumeration but keep their position in the name order, so re-adding a
// symbol revives the list where it was.
type WatchlistStore struct {
	mu    sync.RWMutex
	names []string            // insertion order of list names
	lists map[string][]string // name -> ordered symbols

	store  drepo.KeyValueStore
	logger *xlogger.Logger
}

// NewWatchlistStore creates an empty store. Call Load to hydrate it.
func NewWatchlistStore(store drepo.KeyValueStore, logger *xlogger.Logger) *WatchlistStore {
	return &WatchlistStore{
		lists:  make(map[string][]string),
		store:  store,
		logger: logger,
	}
}

// Load hydrates the mapping from durable storage. Absent or malformed data
// yields an empty mapping; Load never fails startup.
func (w *WatchlistStore) Load(ctx context.Context) {
	raw, ok, err := w.store.Get(ctx, WatchlistStorageKey)
	if err != nil {
		w.logger.Warn("watchlist load failed", xlogger.Error(err))
		return
	}
	if !ok {
		return
	}

	var persisted []models.Watchlist
	if err := json.Unmarshal([]byte(raw), &persisted); err != nil {
		w.logger.Warn("watchlist data malformed, starting empty", xlogger.Error(err))
		return
	}

	w.mu.Lock()
	w.names = w.names[:0]
	w.lists = make(map[string][]string, len(persisted))
	for _, wl := range persisted {
		if wl.Name == "" {
			continue
		}
		if _, exists := w.lists[wl.Name]; exists {
			continue
		}
		w.names = append(w.names, wl.Name)
		w.lists[wl.Name] = dedupe(wl.Symbols)
	}
	w.mu.Unlock()

	w.logger.Info("watchlists loaded", xlogger.Int("lists", len(persisted)))
}

// Add appends symbol to listName, creating the list if needed. Re-adding a
// symbol already in the list is a no-op.
func (w *WatchlistStore) Add(ctx context.Context, symbol, listName string) {
	listName = strings.TrimSpace(listName)
	if symbol == "" || listName == "" {
		return
	}

	w.mu.Lock()
	list, exists := w.lists[listName]
	if !exists {
		w.names = append(w.names, listName)
	}
	mutated := !exists
	if !contains(list, symbol) {
		w.lists[listName] = append(list, symbol)
		mutated = true
	}
	w.mu.Unlock()

	if mutated {
		w.persist(ctx)
	}
}

// Remove deletes symbol from every list it appears in. Emptied lists are
// retained but hidden from enumeration.
func (w *WatchlistStore) Remove(ctx context.Context, symbol string) {
	w.mu.Lock()
	mutated := false
	for name, list := range w.lists {
		filtered := list[:0]
		for _, s := range list {
			if s != symbol {
				filtered = append(filtered, s)
			}
		}
		if len(filtered) != len(list) {
			w.lists[name] = filtered
			mutated = true
		}
	}
	w.mu.Unlock()

	if mutated {
		w.persist(ctx)
	}
}

// Contains reports whether symbol appears in at least one list.
func (w *WatchlistStore) Contains(symbol string) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, list := range w.lists {
		if contains(list, symbol) {
			return true
		}
	}
	return false
}

// ListFor returns the first list, in insertion order, containing symbol.
func (w *WatchlistStore) ListFor(symbol string) (string, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, name := range w.names {
		if contains(w.lists[name], symbol) {
			return name, true
		}
	}
	return "", false
}

// Lists returns a copy of all non-empty lists in insertion order.
func (w *WatchlistStore) Lists() []models.Watchlist {
	w.mu.RLock()
	defer w.mu.RUnlock()

	out := make([]models.Watchlist, 0, len(w.names))
	for _, name := range w.names {
		list := w.lists[name]
		if len(list) == 0 {
			continue
		}
		out = append(out, models.Watchlist{
			Name:    name,
			Symbols: append([]string(nil), list...),
		})
	}
	return out
}

// Symbols returns the deduplicated union of all watched symbols, preserving
// list and in-list order.
func (w *WatchlistStore) Symbols() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()

	seen := make(map[string]struct{})
	var out []string
	for _, name := range w.names {
		for _, s := range w.lists[name] {
			if _, ok := seen[s]; ok {
				continue
			}
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	return out
}

// persist writes the full mapping through to durable storage. All lists are
// serialized, including empty ones, so list positions survive restarts.
func (w *WatchlistStore) persist(ctx context.Context) {
	w.mu.RLock()
	persisted := make([]models.Watchlist, 0, len(w.names))
	for _, name := range w.names {
		persisted = append(persisted, models.Watchlist{
			Name:    name,
			Symbols: append([]string(nil), w.lists[name]...),
		})
	}
	w.mu.RUnlock()

	b, err := json.Marshal(persisted)
	if err != nil {
		w.logger.Error("watchlist marshal failed", xlogger.Error(err))
		return
	}
	if err := w.store.Set(ctx, WatchlistStorageKey, string(b)); err != nil {
		w.logger.Warn("watchlist persist failed", xlogger.Error(err))
	}
}

func contains(list []string, symbol string) bool {
	for _, s := range list {
		if s == symbol {
			return true
		}
	}
	return false
}

func dedupe(list []string) []string {
	seen := make(map[string]struct{}, len(list))
	out := make([]string, 0, len(list))
	for _, s := range list {
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
