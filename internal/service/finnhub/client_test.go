package finnhub

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	xlogger "StockScope/pkg/logger"
)

type noopPacer struct{}

func (noopPacer) Allow(string, float64, float64) bool { return true }
func (noopPacer) Wait(context.Context, string, float64, float64) error {
	return nil
}

type noopMetrics struct{}

func (noopMetrics) RecordFetch(string, string)     {}
func (noopMetrics) RecordCache(string)             {}
func (noopMetrics) RecordLastPrice(string, float64) {}
func (noopMetrics) RecordLatency(string, float64)  {}

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	logger, err := xlogger.New(&xlogger.Config{Level: "error", Format: "console", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return NewClient("test-key", srv.URL, time.Second, time.Second, 15, 5, noopPacer{}, noopMetrics{}, logger)
}

func TestQuoteDerivedFields(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/quote" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("token") != "test-key" {
			t.Errorf("missing api token")
		}
		json.NewEncoder(w).Encode(fhQuote{C: 150, PC: 145, H: 151, L: 149, O: 150})
	})

	q := c.Quote(context.Background(), "AAPL")
	if q == nil {
		t.Fatal("expected quote")
	}
	if q.Symbol != "AAPL" || q.Price != 150 || q.PreviousClose != 145 {
		t.Fatalf("unexpected quote: %+v", q)
	}
	if math.Abs(q.Change-5) > 1e-9 {
		t.Fatalf("change = %v, want 5", q.Change)
	}
	if math.Abs(q.ChangePercent-5.0/145*100) > 1e-9 {
		t.Fatalf("changePercent = %v", q.ChangePercent)
	}
}

func TestQuoteZeroFieldsFallBackToPrice(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(fhQuote{C: 150, PC: 145})
	})

	q := c.Quote(context.Background(), "AAPL")
	if q == nil {
		t.Fatal("expected quote")
	}
	if q.High != 150 || q.Low != 150 || q.Open != 150 {
		t.Fatalf("expected h/l/o to default to price, got %+v", q)
	}
}

func TestQuoteDiscardsInvalid(t *testing.T) {
	cases := []struct {
		name string
		body fhQuote
	}{
		{"zero price", fhQuote{C: 0, PC: 145}},
		{"negative price", fhQuote{C: -1, PC: 145}},
		{"zero previous close", fhQuote{C: 150, PC: 0}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(tc.body)
			})
			if q := c.Quote(context.Background(), "AAPL"); q != nil {
				t.Fatalf("expected nil, got %+v", q)
			}
		})
	}
}

func TestQuoteUpstreamErrorReturnsNil(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})
	if q := c.Quote(context.Background(), "AAPL"); q != nil {
		t.Fatalf("expected nil on 429, got %+v", q)
	}
}

func TestProfileFailureReturnsNil(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	if p := c.Profile(context.Background(), "AAPL"); p != nil {
		t.Fatalf("expected nil on 500, got %+v", p)
	}
}

func TestProfileMapsSector(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(fhProfile{Name: "Apple Inc", Industry: "Technology", Currency: "USD"})
	})

	p := c.Profile(context.Background(), "AAPL")
	if p == nil {
		t.Fatal("expected profile")
	}
	if p.Name != "Apple Inc" || p.Sector != "Technology" || p.Currency != "USD" {
		t.Fatalf("unexpected profile: %+v", p)
	}
}

func TestSearchCapped(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		var resp fhSearchResponse
		resp.Count = 30
		for i := 0; i < 30; i++ {
			resp.Result = append(resp.Result, struct {
				Symbol      string `json:"symbol"`
				Description string `json:"description"`
				Type        string `json:"type"`
			}{Symbol: "S", Description: "d", Type: "Common Stock"})
		}
		json.NewEncoder(w).Encode(resp)
	})

	results, err := c.Search(context.Background(), "apple")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 15 {
		t.Fatalf("expected 15 results, got %d", len(results))
	}
}

func TestSearchErrorPropagates(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	if _, err := c.Search(context.Background(), "apple"); err == nil {
		t.Fatal("expected error")
	}
}

func TestCompanyNewsCappedAndWindowed(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		from := r.URL.Query().Get("from")
		to := r.URL.Query().Get("to")
		if from == "" || to == "" {
			t.Errorf("expected from/to params, got %q %q", from, to)
		}
		items := make([]fhNewsItem, 10)
		for i := range items {
			items[i] = fhNewsItem{Headline: "h", Source: "s", URL: "u", Datetime: time.Now().Unix()}
		}
		json.NewEncoder(w).Encode(items)
	})

	news, err := c.CompanyNews(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("news: %v", err)
	}
	if len(news) != 5 {
		t.Fatalf("expected 5 items, got %d", len(news))
	}
}
