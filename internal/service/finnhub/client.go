package finnhub

import (
	"context"
	"time"

	"StockScope/internal/domain/models"
	drepo "StockScope/internal/domain/repository"
	xhttp "StockScope/pkg/http"
	xlogger "StockScope/pkg/logger"
)

// Pacing for outbound REST calls. The free tier allows 60 calls/min; a burst
// covers one full explore refresh (quote+profile per universe symbol).
const (
	paceKey       = "finnhub_rest"
	paceCapacity  = 30
	paceRefillSec = 1.0
)

// Client implements repository.QuoteProvider against the Finnhub REST API.
type Client struct {
	apiKey        string
	baseURL       string
	quoteTimeout  time.Duration
	searchTimeout time.Duration
	searchLimit   int
	newsLimit     int

	http    *xhttp.Client
	pacer   drepo.Pacer
	metrics drepo.Metrics
	logger  *xlogger.Logger
}

// NewClient creates a new Finnhub REST client.
func NewClient(apiKey, baseURL string, quoteTimeout, searchTimeout time.Duration, searchLimit, newsLimit int, pacer drepo.Pacer, metrics drepo.Metrics, logger *xlogger.Logger) *Client {
	return &Client{
		apiKey:        apiKey,
		baseURL:       baseURL,
		quoteTimeout:  quoteTimeout,
		searchTimeout: searchTimeout,
		searchLimit:   searchLimit,
		newsLimit:     newsLimit,
		http:          xhttp.NewClient(xhttp.WithTimeout(searchTimeout)),
		pacer:         pacer,
		metrics:       metrics,
		logger:        logger,
	}
}

type fhQuote struct {
	C  float64 `json:"c"`  // current price
	PC float64 `json:"pc"` // previous close
	H  float64 `json:"h"`
	L  float64 `json:"l"`
	O  float64 `json:"o"`
}

type fhProfile struct {
	Name      string  `json:"name"`
	Logo      string  `json:"logo"`
	Country   string  `json:"country"`
	Currency  string  `json:"currency"`
	Exchange  string  `json:"exchange"`
	MarketCap float64 `json:"marketCapitalization"`
	Industry  string  `json:"finnhubIndustry"`
}

type fhSearchResponse struct {
	Count  int `json:"count"`
	Result []struct {
		Symbol      string `json:"symbol"`
		Description string `json:"description"`
		Type        string `json:"type"`
	} `json:"result"`
}

type fhNewsItem struct {
	Headline string `json:"headline"`
	Source   string `json:"source"`
	URL      string `json:"url"`
	Datetime int64  `json:"datetime"`
}

// Quote fetches the current quote for symbol. Any failure, a non-positive
// price, or a zero previous close yields nil; the caller treats nil as
// "discard this symbol".
func (c *Client) Quote(ctx context.Context, symbol string) *models.Quote {
	var raw fhQuote
	if err := c.get(ctx, "/quote", map[string][]string{"symbol": {symbol}}, c.quoteTimeout, &raw); err != nil {
		c.metrics.RecordFetch("quote", "error")
		c.logger.Warn("quote fetch failed", xlogger.String("symbol", symbol), xlogger.Error(err))
		return nil
	}
	if raw.C <= 0 || raw.PC == 0 {
		c.metrics.RecordFetch("quote", "invalid")
		return nil
	}
	c.metrics.RecordFetch("quote", "ok")

	change := raw.C - raw.PC
	return &models.Quote{
		Symbol:        symbol,
		Price:         raw.C,
		PreviousClose: raw.PC,
		Change:        change,
		ChangePercent: change / raw.PC * 100,
		High:          orDefault(raw.H, raw.C),
		Low:           orDefault(raw.L, raw.C),
		Open:          orDefault(raw.O, raw.C),
	}
}

// Profile fetches company metadata for symbol. Best-effort: nil on failure.
func (c *Client) Profile(ctx context.Context, symbol string) *models.Profile {
	var raw fhProfile
	if err := c.get(ctx, "/stock/profile2", map[string][]string{"symbol": {symbol}}, c.quoteTimeout, &raw); err != nil {
		c.metrics.RecordFetch("profile", "error")
		c.logger.Warn("profile fetch failed", xlogger.String("symbol", symbol), xlogger.Error(err))
		return nil
	}
	c.metrics.RecordFetch("profile", "ok")
	return &models.Profile{
		Name:      raw.Name,
		Logo:      raw.Logo,
		Country:   raw.Country,
		Currency:  raw.Currency,
		Exchange:  raw.Exchange,
		MarketCap: raw.MarketCap,
		Sector:    raw.Industry,
	}
}

// Search runs a free-text symbol search, capped at the configured limit.
// Unlike Quote/Profile the error is returned so the aggregator can fall back
// to a local substring search.
func (c *Client) Search(ctx context.Context, query string) ([]models.SearchResult, error) {
	var raw fhSearchResponse
	if err := c.get(ctx, "/search", map[string][]string{"q": {query}}, c.searchTimeout, &raw); err != nil {
		c.metrics.RecordFetch("search", "error")
		return nil, err
	}
	c.metrics.RecordFetch("search", "ok")

	results := make([]models.SearchResult, 0, c.searchLimit)
	for _, item := range raw.Result {
		if len(results) >= c.searchLimit {
			break
		}
		results = append(results, models.SearchResult{
			Symbol: item.Symbol,
			Name:   item.Description,
			Type:   item.Type,
		})
	}
	return results, nil
}

// CompanyNews fetches headlines from the trailing 7 days, capped at the
// configured limit.
func (c *Client) CompanyNews(ctx context.Context, symbol string) ([]models.NewsItem, error) {
	now := time.Now()
	params := map[string][]string{
		"symbol": {symbol},
		"from":   {now.AddDate(0, 0, -7).Format("2006-01-02")},
		"to":     {now.Format("2006-01-02")},
	}

	var raw []fhNewsItem
	if err := c.get(ctx, "/company-news", params, c.searchTimeout, &raw); err != nil {
		c.metrics.RecordFetch("news", "error")
		return nil, err
	}
	c.metrics.RecordFetch("news", "ok")

	items := make([]models.NewsItem, 0, c.newsLimit)
	for _, n := range raw {
		if len(items) >= c.newsLimit {
			break
		}
		items = append(items, models.NewsItem{
			Headline: n.Headline,
			Source:   n.Source,
			URL:      n.URL,
			Datetime: time.Unix(n.Datetime, 0),
		})
	}
	return items, nil
}

func (c *Client) get(ctx context.Context, path string, params map[string][]string, timeout time.Duration, dest interface{}) error {
	if err := c.pacer.Wait(ctx, paceKey, paceCapacity, paceRefillSec); err != nil {
		return err
	}
	params["token"] = []string{c.apiKey}
	return c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:      xhttp.MethodGet,
		URL:         c.baseURL + path,
		QueryParams: params,
		Timeout:     timeout,
	}, dest)
}

func orDefault(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}
