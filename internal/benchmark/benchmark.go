package benchmark

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"

	"trading-journal-analytics/internal/logger"
	"trading-journal-analytics/internal/types"
)

// Quote is one closing price for a benchmark index.
type Quote struct {
	Date  time.Time `json:"date"`
	Close float64   `json:"close"`
}

// QuoteSource describes where and how to scrape historical closes for an
// index.
type QuoteSource struct {
	Name      string
	BaseURL   string
	QuotePath string // e.g. "/quote/{symbol}/history"
	Selectors QuoteSelectors
	RateLimit time.Duration
}

// QuoteSelectors are the CSS selectors for one row of the history table.
type QuoteSelectors struct {
	Row        string
	Date       string
	Close      string
	DateLayout string
}

// Scraper pulls benchmark index closes from public quote pages.
type Scraper struct {
	sources []QuoteSource
	timeout time.Duration
}

// NewScraper creates a scraper with the default Indian index sources.
func NewScraper(timeout time.Duration) *Scraper {
	return &Scraper{
		sources: defaultSources(),
		timeout: timeout,
	}
}

// NewScraperWithSources creates a scraper for specific sources, used by
// tests and custom configs.
func NewScraperWithSources(timeout time.Duration, sources ...QuoteSource) *Scraper {
	return &Scraper{sources: sources, timeout: timeout}
}

func defaultSources() []QuoteSource {
	return []QuoteSource{
		{
			Name:      "MoneyControl",
			BaseURL:   "https://www.moneycontrol.com",
			QuotePath: "/indian-indices/{symbol}-history.html",
			Selectors: QuoteSelectors{
				Row:        "table.mctable1 tbody tr",
				Date:       "td:nth-child(1)",
				Close:      "td:nth-child(5)",
				DateLayout: "02-01-2006",
			},
			RateLimit: 2 * time.Second,
		},
		{
			Name:      "EconomicTimes",
			BaseURL:   "https://economictimes.indiatimes.com",
			QuotePath: "/indices/{symbol}",
			Selectors: QuoteSelectors{
				Row:        "table.historicalData tr",
				Date:       "td:nth-child(1)",
				Close:      "td:nth-child(2)",
				DateLayout: "02 Jan 2006",
			},
			RateLimit: 2 * time.Second,
		},
	}
}

// FetchQuotes scrapes closes for a symbol, trying each source until one
// yields rows.
func (s *Scraper) FetchQuotes(ctx context.Context, symbol string, maxQuotes int) ([]Quote, error) {
	logger.Info(ctx, "Fetching benchmark quotes", "symbol", symbol, "sources", len(s.sources))

	var lastErr error
	for _, source := range s.sources {
		quotes, err := s.scrapeSource(ctx, source, symbol, maxQuotes)
		if err != nil {
			logger.ErrorWithErr(ctx, "Failed to scrape quote source", err, "source", source.Name, "symbol", symbol)
			lastErr = err
			time.Sleep(source.RateLimit)
			continue
		}
		if len(quotes) > 0 {
			logger.Info(ctx, "Benchmark quotes fetched", "symbol", symbol, "source", source.Name, "quotes", len(quotes))
			return quotes, nil
		}
		time.Sleep(source.RateLimit)
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return nil, fmt.Errorf("no quotes found for %s", symbol)
}

func (s *Scraper) scrapeSource(ctx context.Context, source QuoteSource, symbol string, maxQuotes int) ([]Quote, error) {
	quotes := []Quote{}

	c := colly.NewCollector(
		colly.AllowedDomains(getDomain(source.BaseURL)),
		colly.MaxDepth(1),
		colly.Async(false),
	)
	c.SetRequestTimeout(s.timeout)

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	})

	c.OnHTML(source.Selectors.Row, func(e *colly.HTMLElement) {
		if len(quotes) >= maxQuotes {
			return
		}
		dateText := strings.TrimSpace(e.ChildText(source.Selectors.Date))
		closeText := strings.TrimSpace(e.ChildText(source.Selectors.Close))
		if dateText == "" || closeText == "" {
			return
		}
		date, err := time.Parse(source.Selectors.DateLayout, dateText)
		if err != nil {
			return
		}
		closePrice, err := strconv.ParseFloat(strings.ReplaceAll(closeText, ",", ""), 64)
		if err != nil {
			return
		}
		quotes = append(quotes, Quote{Date: date, Close: closePrice})
	})

	c.OnError(func(r *colly.Response, err error) {
		logger.ErrorWithErr(ctx, "Quote scraping error", err, "source", source.Name, "url", r.Request.URL.String())
	})

	quoteURL := source.BaseURL + strings.ReplaceAll(source.QuotePath, "{symbol}", strings.ToLower(symbol))
	if err := c.Visit(quoteURL); err != nil {
		return nil, fmt.Errorf("failed to visit %s: %w", quoteURL, err)
	}
	c.Wait()

	sort.SliceStable(quotes, func(i, j int) bool { return quotes[i].Date.Before(quotes[j].Date) })
	return quotes, nil
}

func getDomain(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil {
		return ""
	}
	return u.Hostname()
}

// Comparison lines the trader's cumulative return up against the index
// over the overlapping dates.
type Comparison struct {
	Symbol          string    `json:"symbol"`
	From            time.Time `json:"from"`
	To              time.Time `json:"to"`
	TraderReturnPct float64   `json:"trader_return_pct"`
	IndexReturnPct  float64   `json:"index_return_pct"`
	ExcessReturnPct float64   `json:"excess_return_pct"`
	Days            int       `json:"days"`
}

// Compare computes trader-vs-index returns over the period the equity
// curve and quotes both cover. initialBalance anchors the trader's return.
func Compare(curve []types.EquityPoint, quotes []Quote, symbol string, initialBalance float64) (*Comparison, error) {
	if len(curve) == 0 || len(quotes) == 0 {
		return nil, fmt.Errorf("nothing to compare: %d curve points, %d quotes", len(curve), len(quotes))
	}
	if initialBalance <= 0 {
		return nil, fmt.Errorf("initial balance must be positive, got %.2f", initialBalance)
	}

	from := curve[0].Date
	to := curve[len(curve)-1].Date

	var startQuote, endQuote *Quote
	for i := range quotes {
		q := &quotes[i]
		if q.Date.Before(from) || q.Date.After(to) {
			continue
		}
		if startQuote == nil {
			startQuote = q
		}
		endQuote = q
	}
	if startQuote == nil || endQuote == nil || startQuote == endQuote {
		return nil, fmt.Errorf("quotes do not overlap the curve %s..%s", from.Format("2006-01-02"), to.Format("2006-01-02"))
	}

	traderReturn := curve[len(curve)-1].CumulativePnl / initialBalance * 100
	indexReturn := (endQuote.Close - startQuote.Close) / startQuote.Close * 100

	return &Comparison{
		Symbol:          symbol,
		From:            startQuote.Date,
		To:              endQuote.Date,
		TraderReturnPct: traderReturn,
		IndexReturnPct:  indexReturn,
		ExcessReturnPct: traderReturn - indexReturn,
		Days:            int(endQuote.Date.Sub(startQuote.Date).Hours()/24) + 1,
	}, nil
}
