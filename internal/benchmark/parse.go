package benchmark

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// ParseQuoteTable extracts quotes from an already-fetched history page,
// for saved exports and tests. Rows with unparsable dates or prices are
// skipped.
func ParseQuoteTable(r io.Reader, sel QuoteSelectors) ([]Quote, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse quote page: %w", err)
	}

	var quotes []Quote
	doc.Find(sel.Row).Each(func(_ int, row *goquery.Selection) {
		dateText := strings.TrimSpace(row.Find(sel.Date).First().Text())
		closeText := strings.TrimSpace(row.Find(sel.Close).First().Text())
		if dateText == "" || closeText == "" {
			return
		}
		date, err := time.Parse(sel.DateLayout, dateText)
		if err != nil {
			return
		}
		closePrice, err := strconv.ParseFloat(strings.ReplaceAll(closeText, ",", ""), 64)
		if err != nil {
			return
		}
		quotes = append(quotes, Quote{Date: date, Close: closePrice})
	})

	sort.SliceStable(quotes, func(i, j int) bool { return quotes[i].Date.Before(quotes[j].Date) })
	return quotes, nil
}
