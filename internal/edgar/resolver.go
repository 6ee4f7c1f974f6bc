package edgar

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
)

// CIK is the canonical issuer identifier: a zero-padded 10-digit string.
type CIK string

// PadCIK left-pads a numeric identifier to the canonical 10 digits.
func PadCIK(s string) CIK {
	if len(s) >= 10 {
		return CIK(s)
	}
	return CIK(strings.Repeat("0", 10-len(s)) + s)
}

// companyRecord is one entry of company_tickers.json:
//
//	{"0": {"cik_str": 320193, "ticker": "AAPL", "title": "Apple Inc."}, ...}
type companyRecord struct {
	CIK    json.Number `json:"cik_str"`
	Ticker string      `json:"ticker"`
}

// ResolveTickers maps ticker symbols (or raw numeric identifiers) to CIKs.
// A symbol that is purely numeric with at most 10 digits is taken as a CIK
// directly. Anything else is upper-cased and looked up in the SEC ticker
// directory, which is fetched at most once per call. Symbols that resolve to
// nothing are dropped with a warning; only a directory fetch failure fails
// the whole resolution.
func (c *Client) ResolveTickers(ctx context.Context, symbols []string) (map[string]CIK, error) {
	resolved := make(map[string]CIK, len(symbols))
	var byTicker map[string]CIK

	for _, sym := range symbols {
		s := strings.TrimSpace(sym)
		if s == "" {
			continue
		}
		if isNumeric(s) && len(s) <= 10 {
			resolved[sym] = PadCIK(s)
			continue
		}

		if byTicker == nil {
			var err error
			byTicker, err = c.tickerDirectory(ctx)
			if err != nil {
				return nil, fmt.Errorf("fetching ticker directory: %w", err)
			}
		}

		cik, ok := byTicker[strings.ToUpper(s)]
		if !ok {
			slog.Warn("symbol is neither a known ticker nor a CIK, dropping", "symbol", sym)
			continue
		}
		resolved[sym] = cik
	}
	return resolved, nil
}

func (c *Client) tickerDirectory(ctx context.Context) (map[string]CIK, error) {
	body, err := c.Get(ctx, c.wwwBase+"/files/company_tickers.json")
	if err != nil {
		return nil, err
	}
	var records map[string]companyRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("decoding ticker directory: %w", err)
	}
	byTicker := make(map[string]CIK, len(records))
	for _, rec := range records {
		if rec.Ticker == "" {
			continue
		}
		byTicker[strings.ToUpper(rec.Ticker)] = PadCIK(rec.CIK.String())
	}
	return byTicker, nil
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
