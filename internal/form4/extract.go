package form4

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ErrMissingAcceptanceTime means the submission header carried no
// acceptance datetime. The whole filing fails extraction: without it no leg
// has a filing date.
var ErrMissingAcceptanceTime = errors.New("filing has no acceptance datetime")

var acceptanceRe = regexp.MustCompile(`<ACCEPTANCE-DATETIME>(\d{14})`)

const acceptanceLayout = "20060102150405"

// Extract parses one raw Form 4 submission into its filing-level metadata
// and zero or more trade legs. A filing with no non-derivative transaction
// blocks is valid and yields an empty leg list. A block that cannot be
// parsed is logged and skipped without aborting the rest of the filing.
func Extract(raw []byte, accession string) (Filing, []TradeLeg, error) {
	doc, err := parseOwnershipDocument(raw)
	if err != nil {
		return Filing{}, nil, fmt.Errorf("filing %s: %w", accession, err)
	}

	filing := Filing{
		Accession:     accession,
		Ticker:        strings.TrimSpace(doc.Issuer.TradingSymbol),
		HasDerivative: doc.Derivative != nil,
	}
	if len(doc.ReportingOwners) > 0 {
		owner := doc.ReportingOwners[0]
		filing.InsiderName = NormalizeName(strings.TrimSpace(owner.Name))
		filing.InsiderTitle = deriveTitle(owner, strings.TrimSpace(doc.Remarks))
	} else {
		filing.InsiderTitle = noTitle
	}

	if doc.NonDerivative == nil || len(doc.NonDerivative.Transactions) == 0 {
		return filing, nil, nil
	}

	m := acceptanceRe.FindSubmatch(raw)
	if m == nil {
		return Filing{}, nil, fmt.Errorf("filing %s: %w", accession, ErrMissingAcceptanceTime)
	}
	acceptedAt, err := time.Parse(acceptanceLayout, string(m[1]))
	if err != nil {
		return Filing{}, nil, fmt.Errorf("filing %s: parsing acceptance datetime: %w", accession, err)
	}
	filing.AcceptedAt = acceptedAt

	legs := make([]TradeLeg, 0, len(doc.NonDerivative.Transactions))
	for i, txn := range doc.NonDerivative.Transactions {
		leg, err := buildLeg(filing, txn)
		if err != nil {
			slog.Warn("skipping unparsable transaction block",
				"accession", accession, "block", i, "error", err)
			continue
		}
		legs = append(legs, leg)
	}
	return filing, legs, nil
}

// parseOwnershipDocument locates the embedded ownership XML inside the SGML
// submission wrapper and unmarshals it.
func parseOwnershipDocument(raw []byte) (*ownershipDocument, error) {
	start := bytes.Index(raw, []byte("<ownershipDocument"))
	if start < 0 {
		return nil, errors.New("no ownershipDocument section")
	}
	end := bytes.Index(raw[start:], []byte("</ownershipDocument>"))
	if end < 0 {
		return nil, errors.New("unterminated ownershipDocument section")
	}
	segment := raw[start : start+end+len("</ownershipDocument>")]

	var doc ownershipDocument
	if err := xml.Unmarshal(segment, &doc); err != nil {
		return nil, fmt.Errorf("decoding ownership document: %w", err)
	}
	return &doc, nil
}

func buildLeg(filing Filing, txn transactionBlock) (TradeLeg, error) {
	tradeDate, err := time.Parse("2006-01-02", strings.TrimSpace(txn.Date.Value))
	if err != nil {
		return TradeLeg{}, fmt.Errorf("parsing trade date %q: %w", txn.Date.Value, err)
	}

	// No price means a grant or similar unpriced event, not an error.
	price, err := decimal.NewFromString(strings.TrimSpace(txn.Amounts.PricePerShare.Value))
	if err != nil {
		price = decimal.Zero
	}

	var shares int64
	if d, err := decimal.NewFromString(strings.TrimSpace(txn.Amounts.Shares.Value)); err == nil {
		shares = d.IntPart()
	}
	if shares < 0 {
		shares = -shares
	}

	acquired := strings.TrimSpace(txn.Amounts.AcqDispCode.Value) != "D"
	qty := shares
	if !acquired {
		qty = -qty
	}

	return TradeLeg{
		Accession:    filing.Accession,
		FilingDate:   filing.AcceptedAt,
		TradeDate:    tradeDate,
		Ticker:       filing.Ticker,
		InsiderName:  filing.InsiderName,
		InsiderTitle: filing.InsiderTitle,
		TradeType:    TradeTypeLabel(strings.TrimSpace(txn.Coding.Code)),
		Acquired:     acquired,
		Price:        price,
		Qty:          qty,
		Marker:       filing.Marker(),
	}, nil
}
