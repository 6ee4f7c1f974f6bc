package form4

import (
	"time"

	"github.com/shopspring/decimal"
)

// Filing carries the per-filing fields shared by every trade leg extracted
// from one Form 4 document.
type Filing struct {
	Accession     string
	AcceptedAt    time.Time
	Ticker        string
	InsiderName   string
	InsiderTitle  string
	HasDerivative bool
}

// Marker returns the filing-level flag character: "D" when the filing also
// reports derivative transactions, empty otherwise.
func (f Filing) Marker() string {
	if f.HasDerivative {
		return "D"
	}
	return ""
}

// TradeLeg is one non-derivative transaction block inside a filing. Legs
// exist only between extraction and aggregation and are never persisted.
type TradeLeg struct {
	Accession    string
	FilingDate   time.Time
	TradeDate    time.Time
	Ticker       string
	InsiderName  string
	InsiderTitle string
	TradeType    string
	// Acquired is false when the acquired/disposed code was "D".
	Acquired bool
	// Price is the per-share price, zero when the filing carries none
	// (grants, gifts).
	Price decimal.Decimal
	// Qty is the share count, negated when disposed.
	Qty int64
	// Marker is the filing-level derivative flag shared by all legs.
	Marker string
}

// ownershipDocument mirrors the subset of the EDGAR ownership XML schema the
// extractor reads. Field presence is checked per field; the schema in the
// wild is irregular enough that nothing is assumed.
type ownershipDocument struct {
	Issuer struct {
		TradingSymbol string `xml:"issuerTradingSymbol"`
	} `xml:"issuer"`
	ReportingOwners []reportingOwner `xml:"reportingOwner"`
	NonDerivative   *struct {
		Transactions []transactionBlock `xml:"nonDerivativeTransaction"`
	} `xml:"nonDerivativeTable"`
	Derivative *struct{} `xml:"derivativeTable"`
	Remarks    string    `xml:"remarks"`
}

type reportingOwner struct {
	Name         string `xml:"reportingOwnerId>rptOwnerName"`
	Relationship struct {
		IsDirector        string `xml:"isDirector"`
		IsOfficer         string `xml:"isOfficer"`
		IsTenPercentOwner string `xml:"isTenPercentOwner"`
		OfficerTitle      string `xml:"officerTitle"`
	} `xml:"reportingOwnerRelationship"`
}

type transactionBlock struct {
	Date   valueOf `xml:"transactionDate"`
	Coding struct {
		Code string `xml:"transactionCode"`
	} `xml:"transactionCoding"`
	Amounts struct {
		Shares        valueOf `xml:"transactionShares"`
		PricePerShare valueOf `xml:"transactionPricePerShare"`
		AcqDispCode   valueOf `xml:"transactionAcquiredDisposedCode"`
	} `xml:"transactionAmounts"`
}

// valueOf unwraps the schema's <field><value>x</value></field> nesting.
type valueOf struct {
	Value string `xml:"value"`
}

// xmlFlagSet reports whether a schema boolean field is set ("true" or "1").
func xmlFlagSet(s string) bool {
	return s == "true" || s == "1"
}
