package collect

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"insider-data/internal/edgar"
)

// sampleFiling returns a minimal Form 4 submission with one sale leg.
func sampleFiling(shares string) []byte {
	return []byte(fmt.Sprintf(`<SEC-DOCUMENT>
<ACCEPTANCE-DATETIME>20230501180312
<ownershipDocument>
<issuer><issuerTradingSymbol>ACME</issuerTradingSymbol></issuer>
<reportingOwner>
<reportingOwnerId><rptOwnerName>DOE JANE</rptOwnerName></reportingOwnerId>
<reportingOwnerRelationship><isOfficer>1</isOfficer><officerTitle>CEO</officerTitle></reportingOwnerRelationship>
</reportingOwner>
<nonDerivativeTable>
<nonDerivativeTransaction>
<transactionDate><value>2023-04-28</value></transactionDate>
<transactionCoding><transactionCode>S</transactionCode></transactionCoding>
<transactionAmounts>
<transactionShares><value>%s</value></transactionShares>
<transactionPricePerShare><value>10.00</value></transactionPricePerShare>
<transactionAcquiredDisposedCode><value>D</value></transactionAcquiredDisposedCode>
</transactionAmounts>
</nonDerivativeTransaction>
</nonDerivativeTable>
</ownershipDocument>
</SEC-DOCUMENT>`, shares))
}

// emptyFiling has no transaction blocks at all.
var emptyFiling = []byte(`<SEC-DOCUMENT>
<ACCEPTANCE-DATETIME>20230501180312
<ownershipDocument>
<issuer><issuerTradingSymbol>ACME</issuerTradingSymbol></issuer>
</ownershipDocument>
</SEC-DOCUMENT>`)

type fakeFetcher struct {
	filings   []string
	listErr   error
	documents map[string][]byte
	docErr    map[string]error
	fetched   []string
}

func (f *fakeFetcher) Form4Filings(ctx context.Context, cik edgar.CIK) ([]string, error) {
	return f.filings, f.listErr
}

func (f *fakeFetcher) FilingDocument(ctx context.Context, cik edgar.CIK, accession string) ([]byte, error) {
	f.fetched = append(f.fetched, accession)
	if err := f.docErr[accession]; err != nil {
		return nil, err
	}
	return f.documents[accession], nil
}

func TestCollect(t *testing.T) {
	fetcher := &fakeFetcher{
		filings: []string{"acc-1", "acc-2", "acc-3"},
		documents: map[string][]byte{
			"acc-1": sampleFiling("100"),
			"acc-2": emptyFiling,
			"acc-3": sampleFiling("250"),
		},
	}
	c := &Collector{Client: fetcher, FilingLimit: -1, CombineDates: true}

	got, err := c.Collect(context.Background(), "0000320193")
	require.NoError(t, err)
	require.Len(t, got, 2, "the empty filing contributes no records")
	assert.Equal(t, int64(-100), got[0].Qty)
	assert.Equal(t, int64(-250), got[1].Qty)
	assert.Equal(t, "acc-1", got[0].Accession)
}

func TestCollectFilingLimit(t *testing.T) {
	fetcher := &fakeFetcher{
		filings: []string{"acc-1", "acc-2", "acc-3"},
		documents: map[string][]byte{
			"acc-1": sampleFiling("100"),
			"acc-2": sampleFiling("200"),
			"acc-3": sampleFiling("300"),
		},
	}
	c := &Collector{Client: fetcher, FilingLimit: 2, CombineDates: true}

	got, err := c.Collect(context.Background(), "0000320193")
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, []string{"acc-1", "acc-2"}, fetcher.fetched)
}

func TestCollectSkipsBrokenFilings(t *testing.T) {
	fetcher := &fakeFetcher{
		filings: []string{"acc-1", "acc-2", "acc-3"},
		documents: map[string][]byte{
			"acc-2": []byte("not a filing"),
			"acc-3": sampleFiling("300"),
		},
		docErr: map[string]error{"acc-1": errors.New("boom")},
	}
	c := &Collector{Client: fetcher, FilingLimit: -1, CombineDates: true}

	got, err := c.Collect(context.Background(), "0000320193")
	require.NoError(t, err, "per-filing failures stay scoped to the filing")
	require.Len(t, got, 1)
	assert.Equal(t, "acc-3", got[0].Accession)
}

func TestCollectListFailure(t *testing.T) {
	c := &Collector{
		Client:      &fakeFetcher{listErr: errors.New("index down")},
		FilingLimit: -1,
	}
	_, err := c.Collect(context.Background(), "0000320193")
	require.Error(t, err)
}

func TestCollectRateBudgetExhaustionPropagates(t *testing.T) {
	fetcher := &fakeFetcher{
		filings:   []string{"acc-1", "acc-2"},
		documents: map[string][]byte{"acc-1": sampleFiling("100")},
		docErr: map[string]error{
			"acc-2": fmt.Errorf("fetching: %w", edgar.ErrRateBudgetExhausted),
		},
	}
	c := &Collector{Client: fetcher, FilingLimit: -1, CombineDates: true}

	got, err := c.Collect(context.Background(), "0000320193")
	require.ErrorIs(t, err, edgar.ErrRateBudgetExhausted)
	assert.Len(t, got, 1, "work done before exhaustion is returned")
}
