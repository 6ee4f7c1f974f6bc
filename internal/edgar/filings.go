package edgar

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// insiderFormType is the ownership-change report this collector cares about.
const insiderFormType = "4"

// submissionsResponse holds the slice of the per-issuer filing index we
// read: parallel arrays of form types and accession numbers.
type submissionsResponse struct {
	Filings struct {
		Recent struct {
			AccessionNumbers []string `json:"accessionNumber"`
			Forms            []string `json:"form"`
		} `json:"recent"`
	} `json:"filings"`
}

// Form4Filings lists the accession numbers of the issuer's Form 4 filings,
// in index order (most recent first).
func (c *Client) Form4Filings(ctx context.Context, cik CIK) ([]string, error) {
	url := fmt.Sprintf("%s/submissions/CIK%s.json", c.dataBase, cik)
	body, err := c.Get(ctx, url)
	if err != nil {
		return nil, err
	}

	var resp submissionsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decoding filing index for CIK %s: %w", cik, err)
	}

	recent := resp.Filings.Recent
	if len(recent.Forms) != len(recent.AccessionNumbers) {
		return nil, fmt.Errorf("filing index for CIK %s: %d forms vs %d accession numbers",
			cik, len(recent.Forms), len(recent.AccessionNumbers))
	}

	var accessions []string
	for i, form := range recent.Forms {
		if form == insiderFormType {
			accessions = append(accessions, recent.AccessionNumbers[i])
		}
	}
	return accessions, nil
}

// FilingDocument fetches the raw submission text for one filing. The
// document is the SGML-wrapped archive copy, which embeds the ownership XML.
func (c *Client) FilingDocument(ctx context.Context, cik CIK, accession string) ([]byte, error) {
	url := fmt.Sprintf("%s/Archives/edgar/data/%s/%s/%s.txt",
		c.wwwBase, cik, strings.ReplaceAll(accession, "-", ""), accession)
	return c.Get(ctx, url)
}
