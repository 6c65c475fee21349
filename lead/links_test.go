package lead_test

import (
	"strings"

	"leadfilter/lead"

	gc "gopkg.in/check.v1"
)

func (s *LeadSuite) TestSASURL(c *gc.C) {
	cost, sale := 10.0, 15.5

	url := lead.SASURL("B0ABCD1234", nil, nil, "")
	c.Check(url, gc.Equals, "https://sas.selleramp.com/sas/lookup?asin=B0ABCD1234")

	url = lead.SASURL("B0ABCD1234", &cost, &sale, "https://www.amazon.co.uk/dp/B0ABCD1234")
	c.Check(url, gc.Equals,
		"https://sas.selleramp.com/sas/lookup?asin=B0ABCD1234"+
			"&sas_cost_price=10.00&sas_sale_price=15.50"+
			"&source_url=https%3A%2F%2Fwww.amazon.co.uk%2Fdp%2FB0ABCD1234")
}

func (s *LeadSuite) TestMarketplaceLinks(c *gc.C) {
	lines := lead.MarketplaceLinks("B0ABCD1234", "")
	c.Assert(lines, gc.HasLen, 10)
	c.Check(lines[0], gc.Equals, "US: https://www.amazon.com/dp/B0ABCD1234")
	c.Check(lines[1], gc.Equals, "UK: https://www.amazon.co.uk/dp/B0ABCD1234")
	c.Check(lines[9], gc.Equals, "IN: https://www.amazon.in/dp/B0ABCD1234")

	lines = lead.MarketplaceLinks("B0ABCD1234", "mytag-20")
	for _, line := range lines {
		c.Check(strings.HasSuffix(line, "?tag=mytag-20"), gc.Equals, true)
	}
}
