package lead

import (
	"fmt"
	"net/url"
	"strings"
)

const sasBase = "https://sas.selleramp.com/sas/lookup"

// SASURL builds a SellerAmp lookup link for the ASIN, prefilled with the
// cost and sale prices when the post advertised them.
func SASURL(asin string, cost, sale *float64, sourceURL string) string {
	params := url.Values{}
	params.Set("asin", asin)
	if cost != nil {
		params.Set("sas_cost_price", fmt.Sprintf("%.2f", *cost))
	}
	if sale != nil {
		params.Set("sas_sale_price", fmt.Sprintf("%.2f", *sale))
	}
	if sourceURL != "" {
		params.Set("source_url", sourceURL)
	}
	return sasBase + "?" + params.Encode()
}

// Marketplace is one regional Amazon storefront.
type Marketplace struct {
	Region string
	Base   string
}

// Marketplaces lists the supported regional storefronts in display order.
var Marketplaces = []Marketplace{
	{"US", "https://www.amazon.com/dp/"},
	{"UK", "https://www.amazon.co.uk/dp/"},
	{"DE", "https://www.amazon.de/dp/"},
	{"FR", "https://www.amazon.fr/dp/"},
	{"IT", "https://www.amazon.it/dp/"},
	{"ES", "https://www.amazon.es/dp/"},
	{"CA", "https://www.amazon.ca/dp/"},
	{"AU", "https://www.amazon.com.au/dp/"},
	{"JP", "https://www.amazon.co.jp/dp/"},
	{"IN", "https://www.amazon.in/dp/"},
}

// MarketplaceLinks renders one "REGION: url" line per storefront, with the
// affiliate tag appended when given.
func MarketplaceLinks(asin, tag string) []string {
	lines := make([]string, 0, len(Marketplaces))
	for _, market := range Marketplaces {
		u := market.Base + asin
		if tag != "" {
			sep := "?"
			if strings.Contains(u, "?") {
				sep = "&"
			}
			u += sep + "tag=" + tag
		}
		lines = append(lines, market.Region+": "+u)
	}
	return lines
}
