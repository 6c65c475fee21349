// Package lead parses Amazon lead posts and decides whether they are worth
// forwarding. A post passes when its eligibility, return on investment and
// alert lines all clear the guild's thresholds.
package lead

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	roiRE       = regexp.MustCompile(`(?i)(?:ROI|R\.?O\.?I\.?|Return\s+on\s+Investment|Est(?:imated)?\s*ROI)\s*[:=]?\s*([0-9]+(?:\.[0-9]+)?)\s*%`)
	eligibleRE  = regexp.MustCompile(`(?i)(?:Elig(?:ibility)?|Eligible)\s*[:=]?\s*(Yes|No)`)
	alertLineRE = regexp.MustCompile(`(?i)Alerts?\s*[:=]?\s*(.*)`)
	blockWordRE = regexp.MustCompile(`(?i)\b(ip|pl)\b`)

	buyRE  = regexp.MustCompile(`(?i)\bBuy\s*[:=]\s*[£$€]?\s*([0-9]+(?:\.[0-9]+)?)`)
	sellRE = regexp.MustCompile(`(?i)\bSell\s*[:=]\s*[£$€]?\s*([0-9]+(?:\.[0-9]{1,2})?)`)
	wasRE  = regexp.MustCompile(`(?i)\bWas\s*[:=]\s*[£$€]?\s*([0-9]+(?:\.[0-9]{1,2})?)`)
	nowRE  = regexp.MustCompile(`(?i)\bNow\s*[:=]\s*[£$€]?\s*([0-9]+(?:\.[0-9]{1,2})?)`)
)

// Phrases that flag an intellectual property warning even when no Alerts
// line is present.
var blockPhrases = []string{"ip alert", "ip-alert", "ip alert:", "ip violation"}

// Fields is what a single pass over a post's text yields. Nil pointers mean
// the field never appeared.
type Fields struct {
	Eligible      *bool
	ROI           *float64
	HasBlockAlert bool
}

// ParseText scans a text blob for the eligibility flag, an explicit ROI
// percentage, and blocking alert lines.
func ParseText(text string) Fields {
	var fields Fields

	if m := eligibleRE.FindStringSubmatch(text); m != nil {
		yes := strings.EqualFold(strings.TrimSpace(m[1]), "yes")
		fields.Eligible = &yes
	}
	if m := roiRE.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			fields.ROI = &v
		}
	}

	for _, line := range strings.Split(text, "\n") {
		if m := alertLineRE.FindStringSubmatch(line); m != nil {
			if blockWordRE.MatchString(strings.ToLower(m[1])) {
				fields.HasBlockAlert = true
				break
			}
		}
	}
	if !fields.HasBlockAlert {
		lower := strings.ToLower(text)
		for _, phrase := range blockPhrases {
			if strings.Contains(lower, phrase) {
				fields.HasBlockAlert = true
				break
			}
		}
	}

	return fields
}

// Prices holds the buy/sell pair a post advertises. Sellers write either
// Buy/Sell or Was/Now; Was/Now maps to buying at the Now price and selling
// at the Was price.
type Prices struct {
	ROI  *float64
	Buy  *float64
	Sell *float64
}

// ApproximateROI derives an ROI from a Buy/Sell pair, falling back to
// Was/Now, when the post carries no explicit ROI.
func ApproximateROI(text string) Prices {
	mb, ms := buyRE.FindStringSubmatch(text), sellRE.FindStringSubmatch(text)
	if mb != nil && ms != nil {
		buy, errB := strconv.ParseFloat(mb[1], 64)
		sell, errS := strconv.ParseFloat(ms[1], 64)
		if errB == nil && errS == nil && buy > 0 {
			roi := round2((sell - buy) / buy * 100)
			return Prices{ROI: &roi, Buy: &buy, Sell: &sell}
		}
	}

	mw, mn := wasRE.FindStringSubmatch(text), nowRE.FindStringSubmatch(text)
	if mw != nil && mn != nil {
		was, errW := strconv.ParseFloat(mw[1], 64)
		now, errN := strconv.ParseFloat(mn[1], 64)
		if errW == nil && errN == nil && now > 0 {
			roi := round2((was - now) / now * 100)
			return Prices{ROI: &roi, Buy: &now, Sell: &was}
		}
	}

	return Prices{}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// FormatFloat renders a float the way the bot writes them in messages,
// without trailing zeros.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
