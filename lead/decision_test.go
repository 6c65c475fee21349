package lead_test

import (
	"leadfilter/lead"

	gc "gopkg.in/check.v1"
)

func (s *LeadSuite) TestEvaluate(c *gc.C) {
	for i, t := range []struct {
		should       string
		text         string
		minROI       float64
		allowMissing bool
		expectOK     bool
		expectReason string
	}{{
		should:       "pass a clean lead",
		text:         "Eligibility: Yes\nROI: 32%\n",
		minROI:       20,
		expectOK:     true,
		expectReason: "Pass",
	}, {
		should:       "fail on eligibility no",
		text:         "Eligibility: No\nROI: 32%\n",
		minROI:       20,
		expectReason: "Eligibility = No",
	}, {
		should:       "fail on missing eligibility by default",
		text:         "ROI: 32%\n",
		minROI:       20,
		expectReason: "Eligibility not found",
	}, {
		should:       "pass on missing eligibility when allowed",
		text:         "ROI: 32%\n",
		minROI:       20,
		allowMissing: true,
		expectOK:     true,
		expectReason: "Pass",
	}, {
		should:       "fail on low roi",
		text:         "Eligibility: Yes\nROI: 15%\n",
		minROI:       20,
		expectReason: "ROI 15% < 20%",
	}, {
		should:       "fail on no roi at all",
		text:         "Eligibility: Yes\nJust a link\n",
		minROI:       20,
		expectReason: "ROI not found",
	}, {
		should:       "use approximate roi from buy and sell",
		text:         "Eligibility: Yes\nBuy: 10 Sell: 15\n",
		minROI:       20,
		expectOK:     true,
		expectReason: "Pass",
	}, {
		should:       "stack reasons in rule order",
		text:         "Eligibility: No\nAlerts: IP\n",
		minROI:       20,
		expectReason: "Eligibility = No; ROI not found; Blocked (IP/PL/IP Alert)",
	}, {
		should:       "fail a blocked lead that otherwise passes",
		text:         "Eligibility: Yes\nROI: 40%\nAlerts: IP\n",
		minROI:       20,
		expectReason: "Blocked (IP/PL/IP Alert)",
	}} {
		c.Logf("test %d: should %s", i, t.should)
		decision := lead.Evaluate(t.text, t.minROI, t.allowMissing)
		c.Check(decision.OK, gc.Equals, t.expectOK)
		c.Check(decision.Reason, gc.Equals, t.expectReason)
	}
}

func (s *LeadSuite) TestEvaluateCarriesApproximateROI(c *gc.C) {
	decision := lead.Evaluate("Eligibility: Yes\nBuy: 10 Sell: 15\n", 20, false)
	c.Assert(decision.ROI, gc.NotNil)
	c.Check(*decision.ROI, gc.Equals, 50.0)
}
