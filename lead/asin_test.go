package lead_test

import (
	"leadfilter/lead"

	gc "gopkg.in/check.v1"
)

func (s *LeadSuite) TestASINFromURL(c *gc.C) {
	for i, t := range []struct {
		should string
		url    string
		expect string
	}{{
		should: "read a dp path",
		url:    "https://www.amazon.co.uk/dp/B0ABCD1234",
		expect: "B0ABCD1234",
	}, {
		should: "read a dp path with a trailing segment",
		url:    "https://www.amazon.com/dp/B0ABCD1234/ref=sr_1_1",
		expect: "B0ABCD1234",
	}, {
		should: "read a gp product path",
		url:    "https://www.amazon.de/gp/product/B0ABCD1234",
		expect: "B0ABCD1234",
	}, {
		should: "read a mobile gp path",
		url:    "https://amazon.com/gp/aw/d/B0ABCD1234",
		expect: "B0ABCD1234",
	}, {
		should: "read an asin query parameter",
		url:    "https://www.amazon.com/exec?asin=b0abcd1234",
		expect: "B0ABCD1234",
	}, {
		should: "reject a malformed query asin",
		url:    "https://www.amazon.com/exec?asin=notanasin",
		expect: "",
	}, {
		should: "reject a url without an asin",
		url:    "https://www.amazon.com/gp/bestsellers",
		expect: "",
	}, {
		should: "lowercase dp paths still parse",
		url:    "https://www.amazon.com/dp/b0abcd1234",
		expect: "B0ABCD1234",
	}} {
		c.Logf("test %d: should %s", i, t.should)
		c.Check(lead.ASINFromURL(t.url), gc.Equals, t.expect)
	}
}

func (s *LeadSuite) TestASINsFromText(c *gc.C) {
	text := "Grab B0ABCD1234 and b0xyz98765 but not C0ABCD1234 or B0SHORT"
	c.Check(lead.ASINsFromText(text), gc.DeepEquals,
		[]string{"B0ABCD1234", "B0XYZ98765"})
}

func (s *LeadSuite) TestAmazonURLs(c *gc.C) {
	text := "see https://www.amazon.co.uk/dp/B0ABCD1234 (and https://amazon.com/dp/B0XYZ98765) done"
	c.Check(lead.AmazonURLs(text), gc.DeepEquals, []string{
		"https://www.amazon.co.uk/dp/B0ABCD1234",
		"https://amazon.com/dp/B0XYZ98765",
	})
}

func (s *LeadSuite) TestDedupeOrdered(c *gc.C) {
	asins := []string{"B0AAAAAAA1", "B0AAAAAAA2", "B0AAAAAAA1", "B0AAAAAAA3", "B0AAAAAAA2"}
	c.Check(lead.DedupeOrdered(asins), gc.DeepEquals,
		[]string{"B0AAAAAAA1", "B0AAAAAAA2", "B0AAAAAAA3"})
}

func (s *LeadSuite) TestValidASIN(c *gc.C) {
	c.Check(lead.ValidASIN("B0ABCD1234"), gc.Equals, true)
	c.Check(lead.ValidASIN("1234567890"), gc.Equals, true)
	c.Check(lead.ValidASIN("b0abcd1234"), gc.Equals, false)
	c.Check(lead.ValidASIN("B0ABCD123"), gc.Equals, false)
	c.Check(lead.ValidASIN("B0ABCD12345"), gc.Equals, false)
}
