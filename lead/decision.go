package lead

import (
	"fmt"
	"strings"
)

// Decision is the verdict on a single post.
type Decision struct {
	Eligible      *bool
	ROI           *float64
	HasBlockAlert bool
	OK            bool
	Reason        string
}

// Evaluate runs the filter rules over a post's text. Every failed rule
// contributes a reason; a clean post gets "Pass".
func Evaluate(text string, minROI float64, allowMissingEligibility bool) Decision {
	fields := ParseText(text)
	roi := fields.ROI
	if roi == nil {
		roi = ApproximateROI(text).ROI
	}

	ok := true
	var reasons []string
	if fields.Eligible != nil && !*fields.Eligible {
		ok = false
		reasons = append(reasons, "Eligibility = No")
	}
	if fields.Eligible == nil && !allowMissingEligibility {
		ok = false
		reasons = append(reasons, "Eligibility not found")
	}
	if roi == nil {
		ok = false
		reasons = append(reasons, "ROI not found")
	} else if *roi < minROI {
		ok = false
		reasons = append(reasons, fmt.Sprintf("ROI %s%% < %s%%",
			FormatFloat(*roi), FormatFloat(minROI)))
	}
	if fields.HasBlockAlert {
		ok = false
		reasons = append(reasons, "Blocked (IP/PL/IP Alert)")
	}

	reason := "Pass"
	if len(reasons) > 0 {
		reason = strings.Join(reasons, "; ")
	}
	return Decision{
		Eligible:      fields.Eligible,
		ROI:           roi,
		HasBlockAlert: fields.HasBlockAlert,
		OK:            ok,
		Reason:        reason,
	}
}
