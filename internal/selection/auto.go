package selection

import (
	"strings"

	"github.com/rakshit/resume-workflow/internal/types"
)

// Policy is the predicate applied to listings in auto-selection mode.
type Policy struct {
	// MaxApplicants rejects listings above the ceiling; 0 disables the
	// check. Listings without a known count fail a positive ceiling.
	MaxApplicants int
	// Keywords accepts a listing when any keyword appears in its title,
	// description, or required skills, case-insensitively. Empty means no
	// keyword filter.
	Keywords []string
}

// Auto evaluates the policy over the listings and returns the matching
// indices in listing order. A zero-match outcome is an empty result, never
// an error; whether that aborts the run is the caller's decision.
func Auto(jobs []types.JobListing, policy Policy) []int {
	var indices []int
	for i, job := range jobs {
		if matches(job, policy) {
			indices = append(indices, i)
		}
	}
	return indices
}

func matches(job types.JobListing, policy Policy) bool {
	if policy.MaxApplicants > 0 {
		if job.Applicants == nil || *job.Applicants > policy.MaxApplicants {
			return false
		}
	}
	if len(policy.Keywords) == 0 {
		return true
	}
	haystack := strings.ToLower(job.Title + " " + job.JobDescription + " " + strings.Join(job.SkillsRequired, " "))
	for _, keyword := range policy.Keywords {
		keyword = strings.ToLower(strings.TrimSpace(keyword))
		if keyword != "" && strings.Contains(haystack, keyword) {
			return true
		}
	}
	return false
}
