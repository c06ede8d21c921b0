package search

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/rakshit/resume-workflow/internal/types"
)

// ParseSearchCards extracts job listings from one page of guest search
// results. Cards missing a title or link are dropped.
func ParseSearchCards(html string) ([]types.JobListing, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse search HTML: %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	var jobs []types.JobListing

	doc.Find("div.base-card, div.base-search-card").Each(func(_ int, card *goquery.Selection) {
		title := cleanText(card.Find("h3.base-search-card__title").First().Text())
		company := cleanText(card.Find("h4.base-search-card__subtitle").First().Text())
		location := cleanText(card.Find("span.job-search-card__location").First().Text())

		link, _ := card.Find("a.base-card__full-link").First().Attr("href")
		if link == "" {
			link, _ = card.Find("a").First().Attr("href")
		}
		link = normalizeLink(link)

		if title == "" || link == "" {
			return
		}

		postingDate, _ := card.Find("time").First().Attr("datetime")

		jobs = append(jobs, types.JobListing{
			Title:       title,
			Company:     company,
			Location:    location,
			Link:        link,
			JobID:       extractJobID(card, link),
			PostingDate: postingDate,
			Source:      "linkedin",
			ScrapedAt:   now,
		})
	})

	return jobs, nil
}

// Detail holds the fields only available on a posting's detail page.
type Detail struct {
	Description    string
	JobType        string
	SeniorityLevel string
	Applicants     *int
	SalaryRange    string
}

// ParseJobDetail extracts detail-page fields from a posting page.
func ParseJobDetail(html string) (*Detail, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse detail HTML: %w", err)
	}

	d := &Detail{}

	d.Description = cleanMultiline(doc.Find("div.show-more-less-html__markup").First().Text())
	if d.Description == "" {
		d.Description = cleanMultiline(doc.Find("div.description__text").First().Text())
	}

	doc.Find("li.description__job-criteria-item").Each(func(_ int, item *goquery.Selection) {
		header := cleanText(item.Find("h3").First().Text())
		value := cleanText(item.Find("span").First().Text())
		switch strings.ToLower(header) {
		case "seniority level":
			d.SeniorityLevel = value
		case "employment type":
			d.JobType = value
		}
	})

	applicantText := cleanText(doc.Find("span.num-applicants__caption, figcaption.num-applicants__caption").First().Text())
	if applicantText == "" {
		applicantText = cleanText(doc.Find("h4.top-card-layout__second-subline").First().Text())
	}
	d.Applicants = ParseApplicantCount(applicantText)

	d.SalaryRange = cleanText(doc.Find("div.salary.compensation__salary, div.compensation__salary-range").First().Text())

	return d, nil
}

// applicantPatterns match the phrasings postings use for applicant counts.
// More specific phrasings come first.
var applicantPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)over\s+(\d+)\s+applicants`),
	regexp.MustCompile(`(?i)be among the first\s+(\d+)\s+applicants`),
	regexp.MustCompile(`(?i)(\d+)\s+applicants?`),
	regexp.MustCompile(`(?i)(\d+)\s+people clicked apply`),
}

// ParseApplicantCount extracts an applicant count from posting free text.
// Returns nil when no recognizable count is present.
func ParseApplicantCount(text string) *int {
	for _, pattern := range applicantPatterns {
		if m := pattern.FindStringSubmatch(text); m != nil {
			if v, err := strconv.Atoi(m[1]); err == nil {
				return &v
			}
		}
	}
	return nil
}

// jobIDPattern matches the numeric posting ID at the end of a job URL path.
var jobIDPattern = regexp.MustCompile(`-(\d{6,})/?$`)

// extractJobID pulls the numeric posting ID from the card URN, falling back
// to the link.
func extractJobID(card *goquery.Selection, link string) string {
	if urn, ok := card.Attr("data-entity-urn"); ok {
		if i := strings.LastIndex(urn, ":"); i >= 0 && i+1 < len(urn) {
			return urn[i+1:]
		}
	}
	return jobIDFromLink(link)
}

func jobIDFromLink(link string) string {
	u, err := url.Parse(link)
	if err != nil {
		return ""
	}
	if m := jobIDPattern.FindStringSubmatch(u.Path); m != nil {
		return m[1]
	}
	return ""
}

// normalizeLink strips tracking parameters and fragments from a job URL.
func normalizeLink(link string) string {
	link = strings.TrimSpace(link)
	u, err := url.Parse(link)
	if err != nil {
		return link
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}

// cleanText collapses runs of whitespace and trims the result.
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// cleanMultiline trims each line and drops empty ones, preserving paragraph
// breaks as single newlines.
func cleanMultiline(text string) string {
	lines := strings.Split(text, "\n")
	var cleaned []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}
