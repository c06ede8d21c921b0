// Package search discovers job postings through LinkedIn's guest search
// endpoint: paginated card fetches, optional detail-page enrichment, and
// artifact output for the rest of the workflow.
package search

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rakshit/resume-workflow/internal/types"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// DefaultUserAgent is the user agent string for HTTP requests.
const DefaultUserAgent = "Mozilla/5.0 (compatible; ResumeWorkflow/1.0)"

// pageSize is how many cards the guest endpoint returns per request.
const pageSize = 25

// searchEndpoint is the unauthenticated posting search API. A package
// variable so tests can point the client at a local server.
var searchEndpoint = "https://www.linkedin.com/jobs-guest/jobs/api/seeMoreJobPostings/search"

// TimeFilters maps the configuration presets onto the endpoint's f_TPR
// values (seconds of posting age).
var TimeFilters = map[string]string{
	"day":    "r86400",
	"2days":  "r172800",
	"week":   "r604800",
	"2weeks": "r1209600",
}

// Error represents an error during posting discovery.
type Error struct {
	URL     string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("search error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("search error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Options configures a discovery run.
type Options struct {
	JobTitle   string
	Location   string
	MaxResults int
	// TimeFilter is a preset key from TimeFilters; empty disables the
	// posting-age filter.
	TimeFilter string
	// MaxApplicants drops enriched listings above the ceiling; 0 disables
	// the filter. Listings without a known count are kept.
	MaxApplicants int
	// DetailWorkers bounds the parallel detail-page fetches; 0 disables
	// enrichment entirely.
	DetailWorkers int
	// UseBrowser renders thin detail pages in headless Chrome.
	UseBrowser bool
	Timeout    time.Duration
	UserAgent  string
}

// Client fetches and parses guest search pages.
type Client struct {
	httpClient *http.Client
	opts       Options
	logger     *slog.Logger
}

// NewClient creates a discovery client.
func NewClient(opts Options, logger *slog.Logger) *Client {
	if opts.Timeout == 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.MaxResults <= 0 {
		opts.MaxResults = pageSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		httpClient: &http.Client{Timeout: opts.Timeout},
		opts:       opts,
		logger:     logger,
	}
}

// Run executes the search: paginate the card listing, enrich each job with
// detail-page fields, and apply the applicant ceiling. The returned artifact
// carries the query metadata alongside the listings.
func (c *Client) Run(ctx context.Context) (*types.SearchResults, error) {
	if c.opts.TimeFilter != "" {
		if _, ok := TimeFilters[c.opts.TimeFilter]; !ok {
			return nil, &Error{Message: fmt.Sprintf("unknown time filter %q (valid: day, 2days, week, 2weeks)", c.opts.TimeFilter)}
		}
	}

	var jobs []types.JobListing
	for start := 0; len(jobs) < c.opts.MaxResults; start += pageSize {
		batch, err := c.fetchPage(ctx, start)
		if err != nil {
			// The first page failing means the search itself failed; later
			// pages degrade to a partial result.
			if start == 0 {
				return nil, err
			}
			c.logger.Warn("search page failed, keeping partial results", "start", start, "error", err)
			break
		}
		if len(batch) == 0 {
			break
		}
		jobs = append(jobs, batch...)
	}
	if len(jobs) > c.opts.MaxResults {
		jobs = jobs[:c.opts.MaxResults]
	}

	if c.opts.DetailWorkers > 0 {
		c.enrich(ctx, jobs)
	}

	if c.opts.MaxApplicants > 0 {
		jobs = filterByApplicants(jobs, c.opts.MaxApplicants)
	}

	return &types.SearchResults{
		Metadata: types.SearchMetadata{
			SearchDate:   time.Now().UTC().Format(time.RFC3339),
			JobTitle:     c.opts.JobTitle,
			Location:     c.opts.Location,
			MaxResults:   c.opts.MaxResults,
			TotalResults: len(jobs),
			SearchMode:   "guest_api",
			TimeFilter:   c.opts.TimeFilter,
		},
		Jobs: jobs,
	}, nil
}

// fetchPage retrieves and parses one page of search cards.
func (c *Client) fetchPage(ctx context.Context, start int) ([]types.JobListing, error) {
	pageURL := c.pageURL(start)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, &Error{URL: pageURL, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("User-Agent", c.opts.UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &Error{URL: pageURL, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &Error{URL: pageURL, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{URL: pageURL, Message: "failed to read response body", Cause: err}
	}

	return ParseSearchCards(string(body))
}

// pageURL builds the guest endpoint URL for one page of results.
func (c *Client) pageURL(start int) string {
	params := url.Values{}
	params.Set("keywords", c.opts.JobTitle)
	if c.opts.Location != "" {
		params.Set("location", c.opts.Location)
	}
	params.Set("start", strconv.Itoa(start))
	if tpr, ok := TimeFilters[c.opts.TimeFilter]; ok {
		params.Set("f_TPR", tpr)
	}
	return searchEndpoint + "?" + params.Encode()
}

// enrich fetches each listing's detail page and fills in the detail fields.
// A failed detail fetch leaves the listing with its card data; a listing is
// never dropped for a missing detail page.
func (c *Client) enrich(ctx context.Context, jobs []types.JobListing) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.opts.DetailWorkers)

	for i := range jobs {
		i := i
		g.Go(func() error {
			detail, err := c.fetchDetail(gctx, jobs[i].Link)
			if err != nil {
				c.logger.Warn("detail fetch failed", "link", jobs[i].Link, "error", err)
				return nil
			}
			applyDetail(&jobs[i], detail)
			return nil
		})
	}
	_ = g.Wait()
}

// fetchDetail loads a posting page, falling back to a headless browser when
// the static fetch yields too little content.
func (c *Client) fetchDetail(ctx context.Context, link string) (*Detail, error) {
	if link == "" {
		return nil, &Error{Message: "listing has no link"}
	}

	html, err := c.fetchHTML(ctx, link)
	if err != nil {
		return nil, err
	}
	detail, err := ParseJobDetail(html)
	if err != nil {
		return nil, err
	}

	if c.opts.UseBrowser && ShouldUseBrowser(detail.Description) {
		rendered, berr := RenderWithBrowser(ctx, link, c.opts.Timeout)
		if berr != nil {
			c.logger.Warn("browser fallback failed", "link", link, "error", berr)
			return detail, nil
		}
		if rich, perr := ParseJobDetail(rendered); perr == nil && len(rich.Description) > len(detail.Description) {
			detail = rich
		}
	}
	return detail, nil
}

func (c *Client) fetchHTML(ctx context.Context, link string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return "", &Error{URL: link, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("User-Agent", c.opts.UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &Error{URL: link, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", &Error{URL: link, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &Error{URL: link, Message: "failed to read response body", Cause: err}
	}
	return string(body), nil
}

// applyDetail copies non-empty detail fields onto the listing.
func applyDetail(job *types.JobListing, d *Detail) {
	if d.Description != "" {
		job.JobDescription = d.Description
	}
	if d.JobType != "" {
		job.JobType = d.JobType
	}
	if d.SeniorityLevel != "" {
		job.SeniorityLevel = d.SeniorityLevel
	}
	if d.Applicants != nil {
		job.Applicants = d.Applicants
	}
	if d.SalaryRange != "" {
		job.SalaryRange = d.SalaryRange
	}
}

// filterByApplicants drops listings whose known applicant count exceeds the
// ceiling. Unknown counts pass: discovery keeps the listing and leaves the
// judgment to selection.
func filterByApplicants(jobs []types.JobListing, ceiling int) []types.JobListing {
	kept := make([]types.JobListing, 0, len(jobs))
	for _, job := range jobs {
		if job.Applicants != nil && *job.Applicants > ceiling {
			continue
		}
		kept = append(kept, job)
	}
	return kept
}
