package search

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rakshit/resume-workflow/internal/identity"
	"github.com/rakshit/resume-workflow/internal/schemas"
	"github.com/rakshit/resume-workflow/internal/types"
)

// WriteJSON validates the results against the artifact schema and writes
// them into dir. It returns the artifact path.
func WriteJSON(results *types.SearchResults, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal search results: %w", err)
	}
	if err := schemas.ValidateSearchResults(string(data)); err != nil {
		return "", fmt.Errorf("search results failed schema validation: %w", err)
	}

	path := filepath.Join(dir, fileName(results, "json"))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write search results %s: %w", path, err)
	}
	return path, nil
}

// WriteCSV writes a flat spreadsheet view of the results next to the JSON
// artifact and returns its path.
func WriteCSV(results *types.SearchResults, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, fileName(results, "csv"))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create CSV file %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)
	header := []string{"title", "company", "location", "link", "job_id", "applicants", "posting_date", "job_type", "seniority_level", "salary_range"}
	if err := w.Write(header); err != nil {
		return "", fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, job := range results.Jobs {
		applicants := ""
		if job.Applicants != nil {
			applicants = strconv.Itoa(*job.Applicants)
		}
		record := []string{
			job.Title,
			job.Company,
			job.Location,
			job.Link,
			job.JobID,
			applicants,
			job.PostingDate,
			job.JobType,
			job.SeniorityLevel,
			job.SalaryRange,
		}
		if err := w.Write(record); err != nil {
			return "", fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("failed to flush CSV file %s: %w", path, err)
	}
	return path, nil
}

// ReadResults loads and schema-validates a previously written artifact.
func ReadResults(path string) (*types.SearchResults, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read search results %s: %w", path, err)
	}
	if err := schemas.ValidateSearchResults(string(data)); err != nil {
		return nil, fmt.Errorf("search results %s failed schema validation: %w", path, err)
	}

	var results types.SearchResults
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, fmt.Errorf("failed to parse search results %s: %w", path, err)
	}
	return &results, nil
}

// fileName derives job_search_<title slug>_<timestamp>.<ext>.
func fileName(results *types.SearchResults, ext string) string {
	slug := identity.Slug(results.Metadata.JobTitle)
	ts := time.Now().UTC().Format("20060102_150405")
	return fmt.Sprintf("job_search_%s_%s.%s", slug, ts, ext)
}
