package schemas

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rakshit/resume-workflow/internal/types"
)

func validResults() types.SearchResults {
	count := 12
	return types.SearchResults{
		Metadata: types.SearchMetadata{
			SearchDate:   time.Now().UTC().Format(time.RFC3339),
			JobTitle:     "Go Developer",
			Location:     "Remote",
			MaxResults:   25,
			TotalResults: 1,
			SearchMode:   "guest_api",
			TimeFilter:   "week",
		},
		Jobs: []types.JobListing{
			{
				Title:      "Go Developer",
				Company:    "Acme",
				Location:   "Remote",
				Link:       "https://example.com/jobs/1",
				JobID:      "1",
				Applicants: &count,
				Source:     "linkedin",
				ScrapedAt:  time.Now().UTC().Format(time.RFC3339),
			},
		},
	}
}

func TestValidateSearchResults_AcceptsMarshaledArtifact(t *testing.T) {
	data, err := json.Marshal(validResults())
	require.NoError(t, err)

	assert.NoError(t, ValidateSearchResults(string(data)))
}

func TestValidateSearchResults_AcceptsEmptyJobList(t *testing.T) {
	results := validResults()
	results.Jobs = nil
	results.Metadata.TotalResults = 0

	data, err := json.Marshal(results)
	require.NoError(t, err)
	assert.NoError(t, ValidateSearchResults(string(data)))
}

func TestValidateSearchResults_RejectsMissingTitle(t *testing.T) {
	doc := `{
		"metadata": {"search_date": "2026-01-01", "job_title": "x", "max_results": 1, "total_results": 1},
		"jobs": [{"company": "Acme", "location": "Remote", "link": "https://x", "source": "linkedin", "scraped_at": "2026-01-01"}]
	}`

	err := ValidateSearchResults(doc)
	require.Error(t, err)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.NotEmpty(t, validationErr.Errors)
	assert.Contains(t, err.Error(), "title")
}

func TestValidateSearchResults_RejectsMissingMetadata(t *testing.T) {
	err := ValidateSearchResults(`{"jobs": []}`)
	require.Error(t, err)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestValidateJSONString_SchemaLoadFailure(t *testing.T) {
	err := ValidateJSONString("{not a schema", `{}`)
	require.Error(t, err)

	var loadErr *SchemaLoadError
	require.ErrorAs(t, err, &loadErr)
}

func TestValidationError_MessageNamesFields(t *testing.T) {
	err := &ValidationError{Errors: []FieldError{
		{Field: "jobs.0.title", Message: "is required"},
	}}
	assert.Contains(t, err.Error(), "jobs.0.title")
	assert.Contains(t, err.Error(), "is required")
}
