// Package workspace materializes per-job working folders: a copy of the
// resume template plus a job_details.json record describing the posting the
// folder targets.
package workspace

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/rakshit/resume-workflow/internal/identity"
	"github.com/rakshit/resume-workflow/internal/types"
)

// DetailsFileName is the job record written into each materialized folder.
// Its presence marks the folder as fully materialized.
const DetailsFileName = "job_details.json"

// JobDetails is the per-folder job record consumed by the tailoring stage
// and by whoever opens the folder later.
type JobDetails struct {
	CompanyName    string   `json:"company_name"`
	JobTitle       string   `json:"job_title"`
	Location       string   `json:"location,omitempty"`
	Link           string   `json:"link,omitempty"`
	JobID          string   `json:"job_id,omitempty"`
	Folder         string   `json:"folder"`
	JobDescription string   `json:"job_description"`
	JobType        string   `json:"job_type,omitempty"`
	SeniorityLevel string   `json:"seniority_level,omitempty"`
	SkillsRequired []string `json:"skills_required,omitempty"`
	SalaryRange    string   `json:"salary_range,omitempty"`
	Applicants     *int     `json:"applicants,omitempty"`
	Source         string   `json:"source,omitempty"`
	CreatedAt      string   `json:"created_at"`
}

// Materializer creates work folders from the template.
type Materializer struct {
	TemplateDir string
	OutputDir   string
}

// Preflight verifies the template directory exists before any folder is
// created, so a misconfigured run fails before touching the output tree.
func (m *Materializer) Preflight() error {
	info, err := os.Stat(m.TemplateDir)
	if err != nil {
		return fmt.Errorf("template directory %s: %w", m.TemplateDir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("template path %s is not a directory", m.TemplateDir)
	}
	return nil
}

// Create copies the template tree into the listing's folder and writes its
// job record. Creation is idempotent per folder name: a folder that already
// carries its job record is left untouched and reported as existing. The
// job record is written last, so a partially copied folder from an earlier
// crash is finished rather than trusted.
func (m *Materializer) Create(listing types.JobListing, category string) (*types.WorkItem, bool, error) {
	folder := identity.FolderName(listing)
	path := filepath.Join(m.OutputDir, folder)
	item := &types.WorkItem{
		Category: category,
		Folder:   folder,
		Path:     path,
		Status:   types.ItemStatusPending,
		Listing:  &listing,
	}

	if _, err := os.Stat(filepath.Join(path, DetailsFileName)); err == nil {
		return item, true, nil
	}

	if err := copyTree(m.TemplateDir, path); err != nil {
		return nil, false, fmt.Errorf("failed to copy template into %s: %w", path, err)
	}
	if err := writeJobDetails(path, listing, folder); err != nil {
		return nil, false, err
	}
	return item, false, nil
}

// ReadJobDetails loads the job record from a materialized folder.
func ReadJobDetails(dir string) (*JobDetails, error) {
	path := filepath.Join(dir, DetailsFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read job details %s: %w", path, err)
	}
	var details JobDetails
	if err := json.Unmarshal(data, &details); err != nil {
		return nil, fmt.Errorf("failed to parse job details %s: %w", path, err)
	}
	return &details, nil
}

// copyTree copies the template directory tree into dst, creating missing
// directories and overwriting files left by an interrupted copy.
func copyTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return os.WriteFile(target, data, info.Mode().Perm())
	})
}

func writeJobDetails(dir string, listing types.JobListing, folder string) error {
	details := JobDetails{
		CompanyName:    listing.Company,
		JobTitle:       listing.Title,
		Location:       listing.Location,
		Link:           listing.Link,
		JobID:          listing.JobID,
		Folder:         folder,
		JobDescription: listing.JobDescription,
		JobType:        listing.JobType,
		SeniorityLevel: listing.SeniorityLevel,
		SkillsRequired: listing.SkillsRequired,
		SalaryRange:    listing.SalaryRange,
		Applicants:     listing.Applicants,
		Source:         listing.Source,
		CreatedAt:      time.Now().UTC().Format(time.RFC3339),
	}

	data, err := json.MarshalIndent(details, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal job details: %w", err)
	}

	path := filepath.Join(dir, DetailsFileName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write job details %s: %w", path, err)
	}
	return nil
}
