package workspace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rakshit/resume-workflow/internal/types"
)

func makeTemplate(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "resume_template")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sections"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "resume.tex"), []byte(`\documentclass{article}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sections", "experience.tex"), []byte(`\section{Experience}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "build.sh"), []byte("#!/bin/sh\npdflatex resume.tex\n"), 0o755))
	return dir
}

func sampleListing() types.JobListing {
	count := 9
	return types.JobListing{
		Title:          "Go Developer",
		Company:        "Acme Corp",
		Location:       "Remote",
		Link:           "https://example.com/jobs/1",
		JobID:          "1",
		Applicants:     &count,
		Source:         "linkedin",
		ScrapedAt:      "2026-08-20T00:00:00Z",
		JobDescription: "Build services in Go.",
		SkillsRequired: []string{"Go", "PostgreSQL"},
	}
}

func TestCreate_CopiesTemplateAndWritesDetails(t *testing.T) {
	m := &Materializer{TemplateDir: makeTemplate(t), OutputDir: filepath.Join(t.TempDir(), "resumes")}
	require.NoError(t, m.Preflight())

	item, existed, err := m.Create(sampleListing(), "Go Developer")
	require.NoError(t, err)
	assert.False(t, existed)
	assert.Equal(t, "Go Developer", item.Category)
	assert.Regexp(t, `^acme_corp_[0-9a-f]{6}$`, item.Folder)

	assert.FileExists(t, filepath.Join(item.Path, "resume.tex"))
	assert.FileExists(t, filepath.Join(item.Path, "sections", "experience.tex"))
	assert.FileExists(t, filepath.Join(item.Path, DetailsFileName))

	details, err := ReadJobDetails(item.Path)
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", details.CompanyName)
	assert.Equal(t, "Go Developer", details.JobTitle)
	assert.Equal(t, "Build services in Go.", details.JobDescription)
	assert.Equal(t, item.Folder, details.Folder)
	require.NotNil(t, details.Applicants)
	assert.Equal(t, 9, *details.Applicants)
	assert.NotEmpty(t, details.CreatedAt)
}

func TestCreate_PreservesFileMode(t *testing.T) {
	m := &Materializer{TemplateDir: makeTemplate(t), OutputDir: t.TempDir()}

	item, _, err := m.Create(sampleListing(), "Go Developer")
	require.NoError(t, err)

	info, err := os.Stat(filepath.Join(item.Path, "build.sh"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())
}

func TestCreate_SecondCallReportsExisting(t *testing.T) {
	m := &Materializer{TemplateDir: makeTemplate(t), OutputDir: t.TempDir()}

	first, existed, err := m.Create(sampleListing(), "Go Developer")
	require.NoError(t, err)
	require.False(t, existed)

	// Tailoring may have rewritten a section; a re-run must not clobber it.
	edited := filepath.Join(first.Path, "sections", "experience.tex")
	require.NoError(t, os.WriteFile(edited, []byte(`\section{Tailored}`), 0o644))

	second, existed, err := m.Create(sampleListing(), "Go Developer")
	require.NoError(t, err)
	assert.True(t, existed)
	assert.Equal(t, first.Folder, second.Folder)

	content, err := os.ReadFile(edited)
	require.NoError(t, err)
	assert.Equal(t, `\section{Tailored}`, string(content))
}

func TestCreate_FinishesPartialFolder(t *testing.T) {
	m := &Materializer{TemplateDir: makeTemplate(t), OutputDir: t.TempDir()}

	// Simulate a crash that copied part of the template but never wrote the
	// job record.
	listing := sampleListing()
	first, _, err := m.Create(listing, "Go Developer")
	require.NoError(t, err)
	require.NoError(t, os.Remove(filepath.Join(first.Path, DetailsFileName)))
	require.NoError(t, os.Remove(filepath.Join(first.Path, "resume.tex")))

	second, existed, err := m.Create(listing, "Go Developer")
	require.NoError(t, err)
	assert.False(t, existed, "a folder without its job record is not complete")
	assert.FileExists(t, filepath.Join(second.Path, "resume.tex"))
	assert.FileExists(t, filepath.Join(second.Path, DetailsFileName))
}

func TestCreate_DistinctListingsGetDistinctFolders(t *testing.T) {
	m := &Materializer{TemplateDir: makeTemplate(t), OutputDir: t.TempDir()}

	first, _, err := m.Create(sampleListing(), "Go Developer")
	require.NoError(t, err)

	other := sampleListing()
	other.Title = "Staff Engineer"
	second, _, err := m.Create(other, "Go Developer")
	require.NoError(t, err)

	assert.NotEqual(t, first.Folder, second.Folder)
}

func TestPreflight_MissingTemplate(t *testing.T) {
	m := &Materializer{TemplateDir: filepath.Join(t.TempDir(), "absent"), OutputDir: t.TempDir()}
	err := m.Preflight()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "template directory")
}

func TestPreflight_TemplateIsAFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "template")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	m := &Materializer{TemplateDir: path, OutputDir: t.TempDir()}
	err := m.Preflight()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")
}

func TestReadJobDetails_MissingRecord(t *testing.T) {
	_, err := ReadJobDetails(t.TempDir())
	require.Error(t, err)
}
