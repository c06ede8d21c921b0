// Package config loads, merges, and validates the workflow configuration
// file. The file holds shared defaults plus named profiles; a resolved
// profile is validated once at load time so every stage can trust it.
package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/rakshit/resume-workflow/internal/pipeline/stages"
)

// Config is one fully resolved workflow profile.
type Config struct {
	Workflow        WorkflowConfig        `yaml:"workflow"`
	Discovery       DiscoveryConfig       `yaml:"discovery"`
	Materialization MaterializationConfig `yaml:"materialization"`
	Tailoring       TailoringConfig       `yaml:"tailoring"`
	Compilation     CompilationConfig     `yaml:"compilation"`
}

// WorkflowConfig holds stage-independent run policy.
type WorkflowConfig struct {
	// ContinueOnError decides what happens when one work item fails: record
	// the failure and keep going, or abort the stage. Unset means abort.
	ContinueOnError *bool `yaml:"continue_on_error"`
	// StateFile is the path of the durable run state. Defaults to
	// .workflow_state_<profile>.json in the working directory.
	StateFile string `yaml:"state_file"`
	// DatabaseURL enables the optional run-history mirror when set.
	DatabaseURL string `yaml:"database_url"`
	// Confirmations gates the pause after each stage, keyed by stage name.
	// Missing entries default to prompting.
	Confirmations map[string]*bool `yaml:"confirmations"`
}

// DiscoveryConfig configures the job search stage.
type DiscoveryConfig struct {
	Enabled       *bool  `yaml:"enabled"`
	JobTitle      string `yaml:"job_title"`
	Location      string `yaml:"location"`
	MaxResults    int    `yaml:"max_results" validate:"min=0,max=500"`
	TimeFilter    string `yaml:"time_filter" validate:"omitempty,oneof=day 2days week 2weeks"`
	MaxApplicants int    `yaml:"max_applicants" validate:"min=0"`
	OutputDir     string `yaml:"output_dir"`
	UseBrowser    bool   `yaml:"use_browser"`
	DetailWorkers int    `yaml:"detail_workers" validate:"min=0,max=16"`
}

// MaterializationConfig configures selection and folder creation.
type MaterializationConfig struct {
	Enabled *bool `yaml:"enabled"`
	// Selection is "manual" (prompt the operator), "auto" (apply the Auto
	// policy), or a literal selection string such as "all" or "1,3".
	Selection   string     `yaml:"selection"`
	Auto        AutoPolicy `yaml:"auto"`
	TemplateDir string     `yaml:"template_dir"`
	OutputDir   string     `yaml:"output_dir"`
}

// AutoPolicy configures non-interactive selection.
type AutoPolicy struct {
	MaxApplicants int      `yaml:"max_applicants" validate:"min=0"`
	Keywords      []string `yaml:"keywords"`
	// AllowEmpty lets an auto selection that matches nothing complete the
	// stage with zero work items instead of failing the run.
	AllowEmpty bool `yaml:"allow_empty"`
}

// TailoringConfig configures the resume rewriting stage.
type TailoringConfig struct {
	Enabled *bool `yaml:"enabled"`
	// Backend is "agent" (external CLI agent run inside each folder) or
	// "gemini" (per-section rewrites through the Gemini API).
	Backend        string   `yaml:"backend" validate:"omitempty,oneof=agent gemini"`
	Sections       []string `yaml:"sections"`
	AgentCommand   string   `yaml:"agent_command"`
	Model          string   `yaml:"model"`
	TimeoutMinutes int      `yaml:"timeout_minutes" validate:"min=0"`
}

// CompilationConfig configures document compilation.
type CompilationConfig struct {
	Enabled  *bool  `yaml:"enabled"`
	Compiler string `yaml:"compiler"`
	Passes   int    `yaml:"passes" validate:"min=0,max=5"`
	BuildDir string `yaml:"build_dir"`
}

// File is the on-disk configuration document.
type File struct {
	Defaults Config            `yaml:"defaults"`
	Configs  map[string]Config `yaml:"configs"`
}

// Load reads the workflow file and returns the named profile merged over the
// file's defaults and the built-in fallbacks, fully validated.
func Load(path, name string) (*Config, error) {
	f, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	return f.Resolve(name)
}

// LoadFile reads and parses the workflow file without resolving a profile.
func LoadFile(path string) (*File, error) {
	if path == "" {
		return nil, fmt.Errorf("config error: no configuration file path given")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return &f, nil
}

// Names returns the profile names in sorted order.
func (f *File) Names() []string {
	names := make([]string, 0, len(f.Configs))
	for name := range f.Configs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve merges the named profile over the defaults, applies the built-in
// fallbacks, and validates the result.
func (f *File) Resolve(name string) (*Config, error) {
	profile, ok := f.Configs[name]
	if !ok {
		available := strings.Join(f.Names(), ", ")
		if available == "" {
			available = "none"
		}
		return nil, fmt.Errorf("config error: unknown config %q (available: %s)", name, available)
	}

	merged := profile.MergeWithDefaults(f.Defaults)
	merged = merged.MergeWithDefaults(builtinDefaults())
	if merged.Workflow.StateFile == "" {
		merged.Workflow.StateFile = fmt.Sprintf(".workflow_state_%s.json", name)
	}

	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}

// builtinDefaults is the fallback layer beneath the file's own defaults, so
// a sparse configuration still resolves to a runnable profile.
func builtinDefaults() Config {
	return Config{
		Discovery: DiscoveryConfig{
			MaxResults:    25,
			TimeFilter:    "week",
			OutputDir:     "job_searches",
			DetailWorkers: 4,
		},
		Materialization: MaterializationConfig{
			Selection:   "manual",
			TemplateDir: "resume_template",
			OutputDir:   "resumes",
		},
		Tailoring: TailoringConfig{
			Backend:        "agent",
			AgentCommand:   "claude",
			Model:          "gemini-1.5-flash",
			Sections:       []string{"experience", "skills", "projects"},
			TimeoutMinutes: 15,
		},
		Compilation: CompilationConfig{
			Compiler: "pdflatex",
			Passes:   2,
			BuildDir: "build",
		},
	}
}

// MergeWithDefaults fills unset fields from defaults, field by field.
// Strings merge when empty, ints when zero, pointers when nil, and slices
// and maps when absent. Plain bool fields cannot distinguish unset from
// false, so they are not merged; their zero value is the default.
func (c Config) MergeWithDefaults(defaults Config) Config {
	result := c

	if result.Workflow.ContinueOnError == nil {
		result.Workflow.ContinueOnError = defaults.Workflow.ContinueOnError
	}
	if result.Workflow.StateFile == "" {
		result.Workflow.StateFile = defaults.Workflow.StateFile
	}
	if result.Workflow.DatabaseURL == "" {
		result.Workflow.DatabaseURL = defaults.Workflow.DatabaseURL
	}
	result.Workflow.Confirmations = mergeConfirmations(result.Workflow.Confirmations, defaults.Workflow.Confirmations)

	if result.Discovery.Enabled == nil {
		result.Discovery.Enabled = defaults.Discovery.Enabled
	}
	if result.Discovery.JobTitle == "" {
		result.Discovery.JobTitle = defaults.Discovery.JobTitle
	}
	if result.Discovery.Location == "" {
		result.Discovery.Location = defaults.Discovery.Location
	}
	if result.Discovery.MaxResults == 0 {
		result.Discovery.MaxResults = defaults.Discovery.MaxResults
	}
	if result.Discovery.TimeFilter == "" {
		result.Discovery.TimeFilter = defaults.Discovery.TimeFilter
	}
	if result.Discovery.MaxApplicants == 0 {
		result.Discovery.MaxApplicants = defaults.Discovery.MaxApplicants
	}
	if result.Discovery.OutputDir == "" {
		result.Discovery.OutputDir = defaults.Discovery.OutputDir
	}
	if result.Discovery.DetailWorkers == 0 {
		result.Discovery.DetailWorkers = defaults.Discovery.DetailWorkers
	}

	if result.Materialization.Enabled == nil {
		result.Materialization.Enabled = defaults.Materialization.Enabled
	}
	if result.Materialization.Selection == "" {
		result.Materialization.Selection = defaults.Materialization.Selection
	}
	if result.Materialization.Auto.MaxApplicants == 0 {
		result.Materialization.Auto.MaxApplicants = defaults.Materialization.Auto.MaxApplicants
	}
	if result.Materialization.Auto.Keywords == nil {
		result.Materialization.Auto.Keywords = defaults.Materialization.Auto.Keywords
	}
	if result.Materialization.TemplateDir == "" {
		result.Materialization.TemplateDir = defaults.Materialization.TemplateDir
	}
	if result.Materialization.OutputDir == "" {
		result.Materialization.OutputDir = defaults.Materialization.OutputDir
	}

	if result.Tailoring.Enabled == nil {
		result.Tailoring.Enabled = defaults.Tailoring.Enabled
	}
	if result.Tailoring.Backend == "" {
		result.Tailoring.Backend = defaults.Tailoring.Backend
	}
	if result.Tailoring.Sections == nil {
		result.Tailoring.Sections = defaults.Tailoring.Sections
	}
	if result.Tailoring.AgentCommand == "" {
		result.Tailoring.AgentCommand = defaults.Tailoring.AgentCommand
	}
	if result.Tailoring.Model == "" {
		result.Tailoring.Model = defaults.Tailoring.Model
	}
	if result.Tailoring.TimeoutMinutes == 0 {
		result.Tailoring.TimeoutMinutes = defaults.Tailoring.TimeoutMinutes
	}

	if result.Compilation.Enabled == nil {
		result.Compilation.Enabled = defaults.Compilation.Enabled
	}
	if result.Compilation.Compiler == "" {
		result.Compilation.Compiler = defaults.Compilation.Compiler
	}
	if result.Compilation.Passes == 0 {
		result.Compilation.Passes = defaults.Compilation.Passes
	}
	if result.Compilation.BuildDir == "" {
		result.Compilation.BuildDir = defaults.Compilation.BuildDir
	}

	return result
}

// mergeConfirmations overlays profile entries on the default map per key.
func mergeConfirmations(profile, defaults map[string]*bool) map[string]*bool {
	if len(defaults) == 0 {
		return profile
	}
	merged := make(map[string]*bool, len(defaults)+len(profile))
	for k, v := range defaults {
		merged[k] = v
	}
	for k, v := range profile {
		merged[k] = v
	}
	return merged
}

// Validate checks field constraints and cross-field rules. It is called once
// at load time; stages never re-validate the configuration.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	if c.StageEnabled(stages.Discovery) && strings.TrimSpace(c.Discovery.JobTitle) == "" {
		return fmt.Errorf("config error: discovery is enabled but job_title is empty")
	}
	if c.StageEnabled(stages.Materialization) && strings.TrimSpace(c.Materialization.TemplateDir) == "" {
		return fmt.Errorf("config error: materialization is enabled but template_dir is empty")
	}
	if c.StageEnabled(stages.Tailoring) && len(c.Tailoring.Sections) == 0 {
		return fmt.Errorf("config error: tailoring is enabled but no sections are configured")
	}

	for name := range c.Workflow.Confirmations {
		if !stages.Valid(stages.Stage(name)) {
			return fmt.Errorf("config error: confirmations references unknown stage %q", name)
		}
	}
	return nil
}

// StageEnabled reports whether a stage should run. Unset means enabled.
func (c *Config) StageEnabled(stage stages.Stage) bool {
	switch stage {
	case stages.Discovery:
		return boolOr(c.Discovery.Enabled, true)
	case stages.Materialization:
		return boolOr(c.Materialization.Enabled, true)
	case stages.Tailoring:
		return boolOr(c.Tailoring.Enabled, true)
	case stages.Compilation:
		return boolOr(c.Compilation.Enabled, true)
	default:
		return false
	}
}

// ContinueOnError reports the per-item failure policy. Unset means abort on
// the first item failure.
func (c *Config) ContinueOnError() bool {
	return boolOr(c.Workflow.ContinueOnError, false)
}

// ConfirmAfter reports whether the engine should pause for confirmation
// after the stage completes. Stages without an entry default to prompting.
func (c *Config) ConfirmAfter(stage stages.Stage) bool {
	if v, ok := c.Workflow.Confirmations[string(stage)]; ok && v != nil {
		return *v
	}
	return true
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}
