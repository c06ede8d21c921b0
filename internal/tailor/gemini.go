package tailor

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/rakshit/resume-workflow/internal/workspace"
)

// DefaultGeminiModel is used when the config names no model.
const DefaultGeminiModel = "gemini-1.5-flash"

// GeminiTailor rewrites section files one at a time through the Gemini API.
type GeminiTailor struct {
	client *genai.Client
	model  string
	logger *slog.Logger
}

// NewGeminiTailor creates a Gemini-backed tailor. The API key is required.
func NewGeminiTailor(ctx context.Context, apiKey, model string, logger *slog.Logger) (*GeminiTailor, error) {
	if apiKey == "" {
		return nil, &Error{Message: "Gemini API key is required (set GEMINI_API_KEY)"}
	}
	if model == "" {
		model = DefaultGeminiModel
	}
	if logger == nil {
		logger = slog.Default()
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, &Error{Message: "failed to create Gemini client", Cause: err}
	}

	return &GeminiTailor{client: client, model: model, logger: logger}, nil
}

// Close releases the underlying API client.
func (g *GeminiTailor) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

// Run rewrites each named section file against the folder's job record.
// Sections whose file is missing are skipped with a warning; a section that
// fails to rewrite fails the whole folder.
func (g *GeminiTailor) Run(ctx context.Context, dir string, sections []string) error {
	details, err := workspace.ReadJobDetails(dir)
	if err != nil {
		return &Error{Dir: dir, Message: "cannot read job record", Cause: err}
	}

	template, err := getPrompt("tailor_section")
	if err != nil {
		return &Error{Dir: dir, Message: "cannot load section prompt", Cause: err}
	}

	for _, section := range sections {
		path := sectionPath(dir, section)
		content, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				g.logger.Warn("section file missing, skipping", "section", section, "dir", dir)
				continue
			}
			return &Error{Dir: dir, Message: fmt.Sprintf("cannot read section %s", section), Cause: err}
		}

		prompt := formatPrompt(template, map[string]string{
			"JobTitle":       details.JobTitle,
			"Company":        details.CompanyName,
			"JobDescription": details.JobDescription,
			"Section":        section,
			"Content":        string(content),
		})

		rewritten, err := g.generate(ctx, prompt)
		if err != nil {
			return &Error{Dir: dir, Message: fmt.Sprintf("rewrite of section %s failed", section), Cause: err}
		}
		if strings.TrimSpace(rewritten) == "" {
			return &Error{Dir: dir, Message: fmt.Sprintf("rewrite of section %s returned empty content", section)}
		}

		if err := os.WriteFile(path, []byte(rewritten+"\n"), 0644); err != nil {
			return &Error{Dir: dir, Message: fmt.Sprintf("cannot write section %s", section), Cause: err}
		}
		g.logger.Debug("section rewritten", "section", section, "dir", dir)
	}
	return nil
}

func (g *GeminiTailor) generate(ctx context.Context, prompt string) (string, error) {
	model := g.client.GenerativeModel(g.model)
	model.SetTemperature(0.3)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}

	text, err := extractText(resp)
	if err != nil {
		return "", err
	}
	return cleanLaTeXBlock(text), nil
}

// extractText flattens the first candidate's text parts.
func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}
	return strings.Join(parts, ""), nil
}

// cleanLaTeXBlock removes markdown code fences that models add around LaTeX
// even when instructed not to.
func cleanLaTeXBlock(text string) string {
	text = strings.TrimSpace(text)
	for _, prefix := range []string{"```latex", "```tex", "```"} {
		if strings.HasPrefix(text, prefix) {
			text = strings.TrimPrefix(text, prefix)
			break
		}
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}
