package tailor

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGeminiTailor_RequiresAPIKey(t *testing.T) {
	_, err := NewGeminiTailor(context.Background(), "", "", nil)
	require.Error(t, err)

	var terr *Error
	require.True(t, errors.As(err, &terr))
	assert.Contains(t, terr.Message, "GEMINI_API_KEY")
}

func TestCleanLaTeXBlock(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", `\section{Experience}`, `\section{Experience}`},
		{"latex fence", "```latex\n\\section{Experience}\n```", `\section{Experience}`},
		{"tex fence", "```tex\n\\item Built APIs\n```", `\item Built APIs`},
		{"bare fence", "```\n\\item Built APIs\n```", `\item Built APIs`},
		{"surrounding whitespace", "  \n\\item Built APIs\n  ", `\item Built APIs`},
		{"unterminated fence", "```latex\n\\item Built APIs", `\item Built APIs`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanLaTeXBlock(tt.input))
		})
	}
}

func TestSectionPath(t *testing.T) {
	got := sectionPath(filepath.Join("resumes", "acme_corp_a1b2c3"), "experience")
	assert.Equal(t, filepath.Join("resumes", "acme_corp_a1b2c3", "sections", "experience.tex"), got)
}

func TestErrorFormatting(t *testing.T) {
	cause := errors.New("boom")
	err := &Error{Dir: "resumes/acme_corp_a1b2c3", Message: "rewrite of section skills failed", Cause: cause}

	assert.Contains(t, err.Error(), "resumes/acme_corp_a1b2c3")
	assert.Contains(t, err.Error(), "rewrite of section skills failed")
	assert.ErrorIs(t, err, cause)

	noDir := &Error{Message: "Gemini API key is required (set GEMINI_API_KEY)"}
	assert.Equal(t, "tailoring error: Gemini API key is required (set GEMINI_API_KEY)", noDir.Error())
}
