package build

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
	}
}

func TestFindMainTex(t *testing.T) {
	t.Run("prefers resume.tex", func(t *testing.T) {
		dir := t.TempDir()
		writeFiles(t, dir, "resume.tex", "main.tex", "notes.tex")

		name, err := findMainTex(dir)
		require.NoError(t, err)
		assert.Equal(t, "resume.tex", name)
	})

	t.Run("falls back to main.tex", func(t *testing.T) {
		dir := t.TempDir()
		writeFiles(t, dir, "main.tex", "notes.tex")

		name, err := findMainTex(dir)
		require.NoError(t, err)
		assert.Equal(t, "main.tex", name)
	})

	t.Run("single tex file", func(t *testing.T) {
		dir := t.TempDir()
		writeFiles(t, dir, "cv.tex")

		name, err := findMainTex(dir)
		require.NoError(t, err)
		assert.Equal(t, "cv.tex", name)
	})

	t.Run("no tex file", func(t *testing.T) {
		dir := t.TempDir()
		writeFiles(t, dir, "readme.md")

		_, err := findMainTex(dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no .tex file found")
	})

	t.Run("ambiguous tex files", func(t *testing.T) {
		dir := t.TempDir()
		writeFiles(t, dir, "alpha.tex", "beta.tex")

		_, err := findMainTex(dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "alpha.tex")
		assert.Contains(t, err.Error(), "beta.tex")
	})
}

func TestCompile_MissingCompiler(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "resume.tex")

	_, err := Compile(context.Background(), dir, Options{Compiler: "definitely-not-a-compiler-xyz"})
	require.Error(t, err)

	var cerr *Error
	require.True(t, errors.As(err, &cerr))
	assert.Contains(t, cerr.Message, "definitely-not-a-compiler-xyz")
	assert.Contains(t, cerr.Message, "not found in PATH")
}

func TestRelocateIntermediates(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "acme_corp_a1b2c3")
	require.NoError(t, os.MkdirAll(dir, 0755))
	writeFiles(t, dir, "resume.tex", "resume.pdf", "resume.aux", "resume.log", "resume.out")
	buildDir := filepath.Join(t.TempDir(), "build")

	require.NoError(t, relocateIntermediates(dir, "resume", buildDir))

	for _, ext := range []string{".aux", ".log", ".out"} {
		assert.FileExists(t, filepath.Join(buildDir, "acme_corp_a1b2c3"+ext))
		assert.NoFileExists(t, filepath.Join(dir, "resume"+ext))
	}
	// The document and its output stay put.
	assert.FileExists(t, filepath.Join(dir, "resume.tex"))
	assert.FileExists(t, filepath.Join(dir, "resume.pdf"))
}

func TestLogTail(t *testing.T) {
	assert.Equal(t, "", logTail("", 3))
	assert.Equal(t, "a\nb", logTail("a\nb\n", 3))
	assert.Equal(t, "c\nd\ne", logTail("a\nb\nc\nd\ne", 3))
}

func TestCompile_RealToolchain(t *testing.T) {
	if _, err := exec.LookPath("pdflatex"); err != nil {
		t.Skip("pdflatex not available, skipping compilation test")
	}

	dir := filepath.Join(t.TempDir(), "acme_corp_a1b2c3")
	require.NoError(t, os.MkdirAll(dir, 0755))
	content := `\documentclass{article}
\begin{document}
Hello, World!
\end{document}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "resume.tex"), []byte(content), 0644))
	buildDir := filepath.Join(t.TempDir(), "build")

	res, err := Compile(context.Background(), dir, Options{BuildDir: buildDir})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "resume.pdf"), res.PDFPath)
	assert.FileExists(t, res.PDFPath)

	// Intermediates left the folder for the shared build directory.
	assert.NoFileExists(t, filepath.Join(dir, "resume.log"))
	assert.FileExists(t, filepath.Join(buildDir, "acme_corp_a1b2c3.log"))
}
