package tailor

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

//go:embed prompts.json
var promptData []byte

var (
	promptOnce sync.Once
	promptMap  map[string]string
	promptErr  error
)

// getPrompt retrieves an embedded prompt template by key.
func getPrompt(key string) (string, error) {
	promptOnce.Do(func() {
		promptErr = json.Unmarshal(promptData, &promptMap)
	})
	if promptErr != nil {
		return "", fmt.Errorf("failed to parse embedded prompts: %w", promptErr)
	}

	prompt, exists := promptMap[key]
	if !exists {
		return "", fmt.Errorf("prompt key %q not found", key)
	}
	return prompt, nil
}

// formatPrompt replaces template placeholders in the form {{.Key}} with
// values from data. Placeholders without a matching key are left as is.
func formatPrompt(template string, data map[string]string) string {
	result := template
	for key, value := range data {
		placeholder := fmt.Sprintf("{{.%s}}", key)
		result = strings.ReplaceAll(result, placeholder, value)
	}
	return result
}
