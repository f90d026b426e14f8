package grading

import (
	"bytes"
	"io"
	"os"
	"text/template"

	"github.com/pkg/errors"
)

const (
	SYSTEM_PROMPT_PATH  = "prompts/system.md"
	PROMPT_PERSONA_PATH = "prompts/persona.md"
)

func readPrompt(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", errors.Wrapf(err, "could not open prompt file %s", path)
	}
	defer file.Close()

	promptBytes, err := io.ReadAll(file)
	if err != nil {
		return "", errors.Wrapf(err, "could not read prompt file %s", path)
	}
	return string(promptBytes), nil
}

// Prepare the prompt for the LLM: the template comes from a file and is
// re-read on every call, so prompt changes do not require a restart.
func preparePrompt(promptPath string, data map[string]string) (string, error) {
	promptContent, err := readPrompt(promptPath)
	if err != nil {
		return "", errors.Wrap(err, "could not read prompt file")
	}

	t, err := template.New(promptPath).Parse(promptContent)
	if err != nil {
		return "", errors.Wrapf(err, "could not parse template %s", promptPath)
	}
	buf := bytes.Buffer{}
	if err := t.Execute(&buf, data); err != nil {
		return "", errors.Wrap(err, "could not execute template")
	}
	return buf.String(), nil
}
