package cli

import (
	"errors"
	"fmt"
	"strings"
)

const (
	ExitSuccess     = 0
	ExitNoMatch     = 1 // ни одно сообщение не нашло лот
	ExitInvalidArgs = 2
	ExitInput       = 3 // файл лотов не читается
	ExitInternal    = 4
)

type cliError struct {
	Code        string
	Message     string
	Suggestions []string
	ExitCode    int
}

func (e *cliError) Error() string { return e.Message }

func invalidArgsError(message string, suggestions ...string) error {
	return &cliError{Code: "INVALID_ARGS", Message: message, Suggestions: suggestions, ExitCode: ExitInvalidArgs}
}

func inputError(path string, err error) error {
	return &cliError{
		Code:        "INPUT",
		Message:     fmt.Sprintf("reading %s: %v", path, err),
		Suggestions: []string{"Supported lot files: .csv .tsv .xls .xlsx .txt"},
		ExitCode:    ExitInput,
	}
}

var errNoMatch = &cliError{Code: "NO_MATCH", Message: "no lot matched", ExitCode: ExitNoMatch}

func classify(err error) *cliError {
	var typed *cliError
	if errors.As(err, &typed) {
		return typed
	}
	msg := strings.TrimSpace(err.Error())
	if strings.Contains(msg, "unknown flag") || strings.Contains(msg, "unknown command") ||
		strings.Contains(msg, "required flag") || strings.Contains(msg, "invalid argument") ||
		strings.Contains(msg, "arg(s)") {
		return &cliError{Code: "INVALID_ARGS", Message: msg, ExitCode: ExitInvalidArgs}
	}
	return &cliError{Code: "INTERNAL", Message: msg, ExitCode: ExitInternal}
}

func (e *cliError) text() string {
	lines := []string{fmt.Sprintf("error[%s]: %s", strings.ToLower(e.Code), e.Message)}
	if len(e.Suggestions) > 0 {
		lines = append(lines, "suggestions:")
		for _, s := range e.Suggestions {
			lines = append(lines, "  "+s)
		}
	}
	return strings.Join(lines, "\n")
}
