package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/harrison/cardiorisk/internal/models"
	"gopkg.in/yaml.v3"
)

// LineReader defines interface for reading user input (for testing)
type LineReader interface {
	ReadString(delim byte) (string, error)
}

// newLineReader wraps r for line-by-line prompts.
func newLineReader(r io.Reader) LineReader {
	if lr, ok := r.(LineReader); ok {
		return lr
	}
	return bufio.NewReader(r)
}

// readLine reads one trimmed line. A final line without a newline is
// returned with a nil error; io.EOF is only returned when nothing was read.
func readLine(r LineReader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		if err == io.EOF && line != "" {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// loadAnswers reads a YAML mapping of form field to value, e.g.
//
//	age: 54
//	gender: 1
//	stDepression: 1.5
func loadAnswers(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read answers file: %w", err)
	}

	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse answers file: %w", err)
	}

	answers := make(map[string]string, len(raw))
	var unknown []string
	for key, value := range raw {
		if !models.IsField(key) {
			unknown = append(unknown, key)
			continue
		}
		s, err := scalarString(value)
		if err != nil {
			return nil, fmt.Errorf("answers file: %s: %w", key, err)
		}
		answers[key] = s
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, fmt.Errorf("answers file: unknown fields: %s", strings.Join(unknown, ", "))
	}
	return answers, nil
}

func scalarString(v interface{}) (string, error) {
	switch t := v.(type) {
	case nil:
		return "", nil
	case string:
		return t, nil
	case int:
		return strconv.Itoa(t), nil
	case int64:
		return strconv.FormatInt(t, 10), nil
	case uint64:
		return strconv.FormatUint(t, 10), nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	case bool:
		if t {
			return "1", nil
		}
		return "0", nil
	default:
		return "", fmt.Errorf("expected a number or string, got %T", v)
	}
}
