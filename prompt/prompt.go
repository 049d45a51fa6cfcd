package prompt

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

var placeholderRe = regexp.MustCompile(`\{([a-zA-Z_][a-zA-Z0-9_]*)\}`)

// Template is a prompt template with {name} placeholders.
type Template struct {
	template  string
	variables []string
}

// NewPromptTemplate parses a template and records its placeholder names.
func NewPromptTemplate(template string) (*Template, error) {
	if strings.TrimSpace(template) == "" {
		return nil, errors.New("prompt template is empty")
	}
	matches := placeholderRe.FindAllStringSubmatch(template, -1)
	variables := make([]string, 0, len(matches))
	seen := make(map[string]struct{}, len(matches))
	for _, m := range matches {
		if _, ok := seen[m[1]]; ok {
			continue
		}
		seen[m[1]] = struct{}{}
		variables = append(variables, m[1])
	}
	return &Template{
		template:  template,
		variables: variables,
	}, nil
}

// Variables returns the placeholder names in first-occurrence order.
func (t *Template) Variables() []string {
	return t.variables
}

// Format substitutes values into the template. Every placeholder must be
// present in values; extra values are ignored.
func (t *Template) Format(values map[string]any) (string, error) {
	out := t.template
	for _, name := range t.variables {
		v, ok := values[name]
		if !ok {
			return "", errors.Errorf("missing value for template variable %q", name)
		}
		out = strings.ReplaceAll(out, "{"+name+"}", fmt.Sprint(v))
	}
	return out, nil
}
