package memory

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// templateFuncs mirrors the small set of string helpers a memory template
// is likely to need when rendering block values into custom prose.
func templateFuncs() template.FuncMap {
	titleCase := cases.Title(language.Und)
	return template.FuncMap{
		"upper": strings.ToUpper,
		"lower": strings.ToLower,
		"title": titleCase.String,
		"trim":  strings.TrimSpace,
	}
}

// renderTemplateString binds vars (label -> block value) into tmplStr and
// executes it.
func renderTemplateString(tmplStr string, vars map[string]any) (string, error) {
	t, err := template.New("memory").Funcs(templateFuncs()).Parse(tmplStr)
	if err != nil {
		return "", fmt.Errorf("parse memory template: %w", err)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, vars); err != nil {
		return "", fmt.Errorf("execute memory template: %w", err)
	}
	return buf.String(), nil
}
