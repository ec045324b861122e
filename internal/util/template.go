package util

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
)

// RenderTemplate expands text/template actions in text using vars.
// Referencing a variable that is not in vars is an error.
func RenderTemplate(text string, vars map[string]any) (string, error) {
	if !strings.Contains(text, "{{") { // fast path: no template markers
		return text, nil
	}

	tmpl, err := template.New("instructions").
		Option("missingkey=error").
		Funcs(template.FuncMap{
			"default": func(defaultVal any, val any) any {
				if val == nil || val == "" {
					return defaultVal
				}
				return val
			},
			"upper": strings.ToUpper,
			"lower": strings.ToLower,
			"join": func(sep string, items []any) string {
				strItems := make([]string, len(items))
				for i, item := range items {
					strItems[i] = fmt.Sprintf("%v", item)
				}
				return strings.Join(strItems, sep)
			},
		}).Parse(text)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, vars); err != nil {
		return "", err
	}

	return buf.String(), nil
}
