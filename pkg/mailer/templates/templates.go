package templates

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	texttpl "text/template"
)

//go:embed *.tmpl
var FS embed.FS

// Notification template names.
const (
	NewFollower = "new_follower"
	NewComment  = "new_comment"
)

var funcs = texttpl.FuncMap{
	"default": func(fallback, value any) any {
		if s, ok := value.(string); ok && strings.TrimSpace(s) == "" {
			return fallback
		}
		if value == nil {
			return fallback
		}
		return value
	},
}

// Render executes the "subject" and "text" blocks of the named template.
func Render(name string, data map[string]any) (subject, text string, err error) {
	t, err := texttpl.New(name).Funcs(funcs).ParseFS(FS, name+".tmpl")
	if err != nil {
		return "", "", fmt.Errorf("parse %s: %w", name, err)
	}
	var sb, tb bytes.Buffer
	if err := t.ExecuteTemplate(&sb, "subject", data); err != nil {
		return "", "", fmt.Errorf("render %s subject: %w", name, err)
	}
	if err := t.ExecuteTemplate(&tb, "text", data); err != nil {
		return "", "", fmt.Errorf("render %s text: %w", name, err)
	}
	return strings.TrimSpace(sb.String()), strings.TrimSpace(tb.String()) + "\n", nil
}
