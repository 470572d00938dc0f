package templates

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	htmpl "html/template"
	"strings"
	"sync"
	texttpl "text/template"
	"time"
)

//go:embed *.tmpl
var FS embed.FS

const Welcome = "welcome"

// ErrUnknownTemplate is returned by Render for a name with no embedded set.
var ErrUnknownTemplate = errors.New("unknown email template")

var known = []string{Welcome}

// set is the parsed subject/text/html triple for one template name.
type set struct {
	subject *texttpl.Template
	text    *texttpl.Template
	html    *htmpl.Template
}

var (
	parseOnce sync.Once
	sets      map[string]*set
	parseErr  error
)

// defaultFn supports {{ .Value | default "Fallback" }} for strings and nil.
func defaultFn(fallback, value any) any {
	switch x := value.(type) {
	case nil:
		return fallback
	case string:
		if strings.TrimSpace(x) == "" {
			return fallback
		}
	}
	return value
}

func funcs() map[string]any {
	return map[string]any{
		"year":    func() int { return time.Now().UTC().Year() },
		"default": defaultFn,
	}
}

func parseSet(name string) (*set, error) {
	subject, err := texttpl.New(name+".subject.tmpl").Funcs(funcs()).ParseFS(FS, name+".subject.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse %s subject: %w", name, err)
	}
	text, err := texttpl.New(name+".text.tmpl").Funcs(funcs()).ParseFS(FS, name+".text.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse %s text: %w", name, err)
	}
	html, err := htmpl.New(name+".html.tmpl").Funcs(funcs()).ParseFS(FS, name+".html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse %s html: %w", name, err)
	}
	return &set{subject: subject, text: text, html: html}, nil
}

func load() (map[string]*set, error) {
	parseOnce.Do(func() {
		sets = make(map[string]*set, len(known))
		for _, name := range known {
			s, err := parseSet(name)
			if err != nil {
				parseErr = err
				return
			}
			sets[name] = s
		}
	})
	return sets, parseErr
}

// Render executes the subject, text and html templates registered under name.
// Templates are parsed once, on first use.
func Render(name string, data any) (subject, text, html string, err error) {
	all, err := load()
	if err != nil {
		return "", "", "", err
	}
	s, ok := all[name]
	if !ok {
		return "", "", "", fmt.Errorf("%w: %q", ErrUnknownTemplate, name)
	}

	var sb, tb, hb bytes.Buffer
	if err := s.subject.Execute(&sb, data); err != nil {
		return "", "", "", fmt.Errorf("exec %s subject: %w", name, err)
	}
	if err := s.text.Execute(&tb, data); err != nil {
		return "", "", "", fmt.Errorf("exec %s text: %w", name, err)
	}
	if err := s.html.Execute(&hb, data); err != nil {
		return "", "", "", fmt.Errorf("exec %s html: %w", name, err)
	}
	return strings.TrimSpace(sb.String()), tb.String(), hb.String(), nil
}
