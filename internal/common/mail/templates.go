package mail

import (
	"fmt"
	"strconv"
	"strings"

	"onboarding-workers/internal/common/config"
	"onboarding-workers/internal/models"
)

type templateKey struct {
	id     int64
	locale string
}

// Registry holds localized templates keyed by template id and locale.
// It is built once at startup and only read afterwards.
type Registry struct {
	templates map[templateKey]models.NotificationTemplate
}

func NewRegistry(templates []config.TemplateConfig) *Registry {
	r := &Registry{templates: make(map[templateKey]models.NotificationTemplate, len(templates))}
	for _, t := range templates {
		r.templates[templateKey{id: t.ID, locale: t.Locale}] = models.NotificationTemplate{
			ID:      t.ID,
			Locale:  t.Locale,
			Subject: t.Subject,
			Body:    t.Body,
		}
	}
	return r
}

// Render resolves the notification's template and substitutes {{0}}, {{1}}, ... with its params.
func (r *Registry) Render(n *models.Notification) (subject, body string, err error) {
	tmpl, ok := r.templates[templateKey{id: n.TemplateID, locale: n.Locale}]
	if !ok {
		return "", "", fmt.Errorf("template %d not registered for locale %q", n.TemplateID, n.Locale)
	}
	return fill(tmpl.Subject, n.Params), fill(tmpl.Body, n.Params), nil
}

func fill(text string, params []string) string {
	if len(params) == 0 {
		return text
	}
	pairs := make([]string, 0, len(params)*2)
	for i, p := range params {
		pairs = append(pairs, "{{"+strconv.Itoa(i)+"}}", p)
	}
	return strings.NewReplacer(pairs...).Replace(text)
}
