package page

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"

	"ory-session-page/internal/config"
)

//go:embed templates/*.html
var templatesFS embed.FS

const Title = "Ory Session Demo"

// View is the data handed to the templates.
type View struct {
	Title           string
	State           *State
	SessionJSON     string
	SettingsURL     string
	LoginURL        string
	RegistrationURL string
}

// Renderer turns a page State into HTML.
type Renderer struct {
	templates *template.Template
	links     Links
}

// Links are the provider flows the page points the browser at.
type Links struct {
	Settings     string
	Login        string
	Registration string
}

// LinksFor resolves the browser flow links, through the local proxy when it is enabled.
func LinksFor(cfg config.IdentityConfig) Links {
	base := cfg.PublicURL
	if cfg.IsProxyEnabled() {
		base = cfg.ProxyPath
	}

	return Links{
		Settings:     base + cfg.SettingsPath,
		Login:        base + cfg.LoginPath,
		Registration: base + cfg.RegistrationPath,
	}
}

func NewRenderer(cfg config.IdentityConfig) (*Renderer, error) {
	templates, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse page templates: %w", err)
	}

	return &Renderer{
		templates: templates,
		links:     LinksFor(cfg),
	}, nil
}

func (r *Renderer) Render(w io.Writer, state *State) error {
	view := View{
		Title:           Title,
		State:           state,
		SettingsURL:     r.links.Settings,
		LoginURL:        r.links.Login,
		RegistrationURL: r.links.Registration,
	}

	if state.HasSession() {
		view.SessionJSON = prettyJSON(state.Session)
	}

	if err := r.templates.ExecuteTemplate(w, "layout", view); err != nil {
		return fmt.Errorf("failed to render page: %w", err)
	}

	return nil
}

func prettyJSON(raw json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return string(raw)
	}
	return buf.String()
}
