package internal

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/folio/internal/frontmatter"
	"github.com/starford/folio/internal/library"
	"github.com/starford/folio/internal/markdown"
	"github.com/starford/folio/internal/site"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Content sources.
const (
	SourceFS   = "fs"
	SourceHTTP = "http"
)

// Config represents the application configuration.
type Config struct {
	App      ApplicationConfig `yaml:"app"`
	Site     SiteConfig        `yaml:"site"`
	Sections []SectionConfig   `yaml:"sections"`
	Render   RenderConfig      `yaml:"render"`
	Fields   site.Fields       `yaml:"fields"`
	SQLite   SQLiteConfig      `yaml:"sqlite"`
	Auth     AuthConfig        `yaml:"auth"`
	Watch    WatchConfig       `yaml:"watch"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Site.Validate(); err != nil {
		return fmt.Errorf("site: %w", err)
	}
	if err := c.validateSections(); err != nil {
		return err
	}
	if err := c.Render.Validate(); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	if err := c.SQLite.Validate(); err != nil {
		return fmt.Errorf("sqlite: %w", err)
	}
	return c.Auth.Validate()
}

func (c *Config) validateSections() error {
	if len(c.Sections) == 0 {
		return errors.New("sections: at least one section is required")
	}
	seen := make(map[string]struct{}, len(c.Sections))
	for i := range c.Sections {
		s := &c.Sections[i]
		if err := s.Validate(); err != nil {
			return fmt.Errorf("sections[%d]: %w", i, err)
		}
		if _, dup := seen[s.Name]; dup {
			return fmt.Errorf("sections: duplicate name %q", s.Name)
		}
		seen[s.Name] = struct{}{}
	}
	return nil
}

// LibrarySections converts the configured sections for the library.
func (c *Config) LibrarySections() []library.Section {
	out := make([]library.Section, len(c.Sections))
	for i, s := range c.Sections {
		out[i] = library.Section(s)
	}
	return out
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// SiteConfig says where the published site lives. With source "fs" files
// are read from Root and served as static assets; with "http" they are
// fetched from BaseURL.
type SiteConfig struct {
	Root         string        `yaml:"root"`
	Source       string        `yaml:"source"`
	BaseURL      string        `yaml:"base_url"`
	FetchTimeout time.Duration `yaml:"fetch_timeout"`
	Concurrency  int           `yaml:"concurrency"`
}

// Validate validates the site configuration.
func (c *SiteConfig) Validate() error {
	if c.Source == "" {
		c.Source = SourceFS
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.Source, validation.In(SourceFS, SourceHTTP)),
		validation.Field(&c.Root, validation.When(c.Source == SourceFS, validation.Required)),
		validation.Field(&c.BaseURL, validation.When(c.Source == SourceHTTP, validation.Required)),
		validation.Field(&c.Concurrency, validation.Min(0), validation.Max(256)),
	)
}

// SectionConfig describes one content section.
type SectionConfig struct {
	Name         string `yaml:"name"`
	Manifest     string `yaml:"manifest"`
	Show         string `yaml:"show"`
	Page         string `yaml:"page"`
	DefaultTitle string `yaml:"default_title"`
}

// Validate validates a section.
func (c *SectionConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Name, validation.Required),
		validation.Field(&c.Manifest, validation.Required),
		validation.Field(&c.Page, validation.Required),
	)
}

// RenderConfig selects the markdown engine and front-matter parser.
type RenderConfig struct {
	Engine      string `yaml:"engine"`
	FrontMatter string `yaml:"frontmatter"`
}

// Validate validates the render configuration.
func (c *RenderConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Engine, validation.In(markdown.EngineDialect, markdown.EngineGoldmark)),
		validation.Field(&c.FrontMatter, validation.In(frontmatter.ModeSimple, frontmatter.ModeYAML)),
	)
}

// SQLiteConfig holds SQLite database configuration.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the SQLite configuration.
func (c *SQLiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// AuthConfig holds authentication configuration.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// WatchConfig controls live re-indexing of an fs site.
type WatchConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Debounce time.Duration `yaml:"debounce"`
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Site: SiteConfig{
			Root:         "./site",
			Source:       SourceFS,
			FetchTimeout: 10 * time.Second,
			Concurrency:  8,
		},
		Sections: []SectionConfig{
			{
				Name:         "knowledge",
				Manifest:     "data/knowledge-list.txt",
				Show:         "data/knowledge-show.txt",
				Page:         "knowledge.html",
				DefaultTitle: "知识库",
			},
			{
				Name:         "projects",
				Manifest:     "data/projects-list.txt",
				Show:         "data/projects-show.txt",
				Page:         "projects.html",
				DefaultTitle: "项目集",
			},
		},
		Render: RenderConfig{
			Engine:      markdown.EngineDialect,
			FrontMatter: frontmatter.ModeSimple,
		},
		Fields: site.DefaultFields(),
		SQLite: SQLiteConfig{
			Path: "./folio.db",
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
		Watch: WatchConfig{
			Enabled:  true,
			Debounce: 300 * time.Millisecond,
		},
	}
}
