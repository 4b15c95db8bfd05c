package internal

import (
	"strings"
	"testing"
)

func TestAuthConfig_Validate(t *testing.T) {
	tests := []struct {
		name     string
		cfg      AuthConfig
		wantErr  string
		wantMode string
		enabled  bool
	}{
		{name: "disabled", cfg: AuthConfig{Mode: "disabled"}, wantMode: AuthModeDisabled},
		{name: "empty mode defaults to disabled", cfg: AuthConfig{}, wantMode: AuthModeDisabled},
		{name: "token", cfg: AuthConfig{Mode: "token", Token: "s3cret"}, wantMode: AuthModeToken, enabled: true},
		{name: "token without value", cfg: AuthConfig{Mode: "token"}, wantErr: "token is empty"},
		{name: "unknown mode", cfg: AuthConfig{Mode: "magic", Token: "x"}, wantErr: "valid value"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			err := cfg.Validate()
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("err = %v, want containing %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cfg.Mode != tt.wantMode {
				t.Errorf("mode = %q, want %q", cfg.Mode, tt.wantMode)
			}
			if cfg.AuthEnabled() != tt.enabled {
				t.Errorf("AuthEnabled = %v", cfg.AuthEnabled())
			}
		})
	}
}

func TestConfig_ValidateChecksAuth(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Auth = AuthConfig{Mode: AuthModeToken}
	if err := cfg.Validate(); err == nil {
		t.Fatal("full config validate should catch auth error")
	}
}

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	secs := cfg.LibrarySections()
	if len(secs) != 2 || secs[0].Name != "knowledge" || secs[1].DefaultTitle != "项目集" {
		t.Errorf("sections = %+v", secs)
	}
}

func TestSiteConfig_Source(t *testing.T) {
	cfg := SiteConfig{Root: "./site"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty source should default to fs: %v", err)
	}
	if cfg.Source != SourceFS {
		t.Errorf("source = %q", cfg.Source)
	}

	cfg = SiteConfig{Source: SourceHTTP}
	if err := cfg.Validate(); err == nil {
		t.Error("http source without base_url should fail")
	}
	cfg.BaseURL = "https://example.com/site/"
	if err := cfg.Validate(); err != nil {
		t.Errorf("http source with base_url: %v", err)
	}

	cfg = SiteConfig{Source: "ftp", Root: "x"}
	if err := cfg.Validate(); err == nil {
		t.Error("unknown source should fail")
	}
}

func TestConfig_Sections(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Sections = nil
	if err := cfg.Validate(); err == nil {
		t.Error("no sections should fail")
	}

	cfg = NewDefaultConfig()
	cfg.Sections[1].Name = cfg.Sections[0].Name
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Errorf("duplicate names: %v", err)
	}

	cfg = NewDefaultConfig()
	cfg.Sections[0].Manifest = ""
	if err := cfg.Validate(); err == nil {
		t.Error("missing manifest should fail")
	}
}

func TestRenderConfig_Validate(t *testing.T) {
	cfg := RenderConfig{Engine: "goldmark", FrontMatter: "yaml"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("valid render config: %v", err)
	}
	cfg.Engine = "pandoc"
	if err := cfg.Validate(); err == nil {
		t.Error("unknown engine should fail")
	}
}

func TestRenderDocument(t *testing.T) {
	cfg := NewDefaultConfig()
	out, err := RenderDocument(cfg, "---\n题目: T\n---\n# Hi")
	if err != nil {
		t.Fatal(err)
	}
	if out.FrontMatter.String("题目") != "T" {
		t.Errorf("front matter = %v", out.FrontMatter)
	}
	if !strings.Contains(out.HTML, `<h1 id="heading-1-0">Hi</h1>`) {
		t.Errorf("html = %s", out.HTML)
	}
	if len(out.Headings) != 1 {
		t.Errorf("headings = %+v", out.Headings)
	}

	cfg.Render.Engine = "nope"
	if _, err := RenderDocument(cfg, "x"); err == nil {
		t.Error("unknown engine should fail")
	}
}
