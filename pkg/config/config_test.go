package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type sample struct {
	Name  string   `yaml:"name"`
	Port  int      `yaml:"port"`
	Items []string `yaml:"items"`
}

func (s *sample) Validate() error {
	if s.Port <= 0 {
		return errors.New("port must be positive")
	}
	return nil
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoad_ExpandsEnvAndKeepsDefaults(t *testing.T) {
	t.Setenv("FOLIO_TEST_NAME", "from-env")
	p := writeFile(t, "name: ${FOLIO_TEST_NAME}\n")

	cfg := sample{Port: 8080, Items: []string{"a"}}
	if err := Load(p, &cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.Name != "from-env" {
		t.Errorf("name = %q", cfg.Name)
	}
	if cfg.Port != 8080 || len(cfg.Items) != 1 {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestLoad_UnknownKey(t *testing.T) {
	p := writeFile(t, "port: 1\nnmae: typo\n")
	var cfg sample
	if err := Load(p, &cfg); err == nil {
		t.Error("unknown key should fail")
	}
}

func TestLoad_Validates(t *testing.T) {
	p := writeFile(t, "port: 0\n")
	var cfg sample
	err := Load(p, &cfg)
	if err == nil || !strings.Contains(err.Error(), "validation failed") {
		t.Errorf("err = %v", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	var cfg sample
	if err := Load(filepath.Join(t.TempDir(), "nope.yaml"), &cfg); err == nil {
		t.Error("missing file should fail")
	}
}

func TestDecode_Empty(t *testing.T) {
	cfg := sample{Port: 3}
	if err := Decode([]byte(""), &cfg); err != nil {
		t.Fatalf("empty document: %v", err)
	}
	if cfg.Port != 3 {
		t.Errorf("port = %d", cfg.Port)
	}
}

func TestLoadOptional(t *testing.T) {
	cfg := sample{Port: 1}
	found, err := LoadOptional(filepath.Join(t.TempDir(), "nope.yaml"), &cfg)
	if err != nil || found {
		t.Errorf("missing file: found=%v err=%v", found, err)
	}

	bad := sample{}
	if _, err := LoadOptional(filepath.Join(t.TempDir(), "nope.yaml"), &bad); err == nil {
		t.Error("invalid defaults should fail validation")
	}

	p := writeFile(t, "port: 9\n")
	found, err = LoadOptional(p, &cfg)
	if err != nil || !found || cfg.Port != 9 {
		t.Errorf("existing file: found=%v err=%v cfg=%+v", found, err, cfg)
	}
}
