package env

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

type testConfig struct {
	Token     string        `yaml:"token" env:"ENVTEST_TOKEN,required"`
	Offset    int           `yaml:"offset" env:"ENVTEST_OFFSET" env-default:"20"`
	TTL       time.Duration `yaml:"ttl" env:"ENVTEST_TTL" env-default:"20m"`
	Debug     bool          `yaml:"debug" env:"ENVTEST_DEBUG"`
	Ratio     float64       `yaml:"ratio" env:"ENVTEST_RATIO" env-default:"0.5"`
	Admins    []int64       `yaml:"admins" env:"ENVTEST_ADMINS"`
	Untagged  string        `yaml:"untagged"`
	Nested    nestedConfig  `yaml:"nested"`
	unexposed string
}

type nestedConfig struct {
	Precision uint `yaml:"precision" env:"ENVTEST_PRECISION" env-default:"40"`
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadDefaults(t *testing.T) {
	t.Setenv("ENVTEST_TOKEN", "secret")

	var cfg testConfig
	if err := Read(&cfg); err != nil {
		t.Fatalf("Read() = %v", err)
	}

	if cfg.Token != "secret" {
		t.Errorf("Token = %q, want %q", cfg.Token, "secret")
	}
	if cfg.Offset != 20 {
		t.Errorf("Offset = %d, want 20", cfg.Offset)
	}
	if cfg.TTL != 20*time.Minute {
		t.Errorf("TTL = %v, want 20m", cfg.TTL)
	}
	if cfg.Ratio != 0.5 {
		t.Errorf("Ratio = %v, want 0.5", cfg.Ratio)
	}
	if cfg.Nested.Precision != 40 {
		t.Errorf("Nested.Precision = %d, want 40", cfg.Nested.Precision)
	}
	if cfg.Debug || cfg.Admins != nil {
		t.Errorf("unset fields changed: %+v", cfg)
	}
}

func TestReadEnvironment(t *testing.T) {
	t.Setenv("ENVTEST_TOKEN", "secret")
	t.Setenv("ENVTEST_OFFSET", "0x10")
	t.Setenv("ENVTEST_TTL", "90s")
	t.Setenv("ENVTEST_DEBUG", "true")
	t.Setenv("ENVTEST_ADMINS", "1, 2,3")

	var cfg testConfig
	if err := Read(&cfg); err != nil {
		t.Fatalf("Read() = %v", err)
	}

	if cfg.Offset != 16 || cfg.TTL != 90*time.Second || !cfg.Debug {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if len(cfg.Admins) != 3 || cfg.Admins[0] != 1 || cfg.Admins[2] != 3 {
		t.Errorf("Admins = %v, want [1 2 3]", cfg.Admins)
	}
}

func TestReadRequired(t *testing.T) {
	var cfg testConfig
	err := Read(&cfg)
	if err == nil || !strings.Contains(err.Error(), "ENVTEST_TOKEN") {
		t.Fatalf("Read() = %v, want missing ENVTEST_TOKEN", err)
	}
}

func TestReadInvalid(t *testing.T) {
	t.Setenv("ENVTEST_TOKEN", "secret")
	t.Setenv("ENVTEST_TTL", "soon")

	var cfg testConfig
	if err := Read(&cfg); err == nil {
		t.Fatal("Read() = nil, want a parse error")
	}

	if err := Read(cfg); err == nil {
		t.Fatal("Read(non-pointer) = nil, want error")
	}
}

func TestReadFilePrecedence(t *testing.T) {
	path := writeConfig(t, strings.Join([]string{
		"token: from-file",
		"offset: 5",
		"ttl: 5m",
		"untagged: kept",
		"nested:",
		"  precision: 50",
	}, "\n"))
	t.Setenv("ENVTEST_OFFSET", "7")

	var cfg testConfig
	if err := ReadFile(path, &cfg); err != nil {
		t.Fatalf("ReadFile() = %v", err)
	}

	if cfg.Token != "from-file" {
		t.Errorf("Token = %q, want value from file", cfg.Token)
	}
	if cfg.Offset != 7 {
		t.Errorf("Offset = %d, want environment value 7", cfg.Offset)
	}
	if cfg.TTL != 5*time.Minute {
		t.Errorf("TTL = %v, want value from file", cfg.TTL)
	}
	if cfg.Nested.Precision != 50 {
		t.Errorf("Nested.Precision = %d, want value from file", cfg.Nested.Precision)
	}
	if cfg.Ratio != 0.5 {
		t.Errorf("Ratio = %v, want default", cfg.Ratio)
	}
	if cfg.Untagged != "kept" {
		t.Errorf("Untagged = %q, want value from file", cfg.Untagged)
	}
}

func TestReadFileErrors(t *testing.T) {
	var cfg testConfig
	if err := ReadFile(filepath.Join(t.TempDir(), "missing.yaml"), &cfg); err == nil {
		t.Error("ReadFile(missing) = nil, want error")
	}

	path := writeConfig(t, "offset: [1, 2")
	if err := ReadFile(path, &cfg); err == nil {
		t.Error("ReadFile(malformed) = nil, want error")
	}
}
