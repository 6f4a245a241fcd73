package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
crawl:
  url_template: "https://data.commoncrawl.org/wet/CC-MAIN-{idx}.warc.wet.gz"
  end_index: 10
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Crawl.MaxRetries != 3 {
		t.Errorf("expected default max_retries 3, got %d", cfg.Crawl.MaxRetries)
	}
	if cfg.Crawl.BackoffBaseSeconds != 5 {
		t.Errorf("expected default backoff_base_seconds 5, got %d", cfg.Crawl.BackoffBaseSeconds)
	}
	if cfg.OpenSearch.Port != 9200 {
		t.Errorf("expected default opensearch port 9200, got %d", cfg.OpenSearch.Port)
	}
	if len(cfg.Bench.Codecs) == 0 {
		t.Error("expected default codec list")
	}
	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Port)
	}
}

func TestLoadRejectsTemplateWithoutPlaceholder(t *testing.T) {
	path := writeConfig(t, `
crawl:
  url_template: "https://data.commoncrawl.org/wet/CC-MAIN-00000.warc.wet.gz"
`)

	if _, err := Load(path); err == nil {
		t.Fatal("expected error for template without {idx} placeholder")
	}
}

func TestLoadRejectsNonPositiveBackoff(t *testing.T) {
	path := writeConfig(t, `
crawl:
  url_template: "https://example.com/{idx}.gz"
  backoff_base_seconds: 0
`)

	if _, err := Load(path); err == nil {
		t.Fatal("expected error for zero backoff")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}
