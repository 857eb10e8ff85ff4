package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const sampleConfigYAML = `sites:
  example.com:
    keywords:
      - coffee
      - espresso
    competitors:
      - rival.com
  other.com:
    categories:
      - Technical SEO
defaults:
  keywords:
    - default-keyword
  categories:
    - On-Page SEO
`

// writeConfigFile writes the sample config into a temp directory.
func writeConfigFile(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), DefaultConfigFile)
	if err := os.WriteFile(path, []byte(sampleConfigYAML), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

// TestLoadConfigFile tests YAML parsing.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("parses sites and defaults", func(t *testing.T) {
		t.Parallel()

		cf, err := LoadConfigFile(writeConfigFile(t))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(cf.Sites) != 2 {
			t.Errorf("len(Sites) = %d, want 2", len(cf.Sites))
		}
		site := cf.Sites["example.com"]
		if len(site.Keywords) != 2 || site.Keywords[0] != "coffee" {
			t.Errorf("keywords = %v", site.Keywords)
		}
		if len(cf.Defaults.Categories) != 1 {
			t.Errorf("default categories = %v", cf.Defaults.Categories)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfigFile(filepath.Join(t.TempDir(), "nope.yaml"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("error = %v, want ErrConfigNotFound", err)
		}
	})

	t.Run("malformed yaml", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(path, []byte("sites: [not a map"), 0600); err != nil {
			t.Fatalf("write config: %v", err)
		}

		if _, err := LoadConfigFile(path); err == nil {
			t.Error("expected parse error")
		}
	})
}

// TestGetSiteConfig tests the merge of site values over defaults.
func TestGetSiteConfig(t *testing.T) {
	t.Parallel()

	cf, err := LoadConfigFile(writeConfigFile(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("site overrides defaults", func(t *testing.T) {
		t.Parallel()

		sc := cf.GetSiteConfig("example.com")
		if len(sc.Keywords) != 2 || sc.Keywords[0] != "coffee" {
			t.Errorf("keywords = %v, want site keywords", sc.Keywords)
		}
		// Site sets no categories, so the default applies
		if len(sc.Categories) != 1 || sc.Categories[0] != "On-Page SEO" {
			t.Errorf("categories = %v, want defaults", sc.Categories)
		}
	})

	t.Run("unknown host gets defaults", func(t *testing.T) {
		t.Parallel()

		sc := cf.GetSiteConfig("unknown.com")
		if len(sc.Keywords) != 1 || sc.Keywords[0] != "default-keyword" {
			t.Errorf("keywords = %v, want defaults", sc.Keywords)
		}
	})
}

// TestFindConfigFile tests the search order.
func TestFindConfigFile(t *testing.T) {
	t.Run("explicit path found", func(t *testing.T) {
		path := writeConfigFile(t)
		if got := FindConfigFile(path); got != path {
			t.Errorf("FindConfigFile = %q, want %q", got, path)
		}
	})

	t.Run("explicit path missing", func(t *testing.T) {
		missing := filepath.Join(t.TempDir(), "absent.yaml")
		if got := FindConfigFile(missing); got != "" {
			t.Errorf("FindConfigFile = %q, want empty", got)
		}
	})

	t.Run("current directory", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, DefaultConfigFile)
		if err := os.WriteFile(path, []byte("sites: {}\n"), 0600); err != nil {
			t.Fatalf("write config: %v", err)
		}

		orig, err := os.Getwd()
		if err != nil {
			t.Fatalf("getwd: %v", err)
		}
		if err := os.Chdir(dir); err != nil {
			t.Fatalf("chdir: %v", err)
		}
		defer func() {
			if err := os.Chdir(orig); err != nil {
				t.Errorf("restore cwd: %v", err)
			}
		}()

		got := FindConfigFile("")
		if filepath.Base(got) != DefaultConfigFile {
			t.Errorf("FindConfigFile = %q, want %q in cwd", got, DefaultConfigFile)
		}
	})
}
