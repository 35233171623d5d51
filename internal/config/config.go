// Package config loads tool configuration from .autofix.yaml plus
// environment overrides, and discovers owner/repo from the git remote URL.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// FileName is the per-repository config file, expected at the repo root.
const FileName = ".autofix.yaml"

// Environment variables. AUTOFIX_TOKEN wins over GITHUB_TOKEN so the tool
// can run with a dedicated token next to an ambient gh session.
const (
	EnvToken       = "AUTOFIX_TOKEN"
	EnvGitHubToken = "GITHUB_TOKEN"
	EnvBaseBranch  = "AUTOFIX_BASE_BRANCH"
	EnvWorkflow    = "AUTOFIX_WORKFLOW"
)

// Config holds everything the pipeline needs to know about its
// surroundings. Token is environment-only and never written to disk.
type Config struct {
	Owner      string `yaml:"owner"`
	Repo       string `yaml:"repo"`
	Remote     string `yaml:"remote"`
	Workflow   string `yaml:"workflow"`
	BaseBranch string `yaml:"base-branch"`
	APIURL     string `yaml:"api-url,omitempty"`
	Token      string `yaml:"-"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Remote:     "origin",
		Workflow:   "autofix.yaml",
		BaseBranch: "dev",
	}
}

// Load reads .autofix.yaml from dir (if present) over the defaults, then
// applies environment overrides. A missing file is not an error; a
// malformed one is.
func Load(dir string) (*Config, error) {
	cfg := Default()

	path := filepath.Join(dir, FileName)
	if _, err := os.Stat(path); err == nil {
		v := viper.New()
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", FileName, err)
		}

		if s := v.GetString("owner"); s != "" {
			cfg.Owner = s
		}
		if s := v.GetString("repo"); s != "" {
			cfg.Repo = s
		}
		if s := v.GetString("remote"); s != "" {
			cfg.Remote = s
		}
		if s := v.GetString("workflow"); s != "" {
			cfg.Workflow = s
		}
		if s := v.GetString("base-branch"); s != "" {
			cfg.BaseBranch = s
		}
		if s := v.GetString("api-url"); s != "" {
			cfg.APIURL = s
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

// applyEnv applies environment variable overrides. Env wins over file.
func applyEnv(cfg *Config) {
	if t := os.Getenv(EnvToken); t != "" {
		cfg.Token = t
	} else if t := os.Getenv(EnvGitHubToken); t != "" {
		cfg.Token = t
	}
	if b := os.Getenv(EnvBaseBranch); b != "" {
		cfg.BaseBranch = b
	}
	if w := os.Getenv(EnvWorkflow); w != "" {
		cfg.Workflow = w
	}
}

// Write saves the configuration to .autofix.yaml in dir. Used by the init
// command; the token is deliberately excluded from serialization.
func (c *Config) Write(dir string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", FileName, err)
	}
	return nil
}

// remotePatterns match the GitHub remote URL shapes we care about:
// git@github.com:owner/repo.git and https://github.com/owner/repo(.git).
var remotePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^git@[^:]+:([^/]+)/(.+?)(?:\.git)?$`),
	regexp.MustCompile(`^(?:https?|ssh)://(?:[^@/]+@)?[^/]+/([^/]+)/(.+?)(?:\.git)?/?$`),
}

// ParseRemote extracts owner and repo from a git remote URL.
func ParseRemote(url string) (owner, repo string, ok bool) {
	url = strings.TrimSpace(url)
	for _, p := range remotePatterns {
		if m := p.FindStringSubmatch(url); m != nil {
			return m[1], m[2], true
		}
	}
	return "", "", false
}
