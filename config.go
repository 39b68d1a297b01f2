package main

import (
	"os"
	"sort"
	"strings"

	"github.com/jinzhu/configor"
)

const (
	defaultConfigFile = ".sitesync.json"
	legacyConfigFile  = "deploy.json"

	minProcesses = 1
	maxProcesses = 50
)

var validACLs = []string{
	"private",
	"public-read",
	"public-read-write",
	"authenticated-read",
}

// Environment is one entry of the config file. The same shape serves the
// top-level "defaults" section; zero values there mean "unset" and fall
// through to the built-in defaults during resolution.
type Environment struct {
	Provider     string         `json:"provider"`
	BucketName   string         `json:"bucket_name"`
	LocalPath    string         `json:"local_path"`
	BucketPath   string         `json:"bucket_path"`
	Exclude      []string       `json:"exclude"`
	ACL          string         `json:"acl"`
	Force        bool           `json:"force"`
	Charset      string         `json:"charset"`
	Gitignore    bool           `json:"gitignore"`
	Delete       bool           `json:"delete"`
	CloudFrontID []string       `json:"cloudfront_id"`
	Caches       map[string]int `json:"caches"`
}

// AppConfig is the parsed config file: shared defaults plus one named
// environment per deploy target (staging, production, ...).
type AppConfig struct {
	Defaults     Environment            `json:"defaults"`
	Environments map[string]Environment `json:"environments"`

	// Optional outcome notifications: publish to an SNS topic, or pop a
	// desktop notification when deploying interactively.
	SNSTopic string `json:"sns_topic"`
	Notify   bool   `json:"notify"`
}

// EnvironmentNames returns the configured environment names in a stable
// order.
func (c AppConfig) EnvironmentNames() []string {
	names := make([]string, 0, len(c.Environments))
	for name := range c.Environments {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// loadConfig reads and parses the config file, failing fast on the legacy
// file name from the pre-environments format.
func loadConfig(path string) (AppConfig, error) {
	var conf AppConfig

	if _, err := os.Stat(legacyConfigFile); err == nil {
		return conf, configErrorf(
			"found a legacy %s in this project; rename it to %s and nest your settings under \"environments\"",
			legacyConfigFile, defaultConfigFile,
		)
	}

	if _, err := os.Stat(path); err != nil {
		return conf, inputErrorf("config file is missing, looked for %s", path)
	}
	if err := configor.Load(&conf, path); err != nil {
		return conf, configErrorf("parsing %s: %v", path, err)
	}
	if len(conf.Environments) == 0 {
		return conf, inputErrorf("no environments found in config file: %s", path)
	}
	return conf, nil
}

// processesInt validates a worker pool size. Out-of-range values are a
// configuration error, never silently clamped.
func processesInt(n int) (int, error) {
	if n < minProcesses || n > maxProcesses {
		return 0, configErrorf("processes must be between %d and %d, got %d", minProcesses, maxProcesses, n)
	}
	return n, nil
}

func validateACL(acl string) error {
	if acl == "" {
		return nil
	}
	for _, valid := range validACLs {
		if acl == valid {
			return nil
		}
	}
	return configErrorf("invalid acl %q, choose from %s", acl, strings.Join(validACLs, ", "))
}

// SyncJob is the fully resolved description of one synchronization run.
// Built once per environment per invocation and immutable afterward.
type SyncJob struct {
	Env           string
	Provider      string
	BucketName    string
	LocalPath     string
	BucketPath    string
	Excludes      []string
	ACL           string
	Force         bool
	DryRun        bool
	Charset       string
	Gitignore     bool
	Processes     int
	Delete        bool
	Confirm       bool
	CloudFrontIDs []string
	Caches        map[string]int
}

// cliOverrides carries only the flags the user explicitly set; unset flags
// must not shadow config file values during resolution.
type cliOverrides struct {
	BucketName    string
	LocalPath     string
	BucketPath    string
	Excludes      []string
	ACL           string
	Force         bool
	ForceSet      bool
	DryRun        bool
	Charset       string
	Gitignore     bool
	GitignoreSet  bool
	Processes     int
	Delete        bool
	DeleteSet     bool
	Confirm       bool
	CloudFrontIDs []string
	ConfigFile    string
}

// resolveJob merges the three configuration tiers into a SyncJob with fixed
// precedence: explicit CLI flag > environment section > defaults section >
// built-in default.
func resolveJob(env string, conf AppConfig, overrides cliOverrides) (SyncJob, error) {
	environ, ok := conf.Environments[env]
	if !ok {
		return SyncJob{}, inputErrorf(
			"environment %s not found in config, choose from %s",
			env, strings.Join(conf.EnvironmentNames(), ", "),
		)
	}

	excludes := overrides.Excludes
	if len(excludes) == 0 {
		excludes = append(append([]string{}, environ.Exclude...), conf.Defaults.Exclude...)
	}
	// The config file itself never belongs in the bucket.
	excludes = append(excludes, overrides.ConfigFile)

	job := SyncJob{
		Env:           env,
		Provider:      firstString(environ.Provider, conf.Defaults.Provider, "aws"),
		BucketName:    firstString(overrides.BucketName, environ.BucketName, conf.Defaults.BucketName),
		LocalPath:     firstString(overrides.LocalPath, environ.LocalPath, conf.Defaults.LocalPath, "."),
		BucketPath:    firstString(overrides.BucketPath, environ.BucketPath, conf.Defaults.BucketPath, "/"),
		Excludes:      excludes,
		ACL:           firstString(overrides.ACL, environ.ACL, conf.Defaults.ACL),
		Force:         firstBool(overrides.ForceSet, overrides.Force, environ.Force, conf.Defaults.Force),
		DryRun:        overrides.DryRun,
		Charset:       firstString(overrides.Charset, environ.Charset, conf.Defaults.Charset),
		Gitignore:     firstBool(overrides.GitignoreSet, overrides.Gitignore, environ.Gitignore, conf.Defaults.Gitignore),
		Processes:     overrides.Processes,
		Delete:        firstBool(overrides.DeleteSet, overrides.Delete, environ.Delete, conf.Defaults.Delete),
		Confirm:       overrides.Confirm,
		CloudFrontIDs: firstStrings(overrides.CloudFrontIDs, environ.CloudFrontID, conf.Defaults.CloudFrontID),
		Caches:        environ.Caches,
	}
	if job.Caches == nil {
		job.Caches = conf.Defaults.Caches
	}

	if job.BucketName == "" {
		return SyncJob{}, inputErrorf("a bucket to upload to was not specified for %q environment", env)
	}
	if err := validateACL(job.ACL); err != nil {
		return SyncJob{}, err
	}
	if _, err := processesInt(job.Processes); err != nil {
		return SyncJob{}, err
	}
	return job, nil
}

func firstString(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstStrings(values ...[]string) []string {
	for _, v := range values {
		if len(v) > 0 {
			return v
		}
	}
	return nil
}

// firstBool prefers the explicit CLI value when the flag was set, then the
// first true among the config tiers.
func firstBool(cliSet, cliValue bool, tiers ...bool) bool {
	if cliSet {
		return cliValue
	}
	for _, v := range tiers {
		if v {
			return true
		}
	}
	return false
}
