package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessesIntBounds(t *testing.T) {
	for _, invalid := range []int{0, -10, 51} {
		_, err := processesInt(invalid)
		require.Error(t, err)
		assert.Equal(t, exConfig, exitCode(err))
	}
	for _, valid := range []int{1, 10, 50} {
		n, err := processesInt(valid)
		require.NoError(t, err)
		assert.Equal(t, valid, n)
	}
}

func TestValidateACL(t *testing.T) {
	assert.Nil(t, validateACL(""))
	assert.Nil(t, validateACL("public-read"))
	err := validateACL("world-writable")
	require.Error(t, err)
	assert.Equal(t, exConfig, exitCode(err))
}

func baseConfig() AppConfig {
	return AppConfig{
		Defaults: Environment{
			BucketName: "default-bucket",
			ACL:        "private",
			Exclude:    []string{"*.bak"},
		},
		Environments: map[string]Environment{
			"staging": {
				BucketName: "staging-bucket",
				BucketPath: "/staging",
			},
			"production": {
				BucketName:   "production-bucket",
				CloudFrontID: []string{"DIST123"},
				Caches:       map[string]int{"text/css": 86400},
			},
		},
	}
}

func baseOverrides() cliOverrides {
	return cliOverrides{
		Processes:  10,
		ConfigFile: defaultConfigFile,
	}
}

func TestResolveJobPrecedence(t *testing.T) {
	overrides := baseOverrides()
	overrides.BucketName = "cli-bucket"

	job, err := resolveJob("staging", baseConfig(), overrides)

	require.NoError(t, err)
	// CLI flag wins over environment and defaults
	assert.Equal(t, "cli-bucket", job.BucketName)
	// environment wins over built-in default
	assert.Equal(t, "/staging", job.BucketPath)
	// defaults fill what neither CLI nor environment set
	assert.Equal(t, "private", job.ACL)
	// built-in defaults fill the rest
	assert.Equal(t, ".", job.LocalPath)
	assert.Equal(t, "aws", job.Provider)
}

func TestResolveJobEnvironmentValues(t *testing.T) {
	job, err := resolveJob("production", baseConfig(), baseOverrides())

	require.NoError(t, err)
	assert.Equal(t, "production-bucket", job.BucketName)
	assert.Equal(t, []string{"DIST123"}, job.CloudFrontIDs)
	assert.Equal(t, map[string]int{"text/css": 86400}, job.Caches)
}

func TestResolveJobExcludesConfigFile(t *testing.T) {
	job, err := resolveJob("staging", baseConfig(), baseOverrides())

	require.NoError(t, err)
	assert.Contains(t, job.Excludes, "*.bak")
	assert.Contains(t, job.Excludes, defaultConfigFile)
}

func TestResolveJobExplicitExcludesReplaceConfigured(t *testing.T) {
	overrides := baseOverrides()
	overrides.Excludes = []string{"*.tmp"}

	job, err := resolveJob("staging", baseConfig(), overrides)

	require.NoError(t, err)
	assert.Contains(t, job.Excludes, "*.tmp")
	assert.NotContains(t, job.Excludes, "*.bak")
}

func TestResolveJobUnknownEnvironment(t *testing.T) {
	_, err := resolveJob("qa", baseConfig(), baseOverrides())

	require.Error(t, err)
	assert.Equal(t, exNoInput, exitCode(err))
	assert.Contains(t, err.Error(), "production, staging")
}

func TestResolveJobMissingBucket(t *testing.T) {
	conf := baseConfig()
	conf.Defaults.BucketName = ""
	conf.Environments["staging"] = Environment{}

	_, err := resolveJob("staging", conf, baseOverrides())

	require.Error(t, err)
	assert.Equal(t, exNoInput, exitCode(err))
}

func TestResolveJobInvalidProcesses(t *testing.T) {
	overrides := baseOverrides()
	overrides.Processes = 51

	_, err := resolveJob("staging", baseConfig(), overrides)

	require.Error(t, err)
	assert.Equal(t, exConfig, exitCode(err))
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(old) })
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	path := filepath.Join(dir, defaultConfigFile)
	require.NoError(t, os.WriteFile(path, []byte(`{
		"defaults": {"bucket_name": "default-bucket"},
		"environments": {
			"production": {"bucket_path": "/live", "caches": {"text/css": 3600}}
		}
	}`), 0o644))

	conf, err := loadConfig(path)

	require.NoError(t, err)
	assert.Equal(t, "default-bucket", conf.Defaults.BucketName)
	assert.Equal(t, "/live", conf.Environments["production"].BucketPath)
	assert.Equal(t, 3600, conf.Environments["production"].Caches["text/css"])
}

func TestLoadConfigMissingFile(t *testing.T) {
	chdir(t, t.TempDir())

	_, err := loadConfig(defaultConfigFile)

	require.Error(t, err)
	assert.Equal(t, exNoInput, exitCode(err))
}

func TestLoadConfigNoEnvironments(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	path := filepath.Join(dir, defaultConfigFile)
	require.NoError(t, os.WriteFile(path, []byte(`{"defaults": {}}`), 0o644))

	_, err := loadConfig(path)

	require.Error(t, err)
	assert.Equal(t, exNoInput, exitCode(err))
}

func TestLoadConfigRejectsLegacyFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, legacyConfigFile), []byte(`{}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, defaultConfigFile), []byte(`{"environments":{"default":{}}}`), 0o644))

	_, err := loadConfig(defaultConfigFile)

	require.Error(t, err)
	assert.Equal(t, exConfig, exitCode(err))
}
