package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	internal "github.com/treescope/treescope/tscope"
)

// ConfigTestSuite tests the config package functionality
type ConfigTestSuite struct {
	suite.Suite
	tempDir string
	origDir string
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

func (suite *ConfigTestSuite) SetupTest() {
	viper.Reset()

	var err error
	suite.origDir, err = os.Getwd()
	require.NoError(suite.T(), err)

	// Run from a temp directory so a developer's local config.yaml cannot
	// leak into the test
	suite.tempDir = suite.T().TempDir()
	require.NoError(suite.T(), os.Chdir(suite.tempDir))
}

func (suite *ConfigTestSuite) TearDownTest() {
	if suite.origDir != "" {
		os.Chdir(suite.origDir)
	}
}

func (suite *ConfigTestSuite) TestLoadConfigWithDefaults() {
	cfg, err := LoadConfig("")

	require.NoError(suite.T(), err)
	require.NotNil(suite.T(), cfg)

	assert.Equal(suite.T(), ".", cfg.TargetDir)
	assert.Equal(suite.T(), -1, cfg.Scan.MaxDepth)
	assert.False(suite.T(), cfg.Scan.FollowSymlinks)
	assert.Equal(suite.T(), internal.DefaultIgnoreFile, cfg.Scan.IgnoreFile)
	assert.Equal(suite.T(), internal.DefaultWeightStep, cfg.Layout.WeightStep)
	assert.Equal(suite.T(), internal.DefaultMinWeight, cfg.Layout.MinWeight)
	assert.True(suite.T(), cfg.UI.ShowStatusBar)
}

func (suite *ConfigTestSuite) TestLoadConfigFromFile() {
	configPath := filepath.Join(suite.tempDir, "config.yaml")
	configYAML := `targetDir: /data
scan:
  maxDepth: 3
  workers: 8
layout:
  weightStep: 1.5
ui:
  showStatusBar: false
`
	require.NoError(suite.T(), os.WriteFile(configPath, []byte(configYAML), 0o644))

	cfg, err := LoadConfig(configPath)
	require.NoError(suite.T(), err)

	assert.Equal(suite.T(), "/data", cfg.TargetDir)
	assert.Equal(suite.T(), 3, cfg.Scan.MaxDepth)
	assert.Equal(suite.T(), 8, cfg.Scan.Workers)
	assert.Equal(suite.T(), 1.5, cfg.Layout.WeightStep)
	assert.False(suite.T(), cfg.UI.ShowStatusBar)

	// Unset keys keep their defaults
	assert.Equal(suite.T(), internal.DefaultMinWeight, cfg.Layout.MinWeight)
}

func (suite *ConfigTestSuite) TestLoadConfigRejectsInvalidLayout() {
	configPath := filepath.Join(suite.tempDir, "config.yaml")
	require.NoError(suite.T(), os.WriteFile(configPath, []byte("layout:\n  weightStep: 0.5\n"), 0o644))

	_, err := LoadConfig(configPath)
	assert.Error(suite.T(), err)
}

func (suite *ConfigTestSuite) TestLoadConfigMissingExplicitFile() {
	_, err := LoadConfig(filepath.Join(suite.tempDir, "nope.yaml"))
	assert.Error(suite.T(), err)
}
