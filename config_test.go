package cloudgrab

import (
	"os"
	"path/filepath"
	"testing"

	assert_ "github.com/stretchr/testify/assert"
)

func TestLoadConfigMissingFile(t *testing.T) {
	assert := assert_.New(t)

	config, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Nil(err)
	assert.Equal(DefaultConfig(), config)
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	assert := assert_.New(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
output_dir = "/home/user/Music"
quality = "best"
auto_import = true
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	config, err := LoadConfig(path)
	assert.Nil(err)
	assert.Equal("/home/user/Music", config.OutputDir)
	assert.Equal("best", config.Quality)
	assert.True(config.AutoImport)
	// Unmentioned keys keep their defaults.
	assert.Equal(DefaultConfig().ImportApp, config.ImportApp)
}

func TestLoadConfigMalformed(t *testing.T) {
	assert := assert_.New(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("output_dir = [whoops"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadConfig(path)
	assert.Error(err)
}
