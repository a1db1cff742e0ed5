package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"speckeeper/internal/env"
	"speckeeper/internal/spec"
)

func TestCollectConfigDefaults(t *testing.T) {
	cfg := collectConfig(&AppConfig{})

	assert.Equal(t, ":8743", cfg.Server.Address)
	assert.Equal(t, env.SpecDir(), cfg.Specs.Dir)
	assert.Equal(t, filepath.Join(cfg.Specs.Dir, "composites"), cfg.Specs.CompositeDir)
	assert.Equal(t, spec.DefaultBldrURL, cfg.Bldr.URL)
	assert.Equal(t, spec.DefaultChannel, cfg.Bldr.Channel)
}

func TestCollectConfigKeepsExplicitValues(t *testing.T) {
	cfg := collectConfig(&AppConfig{
		Server: ServerConfig{Address: ":9000"},
		Specs:  SpecsConfig{Dir: "/srv/specs", CompositeDir: "/srv/composites"},
		Bldr:   BldrConfig{URL: "https://bldr.example.com", Channel: "unstable"},
	})

	assert.Equal(t, ":9000", cfg.Server.Address)
	assert.Equal(t, "/srv/specs", cfg.Specs.Dir)
	assert.Equal(t, "/srv/composites", cfg.Specs.CompositeDir)
	assert.Equal(t, "https://bldr.example.com", cfg.Bldr.URL)
	assert.Equal(t, "unstable", cfg.Bldr.Channel)
}
