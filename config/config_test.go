package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/collide/components"
	"github.com/pthm-cable/collide/systems"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, float32(1000), cfg.Derived.WorldW32)
	assert.Equal(t, float32(800), cfg.Derived.WorldH32)
	assert.Positive(t, cfg.Derived.Workers)
	assert.Len(t, cfg.Emitters, 2)

	w := cfg.SimWorld()
	assert.Equal(t, 512, w.Count)
	assert.Equal(t, float32(8), w.Radius)
	assert.Equal(t, components.Vec2{Y: -1}, w.Seed.Velocity)
	assert.Equal(t, components.Color{R: 51, G: 153, B: 255, A: 255}, w.Seed.Color)
	assert.NoError(t, w.Validate())
}

func TestLoadOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("particles:\n  count: 64\nworld:\n  width: 640\nworkers:\n  count: 3\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.Particles.Count)
	assert.Equal(t, float32(8), float32(cfg.Particles.Radius), "unset fields keep defaults")
	assert.Equal(t, float32(640), cfg.Derived.WorldW32)
	assert.Equal(t, float32(800), cfg.Derived.WorldH32)
	assert.Equal(t, 3, cfg.Derived.Workers)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want error
	}{
		{"zero radius", "particles:\n  radius: 0\n", systems.ErrInvalidRadius},
		{"no particles", "particles:\n  count: 0\n", systems.ErrNoParticles},
		{"negative domain", "world:\n  width: -5\n", systems.ErrInvalidDomain},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tc.yaml), 0644))
			_, err := Load(path)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestWriteYAMLRoundtrip(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "snapshot.yaml")
	require.NoError(t, cfg.WriteYAML(path))

	again, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Particles, again.Particles)
	assert.Equal(t, cfg.Emitters, again.Emitters)
}

func TestCfgPanicsBeforeInit(t *testing.T) {
	global = nil
	assert.Panics(t, func() { Cfg() })

	require.NoError(t, Init(""))
	assert.NotPanics(t, func() { Cfg() })
}
