package options

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	value int
	name  string
}

func TestApply_Order(t *testing.T) {
	cfg := &testConfig{}

	err := Apply(cfg,
		NoError(func(c *testConfig) { c.value = 1 }),
		NoError(func(c *testConfig) { c.value = 2 }),
		NoError(func(c *testConfig) { c.name = "last" }),
	)
	require.NoError(t, err)
	require.Equal(t, 2, cfg.value)
	require.Equal(t, "last", cfg.name)
}

func TestApply_StopsAtFirstError(t *testing.T) {
	boom := errors.New("boom")
	cfg := &testConfig{}

	err := Apply(cfg,
		NoError(func(c *testConfig) { c.value = 1 }),
		New(func(c *testConfig) error { return boom }),
		NoError(func(c *testConfig) { c.value = 99 }),
	)
	require.ErrorIs(t, err, boom)
	require.Equal(t, 1, cfg.value, "options after the failing one must not run")
}

func TestApply_NoOptions(t *testing.T) {
	cfg := &testConfig{value: 7}
	require.NoError(t, Apply(cfg))
	require.Equal(t, 7, cfg.value)
}
