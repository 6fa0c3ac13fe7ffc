package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/privacybydesign/sigma/internal/common"
)

func TestDefaults(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 2048, c.Group.PBits)
	assert.Equal(t, 256, c.Group.QBits)
	assert.Equal(t, "proofs.db", c.Store.Path)

	code, err := c.ChallengeHash()
	require.NoError(t, err)
	assert.Equal(t, common.HashSHA2_256, code)
	level, err := c.LogLevel()
	require.NoError(t, err)
	assert.Equal(t, logrus.InfoLevel, level)
}

func TestTemplate(t *testing.T) {
	fpath := filepath.Join(t.TempDir(), DefaultProfile)
	require.NoError(t, WriteTemplate(fpath))
	require.Error(t, WriteTemplate(fpath))

	c, err := Load(fpath)
	require.NoError(t, err)
	assert.Equal(t, 65536, c.Group.MaxAttempts)
	assert.Equal(t, "params.json", c.Group.Params)
	assert.Equal(t, 3, c.Log.MaxBackups)
}

func TestLoad(t *testing.T) {
	fpath := filepath.Join(t.TempDir(), "conf.yaml")
	require.NoError(t, os.WriteFile(fpath, []byte("group:\n  pbits: 512\n  qbits: 160\nproof:\n  hash: sha3-256\n"), 0600))

	c, err := Load(fpath)
	require.NoError(t, err)
	assert.Equal(t, 512, c.Group.PBits)
	assert.Equal(t, 160, c.Group.QBits)
	code, err := c.ChallengeHash()
	require.NoError(t, err)
	assert.Equal(t, common.HashSHA3_256, code)
	// unset values keep their defaults
	assert.Equal(t, "sha2-256", c.Proof.Digest)
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("SIGMA_STORE_PATH", "/tmp/other.db")
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/other.db", c.Store.Path)
}

func TestInvalid(t *testing.T) {
	dir := t.TempDir()
	for name, content := range map[string]string{
		"sizes.yaml": "group:\n  pbits: 256\n  qbits: 256\n",
		"hash.yaml":  "proof:\n  hash: md5\n",
		"level.yaml": "log:\n  level: loud\n",
	} {
		fpath := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(fpath, []byte(content), 0600))
		_, err := Load(fpath)
		require.Error(t, err, name)
	}
	_, err := Load(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	_, err = Load(dir)
	require.Error(t, err)
}
