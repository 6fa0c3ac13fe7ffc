// Package config reads the YAML profile of the sigma command.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/go-errors/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/privacybydesign/sigma/group"
	"github.com/privacybydesign/sigma/internal/common"
)

const DefaultProfile = "sigma.yaml"
const TemplateProfile = `group:
  # size of the prime modulus p, in bits
  pbits: 2048
  # size of the prime subgroup order q, in bits
  qbits: 256
  # maximum number of candidates tried when searching for p
  maxattempts: 65536
  # file holding the group parameters
  params: "params.json"

proof:
  # hash function for Fiat-Shamir challenges: sha2-256 or sha3-256
  hash: "sha2-256"
  # hash function for content digests: sha2-256 or sha3-256
  digest: "sha2-256"

store:
  # database of possession proofs
  path: "proofs.db"

log:
  # panic, fatal, error, warn, info, debug or trace
  level: "info"
  # log file, rotated when it reaches maxsize MiB; empty to log to stderr
  file: ""
  maxsize: 100
  maxbackups: 3
`

type Group struct {
	PBits       int    `mapstructure:"pbits" yaml:"pbits"`
	QBits       int    `mapstructure:"qbits" yaml:"qbits"`
	MaxAttempts int    `mapstructure:"maxattempts" yaml:"maxattempts"`
	Params      string `mapstructure:"params" yaml:"params"`
}

type Proof struct {
	Hash   string `mapstructure:"hash" yaml:"hash"`
	Digest string `mapstructure:"digest" yaml:"digest"`
}

type Store struct {
	Path string `mapstructure:"path" yaml:"path"`
}

type Log struct {
	Level      string `mapstructure:"level" yaml:"level"`
	File       string `mapstructure:"file" yaml:"file"`
	MaxSize    int    `mapstructure:"maxsize" yaml:"maxsize"`
	MaxBackups int    `mapstructure:"maxbackups" yaml:"maxbackups"`
}

type Config struct {
	Group Group `mapstructure:"group" yaml:"group"`
	Proof Proof `mapstructure:"proof" yaml:"proof"`
	Store Store `mapstructure:"store" yaml:"store"`
	Log   Log   `mapstructure:"log" yaml:"log"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("group.pbits", group.SecurePBits)
	v.SetDefault("group.qbits", group.SecureQBits)
	v.SetDefault("group.maxattempts", group.MaxAttempts)
	v.SetDefault("group.params", "params.json")
	v.SetDefault("proof.hash", common.HashName(common.DefaultHash))
	v.SetDefault("proof.digest", common.HashName(common.DefaultHash))
	v.SetDefault("store.path", "proofs.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("log.maxsize", 100)
	v.SetDefault("log.maxbackups", 3)
}

// Load reads the profile at fpath, or only the defaults if fpath is empty. Every setting
// can be overridden by an environment variable such as SIGMA_GROUP_PBITS.
func Load(fpath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("sigma")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if fpath != "" {
		fstat, err := os.Stat(fpath)
		if err != nil {
			return nil, err
		}
		if fstat.IsDir() {
			return nil, errors.Errorf("the '%v' is not a file", fpath)
		}
		v.SetConfigFile(fpath)
		if ext := filepath.Ext(fpath); ext != "" {
			v.SetConfigType(ext[1:])
		}
		if err = v.ReadInConfig(); err != nil {
			return nil, errors.WrapPrefix(err, "[ReadInConfig]", 0)
		}
	}

	c := &Config{}
	if err := v.Unmarshal(c); err != nil {
		return nil, errors.WrapPrefix(err, "[Unmarshal]", 0)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) validate() error {
	if c.Group.QBits < 3 || c.Group.PBits <= c.Group.QBits+1 {
		return errors.Errorf("invalid group sizes pbits=%d qbits=%d", c.Group.PBits, c.Group.QBits)
	}
	if c.Group.MaxAttempts <= 0 {
		return errors.New("'group.maxattempts' must be positive")
	}
	if _, err := c.ChallengeHash(); err != nil {
		return err
	}
	if _, err := c.DigestHash(); err != nil {
		return err
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	return nil
}

// ChallengeHash returns the multihash code of the configured challenge hash function.
func (c *Config) ChallengeHash() (uint64, error) {
	return common.ParseHash(c.Proof.Hash)
}

// DigestHash returns the multihash code of the configured content hash function.
func (c *Config) DigestHash() (uint64, error) {
	return common.ParseHash(c.Proof.Digest)
}

// LogLevel returns the configured log level.
func (c *Config) LogLevel() (logrus.Level, error) {
	return logrus.ParseLevel(c.Log.Level)
}

// WriteTemplate writes the commented default profile to fpath, refusing to overwrite.
func WriteTemplate(fpath string) error {
	f, err := os.OpenFile(fpath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return err
	}
	defer common.Close(f)
	_, err = f.WriteString(TemplateProfile)
	return err
}
