package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/go-errors/errors"
	"github.com/natefinch/lumberjack"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/privacybydesign/sigma"
	"github.com/privacybydesign/sigma/fiatshamir"
	"github.com/privacybydesign/sigma/fileproof"
	"github.com/privacybydesign/sigma/group"
	"github.com/privacybydesign/sigma/internal/common"
	"github.com/privacybydesign/sigma/internal/config"
)

// app holds the state shared by all subcommands once the configuration is read.
type app struct {
	conf   *config.Config
	logger *logrus.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:               "sigma",
		Short:             "Schnorr proofs of knowledge of discrete logarithms",
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}
	root.CompletionOptions.HiddenDefaultCmd = true
	root.PersistentFlags().StringP("config", "c", "", "configuration file (default ./"+config.DefaultProfile+" if present)")

	root.AddCommand(
		a.paramsCmd(),
		a.keygenCmd(),
		a.proveCmd(),
		a.verifyCmd(),
		a.demoCmd(),
		a.storeCmd(),
		profileCmd(),
	)
	return root
}

// setup reads the configuration and configures logging and parameter generation.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	fpath, err := cmd.Flags().GetString("config")
	if err != nil {
		return err
	}
	if fpath == "" {
		if _, err = os.Stat(config.DefaultProfile); err == nil {
			fpath = config.DefaultProfile
		}
	}
	if a.conf, err = config.Load(fpath); err != nil {
		return err
	}

	level, _ := a.conf.LogLevel()
	a.logger = logrus.New()
	a.logger.SetLevel(level)
	if a.conf.Log.File != "" {
		a.logger.SetOutput(&lumberjack.Logger{
			Filename:   a.conf.Log.File,
			MaxSize:    a.conf.Log.MaxSize, // MiB
			MaxBackups: a.conf.Log.MaxBackups,
			LocalTime:  true,
			Compress:   true,
		})
	} else {
		a.logger.SetOutput(cmd.ErrOrStderr())
	}
	sigma.SetLogger(a.logger)

	group.MaxAttempts = a.conf.Group.MaxAttempts
	a.logger.Debugf("configuration loaded from %q", fpath)
	return nil
}

// service returns the proof service with the configured hash functions.
func (a *app) service() fileproof.Service {
	challenge, _ := a.conf.ChallengeHash()
	digest, _ := a.conf.DigestHash()
	return fileproof.Service{
		Config: fiatshamir.Config{Hash: challenge},
		Digest: digest,
	}
}

func (a *app) loadParams(fpath string) (*group.Params, error) {
	if fpath == "" {
		fpath = a.conf.Group.Params
	}
	b, err := os.ReadFile(fpath)
	if err != nil {
		return nil, err
	}
	params := &group.Params{}
	if err = json.Unmarshal(b, params); err != nil {
		return nil, errors.WrapPrefix(err, "failed to parse "+fpath, 0)
	}
	if !params.Secure() {
		a.logger.Warnf("parameters in %s are too small for cryptographic use", fpath)
	}
	return params, nil
}

func writeJSON(w io.Writer, v interface{}) error {
	b, err := json.MarshalIndent(v, "", "   ")
	if err != nil {
		return err
	}
	_, err = w.Write(append(b, '\n'))
	return err
}

func createFile(fpath string, force bool, perm os.FileMode) (*os.File, error) {
	flags := os.O_WRONLY | os.O_CREATE
	if force {
		flags |= os.O_TRUNC
	} else {
		flags |= os.O_EXCL
	}
	return os.OpenFile(fpath, flags, perm)
}

func writeFile(fpath string, force bool, data []byte) error {
	f, err := createFile(fpath, force, 0644)
	if err != nil {
		return err
	}
	defer common.Close(f)
	_, err = f.Write(data)
	return err
}

func profileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profile [FILE]",
		Short: "Write the default configuration file",
		Args:  cobra.MaximumNArgs(1),
		// the profile is written before any configuration exists
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			fpath := config.DefaultProfile
			if len(args) > 0 {
				fpath = args[0]
			}
			if err := config.WriteTemplate(fpath); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "configuration template written to %s\n", fpath)
			return nil
		},
	}
}
