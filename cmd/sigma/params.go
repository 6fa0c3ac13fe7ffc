package main

import (
	"crypto/rand"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/privacybydesign/sigma/group"
	"github.com/privacybydesign/sigma/internal/common"
)

func (a *app) paramsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "params",
		Short: "Generate and check group parameters",
	}
	cmd.AddCommand(a.paramsGenerateCmd(), a.paramsToyCmd(), a.paramsValidateCmd())
	return cmd
}

func (a *app) paramsGenerateCmd() *cobra.Command {
	var out string
	var safe, force bool
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate fresh group parameters of the configured sizes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var params *group.Params
			var err error
			if safe {
				a.logger.Infof("generating %d-bit safe prime group", a.conf.Group.PBits)
				params, err = group.GenerateSafe(cmd.Context(), rand.Reader, a.conf.Group.PBits)
			} else {
				a.logger.Infof("generating group with %d-bit p and %d-bit q", a.conf.Group.PBits, a.conf.Group.QBits)
				params, err = group.Generate(cmd.Context(), rand.Reader, a.conf.Group.PBits, a.conf.Group.QBits)
			}
			if err != nil {
				return err
			}
			return a.saveParams(cmd, params, out, force)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default from configuration)")
	cmd.Flags().BoolVar(&safe, "safe", false, "use a safe prime p = 2q+1")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite existing file")
	return cmd
}

func (a *app) paramsToyCmd() *cobra.Command {
	var out string
	var lo, hi int64
	var force bool
	cmd := &cobra.Command{
		Use:   "toy",
		Short: "Write insecure demonstration parameters",
		Long: "Write the demonstration group p = 89, q = 11, g = 2, or, if --lo and --hi are given,\n" +
			"the first group found by a linear search of primes p in [lo, hi].",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			params := group.Toy()
			if lo > 0 || hi > 0 {
				var err error
				if params, err = group.Search(lo, hi); err != nil {
					return err
				}
			}
			return a.saveParams(cmd, params, out, force)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default from configuration)")
	cmd.Flags().Int64Var(&lo, "lo", 0, "lower bound of the search for p")
	cmd.Flags().Int64Var(&hi, "hi", 0, "upper bound of the search for p")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite existing file")
	return cmd
}

func (a *app) paramsValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [FILE]",
		Short: "Check that a parameter file describes a valid group",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var fpath string
			if len(args) > 0 {
				fpath = args[0]
			}
			params, err := a.loadParams(fpath)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "valid group |p| = %d, |q| = %d\n", params.P.BitLen(), params.Q.BitLen())
			return nil
		},
	}
}

func (a *app) saveParams(cmd *cobra.Command, params *group.Params, out string, force bool) error {
	if out == "" {
		out = a.conf.Group.Params
	}
	f, err := createFile(out, force, 0644)
	if err != nil {
		return err
	}
	defer common.Close(f)
	if err = writeJSON(f, params); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "parameters %s written to %s\n", params, out)
	return nil
}
