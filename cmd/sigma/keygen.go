package main

import (
	"crypto/rand"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/privacybydesign/sigma/keys"
)

func (a *app) keygenCmd() *cobra.Command {
	var paramsFile, privFile, pubFile string
	var force bool
	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate a key pair in the configured group",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			params, err := a.loadParams(paramsFile)
			if err != nil {
				return err
			}
			privk, err := keys.GenerateKey(rand.Reader, params)
			if err != nil {
				return err
			}
			if _, err = privk.WriteToFile(privFile, force); err != nil {
				return err
			}
			if _, err = privk.Public().WriteToFile(pubFile, force); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "private key written to %s, public key to %s\n", privFile, pubFile)
			return nil
		},
	}
	cmd.Flags().StringVarP(&paramsFile, "params", "p", "", "group parameter file (default from configuration)")
	cmd.Flags().StringVar(&privFile, "private", "sk.json", "private key output file")
	cmd.Flags().StringVar(&pubFile, "public", "pk.json", "public key output file")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite existing files")
	return cmd
}
