package main

import (
	"crypto/rand"
	"fmt"
	"os"

	"github.com/go-errors/errors"
	"github.com/spf13/cobra"

	"github.com/privacybydesign/sigma/big"
	"github.com/privacybydesign/sigma/fiatshamir"
	"github.com/privacybydesign/sigma/fileproof"
	"github.com/privacybydesign/sigma/group"
	"github.com/privacybydesign/sigma/internal/common"
	"github.com/privacybydesign/sigma/keys"
)

func (a *app) proveCmd() *cobra.Command {
	var keyFile, out string
	var store, force bool
	cmd := &cobra.Command{
		Use:   "prove FILE",
		Short: "Prove possession of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			privk, err := keys.NewPrivateKeyFromFile(keyFile)
			if err != nil {
				return err
			}
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer common.Close(f)

			proof, err := a.service().ProvePossessionReader(rand.Reader, f, privk)
			if err != nil {
				return err
			}
			bts, err := proof.MarshalBinary()
			if err != nil {
				return err
			}
			if out == "" {
				out = args[0] + ".proof"
			}
			if err = writeFile(out, force, bts); err != nil {
				return err
			}
			if store {
				if err = a.record(proof); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "proof for %s written to %s\n", fileproof.Digest(proof.Content), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&keyFile, "key", "k", "sk.json", "private key file")
	cmd.Flags().StringVarP(&out, "out", "o", "", "proof output file (default FILE.proof)")
	cmd.Flags().BoolVarP(&store, "store", "s", false, "also record the proof in the configured store")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite existing proof file")
	return cmd
}

func (a *app) record(proof *fiatshamir.Proof) error {
	s, err := fileproof.OpenStore(a.conf.Store.Path)
	if err != nil {
		return err
	}
	defer common.Close(s)
	return s.Put(proof)
}

func (a *app) verifyCmd() *cobra.Command {
	var pubFile, paramsFile string
	cmd := &cobra.Command{
		Use:   "verify FILE PROOF",
		Short: "Verify a proof of possession of a file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			bts, err := os.ReadFile(args[1])
			if err != nil {
				return err
			}
			proof := &fiatshamir.Proof{}
			if err = proof.UnmarshalBinary(bts); err != nil {
				return err
			}

			var params *group.Params
			var y *big.Int
			if pubFile != "" {
				pubk, err := keys.NewPublicKeyFromFile(pubFile)
				if err != nil {
					return err
				}
				params, y = pubk.Params, pubk.Y
			} else if params, err = a.loadParams(paramsFile); err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer common.Close(f)

			outcome, err := fileproof.VerifyPossessionReader(proof, f, params, y)
			if err != nil {
				return err
			}
			a.logger.Debugf("verification of %s: %s", args[1], outcome)
			if !outcome.Valid() {
				return errors.Errorf("proof invalid (%s)", outcome)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "proof valid")
			return nil
		},
	}
	cmd.Flags().StringVar(&pubFile, "public", "", "require the proof to be made with this public key")
	cmd.Flags().StringVarP(&paramsFile, "params", "p", "", "group parameter file, if no public key is given (default from configuration)")
	return cmd
}
