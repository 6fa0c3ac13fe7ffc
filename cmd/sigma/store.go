package main

import (
	"encoding/hex"
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/privacybydesign/sigma/big"
	"github.com/privacybydesign/sigma/fileproof"
	"github.com/privacybydesign/sigma/internal/common"
	"github.com/privacybydesign/sigma/keys"
)

func (a *app) storeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Inspect the database of recorded proofs",
	}
	cmd.AddCommand(a.storeListCmd(), a.storeShowCmd(), a.storeDeleteCmd())
	return cmd
}

func (a *app) storeListCmd() *cobra.Command {
	var pubFile string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded proofs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var y *big.Int
			if pubFile != "" {
				pubk, err := keys.NewPublicKeyFromFile(pubFile)
				if err != nil {
					return err
				}
				y = pubk.Y
			}
			s, err := fileproof.OpenStore(a.conf.Store.Path)
			if err != nil {
				return err
			}
			defer common.Close(s)
			records, err := s.List(y)
			if err != nil {
				return err
			}

			tw := table.NewWriter()
			tw.AppendHeader(table.Row{"content", "public key", "created"})
			for _, r := range records {
				tw.AppendRow(table.Row{r.Content, abbreviate(r.PublicKey, 16), r.Time().Format(time.RFC3339)})
			}
			tw.AppendFooter(table.Row{"", "total", len(records)})
			fmt.Fprintln(cmd.OutOrStdout(), tw.Render())
			return nil
		},
	}
	cmd.Flags().StringVar(&pubFile, "public", "", "only list proofs made with this public key")
	return cmd
}

func (a *app) storeShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show DIGEST",
		Short: "Print the recorded proofs for a content digest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			digest, err := hex.DecodeString(args[0])
			if err != nil {
				return err
			}
			s, err := fileproof.OpenStore(a.conf.Store.Path)
			if err != nil {
				return err
			}
			defer common.Close(s)
			records, err := s.Find(fileproof.Digest(digest))
			if err != nil {
				return err
			}
			if len(records) == 0 {
				return fileproof.ErrNotFound
			}

			for _, r := range records {
				proof, err := r.Decode()
				if err != nil {
					return err
				}
				tw := table.NewWriter()
				tw.AppendRows([]table.Row{
					{"content", r.Content},
					{"hash", common.HashName(proof.Hash)},
					{"public key", proof.PublicKey},
					{"commitment", proof.Commitment},
					{"challenge", proof.Challenge},
					{"response", proof.Response},
					{"created", r.Time().Format(time.RFC3339)},
				})
				fmt.Fprintln(cmd.OutOrStdout(), tw.Render())
			}
			return nil
		},
	}
}

func (a *app) storeDeleteCmd() *cobra.Command {
	var pubFile string
	cmd := &cobra.Command{
		Use:   "delete DIGEST",
		Short: "Delete the recorded proofs for a content digest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bts, err := hex.DecodeString(args[0])
			if err != nil {
				return err
			}
			digest := fileproof.Digest(bts)
			s, err := fileproof.OpenStore(a.conf.Store.Path)
			if err != nil {
				return err
			}
			defer common.Close(s)

			var ys []*big.Int
			if pubFile != "" {
				pubk, err := keys.NewPublicKeyFromFile(pubFile)
				if err != nil {
					return err
				}
				ys = append(ys, pubk.Y)
			} else {
				records, err := s.Find(digest)
				if err != nil {
					return err
				}
				for _, r := range records {
					proof, err := r.Decode()
					if err != nil {
						return err
					}
					ys = append(ys, proof.PublicKey)
				}
			}
			if len(ys) == 0 {
				return fileproof.ErrNotFound
			}
			for _, y := range ys {
				if err = s.Delete(digest, y); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d proofs for %s\n", len(ys), args[0])
			return nil
		},
	}
	cmd.Flags().StringVar(&pubFile, "public", "", "only delete the proof made with this public key")
	return cmd
}

func abbreviate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
