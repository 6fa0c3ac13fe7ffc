package main

import (
	"crypto/rand"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/privacybydesign/sigma"
	"github.com/privacybydesign/sigma/big"
	"github.com/privacybydesign/sigma/group"
	"github.com/privacybydesign/sigma/keys"
)

func (a *app) demoCmd() *cobra.Command {
	var rounds int
	var paramsFile string
	var random, simulate bool
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run the interactive protocol and print its transcripts",
		Long: "Run the interactive protocol between an honest prover and a verifier, by default in the\n" +
			"demonstration group p = 89, q = 11, g = 2 with secret x = 9, and print every transcript.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			params := group.Toy()
			if paramsFile != "" {
				var err error
				if params, err = a.loadParams(paramsFile); err != nil {
					return err
				}
			}
			var privk *keys.PrivateKey
			var err error
			if random || paramsFile != "" {
				privk, err = keys.GenerateKey(rand.Reader, params)
			} else {
				privk, err = keys.NewPrivateKey(params, big.NewInt(9))
			}
			if err != nil {
				return err
			}

			transcripts, ok, err := sigma.Identify(rand.Reader, privk, rounds)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "group %s\nsecret x = %s, public y = %s\n", params, privk.X, privk.Y)
			tw := table.NewWriter()
			tw.AppendHeader(table.Row{"round", "t", "c", "s", "g^s", "t*y^c", "result"})
			for i, tr := range transcripts {
				tw.AppendRow(transcriptRow(fmt.Sprint(i+1), params, privk.Y, tr))
			}
			if simulate {
				c, err := sigma.NewChallenge(rand.Reader, params)
				if err != nil {
					return err
				}
				tr, err := sigma.Simulate(rand.Reader, params, privk.Y, c)
				if err != nil {
					return err
				}
				tw.AppendRow(transcriptRow("simulated", params, privk.Y, tr))
			}
			fmt.Fprintln(out, tw.Render())
			if ok {
				fmt.Fprintf(out, "accepted after %d rounds\n", len(transcripts))
			} else {
				fmt.Fprintln(out, "rejected")
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&rounds, "rounds", "r", 3, "number of sequential protocol runs")
	cmd.Flags().StringVarP(&paramsFile, "params", "p", "", "use this group instead of the demonstration group")
	cmd.Flags().BoolVar(&random, "random", false, "use a random secret")
	cmd.Flags().BoolVar(&simulate, "simulate", false, "append a transcript simulated without the secret")
	return cmd
}

func transcriptRow(label string, params *group.Params, y *big.Int, tr *sigma.Transcript) table.Row {
	lhs := params.Exp(new(big.Int), tr.Response)
	rhs := params.Mul(tr.Commitment, params.ExpMod(y, tr.Challenge))
	result := "rejected"
	if sigma.Verify(params, y, tr.Commitment, tr.Challenge, tr.Response) {
		result = "accepted"
	}
	return table.Row{label, tr.Commitment, tr.Challenge, tr.Response, lhs, rhs, result}
}
