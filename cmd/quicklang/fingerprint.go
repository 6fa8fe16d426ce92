package main

import (
	"fmt"

	"github.com/ZaguanLabs/quicklang"
	"github.com/spf13/cobra"
)

func newFingerprintCmd(a *app) *cobra.Command {
	var (
		form      formFlags
		canonical bool
		check     bool
		sessionID string
	)

	cmd := &cobra.Command{
		Use:   "fingerprint [file | -]",
		Short: "Print the fingerprint of a translation request",
		Long: `Print the SHA-256 fingerprint identifying a translation request.

With --check the fingerprint is compared with the last successful request of
--session in the configured store, and the command fails if it is a duplicate.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) > 0 {
				path = args[0]
			}
			text, err := readText(path, cmd.InOrStdin())
			if err != nil {
				return err
			}
			req, err := form.request(text)
			if err != nil {
				return err
			}
			if err := req.Validate(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if canonical {
				fmt.Fprintf(out, "%q\n", quicklang.CanonicalRequest(req))
			}
			fp := quicklang.ComputeFingerprint(req)
			fmt.Fprintln(out, fp)

			if !check {
				return nil
			}

			st, closeStore, err := a.openStore()
			if err != nil {
				return err
			}
			defer closeStore()

			if err := quicklang.NewGate(st).Check(sessionID, fp); err != nil {
				return err
			}
			fmt.Fprintln(cmd.ErrOrStderr(), "not a duplicate")
			return nil
		},
	}

	form.register(cmd)
	cmd.Flags().BoolVar(&canonical, "canonical", false, "Also print the canonical string that is hashed")
	cmd.Flags().BoolVar(&check, "check", false, "Compare with the session's last successful request")
	cmd.Flags().StringVar(&sessionID, "session", "cli", "Session id for --check")
	return cmd
}
