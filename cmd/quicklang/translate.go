package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/ZaguanLabs/quicklang"
	"github.com/spf13/cobra"
)

// translateOutput is the --json output format.
type translateOutput struct {
	Text        string                `json:"text"`
	Fingerprint quicklang.Fingerprint `json:"fingerprint"`
	Engine      quicklang.Engine      `json:"engine"`
	ElapsedMs   int64                 `json:"elapsed_ms"`
	Changed     []quicklang.Field     `json:"changed,omitempty"`
}

func newTranslateCmd(a *app) *cobra.Command {
	var (
		form      formFlags
		apiKey    string
		output    string
		sessionID string
		jsonOut   bool
		yes       bool
		quiet     bool
	)

	cmd := &cobra.Command{
		Use:   "translate [file.txt | -]",
		Short: "Translate text from a .txt file or stdin",
		Long: `Translate text from a .txt file or stdin.

The request is fingerprinted and compared with the last successful request of
the session; an identical request is refused. With a Redis store configured
(session.redis_url) this holds across invocations.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			stdin := cmd.InOrStdin()
			stderr := cmd.ErrOrStderr()

			path := ""
			if len(args) > 0 {
				path = args[0]
			}

			kind, err := quicklang.ParseEngine(form.engine)
			if err != nil {
				return err
			}
			key, err := a.apiKey(kind, apiKey)
			if err != nil {
				return err
			}

			st, closeStore, err := a.openStore()
			if err != nil {
				return err
			}
			defer closeStore()

			fromStdin := isStdin(path)
			confirm := func(chars int) bool {
				if yes {
					return true
				}
				if fromStdin {
					fmt.Fprintf(stderr, "Input is %d characters long; rerun with --yes to send it.\n", chars)
					return false
				}
				return askYesNo(stdin, stderr, fmt.Sprintf("Input is %d characters long and may consume more tokens. Continue?", chars))
			}

			s, err := a.newSession(ctx, sessionID, kind, key, st, quicklang.WithLongTextConfirm(confirm))
			if err != nil {
				return err
			}

			var text string
			if fromStdin {
				text, err = readText(path, stdin)
			} else {
				text, err = s.ImportFromFile(path)
			}
			if err != nil {
				return err
			}

			req, err := form.request(text)
			if err != nil {
				return err
			}
			if err := s.Form().Apply(req); err != nil {
				return err
			}

			if !quiet {
				fmt.Fprintf(stderr, "Translating to %s with %s...\n", req.TargetLang.Name(), kind.Label())
			}

			res, err := s.Submit(ctx)
			if err != nil {
				return err
			}

			switch {
			case output != "":
				saved, err := s.ExportToFile(output)
				if err != nil {
					return err
				}
				if !quiet {
					fmt.Fprintf(stderr, "Saved to %s\n", saved)
				}
			case jsonOut:
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(translateOutput{
					Text:        res.Text,
					Fingerprint: res.Fingerprint,
					Engine:      res.Engine,
					ElapsedMs:   res.Elapsed.Milliseconds(),
					Changed:     res.Changed,
				}); err != nil {
					return err
				}
			default:
				fmt.Fprintln(cmd.OutOrStdout(), res.Text)
			}

			if !quiet {
				fmt.Fprintf(stderr, "Done in %s (fingerprint %s)\n", formatElapsed(res.Elapsed), res.Fingerprint.Short())
			}
			return nil
		},
	}

	form.register(cmd)
	cmd.Flags().StringVar(&apiKey, "api-key", "", "API key (default: the engine's *_API_KEY env)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the translation to a file (a directory gets "+quicklang.DefaultExportFilename+")")
	cmd.Flags().StringVar(&sessionID, "session", "cli", "Session id used for duplicate detection")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output result as JSON")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Send long texts without asking")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Suppress progress output")
	return cmd
}

// askYesNo prompts on w and reads one answer line from r.
func askYesNo(r io.Reader, w io.Writer, question string) bool {
	fmt.Fprintf(w, "%s [y/N] ", question)
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
