package main

import (
	"encoding/json"
	"fmt"

	"github.com/ZaguanLabs/quicklang"
	"github.com/spf13/cobra"
)

func newExerciseCmd(a *app) *cobra.Command {
	var (
		lang    string
		kindArg string
		apiKey  string
		jsonOut bool
	)

	cmd := &cobra.Command{
		Use:       "exercise [future|past|imperfect]...",
		Short:     "Generate grammar practice sentences",
		Long:      "Generate practice sentences for the given grammar contexts (all of them when none are given).",
		ValidArgs: grammarArgs(),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			grammars := make([]quicklang.GrammarContext, 0, len(args))
			for _, arg := range args {
				g, err := quicklang.ParseGrammarContext(arg)
				if err != nil {
					return err
				}
				grammars = append(grammars, g)
			}

			target, err := quicklang.ParseLanguage(lang)
			if err != nil {
				return err
			}
			kind, err := quicklang.ParseEngine(kindArg)
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

			s, err := a.newSession(ctx, "cli-exercise", kind, key, st)
			if err != nil {
				return err
			}
			if err := s.Form().SetTargetLang(target); err != nil {
				return err
			}

			exercises, err := s.GenerateExercises(ctx, grammars...)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOut {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(exercises)
			}
			for i, ex := range exercises {
				if i > 0 {
					fmt.Fprintln(out)
				}
				fmt.Fprintf(out, "## %s (%s)\n\n%s\n", ex.Grammar.Label(), ex.Language.Name(), ex.Text)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&lang, "lang", "l", string(quicklang.Spanish), "Language to practice")
	cmd.Flags().StringVarP(&kindArg, "engine", "e", string(quicklang.EngineOpenAI), "AI engine: openai, gemini, deepseek")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "API key (default: the engine's *_API_KEY env)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output exercises as JSON")
	return cmd
}

func grammarArgs() []string {
	var out []string
	for _, g := range quicklang.GrammarContexts() {
		out = append(out, string(g))
	}
	return out
}
