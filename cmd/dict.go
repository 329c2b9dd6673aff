/*
Copyright © 2025 The translation-assistant Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/bohradivyansh-maker/translation-assistant/internal/store"
)

var (
	dictSource string
	dictTarget string
	dictDomain string
	dictNotes  string
)

var dictCmd = &cobra.Command{
	Use:   "dict",
	Short: "Manage the user dictionary",
	Long: `Add, look up, list and delete user dictionary terms.

Dictionary terms found in a text are passed to the translator as a glossary,
so brand names and domain vocabulary are translated consistently.`,
}

var dictAddCmd = &cobra.Command{
	Use:   "add <term> <translation>",
	Short: "Add or replace a dictionary term",
	Long: `Add a term and its translation for a language pair.

Example:
  translation-assistant dict add "pull request" "solicitud de cambios" -s en -t es`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requirePair(); err != nil {
			return err
		}
		db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()

		ok := db.AddUserTerm(context.Background(), store.UserTerm{
			Term:        args[0],
			Translation: args[1],
			SourceLang:  dictSource,
			TargetLang:  dictTarget,
			Domain:      dictDomain,
			Notes:       dictNotes,
		})
		if !ok {
			return fmt.Errorf("failed to add dictionary term")
		}
		fmt.Printf("Added: [%s→%s] %q → %q\n", dictSource, dictTarget, args[0], args[1])
		return nil
	},
}

var dictGetCmd = &cobra.Command{
	Use:   "get <term>",
	Short: "Look up a dictionary term",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requirePair(); err != nil {
			return err
		}
		db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()

		translation, ok := db.GetUserTerm(context.Background(), args[0], dictSource, dictTarget)
		if !ok {
			return fmt.Errorf("term %q not found for %s→%s", args[0], dictSource, dictTarget)
		}
		fmt.Println(translation)
		return nil
	},
}

var dictListCmd = &cobra.Command{
	Use:   "list",
	Short: "List dictionary terms",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()

		terms := db.ListUserTerms(context.Background(), dictSource, dictTarget)
		if len(terms) == 0 {
			fmt.Println("Dictionary is empty.")
			return nil
		}

		t := newTable()
		t.AppendHeader(table.Row{"Pair", "Term", "Translation", "Domain", "Notes"})
		for _, term := range terms {
			t.AppendRow(table.Row{term.SourceLang + "→" + term.TargetLang, term.Term, term.Translation, term.Domain, term.Notes})
		}
		t.Render()
		return nil
	},
}

var dictDeleteCmd = &cobra.Command{
	Use:   "delete <term>",
	Short: "Delete a dictionary term",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requirePair(); err != nil {
			return err
		}
		db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()

		if !db.DeleteUserTerm(context.Background(), args[0], dictSource, dictTarget) {
			return fmt.Errorf("term %q not found for %s→%s", args[0], dictSource, dictTarget)
		}
		fmt.Printf("Deleted dictionary term: %s\n", args[0])
		return nil
	},
}

func requirePair() error {
	if dictSource == "" {
		return fmt.Errorf("--source language flag is required")
	}
	if dictTarget == "" {
		return fmt.Errorf("--target language flag is required")
	}
	return nil
}

func init() {
	rootCmd.AddCommand(dictCmd)

	dictCmd.PersistentFlags().StringVarP(&dictSource, "source", "s", "", "Source language code (e.g. en)")
	dictCmd.PersistentFlags().StringVarP(&dictTarget, "target", "t", "", "Target language code (e.g. es)")
	dictAddCmd.Flags().StringVar(&dictDomain, "domain", "", "Domain the term belongs to")
	dictAddCmd.Flags().StringVar(&dictNotes, "notes", "", "Free-form notes")

	dictCmd.AddCommand(dictAddCmd)
	dictCmd.AddCommand(dictGetCmd)
	dictCmd.AddCommand(dictListCmd)
	dictCmd.AddCommand(dictDeleteCmd)
}
