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
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	analyzeSelection string
	analyzeJSON      bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [text]",
	Short: "Analyze the context, entities, domain and key terms of a text",
	Long: `Analyze a text without translating it. With --selection the context
window is built around the selected part; otherwise the whole text is
treated as the selection.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readInput(args)
		if err != nil {
			return err
		}

		a := newAnalyzer().Analyze(context.Background(), text, analyzeSelection)

		if analyzeJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(a)
		}

		fmt.Printf("Sentences:      %d\n", a.NumSentences)
		fmt.Printf("Tokens:         %d (%d unique)\n", a.Preprocessing.NumTokens, a.Preprocessing.NumUnique)
		fmt.Printf("Primary domain: %s\n", a.PrimaryDomain)
		if a.Context.HasContext() {
			fmt.Printf("Before:         %s\n", a.Context.Before)
			fmt.Printf("After:          %s\n", a.Context.After)
		}
		if len(a.EntityTexts) > 0 {
			fmt.Printf("Entities:       %s\n", strings.Join(a.EntityTexts, ", "))
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"Domain", "Score"})
		for _, d := range a.DomainScores {
			t.AppendRow(table.Row{d.Domain, fmt.Sprintf("%.3f", d.Score)})
		}
		t.Render()

		if len(a.KeyTerms) > 0 {
			kt := table.NewWriter()
			kt.SetOutputMirror(os.Stdout)
			kt.SetStyle(table.StyleLight)
			kt.AppendHeader(table.Row{"Key term", "Score"})
			for _, k := range a.KeyTerms {
				kt.AppendRow(table.Row{k.Term, fmt.Sprintf("%.3f", k.Score)})
			}
			kt.Render()
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVarP(&inputFile, "input", "i", "", "Input file to analyze")
	analyzeCmd.Flags().StringVar(&analyzeSelection, "selection", "", "Selected part of the text")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "Print the analysis as JSON")
}
