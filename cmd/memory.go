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
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/bohradivyansh-maker/translation-assistant/internal/store"
)

var (
	memSource    string
	memTarget    string
	memHistoryN  int
	memSearchN   int
	memOlderThan int
	memAll       bool
	memFuzzy     float64
)

var memoryCmd = &cobra.Command{
	Use:   "memory",
	Short: "Inspect and manage the translation memory",
	Long:  `Show statistics and history, search and purge the SQLite translation memory.`,
}

var memoryStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show translation memory statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()

		ctx := context.Background()
		stats := db.Statistics(ctx)

		fmt.Printf("Total translations: %d\n", stats.TotalTranslations)
		fmt.Printf("Total usage:        %d\n", stats.TotalUsage)
		fmt.Printf("Dictionary terms:   %d\n", stats.UserDictionarySize)

		if len(stats.TopLanguagePairs) > 0 {
			t := newTable()
			t.AppendHeader(table.Row{"Source", "Target", "Count"})
			for _, p := range stats.TopLanguagePairs {
				t.AppendRow(table.Row{p.SourceLang, p.TargetLang, p.Count})
			}
			t.Render()
		}
		if len(stats.DomainDistribution) > 0 {
			t := newTable()
			t.AppendHeader(table.Row{"Domain", "Count"})
			for _, d := range stats.DomainDistribution {
				t.AppendRow(table.Row{d.Domain, d.Count})
			}
			t.Render()
		}
		if actions := db.ActionCounts(ctx); len(actions) > 0 {
			t := newTable()
			t.AppendHeader(table.Row{"Action", "Count"})
			for _, name := range []string{"add", "reuse", "hit", "purge"} {
				t.AppendRow(table.Row{name, actions[name]})
			}
			t.Render()
		}
		return nil
	},
}

var memoryHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "List the most recent translations",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()

		records := db.History(context.Background(), memHistoryN, memSource, memTarget)
		if len(records) == 0 {
			fmt.Println("No translations in memory.")
			return nil
		}
		renderRecords(records)
		return nil
	},
}

var memorySearchCmd = &cobra.Command{
	Use:   "search <fragment>",
	Short: "Search stored translations by source text",
	Long: `Search the memory for translations whose source text contains the
fragment. With --fuzzy the closest stored text at or above the given
similarity (0-1) is returned instead.

Example:
  translation-assistant memory search "good morning" -s en -t es
  translation-assistant memory search "good mornin" -s en -t es --fuzzy 0.8`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if memSource == "" || memTarget == "" {
			return fmt.Errorf("--source and --target are required")
		}
		db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()

		ctx := context.Background()
		if memFuzzy > 0 {
			rec, score, ok := db.FindFuzzy(ctx, args[0], memSource, memTarget, memFuzzy)
			if !ok {
				fmt.Println("No similar translation found.")
				return nil
			}
			fmt.Printf("Similarity: %.2f\n", score)
			renderRecords([]store.Record{*rec})
			return nil
		}

		records := db.SearchSimilar(ctx, args[0], memSource, memTarget, memSearchN)
		if len(records) == 0 {
			fmt.Println("No matching translations.")
			return nil
		}
		renderRecords(records)
		return nil
	},
}

var memoryPurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete old translations from memory",
	Long: `Delete translations older than --older-than days, or every translation
with --all.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !memAll && memOlderThan <= 0 {
			return fmt.Errorf("either --older-than or --all is required")
		}
		db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()

		ctx := context.Background()
		mem, cacheCloser, err := buildMemory(ctx, db)
		if err != nil {
			return err
		}
		if cacheCloser != nil {
			defer cacheCloser.Close()
		}
		purger, ok := mem.(store.Purger)
		if !ok {
			return fmt.Errorf("translation memory does not support purge")
		}

		var days *int
		if !memAll {
			days = &memOlderThan
		}
		n, ok := purger.Purge(ctx, days)
		if !ok {
			return fmt.Errorf("failed to purge translation memory")
		}
		fmt.Printf("Purged %d translations.\n", n)
		return nil
	},
}

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	return t
}

func renderRecords(records []store.Record) {
	t := newTable()
	t.AppendHeader(table.Row{"ID", "Pair", "Method", "Used", "Last used", "Original", "Translation"})
	for _, r := range records {
		t.AppendRow(table.Row{
			r.ID,
			r.SourceLang + "→" + r.TargetLang,
			r.Method,
			r.UsageCount,
			r.Timestamp.Local().Format("2006-01-02 15:04"),
			text.Trim(r.OriginalText, 40),
			text.Trim(r.TranslatedText, 40),
		})
	}
	t.Render()
}

func init() {
	rootCmd.AddCommand(memoryCmd)

	memoryCmd.PersistentFlags().StringVarP(&memSource, "source", "s", "", "Source language code")
	memoryCmd.PersistentFlags().StringVarP(&memTarget, "target", "t", "", "Target language code")

	memoryHistoryCmd.Flags().IntVarP(&memHistoryN, "limit", "n", 50, "Maximum number of records")
	memorySearchCmd.Flags().IntVarP(&memSearchN, "limit", "n", 5, "Maximum number of records")
	memorySearchCmd.Flags().Float64Var(&memFuzzy, "fuzzy", 0, "Minimum similarity for a fuzzy match (0 disables)")
	memoryPurgeCmd.Flags().IntVar(&memOlderThan, "older-than", 0, "Delete translations older than this many days")
	memoryPurgeCmd.Flags().BoolVar(&memAll, "all", false, "Delete every translation")

	memoryCmd.AddCommand(memoryStatsCmd)
	memoryCmd.AddCommand(memoryHistoryCmd)
	memoryCmd.AddCommand(memorySearchCmd)
	memoryCmd.AddCommand(memoryPurgeCmd)
}
