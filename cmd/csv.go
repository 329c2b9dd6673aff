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
	"encoding/csv"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bohradivyansh-maker/translation-assistant/internal/orchestrator"
)

var (
	csvInputFile  string
	csvOutputFile string
	csvSourceLang string
	csvTargetLang string
	csvColumns    []int
	csvSkipHeader bool
)

type cellRef struct{ row, col int }

var csvCmd = &cobra.Command{
	Use:   "csv",
	Short: "Translate columns of a CSV file",
	Long: `Translate one or more columns in a CSV file, one cell at a time.

By default all columns are translated. Use -l to select specific columns
(0-indexed). The flag may be repeated to select multiple columns. Cells
already in the translation memory are not sent to a translator again.

Example:
  translation-assistant translate csv -i data.csv -o out.csv -t es -l 1 -l 3`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if csvInputFile == csvOutputFile {
			return fmt.Errorf("input file and output file cannot be the same")
		}

		f, err := os.Open(csvInputFile)
		if err != nil {
			return fmt.Errorf("failed to open input CSV: %w", err)
		}
		defer f.Close()

		reader := csv.NewReader(f)
		reader.FieldsPerRecord = -1
		records, err := reader.ReadAll()
		if err != nil {
			return fmt.Errorf("failed to read CSV: %w", err)
		}
		if len(records) == 0 {
			return fmt.Errorf("CSV file is empty")
		}

		colSet := make(map[int]bool, len(csvColumns))
		for _, c := range csvColumns {
			colSet[c] = true
		}
		translateAll := len(csvColumns) == 0

		out := make([][]string, len(records))
		var refs []cellRef
		var texts []string
		for rowIdx, row := range records {
			out[rowIdx] = append([]string(nil), row...)
			if csvSkipHeader && rowIdx == 0 {
				continue
			}
			for colIdx, cell := range row {
				if cell == "" || (!translateAll && !colSet[colIdx]) {
					continue
				}
				refs = append(refs, cellRef{rowIdx, colIdx})
				texts = append(texts, cell)
			}
		}

		ctx := context.Background()
		p, err := newPipeline(ctx)
		if err != nil {
			return err
		}
		defer p.Close()

		target := csvTargetLang
		if target == "" {
			target = cfg.Language.DefaultTarget
		}

		failed := 0
		for i, res := range p.orch.BatchTranslate(ctx, texts, target, csvSourceLang) {
			ref := refs[i]
			if res.Method == orchestrator.MethodError {
				failed++
				fmt.Fprintf(os.Stderr, "Row %d col %d: translation failed, keeping original\n", ref.row, ref.col)
				continue
			}
			out[ref.row][ref.col] = res.TranslatedText
		}

		outFile, err := os.Create(csvOutputFile)
		if err != nil {
			return fmt.Errorf("failed to create output CSV: %w", err)
		}
		defer outFile.Close()

		writer := csv.NewWriter(outFile)
		if err := writer.WriteAll(out); err != nil {
			return fmt.Errorf("failed to write output CSV: %w", err)
		}

		fmt.Printf("CSV translated: %s (%d cells, %d failed)\n", csvOutputFile, len(texts), failed)
		return nil
	},
}

func init() {
	translateCmd.AddCommand(csvCmd)

	csvCmd.Flags().StringVarP(&csvInputFile, "input", "i", "", "Input CSV file (required)")
	csvCmd.Flags().StringVarP(&csvOutputFile, "output", "o", "", "Output CSV file (required)")
	csvCmd.Flags().StringVarP(&csvSourceLang, "source", "s", "", "Source language code (detected per cell when empty)")
	csvCmd.Flags().StringVarP(&csvTargetLang, "target", "t", "", "Target language code (default from config)")
	csvCmd.Flags().IntSliceVarP(&csvColumns, "column", "l", nil, "Column index to translate (0-indexed, repeatable; default: all columns)")
	csvCmd.Flags().BoolVar(&csvSkipHeader, "header", false, "Keep the first row untranslated")

	csvCmd.MarkFlagRequired("input")
	csvCmd.MarkFlagRequired("output")
}
