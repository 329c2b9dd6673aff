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
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bohradivyansh-maker/translation-assistant/internal/orchestrator"
)

var (
	inputFile   string
	outputFile  string
	sourceLang  string
	targetLang  string
	contextFile string

	contextBefore string
	contextAfter  string
	preserve      []string
	jsonOutput    bool
)

var translateCmd = &cobra.Command{
	Use:   "translate [text]",
	Short: "Translate text, optionally using its surrounding context",
	Long: `Translate a piece of text. The text is taken from the argument, from
--input or from standard input.

Context-aware translation:
  --context-file  Full document the text was selected from; the surrounding
                  sentences are sent along and the matching part is extracted
  --before/--after  Supply the surrounding text directly

Named entities listed with --preserve (or recognised automatically when
translation.preserve_entities is enabled) are kept untranslated.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readInput(args)
		if err != nil {
			return err
		}

		ctx := context.Background()
		p, err := newPipeline(ctx)
		if err != nil {
			return err
		}
		defer p.Close()

		req := orchestrator.Request{
			Text:             text,
			TargetLang:       targetLang,
			SourceLang:       sourceLang,
			ContextBefore:    contextBefore,
			ContextAfter:     contextAfter,
			PreserveEntities: preserve,
		}
		if req.TargetLang == "" {
			req.TargetLang = cfg.Language.DefaultTarget
		}

		var res *orchestrator.Result
		if contextFile != "" || contextBefore != "" || contextAfter != "" {
			if contextFile != "" {
				full, err := os.ReadFile(contextFile)
				if err != nil {
					return fmt.Errorf("failed to read context file: %w", err)
				}
				req.FullText = string(full)
			}
			res = p.orch.TranslateWithContext(ctx, req)
		} else {
			res = p.orch.Translate(ctx, req)
		}

		if err := writeOutput(res.TranslatedText); err != nil {
			return err
		}

		if jsonOutput {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		}
		fmt.Fprintf(os.Stderr, "Translated %s to %s via %s (confidence %.2f)\n",
			res.SourceLang, res.TargetLang, res.Method, res.Confidence)
		if res.ContextUsed {
			fmt.Fprintln(os.Stderr, "Context was used")
		}
		if len(res.PreservedEntities) > 0 {
			fmt.Fprintf(os.Stderr, "Preserved: %s\n", strings.Join(res.PreservedEntities, ", "))
		}
		if res.Method == orchestrator.MethodError {
			return fmt.Errorf("translation failed: %s", res.Outcome.Detail)
		}
		return nil
	},
}

func readInput(args []string) (string, error) {
	switch {
	case len(args) == 1:
		return args[0], nil
	case inputFile != "":
		if inputFile == outputFile {
			return "", fmt.Errorf("input file and output file cannot be the same")
		}
		b, err := os.ReadFile(inputFile)
		if err != nil {
			return "", fmt.Errorf("failed to read input file: %w", err)
		}
		return string(b), nil
	default:
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(b), nil
	}
}

// writeOutput writes the translation to --output, or to stdout unless JSON
// output was requested.
func writeOutput(text string) error {
	if outputFile == "" {
		if !jsonOutput {
			fmt.Println(text)
		}
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(outputFile), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(outputFile, []byte(text), 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(translateCmd)

	translateCmd.Flags().StringVarP(&inputFile, "input", "i", "", "Input file to translate")
	translateCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file for the translation")
	translateCmd.Flags().StringVarP(&sourceLang, "source", "s", "", "Source language code (detected when empty)")
	translateCmd.Flags().StringVarP(&targetLang, "target", "t", "", "Target language code (default from config)")
	translateCmd.Flags().StringVarP(&contextFile, "context-file", "f", "", "Full document containing the text")
	translateCmd.Flags().StringVar(&contextBefore, "before", "", "Text preceding the selection")
	translateCmd.Flags().StringVar(&contextAfter, "after", "", "Text following the selection")
	translateCmd.Flags().StringSliceVarP(&preserve, "preserve", "p", nil, "Entities to keep untranslated (comma-separated)")
	translateCmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the full result as JSON")
}
