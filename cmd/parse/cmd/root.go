package cmd

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"blueprintforge/internal/blueprint"
	"blueprintforge/internal/envutil"
)

func newRootCmd() *cobra.Command {
	var (
		inPath string
		outDir string
		pretty bool
	)

	rootCmd := &cobra.Command{
		Use:           "parse",
		Short:         "Run raw LLM output through the blueprint recovery pipeline and write the result JSON",
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(inPath)
			if err != nil {
				return err
			}

			pipe := blueprint.New(func(event string, fields map[string]any) {
				fmt.Fprintf(cmd.ErrOrStderr(), "# %s %v\n", event, fields)
			})

			var result any
			doc, perr := pipe.ParseDocument(string(raw))
			if perr == nil {
				result = doc
			} else if pe, ok := blueprint.AsError(perr); ok {
				result = map[string]any{
					"error_code": string(pe.Code),
					"error":      pe.Message,
					"details":    pe.Details,
				}
			} else {
				return perr
			}

			outPath, werr := writeResult(outDir, raw, result, pretty)
			if werr != nil {
				return werr
			}
			fmt.Fprintln(cmd.OutOrStdout(), outPath)

			if perr != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), "ERROR:", perr)
			}
			return nil
		},
	}

	rootCmd.Flags().StringVar(&inPath, "in", "-", "Raw model output file path ('-' for stdin)")
	rootCmd.Flags().StringVar(&outDir, "out-dir", envutil.String(os.Getenv, "PARSE_OUT_DIR", "out"), "Output directory for result JSON")
	rootCmd.Flags().BoolVar(&pretty, "pretty", envutil.Bool(os.Getenv, "PARSE_PRETTY", false), "Indent the output JSON")

	return rootCmd
}

func readInput(path string) ([]byte, error) {
	if path == "" {
		return nil, errUsage
	}
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return raw, nil
}

func writeResult(outDir string, raw []byte, result any, pretty bool) (string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("create out dir: %w", err)
	}

	sum := sha256.Sum256(raw)
	name := "blueprint-" + hex.EncodeToString(sum[:8]) + ".json"
	outPath := filepath.Join(outDir, name)

	var (
		payload []byte
		err     error
	)
	if pretty {
		payload, err = json.MarshalIndent(result, "", "  ")
	} else {
		payload, err = json.Marshal(result)
	}
	if err != nil {
		return "", fmt.Errorf("encode result: %w", err)
	}

	if err := os.WriteFile(outPath, append(payload, '\n'), 0o644); err != nil {
		return "", fmt.Errorf("write result: %w", err)
	}
	return outPath, nil
}
