// Command assetcli is a thin CLI wrapper around the asset codec: test a
// single asset's read/write round trip, or walk a directory and report
// SUCCESS/FAILURE per asset. Mirrors the original project's two clap
// subcommands (test, all).
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/craigmc08/drg-editor/internal/asset"
	"github.com/craigmc08/drg-editor/internal/format/property"
)

const (
	headerExt = ".uasset"
	bodyExt   = ".uexp"
)

var dataDir string

func main() {
	root := &cobra.Command{
		Use:     "assetcli",
		Short:   "Deserializes and serializes paired .uasset/.uexp files",
		Version: "0.1.0",
	}
	root.PersistentFlags().StringVarP(&dataDir, "data", "d", "./data", "Directory for config files")

	var outFile string
	testCmd := &cobra.Command{
		Use:   "test ASSET",
		Short: "Deserializes and serializes a single asset file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			patterns, err := loadPatterns()
			if err != nil {
				return err
			}
			assetLoc := trimAssetExt(args[0])
			out := outFile
			if out == "" {
				out = "./out/out"
			}
			return testCommand(out, assetLoc, patterns)
		},
	}
	testCmd.Flags().StringVarP(&outFile, "out", "o", "", "Filename to serialize asset to; default: ./out/out.[uasset/uexp]")
	root.AddCommand(testCmd)

	var allOut string
	allCmd := &cobra.Command{
		Use:   "all DIRECTORY",
		Short: "Deserializes every asset file recursively in a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			patterns, err := loadPatterns()
			if err != nil {
				return err
			}
			return allCommand(allOut, args[0], patterns)
		},
	}
	allCmd.Flags().StringVarP(&allOut, "out", "o", "", "Filename to output test information about; if not present, prints to stdout")
	root.AddCommand(allCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadPatterns() (*property.StructPatterns, error) {
	f, err := os.Open(filepath.Join(dataDir, "struct-patterns.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to load struct patterns: %w", err)
	}
	defer f.Close()
	patterns, err := property.LoadStructPatterns(f)
	if err != nil {
		return nil, fmt.Errorf("failed to load struct patterns: %w", err)
	}

	warned := make(map[string]bool)
	patterns.OnFallback = func(structType string) {
		if warned[structType] {
			return
		}
		warned[structType] = true
		log.Warn().Str("struct_type", structType).Msg("unknown struct pattern, using default")
	}

	return patterns, nil
}

func trimAssetExt(p string) string {
	return strings.TrimSuffix(strings.TrimSuffix(p, bodyExt), headerExt)
}

func testRW(basePath string, patterns *property.StructPatterns) error {
	a, err := asset.ReadFromPath(basePath, headerExt, bodyExt, patterns)
	if err != nil {
		return err
	}
	return a.RoundTripSelfTest()
}

func testCommand(outFile, assetLoc string, patterns *property.StructPatterns) error {
	if err := testRW(assetLoc, patterns); err != nil {
		fmt.Println("Error testing r/w of asset")
		fmt.Println(err)
	}

	a, err := asset.ReadFromPath(assetLoc, headerExt, bodyExt, patterns)
	if err != nil {
		fmt.Println("Failed to read asset")
		fmt.Println(err)
		os.Exit(1)
	}

	if err := os.MkdirAll(filepath.Dir(outFile), 0o755); err != nil {
		fmt.Println("Failed to create output directory")
		fmt.Println(err)
		os.Exit(1)
	}
	if err := a.WriteToPath(outFile, headerExt, bodyExt); err != nil {
		fmt.Println("Failed to write asset")
		fmt.Println(err)
	}
	return nil
}

func allCommand(outFile, dir string, patterns *property.StructPatterns) error {
	var assetLocs []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == headerExt {
			assetLocs = append(assetLocs, trimAssetExt(path))
		}
		return nil
	})
	if err != nil {
		return err
	}

	total := len(assetLocs)
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Prefix = fmt.Sprintf("Testing %d assets... ", total)
	s.Start()

	type result struct {
		path string
		err  error
	}
	results := make([]result, total)
	for i, loc := range assetLocs {
		results[i] = result{path: loc, err: testRW(loc, patterns)}
	}
	s.Stop()

	var out io.Writer = os.Stdout
	if outFile != "" {
		f, err := os.Create(outFile)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	w := bufio.NewWriter(out)
	defer w.Flush()

	successCount := 0
	for _, r := range results {
		if r.err != nil {
			fmt.Fprintf(w, "ASSET %s\nFAILURE\n%v\n====================\n", r.path, r.err)
			continue
		}
		successCount++
		fmt.Fprintf(w, "ASSET %s\nSUCCESS\n====================\n", r.path)
	}

	percent := float64(0)
	if total > 0 {
		percent = float64(successCount) / float64(total) * 100
	}
	fmt.Fprintf(w, "TOTAL\nSUCCESS %d of %d\nPERCENT %.2f%%\n", successCount, total, percent)
	return nil
}
