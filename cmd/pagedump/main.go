// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the pagedump CLI. pagedump prints the
// extracted text of every page of a PDF, each preceded by a page banner.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pdiddy/pagedump/internal/cache"
	"github.com/pdiddy/pagedump/internal/dump"
	"github.com/pdiddy/pagedump/internal/pdftext"
	"github.com/pdiddy/pagedump/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd dumps the pages of one PDF file.
var rootCmd = &cobra.Command{
	Use:   "pagedump <file.pdf>",
	Short: "Print the text of every page of a PDF",
	Long: `pagedump opens the PDF named on the command line and prints each page's
extracted text, in document order, preceded by a banner line:

  --- Page 1 ---
  <text of page 1>
  --- Page 2 ---
  ...

Pages without a text layer (scanned images) print an empty text block.
The exit status is non-zero when the file cannot be opened as a PDF.`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE:         runDump,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./pagedump.yaml or ~/.config/pagedump/pagedump.yaml)")
	rootCmd.PersistentFlags().String("cache-db", "", "cache database path (default: user cache dir)")

	rootCmd.Flags().String("backend", string(types.BackendNative), "extraction backend: native or pdftotext")
	rootCmd.Flags().String("format", string(types.OutputText), "output format: text or yaml")
	rootCmd.Flags().Bool("cache", false, "cache extracted pages in a SQLite database")

	bindFlag("backend", rootCmd.Flags().Lookup("backend"))
	bindFlag("format", rootCmd.Flags().Lookup("format"))
	bindFlag("cache.enabled", rootCmd.Flags().Lookup("cache"))
	bindFlag("cache.path", rootCmd.PersistentFlags().Lookup("cache-db"))
}

func bindFlag(key string, flag *pflag.Flag) {
	if err := viper.BindPFlag(key, flag); err != nil {
		panic(fmt.Sprintf("binding flag %s: %v", key, err))
	}
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("pagedump")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "pagedump"))
		}
	}

	viper.SetEnvPrefix("PAGEDUMP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// dumpConfig assembles the run configuration from flags, environment and
// config file, in viper's precedence order.
func dumpConfig() types.DumpConfig {
	return types.DumpConfig{
		Backend:      types.Backend(viper.GetString("backend")),
		Format:       types.OutputFormat(viper.GetString("format")),
		PdftotextBin: viper.GetString("pdftotext_bin"),
		Cache: types.CacheConfig{
			Enabled: viper.GetBool("cache.enabled"),
			Path:    viper.GetString("cache.path"),
		},
	}
}

func runDump(cmd *cobra.Command, args []string) error {
	return run(dumpConfig(), args[0], cmd.OutOrStdout(), cmd.ErrOrStderr())
}

// run dumps the document at path to stdout. Diagnostics go to stderr.
func run(cfg types.DumpConfig, path string, stdout, stderr io.Writer) error {
	op, err := pdftext.NewOpener(cfg)
	if err != nil {
		return err
	}

	if cfg.Cache.Enabled {
		store, err := cache.NewStore(cfg.Cache)
		if err != nil {
			fmt.Fprintf(stderr, "warning: cache disabled: %v\n", err)
		} else {
			defer store.Close()
			op = &cache.CachingOpener{
				Inner:     op,
				Store:     store,
				Extractor: pdftext.ExtractorID(cfg),
				Warn:      stderr,
			}
		}
	}

	out := bufio.NewWriter(stdout)
	err = dump.Write(op, path, out, cfg.Format)
	if ferr := out.Flush(); err == nil {
		err = ferr
	}
	return err
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
