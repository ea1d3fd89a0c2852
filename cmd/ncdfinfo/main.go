// Command ncdfinfo is a thin demonstration of wiring a file path and a
// TOML config to the ncdf library: it is not part of the library itself
// (ncdf does not open files or parse flags), only an external example of
// a caller that does.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/spatialmodel/ncdf"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "ncdfinfo",
	Short: "Inspect NetCDF classic/64-bit-offset headers",
	Long: `ncdfinfo parses the header of a NetCDF classic or 64-bit-offset file
and prints its dimensions, global attributes and variables.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "./ncdfinfo.toml", "configuration file location")
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(readCmd)
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print the dimension, attribute and variable tables of a header",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := startup()
		if err != nil {
			return err
		}
		return runSummary(cfg, log)
	},
}

var readCmd = &cobra.Command{
	Use:   "read",
	Short: "Read one element of a variable and print it",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := startup()
		if err != nil {
			return err
		}
		return runRead(cfg, log, args)
	},
}

func startup() (*Config, *logrus.Logger, error) {
	cfg, err := readConfigFile(configFile)
	if err != nil {
		return nil, nil, err
	}

	log := logrus.New()
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid LogLevel %q: %v", cfg.LogLevel, err)
	}
	log.SetLevel(level)

	return cfg, log, nil
}

func openSource(cfg *Config) (ncdf.Source, func() error, error) {
	f, err := os.Open(cfg.File)
	if err != nil {
		return nil, nil, err
	}
	if cfg.Mmap {
		src, err := ncdf.NewMmapSource(f)
		if err != nil {
			f.Close()
			return nil, nil, err
		}
		return src, func() error {
			src.Close()
			return f.Close()
		}, nil
	}
	return ncdf.NewFileSource(f), f.Close, nil
}

func runSummary(cfg *Config, log *logrus.Logger) error {
	src, closeSrc, err := openSource(cfg)
	if err != nil {
		return err
	}
	defer closeSrc()

	log.WithField("file", cfg.File).Info("parsing header")
	hdr, err := ncdf.ParseHeader(src)
	if err != nil {
		return err
	}

	fmt.Printf("version: %s\n", hdr.Version)
	fmt.Printf("record count: %s\n", hdr.RecordCount)

	fmt.Println("dimensions:")
	for i, d := range hdr.Dimensions() {
		fmt.Printf("  %d: %s = %d\n", i, d.Name, d.Length)
	}

	fmt.Println("global attributes:")
	for name, a := range hdr.GlobalAttributes() {
		fmt.Printf("  %s (%s) = %v\n", name, a.Type, a.Value)
	}

	fmt.Println("variables:")
	for _, name := range hdr.VariableNames() {
		v, _ := hdr.Variable(name)
		fmt.Printf("  %s (%s) dims=%v begin=%d vsize=%d\n", v.Name, v.Type, v.DimIDs, v.Begin, v.VSize)
	}

	log.WithField("fingerprint", hdr.Fingerprint()).Debug("done")
	return nil
}

func runRead(cfg *Config, log *logrus.Logger, coordArgs []string) error {
	if cfg.Variable == "" {
		return fmt.Errorf("config Variable must name a variable to read")
	}

	src, closeSrc, err := openSource(cfg)
	if err != nil {
		return err
	}
	defer closeSrc()

	hdr, err := ncdf.ParseHeader(src)
	if err != nil {
		return err
	}

	v, ok := hdr.Variable(cfg.Variable)
	if !ok {
		return fmt.Errorf("no such variable %q", cfg.Variable)
	}

	coord := make([]int, len(v.DimIDs))
	buf := make([]byte, v.Type.Size())
	if err := hdr.ReadAt(src, cfg.Variable, coord, buf); err != nil {
		return err
	}

	log.WithField("variable", cfg.Variable).Info("read element")
	switch v.Type {
	case ncdf.Float:
		fmt.Println(ncdf.BytesToF32BE(buf)[0])
	default:
		fmt.Printf("% x\n", buf)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
