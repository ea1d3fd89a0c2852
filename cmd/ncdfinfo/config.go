package main

import (
	"bufio"
	"fmt"
	"io/ioutil"
	"os"

	"github.com/BurntSushi/toml"
)

// Config holds the settings ncdfinfo reads from a TOML file, pointed to
// by the --config flag. File and Variable may contain environment
// variables, expanded once at load time.
type Config struct {
	// File is the path to the NetCDF file to inspect.
	File string

	// Variable names the variable the "read" subcommand reads; "read"
	// fails if it is empty. The "summary" subcommand ignores it.
	Variable string

	// Mmap selects MmapSource instead of FileSource for the read path.
	Mmap bool

	// LogLevel is one of the level names logrus.ParseLevel accepts
	// ("debug", "info", "warn", "error").
	LogLevel string
}

func readConfigFile(filename string) (*Config, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("the configuration file you have specified, %v, does not "+
			"appear to exist. Please check the file name and location and try again", filename)
	}
	defer file.Close()

	reader := bufio.NewReader(file)
	raw, err := ioutil.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("problem reading configuration file: %v", err)
	}

	cfg := new(Config)
	if _, err := toml.Decode(string(raw), cfg); err != nil {
		return nil, fmt.Errorf("there has been an error parsing the configuration file: %v", err)
	}

	cfg.File = os.ExpandEnv(cfg.File)
	cfg.Variable = os.ExpandEnv(cfg.Variable)
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	return cfg, nil
}
