package main

import (
	"fmt"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/janelia-flyem/graft/datatype"
	"github.com/janelia-flyem/graft/graft"
	"github.com/janelia-flyem/graft/scenario"
)

type tomlConfig struct {
	Logging graft.LogConfig
	Store   storeConfig
	Format  formatConfig
	Types   typesConfig
}

type storeConfig struct {
	// Ref selects the storage engine: a directory path, a gocloud.dev bucket URL
	// or a badger:// reference.
	Ref string
}

type formatConfig struct {
	Compression string
	Checksum    string
}

type typesConfig struct {
	Computations []string
	Aliases      map[string]string
}

// Some settings in the TOML can be given as relative paths.
// This function converts them in-place to absolute paths,
// assuming the given paths were relative to the TOML file's own directory.
func (c *tomlConfig) convertPathsToAbsolute(configPath string) error {
	var err error

	configDir := filepath.Dir(configPath)

	// [logging].logfile
	if c.Logging.Logfile != "" {
		c.Logging.Logfile, err = graft.ConvertToAbsolute(c.Logging.Logfile, configDir)
		if err != nil {
			return fmt.Errorf("error converting logfile setting to absolute path: %w", err)
		}
	}

	// [store].ref, if a plain path
	if c.Store.Ref != "" {
		c.Store.Ref, err = graft.ConvertToAbsolute(c.Store.Ref, configDir)
		if err != nil {
			return fmt.Errorf("error converting store ref %q to absolute path: %w", c.Store.Ref, err)
		}
	}
	return nil
}

// loadConfig reads a TOML configuration file.  An empty filename returns the
// default configuration.
func loadConfig(filename string) (*tomlConfig, error) {
	var tc tomlConfig
	if filename == "" {
		return &tc, nil
	}
	if _, err := toml.DecodeFile(filename, &tc); err != nil {
		return nil, fmt.Errorf("could not decode TOML config: %w", err)
	}
	if err := tc.convertPathsToAbsolute(filename); err != nil {
		return nil, fmt.Errorf("could not convert relative paths to absolute paths in TOML config: %w", err)
	}
	graft.Debugf("tomlConfig: %v\n", tc)
	return &tc, nil
}

// saveConfig returns the envelope settings of [format].
func (c *tomlConfig) saveConfig() (scenario.Config, error) {
	var sc scenario.Config
	var err error
	if sc.Compression, err = graft.ParseCompression(c.Format.Compression); err != nil {
		return sc, fmt.Errorf("[format] %w", err)
	}
	if sc.Checksum, err = graft.ParseChecksum(c.Format.Checksum); err != nil {
		return sc, fmt.Errorf("[format] %w", err)
	}
	return sc, nil
}

// registerTypes adds the [types] computations and aliases to r.
func (c *tomlConfig) registerTypes(r *datatype.Registry) error {
	for _, name := range c.Types.Computations {
		if _, found := r.Lookup(name); found {
			continue
		}
		if err := r.RegisterComputation(name); err != nil {
			return fmt.Errorf("[types] computation %q: %w", name, err)
		}
	}
	for alias, target := range c.Types.Aliases {
		if err := r.Alias(alias, target); err != nil {
			return fmt.Errorf("[types] alias %q: %w", alias, err)
		}
	}
	return nil
}
