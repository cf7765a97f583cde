// Released under an MIT license. See LICENSE.

// Package config loads ember's settings from a YAML file.
//
// The file is named by $EMBER_CONFIG or, if that is not set, is
// ~/.ember.yaml. A missing file is not an error. Zero values are replaced
// with defaults derived from the process stack size.
//
//	stack:
//	  slots: 1048576
//	  depth: 10000
//	syntax:
//	  depth: 1000
//	trace: debug
//	history: ~/.ember_history
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/michaelmacinnis/ember/internal/engine/stack"
	"github.com/michaelmacinnis/ember/internal/system/limits"
)

// Variable names the environment variable that overrides the file path.
const Variable = "EMBER_CONFIG"

// T (config) holds ember's settings.
type T struct {
	Stack struct {
		Slots int `yaml:"slots"`
		Depth int `yaml:"depth"`
	} `yaml:"stack"`
	Syntax struct {
		Depth int `yaml:"depth"`
	} `yaml:"syntax"`
	Trace   string `yaml:"trace"`
	History string `yaml:"history"`
}

type config = T

// Default returns the settings used when there is no configuration file.
func Default() *config {
	c := &config{}
	c.defaults()

	return c
}

// Load reads the configuration file, if there is one.
func Load() (*config, error) {
	path := os.Getenv(Variable)
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Default(), nil //nolint:nilerr
		}

		path = filepath.Join(home, ".ember.yaml")
	}

	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	} else if err != nil {
		return nil, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer f.Close()

	return Read(f, path)
}

// Read parses settings from r. The name is used in error messages.
func Read(r io.Reader, name string) (*config, error) {
	d := yaml.NewDecoder(r)
	d.KnownFields(true)

	c := &config{}

	if err := d.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: parse %s: %w", name, err)
	}

	if c.Stack.Slots < 0 || c.Stack.Depth < 0 || c.Syntax.Depth < 0 {
		return nil, fmt.Errorf("config: %s: limits must not be negative", name)
	}

	c.defaults()

	return c, nil
}

func (c *config) defaults() {
	if c.Stack.Slots == 0 {
		c.Stack.Slots = stack.DefaultSlots
	}

	if c.Stack.Depth == 0 {
		c.Stack.Depth = limits.CallDepth()
	}

	if c.Syntax.Depth == 0 {
		c.Syntax.Depth = limits.SyntaxDepth()
	}

	c.History = expand(c.History)
	if c.History == "" {
		if home, err := os.UserHomeDir(); err == nil {
			c.History = filepath.Join(home, ".ember_history")
		}
	}
}

func expand(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	return filepath.Join(home, path[2:])
}
