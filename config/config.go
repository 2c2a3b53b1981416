// Package config loads run descriptions for the intcode command from TOML,
// or from YAML for files with a '.yaml' or '.yml' extension.
package config

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/ezrec/intcode/cpu"
	"github.com/ezrec/intcode/translate"
)

var f = translate.From

var (
	ErrConfigSource   = errors.New(f("exactly one of 'program' or 'text' is required"))
	ErrConfigNounVerb = errors.New(f("'noun' and 'verb' must be set together"))
	ErrConfigFeedback = errors.New(f("'feedback' requires 'phases'"))
	ErrConfigSearch   = errors.New(f("'search' excludes 'noun', 'verb' and 'phases'"))
	ErrConfigResume   = errors.New(f("resuming a snapshot excludes a program, 'noun', 'verb', 'search' and 'phases'"))
)

// ErrConfigKey indicates a key that is not part of a run.
type ErrConfigKey string

func (err ErrConfigKey) Error() string {
	return f("unknown key '%v'", string(err))
}

// ErrConfig indicates the file of a configuration error.
type ErrConfig struct {
	Path string
	Err  error
}

func (err *ErrConfig) Error() string {
	return f("%v: %v", err.Path, err.Err)
}

func (err *ErrConfig) Unwrap() error {
	return err.Err
}

// Run describes a single program run.
type Run struct {
	Program  string  `toml:"program" yaml:"program"` // Path to program text, or '.ic' assembler source.
	Text     string  `toml:"text" yaml:"text"`       // Inline program text.
	Inputs   []int64 `toml:"inputs" yaml:"inputs"`
	Noun     *int64  `toml:"noun" yaml:"noun"`
	Verb     *int64  `toml:"verb" yaml:"verb"`
	Ascii    bool    `toml:"ascii" yaml:"ascii"`
	Verbose  bool    `toml:"verbose" yaml:"verbose"`
	Search   *Search `toml:"search" yaml:"search"`
	Phases   []int64 `toml:"phases" yaml:"phases"`
	Feedback bool    `toml:"feedback" yaml:"feedback"`

	// Dir is the directory relative program paths are resolved against.
	Dir string `toml:"-" yaml:"-"`
}

// Search configures a noun and verb search.
type Search struct {
	Target int64 `toml:"target" yaml:"target"`
	Limit  int64 `toml:"limit" yaml:"limit"`
}

// Load parses a run configuration file.
func Load(path string) (run *Run, err error) {
	defer func() {
		if err != nil {
			run = nil
			err = &ErrConfig{Path: path, Err: err}
		}
	}()

	data, err := os.ReadFile(path)
	if err != nil {
		return
	}

	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		return ParseYAML(string(data), filepath.Dir(path))
	}

	return Parse(string(data), filepath.Dir(path))
}

// Parse decodes a run configuration, resolving program paths against dir.
func Parse(data string, dir string) (run *Run, err error) {
	run = &Run{Dir: dir}

	md, err := toml.Decode(data, run)
	if err != nil {
		run = nil
		return
	}

	for _, key := range md.Undecoded() {
		run = nil
		err = ErrConfigKey(key.String())
		return
	}

	err = run.Validate()
	if err != nil {
		run = nil
		return
	}

	return
}

// ParseYAML decodes a YAML run configuration, resolving program paths
// against dir.
func ParseYAML(data string, dir string) (run *Run, err error) {
	run = &Run{Dir: dir}

	dec := yaml.NewDecoder(strings.NewReader(data))
	dec.KnownFields(true)
	err = dec.Decode(run)
	if errors.Is(err, io.EOF) {
		err = nil
	}
	if err != nil {
		run = nil
		return
	}

	err = run.Validate()
	if err != nil {
		run = nil
		return
	}

	return
}

// Validate checks the run for conflicting settings.
func (run *Run) Validate() (err error) {
	switch {
	case (run.Program == "") == (run.Text == ""):
		err = ErrConfigSource
	case (run.Noun == nil) != (run.Verb == nil):
		err = ErrConfigNounVerb
	case run.Feedback && len(run.Phases) == 0:
		err = ErrConfigFeedback
	case run.Search != nil && (run.Noun != nil || len(run.Phases) != 0):
		err = ErrConfigSearch
	}

	return
}

// ValidateResume checks the run can continue a restored machine, which
// already carries its program and state.
func (run *Run) ValidateResume() (err error) {
	if run.Program != "" || run.Text != "" || run.Noun != nil || run.Verb != nil ||
		run.Search != nil || len(run.Phases) != 0 {
		err = ErrConfigResume
	}

	return
}

// Source returns the program of the run.
func (run *Run) Source() (program []int64, err error) {
	if run.Text != "" {
		return cpu.ParseProgram(run.Text)
	}

	path := run.Program
	if !filepath.IsAbs(path) {
		path = filepath.Join(run.Dir, path)
	}

	inf, err := os.Open(path)
	if err != nil {
		return
	}
	defer inf.Close()

	if strings.HasSuffix(path, ".ic") {
		asm := &cpu.Assembler{Verbose: run.Verbose}
		program, err = asm.Parse(inf)
		if err != nil {
			err = &ErrConfig{Path: path, Err: err}
		}
		return
	}

	data, err := io.ReadAll(inf)
	if err != nil {
		return
	}

	program, err = cpu.ParseProgram(string(data))
	if err != nil {
		err = &ErrConfig{Path: path, Err: err}
	}

	return
}
