package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"

	"github.com/zarSou9/tr-migrator/internal/layout"
)

// ProjectFile is the per-project config file name.
const ProjectFile = ".tr-migrator.yaml"

// Environment variables that override file settings.
const (
	EnvBreakdownsIdentifier = "TR_MIGRATOR_BREAKDOWNS_IDENTIFIER"
	EnvConvertHTML          = "TR_MIGRATOR_CONVERT_HTML"
	EnvPreserveOrder        = "TR_MIGRATOR_PRESERVE_ORDER"
	EnvValidateSchema       = "TR_MIGRATOR_VALIDATE_SCHEMA"
)

// Settings are the defaults a run starts from. Command-line flags are
// applied on top by the caller.
type Settings struct {
	BreakdownsIdentifier string `yaml:"breakdowns_identifier" json:"breakdowns_identifier"`
	ConvertHTML          bool   `yaml:"convert_html" json:"convert_html"`
	PreserveOrder        bool   `yaml:"preserve_order" json:"preserve_order"`
	ValidateSchema       bool   `yaml:"validate_schema" json:"validate_schema"`

	// Sources lists the files that contributed, lowest priority first.
	Sources []string `yaml:"-" json:"sources,omitempty"`
}

// Defaults returns the built-in settings.
func Defaults() Settings {
	return Settings{
		BreakdownsIdentifier: layout.DefaultSuffix,
		ConvertHTML:          true,
		PreserveOrder:        true,
		ValidateSchema:       true,
	}
}

// Load resolves settings for projectDir.
//
// Resolution, later wins:
//   - built-in defaults
//   - the global config.yaml in Dir()
//   - .tr-migrator.yaml in projectDir
//   - TR_MIGRATOR_* environment variables
func Load(projectDir string) (*Settings, error) {
	s := Defaults()

	files := []string{GlobalFile(), filepath.Join(projectDir, ProjectFile)}
	for _, path := range files {
		if path == "" {
			continue
		}
		loaded, err := s.mergeFile(path)
		if err != nil {
			return nil, err
		}
		if loaded {
			s.Sources = append(s.Sources, path)
		}
	}

	if err := s.mergeEnv(); err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	return &s, nil
}

// mergeFile overlays the keys present in the YAML file at path.
func (s *Settings) mergeFile(path string) (bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, s); err != nil {
		return false, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return true, nil
}

func (s *Settings) mergeEnv() error {
	if v := os.Getenv(EnvBreakdownsIdentifier); v != "" {
		s.BreakdownsIdentifier = v
	}
	bools := []struct {
		key string
		dst *bool
	}{
		{EnvConvertHTML, &s.ConvertHTML},
		{EnvPreserveOrder, &s.PreserveOrder},
		{EnvValidateSchema, &s.ValidateSchema},
	}
	for _, b := range bools {
		v := os.Getenv(b.key)
		if v == "" {
			continue
		}
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", b.key, err)
		}
		*b.dst = parsed
	}
	return nil
}

// Validate checks that the settings describe a usable layout.
func (s Settings) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.BreakdownsIdentifier, validation.Required, validation.By(func(value any) error {
			v, _ := value.(string)
			if err := layout.CheckSuffix(v); err != nil {
				return validation.NewError("config.breakdowns_identifier_invalid", err.Error())
			}
			return nil
		})),
	)
}
