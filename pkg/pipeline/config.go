package pipeline

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator"
	"gopkg.in/yaml.v3"

	lerrors "github.com/matzehuels/lineage/pkg/errors"
	"github.com/matzehuels/lineage/pkg/transformer"
)

// =============================================================================
// Config - Pipeline Definition
// =============================================================================

// InstanceConfig selects one transformer and its parameters.
type InstanceConfig struct {
	TransformerID string `json:"transformerId" toml:"transformerId" yaml:"transformerId" validate:"required"`

	// InstanceID distinguishes repeated transformers. It defaults to the
	// transformer ID, suffixed with the stage position when the transformer
	// appears more than once.
	InstanceID string `json:"instanceId,omitempty" toml:"instanceId,omitempty" yaml:"instanceId,omitempty"`

	Dimensions transformer.Dimensions `json:"dimensions" toml:"dimensions,omitempty" yaml:"dimensions,omitempty"`
	Visual     map[string]any         `json:"visual,omitempty" toml:"visual,omitempty" yaml:"visual,omitempty"`
}

// Config is an ordered pipeline definition plus run-wide settings.
// This struct supports JSON, TOML and YAML serialization.
type Config struct {
	Transformers []InstanceConfig `json:"transformerInstances" toml:"transformerInstances" yaml:"transformerInstances" validate:"required,min=1,dive"`

	Temperature         float64 `json:"temperature" toml:"temperature" yaml:"temperature" validate:"min=0,max=1"`
	Seed                string  `json:"seed,omitempty" toml:"seed,omitempty" yaml:"seed,omitempty"`
	CanvasWidth         float64 `json:"canvasWidth" toml:"canvasWidth" yaml:"canvasWidth" validate:"gt=0"`
	CanvasHeight        float64 `json:"canvasHeight" toml:"canvasHeight" yaml:"canvasHeight" validate:"gt=0"`
	PrimaryIndividualID string  `json:"primaryIndividualId,omitempty" toml:"primaryIndividualId,omitempty" yaml:"primaryIndividualId,omitempty"`
}

// DefaultConfig returns a config with the default canvas, temperature and
// seed and no stages.
func DefaultConfig() Config {
	return Config{
		Temperature:  DefaultTemperature,
		Seed:         DefaultSeed,
		CanvasWidth:  DefaultWidth,
		CanvasHeight: DefaultHeight,
	}
}

// =============================================================================
// Loading
// =============================================================================

// Config file formats.
const (
	FormatTOML = "toml"
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// FormatOf returns the config format implied by a file extension.
func FormatOf(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", lerrors.New(lerrors.ErrCodeInvalidInput, "unsupported config file %q (want .toml, .yaml, .yml or .json)", path)
}

// LoadConfigFile reads a pipeline definition, choosing the decoder from the
// file extension. Fields the file omits keep their [DefaultConfig] values.
func LoadConfigFile(path string) (Config, error) {
	format, err := FormatOf(path)
	if err != nil {
		return Config{}, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Config{}, lerrors.Wrap(lerrors.ErrCodeNotFound, err, "config file %s", path)
	}
	if err != nil {
		return Config{}, err
	}
	cfg, err := DecodeConfig(data, format)
	if err != nil {
		return Config{}, fmt.Errorf("load %s: %w", path, err)
	}
	return cfg, nil
}

// DecodeConfig decodes a pipeline definition in the given format. Numeric
// parameter values are normalized to float64 so the same definition decodes
// identically from every format.
func DecodeConfig(data []byte, format string) (Config, error) {
	cfg := DefaultConfig()
	var err error
	switch format {
	case FormatTOML:
		_, err = toml.NewDecoder(bytes.NewReader(data)).Decode(&cfg)
	case FormatYAML:
		err = yaml.Unmarshal(data, &cfg)
	case FormatJSON:
		err = json.Unmarshal(data, &cfg)
	default:
		return Config{}, lerrors.New(lerrors.ErrCodeInvalidInput, "unknown config format %q", format)
	}
	if err != nil {
		return Config{}, lerrors.Wrap(lerrors.ErrCodeInvalidInput, err, "decode %s config", format)
	}
	for i := range cfg.Transformers {
		cfg.Transformers[i].Visual = normalizeNumbers(cfg.Transformers[i].Visual)
	}
	return cfg, nil
}

func normalizeNumbers(m map[string]any) map[string]any {
	for k, v := range m {
		switch n := v.(type) {
		case int:
			m[k] = float64(n)
		case int64:
			m[k] = float64(n)
		case uint64:
			m[k] = float64(n)
		}
	}
	return m
}

// =============================================================================
// Validation
// =============================================================================

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// Validate checks cfg against reg and binds every stage. All problems are
// reported together as one CONFIG_ERROR; nothing is executed.
func Validate(reg *transformer.Registry, cfg Config) ([]*transformer.Instance, error) {
	var errs lerrors.ConfigErrors

	flagged := make(map[string]bool)
	if err := validate.Struct(cfg); err != nil {
		fieldErrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return nil, lerrors.Wrap(lerrors.ErrCodeInternal, err, "validate config")
		}
		for _, fe := range fieldErrs {
			field := fieldPath(fe.Namespace())
			flagged[field] = true
			errs = append(errs, lerrors.Config("%s", describe(field, fe)))
		}
	}
	if !flagged["temperature"] {
		if err := lerrors.ValidateTemperature(cfg.Temperature); err != nil {
			errs = append(errs, lerrors.Config("%s", lerrors.UserMessage(err)))
		}
	}
	if !flagged["canvasWidth"] && !flagged["canvasHeight"] {
		if err := lerrors.ValidateCanvas(cfg.CanvasWidth, cfg.CanvasHeight); err != nil {
			errs = append(errs, lerrors.Config("%s", lerrors.UserMessage(err)))
		}
	}

	stages := make([]*transformer.Instance, 0, len(cfg.Transformers))
	counts := make(map[string]int)
	for _, ic := range cfg.Transformers {
		counts[ic.TransformerID]++
	}
	seenInstance := make(map[string]bool)
	reported := make(map[string]bool)
	for i, ic := range cfg.Transformers {
		if ic.TransformerID == "" {
			continue
		}
		c, err := reg.Lookup(ic.TransformerID)
		if err != nil {
			errs = append(errs, lerrors.Config("stage %d: %s", i, lerrors.UserMessage(err)))
			continue
		}
		if !c.MultiInstance && counts[c.ID] > 1 && !reported[c.ID] {
			reported[c.ID] = true
			errs = append(errs, lerrors.Config("%s appears %d times but does not allow multiple instances", c.ID, counts[c.ID]))
		}

		id := ic.InstanceID
		if id == "" {
			id = c.ID
			if counts[c.ID] > 1 {
				id = c.ID + "#" + strconv.Itoa(i)
			}
		} else if err := lerrors.ValidateIdentifier("instance ID", id); err != nil {
			errs = append(errs, lerrors.Config("stage %d: %s", i, lerrors.UserMessage(err)))
			continue
		}
		if seenInstance[id] {
			errs = append(errs, lerrors.Config("stage %d: duplicate instance ID %q", i, id))
			continue
		}
		seenInstance[id] = true

		inst, err := c.NewInstance(id, ic.Dimensions, ic.Visual)
		if err != nil {
			errs = append(errs, lerrors.Config("stage %d: %s", i, lerrors.UserMessage(err)))
			continue
		}
		stages = append(stages, inst)
	}

	if err := errs.Err(); err != nil {
		return nil, err
	}
	return stages, nil
}

// fieldPath strips the root struct name from a validator namespace.
func fieldPath(ns string) string {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

func describe(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min":
		if fe.Kind() == reflect.Slice {
			return field + " must not be empty"
		}
		return fmt.Sprintf("%s must be at least %s, got %v", field, fe.Param(), fe.Value())
	case "max":
		return fmt.Sprintf("%s must be at most %s, got %v", field, fe.Param(), fe.Value())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s, got %v", field, fe.Param(), fe.Value())
	}
	return fmt.Sprintf("%s failed %q validation", field, fe.Tag())
}
