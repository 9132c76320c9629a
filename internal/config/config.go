package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	yaml "gopkg.in/yaml.v2"
)

// Config represents the complete pipeline configuration.
type Config struct {
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Filtering FilteringConfig `yaml:"filtering" envconfig:"FILTERING"`
	Classify  ClassifyConfig  `yaml:"classify" envconfig:"CLASSIFY"`
	Mapping   MappingConfig   `yaml:"mapping" envconfig:"MAPPING"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL"`
	Output   string `yaml:"output" envconfig:"OUTPUT"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// FilteringConfig drives the exclusion filter and the carrier split.
type FilteringConfig struct {
	// WarehouseDeliveryKind is the literal Lieferart value marking pure
	// warehouse orders that never leave the yard.
	WarehouseDeliveryKind string `yaml:"warehouse_delivery_kind" envconfig:"WAREHOUSE_DELIVERY_KIND" validate:"required"`

	// InternalPickupSystemTag marks orders issued by the B&T sub-system;
	// combined with a blank billing customer these are internal pickups.
	InternalPickupSystemTag string `yaml:"internal_pickup_system_tag" envconfig:"INTERNAL_PICKUP_SYSTEM_TAG" validate:"required"`

	// ExcludeUncategorized extends the contract-weight policy exclusion to
	// records the classifier could not categorize.
	ExcludeUncategorized bool `yaml:"exclude_uncategorized" envconfig:"EXCLUDE_UNCATEGORIZED"`

	// Carrier numbers at or below InternalCarrierMax belong to the own
	// fleet, at or above ExternalCarrierMin to external haulers. The gap
	// between the bounds is unassigned by contract.
	InternalCarrierMax int64 `yaml:"internal_carrier_max" envconfig:"INTERNAL_CARRIER_MAX" validate:"gt=0"`
	ExternalCarrierMin int64 `yaml:"external_carrier_min" envconfig:"EXTERNAL_CARRIER_MIN" validate:"gt=0,gtfield=InternalCarrierMax"`
}

// ClassifyConfig contains classifier settings.
type ClassifyConfig struct {
	// PolicyExcludedCategory names the category removed after
	// classification per the contract-weight policy.
	PolicyExcludedCategory string `yaml:"policy_excluded_category" envconfig:"POLICY_EXCLUDED_CATEGORY" validate:"required"`
}

// MappingConfig drives the reference mapper.
type MappingConfig struct {
	// CompanyNameMarker splits the unmatched division records: orders whose
	// billing customer name contains it are internal, not data-quality gaps.
	CompanyNameMarker string `yaml:"company_name_marker" envconfig:"COMPANY_NAME_MARKER" validate:"required"`

	GenericDivisionSentinel  string `yaml:"generic_division_sentinel" envconfig:"GENERIC_DIVISION_SENTINEL" validate:"required"`
	InternalDivisionSentinel string `yaml:"internal_division_sentinel" envconfig:"INTERNAL_DIVISION_SENTINEL" validate:"required"`
	CenterSentinel           string `yaml:"center_sentinel" envconfig:"CENTER_SENTINEL" validate:"required"`

	// CenterEquivalences maps a retired owner number to the canonical
	// number of the same physical center (the Oberbuchsiten relocation).
	// Applied to the order's key before lookup, never to the reference
	// table itself.
	CenterEquivalences map[int64]int64 `yaml:"center_equivalences"`
}

// DefaultCenterEquivalences covers the one known facility relocation.
var DefaultCenterEquivalences = map[int64]int64{3302: 3310}

// ConfigurationError is fatal: the pipeline must not start with bounds or
// equivalences that make a later stage's contract unsatisfiable.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Reason)
}

// Load loads configuration starting from the built-in defaults, overlays an
// optional YAML file, and finally overlays TRAVECO_* environment variables.
// Later sources win field by field; absent fields keep the earlier value.
func Load(configFile string) (*Config, error) {
	cfg := *Default()

	if configFile != "" {
		if _, err := os.Stat(configFile); err == nil {
			if err := overlayFile(configFile, &cfg); err != nil {
				return nil, fmt.Errorf("failed to load config from file: %w", err)
			}
		}
	}

	if err := envconfig.Process("TRAVECO", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if cfg.Mapping.CenterEquivalences == nil {
		cfg.Mapping.CenterEquivalences = DefaultCenterEquivalences
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// overlayFile unmarshals the YAML file into cfg in place; keys absent from
// the document leave the current values untouched.
func overlayFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate checks the configuration for structural inconsistencies.
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			first := errs[0]
			return &ConfigurationError{
				Field:  first.Namespace(),
				Reason: fmt.Sprintf("failed %q validation", first.Tag()),
			}
		}
		return fmt.Errorf("config validation failed: %w", err)
	}

	for old, canonical := range c.Mapping.CenterEquivalences {
		if old == canonical {
			return &ConfigurationError{
				Field:  "Mapping.CenterEquivalences",
				Reason: fmt.Sprintf("identity equivalence %d -> %d", old, canonical),
			}
		}
	}

	return nil
}

// Default returns the configuration with all defaults applied and no file or
// environment input. Used by tests and as a fallback in main.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    "info",
			Output:   "console",
			FilePath: "logs/pipeline.log",
		},
		Filtering: FilteringConfig{
			WarehouseDeliveryKind:   "Lagerauftrag",
			InternalPickupSystemTag: "B&T",
			ExcludeUncategorized:    false,
			InternalCarrierMax:      8889,
			ExternalCarrierMin:      9000,
		},
		Classify: ClassifyConfig{
			PolicyExcludedCategory: "Schüttgut",
		},
		Mapping: MappingConfig{
			CompanyNameMarker:        "Traveco",
			GenericDivisionSentinel:  "Ohne Sparte",
			InternalDivisionSentinel: "Traveco intern",
			CenterSentinel:           "Unbekannte Betriebszentrale",
			CenterEquivalences:       DefaultCenterEquivalences,
		},
	}
}
