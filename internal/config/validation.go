package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrNoBundle is reported when no bundle path is configured.
var ErrNoBundle = errors.New("no bundle configured")

// ValidationError represents a configuration validation error.
// It contains the field name and a description of the issue.
type ValidationError struct {
	Field   string
	Message string
	// Err is an optional sentinel matched by errors.Is.
	Err error
}

// Error implements the error interface.
func (ve ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ve.Field, ve.Message)
}

// Unwrap returns the sentinel, if any.
func (ve ValidationError) Unwrap() error { return ve.Err }

// ValidationErrors is the error returned for a failed validation. It
// unwraps to every ValidationError it holds.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (ve ValidationErrors) Error() string {
	messages := make([]string, 0, len(ve))
	for _, e := range ve {
		messages = append(messages, e.Error())
	}
	return "validation failed: " + strings.Join(messages, "; ")
}

// Unwrap exposes each error to errors.Is and errors.As.
func (ve ValidationErrors) Unwrap() []error {
	errs := make([]error, len(ve))
	for i, e := range ve {
		errs[i] = e
	}
	return errs
}

// ValidationResult holds the results of a configuration validation.
type ValidationResult struct {
	// Errors contains all validation errors found.
	Errors []ValidationError
	// Warnings contains non-fatal issues.
	Warnings []ValidationError
}

// IsValid returns true if there are no validation errors.
func (vr *ValidationResult) IsValid() bool {
	return len(vr.Errors) == 0
}

// Error returns a ValidationErrors if there are errors, nil otherwise.
func (vr *ValidationResult) Error() error {
	if len(vr.Errors) == 0 {
		return nil
	}
	return ValidationErrors(vr.Errors)
}

// AddError adds a validation error.
func (vr *ValidationResult) AddError(field, message string) {
	vr.Errors = append(vr.Errors, ValidationError{Field: field, Message: message})
}

func (vr *ValidationResult) addErr(field string, err error) {
	vr.Errors = append(vr.Errors, ValidationError{Field: field, Message: err.Error(), Err: err})
}

// AddWarning adds a validation warning.
func (vr *ValidationResult) AddWarning(field, message string) {
	vr.Warnings = append(vr.Warnings, ValidationError{Field: field, Message: message})
}

// Merge combines another ValidationResult into this one.
func (vr *ValidationResult) Merge(other *ValidationResult) {
	if other == nil {
		return
	}
	vr.Errors = append(vr.Errors, other.Errors...)
	vr.Warnings = append(vr.Warnings, other.Warnings...)
}

// Validator checks a Config before the player starts.
type Validator struct {
	// strictMode makes a missing bundle file an error instead of a warning.
	strictMode bool
}

// NewValidator creates a new Validator with default settings.
func NewValidator() *Validator {
	return &Validator{}
}

// WithStrictMode enables strict validation.
func (v *Validator) WithStrictMode(strict bool) *Validator {
	v.strictMode = strict
	return v
}

// Validate performs validation of cfg and collects every problem found.
func (v *Validator) Validate(cfg *Config) *ValidationResult {
	result := &ValidationResult{}

	v.validateBundle(&cfg.Bundle, result)
	v.validateWindow(&cfg.Window, result)
	v.validateDisplay(&cfg.Display, result)

	return result
}

func (v *Validator) validateBundle(bc *BundleConfig, result *ValidationResult) {
	if bc.Path == "" {
		result.addErr("bundle", ErrNoBundle)
	} else if info, err := os.Stat(bc.Path); err != nil {
		if v.strictMode {
			result.addErr("bundle", err)
		} else {
			result.AddWarning("bundle", err.Error())
		}
	} else if info.IsDir() {
		result.AddError("bundle", fmt.Sprintf("%s is a directory", bc.Path))
	}

	if bc.Artboard < 0 {
		result.AddError("artboard", fmt.Sprintf("must be non-negative, got %d", bc.Artboard))
	}
}

func (v *Validator) validateWindow(wc *WindowConfig, result *ValidationResult) {
	if wc.Width <= 0 {
		result.AddError("width", fmt.Sprintf("must be positive, got %d", wc.Width))
	}
	if wc.Height <= 0 {
		result.AddError("height", fmt.Sprintf("must be positive, got %d", wc.Height))
	}

	const maxDimension = 10000
	if wc.Width > maxDimension {
		result.AddWarning("width", fmt.Sprintf("unusually large value %d", wc.Width))
	}
	if wc.Height > maxDimension {
		result.AddWarning("height", fmt.Sprintf("unusually large value %d", wc.Height))
	}
	if wc.Title == "" {
		result.AddWarning("title", "empty window title")
	}
}

func (v *Validator) validateDisplay(dc *DisplayConfig, result *ValidationResult) {
	if dc.TPS < 0 {
		result.AddError("tps", fmt.Sprintf("must not be negative, got %d", dc.TPS))
	}
	if dc.TPS > 1000 {
		result.AddWarning("tps", fmt.Sprintf("unusually high value %d", dc.TPS))
	}
	if dc.Alignment.X < -1 || dc.Alignment.X > 1 || dc.Alignment.Y < -1 || dc.Alignment.Y > 1 {
		result.AddError("alignment", fmt.Sprintf("%v outside [-1, 1]", dc.Alignment))
	}
	if dc.Background.A == 0 {
		result.AddWarning("background", "fully transparent background")
	}
}

// ValidateConfig validates cfg with default settings. It returns nil if
// the config is valid, or a ValidationErrors describing every failure.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	return NewValidator().Validate(cfg).Error()
}

// ValidateConfigStrict validates cfg and also requires the bundle file to
// exist.
func ValidateConfigStrict(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	return NewValidator().WithStrictMode(true).Validate(cfg).Error()
}
