package validation

import (
	"context"
	"strings"
	"time"

	"rrguard.io/internal/config"
	"rrguard.io/internal/logging"
	"rrguard.io/internal/models"
	"rrguard.io/internal/storage"
)

// Settings keys read by NewEngine
const (
	SectionDNS     = "dns"
	SectionRecords = "records"
	SectionDNSSEC  = "dnssec"

	KeyHostnameMaxLength  = "hostname_max_length"
	KeyLowercaseHostnames = "lowercase_hostnames"
	KeyAllowIDN           = "allow_idn"
	KeyDefaultPriority    = "default_priority"
	KeyDisabledTypes      = "disabled_types"
	KeyEnabled            = "enabled"

	DefaultPriority = 10
)

// Engine validates record candidates. It holds no mutable state and is
// safe for concurrent use.
type Engine struct {
	registry *Registry
	logger   *logging.Logger
}

// EngineOption configures an Engine
type EngineOption func(*Engine)

// WithLogger sets the logger validation events are written to
func WithLogger(logger *logging.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEngine reads its settings once and builds the validator registry
func NewEngine(settings config.Settings, gw storage.Gateway, opts ...EngineOption) (*Engine, error) {
	maxLength, err := settings.Int(SectionDNS, KeyHostnameMaxLength, defaultHostnameLength)
	if err != nil {
		return nil, configError(err)
	}
	if maxLength < 1 || maxLength > defaultHostnameLength {
		return nil, configError(&config.ValidationError{
			Field:   SectionDNS + "." + KeyHostnameMaxLength,
			Message: "must be between 1 and 255",
		})
	}

	lowercase, err := settings.Bool(SectionDNS, KeyLowercaseHostnames, true)
	if err != nil {
		return nil, configError(err)
	}

	allowIDN, err := settings.Bool(SectionDNS, KeyAllowIDN, false)
	if err != nil {
		return nil, configError(err)
	}

	defaultPriority, err := settings.Int(SectionRecords, KeyDefaultPriority, DefaultPriority)
	if err != nil {
		return nil, configError(err)
	}
	if defaultPriority < 0 || defaultPriority > 65535 {
		return nil, configError(&config.ValidationError{
			Field:   SectionRecords + "." + KeyDefaultPriority,
			Message: "must be between 0 and 65535",
		})
	}

	enableDNSSEC, err := settings.Bool(SectionDNSSEC, KeyEnabled, false)
	if err != nil {
		return nil, configError(err)
	}

	var disabled []models.RecordType
	for _, token := range strings.Split(settings.String(SectionRecords, KeyDisabledTypes, ""), ",") {
		if t := models.ParseRecordType(token); t != "" {
			disabled = append(disabled, t)
		}
	}

	e := &Engine{
		registry: NewRegistry(gw, RegistryOptions{
			Hostnames:       NewHostnameValidator(maxLength, lowercase, allowIDN),
			DefaultPriority: defaultPriority,
			EnableDNSSEC:    enableDNSSEC,
			DisabledTypes:   disabled,
		}),
		logger: logging.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}

	e.logger.Debug("engine", "validation engine ready",
		"types", len(e.registry.validators),
		"dnssec", enableDNSSEC,
		"hostname_max_length", maxLength,
	)
	return e, nil
}

// ForType returns the validator for a record type token
func (e *Engine) ForType(token string) (RecordValidator, error) {
	return e.registry.ForType(token)
}

// Types lists the enabled record types
func (e *Engine) Types() []models.RecordType {
	return e.registry.Types()
}

// Validate dispatches the candidate to the validator for its type
func (e *Engine) Validate(ctx context.Context, c models.Candidate) (Result[models.ValidatedRecord], error) {
	start := time.Now()
	rtype := models.ParseRecordType(c.Type).String()

	v, err := e.registry.ForType(c.Type)
	if err != nil {
		e.logger.LogValidation(rtype, c.Name, "unsupported", time.Since(start))
		return Result[models.ValidatedRecord]{}, err
	}

	result, err := v.Validate(ctx, c)
	switch {
	case err != nil:
		e.logger.Error("engine", "validation could not complete", err, "type", rtype, "name", c.Name)
		e.logger.LogValidation(rtype, c.Name, "error", time.Since(start))
	case result.IsValid():
		e.logger.LogValidation(rtype, c.Name, "valid", time.Since(start))
	default:
		e.logger.LogValidation(rtype, c.Name, "invalid", time.Since(start))
	}
	return result, err
}
