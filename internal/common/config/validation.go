package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/go-multierror"
	log "github.com/sirupsen/logrus"

	"github.com/oaeproject/model-loader/internal/common/modelerrors"
)

var validate = validator.New()

// Validate runs the `validate` struct tags of config and returns one ErrInvalidArgument per
// failing field, aggregated into a multierror.
func Validate(config interface{}) error {
	err := validate.Struct(config)
	if err == nil {
		return nil
	}
	fieldErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	var result *multierror.Error
	for _, fe := range fieldErrors {
		result = multierror.Append(result, &modelerrors.ErrInvalidArgument{
			Name:    stripPrefix(fe.Namespace()),
			Value:   fe.Value(),
			Message: describe(fe),
		})
	}
	return result.ErrorOrNil()
}

func LogValidationErrors(err error) {
	if err == nil {
		return
	}
	if merr, ok := err.(*multierror.Error); ok {
		for _, e := range merr.Errors {
			log.Errorf("ConfigError: %s", e)
		}
		return
	}
	log.Errorf("ConfigError: %s", err)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field is required but was not found"
	case "url":
		return "must be an absolute url"
	default:
		if fe.Param() != "" {
			return fmt.Sprintf("failed %s=%s", fe.Tag(), fe.Param())
		}
		return fmt.Sprintf("failed %s", fe.Tag())
	}
}

func stripPrefix(s string) string {
	if idx := strings.Index(s, "."); idx != -1 {
		return s[idx+1:]
	}
	return s
}
