// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and prysm contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package validation checks check configurations built from flags and
// environment before any check runs.
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/go-playground/validator.v9"
)

var ErrInvalidConfig = errors.New("invalid configuration")

var (
	// block device names as they appear under /sys/block ("cciss!c0d0", "dm-0")
	devicePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.!:-]*$`)
	// operator supplied kernel versions such as "3.2.0-48" or "5.15.0.91"
	versionPattern = regexp.MustCompile(`^[0-9][0-9.-]*$`)
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("devname", matches(devicePattern))
	_ = v.RegisterValidation("kversion", matches(versionPattern))
	return v
}

func matches(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}
}

// Struct validates s against its `validate` tags and folds every failing
// field into a single error wrapping ErrInvalidConfig.
func Struct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, describe(fe))
	}
	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	name := fieldName(fe.Namespace())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", name)
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", name, fe.Param(), fmt.Sprint(fe.Value()))
	case "devname":
		return fmt.Sprintf("%s %q is not a valid block device name", name, fmt.Sprint(fe.Value()))
	case "kversion":
		return fmt.Sprintf("%s %q may only contain digits, dots and dashes", name, fmt.Sprint(fe.Value()))
	case "gte":
		return fmt.Sprintf("%s must be at least %s", name, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", name, fe.Param())
	default:
		return fmt.Sprintf("%s failed %q validation", name, fe.Tag())
	}
}

// fieldName drops the top level struct name: "Config.Warning.IOPS" -> "Warning.IOPS".
func fieldName(namespace string) string {
	if i := strings.IndexByte(namespace, '.'); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}
