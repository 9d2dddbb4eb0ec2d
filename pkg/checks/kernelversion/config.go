// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and prysm contributors
//
// SPDX-License-Identifier: Apache-2.0

package kernelversion

import "github.com/cobaltcore-dev/hostcheck/pkg/checks/validation"

const (
	Label                = "KERNEL"
	DefaultSignatureFile = "/proc/version_signature"
)

type Config struct {
	Desired       string `validate:"required,kversion"`
	SignatureFile string `validate:"required"`
	TextfileDir   string
}

func (c Config) Validate() error {
	return validation.Struct(c)
}

// NewSource reads the signature file and falls back to uname when the file
// does not exist.
func (c Config) NewSource() Source {
	return FallbackSource{
		Primary:  SignatureSource{Path: c.SignatureFile},
		Fallback: UnameSource{},
	}
}
