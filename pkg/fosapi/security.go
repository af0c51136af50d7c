/*
 * SPDX-FileCopyrightText: Copyright (c) 2026 NVIDIA CORPORATION & AFFILIATES. All rights reserved.
 * SPDX-License-Identifier: Apache-2.0
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */
package fosapi

import (
	"context"
	"crypto/x509"
	"encoding/pem"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// SecurityCertificate is one entry of brocade-security/security-certificate.
// CSRs are returned along with certificates.
type SecurityCertificate struct {
	Entity  string `json:"certificate-entity"`
	Type    string `json:"certificate-type"`
	Hexdump string `json:"certificate-hexdump,omitempty"`
	Verbose string `json:"certificate-verbose,omitempty"`
}

// Present reports whether the switch holds a certificate for the entry.
func (c SecurityCertificate) Present() bool {
	return strings.TrimSpace(c.Hexdump) != ""
}

// Validity parses the PEM certificate and returns its validity period.
func (c SecurityCertificate) Validity() (notBefore, notAfter time.Time, err error) {
	block, _ := pem.Decode([]byte(c.Hexdump))
	if block == nil {
		return time.Time{}, time.Time{}, errors.Errorf("%s %s: no PEM certificate", c.Entity, c.Type)
	}
	cert, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		return time.Time{}, time.Time{}, errors.Wrapf(err, "%s %s", c.Entity, c.Type)
	}
	return cert.NotBefore, cert.NotAfter, nil
}

// Certificates reads the chassis security certificates.
func Certificates(ctx context.Context, s Session) ([]SecurityCertificate, error) {
	data, err := s.Get(ctx, URISecurityCertificate, 0)
	if err != nil {
		return nil, err
	}
	var obj struct {
		Certs List[SecurityCertificate] `json:"security-certificate"`
	}
	if err := decode(data, URISecurityCertificate, &obj); err != nil {
		return nil, err
	}
	return obj.Certs, nil
}
