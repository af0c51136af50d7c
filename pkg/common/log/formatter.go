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
package log

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// TimestampLayout is "yyyy-mm-dd HH:MM:SS.000000 TZ".
const TimestampLayout = "2006-01-02 15:04:05.000000 MST"

// Formatter renders log file lines as
// "<timestamp> [LEVEL] file:line message {fields}". With Plain set only the
// message is written, which is what the console shows.
type Formatter struct {
	Plain bool
}

// Format implements logrus.Formatter.
func (f *Formatter) Format(entry *logrus.Entry) ([]byte, error) {
	b := bytes.Buffer{}

	if f.Plain {
		b.WriteString(entry.Message)
		b.WriteByte('\n')
		return b.Bytes(), nil
	}

	b.WriteString(entry.Time.Format(TimestampLayout))
	b.WriteString(" [")
	b.WriteString(strings.ToUpper(entry.Level.String()))
	b.WriteString("] ")

	if entry.HasCaller() {
		fmt.Fprintf(&b, "%s:%d ", filepath.Base(entry.Caller.File), entry.Caller.Line)
	}

	b.WriteString(entry.Message)

	if len(entry.Data) != 0 {
		data, err := marshalFields(entry.Data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal fields to JSON, %w", err)
		}
		b.WriteByte(' ')
		b.Write(data)
	}

	b.WriteByte('\n')

	return b.Bytes(), nil
}

// marshalFields keeps error values readable; json.Marshal renders them as {}.
func marshalFields(fields logrus.Fields) ([]byte, error) {
	out := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		if err, ok := v.(error); ok {
			out[k] = err.Error()
			continue
		}
		out[k] = v
	}
	return json.Marshal(out)
}
