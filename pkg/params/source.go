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
package params

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	cli "github.com/urfave/cli/v2"
	"golang.org/x/term"

	"github.com/nvidia/fos-rest-examples/pkg/common/credential"
	"github.com/nvidia/fos-rest-examples/pkg/common/fault"
)

// ErrHelp is returned by Resolve when -h was given and usage was printed.
var ErrHelp = errors.New("help requested")

// Environment variables read when the matching flag is not given.
const (
	EnvFile     = "FOS_ENV_FILE"
	EnvIP       = "FOS_IP"
	EnvUser     = "FOS_ID"
	EnvPassword = "FOS_PW"
	EnvSecurity = "FOS_SEC"
	EnvFID      = "FOS_FID"
	EnvLog      = "FOS_LOG"
)

// Definition describes the parameters of one script.
type Definition struct {
	Name        string
	Version     string
	Description string
	// FIDRequired makes -fid mandatory. FIDUsage overrides its help text.
	FIDRequired bool
	FIDUsage    string
	// Flags are the script specific options.
	Flags []cli.Flag
	// Validate applies the script rules after the common ones.
	Validate func(p *Params) error
}

// Source resolves the parameters of an invocation.
type Source interface {
	Resolve(args []string) (*Params, error)
}

// CLISource parses the command line.
type CLISource struct {
	Def Definition
	// Out receives usage and parse errors. Defaults to os.Stdout.
	Out io.Writer
	// Prompt, when set, is asked for the password if none was given.
	Prompt func() (string, error)
}

// ConstantSource ignores the command line and returns fixed parameters.
type ConstantSource struct {
	Def    Definition
	Params Params
}

// NewSource returns the ConstantSource in developer mode and a CLISource
// otherwise.
func NewSource(def Definition, devMode bool, constants Params) Source {
	if devMode {
		return &ConstantSource{Def: def, Params: constants}
	}
	return &CLISource{Def: def, Prompt: TerminalPrompt(os.Stdin, os.Stderr)}
}

// Resolve implements Source.
func (s *ConstantSource) Resolve([]string) (*Params, error) {
	p := s.Params
	p.Options = make(map[string]interface{}, len(s.Params.Options))
	for k, v := range s.Params.Options {
		p.Options[k] = v
	}
	if err := p.validate(s.Def); err != nil {
		return nil, err
	}
	return &p, nil
}

// Resolve implements Source. args excludes the program name.
func (s *CLISource) Resolve(args []string) (*Params, error) {
	// -h still works with a broken environment file.
	envErr := LoadEnv()

	out := s.Out
	if out == nil {
		out = os.Stdout
	}

	var resolved *Params
	app := &cli.App{
		Name:            s.Def.Name,
		Usage:           s.Def.Description,
		Version:         s.Def.Version,
		HideHelpCommand: true,
		HideVersion:     true,
		Writer:          out,
		ErrWriter:       out,
		Flags:           append(loginFlags(s.Def), s.Def.Flags...),
		ExitErrHandler:  func(*cli.Context, error) {},
		Action: func(c *cli.Context) error {
			if c.Args().Present() {
				return errors.Errorf("unexpected arguments: %s", strings.Join(c.Args().Slice(), " "))
			}
			resolved = fromContext(c, s.Def)
			return nil
		},
	}

	if err := app.Run(append([]string{s.Def.Name}, args...)); err != nil {
		return nil, fault.UsageWrap(err, "invalid command line")
	}
	if resolved == nil {
		return nil, ErrHelp
	}
	if envErr != nil {
		return nil, fault.UsageWrap(envErr, "environment file")
	}

	if resolved.Password.IsEmpty() && s.Prompt != nil {
		pw, err := s.Prompt()
		if err != nil {
			return nil, fault.UsageWrap(err, "read password")
		}
		resolved.Password = credential.Secret{Value: pw}
	}
	if err := resolved.validate(s.Def); err != nil {
		return nil, err
	}
	return resolved, nil
}

// LoadEnv loads FOS_ENV_FILE, or .env, into the environment if it exists.
// Variables already set are not overwritten.
func LoadEnv() error {
	path := os.Getenv(EnvFile)
	if path == "" {
		path = ".env"
		if _, err := os.Stat(path); err != nil {
			return nil
		}
	}
	return godotenv.Load(path)
}

// TerminalPrompt returns a password prompt when in is a terminal and nil
// otherwise.
func TerminalPrompt(in *os.File, out io.Writer) func() (string, error) {
	fd := int(in.Fd())
	if !term.IsTerminal(fd) {
		return nil
	}
	return func() (string, error) {
		fmt.Fprint(out, "Password: ")
		pw, err := term.ReadPassword(fd)
		fmt.Fprintln(out)
		return string(pw), err
	}
}

func loginFlags(def Definition) []cli.Flag {
	fidUsage := def.FIDUsage
	if fidUsage == "" {
		fidUsage = "Fabric ID of the logical switch"
	}
	if def.FIDRequired {
		fidUsage = "Required. " + fidUsage
	} else {
		fidUsage = "Optional. " + fidUsage
	}

	return []cli.Flag{
		&cli.StringFlag{Name: "ip", Usage: "Required. IP address of the switch", EnvVars: []string{EnvIP}},
		&cli.StringFlag{Name: "id", Usage: "Required. User ID", EnvVars: []string{EnvUser}},
		&cli.StringFlag{Name: "pw", Usage: "Required. Password", EnvVars: []string{EnvPassword}},
		&cli.StringFlag{
			Name:    "s",
			Usage:   `Optional. "CA" or "self" for HTTPS, "none" for HTTP`,
			Value:   "self",
			EnvVars: []string{EnvSecurity},
		},
		&cli.StringFlag{Name: "fid", Usage: fidUsage, EnvVars: []string{EnvFID}},
		&cli.BoolFlag{Name: "d", Usage: "Optional. Log the content of every request and response"},
		&cli.StringFlag{
			Name:    "log",
			Usage:   "Optional. Folder for the log file. The default is the current folder",
			EnvVars: []string{EnvLog},
		},
		&cli.BoolFlag{Name: "nl", Usage: "Optional. Do not create a log file"},
		&cli.BoolFlag{Name: "sup", Usage: "Optional. Suppress all output to the console"},
	}
}

func fromContext(c *cli.Context, def Definition) *Params {
	p := &Params{
		IP:        strings.TrimSpace(c.String("ip")),
		User:      c.String("id"),
		Password:  credential.Secret{Value: c.String("pw")},
		Security:  c.String("s"),
		FID:       strings.TrimSpace(c.String("fid")),
		Debug:     c.Bool("d"),
		LogFolder: c.String("log"),
		NoLog:     c.Bool("nl"),
		Suppress:  c.Bool("sup"),
		Options:   map[string]interface{}{},
	}
	for _, f := range def.Flags {
		name := f.Names()[0]
		p.Options[name] = c.Value(name)
	}
	return p
}
