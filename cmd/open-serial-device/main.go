// Copyright 2026 Harald Albrecht.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/thediveo/serialfd"
	"github.com/thediveo/serialfd/baud"
	"github.com/thediveo/serialfd/failure"
	"github.com/thediveo/serialfd/handoff"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run the command with the passed arguments, returning the exit status.
func run(args []string, stdout, stderr io.Writer) int {
	if args == nil {
		args = []string{} // ...otherwise cobra picks up os.Args.
	}
	courier := &handoff.Courier{
		Stdout: stdout,
		Stderr: stderr,
	}
	cmd := newRootCmd(courier)
	cmd.SetArgs(args)
	err := cmd.Execute()
	if err != nil {
		if errors.Is(err, failure.ErrUsage) {
			_, _ = fmt.Fprint(stderr, cmd.UsageString())
		}
		courier.Slog().Error("open-serial-device failed",
			slog.String("err", err.Error()))
	}
	return failure.ExitCode(err)
}

func newRootCmd(courier *handoff.Courier) *cobra.Command {
	rates := make([]string, 0, len(baud.Rates()))
	for _, rate := range baud.Rates() {
		rates = append(rates, fmt.Sprint(rate))
	}

	cmd := &cobra.Command{
		Use:   "open-serial-device [--] <serial-port-path> <baud> <unix-domain-socket-path>",
		Short: "Open a serial port and pass its file descriptor through a unix domain socket",
		Long: `This is to be executed as a child process. It will open the serial port and
pass the file descriptor back to the parent process through the unix domain
socket.

Supported baud rates: ` + strings.Join(rates, ", ") + `.
Any other baud rate falls back to ` + fmt.Sprint(baud.DefaultBitrate) + `.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 3 {
				return fmt.Errorf("%w: expected serial port path, baud, and unix domain socket path, got %d argument(s)",
					failure.ErrUsage, len(args))
			}
			return nil
		},
		DisableFlagsInUseLine: true,
		SilenceUsage:          true,
		SilenceErrors:         true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serialfd.OpenAndSend(args[0], parseBaud(args[1]), args[2], courier)
		},
	}
	// Stop looking for flags after the first positional argument, so that
	// signed baud values such as "-1" aren't mistaken for flags.
	cmd.Flags().SetInterspersed(false)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", failure.ErrUsage, err)
	})
	cmd.SetOut(courier.Stdout)
	cmd.SetErr(courier.Stderr)
	return cmd
}

// parseBaud returns the decimal number at the beginning of s after optional
// leading white space and an optional sign, ignoring any trailing garbage. It
// returns 0 if there is no such number, and clamps on overflow.
func parseBaud(s string) int {
	s = strings.TrimLeft(s, " \t\n\v\f\r")
	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}
	val := 0
	for _, ch := range []byte(s) {
		if ch < '0' || ch > '9' {
			break
		}
		digit := int(ch - '0')
		if val > (math.MaxInt-digit)/10 {
			val = math.MaxInt
			break
		}
		val = val*10 + digit
	}
	if neg {
		return -val
	}
	return val
}
