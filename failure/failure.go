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

package failure

import "errors"

// Failure classes; test for them using [errors.Is].
var (
	ErrUsage               = errors.New("usage error")
	ErrPermissionDenied    = errors.New("permission denied")
	ErrDeviceUnavailable   = errors.New("device unavailable")
	ErrNotASerialDevice    = errors.New("not a serial device")
	ErrConfigurationFailed = errors.New("configuration failed")
	ErrChannelUnavailable  = errors.New("channel unavailable")
	ErrTransferFailed      = errors.New("transfer failed")
	ErrProtocolViolation   = errors.New("protocol violation")
)

// Process exit statuses, see sysexits.h.
const (
	ExitOK          = 0
	ExitUsage       = 64 // EX_USAGE
	ExitNoInput     = 66 // EX_NOINPUT
	ExitUnavailable = 69 // EX_UNAVAILABLE
	ExitSoftware    = 70 // EX_SOFTWARE
	ExitOSErr       = 71 // EX_OSERR
	ExitProtocol    = 76 // EX_PROTOCOL
	ExitNoPerm      = 77 // EX_NOPERM
)

var exitcodes = []struct {
	class error
	code  int
}{
	{ErrUsage, ExitUsage},
	{ErrPermissionDenied, ExitNoPerm},
	{ErrDeviceUnavailable, ExitUnavailable},
	{ErrNotASerialDevice, ExitNoInput},
	{ErrConfigurationFailed, ExitOSErr},
	{ErrChannelUnavailable, ExitOSErr},
	{ErrTransferFailed, ExitOSErr},
	{ErrProtocolViolation, ExitProtocol},
}

// ExitCode returns the process exit status for the passed error: [ExitOK] for
// a nil error, the status of the first failure class the error belongs to, or
// [ExitSoftware] for errors that haven't been classified at all.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	for _, ec := range exitcodes {
		if errors.Is(err, ec.class) {
			return ec.code
		}
	}
	return ExitSoftware
}
