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

package serialfd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/thediveo/serialfd/baud"
	"github.com/thediveo/serialfd/failure"
	"github.com/thediveo/serialfd/handoff"
	"github.com/thediveo/serialfd/tty"
	"github.com/thediveo/serialfd/uds"
)

// OpenAndSend opens the serial device at the specified path, configures it for
// raw I/O at the specified bit rate, and then sends the open file descriptor
// to the unix domain socket at the specified path. Unsupported bit rates fall
// back to [baud.DefaultBitrate].
//
// OpenAndSend closes its own file descriptor for the device before returning,
// regardless of success or failure. This includes the success path: the
// descriptor in transit is a kernel-held duplicate and thus unaffected, so on
// success the supervisor at the other end of the socket ends up holding the
// only reference to the open device. A helper process that simply exits after
// sending would instead leave closing to process termination; library users
// must not expect the device to remain open in their own process.
//
// The returned error wraps one of the error classes in package [failure]. If
// courier is nil, a default courier logging to stderr and dumping to stdout is
// used.
func OpenAndSend(device string, bitrate int, socket string, courier *handoff.Courier) error {
	if courier == nil {
		courier = &handoff.Courier{}
	}
	log := courier.Slog()

	rate := baud.Resolve(bitrate)
	if rate.BitsPerSecond() != bitrate {
		log.Warn("unsupported bit rate, falling back",
			slog.Int("requested", bitrate),
			slog.Int("bitrate", rate.BitsPerSecond()))
	}

	dev, err := tty.Open(device, rate)
	if err != nil {
		return err
	}
	defer func() { _ = dev.Close() }()
	logOpened(log, dev, rate)

	conn, err := uds.Dial(socket)
	if err != nil {
		return fmt.Errorf("%w: cannot connect to %q: %w",
			failure.ErrChannelUnavailable, socket, err)
	}
	defer func() { _ = conn.Close() }()

	return courier.Deliver(conn, int(dev.Fd()))
}

// logOpened logs the opened device together with its line speed and whether
// it is in exclusive mode.
func logOpened(log *slog.Logger, dev *os.File, rate baud.Rate) {
	attrs := []any{
		slog.String("device", dev.Name()),
		slog.Int("bitrate", rate.BitsPerSecond()),
	}
	exclusive, err := tty.IsExclusive(dev)
	attrs = append(attrs, slog.Bool("exclusive", exclusive))
	if err != nil {
		attrs = append(attrs, slog.String("err", err.Error()))
	}
	log.Info("serial device opened", attrs...)
}
