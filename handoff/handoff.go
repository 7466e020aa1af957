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

package handoff

import (
	"cmp"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	petname "github.com/dustinkirkland/golang-petname"
	"github.com/thediveo/serialfd/api"
	"github.com/thediveo/serialfd/eintr"
	"github.com/thediveo/serialfd/failure"
	"github.com/thediveo/serialfd/uds"
)

// FdSender sends data together with open file descriptors in a single message,
// returning the number of data octets sent.
type FdSender interface {
	SendWithFds(b []byte, fds ...int) (n int, err error)
}

var _ FdSender = (*uds.Conn)(nil)

// Courier hands off open file descriptors. Stdout receives the dump of each
// outgoing frame, Stderr the log records; both default to the process' stdout
// and stderr.
type Courier struct {
	Stdout io.Writer
	Stderr io.Writer
	log    *slog.Logger
}

// Slog returns the structured logger of this courier.
func (c *Courier) Slog() *slog.Logger {
	if c.log != nil {
		return c.log
	}
	c.log = slog.New(slog.NewTextHandler(
		cmp.Or(c.Stderr, io.Writer(os.Stderr)),
		&slog.HandlerOptions{Level: slog.LevelInfo}))
	return c.log
}

// Deliver sends a single privileged fd message with the passed open file
// descriptor attached, using the passed sender. Interrupted sends are
// transparently restarted.
//
// Deliver doesn't close the passed file descriptor: the duplicate now in
// transit is in the kernel's custody, but the caller keeps its own file
// descriptor.
//
// Deliver returns an error wrapping [failure.ErrTransferFailed] if the
// message cannot be sent, or [failure.ErrProtocolViolation] if it was sent
// short.
func (c *Courier) Deliver(sender FdSender, fd int) error {
	id := petname.Generate(2, "-")
	log := c.Slog().With(slog.String("handoff-id", id))

	frame := api.Frame{Kind: api.PrivilegedFd}
	msg, err := frame.MarshalBinary()
	if err != nil {
		return fmt.Errorf("%w: %w", failure.ErrTransferFailed, err)
	}

	_, _ = fmt.Fprintln(cmp.Or(c.Stdout, io.Writer(os.Stdout)), Dump(msg))
	log.Info("handing off fd",
		slog.String("kind", frame.Kind.String()),
		slog.Int("fd", fd))

	n, err := eintr.DoN(func() (int, error) {
		return sender.SendWithFds(msg, fd)
	})
	if err != nil {
		log.Error("cannot send", slog.String("err", err.Error()))
		return fmt.Errorf("%w: sendmsg(): %w", failure.ErrTransferFailed, err)
	}
	if n != len(msg) {
		log.Error("short send",
			slog.Int("sent", n),
			slog.Int("expected", len(msg)))
		return fmt.Errorf("%w: sendmsg(): sent %d instead of %d octets of %s frame",
			failure.ErrProtocolViolation, n, len(msg), frame.Kind)
	}
	log.Info("fd handed off")
	return nil
}

// Dump returns the octets of an outgoing message in human-readable form for
// operator diagnostics.
func Dump(msg []byte) string {
	var sb strings.Builder
	sb.WriteString("Sending Data:")
	for _, octet := range msg {
		fmt.Fprintf(&sb, " 0x%02X", octet)
	}
	return sb.String()
}
