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

package tty

import (
	"errors"
	"fmt"
	"os"

	"github.com/thediveo/ioctl"
	"github.com/thediveo/serialfd/baud"
	"github.com/thediveo/serialfd/eintr"
	"github.com/thediveo/serialfd/failure"
	"golang.org/x/sys/unix"
)

// tiocgexcl queries whether a tty is in exclusive mode, see ioctl_tty(2).
var tiocgexcl = ioctl.IOR('T', 0x40, 4)

// state of acquiring a serial device.
type state int

const (
	unopened state = iota
	opened
	verified
	configured
)

var stateNames = [...]string{"unopened", "opened", "verified", "configured"}

func (s state) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("state(%d)", int(s))
	}
	return stateNames[s]
}

// acquisition of a serial device, advancing from unopened to configured. Any
// failure is final, leaving the acquisition in its current state.
type acquisition struct {
	path  string
	rate  baud.Rate
	fd    int
	state state
}

// Open opens the serial device at the specified path for reading and writing,
// verifies that it is a tty, and then configures it for raw mode I/O at the
// specified line speed, returning the configured device as an *os.File. The
// tty is additionally put into exclusive mode, so that further opens by
// unprivileged processes fail.
//
// Open returns an error wrapping [failure.ErrPermissionDenied] or
// [failure.ErrDeviceUnavailable] if the device cannot be opened,
// [failure.ErrNotASerialDevice] if the path doesn't lead to a tty, and
// [failure.ErrConfigurationFailed] if the line attributes cannot be read or
// set. Open never leaks the device file descriptor on failure.
func Open(path string, rate baud.Rate) (*os.File, error) {
	a := &acquisition{path: path, rate: rate, fd: -1}
	defer a.release()
	for a.state != configured {
		if err := a.advance(); err != nil {
			return nil, err
		}
	}
	f := os.NewFile(uintptr(a.fd), path)
	a.fd = -1 // it's the caller's now.
	return f, nil
}

// advance the acquisition to its next state, or return the reason why not.
func (a *acquisition) advance() error {
	switch a.state {
	case unopened:
		return a.open()
	case opened:
		return a.verify()
	case verified:
		return a.configure()
	}
	return fmt.Errorf("cannot advance acquisition of %q beyond %s", a.path, a.state)
}

// release the device file descriptor, unless ownership has been passed on.
func (a *acquisition) release() {
	if a.fd < 0 {
		return
	}
	_ = unix.Close(a.fd)
	a.fd = -1
}

func (a *acquisition) open() error {
	// Don't ever open in non-blocking mode, as we're going to use the
	// non-canonical mode with VMIN=VTIME=0 instead.
	fd, err := eintr.DoN(func() (int, error) {
		return unix.Open(a.path, unix.O_RDWR|unix.O_NOCTTY|unix.O_SYNC|unix.O_CLOEXEC, 0)
	})
	if err != nil {
		if errors.Is(err, unix.EACCES) || errors.Is(err, unix.EPERM) {
			return fmt.Errorf("%w: could not open serial device %q, try with elevated privileges: %w",
				failure.ErrPermissionDenied, a.path, err)
		}
		return fmt.Errorf("%w: cannot open serial device %q: %w",
			failure.ErrDeviceUnavailable, a.path, err)
	}
	a.fd = fd
	a.state = opened
	return nil
}

func (a *acquisition) verify() error {
	if _, err := unix.IoctlGetTermios(a.fd, unix.TCGETS); err != nil {
		return fmt.Errorf("%w: path %q does not open to a serial port: %w",
			failure.ErrNotASerialDevice, a.path, err)
	}
	a.state = verified
	return nil
}

func (a *acquisition) configure() error {
	attrs, err := unix.IoctlGetTermios(a.fd, unix.TCGETS)
	if err != nil {
		return fmt.Errorf("%w: cannot get tty attributes of %q: %w",
			failure.ErrConfigurationFailed, a.path, err)
	}
	makeRaw(attrs, a.rate)
	// TCSETS is tcsetattr(TCSANOW); there's nothing to drain on a freshly
	// opened line.
	if err := unix.IoctlSetTermios(a.fd, unix.TCSETS, attrs); err != nil {
		return fmt.Errorf("%w: cannot set tty attributes of %q: %w",
			failure.ErrConfigurationFailed, a.path, err)
	}
	if err := unix.IoctlSetInt(a.fd, unix.TIOCEXCL, 0); err != nil {
		return fmt.Errorf("%w: cannot put %q into exclusive mode: %w",
			failure.ErrConfigurationFailed, a.path, err)
	}
	a.state = configured
	return nil
}

// makeRaw changes the passed line attributes to raw mode (as cfmakeraw(3)
// does), at the specified line speed for both input and output, ignoring modem
// control lines, with the receiver enabled, a single stop bit, no hardware flow
// control, and with reads returning immediately with whatever is available.
// All other attributes are left untouched.
func makeRaw(attrs *unix.Termios, rate baud.Rate) {
	attrs.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.PARMRK | unix.ISTRIP |
		unix.INLCR | unix.IGNCR | unix.ICRNL | unix.IXON
	attrs.Oflag &^= unix.OPOST
	attrs.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.ISIG | unix.IEXTEN
	attrs.Cflag &^= unix.CSIZE | unix.PARENB
	attrs.Cflag |= unix.CS8

	// A zero CIBAUD means the input speed equals the output speed.
	attrs.Cflag &^= unix.CBAUD | unix.CIBAUD
	attrs.Cflag |= uint32(rate)
	attrs.Ispeed = uint32(rate)
	attrs.Ospeed = uint32(rate)

	attrs.Cflag |= unix.CLOCAL | unix.CREAD
	attrs.Cflag &^= unix.CSTOPB | unix.CRTSCTS

	attrs.Cc[unix.VMIN] = 0
	attrs.Cc[unix.VTIME] = 0
}

// Attributes returns the current line attributes of the passed tty.
func Attributes(f *os.File) (*unix.Termios, error) {
	return unix.IoctlGetTermios(int(f.Fd()), unix.TCGETS)
}

// IsExclusive returns true if the passed tty is in exclusive mode.
func IsExclusive(f *os.File) (bool, error) {
	excl, err := unix.IoctlGetInt(int(f.Fd()), tiocgexcl)
	if err != nil {
		return false, err
	}
	return excl != 0, nil
}
