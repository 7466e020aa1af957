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

package uds

import (
	"errors"
	"net"
	"os"

	"github.com/thediveo/serialfd/eintr"
	"golang.org/x/sys/unix"
)

// Conn represents a (stream) unix domain socket connection that can send and
// receive open file descriptors. It wraps [*net.UnixConn]. Use [Dial] to
// connect to a listening unix domain socket in the file system, or [NewPair]
// to create a pair of directly peer-to-peer connected Conn objects. Use
// [Conn.SendWithFds] and [Conn.ReceiveWithFds] to transfer messages with open
// file descriptors piggybacked on.
type Conn struct {
	*net.UnixConn
}

// Dial connects to the (stream) unix domain socket bound to the specified
// path. Interrupted connection attempts are transparently restarted.
func Dial(path string) (*Conn, error) {
	fd, err := eintr.DoN(func() (int, error) {
		return unix.Socket(unix.AF_UNIX, unix.SOCK_STREAM|unix.SOCK_CLOEXEC, 0)
	})
	if err != nil {
		return nil, err
	}
	if err := connect(fd, &unix.SockaddrUnix{Name: path}, unix.Connect); err != nil {
		_ = unix.Close(fd)
		return nil, err
	}
	return NewUnixConn(fd, path)
}

// connect the socket fd to the passed address using connectfn, restarting it
// as long as it gets interrupted. An interrupted AF_UNIX connect never leaves
// the socket connected, so a restart is a fresh connection attempt.
func connect(fd int, addr unix.Sockaddr, connectfn func(int, unix.Sockaddr) error) error {
	return eintr.Do(func() error {
		return connectfn(fd, addr)
	})
}

// NewPair returns a pair of peer-to-peer connected (stream) unix domain sockets
// that can transfer open file descriptors across process boundaries.
func NewPair() (dupond, dupont *Conn, err error) {
	fdpair, err := unix.Socketpair(unix.AF_UNIX, unix.SOCK_STREAM|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		return nil, nil, err
	}
	dupond, err = NewUnixConn(fdpair[0], "dupond")
	if err != nil {
		// fdpair[0] is always closed by now, but we don't want to leak
		// fdpair[1]...
		_ = unix.Close(fdpair[1])
		return nil, nil, err
	}
	dupont, err = NewUnixConn(fdpair[1], "dupont")
	if err != nil {
		_ = dupond.Close()
		return nil, nil, err
	}
	return dupond, dupont, nil
}

// SendWithFds sends the passed data as well as the passed file descriptors over
// the (stream) UDS connection in a single message, with the file descriptors
// in a single SCM_RIGHTS control message (ancillary data). It returns the
// number of data bytes sent, which callers must check: a short count means
// that the message didn't go out as a whole.
func (c *Conn) SendWithFds(b []byte, fds ...int) (n int, err error) {
	// Please note that unix.UnixRights returns a single control message
	// consisting of the header as well as the fd payload.
	oob := unix.UnixRights(fds...)
	n, _, err = c.WriteMsgUnix(b, oob, nil)
	return n, err
}

// ReceiveWithFds returns the file descriptors received in a single control
// message (ancillary data) from the (stream) UDS connection, otherwise it
// returns an error.
func (c *Conn) ReceiveWithFds(b []byte, maxfds int) (n int, fds []int, err error) {
	// We're trying to do the reverse of what unix.UnixRights does: it packages
	// file descriptors as int32's and then there's control message header
	// overhead, but this is where unix.CmsgSpace gives us the correct number
	// for the amount of control message payload.
	oob := make([]byte, unix.CmsgSpace(maxfds*4))
	n, noob, _, _, err := c.ReadMsgUnix(b, oob)
	if err != nil {
		return 0, nil, err
	}
	cms, err := unix.ParseSocketControlMessage(oob[:noob])
	if err != nil {
		return 0, nil, err
	}
	for _, cm := range cms {
		if cm.Header.Level != unix.SOL_SOCKET || cm.Header.Type != unix.SCM_RIGHTS {
			continue // nah, don't understand, skip it.
		}
		fds, err := unix.ParseUnixRights(&cm)
		if err != nil {
			return 0, nil, err
		}
		return n, fds, err
	}
	// no fds received is also okay for the transport; it's up to the protocol
	// to decide whether this is acceptable.
	return n, nil, nil
}

// NewUnixConn returns a *net.UnixConn for the passed unix domain socket fd;
// otherwise, it then returns an error in case of failure.
//
// Important: NewUnixConn always takes ownership of the passed file descriptor
// and will close it, even in case of error. A caller must not use the passed
// file descriptor anymore and the caller must not close the passed file
// descriptor themselves.
func NewUnixConn(udsfd int, nickname string) (*Conn, error) {
	f := os.NewFile(uintptr(udsfd), nickname)
	if f == nil {
		return nil, errors.New("not a file descriptor")
	}
	defer func() { _ = f.Close() }()
	netconn, err := net.FilePacketConn(f)
	if err != nil {
		return nil, err
	}
	unixconn, ok := netconn.(*net.UnixConn)
	if !ok {
		_ = netconn.Close()
		return nil, errors.New("not a unix domain socket")
	}
	return &Conn{UnixConn: unixconn}, nil
}
