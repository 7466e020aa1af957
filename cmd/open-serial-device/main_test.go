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
	"encoding/binary"
	"math"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/creack/pty"
	"github.com/onsi/gomega/gbytes"
	"github.com/onsi/gomega/gexec"
	"github.com/thediveo/safe"
	"github.com/thediveo/serialfd/api"
	"github.com/thediveo/serialfd/failure"
	"github.com/thediveo/serialfd/uds"
	"golang.org/x/sys/unix"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	. "github.com/onsi/gomega/gleak"
	. "github.com/thediveo/fdooze"
	. "github.com/thediveo/success"
)

// supervisor returns the path of a listening unix domain socket, as well as
// the listener itself.
func supervisor() (string, *net.UnixListener) {
	GinkgoHelper()

	path := filepath.Join(GinkgoT().TempDir(), "supervisor.sock")
	l := Successful(net.ListenUnix("unix", &net.UnixAddr{Name: path, Net: "unix"}))
	DeferCleanup(func() { _ = l.Close() })
	return path, l
}

// newPty returns a new pseudo terminal pair, closing it automatically when the
// current node ends.
func newPty() (master, slave *os.File) {
	GinkgoHelper()

	master, slave = Successful2R(pty.Open())
	DeferCleanup(func() {
		_ = master.Close()
		_ = slave.Close()
	})
	return master, slave
}

var _ = Describe("open-serial-device", func() {

	BeforeEach(func() {
		goodfds := Filedescriptors()
		goodgos := Goroutines()
		DeferCleanup(func() {
			Eventually(Goroutines).Within(2 * time.Second).ProbeEvery(100 * time.Millisecond).
				ShouldNot(HaveLeaked(goodgos))
			Eventually(Filedescriptors).Within(2 * time.Second).ProbeEvery(100 * time.Millisecond).
				ShouldNot(HaveLeakedFds(goodfds))
		})
	})

	DescribeTable("parsing baud arguments like strtol",
		func(arg string, expected int) {
			Expect(parseBaud(arg)).To(Equal(expected))
		},
		Entry(nil, "115200", 115200),
		Entry(nil, "  \t9600", 9600),
		Entry(nil, "+57600", 57600),
		Entry(nil, "-300", -300),
		Entry(nil, "19200baud", 19200),
		Entry(nil, "", 0),
		Entry(nil, "fast", 0),
		Entry(nil, "-", 0),
		Entry(nil, " 1 2", 1),
		Entry(nil, "99999999999999999999999", math.MaxInt),
	)

	When("running in-process", func() {

		var stdout, stderr *safe.Buffer

		BeforeEach(func() {
			stdout = &safe.Buffer{}
			stderr = &safe.Buffer{}
		})

		It("rejects missing arguments", func() {
			Expect(run(nil, stdout, stderr)).To(Equal(failure.ExitUsage))
			Expect(stderr.String()).To(And(
				ContainSubstring("Usage:\n  open-serial-device [--] <serial-port-path> <baud> <unix-domain-socket-path>"),
				ContainSubstring("got 0 argument(s)")))
			Expect(stdout.String()).To(BeEmpty())

			Expect(run([]string{"/dev/ttyS0", "9600"}, stdout, stderr)).To(Equal(failure.ExitUsage))
		})

		It("rejects unknown flags", func() {
			Expect(run([]string{"--baudrate=9600", "/dev/ttyS0", "9600", "/tmp/sock"}, stdout, stderr)).
				To(Equal(failure.ExitUsage))
			Expect(stderr.String()).To(ContainSubstring("unknown flag: --baudrate"))
		})

		It("shows help", func() {
			Expect(run([]string{"--help"}, stdout, stderr)).To(Equal(failure.ExitOK))
			Expect(stdout.String()).To(And(
				ContainSubstring("pass the file descriptor back to the parent process"),
				ContainSubstring("Supported baud rates: 50, 75, 110"),
				ContainSubstring("4000000.\nAny other baud rate falls back to 9600.")))
		})

		It("reports a file that isn't a serial device", func() {
			path := filepath.Join(GinkgoT().TempDir(), "not-a-tty")
			Expect(os.WriteFile(path, nil, 0o600)).To(Succeed())
			Expect(run([]string{path, "9600", "/nonexisting.sock"}, stdout, stderr)).
				To(Equal(failure.ExitNoInput))
			Expect(stderr.String()).To(ContainSubstring("does not open to a serial port"))
		})

		It("hands off a serial device after a double dash, ignoring extra arguments", func() {
			_, slave := newPty()
			sockpath, l := supervisor()

			Expect(run([]string{"--", slave.Name(), "-1", sockpath, "extra"}, stdout, stderr)).
				To(Equal(failure.ExitOK))

			Expect(l.SetDeadline(time.Now().Add(2 * time.Second))).To(Succeed())
			conn := &uds.Conn{UnixConn: Successful(l.AcceptUnix())}
			defer conn.Close()
			b := make([]byte, api.FrameSize)
			_, fds := Successful2R(conn.ReceiveWithFds(b, 1))
			Expect(fds).To(HaveLen(1))
			Expect(unix.Close(fds[0])).To(Succeed())
			Expect(stderr.String()).To(ContainSubstring("requested=-1"))
		})

	})

	When("running as a separate process", func() {

		start := func(args ...string) *gexec.Session {
			GinkgoHelper()

			session := Successful(gexec.Start(
				exec.Command(openSerialDevice, args...), GinkgoWriter, GinkgoWriter))
			DeferCleanup(func() { session.Kill().Wait() })
			return session
		}

		DescribeTable("exit status",
			func(args func() []string, status int) {
				session := start(args()...)
				Eventually(session).Within(5 * time.Second).Should(gexec.Exit(status))
			},
			Entry("without arguments", func() []string { return nil }, failure.ExitUsage),
			Entry("when asking for help", func() []string { return []string{"-h"} }, failure.ExitOK),
			Entry("with a missing device", func() []string {
				return []string{"/dev/nonexisting-tty-666", "9600", "/nonexisting.sock"}
			}, failure.ExitUnavailable),
			Entry("with a non-tty device", func() []string {
				return []string{"/dev/null", "9600", "/nonexisting.sock"}
			}, failure.ExitNoInput),
			Entry("with a missing socket", func() []string {
				_, slave := newPty()
				return []string{slave.Name(), "9600",
					filepath.Join(GinkgoT().TempDir(), "nonexisting.sock")}
			}, failure.ExitOSErr),
		)

		It("hands off a serial device", func() {
			master, slave := newPty()
			sockpath, l := supervisor()

			session := start(slave.Name(), "115200", sockpath)

			frame := make([]byte, api.FrameSize)
			binary.NativeEndian.PutUint32(frame, uint32(api.PrivilegedFd))
			Eventually(session.Out).Within(5 * time.Second).Should(gbytes.Say(
				"Sending Data: 0x%02X 0x%02X 0x%02X 0x%02X\n", frame[0], frame[1], frame[2], frame[3]))
			Eventually(session).Within(5 * time.Second).Should(gexec.Exit(failure.ExitOK))

			Expect(l.SetDeadline(time.Now().Add(2 * time.Second))).To(Succeed())
			conn := &uds.Conn{UnixConn: Successful(l.AcceptUnix())}
			defer conn.Close()
			b := make([]byte, 2*api.FrameSize)
			n, fds := Successful2R(conn.ReceiveWithFds(b, 2))
			Expect(b[:n]).To(Equal(frame))
			Expect(fds).To(HaveLen(1))
			dev := os.NewFile(uintptr(fds[0]), "received")
			defer dev.Close()

			Expect(Successful(master.Write([]byte("OK")))).To(Equal(2))
			Eventually(func() string {
				b := make([]byte, 16)
				n, _ := unix.Read(int(dev.Fd()), b)
				return string(b[:max(n, 0)])
			}).Within(2 * time.Second).ProbeEvery(50 * time.Millisecond).
				Should(Equal("OK"))
		})

	})

})
