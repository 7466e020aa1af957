/*
Package serialfd opens and configures a serial device and then hands off the
open file descriptor to a (less privileged) supervisor over a unix domain
socket.

This supports privilege separation: the supervisor needs exclusive access to a
serial device node, but lacks the privileges to open it. So it starts a
short-lived helper with elevated privileges, such as the
“open-serial-device” command in this module, that runs [OpenAndSend]:

  - open the serial device in blocking mode, but without it becoming the
    controlling terminal,
  - check that the device actually is a tty,
  - configure the line for raw byte I/O at the requested bit rate, with
    VMIN=VTIME=0 so that reads never block,
  - set the line into exclusive mode,
  - connect to the supervisor's (already listening) unix domain socket,
  - send a single [api.Frame] of kind [api.PrivilegedFd] with the open file
    descriptor attached as SCM_RIGHTS.

There is no acknowledgement and no further conversation: the helper terminates
right after the hand-off.

# Supported Bit Rates

Bit rates not supported by Linux termios fall back to 9600 bits/s, see
[baud.Resolve].

# Receiving

Go supervisors can receive the hand-off using [uds.Conn.ReceiveWithFds] and
decode the frame using [api.Frame.UnmarshalBinary]. Supervisors written in
other languages receive a 4 octet frame in native byte order, with the single
file descriptor in the ancillary data.
*/
package serialfd
