/*
Package main provides the “open-serial-device” command that opens and
configures a serial device and then passes the open file descriptor to its
parent process through a unix domain socket. This command is not intended to
be run directly from the CLI, but instead as a child process with elevated
privileges, spawned by a supervisor that lacks these privileges.

	open-serial-device [--] <serial-port-path> <baud> <unix-domain-socket-path>

The supervisor must be listening on the unix domain socket before starting the
command. The command sends exactly one message and then terminates.

The exit status follows the sysexits(3) conventions, see [failure.ExitCode].
*/
package main
