/*
Package uds supports transferring open file descriptors across process
boundaries using (stream) unix domain sockets, either connected to a listening
socket in the file system using [Dial], or as peer-to-peer pairs using
[NewPair].

Using stream unix domain sockets has the benefit of being able to detect when
the “other” side has disconnected.

# Trivia

“[UDS]” is short for “unix domain socket”.

[UDS]: https://en.wikipedia.org/wiki/Unix_domain_socket
*/
package uds
