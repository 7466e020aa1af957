/*
Package api defines the protocol frame sent from the serial fd helper to its
supervisor over a (stream) unix domain socket.

A frame has a fixed size of [FrameSize] octets and consists of only a message
[Kind] discriminator, encoded in native byte order so that supervisors written
in C can simply copy it into their enum field. The file descriptor being
handed over doesn't travel inside the frame, but as SCM_RIGHTS ancillary data
alongside it.

Kind is a closed enumeration: decoders reject any kind they don't know, as
well as frames of the wrong size.
*/
package api
