/*
Package tty acquires serial devices: it opens a device node, verifies that it
actually is a serial line (tty), and configures it for raw, non-canonical,
blocking byte I/O at a given line speed.

The serial line is deliberately opened in blocking mode: the read behavior
is instead governed by the VMIN and VTIME line discipline counters, which are
both set to zero so that reads return whatever is available without waiting.
Mixing O_NONBLOCK with this non-canonical mode would be asking for trouble.

Only the line attributes that need changing are changed; all other attributes
are kept as read from the device, as there might be hardware-specific bits we
don't understand and thus better don't clobber.
*/
package tty
