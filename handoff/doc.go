/*
Package handoff delivers an open file descriptor to a supervisor in a single
protocol message: a [api.Frame] of kind [api.PrivilegedFd], with the file
descriptor attached as SCM_RIGHTS ancillary data.

The hand-off is fire-and-forget: there is no acknowledgement from the
receiving end. However, the number of frame octets sent must match the frame
size exactly; since messages carrying file descriptors are never partially
deliverable, a short send is a protocol violation and is never "completed" by
sending the remainder.
*/
package handoff
