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

package api

import (
	"encoding"
	"encoding/binary"
	"errors"
	"fmt"
)

// Kind discriminates the messages of the supervisor protocol.
type Kind uint32

const (
	// Invalid is the zero Kind; it is never sent and never accepted.
	Invalid Kind = iota
	// PrivilegedFd messages carry an open file descriptor that was opened
	// with elevated privileges, as SCM_RIGHTS ancillary data.
	PrivilegedFd
)

var kindNames = map[Kind]string{
	Invalid:      "invalid",
	PrivilegedFd: "privileged-fd",
}

// Valid returns true if k is a known kind other than [Invalid].
func (k Kind) Valid() bool {
	_, ok := kindNames[k]
	return ok && k != Invalid
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", uint32(k))
}

// FrameSize is the fixed size of an encoded [Frame] in octets.
const FrameSize = 4

var (
	ErrFrameSize   = errors.New("invalid frame size")
	ErrUnknownKind = errors.New("unknown message kind")
)

// Frame is the fixed-size message exchanged over the unix domain socket.
type Frame struct {
	Kind Kind
}

var (
	_ encoding.BinaryMarshaler   = (*Frame)(nil)
	_ encoding.BinaryUnmarshaler = (*Frame)(nil)
)

// MarshalBinary returns the wire representation of the frame, which is always
// exactly [FrameSize] octets long. It refuses to encode frames of unknown kind.
func (f Frame) MarshalBinary() ([]byte, error) {
	if !f.Kind.Valid() {
		return nil, fmt.Errorf("cannot encode %s frame: %w", f.Kind, ErrUnknownKind)
	}
	return binary.NativeEndian.AppendUint32(make([]byte, 0, FrameSize), uint32(f.Kind)), nil
}

// UnmarshalBinary decodes the passed wire representation into this frame; it
// rejects data not exactly [FrameSize] octets long as well as unknown kinds.
func (f *Frame) UnmarshalBinary(b []byte) error {
	if len(b) != FrameSize {
		return fmt.Errorf("expected %d octets, got %d: %w", FrameSize, len(b), ErrFrameSize)
	}
	kind := Kind(binary.NativeEndian.Uint32(b))
	if !kind.Valid() {
		return fmt.Errorf("cannot decode %s frame: %w", kind, ErrUnknownKind)
	}
	f.Kind = kind
	return nil
}
