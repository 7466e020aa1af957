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

package baud

import (
	"maps"
	"slices"

	"golang.org/x/sys/unix"
)

// DefaultBitrate is the bit rate used when a requested bit rate isn't recognized.
const DefaultBitrate = 9600

// Rate is a termios line speed constant, suitable for the CBAUD bits of the
// control flags as well as the input and output speed fields.
type Rate uint32

// B0 ("hang up") is deliberately missing.
var rates = map[int]Rate{
	50:      unix.B50,
	75:      unix.B75,
	110:     unix.B110,
	134:     unix.B134,
	150:     unix.B150,
	200:     unix.B200,
	300:     unix.B300,
	600:     unix.B600,
	1200:    unix.B1200,
	1800:    unix.B1800,
	2400:    unix.B2400,
	4800:    unix.B4800,
	9600:    unix.B9600,
	19200:   unix.B19200,
	38400:   unix.B38400,
	57600:   unix.B57600,
	115200:  unix.B115200,
	230400:  unix.B230400,
	460800:  unix.B460800,
	500000:  unix.B500000,
	576000:  unix.B576000,
	921600:  unix.B921600,
	1000000: unix.B1000000,
	1152000: unix.B1152000,
	1500000: unix.B1500000,
	2000000: unix.B2000000,
	2500000: unix.B2500000,
	3000000: unix.B3000000,
	3500000: unix.B3500000,
	4000000: unix.B4000000,
}

// Resolve returns the termios line speed for the passed bit rate. If there is
// no termios line speed for this bit rate, Resolve returns the line speed for
// the [DefaultBitrate] bit rate instead.
func Resolve(bitrate int) Rate {
	if rate, ok := rates[bitrate]; ok {
		return rate
	}
	return rates[DefaultBitrate]
}

// BitsPerSecond returns the bit rate of this line speed, or 0 if r isn't a
// known line speed.
func (r Rate) BitsPerSecond() int {
	for bitrate, rate := range rates {
		if rate == r {
			return bitrate
		}
	}
	return 0
}

// Rates returns the recognized bit rates in ascending order.
func Rates() []int {
	return slices.Sorted(maps.Keys(rates))
}
