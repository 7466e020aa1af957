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

/*
Package baud maps bit rates onto the fixed enumeration of Linux termios line
speeds.

Termios line speeds are not arbitrary integers but symbolic constants, such
as [unix.B115200]. [Resolve] is total: when asked for a bit rate that has no
termios constant it falls back to [DefaultBitrate] instead of failing, so that a
serial line always gets brought up with a sane speed.
*/
package baud
