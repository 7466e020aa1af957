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

package eintr

import (
	"errors"

	"github.com/avast/retry-go/v4"
	"golang.org/x/sys/unix"
)

var restartOpts = []retry.Option{
	retry.Attempts(0), // until not interrupted anymore
	retry.RetryIf(Interrupted),
	retry.Delay(0),
	retry.DelayType(retry.FixedDelay),
	retry.LastErrorOnly(true),
}

// Interrupted returns true if err is (or wraps) [unix.EINTR].
func Interrupted(err error) bool {
	return errors.Is(err, unix.EINTR)
}

// Do calls fn and calls it again as long as it fails with [unix.EINTR].
func Do(fn func() error) error {
	return retry.Do(fn, restartOpts...)
}

// DoN calls fn and calls it again as long as it fails with [unix.EINTR],
// returning the count (or file descriptor, et cetera) from the final call.
func DoN(fn func() (int, error)) (int, error) {
	return retry.DoWithData(fn, restartOpts...)
}
