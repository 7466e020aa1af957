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
Package failure defines the classes of failures the serial fd helper can run
into, as well as the mapping of these classes onto process exit statuses.

The exit statuses follow the BSD [sysexits(3)] conventions, so that a
supervisor can branch on the failure class without parsing any diagnostic
text.

Errors get classified by wrapping one of the Err... sentinels, together with
the underlying cause:

	fmt.Errorf("%w: cannot connect to %q: %w", failure.ErrChannelUnavailable, path, err)

[sysexits(3)]: https://man.freebsd.org/cgi/man.cgi?query=sysexits
*/
package failure
