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
Package eintr transparently restarts blocking system calls that got
interrupted by signal delivery, reporting [unix.EINTR].

Wrap blocking calls such as open(2), connect(2), and sendmsg(2) in [Do] or
[DoN] instead of sprinkling retry loops all over the place. Restarts are
immediate and unbounded; any other error is returned as is.
*/
package eintr
