// Copyright 2020-2025 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package debug

import (
	"fmt"
	"path"
	"runtime"
	"strings"
)

// Stack formats the calling goroutine's stack, skipping skip frames, one
// frame per line. Runtime and testing frames are omitted.
func Stack(skip int) string {
	trace := make([]uintptr, 32)
	for {
		n := runtime.Callers(skip+1, trace)
		if n < len(trace) {
			trace = trace[:n]
			break
		}
		trace = make([]uintptr, len(trace)*2)
	}

	var out strings.Builder
	frames := runtime.CallersFrames(trace)
	for {
		frame, more := frames.Next()
		if !strings.HasPrefix(frame.Function, "runtime.") &&
			!strings.HasPrefix(frame.Function, "testing.") {
			fmt.Fprintf(&out, "- %-32v %v:%v\n",
				path.Base(frame.Function)+"()", path.Base(frame.File), frame.Line)
		}
		if !more {
			break
		}
	}
	return out.String()
}
