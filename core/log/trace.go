// Copyright (C) 2018 Google Inc.
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

package log

import "context"

type traceKeyTy string

const traceKey traceKeyTy = "log.traceKey"

// Enter returns a new context with the trace-stack pushed by name.
func Enter(ctx context.Context, name string) context.Context {
	parent := GetTrace(ctx)
	trace := make([]string, len(parent), len(parent)+1)
	copy(trace, parent)
	return context.WithValue(ctx, traceKey, append(trace, name))
}

// GetTrace returns the trace-stack.
func GetTrace(ctx context.Context) []string {
	out, _ := ctx.Value(traceKey).([]string)
	return out
}
