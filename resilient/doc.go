// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package resilient makes calls to a remote semantic backend survive a cold
// start.
//
// Hosted inference backends go to sleep when idle. The first request after
// that fails with a gateway error or a network timeout while the backend
// boots. Client.Do handles this with a fixed two-attempt protocol:
//
//  1. Issue the call with a bounded timeout.
//  2. If it fails with a cold-start signature, fire a health probe in the
//     background (its result is ignored) and retry the call exactly once.
//  3. If the retry also looks cold, return a *core.ColdStartError so the
//     caller can tell the user to wait or switch to keyword search.
//
// Any other failure is returned as is, with no probe and no retry. The
// protocol never loops, so a struggling backend sees at most two requests
// per query.
package resilient
