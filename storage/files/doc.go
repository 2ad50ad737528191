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


// Package files persists pipeline artifacts on the local filesystem.
//
// Every artifact is written once under a run-scoped name of the form
// <prefix>_<YYYYMMDD>_<NN>.<ext>. The counter starts at 01 and advances past
// any name already taken, so earlier runs are never overwritten.
package files
