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


// Package cleaning turns raw news API articles into normalized records.
//
// Cleaning runs in eight steps:
//
//  1. Schema enforcement (EnforceSchema)
//  2. Text sanitation: entities, tags, URLs, non-printable characters
//  3. Unicode compatibility folding and lowercasing
//  4. Sentence boundary normalization
//  5. Optional numeric normalization
//  6. Length checks and flags
//  7. Derived statistics
//  8. Duplicate removal by content fingerprint and URL
//
// Steps 2 through 7 make up CleanRecord, which is idempotent: cleaning an
// already-cleaned record returns it unchanged.
package cleaning
