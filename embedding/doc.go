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


// Package embedding attaches semantic vectors to feature records.
//
// The Generator sends article body text to an ai.Embedder in fixed-size
// batches, checks that every vector has the embedder's declared
// dimensionality and optionally scales vectors to unit length so they can be
// compared with cosine similarity. Progress is written to an io.Writer,
// typically os.Stderr.
package embedding
