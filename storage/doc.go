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


// Package storage provides the storage abstraction for the run ledger.
//
// The ledger is a small history of pipeline invocations: when each run
// started and finished, which files it produced, how many articles survived
// each stage and, for failed runs, the error. It is not an index over the
// dataset itself; datasets live on disk as parquet, csv or jsonl files.
//
// # Constructor Return Type Pattern
//
// Public constructors in backend packages return the interface:
//
//	repo, err := badger.NewRunRepository(backend)  // storage.RunRepository
//
// Internal helpers may return concrete types since they're only used
// within the implementation package.
//
// # Usage
//
// Open a ledger on disk:
//
//	backend, err := badger.OpenBackend("data/ledger", false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer backend.Close()
//
//	runs, err := badger.NewRunRepository(backend)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer runs.Close()
//
// Use in tests with in-memory storage:
//
//	runs, backend, err := badger.NewMemoryRunRepository()
//
// # Context Support
//
// All repository methods accept context.Context. Pass context.Background()
// for operations without specific timeout requirements.
package storage
