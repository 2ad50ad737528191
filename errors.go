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


package newsprep

import "errors"

var (
	// ErrConfigRequired is returned when NewPipeline receives a nil config.
	ErrConfigRequired = errors.New("config required")

	// ErrPipelineClosed is returned by Run after Close.
	ErrPipelineClosed = errors.New("pipeline is closed")

	// ErrLedgerFailed indicates the run could not be recorded in the ledger.
	ErrLedgerFailed = errors.New("ledger update failed")
)

// Step sentinels tag the stage a run failed in.
var (
	ErrFetchFailed        = errors.New("fetch failed")
	ErrSaveRawFailed      = errors.New("saving raw response failed")
	ErrCleanFailed        = errors.New("cleaning failed")
	ErrEmbedFailed        = errors.New("embedding failed")
	ErrWriteDatasetFailed = errors.New("writing dataset failed")
)
