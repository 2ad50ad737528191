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


// Package newsprep turns the latest news articles into a machine learning
// dataset.
//
// A Pipeline fetches articles from NewsData.io, stores the response exactly
// as received, cleans and deduplicates the text, derives per-article
// features, embeds each body and writes the result as parquet, csv or jsonl.
// Every invocation is recorded in a run ledger.
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	pipeline, err := newsprep.NewPipeline(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer pipeline.Close()
//
//	result, err := pipeline.Run(ctx)
//
// Stages run one after another on the calling goroutine. The first failing
// stage ends the run; the returned error wraps a step sentinel such as
// ErrFetchFailed.
package newsprep
