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


package newsdata

import "errors"

var (
	// ErrMissingAPIKey is returned when a client is created without an API key.
	ErrMissingAPIKey = errors.New("newsdata: api key is required")

	// ErrRequestFailed indicates a transport failure or a non-2xx HTTP status.
	ErrRequestFailed = errors.New("newsdata: request failed")

	// ErrAPIError indicates the API answered with status "error" in the body.
	ErrAPIError = errors.New("newsdata: api returned an error")

	// ErrMalformedResponse indicates the response body was not valid JSON.
	ErrMalformedResponse = errors.New("newsdata: malformed response")
)
