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


package cleaning

import "errors"

var (
	// ErrInsufficientText indicates an article lacks enough text to be useful.
	ErrInsufficientText = errors.New("cleaning: insufficient text")

	// ErrTooShort indicates cleaned body text fell below the minimum length.
	ErrTooShort = errors.New("cleaning: body text below minimum length")

	// ErrInvalidOptions indicates the cleaning options are inconsistent.
	ErrInvalidOptions = errors.New("cleaning: invalid options")
)
