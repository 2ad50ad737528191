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


package storage

import (
	"fmt"

	"github.com/poiesic/newsprep/core"
)

// MarshalRun serializes a run ledger entry.
func MarshalRun(run *core.Run) []byte {
	buf := make([]byte, core.RunMUS.Size(*run))
	core.RunMUS.Marshal(*run, buf)
	return buf
}

// UnmarshalRun deserializes a run ledger entry.
func UnmarshalRun(data []byte) (*core.Run, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, ErrTruncatedData)
	}
	run, _, err := core.RunMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &run, nil
}
