// Copyright 2020-2025 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package examples holds data for the examples in ./example_test.go.
package examples

import (
	"bytes"
	_ "embed"

	"buf.build/go/hypermap/internal/dataset"
)

//go:embed weather.yaml
var weather []byte

// ReadWeatherData decodes a small dataset of weather station readings. It
// has maps named temperature, conditions and frequency, all keyed by
// station.
func ReadWeatherData() *dataset.File {
	file, err := dataset.Decode(bytes.NewReader(weather))
	if err != nil {
		panic(err)
	}
	return file
}
