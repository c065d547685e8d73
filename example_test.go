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

package hypermap_test

import (
	"fmt"

	"buf.build/go/hypermap"
	"buf.build/go/hypermap/internal/examples"
)

func Example() {
	data := examples.ReadWeatherData() // Read some named vectors.

	// Build a map from station to temperature. The kinds of the vectors
	// select the map's key and value types.
	temps := data.Maps["temperature"]
	m, err := hypermap.New(temps.Keys, temps.Values)
	if err != nil {
		panic(err)
	}
	fmt.Println(m)

	// Look up a batch of keys. Absent keys come back as NA.
	found, err := m.Find(hypermap.Strings{"KHB60", "KXX00"})
	if err != nil {
		panic(err)
	}
	fmt.Println(found.Len(), found.IsNA(0), found.IsNA(1))

	// Insert, then check presence of a batch of keys.
	if err := m.Insert(hypermap.Strings{"KWX99"}, hypermap.Doubles{9.5}); err != nil {
		panic(err)
	}
	present, err := m.HasKeys(hypermap.Strings{"KWX99", "KXX00"})
	if err != nil {
		panic(err)
	}
	fmt.Println(m.Len(), present)

	// Output:
	// <hypermap character → numeric [2]>
	// 2 false true
	// 3 [true false]
}

func Example_join() {
	data := examples.ReadWeatherData()
	build := func(name string) *hypermap.Map {
		entry := data.Maps[name]
		m, err := hypermap.New(entry.Keys, entry.Values)
		if err != nil {
			panic(err)
		}
		return m
	}
	temps, conditions := build("temperature"), build("conditions")

	// Only KAD93 has both a temperature and conditions.
	inner, err := temps.InnerJoin(conditions)
	if err != nil {
		panic(err)
	}
	fmt.Println(inner.Names)
	fmt.Println(inner.Cells(0))

	// A full join has a row for each station in either map.
	full, err := temps.FullJoin(conditions)
	if err != nil {
		panic(err)
	}
	fmt.Println(full.Rows())

	// Output:
	// [Keys Values.x Values.y]
	// [KAD93 11.3 sunny]
	// 3
}
