/*
 * Copyright (c) 2025, WSO2 LLC. (http://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

// Package utils provides shared helpers.
package utils

import (
	"cmp"
	"slices"
)

// DiffOrderedSets reconciles an existing set of labels against a desired one.
//
// existing must already be sorted in ascending order; desired may be in any order and is
// sorted on a copy. The result satisfies existing - toRemove + toAdd == desired with no
// label appearing in both lists, and changed is false when there is nothing to do.
//
// Duplicate labels are not removed. Callers must pass duplicate-free input; the result for
// input containing duplicates is unspecified.
func DiffOrderedSets[T cmp.Ordered](existing, desired []T) (toAdd, toRemove []T, changed bool) {
	sortedDesired := slices.Clone(desired)
	slices.Sort(sortedDesired)

	i, j := 0, 0
	for i < len(existing) && j < len(sortedDesired) {
		switch c := cmp.Compare(existing[i], sortedDesired[j]); {
		case c < 0:
			toRemove = append(toRemove, existing[i])
			i++
		case c > 0:
			toAdd = append(toAdd, sortedDesired[j])
			j++
		default:
			i++
			j++
		}
	}
	toRemove = append(toRemove, existing[i:]...)
	toAdd = append(toAdd, sortedDesired[j:]...)

	return toAdd, toRemove, len(toAdd) > 0 || len(toRemove) > 0
}
