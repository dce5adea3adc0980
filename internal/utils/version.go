package utils

import (
	"sort"

	goversion "github.com/hashicorp/go-version"
)

/**
 *	Rule used to pick the latest entry of a version-keyed mapping
 */
type LatestStrategy string

const (
	// LatestByKey sorts keys ascending byte-wise and takes the last one ("9.0" beats "10.0")
	LatestByKey LatestStrategy = "key"
	// LatestBySemver takes the highest semantic version, unparseable keys rank lowest
	LatestBySemver LatestStrategy = "semver"
)

/**
 * Pick the latest key from a set of version keys
 * @param {[]string} keys - Version keys, order is irrelevant
 * @param {LatestStrategy} strategy - Ordering rule, unknown values fall back to LatestByKey
 * @returns {string} Latest key
 * @returns {bool} False when keys is empty
 * @example
 * LatestVersionKey([]string{"10.0", "9.0"}, LatestByKey)    // "9.0", true
 * LatestVersionKey([]string{"10.0", "9.0"}, LatestBySemver) // "10.0", true
 */
func LatestVersionKey(keys []string, strategy LatestStrategy) (string, bool) {
	if len(keys) == 0 {
		return "", false
	}
	sorted := append([]string(nil), keys...)
	if strategy == LatestBySemver {
		sort.SliceStable(sorted, func(i, j int) bool {
			return CompareVersion(sorted[i], sorted[j]) < 0
		})
	} else {
		sort.Strings(sorted)
	}
	return sorted[len(sorted)-1], true
}

/**
 * Compare two version strings semantically
 * @returns {int} -1, 0 or 1
 * @description
 * - Parseable versions outrank unparseable ones ("dev-master" < "0.0.1")
 * - Two unparseable versions, or two equal versions, compare byte-wise
 */
func CompareVersion(a, b string) int {
	va, errA := goversion.NewVersion(a)
	vb, errB := goversion.NewVersion(b)
	switch {
	case errA != nil && errB != nil:
		return compareStrings(a, b)
	case errA != nil:
		return -1
	case errB != nil:
		return 1
	}
	if c := va.Compare(vb); c != 0 {
		return c
	}
	return compareStrings(a, b)
}

func compareStrings(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
