/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

// Package strictlru provides a bounded in-memory key-value cache with strict
// LRU eviction and Prometheus metrics. The cache is single-threaded by
// contract; callers that share an instance between goroutines must serialize
// access themselves.
package strictlru
