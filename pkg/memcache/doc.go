// Package memcache holds the front-tier memory cache in isolation from the
// on-disk tiers so it can be unit tested, benchmarked, and reused on its own.
package memcache
