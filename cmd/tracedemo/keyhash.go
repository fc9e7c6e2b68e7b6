package main

import "golang.org/x/crypto/sha3"

// hashKey is the demonstration driver's concrete implementation of the
// "stable integer hash" §1 and §3 require of Key but explicitly keep out
// of the core ("hashing trait plumbing... the core consumes it"). It
// takes the first 8 bytes of the key's SHA3-256 digest as a big-endian
// uint64; any stable hash would do,
// this one is chosen because golang.org/x/crypto/sha3 is already part of
// this codebase's dependency surface.
func hashKey(key string) uint64 {
	digest := sha3.Sum256([]byte(key))
	var h uint64
	for i := 0; i < 8; i++ {
		h = h<<8 | uint64(digest[i])
	}
	return h
}
