package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// IdentityKey returns the cache key for the identity resolved from a token digest.
// Raw tokens never appear in key names.
func (r *CacheKeyStruct) IdentityKey(tokenDigest string) string {
	return fmt.Sprintf("identity:%s", tokenDigest)
}

// LoginAttemptsKey returns the counter key for login attempts from one client.
func (r *CacheKeyStruct) LoginAttemptsKey(clientIP string) string {
	return fmt.Sprintf("ratelimit:login:%s", clientIP)
}

var CacheKey = NewCacheKeyStruct()
