package redis

import (
	"fmt"
)

// Key prefix for all minesboomer data
const keyPrefix = "mboom"

// resultKey returns the Redis key for a GameResult
func resultKey(id string) string {
	return fmt.Sprintf("%s:result:%s", keyPrefix, id)
}

// resultsIndexKey returns the Redis key for the ZSET of result ids scored by finish time
func resultsIndexKey() string {
	return fmt.Sprintf("%s:idx:results", keyPrefix)
}
