package redis

import (
	"fmt"
	"strings"
)

// CleanupKeys deletes keys in a single DEL. Missing keys are ignored.
func (rc *RedisClient) CleanupKeys(keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := rc.client.Del(rc.ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to cleanup Redis keys %s: %v", strings.Join(keys, ", "), err)
	}
	return nil
}
