package lock

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRedisLockerKeyHasSingleSeparator(t *testing.T) {
	for _, prefix := range []string{"mentor:lock", "mentor:lock:"} {
		l := NewRedisLocker(nil, prefix)
		assert.Equal(t, "mentor:lock:availability:c-1", l.key("availability:c-1"), "prefix %q", prefix)
	}
	assert.Equal(t, "lock:x", NewRedisLocker(nil, "").key("x"))
}
