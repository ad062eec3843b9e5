package memcache_test

import (
	"fmt"

	"github.com/watt-toolkit/reservoir/pkg/memcache"
)

func Example() {
	c := memcache.New[[]byte](1024, memcache.ByteCost)
	c.Put("user:1", []byte("alice"), memcache.Never)

	v, ok := c.Get("user:1")
	fmt.Println(string(v), ok)
	// Output: alice true
}
