package reservoir_test

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/watt-toolkit/reservoir/pkg/reservoir"
)

func Example() {
	dir, err := os.MkdirTemp("", "reservoir-example")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(dir)

	settings := reservoir.DefaultSettings()
	settings.DiskPathMutable = filepath.Join(dir, "mutable")

	cache := reservoir.New(settings)
	if result := cache.Open(); result != reservoir.OpenSuccess {
		panic(result)
	}
	defer cache.Close()

	cache.Put("greeting", []byte("hello"), reservoir.Never)
	v, ok := cache.Get("greeting")
	fmt.Println(string(v), ok)
	// Output: hello true
}

func Example_protect() {
	dir, err := os.MkdirTemp("", "reservoir-example-protect")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(dir)

	settings := reservoir.DefaultSettings()
	settings.DiskPathMutable = filepath.Join(dir, "mutable")
	settings.MaxDiskStorage = 64

	cache := reservoir.New(settings)
	cache.Open()
	defer cache.Close()

	cache.Put("config/theme", []byte("dark"), reservoir.Never)
	cache.Protect("config/")

	fmt.Println(cache.Remove("config/theme"))
	// Output: false
}
