package reservoir

import (
	"fmt"
	"testing"
)

func BenchmarkDiskLRU_Upsert(b *testing.B) {
	d := newDiskLRU()

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		d.Upsert(fmt.Sprintf("key%d", i%10000), 10, neverExpiry)
	}
}

func BenchmarkDiskLRU_Touch(b *testing.B) {
	d := newDiskLRU()
	for i := 0; i < 1000; i++ {
		d.Upsert(fmt.Sprintf("key%d", i), 10, neverExpiry)
	}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		d.Touch(fmt.Sprintf("key%d", i%1000))
	}
}

func BenchmarkDiskLRU_LRUOrder(b *testing.B) {
	d := newDiskLRU()
	for i := 0; i < 1000; i++ {
		d.Upsert(fmt.Sprintf("key%d", i), 10, neverExpiry)
	}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		d.lruOrder()
	}
}
