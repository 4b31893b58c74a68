package benchmarks

import (
	"testing"

	"github.com/randalmurphal/deferred/pkg/deferred"
	"github.com/randalmurphal/deferred/pkg/deferred/ref"
)

// node is the payload for benchmarks.
type node struct {
	Value int
}

// BenchmarkSlotTrySet measures the single successful write.
func BenchmarkSlotTrySet(b *testing.B) {
	target := ref.New(node{Value: 1})
	defer target.Release()
	w := target.Weak()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s := deferred.New[node]()
		_ = s.TrySet(w)
	}
}

// BenchmarkSlotTrySet_Duplicate measures the rejected second write.
func BenchmarkSlotTrySet_Duplicate(b *testing.B) {
	target := ref.New(node{Value: 1})
	defer target.Release()
	s := deferred.New[node]()
	if err := s.TrySet(target.Weak()); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = s.TrySet(target.Weak())
	}
}

// BenchmarkSlotGet measures the upgrade path on a live target.
func BenchmarkSlotGet(b *testing.B) {
	target := ref.New(node{Value: 1})
	defer target.Release()
	s := deferred.New[node]()
	if err := s.TrySet(target.Weak()); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		strong, err := s.Get()
		if err != nil {
			b.Fatal(err)
		}
		strong.Release()
	}
}

// BenchmarkSlotIsReady measures the pure state check.
func BenchmarkSlotIsReady(b *testing.B) {
	target := ref.New(node{Value: 1})
	defer target.Release()
	s := deferred.New[node]()
	if err := s.TrySet(target.Weak()); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = s.IsReady()
	}
}

// BenchmarkLive_100 measures a bulk walk over 100 fully linked slots.
func BenchmarkLive_100(b *testing.B) {
	target := ref.New(node{Value: 1})
	defer target.Release()

	slots := make([]*deferred.Slot[node], 100)
	for i := range slots {
		slots[i] = deferred.New[node]()
		if err := slots[i].TrySet(target.Weak()); err != nil {
			b.Fatal(err)
		}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for strong := range deferred.Live(deferred.Slots(slots...)) {
			strong.Release()
		}
	}
}
