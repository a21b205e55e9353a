package universe

import (
	"testing"
)

const (
	benchWidth  = 200
	benchHeight = 200
)

func newBenchUniverse(b *testing.B) *Universe {
	u, err := New(benchWidth, benchHeight)
	if err != nil {
		b.Fatal(err)
	}
	return u
}

func Benchmark_Tick(b *testing.B) {
	for _, e := range EngineNames() {
		b.Run(e, func(b *testing.B) {
			u := newBenchUniverse(b)
			engine := Engines[e]
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				engine(u)
			}
		})
	}
}

func Benchmark_Random(b *testing.B) {
	u := newBenchUniverse(b)
	r := NewRandSource(1)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		u.RandGen(r)
		u.Tick()
	}
}

func Benchmark_Render(b *testing.B) {
	u := newBenchUniverse(b)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = u.Render()
	}
}
