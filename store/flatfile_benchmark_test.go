package store

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

// newBenchmarkFlatFile creates a flat-file engine in a temp root with a
// small retention cap so rotation cost stays realistic but bounded.
func newBenchmarkFlatFile(b *testing.B) *FlatFile {
	b.Helper()

	engine, err := NewFlatFile(b.TempDir(), "", 3)
	require.NoError(b, err, "NewFlatFile() must succeed for benchmark root")

	return engine
}

// benchmarkRecords builds a record set of totalRecords entries with
// short JSON fragments.
func benchmarkRecords(totalRecords int) map[string][]byte {
	records := make(map[string][]byte, totalRecords)
	for index := 0; index < totalRecords; index++ {
		records[fmt.Sprintf("key-%d", index)] = []byte(fmt.Sprintf(`"value-%d"`, index))
	}

	return records
}

// BenchmarkFlatFile_Save: full save cost including backup capture and
// retention on every iteration.
func BenchmarkFlatFile_Save(b *testing.B) {
	b.ReportAllocs()

	engine := newBenchmarkFlatFile(b)
	records := benchmarkRecords(100)

	b.ResetTimer()

	for b.Loop() {
		_ = engine.Save(records)
	}
}

// BenchmarkFlatFile_Load: parse throughput on a warm 100-record store.
func BenchmarkFlatFile_Load(b *testing.B) {
	b.ReportAllocs()

	engine := newBenchmarkFlatFile(b)
	require.NoError(b, engine.Save(benchmarkRecords(100)))

	b.ResetTimer()

	for b.Loop() {
		_, _ = engine.Load()
	}
}
