package memorydb

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestJSONCodec_RoundTrip verifies structured values survive encode and
// decode unchanged.
func TestJSONCodec_RoundTrip(t *testing.T) {
	t.Parallel()

	type entry struct {
		Title string   `json:"title"`
		Tags  []string `json:"tags"`
		Score int      `json:"score"`
	}

	codec := JSONCodec[entry]{}
	original := entry{Title: "first", Tags: []string{"a", "b"}, Score: 3}

	fragment, err := codec.Encode(original)
	require.NoError(t, err)
	assert.Equal(t, `{"title":"first","tags":["a","b"],"score":3}`, string(fragment))

	decoded, err := codec.Decode(fragment)
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

// TestJSONCodec_Encode_Unencodable verifies values JSON cannot represent are
// rejected with the encode sentinel.
func TestJSONCodec_Encode_Unencodable(t *testing.T) {
	t.Parallel()

	_, err := JSONCodec[chan int]{}.Encode(make(chan int))

	require.ErrorIs(t, err, ErrEncodeFailed)
}

// TestJSONCodec_Decode_Garbage verifies non-JSON fragments are rejected with
// the decode sentinel.
func TestJSONCodec_Decode_Garbage(t *testing.T) {
	t.Parallel()

	_, err := JSONCodec[string]{}.Decode([]byte("not-json"))

	require.ErrorIs(t, err, ErrDecodeFailed)
}

// TestRawCodec_Encode_Compacts verifies indented JSON is flattened to a
// single line.
func TestRawCodec_Encode_Compacts(t *testing.T) {
	t.Parallel()

	indented := json.RawMessage("{\n  \"a\": 1,\n  \"b\": [2, 3]\n}")

	fragment, err := RawCodec{}.Encode(indented)
	require.NoError(t, err)

	assert.Equal(t, `{"a":1,"b":[2,3]}`, string(fragment))
}

// TestRawCodec_Encode_RejectsInvalidJSON verifies malformed input cannot
// reach the stored format.
func TestRawCodec_Encode_RejectsInvalidJSON(t *testing.T) {
	t.Parallel()

	_, err := RawCodec{}.Encode(json.RawMessage(`{"a":`))

	require.ErrorIs(t, err, ErrEncodeFailed)
}

// TestRawCodec_Decode_RejectsInvalidJSON verifies corrupt stored fragments
// surface as decode failures instead of leaking through.
func TestRawCodec_Decode_RejectsInvalidJSON(t *testing.T) {
	t.Parallel()

	_, err := RawCodec{}.Decode([]byte("{broken"))

	require.ErrorIs(t, err, ErrDecodeFailed)
}

// TestRawCodec_Decode_Copies verifies the decoded message does not alias the
// stored fragment.
func TestRawCodec_Decode_Copies(t *testing.T) {
	t.Parallel()

	fragment := []byte(`{"a":1}`)

	decoded, err := RawCodec{}.Decode(fragment)
	require.NoError(t, err)

	fragment[0] = 'X'

	assert.Equal(t, `{"a":1}`, string(decoded))
}
