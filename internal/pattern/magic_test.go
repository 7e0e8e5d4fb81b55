package pattern

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodePlainPatterns(t *testing.T) {
	plain := []string{"", "abc", "*.txt", "a/b", "/", "foo.bar", "[abc", "GG/x/", "abc/"}

	for _, raw := range plain {
		t.Run(raw, func(t *testing.T) {
			dec, err := Decode(raw)
			require.NoError(t, err)
			assert.Equal(t, raw, dec.Body)
			assert.Empty(t, dec.Overrides)
		})
	}
}

func TestDecodeSelfPairingDelimiters(t *testing.T) {
	for _, d := range []string{"/", "!", "@", "#", "%", "|", "?", "+"} {
		t.Run(d, func(t *testing.T) {
			dec, err := Decode(d + "asd" + d)
			require.NoError(t, err)
			assert.Equal(t, "asd", dec.Body)
			assert.Empty(t, dec.Overrides)
		})
	}
}

func TestDecodeBracketDelimiters(t *testing.T) {
	pairs := map[string]string{"{": "}", "[": "]", "(": ")", "<": ">"}
	closers := []string{"}", "]", ")", ">", "{", "[", "(", "<", "/", "!"}

	for open, want := range pairs {
		for _, closing := range closers {
			raw := open + "asd" + closing
			dec, err := Decode(raw)
			if closing == want {
				require.NoError(t, err, raw)
				assert.Equal(t, "asd", dec.Body)
				continue
			}

			require.Error(t, err, raw)
			assert.True(t, errors.Is(err, ErrInvalidPattern))
			assert.Contains(t, err.Error(), "Inappropriate delimiters: "+open+" "+closing)
		}
	}
}

func TestDecodeMismatchedSelfPairingDelimiters(t *testing.T) {
	_, err := Decode("/asd!")
	require.Error(t, err)
	assert.Equal(t, "Inappropriate delimiters: / !", err.Error())
}

func TestDecodeEmptyBody(t *testing.T) {
	dec, err := Decode("//")
	require.NoError(t, err)
	assert.Equal(t, "", dec.Body)
	assert.Empty(t, dec.Overrides)
}

func TestDecodeModifiers(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want map[Option]bool
	}{
		{name: "ignorecase", raw: "/a/i", want: map[Option]bool{OptIgnoreCase: true}},
		{name: "multiline", raw: "/a/m", want: map[Option]bool{OptMultiline: true}},
		{name: "dotall", raw: "/a/s", want: map[Option]bool{OptDotAll: true}},
		{name: "reserved v", raw: "/a/v", want: map[Option]bool{}},
		{name: "invert", raw: "/a/r", want: map[Option]bool{OptInvertMatch: true}},
		{name: "path search", raw: "/a/q", want: map[Option]bool{OptPathSearch: true}},
		{name: "all", raw: "/a/imsvrq", want: map[Option]bool{
			OptIgnoreCase: true, OptMultiline: true, OptDotAll: true, OptInvertMatch: true, OptPathSearch: true,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dec, err := Decode(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, "a", dec.Body)
			assert.Equal(t, tt.want, dec.Overrides)
		})
	}
}

func TestDecodeRepeatedModifiers(t *testing.T) {
	for _, mods := range []string{"ii", "imi", "rvqr", "sms", "vv", "xx", "qiq"} {
		t.Run(mods, func(t *testing.T) {
			_, err := Decode("/asd/" + mods)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "Incorrect modifiers")
		})
	}
}

func TestDecodeUnknownModifier(t *testing.T) {
	_, err := Decode("/asd/ix")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unknown modifier in pattern: x")
}

func TestDecodeModes(t *testing.T) {
	tests := []struct {
		raw     string
		want    map[Option]bool
		wantErr string
	}{
		{raw: "p/asd/", want: map[Option]bool{}},
		{raw: "g/asd/", want: map[Option]bool{OptRegex: true}},
		{raw: "f/asd/", want: map[Option]bool{OptFuzzy: true}},
		{raw: "g/asd/i", want: map[Option]bool{OptRegex: true, OptIgnoreCase: true}},
		{raw: "gf/asd/", wantErr: "Incorrect mode: gf"},
		{raw: "x/asd/", wantErr: "Unknown mode in pattern: x"},
		{raw: "1/asd/", wantErr: "Unknown mode in pattern: 1"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			dec, err := Decode(tt.raw)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "asd", dec.Body)
			assert.Equal(t, tt.want, dec.Overrides)
		})
	}
}

func TestDecodeGreedyBody(t *testing.T) {
	dec, err := Decode("/a/b/i")
	require.NoError(t, err)
	assert.Equal(t, "a/b", dec.Body)
	assert.Equal(t, map[Option]bool{OptIgnoreCase: true}, dec.Overrides)
}

func TestDecodedApply(t *testing.T) {
	dec := Decoded{Body: "x", Overrides: map[Option]bool{OptFuzzy: true, OptPathSearch: true}}

	mode, flags := dec.apply(ModeRegex, Flags{IgnoreCase: true})
	assert.Equal(t, ModeFuzzy, mode)
	assert.True(t, flags.IgnoreCase, "caller default kept")
	assert.True(t, flags.PathSearch)
	assert.False(t, flags.InvertMatch)
}
