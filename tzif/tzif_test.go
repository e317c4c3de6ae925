package tzif

import (
	"bytes"
	"errors"
	"io"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// honolulu is example B.2 of RFC 8536, Pacific/Honolulu as a version 2 file.
var honolulu = []byte{
	// v1 header
	0x54, 0x5a, 0x69, 0x66, // magic
	0x32, // version
	0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x06, // isutcnt
	0x00, 0x00, 0x00, 0x06, // isstdcnt
	0x00, 0x00, 0x00, 0x00, // leapcnt
	0x00, 0x00, 0x00, 0x07, // timecnt
	0x00, 0x00, 0x00, 0x06, // typecnt
	0x00, 0x00, 0x00, 0x14, // charcnt
	// v1 block
	0x80, 0x00, 0x00, 0x00, // trans time[0]
	0xbb, 0x05, 0x43, 0x48, // trans time[1]
	0xbb, 0x21, 0x71, 0x58, // trans time[2]
	0xcb, 0x89, 0x3d, 0xc8, // trans time[3]
	0xd2, 0x23, 0xf4, 0x70, // trans time[4]
	0xd2, 0x61, 0x49, 0x38, // trans time[5]
	0xd5, 0x8d, 0x73, 0x48, // trans time[6]
	0x01, 0x02, 0x01, 0x03, 0x04, 0x01, 0x05, // trans types
	0xff, 0xff, 0x6c, 0x02, 0x00, 0x00, // localtimetype[0]
	0xff, 0xff, 0x6c, 0x58, 0x00, 0x04, // localtimetype[1]
	0xff, 0xff, 0x7a, 0x68, 0x01, 0x08, // localtimetype[2]
	0xff, 0xff, 0x7a, 0x68, 0x01, 0x0c, // localtimetype[3]
	0xff, 0xff, 0x7a, 0x68, 0x01, 0x10, // localtimetype[4]
	0xff, 0xff, 0x73, 0x60, 0x00, 0x04, // localtimetype[5]
	0x4c, 0x4d, 0x54, 0x00, // designations[0]
	0x48, 0x53, 0x54, 0x00, // designations[4]
	0x48, 0x44, 0x54, 0x00, // designations[8]
	0x48, 0x57, 0x54, 0x00, // designations[12]
	0x48, 0x50, 0x54, 0x00, // designations[16]
	0x00, 0x00, 0x00, 0x00, 0x01, 0x00, // UT/local
	0x00, 0x00, 0x00, 0x00, 0x01, 0x00, // standard/wall
	// v2 header
	0x54, 0x5a, 0x69, 0x66, // magic
	0x32, // version
	0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x06, // isutcnt
	0x00, 0x00, 0x00, 0x06, // isstdcnt
	0x00, 0x00, 0x00, 0x00, // leapcnt
	0x00, 0x00, 0x00, 0x07, // timecnt
	0x00, 0x00, 0x00, 0x06, // typecnt
	0x00, 0x00, 0x00, 0x14, // charcnt
	// v2 block
	0xff, 0xff, 0xff, 0xff, 0x74, 0xe0, 0x70, 0xbe, // trans time[0]
	0xff, 0xff, 0xff, 0xff, 0xbb, 0x05, 0x43, 0x48, // trans time[1]
	0xff, 0xff, 0xff, 0xff, 0xbb, 0x21, 0x71, 0x58, // trans time[2]
	0xff, 0xff, 0xff, 0xff, 0xcb, 0x89, 0x3d, 0xc8, // trans time[3]
	0xff, 0xff, 0xff, 0xff, 0xd2, 0x23, 0xf4, 0x70, // trans time[4]
	0xff, 0xff, 0xff, 0xff, 0xd2, 0x61, 0x49, 0x38, // trans time[5]
	0xff, 0xff, 0xff, 0xff, 0xd5, 0x8d, 0x73, 0x48, // trans time[6]
	0x01, 0x02, 0x01, 0x03, 0x04, 0x01, 0x05, // trans types
	0xff, 0xff, 0x6c, 0x02, 0x00, 0x00, // localtimetype[0]
	0xff, 0xff, 0x6c, 0x58, 0x00, 0x04, // localtimetype[1]
	0xff, 0xff, 0x7a, 0x68, 0x01, 0x08, // localtimetype[2]
	0xff, 0xff, 0x7a, 0x68, 0x01, 0x0c, // localtimetype[3]
	0xff, 0xff, 0x7a, 0x68, 0x01, 0x10, // localtimetype[4]
	0xff, 0xff, 0x73, 0x60, 0x00, 0x04, // localtimetype[5]
	0x4c, 0x4d, 0x54, 0x00, // designations[0]
	0x48, 0x53, 0x54, 0x00, // designations[4]
	0x48, 0x44, 0x54, 0x00, // designations[8]
	0x48, 0x57, 0x54, 0x00, // designations[12]
	0x48, 0x50, 0x54, 0x00, // designations[16]
	0x00, 0x00, 0x00, 0x00, 0x01, 0x00, // UT/local
	0x00, 0x00, 0x00, 0x00, 0x01, 0x00, // standard/wall
	// v2 footer
	0x0a,
	0x48, 0x53, 0x54, 0x31, 0x30, // "HST10"
	0x0a,
}

var honoluluFile = &File{
	Version: V2,
	Transitions: []int64{
		-2334101314,
		-1157283000,
		-1155436200,
		-880198200,
		-769395600,
		-765376200,
		-712150200,
	},
	TransitionTypes: []uint8{1, 2, 1, 3, 4, 1, 5},
	LocalTimeTypes: []LocalTimeType{
		{Offset: -37886, Abbrev: "LMT"},
		{Offset: -37800, Abbrev: "HST"},
		{Offset: -34200, DST: true, Abbrev: "HDT"},
		{Offset: -34200, DST: true, Abbrev: "HWT"},
		{Offset: -34200, DST: true, Abbrev: "HPT"},
		{Offset: -36000, Abbrev: "HST"},
	},
	Footer: "HST10",
}

func TestDecode(t *testing.T) {
	got, err := Decode(bytes.NewReader(honolulu))
	if err != nil {
		t.Fatalf("Decode() failed: %v", err)
	}
	if diff := cmp.Diff(honoluluFile, got); diff != "" {
		t.Errorf("Decode() mismatch (-want +got):\n%s", diff)
	}
}

func TestEncode_RoundTrip(t *testing.T) {
	files := map[string]*File{
		"honolulu": honoluluFile,
		"v1": {
			Version:         V1,
			Transitions:     []int64{-100, 0, 100},
			TransitionTypes: []uint8{1, 0, 1},
			LocalTimeTypes:  []LocalTimeType{{Offset: 3600, Abbrev: "A"}, {Offset: 7200, DST: true, Abbrev: "B"}},
		},
		"beyond 32 bits": {
			Version:         V3,
			Transitions:     []int64{math.MinInt32 - 1, 0, math.MaxInt32 + 1},
			TransitionTypes: []uint8{0, 1, 0},
			LocalTimeTypes:  []LocalTimeType{{Offset: 0, Abbrev: "UTC"}, {Offset: -3600, Abbrev: ""}},
			Footer:          "<-01>1",
		},
		"no transitions": {
			Version:        V2,
			LocalTimeTypes: []LocalTimeType{{Offset: 0, Abbrev: "UTC"}},
			Footer:         "UTC0",
		},
	}
	for name, f := range files {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := f.Encode(&buf); err != nil {
				t.Fatalf("Encode() failed: %v", err)
			}
			got, err := Decode(&buf)
			if err != nil {
				t.Fatalf("Decode() failed: %v", err)
			}
			if diff := cmp.Diff(f, got); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEncode_SharesDesignations(t *testing.T) {
	var buf bytes.Buffer
	if err := honoluluFile.Encode(&buf); err != nil {
		t.Fatalf("Encode() failed: %v", err)
	}
	// The 44-byte header is followed by the 32-bit block. Its charcnt is the
	// last header field; "HST" is stored once, so 5 designations take 20 bytes.
	charcnt := buf.Bytes()[40:44]
	if diff := cmp.Diff([]byte{0, 0, 0, 20}, charcnt); diff != "" {
		t.Errorf("charcnt mismatch (-want +got):\n%s", diff)
	}
}

func TestDecode_Errors(t *testing.T) {
	truncated := honolulu[:len(honolulu)-3]
	for name, c := range map[string]struct {
		input []byte
		want  error
	}{
		"empty":       {nil, io.EOF},
		"bad magic":   {[]byte("TZig" + strings.Repeat("\x00", 40)), ErrInvalidMagic},
		"short":       {honolulu[:30], io.ErrUnexpectedEOF},
		"no footer":   {truncated, io.ErrUnexpectedEOF},
		"no v2 block": {honolulu[:44+103+44+20], io.ErrUnexpectedEOF},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(bytes.NewReader(c.input))
			if !errors.Is(err, c.want) {
				t.Errorf("Decode() error = %v, want %v", err, c.want)
			}
		})
	}
}

func TestDecode_StopsAfterFooter(t *testing.T) {
	r := bytes.NewReader(append(bytes.Clone(honolulu), "trailer"...))
	if _, err := Decode(r); err != nil {
		t.Fatalf("Decode() failed: %v", err)
	}
	if r.Len() != len("trailer") {
		t.Errorf("%d bytes left after Decode(), want %d", r.Len(), len("trailer"))
	}

	// Without io.ByteReader the input is buffered.
	got, err := Decode(io.MultiReader(bytes.NewReader(honolulu)))
	if err != nil {
		t.Fatalf("Decode() failed: %v", err)
	}
	if diff := cmp.Diff(honoluluFile, got); diff != "" {
		t.Errorf("Decode() mismatch (-want +got):\n%s", diff)
	}
}

func TestDecode_InconsistentVersion(t *testing.T) {
	b := bytes.Clone(honolulu)
	b[44+103+4] = '3'
	if _, err := Decode(bytes.NewReader(b)); err == nil || !strings.Contains(err.Error(), "inconsistent version") {
		t.Errorf("Decode() error = %v, want inconsistent version", err)
	}
}

func TestValidate(t *testing.T) {
	f := &File{
		Version:         V1,
		Transitions:     []int64{10, 10, math.MaxInt32 + 1},
		TransitionTypes: []uint8{0, 3},
		LocalTimeTypes:  []LocalTimeType{{Offset: math.MinInt32, Abbrev: "A\x00B"}},
		Footer:          "X\n",
	}
	err := Validate(f)
	if err == nil {
		t.Fatal("Validate() succeeded, want errors")
	}
	var errs interface{ Unwrap() []error }
	if !errors.As(err, &errs) {
		t.Fatalf("Validate() error %v does not join errors", err)
	}
	// times/types count, order, type index, 32-bit range, utoff, NUL, v1 footer, footer newline
	if got := len(errs.Unwrap()); got != 8 {
		t.Errorf("Validate() reported %d errors, want 8:\n%v", got, err)
	}

	if err := Validate(honoluluFile); err != nil {
		t.Errorf("Validate(honolulu) = %v", err)
	}
}

func TestFile_TypeAt(t *testing.T) {
	for _, c := range []struct {
		sec  int64
		want string
	}{
		{-3_000_000_000, "LMT"},
		{-2334101314, "HST"},
		{-1157283000, "HDT"},
		{0, "HST"},
	} {
		if got := honoluluFile.TypeAt(c.sec).Abbrev; got != c.want {
			t.Errorf("TypeAt(%d) = %s, want %s", c.sec, got, c.want)
		}
	}
}

func TestVersion_String(t *testing.T) {
	if diff := cmp.Diff("V2 (0x32)", V2.String()); diff != "" {
		t.Errorf("String() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff("<undefined version (7)>", Version(7).String()); diff != "" {
		t.Errorf("String() mismatch (-want +got):\n%s", diff)
	}
}
