package tzif

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// ErrInvalidMagic is returned by Decode for input that is not a TZif file.
var ErrInvalidMagic = errors.New("invalid magic")

// Reader is the input Decode works on. If the reader passed to Decode does
// not implement it, Decode wraps it in a bufio.Reader and may read beyond the
// end of the file.
type Reader interface {
	io.Reader
	io.ByteReader
}

// Decode reads a TZif file from r. For version 2+ files the 32-bit data block
// is skipped and the 64-bit block and the footer are read instead.
func Decode(r io.Reader) (*File, error) {
	br, ok := r.(Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	h, err := readHeader(br)
	if err != nil {
		return nil, fmt.Errorf("read v1 header: %w", err)
	}
	if h.Version == V1 {
		f, err := readBlock(br, h, 4)
		if err != nil {
			return nil, fmt.Errorf("read v1 data block: %w", err)
		}
		return f, nil
	}

	if _, err := io.CopyN(io.Discard, br, h.blockSize(4)); err != nil {
		return nil, fmt.Errorf("skip v1 data block: %w", unexpectedEOF(err))
	}
	h2, err := readHeader(br)
	if err != nil {
		return nil, fmt.Errorf("read v2 header: %w", err)
	}
	if h2.Version != h.Version {
		return nil, fmt.Errorf("inconsistent version: v1 header = %v, v2 header = %v", h.Version, h2.Version)
	}
	f, err := readBlock(br, h2, 8)
	if err != nil {
		return nil, fmt.Errorf("read v2 data block: %w", err)
	}
	if f.Footer, err = readFooter(br); err != nil {
		return nil, fmt.Errorf("read footer: %w", err)
	}
	return f, nil
}

func readHeader(r io.Reader) (header, error) {
	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return header{}, fmt.Errorf("reading magic: %w", err)
	}
	if magic != Magic {
		return header{}, fmt.Errorf("%w: %q", ErrInvalidMagic, magic[:])
	}
	var h header
	if err := binary.Read(r, order, &h); err != nil {
		return header{}, unexpectedEOF(err)
	}
	return h, nil
}

func readBlock(r io.Reader, h header, timeSize int) (*File, error) {
	f := &File{Version: h.Version}
	if h.Timecnt > 0 {
		f.Transitions = make([]int64, h.Timecnt)
		if timeSize == 4 {
			times := make([]int32, h.Timecnt)
			if err := binary.Read(r, order, times); err != nil {
				return nil, fmt.Errorf("reading transition times: %w", unexpectedEOF(err))
			}
			for i, t := range times {
				f.Transitions[i] = int64(t)
			}
		} else if err := binary.Read(r, order, f.Transitions); err != nil {
			return nil, fmt.Errorf("reading transition times: %w", unexpectedEOF(err))
		}
		f.TransitionTypes = make([]uint8, h.Timecnt)
		if _, err := io.ReadFull(r, f.TransitionTypes); err != nil {
			return nil, fmt.Errorf("reading transition types: %w", unexpectedEOF(err))
		}
	}
	infos := make([]ttinfo, h.Typecnt)
	if err := binary.Read(r, order, infos); err != nil {
		return nil, fmt.Errorf("reading local time type records: %w", unexpectedEOF(err))
	}
	designations := make([]byte, h.Charcnt)
	if _, err := io.ReadFull(r, designations); err != nil {
		return nil, fmt.Errorf("reading time zone designations: %w", unexpectedEOF(err))
	}
	for i, info := range infos {
		abbrev, err := designation(designations, info.Idx)
		if err != nil {
			return nil, fmt.Errorf("local time type %d: %w", i, err)
		}
		f.LocalTimeTypes = append(f.LocalTimeTypes, LocalTimeType{Offset: info.Utoff, DST: info.Dst, Abbrev: abbrev})
	}
	rest := int64(h.Leapcnt)*int64(timeSize+4) + int64(h.Isstdcnt) + int64(h.Isutcnt)
	if _, err := io.CopyN(io.Discard, r, rest); err != nil {
		return nil, fmt.Errorf("skipping leap seconds and indicators: %w", unexpectedEOF(err))
	}
	return f, nil
}

func designation(b []byte, idx uint8) (string, error) {
	if int(idx) >= len(b) {
		return "", fmt.Errorf("designation index %d out of range [0, %d)", idx, len(b))
	}
	n := bytes.IndexByte(b[idx:], 0)
	if n < 0 {
		return "", fmt.Errorf("designation at %d is not NUL-terminated", idx)
	}
	return string(b[idx : int(idx)+n]), nil
}

func readFooter(r io.ByteReader) (string, error) {
	nl, err := r.ReadByte()
	if err != nil {
		return "", fmt.Errorf("reading newline: %w", unexpectedEOF(err))
	}
	if nl != '\n' {
		return "", fmt.Errorf("expected newline, got %#x", nl)
	}
	var tz []byte
	for {
		c, err := r.ReadByte()
		if err != nil {
			return "", fmt.Errorf("reading TZ string: %w", unexpectedEOF(err))
		}
		if c == '\n' {
			return string(tz), nil
		}
		tz = append(tz, c)
	}
}

func unexpectedEOF(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}

// Encode writes f to w. Files of version 2 and later get a 32-bit data block
// holding the transitions that fit into 32 bits, followed by the 64-bit data
// block and the footer. A V1 file is written with the 32-bit block only. f
// must pass Validate.
func (f *File) Encode(w io.Writer) error {
	if err := Validate(f); err != nil {
		return fmt.Errorf("invalid tzif data: %w", err)
	}
	bw := bufio.NewWriter(w)
	designations, index := f.designations()

	lo, hi := 0, len(f.Transitions)
	for lo < hi && f.Transitions[lo] < math.MinInt32 {
		lo++
	}
	for hi > lo && f.Transitions[hi-1] > math.MaxInt32 {
		hi--
	}
	if err := f.writeBlock(bw, lo, hi, 4, designations, index); err != nil {
		return fmt.Errorf("write v1 data: %w", err)
	}
	if f.Version > V1 {
		if err := f.writeBlock(bw, 0, len(f.Transitions), 8, designations, index); err != nil {
			return fmt.Errorf("write v2 data: %w", err)
		}
		if _, err := fmt.Fprintf(bw, "\n%s\n", f.Footer); err != nil {
			return fmt.Errorf("write v2 footer: %w", err)
		}
	}
	return bw.Flush()
}

// designations returns the designation table and the index of each local time type in it.
func (f *File) designations() ([]byte, []uint8) {
	var b []byte
	seen := map[string]uint8{}
	index := make([]uint8, len(f.LocalTimeTypes))
	for i, t := range f.LocalTimeTypes {
		idx, ok := seen[t.Abbrev]
		if !ok {
			idx = uint8(len(b))
			seen[t.Abbrev] = idx
			b = append(append(b, t.Abbrev...), 0)
		}
		index[i] = idx
	}
	return b, index
}

func (f *File) writeBlock(w io.Writer, lo, hi, timeSize int, designations []byte, index []uint8) error {
	h := header{
		Version: f.Version,
		Timecnt: uint32(hi - lo),
		Typecnt: uint32(len(f.LocalTimeTypes)),
		Charcnt: uint32(len(designations)),
	}
	if _, err := w.Write(Magic[:]); err != nil {
		return err
	}
	if err := binary.Write(w, order, h); err != nil {
		return err
	}
	if timeSize == 4 {
		times := make([]int32, 0, hi-lo)
		for _, t := range f.Transitions[lo:hi] {
			times = append(times, int32(t))
		}
		if err := binary.Write(w, order, times); err != nil {
			return err
		}
	} else if err := binary.Write(w, order, f.Transitions[lo:hi]); err != nil {
		return err
	}
	if _, err := w.Write(f.TransitionTypes[lo:hi]); err != nil {
		return err
	}
	for i, t := range f.LocalTimeTypes {
		if err := binary.Write(w, order, ttinfo{Utoff: t.Offset, Dst: t.DST, Idx: index[i]}); err != nil {
			return err
		}
	}
	_, err := w.Write(designations)
	return err
}
