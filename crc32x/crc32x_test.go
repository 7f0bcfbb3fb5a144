package crc32x_test

import (
	"testing"

	"github.com/blin/nuc1261-fwreloc/crc32x"
)

func TestSumKnownVectors(t *testing.T) {
	cases := []struct {
		name string
		data []byte
		want uint32
	}{
		{"empty", []byte{}, 0x00000000},
		{"aligned four bytes", []byte{0x01, 0x02, 0x03, 0x04}, 0xb63cfbcd},
		{"unaligned three bytes", []byte{0x01, 0x02, 0x03}, 0x9c53d059},
		{"ascii string", []byte("hello world!"), 0x03b4c26d},
		{"all ones", []byte{0xFF, 0xFF, 0xFF, 0xFF}, 0xFFFFFFFF},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := crc32x.Sum(c.data)
			if got != c.want {
				t.Errorf("Sum(%x) = %#x, want %#x", c.data, got, c.want)
			}
		})
	}
}

func TestSumNoReflection(t *testing.T) {
	e := crc32x.Engine{ReflectInput: false, ReflectOutput: false}

	cases := []struct {
		data []byte
		want uint32
	}{
		{[]byte{0x01, 0x02, 0x03, 0x04}, 0x86c8c832},
		{[]byte{0x01, 0x02, 0x03}, 0x243bfe5a},
	}
	for _, c := range cases {
		if got := e.Sum(c.data); got != c.want {
			t.Errorf("Sum(%x) = %#x, want %#x", c.data, got, c.want)
		}
	}
}

func TestSumIsDeterministic(t *testing.T) {
	data := []byte("firmware image contents, arbitrary length")
	first := crc32x.Sum(data)
	second := crc32x.Sum(data)
	if first != second {
		t.Errorf("Sum is not deterministic: %#x != %#x", first, second)
	}
}

// TestPaddingOnlyAppliedToUnalignedTail verifies the unaligned three-byte
// case computes exactly as if the caller had manually appended a single
// 0xFF pad byte — the engine never pads an already word-aligned input.
func TestPaddingOnlyAppliedToUnalignedTail(t *testing.T) {
	unaligned := []byte{0x01, 0x02, 0x03}
	manuallyPadded := []byte{0x01, 0x02, 0x03, 0xFF}

	if crc32x.Sum(unaligned) != crc32x.Sum(manuallyPadded) {
		t.Errorf("Sum(%x) should equal Sum(%x) once internally padded", unaligned, manuallyPadded)
	}

	// A manually pre-padded, already aligned input must not be padded again.
	already4 := []byte{0x01, 0x02, 0x03, 0x04}
	if crc32x.Sum(already4) == crc32x.Sum(append(append([]byte{}, already4...), 0xFF)) {
		t.Errorf("a four-byte input should not produce the same checksum as its five-byte, further-padded extension")
	}
}
