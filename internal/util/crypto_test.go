package util

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestSealOpen(t *testing.T) {
	s := NewSealer("test-encryption-key")
	owner := []byte("42")

	testCases := []string{
		"Hello World",
		"₹ 20,000 rent",
		"",
		"Special!@#$%^&*()",
		strings.Repeat("A", 1000),
	}

	for _, plaintext := range testCases {
		sealed, err := s.Seal([]byte(plaintext), owner)
		if err != nil {
			t.Fatalf("seal %q: %v", plaintext, err)
		}
		if !bytes.HasPrefix(sealed, []byte("PFTB\x01")) {
			t.Fatalf("missing header: %x", sealed[:5])
		}

		opened, err := s.Open(sealed, owner)
		if err != nil {
			t.Fatalf("open %q: %v", plaintext, err)
		}
		if string(opened) != plaintext {
			t.Errorf("round trip mismatch\nwant: %s\ngot:  %s", plaintext, string(opened))
		}
	}
}

func TestSeal_FreshNonce(t *testing.T) {
	s := NewSealer("key")
	a, _ := s.Seal([]byte("Secret Data"), nil)
	b, _ := s.Seal([]byte("Secret Data"), nil)

	if bytes.Equal(a, b) {
		t.Error("two seals of the same data should differ")
	}
}

func TestOpen_Rejects(t *testing.T) {
	s := NewSealer("correct-key")
	sealed, _ := s.Seal([]byte("Data"), []byte("1"))

	tampered := bytes.Clone(sealed)
	tampered[len(tampered)-1] ^= 0xff
	wrongVersion := bytes.Clone(sealed)
	wrongVersion[4] = 9

	cases := []struct {
		name   string
		sealer *Sealer
		data   []byte
		owner  string
		want   error
	}{
		{"wrong key", NewSealer("wrong-key"), sealed, "1", ErrOpenFailed},
		{"other owner", s, sealed, "2", ErrOpenFailed},
		{"tampered", s, tampered, "1", ErrOpenFailed},
		{"wrong version", s, wrongVersion, "1", ErrNotSealed},
		{"short", s, []byte{1, 2, 3}, "1", ErrNotSealed},
		{"empty", s, nil, "1", ErrNotSealed},
		{"plain json", s, []byte(`{"user_id":1,"budgets":[],"transactions":[]}`), "1", ErrNotSealed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := tc.sealer.Open(tc.data, []byte(tc.owner)); !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
		})
	}
}

func BenchmarkSeal(b *testing.B) {
	s := NewSealer("bench-key")
	data := []byte("Benchmark data")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = s.Seal(data, nil)
	}
}
