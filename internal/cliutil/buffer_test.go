package cliutil

import (
	"bytes"
	"testing"
)

func TestBuffer(t *testing.T) {
	var buf Buffer
	var want []byte
	var got []byte

	got = buf.CopyBuffer().Bytes()
	if !bytes.Equal(want, got) {
		t.Errorf("buf = %s; want %s", got, want)
	}

	want = []byte("hello world")
	buf.Write(want)
	got = buf.CopyBuffer().Bytes()
	if !bytes.Equal(want, got) {
		t.Errorf("buf = %s; want %s", got, want)
	}

	buf.Write(want)
	want = []byte("hello worldhello world")
	got = buf.CopyBuffer().Bytes()
	if !bytes.Equal(want, got) {
		t.Errorf("buf = %s; want %s", got, want)
	}

	buf.Reset()
	want = []byte("")
	got = buf.CopyBuffer().Bytes()
	if !bytes.Equal(want, got) {
		t.Errorf("buf = %s; want %s", got, want)
	}
}
