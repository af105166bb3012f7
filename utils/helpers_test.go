package utils_test

import (
	"testing"

	"github.com/pixelforge/imagegraph/utils"
)

func TestCloneBytes_IsIndependentCopy(t *testing.T) {
	orig := []byte{1, 2, 3}
	clone := utils.CloneBytes(orig)
	clone[0] = 99
	if orig[0] == 99 {
		t.Error("mutating the clone affected the original")
	}
}

func TestBytesReader_ReadsBackTheSource(t *testing.T) {
	r := utils.BytesReader([]byte("abc"))
	buf := make([]byte, 3)
	n, err := r.Read(buf)
	if err != nil || n != 3 || string(buf) != "abc" {
		t.Errorf("got %q,%d,%v, want abc,3,nil", buf[:n], n, err)
	}
}
