package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestNumbers(t *testing.T) {
	assert.Equal(t, uintptr(0x40044590), EVIOCGRAB)
	assert.Equal(t, uintptr(0x81004506), EVIOCGNAME(256))
	assert.Equal(t, uintptr(0x80084523), EVIOCGBIT(3, 8))
	assert.Equal(t, uintptr(0x80184575), EVIOCGABS(0x35))
	assert.Equal(t, uintptr(0x80044509), EVIOCGPROP(4))
}

func TestTestBit(t *testing.T) {
	bits := []byte{0b0000_0010, 0b1000_0000}
	assert.True(t, TestBit(bits, 1))
	assert.True(t, TestBit(bits, 15))
	assert.False(t, TestBit(bits, 0))
	assert.False(t, TestBit(bits, 16))
	assert.False(t, TestBit(bits, -1))
}
