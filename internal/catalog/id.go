// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package catalog

import (
	"crypto/rand"
	"math/big"
)

// idAlphabet matches the cuid shape used for existing identifiers:
// lowercase alphanumerics, first character always a letter so the id
// survives contexts that reject leading digits.
const (
	idAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	idLetters  = "abcdefghijklmnopqrstuvwxyz"
	idLength   = 24
)

// NewID returns a fresh opaque identifier for taxonomy entities and
// information records. Identifiers are immutable once assigned.
func NewID() string {
	buf := make([]byte, idLength)
	buf[0] = idLetters[randIndex(len(idLetters))]
	for i := 1; i < idLength; i++ {
		buf[i] = idAlphabet[randIndex(len(idAlphabet))]
	}
	return string(buf)
}

// randIndex returns a uniform random index in [0, n) from crypto/rand.
func randIndex(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		// crypto/rand never fails on supported platforms.
		panic(err)
	}
	return int(v.Int64())
}
