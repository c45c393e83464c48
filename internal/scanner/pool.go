package scanner

import "sync"

const maxPooledRunes = 1 << 16

var runePool = sync.Pool{
	New: func() interface{} {
		return make([]rune, 0, 1024)
	},
}

func getRuneSlice(n int) []rune {
	runes := runePool.Get().([]rune)
	if cap(runes) < n {
		return make([]rune, 0, n)
	}
	return runes[:0]
}

func putRuneSlice(runes []rune) {
	if cap(runes) > maxPooledRunes { // Don't pool very large slices
		return
	}
	runePool.Put(runes[:0])
}
