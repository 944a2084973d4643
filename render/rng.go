package render

import (
	"hash/fnv"
	"math/rand"
	"strconv"
)

// source builds a fresh random source from the configuration seed and a
// structural context path (e.g. "where_cond_l", "join_0"). Every stochastic
// choice in the renderer derives its randomness this way instead of drawing
// from a shared stream, so two sub-expressions never consume correlated
// randomness and re-rendering any sub-part reproduces the same choice it
// would have made inside a full render.
func source(seed int64, context string) *rand.Rand {
	h := fnv.New64a()
	h.Write([]byte(strconv.FormatInt(seed, 10)))
	h.Write([]byte{'_'})
	h.Write([]byte(context))

	return rand.New(rand.NewSource(int64(h.Sum64())))
}

// pick returns a context-seeded element of options.
func pick(seed int64, context string, options []string) string {
	if len(options) == 0 {
		return ""
	}

	return options[source(seed, context).Intn(len(options))]
}
