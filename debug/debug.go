// Package debug gates trace logging on environment variables so the search
// internals can be inspected without a rebuild.
package debug

import (
	"fmt"
	"os"
	"strconv"
)

type debug struct {
	Cliques    bool
	Candidates bool
	Symcheck   bool
	Quotient   bool
}

var d *debug

func init() {
	d = &debug{}
	d.Cliques = boolEnv("PBESSYM_DEBUG_CLIQUES")
	d.Candidates = boolEnv("PBESSYM_DEBUG_CANDIDATES")
	d.Symcheck = boolEnv("PBESSYM_DEBUG_SYMCHECK")
	d.Quotient = boolEnv("PBESSYM_DEBUG_QUOTIENT")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Cliques() bool {
	return d.Cliques
}
func Candidates() bool {
	return d.Candidates
}
func Symcheck() bool {
	return d.Symcheck
}
func Quotient() bool {
	return d.Quotient
}

func Logf(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, msg, args...)
}
