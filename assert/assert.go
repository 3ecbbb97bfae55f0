package assert

import "fmt"

func Assert(cond bool, msg string) {
	if !cond {
		panic(msg)
	}
}

func AssertNotEmpty(s string) {
	if s == "" {
		panic("expected non-empty string")
	}
}

func AssertNotNil(a any) {
	if a == nil {
		panic("expect non-nil value")
	}
}

func AssertInRange(v, lo, hi int) {
	if v < lo || v > hi {
		panic(fmt.Sprintf("expected value in [%d, %d] but got %d", lo, hi, v))
	}
}
