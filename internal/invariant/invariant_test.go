package invariant_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/mceicys/lfv-go/internal/invariant"
)

func TestPreconditionPass(t *testing.T) {
	invariant.Precondition(true, "this should pass")
	invariant.Precondition(1 == 1, "math works")
	invariant.Precondition(len("v3p") > 0, "identifier not empty")
}

func TestPreconditionFail(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic for false precondition")
		}
		msg := fmt.Sprintf("%v", r)
		if !strings.Contains(msg, "PRECONDITION VIOLATION") {
			t.Errorf("expected PRECONDITION VIOLATION, got: %s", msg)
		}
		if !strings.Contains(msg, "buffer must be nul-terminated") {
			t.Errorf("expected custom message, got: %s", msg)
		}
		if !strings.Contains(msg, "at ") {
			t.Errorf("expected stack trace context, got: %s", msg)
		}
	}()

	invariant.Precondition(false, "buffer must be nul-terminated")
}

func TestPostconditionPass(t *testing.T) {
	invariant.Postcondition(true, "this should pass")
	invariant.Postcondition(2+2 == 4, "math works")
}

func TestPostconditionFail(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic for false postcondition")
		}
		msg := fmt.Sprintf("%v", r)
		if !strings.Contains(msg, "POSTCONDITION VIOLATION") {
			t.Errorf("expected POSTCONDITION VIOLATION, got: %s", msg)
		}
	}()

	invariant.Postcondition(false, "tok must not exceed numBuf")
}

func TestInvariantPass(t *testing.T) {
	prevTok := 0
	tok := 1
	invariant.Invariant(tok > prevTok, "token cursor must advance")
}

func TestInvariantFail(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic for false invariant")
		}
		msg := fmt.Sprintf("%v", r)
		if !strings.Contains(msg, "INVARIANT VIOLATION") {
			t.Errorf("expected INVARIANT VIOLATION, got: %s", msg)
		}
	}()

	invariant.Invariant(false, "marks must not shrink below entry height")
}

func TestNotNilPass(t *testing.T) {
	x := 5
	invariant.NotNil(&x, "ptr")
	invariant.NotNil("hello", "str")
}

func TestNotNilFail(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic for nil value")
		}
		msg := fmt.Sprintf("%v", r)
		if !strings.Contains(msg, "state must not be nil") {
			t.Errorf("expected custom message, got: %s", msg)
		}
	}()

	var s *int
	invariant.NotNil(s, "state")
}

func TestInRangePass(t *testing.T) {
	invariant.InRange(2, 0, 4, "component count")
}

func TestInRangeFail(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic for out-of-range value")
		}
		msg := fmt.Sprintf("%v", r)
		if !strings.Contains(msg, "recursion level") {
			t.Errorf("expected custom message, got: %s", msg)
		}
	}()

	invariant.InRange(201, 0, 200, "recursion level")
}

func TestExpectNoErrorPass(t *testing.T) {
	invariant.ExpectNoError(nil, "buffer grow")
}

func TestExpectNoErrorFail(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic for non-nil error")
		}
	}()

	invariant.ExpectNoError(errors.New("boom"), "buffer grow")
}

func TestStackTraceContext(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic")
		}
		msg := fmt.Sprintf("%v", r)
		if !strings.Contains(msg, "invariant_test.go") {
			t.Errorf("expected this test file in stack context, got: %s", msg)
		}
	}()

	invariant.Precondition(false, "fails here")
}
