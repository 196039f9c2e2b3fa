package internal

import (
	"bytes"
	"reflect"
	"sync"
	"testing"
	"time"
)

// FailureMessage reports a got/want mismatch
func FailureMessage(t *testing.T, got, want interface{}) {
	t.Helper()
	t.Errorf("\ngot:  %+v\nwant: %+v", got, want)
}

// TableFailureMessage reports a got/want mismatch for a named case
func TableFailureMessage(t *testing.T, name string, got, want interface{}) {
	t.Helper()
	t.Errorf("%s\ngot:  %+v\nwant: %+v", name, got, want)
}

// AssertNoError stops the test on an unexpected error
func AssertNoError(t *testing.T, err error) {
	t.Helper()

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertErrored stops the test when an error was expected but none came
func AssertErrored(t *testing.T, err error) {
	t.Helper()

	if err == nil {
		t.Fatal("expected an error, got nil")
	}
}

// AssertEqual compares comparable values with ==
func AssertEqual(t *testing.T, got, want interface{}) {
	t.Helper()

	if got != want {
		FailureMessage(t, got, want)
	}
}

// AssertDeepEqual compares slices, maps and structs that hold them
func AssertDeepEqual(t *testing.T, got, want interface{}) {
	t.Helper()

	if !reflect.DeepEqual(got, want) {
		FailureMessage(t, got, want)
	}
}

func AssertTrue(t *testing.T, got bool) {
	t.Helper()

	if !got {
		t.Error("expected true, got false")
	}
}

// AssertNotNil stops the test on nil, including nil pointers held in an interface
func AssertNotNil(t *testing.T, got interface{}) {
	t.Helper()

	if got == nil {
		t.Fatal("value is unexpectedly nil")
	}
	switch v := reflect.ValueOf(got); v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface:
		if v.IsNil() {
			t.Fatalf("%T is unexpectedly nil", got)
		}
	}
}

func AssertNotEmptyString(t *testing.T, got string) {
	t.Helper()

	if got == "" {
		t.Error("unexpected empty string")
	}
}

// Within fails the test if wait has not returned after d
func Within(t *testing.T, d time.Duration, wait func()) {
	t.Helper()

	done := make(chan struct{})
	go func() {
		defer close(done)
		wait()
	}()

	select {
	case <-done:
	case <-time.After(d):
		t.Fatalf("timed out after %s", d)
	}
}

// TestBuffer is a bytes.Buffer that is safe to share with a running session
type TestBuffer struct {
	buf bytes.Buffer
	m   sync.Mutex
}

func NewTestBuffer() *TestBuffer {
	return &TestBuffer{}
}

func (tb *TestBuffer) Read(p []byte) (int, error) {
	tb.m.Lock()
	defer tb.m.Unlock()
	return tb.buf.Read(p)
}

func (tb *TestBuffer) Write(p []byte) (int, error) {
	tb.m.Lock()
	defer tb.m.Unlock()
	return tb.buf.Write(p)
}

func (tb *TestBuffer) String() string {
	tb.m.Lock()
	defer tb.m.Unlock()
	return tb.buf.String()
}

// Reset empties the buffer
func (tb *TestBuffer) Reset() {
	tb.m.Lock()
	defer tb.m.Unlock()
	tb.buf.Reset()
}
