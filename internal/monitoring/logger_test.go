package monitoring

import "testing"

func TestSetLogger(t *testing.T) {
	original := Logf
	defer func() { Logf = original }()

	called := false
	SetLogger(func(format string, v ...interface{}) { called = true })
	Logf("plan accepted: utility=%f", 12.5)
	if !called {
		t.Error("custom logger was not called")
	}

	// nil installs a no-op that must not panic and must not call the
	// previous logger.
	called = false
	SetLogger(nil)
	Logf("should be dropped")
	if called {
		t.Error("no-op logger invoked the previous callback")
	}
}

func TestLogfDefault(t *testing.T) {
	if Logf == nil {
		t.Fatal("Logf should not be nil by default")
	}
}
