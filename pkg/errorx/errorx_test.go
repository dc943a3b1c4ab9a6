package errorx

import (
	"errors"
	"fmt"
	"testing"
)

func TestNewAndGetCode(t *testing.T) {
	err := New(CodeNotFound, "user not found")
	if GetCode(err) != CodeNotFound {
		t.Fatalf("expected code %d, got %d", CodeNotFound, GetCode(err))
	}
	if err.Error() == "" {
		t.Fatal("error message must not be empty")
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(cause, CodeDBError, "query user")
	if GetCode(err) != CodeDBError {
		t.Fatalf("expected code %d, got %d", CodeDBError, GetCode(err))
	}
	if !errors.Is(err, cause) {
		t.Fatal("wrapped error must unwrap to its cause")
	}
}

func TestGetCodeOnForeignError(t *testing.T) {
	if GetCode(fmt.Errorf("plain")) != CodeServerBusy {
		t.Fatal("foreign errors must map to the default busy code")
	}
}
