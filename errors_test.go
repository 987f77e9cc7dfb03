package quadworld

import (
	"errors"
	"strings"
	"testing"
)

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := wrapError(MalformedFile, "op", "msg", cause)
	if !errors.Is(err, cause) {
		t.Fatal("expected errors.Is to find the wrapped cause")
	}
}

func TestErrorStringIncludesOpAndMsg(t *testing.T) {
	err := newError(OutOfRange, "Quadtree.Get", "point outside world bounds")
	msg := err.Error()
	if msg == "" {
		t.Fatal("expected a non-empty error string")
	}
	if !strings.Contains(msg, "Quadtree.Get") || !strings.Contains(msg, "point outside world bounds") {
		t.Fatalf("expected the error string to include Op and Msg, got %q", msg)
	}
}

func TestKindStringKnownValues(t *testing.T) {
	cases := map[Kind]string{
		InvalidIndex:                "InvalidIndex",
		DeletedElement:               "DeletedElement",
		StoredVacanciesDisabled:      "StoredVacanciesDisabled",
		StoredModificationsDisabled:  "StoredModificationsDisabled",
		InvalidNodeType:              "InvalidNodeType",
		OutOfRange:                   "OutOfRange",
		MalformedFile:                "MalformedFile",
		LockTimeout:                  "LockTimeout",
	}
	for k, want := range cases {
		mustEqual(t, k.String(), want, "Kind.String()")
	}
}
