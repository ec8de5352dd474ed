package handler

import "testing"

func TestRequestValidator(t *testing.T) {
	v := NewValidator()

	if err := v.Validate(&sendMessageRequest{Content: "hello"}); err != nil {
		t.Fatalf("expected valid, got %v", err)
	}

	type twoFields struct {
		Content string `validate:"required"`
		Name    string `validate:"max=3"`
	}
	err := v.Validate(&twoFields{Name: "toolong"})
	want := "content is required; name must be at most 3 characters"
	if err == nil || err.Error() != want {
		t.Fatalf("expected %q, got %v", want, err)
	}
}
