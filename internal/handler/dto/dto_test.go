package dto

import (
	"strings"
	"testing"
)

func TestValidate_LoginRequest(t *testing.T) {
	if err := Validate(&LoginRequest{LineUserID: "U1"}); err != nil {
		t.Errorf("expected valid request, got %v", err)
	}

	err := Validate(&LoginRequest{})
	if err == nil {
		t.Fatal("expected error for missing lineUserId, got nil")
	}

	msg := ValidationMessage(err)
	if !strings.Contains(msg, "lineUserId") {
		t.Errorf("expected wire field name in message, got %q", msg)
	}
	if !strings.Contains(msg, "required") {
		t.Errorf("expected required hint in message, got %q", msg)
	}
}

func TestValidate_CreateItemRequest(t *testing.T) {
	valid := &CreateItemRequest{
		UserID:          "U1",
		Type:            "article",
		OriginalContent: "some text",
	}
	if err := Validate(valid); err != nil {
		t.Errorf("expected valid request, got %v", err)
	}

	missing := &CreateItemRequest{UserID: "U1", Type: "article"}
	err := Validate(missing)
	if err == nil {
		t.Fatal("expected error for missing originalContent, got nil")
	}
	if msg := ValidationMessage(err); !strings.Contains(msg, "originalContent") {
		t.Errorf("expected originalContent in message, got %q", msg)
	}
}

func TestValidate_CreateTagRequest_DescriptionOptional(t *testing.T) {
	if err := Validate(&CreateTagRequest{Name: "work"}); err != nil {
		t.Errorf("expected description to be optional, got %v", err)
	}
}

func TestValidate_CreateAssociationRequest(t *testing.T) {
	err := Validate(&CreateAssociationRequest{ItemID: "I1"})
	if err == nil {
		t.Fatal("expected error for missing tagId, got nil")
	}
	if msg := ValidationMessage(err); !strings.Contains(msg, "tagId") {
		t.Errorf("expected tagId in message, got %q", msg)
	}
}

func TestValidationMessage_NonValidatorError(t *testing.T) {
	if msg := ValidationMessage(errFake("x")); msg != "invalid request" {
		t.Errorf("expected generic message, got %q", msg)
	}
}

type errFake string

func (e errFake) Error() string { return string(e) }
