// Screenlog - Movie Review API with TMDB Catalog Caching
// Copyright 2026 The Screenlog Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/screenlog/screenlog

package validation

import (
	"strings"
	"testing"
)

type sampleRequest struct {
	Email string `validate:"required,email"`
	Name  string `validate:"required,min=2,max=10"`
	Score int    `validate:"required,gte=1,lte=10"`
}

func TestValidateStructPasses(t *testing.T) {
	req := sampleRequest{Email: "a@example.com", Name: "ab", Score: 5}
	if verr := ValidateStruct(&req); verr != nil {
		t.Errorf("valid struct rejected: %v", verr)
	}
}

func TestValidateStructRequired(t *testing.T) {
	verr := ValidateStruct(&sampleRequest{})
	if verr == nil {
		t.Fatal("empty struct passed validation")
	}
	if len(verr.Errors()) != 3 {
		t.Errorf("got %d errors, want 3: %v", len(verr.Errors()), verr)
	}
	if !strings.Contains(verr.Message(), "required") {
		t.Errorf("message %q does not mention required", verr.Message())
	}
}

func TestValidateStructMessages(t *testing.T) {
	tests := []struct {
		name string
		req  sampleRequest
		want string
	}{
		{
			"bad email",
			sampleRequest{Email: "nope", Name: "ab", Score: 5},
			"Email must be a valid email address",
		},
		{
			"name too short",
			sampleRequest{Email: "a@example.com", Name: "a", Score: 5},
			"Name must be at least 2 characters",
		},
		{
			"name too long",
			sampleRequest{Email: "a@example.com", Name: "much-too-long-name", Score: 5},
			"Name must be at most 10 characters",
		},
		{
			"score too high",
			sampleRequest{Email: "a@example.com", Name: "ab", Score: 11},
			"Score must be less than or equal to 10",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verr := ValidateStruct(&tt.req)
			if verr == nil {
				t.Fatal("expected validation failure")
			}
			if got := verr.Message(); got != tt.want {
				t.Errorf("Message() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidateStructMultipleErrorsPrefixed(t *testing.T) {
	verr := ValidateStruct(&sampleRequest{Email: "nope", Name: "a", Score: 5})
	if verr == nil {
		t.Fatal("expected validation failure")
	}
	msg := verr.Message()
	if !strings.Contains(msg, "Email:") || !strings.Contains(msg, "Name:") {
		t.Errorf("multi-error message lacks field prefixes: %q", msg)
	}
}

func TestGetValidatorSingleton(t *testing.T) {
	if GetValidator() != GetValidator() {
		t.Error("GetValidator returned different instances")
	}
}
