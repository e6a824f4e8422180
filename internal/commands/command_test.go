package commands

import (
	"errors"
	"testing"

	"github.com/sandeepkv93/vitalday/internal/model"
)

func TestParseSupportedCommands(t *testing.T) {
	cases := []struct {
		in       string
		typeWant Type
	}{
		{"/done module:sleep:dim-lights", TypeDone},
		{"complete 2", TypeDone},
		{"skip 3 traveling", TypeSkip},
		{"undo 1", TypeUndo},
		{"show all", TypeShow},
	}

	for _, tc := range cases {
		cmd, err := Parse(tc.in)
		if err != nil {
			t.Fatalf("parse %q failed: %v", tc.in, err)
		}
		if cmd.Type != tc.typeWant {
			t.Fatalf("parse %q type = %s, want %s", tc.in, cmd.Type, tc.typeWant)
		}
	}
}

func TestParseSkipReason(t *testing.T) {
	cmd, err := Parse("skip 2")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if cmd.Skip.Reason != model.SkipOther {
		t.Fatalf("expected default reason other, got %q", cmd.Skip.Reason)
	}

	cmd, err = Parse("skip 2 not-feeling-well")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if cmd.Skip.Reason != model.SkipNotFeelingWell {
		t.Fatalf("unexpected reason %q", cmd.Skip.Reason)
	}

	cmd, err = Parse("skip 2 busy")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if cmd.Skip.Reason != model.SkipTooBusy {
		t.Fatalf("unexpected alias reason %q", cmd.Skip.Reason)
	}

	_, err = Parse("skip 2 bored")
	var ce *CommandError
	if !errors.As(err, &ce) || ce.Code != ErrCodeInvalidArgument {
		t.Fatalf("expected invalid argument for unknown reason, got %v", err)
	}
}

func TestParseShowView(t *testing.T) {
	cmd, err := Parse("show focus")
	if err != nil || !cmd.Show.Focus {
		t.Fatalf("expected focus view, got %+v err=%v", cmd.Show, err)
	}
	if _, err := Parse("show calendar"); err == nil {
		t.Fatal("expected error for unknown view")
	}
}

func TestParseErrors(t *testing.T) {
	cases := map[string]ErrorCode{
		"":             ErrCodeEmptyInput,
		"/":            ErrCodeEmptyInput,
		"/unknown x":   ErrCodeUnknownCommand,
		"done":         ErrCodeInvalidArgument,
		"undo 1 2":     ErrCodeInvalidArgument,
		"skip":         ErrCodeInvalidArgument,
		"skip 1 2 3 4": ErrCodeInvalidArgument,
	}
	for in, code := range cases {
		_, err := Parse(in)
		var ce *CommandError
		if !errors.As(err, &ce) || ce.Code != code {
			t.Fatalf("parse %q: expected %s, got %v", in, code, err)
		}
	}
}

func TestExecuteDispatch(t *testing.T) {
	cmd, err := Parse("/done 2")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	called := false
	res, err := Execute(cmd, Handlers{
		Done: func(a TaskArgs) (Result, error) {
			called = true
			if a.Target != "2" {
				t.Fatalf("unexpected target: %q", a.Target)
			}
			return Result{Message: "ok"}, nil
		},
	})
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if !called || res.Message != "ok" {
		t.Fatalf("dispatch failed, called=%v res=%+v", called, res)
	}
}

func TestExecuteMissingHandler(t *testing.T) {
	cmd, err := Parse("show all")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	_, err = Execute(cmd, Handlers{})
	var ce *CommandError
	if !errors.As(err, &ce) || ce.Code != ErrCodeHandlerMissing {
		t.Fatalf("expected missing handler error, got %v", err)
	}
}

func TestResolve(t *testing.T) {
	all := []model.Task{
		{ID: "module:sleep:walk"},
		{ID: "module:move:walk"},
		{ID: "pack:calm:breathe"},
	}
	listed := all[1:]

	got, err := Resolve(listed, all, "1")
	if err != nil || got.ID != "module:move:walk" {
		t.Fatalf("position 1 = %q, %v", got.ID, err)
	}
	got, err = Resolve(listed, all, "breathe")
	if err != nil || got.ID != "pack:calm:breathe" {
		t.Fatalf("suffix = %q, %v", got.ID, err)
	}
	got, err = Resolve(listed, all, "module:sleep:walk")
	if err != nil || got.ID != "module:sleep:walk" {
		t.Fatalf("full id = %q, %v", got.ID, err)
	}

	for _, target := range []string{"0", "3", "walk", "nope"} {
		_, err := Resolve(listed, all, target)
		var ce *CommandError
		if !errors.As(err, &ce) || ce.Code != ErrCodeInvalidArgument {
			t.Fatalf("Resolve(%q) error = %v, want invalid argument", target, err)
		}
	}
}
