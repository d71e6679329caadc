package cli

import (
	"errors"
	"reflect"
	"testing"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type recordingCopier struct {
	copied []string
	err    error
}

func (copier *recordingCopier) Copy(text string) error {
	if copier.err != nil {
		return copier.err
	}
	copier.copied = append(copier.copied, text)
	return nil
}

func TestRegisterCopyFlagParsesValues(t *testing.T) {
	testCases := []struct {
		name        string
		arguments   []string
		expected    bool
		expectError bool
	}{
		{name: "defaults_to_false", arguments: []string{}, expected: false},
		{name: "sets_true_without_value", arguments: []string{"--copy"}, expected: true},
		{name: "sets_false_with_equals", arguments: []string{"--copy=false"}, expected: false},
		{name: "sets_false_with_no", arguments: []string{"--copy", "no"}, expected: false},
		{name: "rejects_invalid_text", arguments: []string{"--copy=maybe"}, expectError: true},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			var flagValue bool
			command := &cobra.Command{Use: "copy-test"}
			registerCopyFlag(command.Flags(), &flagValue)
			parseErr := command.ParseFlags(normalizeBooleanFlagArguments(command, testCase.arguments))
			if testCase.expectError {
				if parseErr == nil {
					t.Fatalf("expected error for arguments %v", testCase.arguments)
				}
				return
			}
			if parseErr != nil {
				t.Fatalf("unexpected parse error: %v", parseErr)
			}
			if flagValue != testCase.expected {
				t.Fatalf("expected value %t, got %t", testCase.expected, flagValue)
			}
		})
	}
}

func TestCopyFlagLeavesPathArgumentPositional(t *testing.T) {
	command := &cobra.Command{Use: "copy-test"}
	var flagValue bool
	registerCopyFlag(command.Flags(), &flagValue)

	normalized := normalizeBooleanFlagArguments(command, []string{"--copy", "src"})
	if expected := []string{"--copy", "src"}; !reflect.DeepEqual(normalized, expected) {
		t.Fatalf("expected %v, got %v", expected, normalized)
	}
	if err := command.ParseFlags(normalized); err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if !flagValue {
		t.Fatalf("expected --copy to be enabled")
	}
	if arguments := command.Flags().Args(); !reflect.DeepEqual(arguments, []string{"src"}) {
		t.Fatalf("expected positional src, got %v", arguments)
	}
}

func TestCopyDocumentReportsFailureWithoutError(t *testing.T) {
	failing := &recordingCopier{err: errors.New("no display")}
	if copyDocument(failing, zap.NewNop(), "text") {
		t.Fatalf("expected failed copy to report false")
	}
	working := &recordingCopier{}
	if !copyDocument(working, zap.NewNop(), "text") {
		t.Fatalf("expected copy to succeed")
	}
	if !reflect.DeepEqual(working.copied, []string{"text"}) {
		t.Fatalf("unexpected copied values %v", working.copied)
	}
}
