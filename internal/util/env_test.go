package util

import "testing"

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("SYMPHONY_TEST_STRING", "value")
	t.Setenv("SYMPHONY_TEST_EMPTY", "")
	t.Setenv("SYMPHONY_TEST_NUMBER", "12.5")
	t.Setenv("SYMPHONY_TEST_BAD_NUMBER", "twelve")
	t.Setenv("SYMPHONY_TEST_BOOL", "true")
	t.Setenv("SYMPHONY_TEST_BAD_BOOL", "yes")
	t.Setenv("SYMPHONY_TEST_NUMERIC_BOOL", "1")

	if got := GetEnv("SYMPHONY_TEST_STRING"); got != "value" {
		t.Fatalf("GetEnv() = %q, want value", got)
	}
	if got := GetEnv("SYMPHONY_TEST_MISSING"); got != "" {
		t.Fatalf("GetEnv() = %q, want empty", got)
	}
	if got := GetEnvString("SYMPHONY_TEST_EMPTY", "fallback"); got != "fallback" {
		t.Fatalf("GetEnvString() = %q, want fallback", got)
	}
	if got := GetEnvNumeric("SYMPHONY_TEST_NUMBER", 1); got != 12.5 {
		t.Fatalf("GetEnvNumeric() = %v, want 12.5", got)
	}
	if got := GetEnvInt("SYMPHONY_TEST_NUMBER", 1); got != 12 {
		t.Fatalf("GetEnvInt() = %v, want 12", got)
	}
	if got := GetEnvInt("SYMPHONY_TEST_BAD_NUMBER", 7); got != 7 {
		t.Fatalf("GetEnvInt() = %v, want default 7", got)
	}
	if got := GetEnvBool("SYMPHONY_TEST_BOOL", false); !got {
		t.Fatalf("GetEnvBool() = false, want true")
	}
	if got := GetEnvBool("SYMPHONY_TEST_BAD_BOOL", false); got {
		t.Fatalf("GetEnvBool() = true, want default false")
	}
	if got := GetEnvBool("SYMPHONY_TEST_NUMERIC_BOOL", false); !got {
		t.Fatalf("GetEnvBool(\"1\") = false, want true")
	}
	if got := GetEnvInt("SYMPHONY_TEST_EMPTY", 3); got != 3 {
		t.Fatalf("GetEnvInt() on empty = %v, want default 3", got)
	}
}
