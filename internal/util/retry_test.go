package util

import (
	"context"
	"errors"
	"testing"
)

func TestRetry_SuccessImmediate(t *testing.T) {
	result, err := Retry(3, func() (int, error) {
		return 42, nil
	})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if result != 42 {
		t.Fatalf("expected 42, got %d", result)
	}
}

func TestRetry_SuccessAfterFailures(t *testing.T) {
	attempts := 0
	result, err := Retry(3, func() (string, error) {
		attempts++
		if attempts < 3 {
			return "", errors.New("transient")
		}
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if result != "ok" || attempts != 3 {
		t.Fatalf("expected success on attempt 3, got %q after %d attempts", result, attempts)
	}
}

func TestRetry_AllAttemptsFail(t *testing.T) {
	wantErr := errors.New("persistent")
	attempts := 0
	_, err := Retry(4, func() (int, error) {
		attempts++
		return 0, wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected last error, got %v", err)
	}
	if attempts != 4 {
		t.Fatalf("expected 4 attempts, got %d", attempts)
	}
}

func TestRetry_ZeroTriesDefaultsToOne(t *testing.T) {
	attempts := 0
	_, _ = Retry(0, func() (int, error) {
		attempts++
		return 0, errors.New("fail")
	})
	if attempts != 1 {
		t.Fatalf("expected 1 attempt, got %d", attempts)
	}
}

func TestRetryErrWithContext_SuccessAfterFailures(t *testing.T) {
	attempts := 0
	err := RetryErrWithContext(context.Background(), 3, func(ctx context.Context) error {
		attempts++
		if attempts < 2 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if attempts != 2 {
		t.Fatalf("expected 2 attempts, got %d", attempts)
	}
}

func TestRetryErrWithContext_CanceledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	attempts := 0
	err := RetryErrWithContext(ctx, 3, func(ctx context.Context) error {
		attempts++
		return errors.New("should not run")
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if attempts != 0 {
		t.Fatalf("expected no attempts after cancellation, got %d", attempts)
	}
}

func TestRetryErrWithContext_StopsOnContextError(t *testing.T) {
	attempts := 0
	err := RetryErrWithContext(context.Background(), 5, func(ctx context.Context) error {
		attempts++
		return context.DeadlineExceeded
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected context.DeadlineExceeded, got %v", err)
	}
	if attempts != 1 {
		t.Fatalf("expected retries to stop on context error, got %d attempts", attempts)
	}
}
