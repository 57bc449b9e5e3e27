package observability_test

import (
	"testing"
	"time"

	"github.com/pmarczak/zloty-bank-go/internal/infra/observability"
)

func TestMetricsCounters(t *testing.T) {
	m := observability.NewMetrics()

	m.IncrLogin("success")
	m.IncrLogin("success")
	m.IncrLogin("wrong_password")

	if got := m.LoginCount("success"); got != 2 {
		t.Errorf("LoginCount(success) = %v, want 2", got)
	}
	if got := m.LoginCount("wrong_password"); got != 1 {
		t.Errorf("LoginCount(wrong_password) = %v, want 1", got)
	}
	if got := m.LoginCount("locked"); got != 0 {
		t.Errorf("LoginCount(locked) = %v, want 0", got)
	}

	m.IncrTransfer("own")
	if got := m.TransferCount("own"); got != 1 {
		t.Errorf("TransferCount(own) = %v, want 1", got)
	}
}

func TestMetricsRegistryIsPrivate(t *testing.T) {
	// Creating metrics twice must not panic on duplicate registration.
	first := observability.NewMetrics()
	second := observability.NewMetrics()

	first.RecordOperationDuration("transfer", 10*time.Millisecond)
	second.RecordOperationDuration("transfer", 20*time.Millisecond)
	first.SetBankBalance(12345)
	second.IncrLoanInstallment()
}
