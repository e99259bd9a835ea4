package perf

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

// TestCollector_Record verifies request and query entries land in their histograms.
func TestCollector_Record(t *testing.T) {
	c := NewCollector()
	now := time.Now()

	c.Record(Entry{Kind: KindRequest, Method: "GET", Path: "/", StatusCode: 200, DurationMs: 10, Timestamp: now})
	c.Record(Entry{Kind: KindRequest, Method: "GET", Path: "/", StatusCode: 200, DurationMs: 30, Timestamp: now})
	c.Record(Entry{Kind: KindQuery, Path: "QueryContext", DurationMs: 5, Timestamp: now})

	if c.TotalRecorded() != 3 {
		t.Errorf("TotalRecorded = %d, want 3", c.TotalRecorded())
	}
	if n := testutil.CollectAndCount(c.requestDuration); n != 1 {
		t.Errorf("request series = %d, want 1", n)
	}
	if n := testutil.CollectAndCount(c.queryDuration); n != 1 {
		t.Errorf("query series = %d, want 1", n)
	}
}

// TestCollector_DomainCounters verifies enquiry, program and login counters.
func TestCollector_DomainCounters(t *testing.T) {
	c := NewCollector()

	c.RecordEnquiry(StatusSuccess)
	c.RecordEnquiry(StatusSuccess)
	c.RecordEnquiry(StatusError)
	c.RecordProgramOp("add", StatusSuccess)
	c.RecordProgramOp("delete", StatusError)
	c.RecordAdminLogin(true)
	c.RecordAdminLogin(false)
	c.RecordAdminLogin(false)

	if got := testutil.ToFloat64(c.enquiriesTotal.WithLabelValues(StatusSuccess)); got != 2 {
		t.Errorf("enquiries success = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.enquiriesTotal.WithLabelValues(StatusError)); got != 1 {
		t.Errorf("enquiries error = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.programOpsTotal.WithLabelValues("add", StatusSuccess)); got != 1 {
		t.Errorf("program add = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.adminLoginsTotal.WithLabelValues("denied")); got != 2 {
		t.Errorf("logins denied = %v, want 2", got)
	}
}

// TestCollector_Handler verifies the exposition endpoint lists the site metrics.
func TestCollector_Handler(t *testing.T) {
	c := NewCollector()
	c.RecordEnquiry(StatusSuccess)

	rr := httptest.NewRecorder()
	c.Handler().ServeHTTP(rr, httptest.NewRequest("GET", "/metrics", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "aura_enquiries_submitted_total") {
		t.Error("expected aura_enquiries_submitted_total in exposition")
	}
}

// TestCollector_Nil verifies a nil collector is a no-op.
func TestCollector_Nil(t *testing.T) {
	var c *Collector
	c.Record(Entry{Kind: KindRequest})
	c.RecordEnquiry(StatusSuccess)
	c.RecordProgramOp("add", StatusSuccess)
	c.RecordAdminLogin(true)
	if c.TotalRecorded() != 0 {
		t.Errorf("TotalRecorded = %d, want 0", c.TotalRecorded())
	}

	rr := httptest.NewRecorder()
	c.Handler().ServeHTTP(rr, httptest.NewRequest("GET", "/metrics", nil))
	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rr.Code)
	}
}

// TestCollector_ConcurrentRecord verifies Record is safe under concurrency.
func TestCollector_ConcurrentRecord(t *testing.T) {
	c := NewCollector()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				c.Record(Entry{Kind: KindQuery, Path: "ExecContext", DurationMs: 1, Timestamp: time.Now()})
			}
		}()
	}
	wg.Wait()

	if c.TotalRecorded() != 1000 {
		t.Errorf("TotalRecorded = %d, want 1000", c.TotalRecorded())
	}
}
