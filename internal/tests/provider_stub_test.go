package tests

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
)

// providerStub simulates the upstream verification provider so tests can
// assert on wire parameters and drive success or rejection per call.
type providerStub struct {
	Server *httptest.Server

	mu          sync.Mutex
	startCalls  int
	checkCalls  int
	cancelCalls int
	smsCalls    int

	lastStartQuery url.Values
	lastCheckQuery url.Values
	lastSMSForm    url.Values

	requestID string
	validCode string
	smsBody   string
}

func newProviderStub() *providerStub {
	stub := &providerStub{
		requestID: "RQ-TEST",
		validCode: "123456",
		smsBody:   `{"messages":[{"status":"0","message_id":"MSG-TEST"}]}`,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/verify/json", func(w http.ResponseWriter, r *http.Request) {
		stub.mu.Lock()
		stub.startCalls++
		stub.lastStartQuery = r.URL.Query()
		stub.mu.Unlock()
		w.Write([]byte(`{"status":"0","request_id":"` + stub.requestID + `"}`))
	})
	mux.HandleFunc("/verify/check/json", func(w http.ResponseWriter, r *http.Request) {
		stub.mu.Lock()
		stub.checkCalls++
		stub.lastCheckQuery = r.URL.Query()
		stub.mu.Unlock()
		if r.URL.Query().Get("code") == stub.validCode {
			w.Write([]byte(`{"status":"0"}`))
			return
		}
		w.Write([]byte(`{"status":"16","error_text":"The code provided does not match the expected value"}`))
	})
	mux.HandleFunc("/verify/control/json", func(w http.ResponseWriter, r *http.Request) {
		stub.mu.Lock()
		stub.cancelCalls++
		stub.mu.Unlock()
		w.Write([]byte(`{"status":"0"}`))
	})
	mux.HandleFunc("/sms/json", func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		stub.mu.Lock()
		stub.smsCalls++
		stub.lastSMSForm = r.PostForm
		stub.mu.Unlock()
		w.Write([]byte(stub.smsBody))
	})

	stub.Server = httptest.NewServer(mux)
	return stub
}

func (s *providerStub) Close() {
	s.Server.Close()
}

func (s *providerStub) StartCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.startCalls
}

func (s *providerStub) CheckCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checkCalls
}

func (s *providerStub) LastStartQuery() url.Values {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastStartQuery
}

func (s *providerStub) LastSMSForm() url.Values {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSMSForm
}
