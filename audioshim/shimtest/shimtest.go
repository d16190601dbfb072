// Package shimtest provides a recording audioshim.Shim for tests.
package shimtest

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Shim serves canned reports and records every call in order.
// Calls are recorded as strings such as "status", "inspect 51" or
// "set-volume 50 0.8".
type Shim struct {
	mu sync.Mutex

	StatusText      string
	StatusErr       error
	StatusNamesText string
	StatusNamesErr  error
	InspectText     map[int]string
	InspectErr      error
	// RunErr maps a recorded command string to the error it returns
	RunErr map[string]error

	calls []string
}

func (s *Shim) Status() (string, error) {
	s.record("status")
	return s.StatusText, s.StatusErr
}

func (s *Shim) StatusNames() (string, error) {
	s.record("status --name")
	return s.StatusNamesText, s.StatusNamesErr
}

func (s *Shim) Inspect(id int) (string, error) {
	s.record(fmt.Sprintf("inspect %d", id))
	if s.InspectErr != nil {
		return "", s.InspectErr
	}
	return s.InspectText[id], nil
}

func (s *Shim) Run(args ...string) error {
	call := strings.Join(args, " ")
	s.record(call)
	return s.RunErr[call]
}

// Sleep records a settle delay so tests can check where it happened
func (s *Shim) Sleep(d time.Duration) {
	s.record("sleep " + d.String())
}

// Calls returns the recorded calls
func (s *Shim) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

// Commands returns the recorded Run calls only
func (s *Shim) Commands() []string {
	var out []string
	for _, c := range s.Calls() {
		if strings.HasPrefix(c, "set-") {
			out = append(out, c)
		}
	}
	return out
}

func (s *Shim) record(call string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, call)
}
