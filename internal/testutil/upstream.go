// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
)

// Upstream is an HTTP server with a fixed set of files. GET serves the body;
// HEAD reports only Content-Length. Every request is counted by method and path.
type Upstream struct {
	srv *httptest.Server

	mu     sync.Mutex
	files  map[string]string
	counts map[string]int
}

// NewUpstream starts an Upstream that is closed when the test ends.
func NewUpstream(t testing.TB) *Upstream {
	t.Helper()
	u := &Upstream{files: map[string]string{}, counts: map[string]int{}}
	u.srv = httptest.NewServer(http.HandlerFunc(u.serve))
	t.Cleanup(u.srv.Close)
	return u
}

func (u *Upstream) serve(w http.ResponseWriter, r *http.Request) {
	u.mu.Lock()
	u.counts[r.Method+" "+r.URL.Path]++
	body, ok := u.files[r.URL.Path]
	u.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	if r.Method == http.MethodHead {
		return
	}
	_, _ = w.Write([]byte(body))
}

// Set serves body at path.
func (u *Upstream) Set(path, body string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.files[path] = body
}

// Remove stops serving path; later requests get 404.
func (u *Upstream) Remove(path string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	delete(u.files, path)
}

// Count returns how many method requests hit path.
func (u *Upstream) Count(method, path string) int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.counts[method+" "+path]
}

// Total returns how many method requests hit any path under prefix.
func (u *Upstream) Total(method, prefix string) int {
	u.mu.Lock()
	defer u.mu.Unlock()
	n := 0
	for k, v := range u.counts {
		if strings.HasPrefix(k, method+" "+prefix) {
			n += v
		}
	}
	return n
}

// URL returns the absolute URL of path.
func (u *Upstream) URL(path string) string { return u.srv.URL + path }
