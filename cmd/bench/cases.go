// README: Bench cases for /health, /chat validation, CORS, the live pipeline, and load.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	StatusPass    = "PASS"
	StatusFail    = "FAIL"
	StatusPending = "PENDING"
	StatusSkip    = "SKIP"
)

type Runner struct {
	cfg   Config
	httpc *http.Client
}

type Result struct {
	Status  string
	Latency time.Duration
	Note    string
}

type TestCase struct {
	Name string
	Run  func(ctx context.Context, r *Runner) Result
}

func NewRunner(cfg Config) *Runner {
	return &Runner{
		cfg:   cfg,
		httpc: &http.Client{Timeout: 90 * time.Second},
	}
}

func (r *Runner) RunAll(ctx context.Context) []Result {
	tests := r.cases()
	results := make([]Result, 0, len(tests))

	for _, tc := range tests {
		res := tc.Run(ctx, r)
		results = append(results, res)
		fmt.Printf("%-7s %s", res.Status, tc.Name)
		if res.Latency > 0 {
			fmt.Printf(" (%s)", res.Latency)
		}
		if res.Note != "" {
			fmt.Printf(" - %s", res.Note)
		}
		fmt.Println()
	}
	return results
}

func messages(pairs ...string) map[string]any {
	var msgs []map[string]string
	for i := 0; i+1 < len(pairs); i += 2 {
		msgs = append(msgs, map[string]string{"role": pairs[i], "content": pairs[i+1]})
	}
	return map[string]any{"messages": msgs}
}

func (r *Runner) cases() []TestCase {
	base := r.cfg.BaseURL
	return []TestCase{
		{
			Name: "API: health",
			Run: func(ctx context.Context, r *Runner) Result {
				start := time.Now()
				req, _ := http.NewRequestWithContext(ctx, http.MethodGet, base+"/health", nil)
				resp, err := r.httpc.Do(req)
				if err != nil {
					return Result{Status: StatusFail, Note: err.Error()}
				}
				_ = resp.Body.Close()
				if resp.StatusCode != http.StatusOK {
					return Result{Status: StatusFail, Note: fmt.Sprintf("status=%d", resp.StatusCode)}
				}
				return Result{Status: StatusPass, Latency: time.Since(start)}
			},
		},

		chatCase("Chat: invalid json -> 400", base, "{", []int{400}),
		chatCase("Chat: empty messages -> 400", base, map[string]any{"messages": []any{}}, []int{400}),
		chatCase("Chat: unknown role -> 400", base, messages("tool", "hi"), []int{400}),
		chatCase("Chat: no user turn -> 400", base, messages("assistant", "How can I help?"), []int{400}),

		{
			Name: "CORS: preflight from configured origin",
			Run: func(ctx context.Context, r *Runner) Result {
				req, _ := http.NewRequestWithContext(ctx, http.MethodOptions, base+"/chat", nil)
				req.Header.Set("Origin", r.cfg.Origin)
				req.Header.Set("Access-Control-Request-Method", http.MethodPost)
				resp, err := r.httpc.Do(req)
				if err != nil {
					return Result{Status: StatusFail, Note: err.Error()}
				}
				_ = resp.Body.Close()
				if got := resp.Header.Get("Access-Control-Allow-Origin"); got != r.cfg.Origin {
					return Result{Status: StatusFail, Note: fmt.Sprintf("status=%d allow-origin=%q", resp.StatusCode, got)}
				}
				return Result{Status: StatusPass}
			},
		},

		liveCase("Live: Paris to Zurich round trip", base,
			messages("user", "Tell me flights from Paris to Zurich on 21st Oct, returning 28th Oct"),
			[]int{200}),
		liveCase("Live: greeting without flight intent", base,
			messages("user", "Hello there!"),
			[]int{200, 422}),

		{
			Name: "Load: /chat validation path",
			Run: func(ctx context.Context, r *Runner) Result {
				return perfLoad(ctx, r, base+"/chat", map[string]any{"messages": []any{}})
			},
		},
	}
}

type chatBody struct {
	Flights []json.RawMessage `json:"flights"`
	Error   *string           `json:"error"`
}

func postChat(ctx context.Context, r *Runner, url string, body any) (int, chatBody, time.Duration, error) {
	var buf bytes.Buffer
	if s, ok := body.(string); ok {
		buf.WriteString(s)
	} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, chatBody{}, 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return 0, chatBody{}, 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := r.httpc.Do(req)
	if err != nil {
		return 0, chatBody{}, 0, err
	}
	defer resp.Body.Close()
	latency := time.Since(start)

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, chatBody{}, latency, err
	}
	var cb chatBody
	if err := json.Unmarshal(raw, &cb); err != nil {
		return resp.StatusCode, chatBody{}, latency, fmt.Errorf("body is not JSON: %s", raw)
	}
	return resp.StatusCode, cb, latency, nil
}

func chatCase(name, base string, body any, okStatuses []int) TestCase {
	return TestCase{
		Name: name,
		Run: func(ctx context.Context, r *Runner) Result {
			status, cb, latency, err := postChat(ctx, r, base+"/chat", body)
			if err != nil {
				return Result{Status: StatusFail, Note: err.Error()}
			}
			if !contains(okStatuses, status) {
				return Result{Status: StatusFail, Latency: latency, Note: fmt.Sprintf("status=%d", status)}
			}
			if cb.Flights == nil || cb.Error == nil {
				return Result{Status: StatusFail, Latency: latency, Note: "error body must carry flights and error"}
			}
			return Result{Status: StatusPass, Latency: latency, Note: fmt.Sprintf("status=%d", status)}
		},
	}
}

func liveCase(name, base string, body any, okStatuses []int) TestCase {
	return TestCase{
		Name: name,
		Run: func(ctx context.Context, r *Runner) Result {
			if !r.cfg.LiveChat {
				return Result{Status: StatusSkip, Note: "live-chat=false"}
			}
			status, cb, latency, err := postChat(ctx, r, base+"/chat", body)
			if err != nil {
				return Result{Status: StatusFail, Note: err.Error()}
			}
			note := fmt.Sprintf("status=%d flights=%d", status, len(cb.Flights))
			if cb.Error != nil {
				note += " error=" + *cb.Error
			}
			if status == http.StatusBadGateway {
				return Result{Status: StatusPending, Latency: latency, Note: note}
			}
			if !contains(okStatuses, status) {
				return Result{Status: StatusFail, Latency: latency, Note: note}
			}
			return Result{Status: StatusPass, Latency: latency, Note: note}
		},
	}
}

func perfLoad(ctx context.Context, r *Runner, url string, payload any) Result {
	b, _ := json.Marshal(payload)
	end := time.Now().Add(r.cfg.Duration)
	var count, errCount atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < r.cfg.Concurrency; i++ {
		g.Go(func() error {
			for time.Now().Before(end) && gctx.Err() == nil {
				req, _ := http.NewRequestWithContext(gctx, http.MethodPost, url, bytes.NewReader(b))
				req.Header.Set("Content-Type", "application/json")
				resp, err := r.httpc.Do(req)
				if err != nil {
					errCount.Add(1)
					continue
				}
				_, _ = io.Copy(io.Discard, resp.Body)
				resp.Body.Close()
				count.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()

	if count.Load() == 0 {
		return Result{Status: StatusFail, Note: "no requests completed"}
	}
	rps := float64(count.Load()) / r.cfg.Duration.Seconds()
	return Result{Status: StatusPass, Note: fmt.Sprintf("rps=%.1f errors=%d", rps, errCount.Load())}
}

func contains(list []int, v int) bool {
	for _, i := range list {
		if i == v {
			return true
		}
	}
	return false
}
