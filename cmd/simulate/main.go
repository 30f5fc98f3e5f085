// simulate drives the booking API with concurrent traffic aimed at a
// small set of doctors and dates, so capacity rejections and slot
// conflicts actually happen, and reports per-operation outcomes.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"os"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/brianvoe/gofakeit/v6"
)

type simConfig struct {
	APIBaseURL   string
	Duration     time.Duration
	Workers      int
	Doctors      int
	Days         int
	ReorderRatio float64
}

type opMetrics struct {
	total     int64
	success   int64
	rejected  int64 // capacity or conflict, expected under contention
	errored   int64
	mu        sync.Mutex
	latencies []time.Duration
}

func (m *opMetrics) record(latency time.Duration, status int) {
	atomic.AddInt64(&m.total, 1)
	switch {
	case status >= 200 && status < 300:
		atomic.AddInt64(&m.success, 1)
	case status == http.StatusConflict || status == http.StatusUnprocessableEntity:
		atomic.AddInt64(&m.rejected, 1)
	default:
		atomic.AddInt64(&m.errored, 1)
	}

	m.mu.Lock()
	m.latencies = append(m.latencies, latency)
	m.mu.Unlock()
}

func (m *opMetrics) percentile(p float64) time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.latencies) == 0 {
		return 0
	}
	sorted := make([]time.Duration, len(m.latencies))
	copy(sorted, m.latencies)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	idx := int(float64(len(sorted)-1) * p)
	return sorted[idx]
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg := simConfig{
		APIBaseURL:   envStr("SIM_API_URL", "http://localhost:8080"),
		Duration:     envDuration("SIM_DURATION", 30*time.Second),
		Workers:      envInt("SIM_WORKERS", 16),
		Doctors:      envInt("SIM_DOCTORS", 3),
		Days:         envInt("SIM_DAYS", 2),
		ReorderRatio: 0.1,
	}

	log.Printf("simulate: url=%s duration=%s workers=%d doctors=%d days=%d",
		cfg.APIBaseURL, cfg.Duration, cfg.Workers, cfg.Doctors, cfg.Days)

	gofakeit.Seed(time.Now().UnixNano())

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Duration)
	defer cancel()

	client := &http.Client{Timeout: 5 * time.Second}
	book := &opMetrics{}
	reorder := &opMetrics{}

	var wg sync.WaitGroup
	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runWorker(ctx, client, cfg, book, reorder)
		}()
	}
	wg.Wait()

	report("book", book)
	report("reorder", reorder)
}

func runWorker(ctx context.Context, client *http.Client, cfg simConfig, book, reorder *opMetrics) {
	today := time.Now().Truncate(24 * time.Hour)

	for ctx.Err() == nil {
		doctorID := 1 + rand.Intn(cfg.Doctors)
		date := today.AddDate(0, 0, rand.Intn(cfg.Days)).Format("2006-01-02")

		if rand.Float64() < cfg.ReorderRatio {
			doReorder(ctx, client, cfg.APIBaseURL, doctorID, date, reorder)
		} else {
			doBook(ctx, client, cfg.APIBaseURL, doctorID, date, book)
		}
	}
}

func doBook(ctx context.Context, client *http.Client, baseURL string, doctorID int, date string, m *opMetrics) {
	pref := "AM"
	if rand.Intn(2) == 1 {
		pref = "PM"
	}

	body, _ := json.Marshal(map[string]any{
		"patient_id":       gofakeit.Number(1, 10000),
		"doctor_id":        doctorID,
		"appointment_date": date,
		"time_preference":  pref,
	})

	status, latency := doRequest(ctx, client, http.MethodPost, baseURL+"/appointments", body)
	if status > 0 {
		m.record(latency, status)
	}
}

// doReorder fetches the current queue and submits a shuffled permutation
// of the same ids, which the API must accept.
func doReorder(ctx context.Context, client *http.Client, baseURL string, doctorID int, date string, m *opMetrics) {
	queueURL := fmt.Sprintf("%s/doctors/%d/queue?date=%s", baseURL, doctorID, date)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, queueURL, nil)
	if err != nil {
		return
	}
	resp, err := client.Do(req)
	if err != nil {
		return
	}
	var queue []struct {
		ID int64 `json:"id"`
	}
	err = json.NewDecoder(resp.Body).Decode(&queue)
	resp.Body.Close()
	if err != nil || len(queue) < 2 {
		return
	}

	ids := make([]int64, len(queue))
	for i, q := range queue {
		ids[i] = q.ID
	}
	rand.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })

	body, _ := json.Marshal(map[string]any{"appointment_ids": ids})
	status, latency := doRequest(ctx, client, http.MethodPut, queueURL, body)
	if status > 0 {
		m.record(latency, status)
	}
}

func doRequest(ctx context.Context, client *http.Client, method, url string, body []byte) (int, time.Duration) {
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
	if err != nil {
		return 0, 0
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := client.Do(req)
	latency := time.Since(start)
	if err != nil {
		if ctx.Err() != nil {
			return 0, 0
		}
		return http.StatusInternalServerError, latency
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	return resp.StatusCode, latency
}

func report(name string, m *opMetrics) {
	log.Printf("%s: total=%d success=%d rejected=%d errored=%d p50=%s p95=%s",
		name,
		atomic.LoadInt64(&m.total),
		atomic.LoadInt64(&m.success),
		atomic.LoadInt64(&m.rejected),
		atomic.LoadInt64(&m.errored),
		m.percentile(0.50),
		m.percentile(0.95),
	)
}

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
