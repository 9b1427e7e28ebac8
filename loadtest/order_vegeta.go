package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync/atomic"
	"time"

	"github.com/qwertyllionman/Alijahon/pkg/logger"

	vegeta "github.com/tsenart/vegeta/v12/lib"
)

// loginResponse 只取关心的字段
type loginResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Token   string `json:"token"`
}

// orderResp 用于统计逻辑成功率（HTTP 200 且 code==0）
type orderResp struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func main() {
	var (
		baseURL     = flag.String("base", "http://localhost:8080", "market service base URL")
		productSlug = flag.String("product", "blender-premium", "Product slug to order")
		users       = flag.Int("users", 50, "Number of virtual users (tokens) to prepare")
		rate        = flag.Int("rate", 100, "Requests per second")
		duration    = flag.String("duration", "30s", "Attack duration (e.g. 10s, 1m)")
		password    = flag.String("password", "password", "Password used for all test users")
		outJSON     = flag.String("out", "vegeta_results.json", "Summary JSON output file")
	)
	flag.Parse()

	attackDuration, err := time.ParseDuration(*duration)
	if err != nil {
		logger.Fatal("invalid duration", "err", err)
	}

	// 登录即注册：首次出现的手机号直接建号，无需单独注册步骤
	tokens := prepareTokens(*baseURL, *users, *password)
	if len(tokens) == 0 {
		logger.Fatal("no tokens prepared; aborting")
	}

	// 轮换 token 的自定义 targeter
	var counter uint64
	targeter := func(t *vegeta.Target) error {
		idx := atomic.AddUint64(&counter, 1) - 1
		token := tokens[idx%uint64(len(tokens))]
		bodyMap := map[string]any{
			"product_slug": *productSlug,
			"fullname":     fmt.Sprintf("LT User %d", idx),
			"phone_number": fmt.Sprintf("99891%07d", idx),
		}
		b, _ := json.Marshal(bodyMap)
		t.Method = http.MethodPost
		t.URL = fmt.Sprintf("%s/api/v1/orders", *baseURL)
		t.Body = b
		t.Header = http.Header{}
		t.Header.Set("Content-Type", "application/json")
		t.Header.Set("Authorization", "Bearer "+token)
		return nil
	}

	attacker := vegeta.NewAttacker()
	var metrics vegeta.Metrics
	successLogical := uint64(0)
	totalLogical := uint64(0)

	for res := range attacker.Attack(targeter, vegeta.Rate{Freq: *rate, Per: time.Second}, attackDuration, "order_test") {
		metrics.Add(res)
		atomic.AddUint64(&totalLogical, 1)
		var or orderResp
		if err := json.Unmarshal(res.Body, &or); err == nil {
			if or.Code == 0 {
				atomic.AddUint64(&successLogical, 1)
			}
		}
	}
	metrics.Close()

	logicalSuccessRatio := float64(successLogical) / float64(max(1, totalLogical))

	summary := map[string]any{
		"attack": map[string]any{
			"rate_rps": *rate,
			"duration": attackDuration.String(),
			"users":    *users,
		},
		"vegeta_metrics": map[string]any{
			"requests":           metrics.Requests,
			"rate":               metrics.Rate,
			"throughput":         metrics.Throughput,
			"success_ratio_http": metrics.Success,
			"latency_mean_ms":    metrics.Latencies.Mean.Seconds() * 1000,
			"latency_p95_ms":     metrics.Latencies.P95.Seconds() * 1000,
			"latency_p99_ms":     metrics.Latencies.P99.Seconds() * 1000,
			"errors":             metrics.Errors,
		},
		"logical_success_ratio": logicalSuccessRatio,
		"logical_success":       successLogical,
		"logical_total":         totalLogical,
		"timestamp":             time.Now().Format(time.RFC3339),
	}

	data, _ := json.MarshalIndent(summary, "", "  ")
	if err := os.WriteFile(*outJSON, data, 0644); err != nil {
		logger.Warn("write summary failed", "err", err)
	}
	fmt.Println(string(data))
}

func prepareTokens(baseURL string, users int, password string) []string {
	tokens := make([]string, 0, users)
	client := &http.Client{Timeout: 5 * time.Second}
	for i := 0; i < users; i++ {
		phone := fmt.Sprintf("99890%07d", i)
		var lr loginResponse
		loginBody := map[string]string{"phone_number": phone, "password": password}
		err := postJSON(client, fmt.Sprintf("%s/api/v1/auth/login", baseURL), loginBody, &lr)
		if err != nil || lr.Token == "" {
			logger.Warn("login failed", "phone", phone, "err", err)
			continue
		}
		tokens = append(tokens, lr.Token)
	}
	return tokens
}

func postJSON(client *http.Client, url string, payload any, out any) error {
	b, _ := json.Marshal(payload)
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		return fmt.Errorf("status %d body %s", resp.StatusCode, string(body))
	}
	if out != nil {
		_ = json.Unmarshal(body, out)
	}
	return nil
}

func max(a, b uint64) uint64 {
	if a > b {
		return a
	}
	return b
}
