// Package entropy supplies the dice for combat. A random.org client draws
// true random rolls in batches and falls back to crypto/rand when the API is
// unavailable; a seeded die gives repeatable games for tests and replays.
package entropy

import (
	"bytes"
	"crypto/rand"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	mrand "math/rand/v2"
	"net/http"
	"sync"
	"time"
)

// Faces is the number of sides on a combat die.
const Faces = 6

// Endpoint is the random.org JSON-RPC URL.
const Endpoint = "https://api.random.org/json-rpc/4/invoke"

const (
	batchSize = 60
	lowWater  = 5
)

// Client provides die rolls from random.org with a local pool.
type Client struct {
	apiKey   string
	endpoint string
	client   *http.Client

	mu   sync.Mutex
	pool []int
}

// NewClient creates a random.org client. Returns nil if apiKey is empty; a
// nil client still rolls, using crypto/rand.
func NewClient(apiKey string) *Client {
	if apiKey == "" {
		return nil
	}
	return &Client{
		apiKey:   apiKey,
		endpoint: Endpoint,
		client:   &http.Client{Timeout: 15 * time.Second},
	}
}

// WithEndpoint points the client at a different JSON-RPC URL.
func (c *Client) WithEndpoint(url string) *Client {
	if c != nil {
		c.endpoint = url
	}
	return c
}

// Roll returns a die roll in 1..6. Uses the pool, refilling from random.org
// when low. Falls back to crypto/rand on API failure.
func (c *Client) Roll() int {
	if c == nil {
		return cryptoRoll()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.pool) < lowWater {
		if err := c.refill(); err != nil {
			slog.Debug("random.org refill failed", "error", err)
		}
	}

	if len(c.pool) == 0 {
		return cryptoRoll()
	}

	val := c.pool[0]
	c.pool = c.pool[1:]
	return val
}

// Pooled returns how many rolls are buffered.
func (c *Client) Pooled() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pool)
}

func (c *Client) refill() error {
	req := map[string]any{
		"jsonrpc": "2.0",
		"method":  "generateIntegers",
		"params": map[string]any{
			"apiKey":      c.apiKey,
			"n":           batchSize,
			"min":         1,
			"max":         Faces,
			"replacement": true,
		},
		"id": 1,
	}

	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	resp, err := c.client.Post(c.endpoint, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch: status %d", resp.StatusCode)
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read: %w", err)
	}

	var result struct {
		Result struct {
			Random struct {
				Data []int `json:"data"`
			} `json:"random"`
		} `json:"result"`
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}

	if err := json.Unmarshal(respBody, &result); err != nil {
		return fmt.Errorf("parse: %w", err)
	}

	if result.Error != nil {
		return fmt.Errorf("api: %s", result.Error.Message)
	}

	added := 0
	for _, v := range result.Result.Random.Data {
		if v < 1 || v > Faces {
			continue
		}
		c.pool = append(c.pool, v)
		added++
	}
	slog.Debug("random.org pool refilled", "count", added)
	return nil
}

// Enabled returns true if the client has a valid API key.
func (c *Client) Enabled() bool {
	return c != nil && c.apiKey != ""
}

// cryptoRoll draws a die roll from crypto/rand.
func cryptoRoll() int {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// This should never happen; any face is as good as another.
		return 1
	}
	// 2^64 mod 6 is tiny next to 2^64, so the modulo bias is negligible.
	return int(binary.LittleEndian.Uint64(buf[:])%Faces) + 1
}

// CryptoDie rolls from crypto/rand. Its zero value is ready to use.
type CryptoDie struct{}

// Roll returns a die roll in 1..6.
func (CryptoDie) Roll() int { return cryptoRoll() }

// SeededDie is a deterministic die for tests and replays.
type SeededDie struct {
	rng *mrand.Rand
}

// NewSeededDie creates a die whose sequence depends only on seed.
func NewSeededDie(seed int64) *SeededDie {
	return &SeededDie{rng: mrand.New(mrand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))}
}

// Roll returns a die roll in 1..6.
func (d *SeededDie) Roll() int {
	return d.rng.IntN(Faces) + 1
}
