package clients

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/valkey-io/valkey-go"
)

var (
	valkeyInstance *ValkeyClient
	valkeyOnce     sync.Once
)

type ValkeyClient struct {
	Client valkey.Client
	mu     sync.Mutex
}

const (
	SESSION_KEY_PREFIX  = "session:"
	SESSION_TTL_SECONDS = 7 * 24 * 60 * 60
)

func newValkeyClient() valkey.Client {
	valkeyAddr := os.Getenv("VALKEY_INIT_ADDRESS")
	valkeyPassword := os.Getenv("VALKEY_PASSWORD")
	useTLS := os.Getenv("VALKEY_TLS") == "true"

	opts := valkey.ClientOption{
		InitAddress: []string{
			valkeyAddr,
		},
		Password:         valkeyPassword,
		ConnWriteTimeout: 5 * time.Second,
		SelectDB:         0,
	}

	if useTLS {
		opts.TLSConfig = &tls.Config{InsecureSkipVerify: false}
	}

	client, err := valkey.NewClient(opts)
	if err != nil {
		panic(fmt.Errorf("[ValkeyClient] failed to create Valkey: %w", err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*3)
	defer cancel()

	c := client.Do(ctx, client.B().Ping().Build())
	if c.Error() != nil {
		panic(fmt.Errorf("[ValkeyClient] failed to ping Valkey: %w", c.Error()))
	}

	slog.Info("[ValkeyClient] Successfully connected to valkey")
	return client
}

func InitValkey() *ValkeyClient {
	valkeyOnce.Do(func() {
		valkeyInstance = &ValkeyClient{Client: newValkeyClient()}
	})
	return valkeyInstance
}

func (vc *ValkeyClient) recreateClient() {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("[ValkeyClient] Recreate failed and was recovered from panic",
				slog.Any("panic", r))
		}
	}()

	vc.mu.Lock()
	defer vc.mu.Unlock()
	slog.Warn("[ValkeyClient] Attempting to recreate Valkey client...")
	vc.Client.Close()
	vc.Client = newValkeyClient()
}

func CloseValkey() {
	if valkeyInstance != nil {
		valkeyInstance.Client.Close()
	}
}

func GetValkeyClient() *ValkeyClient {
	if valkeyInstance == nil {
		panic("[ValkeyClient] Error: Valkey client is not initialized")
	}
	return valkeyInstance
}

// SetSession stores the email behind a session token with a rolling TTL.
func (vc *ValkeyClient) SetSession(ctx context.Context, token, email string) error {
	key := SESSION_KEY_PREFIX + token
	completed := []valkey.Completed{
		vc.Client.B().Set().Key(key).Value(email).Build(),
		vc.Client.B().Expire().Key(key).Seconds(SESSION_TTL_SECONDS).Build(),
	}

	responses := vc.DoMultiWithRetry(ctx, completed, MAX_RETRIES)
	for _, res := range responses {
		if err := res.Error(); err != nil {
			return err
		}
	}
	return nil
}

// GetSessionEmail resolves a session token. A missing token is not an error,
// it just means nobody is signed in, so the lookup is a single attempt.
func (vc *ValkeyClient) GetSessionEmail(ctx context.Context, token string) (string, bool) {
	res := vc.Client.Do(ctx, vc.Client.B().Get().Key(SESSION_KEY_PREFIX+token).Build())

	if err := res.Error(); err != nil {
		if valkey.IsValkeyNil(err) {
			return "", false
		}
		vc.handleCommandError(err)
		return "", false
	}

	email, err := res.ToString()
	if err != nil || email == "" {
		return "", false
	}
	return email, true
}

func (vc *ValkeyClient) DeleteSession(ctx context.Context, token string) error {
	res := vc.DoWithRetry(ctx, vc.Client.B().Del().Key(SESSION_KEY_PREFIX+token).Build(), MAX_RETRIES)
	return res.Error()
}

func (vc *ValkeyClient) DoMultiWithRetry(ctx context.Context, completed []valkey.Completed, retries int) []valkey.ValkeyResult {
	var results []valkey.ValkeyResult

	for i := 0; i < retries; i++ {
		results = vc.Client.DoMulti(ctx, completed...)
		hasErr := false
		for _, r := range results {
			if r.Error() != nil {
				hasErr = true
				slog.Warn("[ValkeyClient] Do Multi failed",
					slog.Int("attempt", i+1),
					slog.String("error", r.Error().Error()))
				vc.handleCommandError(r.Error())
				break
			}
		}
		if !hasErr {
			break
		}
		time.Sleep(INITIAL_BACKOFF)
	}

	return results
}

func (vc *ValkeyClient) DoWithRetry(ctx context.Context, completed valkey.Completed, retries int) valkey.ValkeyResult {
	var result valkey.ValkeyResult
	for i := 0; i < retries; i++ {
		result = vc.Client.Do(ctx, completed)
		if result.Error() == nil {
			break
		}

		slog.Warn("[ValkeyClient] Do failed",
			slog.Int("attempt", i+1),
			slog.String("error", result.Error().Error()))
		vc.handleCommandError(result.Error())

		time.Sleep(INITIAL_BACKOFF)
	}

	return result
}

// handleCommandError discards the client on connection-level failures so the
// next attempt runs against a fresh connection. Command-level errors keep the
// client as is.
func (vc *ValkeyClient) handleCommandError(err error) {
	if isConnectionError(err) {
		vc.recreateClient()
	}
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "EOF") ||
		strings.Contains(msg, "i/o timeout")
}
