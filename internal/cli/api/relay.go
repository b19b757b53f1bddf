package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

var (
	ErrUnauthorized    = errors.New("relay: unauthorized")
	ErrNotFound        = errors.New("relay: site not found")
	ErrConflict        = errors.New("relay: conflict")
	ErrTooLarge        = errors.New("relay: envelope too large")
	ErrVersionConflict = errors.New("relay: version conflict")
)

// SiteEnvelope - содержимое сайта на relay-сервере.
type SiteEnvelope struct {
	Envelope  string    `json:"envelope"`
	Version   int64     `json:"version"`
	UpdatedAt time.Time `json:"updated_at"`
}

type claimResponse struct {
	Token string `json:"token"`
}

type pushRequest struct {
	Envelope string `json:"envelope"`
	Version  int64  `json:"version"`
}

type pushResponse struct {
	Version int64 `json:"version"`
}

type pingResponse struct {
	Result string `json:"result"`
}

// RelayClient - HTTP‑клиент relay-сервера конвертов.
type RelayClient struct {
	client *resty.Client
}

// NewRelayClient создаёт клиента для serverURL (схема + host:port).
func NewRelayClient(serverURL string, timeout time.Duration) *RelayClient {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	cli := resty.New().
		SetBaseURL(strings.TrimRight(serverURL, "/")).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	return &RelayClient{client: cli}
}

func sitePath(site string) string {
	return "/api/sites/" + url.PathEscape(site)
}

// Ping проверяет доступность сервера и возвращает поле result.
func (c *RelayClient) Ping(ctx context.Context) (string, error) {
	var out pingResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/api/ping")
	if err != nil {
		return "", fmt.Errorf("ping request: %w", err)
	}
	if err := mapHTTPError(resp); err != nil {
		return "", err
	}
	return out.Result, nil
}

// Claim занимает имя сайта и возвращает токен записи.
func (c *RelayClient) Claim(ctx context.Context, site string) (string, error) {
	var out claimResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetResult(&out).
		Post(sitePath(site))
	if err != nil {
		return "", fmt.Errorf("claim request: %w", err)
	}
	if err := mapHTTPError(resp); err != nil {
		return "", err
	}
	if out.Token == "" {
		return "", errors.New("claim: empty token in response")
	}
	return out.Token, nil
}

// Push загружает конверт. version - последняя известная клиенту версия;
// при расхождении сервер отвечает 409 и возвращается ErrVersionConflict.
func (c *RelayClient) Push(ctx context.Context, token, site, envelope string, version int64) (int64, error) {
	var out pushResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetHeader("Content-Type", "application/json").
		SetBody(pushRequest{Envelope: envelope, Version: version}).
		SetResult(&out).
		Put(sitePath(site))
	if err != nil {
		return 0, fmt.Errorf("push request: %w", err)
	}
	if resp.StatusCode() == http.StatusConflict {
		return 0, fmt.Errorf("%w: %s", ErrVersionConflict, strings.TrimSpace(string(resp.Body())))
	}
	if err := mapHTTPError(resp); err != nil {
		return 0, err
	}
	return out.Version, nil
}

// Pull скачивает текущий конверт сайта.
func (c *RelayClient) Pull(ctx context.Context, site string) (SiteEnvelope, error) {
	var out SiteEnvelope
	resp, err := c.client.R().
		SetContext(ctx).
		SetResult(&out).
		Get(sitePath(site))
	if err != nil {
		return SiteEnvelope{}, fmt.Errorf("pull request: %w", err)
	}
	if err := mapHTTPError(resp); err != nil {
		return SiteEnvelope{}, err
	}
	return out, nil
}

func mapHTTPError(resp *resty.Response) error {
	if resp.StatusCode() >= http.StatusOK && resp.StatusCode() < http.StatusMultipleChoices {
		return nil
	}
	body := strings.TrimSpace(string(resp.Body()))
	switch resp.StatusCode() {
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", ErrUnauthorized, body)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, body)
	case http.StatusConflict:
		return fmt.Errorf("%w: %s", ErrConflict, body)
	case http.StatusRequestEntityTooLarge:
		return fmt.Errorf("%w: %s", ErrTooLarge, body)
	default:
		if body == "" {
			body = http.StatusText(resp.StatusCode())
		}
		return fmt.Errorf("http %d: %s", resp.StatusCode(), body)
	}
}
