package vk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ScrpTrx-Go/GoVKStat/internal/config"
	"github.com/ScrpTrx-Go/GoVKStat/internal/domain/model"
	pkg "github.com/ScrpTrx-Go/GoVKStat/pkg/logger"
	"github.com/cenkalti/backoff/v4"
)

// VK error codes worth another attempt: too many requests per second,
// flood control, internal server error.
var transientCodes = map[int]struct{}{6: {}, 9: {}, 10: {}}

type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	version    string
	retry      config.RetryConfig
	log        pkg.Logger
}

func NewClient(cfg config.VKConfig, log pkg.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   5 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout: 5 * time.Second,
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: cfg.Concurrency,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		baseURL: strings.TrimRight(cfg.APIURL, "/"),
		token:   cfg.AccessToken,
		version: cfg.APIVersion,
		retry:   cfg.Retry,
		log:     log,
	}
}

// WallPage reads up to count posts (capped at PageSize) starting at offset.
func (c *Client) WallPage(ctx context.Context, ownerID int64, offset, count int) (model.WallPage, error) {
	if count <= 0 || count > PageSize {
		count = PageSize
	}
	params := url.Values{}
	params.Set("owner_id", strconv.FormatInt(ownerID, 10))
	params.Set("offset", strconv.Itoa(offset))
	params.Set("count", strconv.Itoa(count))

	var resp wallResponse
	if err := c.call(ctx, "wall.get", params, &resp); err != nil {
		return model.WallPage{}, err
	}
	if resp.Count == nil {
		return model.WallPage{}, fmt.Errorf("%w: wall.get without count", model.ErrMalformedResponse)
	}
	posts, err := toPosts(resp.Items)
	if err != nil {
		return model.WallPage{}, err
	}
	return model.WallPage{Count: *resp.Count, Items: posts}, nil
}

// WallBatch runs BatchScript through execute and returns the pages it read.
func (c *Client) WallBatch(ctx context.Context, ownerID int64, offset int, threshold int64) (model.BatchResult, error) {
	params := url.Values{}
	params.Set("code", BatchScript(ownerID, offset, threshold))

	var groups [][]postWire
	if err := c.call(ctx, "execute", params, &groups); err != nil {
		return model.BatchResult{}, err
	}

	result := model.BatchResult{Offset: offset, Pages: make([][]model.Post, 0, len(groups))}
	for _, group := range groups {
		page, err := toPosts(group)
		if err != nil {
			return model.BatchResult{}, err
		}
		result.Pages = append(result.Pages, page)
	}
	c.log.Debug("Batch fetched", "owner_id", ownerID, "offset", offset, "pages", len(result.Pages), "posts", result.Len())
	return result, nil
}

func (c *Client) call(ctx context.Context, method string, params url.Values, out interface{}) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.retry.InitialInterval
	b.MaxInterval = c.retry.MaxInterval
	b.MaxElapsedTime = 0

	policy := backoff.WithContext(backoff.WithMaxRetries(b, c.retry.MaxRetries), ctx)

	op := func() error {
		err := c.do(ctx, method, params, out)
		if err != nil && !retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}
	notify := func(err error, wait time.Duration) {
		c.log.Warn("VK request failed, retrying", "method", method, "wait", wait.String(), "err", err)
	}
	return backoff.RetryNotify(op, policy, notify)
}

func (c *Client) do(ctx context.Context, method string, params url.Values, out interface{}) error {
	form := url.Values{}
	for k, v := range params {
		form[k] = v
	}
	form.Set("access_token", c.token)
	form.Set("v", c.version)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+method, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", model.ErrRemoteUnavailable, method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &statusError{Method: method, Code: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %s: read body: %v", model.ErrRemoteUnavailable, method, err)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("%w: %s: %v", model.ErrMalformedResponse, method, err)
	}
	if env.Error != nil {
		return &model.APIError{Code: env.Error.Code, Message: env.Error.Message}
	}
	if len(env.ExecuteErrors) > 0 {
		return &model.APIError{Code: env.ExecuteErrors[0].Code, Message: env.ExecuteErrors[0].Message}
	}
	if len(env.Response) == 0 || string(env.Response) == "null" {
		return fmt.Errorf("%w: %s: empty response", model.ErrMalformedResponse, method)
	}
	if err := json.Unmarshal(env.Response, out); err != nil {
		return fmt.Errorf("%w: %s: %v", model.ErrMalformedResponse, method, err)
	}
	return nil
}

type statusError struct {
	Method string
	Code   int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("%s returned status %d", e.Method, e.Code)
}

func (e *statusError) Unwrap() error {
	return model.ErrRemoteUnavailable
}

func retryable(err error) bool {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		_, ok := transientCodes[apiErr.Code]
		return ok
	}
	var statusErr *statusError
	if errors.As(err, &statusErr) {
		return statusErr.Code >= 500 || statusErr.Code == http.StatusTooManyRequests
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return errors.Is(err, model.ErrRemoteUnavailable)
}
