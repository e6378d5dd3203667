package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/aussiebroadwan/reelhub/internal/connector/domain"
)

const maxResponseBytes = 1 << 20

// endpoint performs JSON calls against one provider with the retry policy
// applied.
type endpoint struct {
	platform domain.Platform
	client   *http.Client
	retry    RetryPolicy
}

func newEndpoint(platform domain.Platform, client *http.Client, retry RetryPolicy) endpoint {
	if client == nil {
		client = http.DefaultClient
	}
	return endpoint{platform: platform, client: client, retry: retry}
}

func (e endpoint) postForm(ctx context.Context, op, rawURL string, form url.Values, out any) error {
	return e.call(ctx, op, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, strings.NewReader(form.Encode()))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return req, nil
	}, out)
}

func (e endpoint) get(ctx context.Context, op, rawURL string, header http.Header, out any) error {
	return e.call(ctx, op, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, err
		}
		for k, v := range header {
			req.Header[k] = v
		}
		return req, nil
	}, out)
}

func (e endpoint) call(
	ctx context.Context,
	op string,
	newRequest func(ctx context.Context) (*http.Request, error),
	out any,
) error {
	return e.retry.Do(ctx, e.platform, op, func(ctx context.Context) error {
		req, err := newRequest(ctx)
		if err != nil {
			return e.fail(KindPermanent, op, 0, err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := e.client.Do(req)
		if err != nil {
			return e.fail(KindTransient, op, 0, stripURL(err))
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
		if err != nil {
			return e.fail(KindTransient, op, resp.StatusCode, err)
		}

		switch {
		case resp.StatusCode >= 500, resp.StatusCode == http.StatusTooManyRequests:
			return e.failBody(KindTransient, op, resp.StatusCode, body)
		case resp.StatusCode >= 400:
			return e.failBody(KindPermanent, op, resp.StatusCode, body)
		}

		if out == nil {
			return nil
		}
		if err := json.Unmarshal(body, out); err != nil {
			return e.fail(KindPermanent, op, resp.StatusCode, fmt.Errorf("malformed response: %w", err))
		}
		return nil
	})
}

func (e endpoint) fail(kind Kind, op string, status int, err error) *Error {
	return &Error{Kind: kind, Platform: e.platform, Op: op, StatusCode: status, Err: err}
}

func (e endpoint) failBody(kind Kind, op string, status int, body []byte) *Error {
	code, desc := parseErrorBody(body)
	return &Error{
		Kind:        kind,
		Platform:    e.platform,
		Op:          op,
		StatusCode:  status,
		Code:        code,
		Description: desc,
	}
}

// stripURL drops the request URL from transport errors; Instagram carries
// tokens in the query string.
func stripURL(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		return fmt.Errorf("%s: %w", ue.Op, ue.Err)
	}
	return err
}

// parseErrorBody understands the error shapes both platforms use:
//
//	{"error": "invalid_grant", "error_description": "..."}
//	{"error": {"code": "access_token_invalid", "message": "..."}}
//	{"error_type": "OAuthException", "error_message": "..."}
func parseErrorBody(body []byte) (code, description string) {
	var raw struct {
		Error            json.RawMessage `json:"error"`
		ErrorDescription string          `json:"error_description"`
		ErrorType        string          `json:"error_type"`
		ErrorMessage     string          `json:"error_message"`
		Message          string          `json:"message"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return "", ""
	}

	code, description = raw.ErrorType, raw.ErrorMessage
	if len(raw.Error) > 0 {
		var s string
		if json.Unmarshal(raw.Error, &s) == nil {
			code = s
		} else {
			var obj struct {
				Code    json.RawMessage `json:"code"`
				Type    string          `json:"type"`
				Message string          `json:"message"`
			}
			if json.Unmarshal(raw.Error, &obj) == nil {
				code = strings.Trim(string(obj.Code), `"`)
				if code == "" {
					code = obj.Type
				}
				description = obj.Message
			}
		}
	}
	if raw.ErrorDescription != "" {
		description = raw.ErrorDescription
	}
	if description == "" {
		description = raw.Message
	}
	return code, description
}
