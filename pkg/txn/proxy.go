package txn

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-faster/errors"
)

const defaultProxyTimeout = 10 * time.Second

// Statement is one entry of a proxy batch.
type Statement struct {
	Query  string `json:"query"`
	Params []any  `json:"params"`
}

type batchRequest struct {
	Statements []Statement `json:"statements"`
}

type batchResponse struct {
	Error string `json:"error,omitempty"`
}

// ProxyRunner implements Runner against a remote execution proxy that has no
// local transaction primitive. Statements recorded during the work callback
// are submitted as one batch which the proxy executes server-side as a single
// transaction.
type ProxyRunner struct {
	endpoint string
	client   *http.Client
	timeout  time.Duration
}

func NewProxyRunner(endpoint string, timeout time.Duration) Runner {
	if timeout <= 0 {
		timeout = defaultProxyTimeout
	}
	return &ProxyRunner{
		endpoint: endpoint,
		client:   &http.Client{},
		timeout:  timeout,
	}
}

func (r *ProxyRunner) RunTx(ctx context.Context, work func(ctx context.Context, s Scope) error) error {
	scope := &recordingScope{}
	if err := work(ctx, scope); err != nil {
		// Nothing was submitted; the unit never existed.
		return err
	}
	if len(scope.statements) == 0 {
		return nil
	}
	return r.submit(ctx, scope.statements)
}

func (r *ProxyRunner) submit(ctx context.Context, statements []Statement) error {
	body, err := json.Marshal(batchRequest{Statements: statements})
	if err != nil {
		return errors.Wrap(err, "encode batch")
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "build batch request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ErrUpstreamTimeout.WithDetails(err.Error())
		}
		return ErrTransactionAborted.WithDetails(err.Error())
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		var parsed batchResponse
		detail := fmt.Sprintf("proxy returned %d", resp.StatusCode)
		if json.Unmarshal(payload, &parsed) == nil && parsed.Error != "" {
			detail = parsed.Error
		}
		return ErrTransactionAborted.WithDetails(detail)
	}
	return nil
}

// recordingScope collects statements instead of executing them. The batch is
// all-or-nothing: a work error means no statement ever reaches the proxy.
type recordingScope struct {
	statements []Statement
}

func (s *recordingScope) Exec(_ context.Context, query string, args ...any) error {
	params := args
	if params == nil {
		params = []any{}
	}
	s.statements = append(s.statements, Statement{Query: query, Params: params})
	return nil
}
