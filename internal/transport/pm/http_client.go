package pm

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/fsdevblog/groph-shop/internal/service"
	"github.com/pkg/errors"
)

const RouteSendMessage = "/api/pm/send"

// HTTPClient реализация Sender поверх HTTP API хост-системы.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewHTTPClient(baseURL string) HTTPClient {
	return HTTPClient{
		baseURL:    baseURL,
		httpClient: http.DefaultClient,
	}
}

type sendMessageRequest struct {
	RecipientID int64  `json:"recipient_id"`
	Subject     string `json:"subject"`
	Body        string `json:"body"`
}

func (c HTTPClient) SendMessage(ctx context.Context, msg service.Message) error {
	payload, marshalErr := json.Marshal(sendMessageRequest{
		RecipientID: msg.RecipientID,
		Subject:     msg.Subject,
		Body:        msg.Body,
	})
	if marshalErr != nil {
		return errors.Wrap(marshalErr, "marshal message")
	}

	url := c.baseURL + RouteSendMessage
	req, reqErr := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if reqErr != nil {
		return errors.Wrap(reqErr, "create request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, doErr := c.httpClient.Do(req)
	if doErr != nil {
		return errors.Wrap(doErr, "do request")
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return NewStatusCodeError(resp.StatusCode)
	}
	return nil
}
