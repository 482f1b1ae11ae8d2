package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/hemalytics/labd/pkg/lab/infrastructure/httpapi"
)

// FeedClient pushes analyzer result batches into a running server over its
// websocket feed endpoint.
type FeedClient struct {
	conn *websocket.Conn
}

// DialFeed logs in with the given lab account and opens the feed
// connection. baseURL is the http(s) address of the server.
func DialFeed(ctx context.Context, baseURL, username, password string) (*FeedClient, error) {
	cookie, err := login(ctx, baseURL, username, password)
	if err != nil {
		return nil, err
	}
	header := http.Header{}
	header.Add("Cookie", cookie.String())
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, wsURL(baseURL)+"/analyzer/feed", header)
	if resp != nil && resp.Body != nil {
		defer resp.Body.Close()
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to open analyzer feed")
	}
	return &FeedClient{conn: conn}, nil
}

func (c *FeedClient) Push(batch httpapi.FeedBatch) (httpapi.FeedAck, error) {
	err := c.conn.WriteJSON(batch)
	if err != nil {
		return httpapi.FeedAck{}, errors.Wrap(err, "failed to push batch")
	}
	var ack httpapi.FeedAck
	err = c.conn.ReadJSON(&ack)
	if err != nil {
		return httpapi.FeedAck{}, errors.Wrap(err, "failed to read ack")
	}
	return ack, nil
}

func (c *FeedClient) Close() error {
	_ = c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	return c.conn.Close()
}

func login(ctx context.Context, baseURL, username, password string) (*http.Cookie, error) {
	body, err := json.Marshal(map[string]string{"username": username, "password": password})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/api/login", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "login request failed")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("login failed with status %v", resp.StatusCode)
	}
	for _, cookie := range resp.Cookies() {
		if cookie.Name == httpapi.SessionCookie {
			return cookie, nil
		}
	}
	return nil, fmt.Errorf("login response carries no %v cookie", httpapi.SessionCookie)
}

func wsURL(baseURL string) string {
	switch {
	case strings.HasPrefix(baseURL, "https://"):
		return "wss://" + strings.TrimPrefix(baseURL, "https://")
	case strings.HasPrefix(baseURL, "http://"):
		return "ws://" + strings.TrimPrefix(baseURL, "http://")
	}
	return baseURL
}
