// Package api is the typed REST client for the chat backend: authentication,
// profile, chat metadata and portfolio lookups. Everything here is thin glue
// over JSON endpoints; the streaming conversation itself rides the websocket.
package api

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/finsight-ai/stockchat-client/internal/auth"
	"github.com/finsight-ai/stockchat-client/internal/model"
	"github.com/finsight-ai/stockchat-client/pkg/logger"
)

// Client calls the REST API. Requests carry the bearer token from the shared
// token store; a successful login refreshes that store.
type Client struct {
	http   *resty.Client
	tokens *auth.TokenStore
	logger *logger.Logger
}

// NewClient creates a REST client for the given base URL.
func NewClient(baseURL string, tokens *auth.TokenStore, log *logger.Logger) *Client {
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(15 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		SetHeader("Accept", "application/json")

	return &Client{
		http:   httpClient,
		tokens: tokens,
		logger: log.WithComponent("api"),
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type apiError struct {
	Error string `json:"error"`
}

// Login exchanges credentials for a bearer token and stores it for both REST
// and websocket use.
func (c *Client) Login(ctx context.Context, email, password string) error {
	var out loginResponse
	var apiErr apiError

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(loginRequest{Email: email, Password: password}).
		SetResult(&out).
		SetError(&apiErr).
		Post("/auth/login")
	if err != nil {
		return fmt.Errorf("login request: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("login failed: %s", errMessage(resp, apiErr))
	}
	if out.Token == "" {
		return fmt.Errorf("login response missing token")
	}

	c.tokens.Set(out.Token)
	c.logger.Info("logged in")
	return nil
}

// Profile fetches the authenticated user's profile.
func (c *Client) Profile(ctx context.Context) (*model.Profile, error) {
	var out model.Profile
	if err := c.get(ctx, "/profile", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListChats fetches the user's chat threads.
func (c *Client) ListChats(ctx context.Context) ([]model.Chat, error) {
	var out struct {
		Chats []model.Chat `json:"chats"`
	}
	if err := c.get(ctx, "/chats", &out); err != nil {
		return nil, err
	}
	return out.Chats, nil
}

// CreateChat creates a new chat thread.
func (c *Client) CreateChat(ctx context.Context, title string) (*model.Chat, error) {
	var out model.Chat
	var apiErr apiError

	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(c.tokens.Token()).
		SetBody(model.CreateChatRequest{Title: title}).
		SetResult(&out).
		SetError(&apiErr).
		Post("/chats")
	if err != nil {
		return nil, fmt.Errorf("create chat request: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("create chat failed: %s", errMessage(resp, apiErr))
	}
	return &out, nil
}

// Portfolio fetches the user's holdings.
func (c *Client) Portfolio(ctx context.Context) ([]model.Holding, error) {
	var out struct {
		Holdings []model.Holding `json:"holdings"`
	}
	if err := c.get(ctx, "/portfolio", &out); err != nil {
		return nil, err
	}
	return out.Holdings, nil
}

// Quote fetches the current quote for one symbol.
func (c *Client) Quote(ctx context.Context, symbol string) (*model.Quote, error) {
	var out model.Quote
	if err := c.get(ctx, "/quotes/"+symbol, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	var apiErr apiError

	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(c.tokens.Token()).
		SetResult(out).
		SetError(&apiErr).
		Get(path)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	if resp.IsError() {
		return fmt.Errorf("GET %s failed: %s", path, errMessage(resp, apiErr))
	}
	return nil
}

func errMessage(resp *resty.Response, apiErr apiError) string {
	if apiErr.Error != "" {
		return apiErr.Error
	}
	return resp.Status()
}
